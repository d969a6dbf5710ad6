// Package scanerrors provides predefined sentinel errors for common
// collection failure cases.
package scanerrors

// Process collector errors.
var (
	// ErrProcessAccessDenied indicates OpenProcess failed for a protected
	// or elevated process.
	ErrProcessAccessDenied = &Error{
		Kind:   KindAccessDenied,
		Detail: "access denied opening process",
	}

	// ErrProcessExited indicates the target process exited between
	// enumeration and inspection.
	ErrProcessExited = &Error{
		Kind:   KindNotFound,
		Detail: "process no longer exists",
	}

	// ErrModuleEnumFailed indicates the loaded-module list could not be
	// retrieved for a process.
	ErrModuleEnumFailed = &Error{
		Kind:   KindSystemAPIError,
		Detail: "failed to enumerate process modules",
	}

	// ErrHashFailed indicates the executable image could not be hashed
	// (file locked, deleted on disk, or unreadable).
	ErrHashFailed = &Error{
		Kind:   KindSystemAPIError,
		Detail: "failed to hash executable image",
	}
)

// Network collector errors.
var (
	// ErrTCPTableUnavailable indicates GetExtendedTcpTable failed.
	ErrTCPTableUnavailable = &Error{
		Kind:   KindNetworkError,
		Detail: "failed to retrieve TCP connection table",
	}

	// ErrUDPTableUnavailable indicates GetExtendedUdpTable failed.
	ErrUDPTableUnavailable = &Error{
		Kind:   KindNetworkError,
		Detail: "failed to retrieve UDP connection table",
	}
)

// Persistence collector errors.
var (
	// ErrRegistryKeyNotFound indicates an expected autorun key is absent.
	ErrRegistryKeyNotFound = &Error{
		Kind:   KindNotFound,
		Detail: "registry key not found",
	}

	// ErrRegistryAccessDenied indicates a hive could not be opened under
	// the current process token.
	ErrRegistryAccessDenied = &Error{
		Kind:   KindAccessDenied,
		Detail: "access denied reading registry",
	}

	// ErrScheduledTaskQueryFailed indicates the schtasks subprocess
	// failed or returned unparsable output.
	ErrScheduledTaskQueryFailed = &Error{
		Kind:   KindSystemAPIError,
		Detail: "failed to query scheduled tasks",
	}

	// ErrWMIQueryFailed indicates the best-effort WMI event-consumer
	// query could not complete (COM init failure, namespace absent).
	ErrWMIQueryFailed = &Error{
		Kind:   KindSystemAPIError,
		Detail: "failed to query WMI event consumers",
	}
)

// Event log collector errors.
var (
	// ErrEventLogOpenFailed indicates OpenEventLogW failed for a channel.
	ErrEventLogOpenFailed = &Error{
		Kind:   KindAccessDenied,
		Detail: "failed to open event log",
	}

	// ErrEventLogReadFailed indicates ReadEventLogW failed mid-read.
	ErrEventLogReadFailed = &Error{
		Kind:   KindSystemAPIError,
		Detail: "failed to read event log records",
	}
)

// Prefetch/Shimcache collector errors.
var (
	// ErrPrefetchDirUnavailable indicates the prefetch directory could
	// not be listed (disabled prefetching, access denied).
	ErrPrefetchDirUnavailable = &Error{
		Kind:   KindNotFound,
		Detail: "prefetch directory not found",
	}

	// ErrPrefetchFileCorrupt indicates a .pf file was too short to
	// contain its fixed-offset header fields.
	ErrPrefetchFileCorrupt = &Error{
		Kind:   KindInvalidData,
		Detail: "prefetch file truncated or corrupt",
	}

	// ErrShimcacheKeyNotFound indicates no AppCompatCache value could be
	// read at one of the known locations.
	ErrShimcacheKeyNotFound = &Error{
		Kind:   KindNotFound,
		Detail: "AppCompatCache registry value not found",
	}

	// ErrShimcacheSignatureUnknown indicates the cache header did not
	// match any known OS signature.
	ErrShimcacheSignatureUnknown = &Error{
		Kind:   KindInvalidData,
		Detail: "unrecognized AppCompatCache signature",
	}
)

// Output errors.
var (
	// ErrOutputPathInvalid indicates the destination path's parent
	// directory could not be created or is not writable.
	ErrOutputPathInvalid = &Error{
		Kind:   KindInvalidData,
		Detail: "invalid output path",
	}

	// ErrOutputWriteFailed indicates the report could not be written in
	// full to its destination.
	ErrOutputWriteFailed = &Error{
		Kind:   KindSystemAPIError,
		Detail: "failed to write scan report",
	}
)
