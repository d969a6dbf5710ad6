// Package types defines the canonical record shapes written to a scan
// report. Every exported type here round-trips through encoding/json with
// the exact snake_case member names the report format requires; field
// order within each struct is the member order in the serialized object.
package types

// ScanResults is the top-level record written for one scan invocation.
type ScanResults struct {
	ScanMetadata  ScanMetadata `json:"scan_metadata"`
	Artifacts     Artifacts    `json:"artifacts"`
	CollectionLog []LogEntry   `json:"collection_log"`
}

// ScanMetadata describes the scan itself, independent of what it found.
type ScanMetadata struct {
	ScanID            string            `json:"scan_id"`
	ScanStartUTC      string            `json:"scan_start_utc"`
	ScanDurationMS    int64             `json:"scan_duration_ms"`
	Hostname          string            `json:"hostname"`
	OSVersion         string            `json:"os_version"`
	CLIVersion        string            `json:"cli_version"`
	TotalArtifacts    int               `json:"total_artifacts"`
	CollectionSummary CollectionSummary `json:"collection_summary"`
}

// CollectionSummary aggregates the collection log at finalize time.
type CollectionSummary struct {
	TotalLogs    int     `json:"total_logs"`
	ErrorCount   int     `json:"error_count"`
	WarningCount int     `json:"warning_count"`
	SuccessRate  float64 `json:"success_rate"`
}

// Artifacts holds every category of record a scan can produce.
type Artifacts struct {
	SystemInfo            SystemInfo             `json:"system_info"`
	RunningProcesses      []Process              `json:"running_processes"`
	NetworkConnections    []NetworkConnection    `json:"network_connections"`
	PersistenceMechanisms []PersistenceMechanism `json:"persistence_mechanisms"`
	EventLogs             EventLogs              `json:"event_logs"`
	ExecutionEvidence     ExecutionEvidence      `json:"execution_evidence"`
}

// SystemInfo is a point-in-time snapshot of host identity and resources.
type SystemInfo struct {
	Hostname          string          `json:"hostname"`
	OSVersion         string          `json:"os_version"`
	UptimeSeconds     uint64          `json:"uptime_seconds"`
	LoggedOnUsers     []LoggedOnUser  `json:"logged_on_users"`
	TotalMemoryMB     float64         `json:"total_memory_mb"`
	AvailableMemoryMB float64         `json:"available_memory_mb"`
	CPUCount          int             `json:"cpu_count"`
}

// LoggedOnUser is one interactive or service logon session.
type LoggedOnUser struct {
	Username  string `json:"username"`
	Domain    string `json:"domain"`
	LogonTime string `json:"logon_time"`
}

// Process is one running process and its loaded modules.
type Process struct {
	PID            uint32          `json:"pid"`
	ParentPID      uint32          `json:"parent_pid"`
	Name           string          `json:"name"`
	CommandLine    string          `json:"command_line"`
	ExecutablePath string          `json:"executable_path"`
	SHA256Hash     string          `json:"sha256_hash"`
	User           string          `json:"user"`
	MemoryUsageMB  float64         `json:"memory_usage_mb"`
	LoadedModules  []ProcessModule `json:"loaded_modules"`
}

// ProcessModule is one DLL or EXE image mapped into a process's address
// space.
type ProcessModule struct {
	Name           string `json:"name"`
	FilePath       string `json:"file_path"`
	BaseAddress    string `json:"base_address"`
	Size           uint64 `json:"size"`
	Version        string `json:"version"`
	IsSystemModule bool   `json:"is_system_module"`
}

// NetworkConnection is one TCP or UDP connection-table row.
type NetworkConnection struct {
	Protocol     string `json:"protocol"`
	LocalAddress string `json:"local_address"`
	LocalPort    uint16 `json:"local_port"`
	RemoteAddress string `json:"remote_address"`
	RemotePort   uint16 `json:"remote_port"`
	State        string `json:"state"`
	OwningPID    uint32 `json:"owning_pid"`
	ProcessName  string `json:"process_name"`
	IsExternal   bool   `json:"is_external"`
}

// PersistenceMechanism is one autorun configuration entry.
type PersistenceMechanism struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	Command      string `json:"command"`
	Source       string `json:"source"`
	Location     string `json:"location"`
	Value        string `json:"value"`
	IsSuspicious bool   `json:"is_suspicious"`
}

// EventLogEntry is one curated Windows Event Log record.
type EventLogEntry struct {
	EventID   uint32 `json:"event_id"`
	Level     string `json:"level"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
	Source    string `json:"source"`
}

// EventLogs groups the three channels the collector reads.
type EventLogs struct {
	Security    []EventLogEntry `json:"security"`
	System      []EventLogEntry `json:"system"`
	Application []EventLogEntry `json:"application"`
}

// ExecutionEvidence groups Prefetch and Shimcache findings.
type ExecutionEvidence struct {
	PrefetchFiles    []PrefetchFile    `json:"prefetch_files"`
	ShimcacheEntries []ShimcacheEntry  `json:"shimcache_entries"`
}

// PrefetchFile is one parsed `.pf` file.
type PrefetchFile struct {
	Filename        string       `json:"filename"`
	ExecutableName  string       `json:"executable_name"`
	RunCount        uint32       `json:"run_count"`
	LastRunTime     string       `json:"last_run_time"`
	CreationTime    string       `json:"creation_time"`
	FileSize        int64        `json:"file_size"`
	Hash            string       `json:"hash"`
	Version         uint32       `json:"version"`
	ReferencedFiles []string     `json:"referenced_files"`
	Volumes         []VolumeInfo `json:"volumes"`
}

// VolumeInfo is one volume entry recorded inside a Prefetch file.
type VolumeInfo struct {
	DevicePath   string `json:"device_path"`
	VolumeName   string `json:"volume_name"`
	SerialNumber string `json:"serial_number"`
	CreationTime string `json:"creation_time"`
}

// ShimcacheEntry is one decoded AppCompatCache record.
type ShimcacheEntry struct {
	Path          string `json:"path"`
	LastModified  string `json:"last_modified"`
	FileSize      int64  `json:"file_size"`
	LastUpdate    string `json:"last_update"`
	ExecutionFlag bool   `json:"execution_flag"`
}

// LogEntry is one line of the forensic collection log.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// Log levels recorded on a LogEntry.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Sentinel values used in place of null or a missing measurement.
const (
	// NA marks a field that genuinely has no value on this system
	// (no executable path exposed, no command line available).
	NA = "N/A"
	// HashError marks a SHA-256 hash that could not be computed even
	// though an executable path was present.
	HashError = "ERROR"
	// Unknown marks a structured field whose value could not be
	// determined; used instead of null throughout the report.
	Unknown = "Unknown"
)
