package scanerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{KindAccessDenied, "access denied"},
		{KindSystemAPIError, "system API error"},
		{KindNotFound, "not found"},
		{KindInvalidData, "invalid data"},
		{KindNetworkError, "network error"},
		{KindTimeout, "timeout"},
		{KindUnknown, "unknown error"},
		{ErrorKind(999), "unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "<nil>",
		},
		{
			name: "full error",
			err: &Error{
				Op:     "registry.read_run_keys",
				Kind:   KindNotFound,
				Detail: "Run key not present",
				Err:    fmt.Errorf("key not found"),
			},
			expected: "registry.read_run_keys: Run key not present: key not found",
		},
		{
			name: "kind only",
			err: &Error{
				Kind: KindAccessDenied,
			},
			expected: "access denied",
		},
		{
			name: "with underlying error",
			err: &Error{
				Op:   "process.hash",
				Kind: KindSystemAPIError,
				Err:  fmt.Errorf("file locked"),
			},
			expected: "process.hash: system API error: file locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := fmt.Errorf("underlying error")
	err := &Error{
		Op:   "test",
		Kind: KindUnknown,
		Err:  underlying,
	}

	assert.Equal(t, underlying, err.Unwrap())

	var nilErr *Error
	assert.Nil(t, nilErr.Unwrap())
}

func TestError_Is(t *testing.T) {
	err1 := &Error{Kind: KindNotFound, Op: "test1"}
	err2 := &Error{Kind: KindNotFound, Op: "test2"}
	err3 := &Error{Kind: KindAccessDenied, Op: "test3"}

	assert.True(t, err1.Is(err2), "same kind should match")
	assert.False(t, err1.Is(err3), "different kind should not match")
	assert.False(t, err1.Is(fmt.Errorf("some error")))

	var nilErr *Error
	assert.True(t, nilErr.Is(nil))
}

func TestError_FatalRetryable(t *testing.T) {
	tests := []struct {
		kind      ErrorKind
		fatal     bool
		retryable bool
	}{
		{KindSystemAPIError, true, false},
		{KindInvalidData, true, false},
		{KindNetworkError, false, true},
		{KindTimeout, false, true},
		{KindAccessDenied, false, false},
		{KindNotFound, false, false},
		{KindUnknown, false, false},
	}

	for _, tt := range tests {
		err := &Error{Kind: tt.kind}
		assert.Equal(t, tt.fatal, err.Fatal(), "%v.Fatal()", tt.kind)
		assert.Equal(t, tt.retryable, err.Retryable(), "%v.Retryable()", tt.kind)
	}
}

func TestError_UserMessage(t *testing.T) {
	assert.Equal(t, "Try running as administrator", (&Error{Kind: KindAccessDenied}).UserMessage())
	assert.NotEmpty(t, (&Error{Kind: KindUnknown}).UserMessage())
}

func TestNew(t *testing.T) {
	err := New(KindInvalidData, "shimcache.parse", "unrecognized signature")

	assert.Equal(t, KindInvalidData, err.Kind)
	assert.Equal(t, "shimcache.parse", err.Op)
	assert.Equal(t, "unrecognized signature", err.Detail)
}

func TestWrap(t *testing.T) {
	underlying := fmt.Errorf("permission denied")
	err := Wrap(underlying, KindAccessDenied, "registry.open")

	assert.Equal(t, underlying, err.Err, "wrapped error should preserve underlying error")
	assert.Equal(t, KindAccessDenied, err.Kind)
	assert.Equal(t, "registry.open", err.Op)
}

func TestWrapWithDetail(t *testing.T) {
	underlying := fmt.Errorf("syscall failed")
	err := WrapWithDetail(underlying, KindSystemAPIError, "eventlog.read", "buffer too small")

	assert.Equal(t, "buffer too small", err.Detail)
}

func TestIsKind(t *testing.T) {
	err := &Error{Kind: KindNotFound}
	wrapped := fmt.Errorf("wrapped: %w", err)

	assert.True(t, IsKind(err, KindNotFound))
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(err, KindAccessDenied))
	assert.False(t, IsKind(fmt.Errorf("plain error"), KindNotFound))
}

func TestGetKind(t *testing.T) {
	err := &Error{Kind: KindNetworkError}
	wrapped := fmt.Errorf("wrapped: %w", err)

	kind, ok := GetKind(err)
	require.True(t, ok)
	assert.Equal(t, KindNetworkError, kind)

	kind, ok = GetKind(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindNetworkError, kind)

	_, ok = GetKind(fmt.Errorf("plain error"))
	assert.False(t, ok)
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind ErrorKind
	}{
		{"ErrProcessAccessDenied", ErrProcessAccessDenied, KindAccessDenied},
		{"ErrProcessExited", ErrProcessExited, KindNotFound},
		{"ErrModuleEnumFailed", ErrModuleEnumFailed, KindSystemAPIError},
		{"ErrHashFailed", ErrHashFailed, KindSystemAPIError},
		{"ErrTCPTableUnavailable", ErrTCPTableUnavailable, KindNetworkError},
		{"ErrRegistryKeyNotFound", ErrRegistryKeyNotFound, KindNotFound},
		{"ErrRegistryAccessDenied", ErrRegistryAccessDenied, KindAccessDenied},
		{"ErrScheduledTaskQueryFailed", ErrScheduledTaskQueryFailed, KindSystemAPIError},
		{"ErrEventLogOpenFailed", ErrEventLogOpenFailed, KindAccessDenied},
		{"ErrPrefetchFileCorrupt", ErrPrefetchFileCorrupt, KindInvalidData},
		{"ErrShimcacheSignatureUnknown", ErrShimcacheSignatureUnknown, KindInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			wrapped := Wrap(fmt.Errorf("underlying"), tt.kind, "test")
			assert.True(t, errors.Is(wrapped, tt.err))
		})
	}
}

func TestErrorChain(t *testing.T) {
	underlying := fmt.Errorf("file not found")
	err1 := Wrap(underlying, KindNotFound, "registry.read_run_keys")
	err2 := fmt.Errorf("persistence collection failed: %w", err1)

	assert.True(t, errors.Is(err2, ErrRegistryKeyNotFound))

	var serr *Error
	require.True(t, errors.As(err2, &serr))
	assert.Equal(t, "registry.read_run_keys", serr.Op)

	assert.Equal(t, underlying, errors.Unwrap(err1))
}
