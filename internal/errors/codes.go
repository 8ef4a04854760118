package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrUnavailable     ErrorCode = "service_unavailable"
	ErrAlreadyRunning  ErrorCode = "already_running"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrMissingConfig   ErrorCode = "missing_configuration"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"

	// Device / invocation errors
	ErrADBUnavailable ErrorCode = "adb_unavailable"
	ErrNoDevice       ErrorCode = "no_device_detected"
	ErrInvalidDevice  ErrorCode = "invalid_device_id"

	// Snapshot errors
	ErrNilRunner     ErrorCode = "snapshot_nil_runner"
	ErrBuildSnapshot ErrorCode = "snapshot_build_failed"

	// Session errors
	ErrSessionStore  ErrorCode = "session_store_failed"
	ErrSessionExport ErrorCode = "session_export_failed"

	// Report errors
	ErrWriteReport ErrorCode = "write_report_failed"

	// Operation errors
	ErrOperationFailed  ErrorCode = "operation_failed"
	ErrTimeout          ErrorCode = "operation_timeout"
	ErrInvalidOperation ErrorCode = "invalid_operation"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:         "Internal error occurred",
	ErrInvalidArgument:  "Invalid argument provided",
	ErrUnavailable:      "Service unavailable",
	ErrAlreadyRunning:   "Another instance is already running",
	ErrInvalidConfig:    "Invalid configuration",
	ErrMissingConfig:    "Missing configuration",
	ErrBindFlags:        "Failed to bind flags",
	ErrReadConfig:       "Failed to read configuration",
	ErrInvalidInterval:  "Invalid interval value",
	ErrInvalidLogLevel:  "Invalid log level",
	ErrInitFailed:       "Initialization failed",
	ErrShutdownFailed:   "Shutdown failed",
	ErrADBUnavailable:   "adb not found; install Android platform tools and add adb to PATH",
	ErrNoDevice:         "No Android device detected; connect and authorize a device",
	ErrInvalidDevice:    "Invalid device identifier",
	ErrNilRunner:        "Snapshot builder requires a command runner",
	ErrBuildSnapshot:    "Failed to build snapshot",
	ErrSessionStore:     "Failed to store session",
	ErrSessionExport:    "Failed to export session",
	ErrWriteReport:      "Failed to write report",
	ErrOperationFailed:  "Operation failed",
	ErrTimeout:          "Operation timed out",
	ErrInvalidOperation: "Invalid operation",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
