package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrAlreadyRunning  ErrorCode = "already_running"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Input availability errors
	ErrLogUnavailable ErrorCode = "device_log_unavailable"
	ErrLogNoReadings  ErrorCode = "device_log_no_readings"
	ErrCSVUnavailable ErrorCode = "telemetry_csv_unavailable"
	ErrCSVNoRows      ErrorCode = "telemetry_csv_no_rows"
	ErrCSVFormat      ErrorCode = "telemetry_csv_format_incompatible"
	ErrNoInput        ErrorCode = "no_input_available"

	// Analysis errors
	ErrLogScan         ErrorCode = "device_log_scan_failed"
	ErrAnalysisTimeout ErrorCode = "analysis_timeout"
	ErrAnalysisFailed  ErrorCode = "analysis_failed"

	// Lifecycle errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidArgument: "Invalid argument provided",
	ErrAlreadyRunning:  "Process is already running",
	ErrInvalidConfig:   "Invalid configuration",
	ErrReadConfig:      "Failed to read config file",
	ErrBindFlags:       "Failed to bind flags",
	ErrInvalidLogLevel: "Invalid log level",
	ErrLogUnavailable:  "Device log not found",
	ErrLogNoReadings:   "No temperature data found in device log",
	ErrCSVUnavailable:  "Telemetry CSV log not found",
	ErrCSVNoRows:       "Telemetry CSV log is empty (only header present)",
	ErrCSVFormat:       "Telemetry CSV format is incompatible",
	ErrNoInput:         "No log data available for analysis",
	ErrLogScan:         "Failed to scan device log",
	ErrAnalysisTimeout: "Analysis timed out",
	ErrAnalysisFailed:  "Analysis failed",
	ErrInitFailed:      "Initialization failed",
	ErrShutdownFailed:  "Shutdown failed",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
