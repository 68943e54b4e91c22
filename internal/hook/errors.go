package hook

import "github.com/adaptiveflow/zbdiag/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrorCode("hook_invalid_config")

	// Analysis Errors
	ErrAnalysisTimeout = errors.ErrorCode("hook_analysis_timeout")
	ErrAnalysisFailed  = errors.ErrorCode("hook_analysis_failed")

	// Moonraker Errors
	ErrMoonrakerRequest = errors.ErrorCode("hook_moonraker_request_failed")
	ErrMoonrakerStatus  = errors.ErrorCode("hook_moonraker_bad_status")

	// Server Errors
	ErrServerFailed = errors.ErrorCode("hook_server_failed")
)
