package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// Codes are grouped by module prefix: COMMON, VEH (vehicle records),
// CMP (comparison engine) and CFG (configuration).
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal      ErrorCode = "COMMON_001"
	ErrCodeBadRequest    ErrorCode = "COMMON_002"
	ErrCodeNotFound      ErrorCode = "COMMON_005"
	ErrCodeTimeout       ErrorCode = "COMMON_009"
	ErrCodeValidation    ErrorCode = "COMMON_010"
	ErrCodeSerialization ErrorCode = "COMMON_011"
)

// Short aliases used at call sites.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("")
)

// Vehicle Record Error Codes
const (
	ErrCodeVehicleRecordInvalid  ErrorCode = "VEH_001"
	ErrCodeVehicleDecodeFailed   ErrorCode = "VEH_002"
	ErrCodeVehicleBaseMissing    ErrorCode = "VEH_003"
	ErrCodeFuelPriceTableInvalid ErrorCode = "VEH_004"
)

// Comparison Engine Error Codes
const (
	ErrCodeComparisonFailed       ErrorCode = "CMP_001"
	ErrCodeNoCompetitors          ErrorCode = "CMP_002"
	ErrCodeAdvantageModeInvalid   ErrorCode = "CMP_004"
	ErrCodeReportCacheUnavailable ErrorCode = "CMP_005"
)

// Configuration Error Codes
const (
	ErrCodeConfigInvalid ErrorCode = "CFG_001"
	ErrCodeConfigLoad    ErrorCode = "CFG_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeTimeout:       http.StatusGatewayTimeout,
	ErrCodeValidation:    http.StatusUnprocessableEntity,
	ErrCodeSerialization: http.StatusInternalServerError,

	ErrCodeVehicleRecordInvalid:  http.StatusBadRequest,
	ErrCodeVehicleDecodeFailed:   http.StatusBadRequest,
	ErrCodeVehicleBaseMissing:    http.StatusBadRequest,
	ErrCodeFuelPriceTableInvalid: http.StatusInternalServerError,

	ErrCodeComparisonFailed:       http.StatusInternalServerError,
	ErrCodeNoCompetitors:          http.StatusUnprocessableEntity,
	ErrCodeAdvantageModeInvalid:   http.StatusBadRequest,
	ErrCodeReportCacheUnavailable: http.StatusServiceUnavailable,

	ErrCodeConfigInvalid: http.StatusInternalServerError,
	ErrCodeConfigLoad:    http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:      "internal server error",
	ErrCodeBadRequest:    "bad request",
	ErrCodeNotFound:      "resource not found",
	ErrCodeTimeout:       "request timeout",
	ErrCodeValidation:    "validation failed",
	ErrCodeSerialization: "serialization failed",

	ErrCodeVehicleRecordInvalid:  "invalid vehicle record",
	ErrCodeVehicleDecodeFailed:   "failed to decode vehicle record",
	ErrCodeVehicleBaseMissing:    "base vehicle is required",
	ErrCodeFuelPriceTableInvalid: "invalid fuel price table",

	ErrCodeComparisonFailed:       "comparison failed",
	ErrCodeNoCompetitors:          "no competitors left to compare",
	ErrCodeAdvantageModeInvalid:   "unsupported advantage mode",
	ErrCodeReportCacheUnavailable: "report cache unavailable",

	ErrCodeConfigInvalid: "invalid configuration",
	ErrCodeConfigLoad:    "failed to load configuration",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 1 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
