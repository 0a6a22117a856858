package errors

// ErrorCode identifies an application error category on the wire.
type ErrorCode int32

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_FORBIDDEN        ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1005
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1006

	// Authentication
	ErrorCode_AUTH_INVALID_TOKEN         ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED         ErrorCode = 2001
	ErrorCode_AUTH_INVALID_CREDENTIALS   ErrorCode = 2002
	ErrorCode_AUTH_USER_NOT_FOUND        ErrorCode = 2003
	ErrorCode_AUTH_USER_ALREADY_EXISTS   ErrorCode = 2004
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN ErrorCode = 2005
	ErrorCode_AUTH_OAUTH_FAILED          ErrorCode = 2006

	// Meetings and uploads
	ErrorCode_MEETING_NOT_FOUND       ErrorCode = 3000
	ErrorCode_UPLOAD_MISSING_FILE     ErrorCode = 3001
	ErrorCode_UPLOAD_MISSING_FIELDS   ErrorCode = 3002
	ErrorCode_UPLOAD_INVALID_TYPE     ErrorCode = 3003
	ErrorCode_UPLOAD_TOO_LARGE        ErrorCode = 3004
	ErrorCode_ACTION_ITEM_NOT_FOUND   ErrorCode = 3005
	ErrorCode_VARIANT_NOT_FOUND       ErrorCode = 3006
	ErrorCode_EXPORT_INVALID_TYPE     ErrorCode = 3007
	ErrorCode_DESCRIPTION_NOT_ALLOWED ErrorCode = 3008

	// Pipeline / AI capabilities
	ErrorCode_TRANSCRIPTION_FAILED ErrorCode = 4000
	ErrorCode_EXTRACTION_FAILED    ErrorCode = 4001
	ErrorCode_PROCESSING_FAILED    ErrorCode = 4002

	// Tier gate / billing
	ErrorCode_ALLOWANCE_EXHAUSTED ErrorCode = 5000
	ErrorCode_BILLING_FAILED      ErrorCode = 5001

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED      ErrorCode = 6000
	ErrorCode_INTEGRATION_CACHE_FAILED        ErrorCode = 6001
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED ErrorCode = 6002

	// Database
	ErrorCode_DB_QUERY_FAILED ErrorCode = 7000
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                         "OK",
	ErrorCode_INTERNAL:                        "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                       "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:                  "ALREADY_EXISTS",
	ErrorCode_FORBIDDEN:                       "FORBIDDEN",
	ErrorCode_UNAUTHENTICATED:                 "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:                 "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_TOKEN:              "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:              "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_INVALID_CREDENTIALS:        "AUTH_INVALID_CREDENTIALS",
	ErrorCode_AUTH_USER_NOT_FOUND:             "AUTH_USER_NOT_FOUND",
	ErrorCode_AUTH_USER_ALREADY_EXISTS:        "AUTH_USER_ALREADY_EXISTS",
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN:      "AUTH_INVALID_REFRESH_TOKEN",
	ErrorCode_AUTH_OAUTH_FAILED:               "AUTH_OAUTH_FAILED",
	ErrorCode_MEETING_NOT_FOUND:               "MEETING_NOT_FOUND",
	ErrorCode_UPLOAD_MISSING_FILE:             "UPLOAD_MISSING_FILE",
	ErrorCode_UPLOAD_MISSING_FIELDS:           "UPLOAD_MISSING_FIELDS",
	ErrorCode_UPLOAD_INVALID_TYPE:             "UPLOAD_INVALID_TYPE",
	ErrorCode_UPLOAD_TOO_LARGE:                "UPLOAD_TOO_LARGE",
	ErrorCode_ACTION_ITEM_NOT_FOUND:           "ACTION_ITEM_NOT_FOUND",
	ErrorCode_VARIANT_NOT_FOUND:               "VARIANT_NOT_FOUND",
	ErrorCode_EXPORT_INVALID_TYPE:             "EXPORT_INVALID_TYPE",
	ErrorCode_DESCRIPTION_NOT_ALLOWED:         "DESCRIPTION_NOT_ALLOWED",
	ErrorCode_TRANSCRIPTION_FAILED:            "TRANSCRIPTION_FAILED",
	ErrorCode_EXTRACTION_FAILED:               "EXTRACTION_FAILED",
	ErrorCode_PROCESSING_FAILED:               "PROCESSING_FAILED",
	ErrorCode_ALLOWANCE_EXHAUSTED:             "ALLOWANCE_EXHAUSTED",
	ErrorCode_BILLING_FAILED:                  "BILLING_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED:      "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:        "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED: "INTEGRATION_EXTERNAL_API_FAILED",
	ErrorCode_DB_QUERY_FAILED:                 "DB_QUERY_FAILED",
}

// String returns the symbolic name of the error code.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
