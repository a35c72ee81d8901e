package api

// ErrorCode identifies the kind of failure in an ErrorResp.
type ErrorCode uint16

const (
	// ErrCodeGeneric is any error without a more specific code.
	ErrCodeGeneric ErrorCode = iota + 1
	// ErrCodeNoReport means no reconciliation pass has finished yet.
	ErrCodeNoReport
	// ErrCodeManifest means the last pass could not load its manifest.
	ErrCodeManifest
)

// ErrorCodeMap maps an error code to a short description.
var ErrorCodeMap = map[ErrorCode]string{
	ErrCodeGeneric:  "generic error",
	ErrCodeNoReport: "no report available",
	ErrCodeManifest: "manifest could not be loaded",
}

// HTTPError is a single error returned by the status server.
type HTTPError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorResp is the body of every non-2xx status server response.
type ErrorResp struct {
	Errors []HTTPError `json:"errors"`
}
