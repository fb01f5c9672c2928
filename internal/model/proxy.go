// Package model defines shared types for the proxy.
package model

// UpstreamResponse is the fully-read outcome of a single upstream call.
type UpstreamResponse struct {
	StatusCode int
	Body       []byte
}

// KeyIssueResponse is the fixed diagnostic sent to the client when the
// upstream rejects the configured credential with a 401. The frontend was
// built against this exact shape, delivered with a 200 status.
type KeyIssueResponse struct {
	Status        string        `json:"status"`
	Message       string        `json:"message"`
	Details       string        `json:"details"`
	Suggestion    string        `json:"suggestion"`
	OriginalError KeyIssueCause `json:"original_error"`
}

// KeyIssueCause records the upstream status that triggered the diagnostic.
type KeyIssueCause struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewKeyIssueResponse returns the diagnostic payload for an upstream 401.
func NewKeyIssueResponse() KeyIssueResponse {
	return KeyIssueResponse{
		Status:     "error",
		Message:    "API Key Issue - Please contact Mobivate support",
		Details:    "The API key is not working. This could be due to: 1) API key not activated, 2) Account issues, 3) API key expired, or 4) Incorrect format.",
		Suggestion: "Please check your Mobivate dashboard or contact support to resolve the API key issue.",
		OriginalError: KeyIssueCause{
			Code:    401,
			Message: "Unauthorized",
		},
	}
}
