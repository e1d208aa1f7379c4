package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is the wire format version clients pin against.
const envelopeVersion = 1

// Envelope is the uniform response wrapper for every API operation.
// Success responses carry data; error responses carry a message and,
// when available, a machine-readable detail block.
type Envelope struct {
	V           int       `json:"v" doc:"Envelope format version"`
	Success     bool      `json:"success" doc:"Whether the request succeeded"`
	Data        any       `json:"data,omitempty" doc:"Response payload on success"`
	Error       string    `json:"error,omitempty" doc:"Error message on failure"`
	ErrorDetail *APIError `json:"error_detail,omitempty" doc:"Structured error on failure"`
}

// EnvelopeTransformer wraps every response body in the standard
// envelope. Registered as a huma transformer so handlers return bare
// payloads and never see the wrapper.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	code, err := strconv.Atoi(status)
	if err != nil {
		code = 0
	}

	if apiErr, ok := v.(*APIError); ok {
		env := &Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   apiErr.Message,
		}
		if apiErr.Code != "" {
			env.ErrorDetail = apiErr
		}
		return env, nil
	}

	if code >= 400 {
		return &Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   "request failed",
		}, nil
	}

	return &Envelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
