package server

import (
	"encoding/json"
	"net/http"
)

// Problem types.
const (
	problemValidation      = "validation-error"
	problemUpstream        = "upstream-unavailable"
	problemTooManyRequests = "too-many-requests"
	problemInternal        = "internal-error"
)

// Problem is an RFC 7807 error body.
type Problem struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail,omitempty"`
	Instance string       `json:"instance,omitempty"`
	TraceID  string       `json:"traceId,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
}

// FieldError is a validation error on one query parameter.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newProblem(problemType, title string, status int, detail string) *Problem {
	return &Problem{Type: problemType, Title: title, Status: status, Detail: detail}
}

func writeProblem(w http.ResponseWriter, r *http.Request, p *Problem) {
	p.Instance = r.URL.Path
	p.TraceID = GetRequestID(r.Context())
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func badRequest(w http.ResponseWriter, r *http.Request, errs []FieldError) {
	p := newProblem(problemValidation, "Validation error", http.StatusBadRequest, "one or more query parameters are invalid")
	p.Errors = errs
	writeProblem(w, r, p)
}

func badGateway(w http.ResponseWriter, r *http.Request, detail string) {
	writeProblem(w, r, newProblem(problemUpstream, "Upstream unavailable", http.StatusBadGateway, detail))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
