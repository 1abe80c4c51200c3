package errs

import "strings"

// FieldError is a validation message tied to one request field.
//
//	{ "field": "email", "error": "must be a valid email address" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType tells the client what to do next.
type ActionType string

// ActionTypeHint carries a suggested alternative operation in Value.
const ActionTypeHint ActionType = "hint"

// Action is an optional instruction attached to an error.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the JSON body of every error response.
//
// Code is machine friendly ("NOT_FOUND", "USER_ALREADY_EXISTS"), Message is
// for people. Override marks messages that are safe to show verbatim.
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors"`
	Action   *Action      `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is matches any *HTTPError, so errors.Is(err, &HTTPError{}) reports whether
// err is already client facing.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithAction returns a copy of e carrying action.
func (e *HTTPError) WithAction(action *Action) *HTTPError {
	cp := *e
	cp.Action = action
	return &cp
}

// MakeUpperCaseWithUnderscores turns "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
