// Package errs defines the error shapes returned to API clients.
//
// HTTPError is the single wire shape for every failure. Constructors in
// http.go build it for each status the API uses, and FieldError carries
// per-field validation messages.
package errs
