// Package validation binds and validates request data.
//
// It uses the `validator` library to enforce rules declared in struct
// tags, understands utils.Optional fields, and converts failures into
// field-level errors the client can act on.
package validation
