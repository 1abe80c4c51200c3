package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/gastro-routes/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TableMarker prefixes the table name inside wrapped "no rows" errors:
//
//	fmt.Errorf("get activity table:activities: %w", sql.ErrNoRows)
const TableMarker = "table:"

var (
	uniqueKeyPattern   = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)
	detailKeyPattern   = regexp.MustCompile(`Key \(([^)]+)\)`)
	constraintMessages = map[string]string{
		"users_email_key": "Email already registered",
	}
)

// ErrCode reports the Code of err, or Other when err is not a database error.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return MapCode(pgerr.Code)
	}

	return Other
}

// ConvertPgError normalizes a driver error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		Detail:         src.Detail,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// RestrictError is a foreign key violation raised while deleting a row of
// Parent that other rows still reference. Only the caller knows which
// direction a 23503 came from, so repositories mark it with Restricted.
type RestrictError struct {
	Parent string
	Err    error
}

func (e *RestrictError) Error() string {
	return fmt.Sprintf("%s row still referenced: %v", singular(e.Parent), e.Err)
}

func (e *RestrictError) Unwrap() error {
	return e.Err
}

// Restricted marks a foreign key violation returned by a DELETE on the
// parent table. Any other error is returned unchanged.
func Restricted(err error, parent string) error {
	if ErrCode(err) != ForeignKeyViolation {
		return err
	}
	return &RestrictError{Parent: parent, Err: err}
}

// IsRestrictViolation reports whether err is a delete blocked by rows
// that still reference the deleted one.
func IsRestrictViolation(err error) bool {
	var restrict *RestrictError
	return errors.As(err, &restrict)
}

// generateErrorCode builds codes such as USER_ALREADY_EXISTS.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(singular(tableName))

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

func formatUserFriendlyMessage(sqlErr *Error) string {
	switch sqlErr.Code {
	case ForeignKeyViolation:
		column := extractColumnForForeignKey(sqlErr)
		return fmt.Sprintf("The referenced %s does not exist", getEntityName(sqlErr.TableName, column))

	case UniqueViolation:
		if msg, ok := constraintMessages[sqlErr.ConstraintName]; ok {
			return msg
		}
		entity := getEntityName(sqlErr.TableName, "")
		if column := extractColumnForUniqueViolation(sqlErr.ConstraintName); column != "" {
			return fmt.Sprintf("A %s with this %s already exists", entity, humanizeText(column))
		}
		return fmt.Sprintf("A %s with this identifier already exists", entity)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		if fieldName := humanizeText(sqlErr.ColumnName); fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName prefers the "<entity>_id" column and falls back to the
// singular table name.
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		return humanizeText(strings.TrimSuffix(strings.ToLower(columnName), "_id"))
	}

	if tableName != "" {
		return humanizeText(singular(tableName))
	}

	return "record"
}

func singular(name string) string {
	lower := strings.ToLower(name)
	if len(name) > 3 && strings.HasSuffix(lower, "ies") {
		return name[:len(name)-3] + "y"
	}
	if len(name) > 1 && strings.HasSuffix(lower, "s") {
		return name[:len(name)-1]
	}
	return name
}

// humanizeText turns "first_name" into "First Name".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation reads the column out of constraint names
// shaped "unique_<table>_<column>" or "<table>_<column>_key".
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if matches := uniqueKeyPattern.FindStringSubmatch(constraintName); len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// extractColumnForForeignKey finds the referencing column. PostgreSQL does
// not fill ColumnName for foreign key errors, so the constraint name
// ("<table>_<column>_fkey") and the detail line are used instead.
func extractColumnForForeignKey(sqlErr *Error) string {
	if sqlErr.ColumnName != "" {
		return sqlErr.ColumnName
	}

	name := sqlErr.ConstraintName
	if strings.HasSuffix(name, "_fkey") && sqlErr.TableName != "" && strings.HasPrefix(name, sqlErr.TableName+"_") {
		return strings.TrimSuffix(strings.TrimPrefix(name, sqlErr.TableName+"_"), "_fkey")
	}

	if matches := detailKeyPattern.FindStringSubmatch(sqlErr.Detail); len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// tableFromError extracts the name following TableMarker, if any.
func tableFromError(err error) string {
	msg := err.Error()
	idx := strings.Index(msg, TableMarker)
	if idx < 0 {
		return ""
	}

	rest := msg[idx+len(TableMarker):]
	if end := strings.Index(rest, ":"); end >= 0 {
		rest = rest[:end]
	}

	return strings.TrimSpace(rest)
}

// HandleError converts a low-level database error into an *errs.HTTPError.
//
//   - *errs.HTTPError values pass through unchanged
//   - deletes marked by Restricted and unique violations become 409 Conflict
//   - missing foreign keys, not-null and check violations become 400
//   - sql.ErrNoRows / pgx.ErrNoRows become 404 "<Entity> not found"
//   - anything else becomes a generic 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var restrict *RestrictError
	if errors.As(err, &restrict) {
		referencing := "records"
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.TableName != "" {
			referencing = pgerr.TableName
		}
		code := strings.ToUpper(singular(restrict.Parent)) + "_IN_USE"
		return errs.NewConflictError(
			fmt.Sprintf("%s is still referenced by existing %s", getEntityName(restrict.Parent, ""), referencing),
			true, &code, nil,
		)
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)
		errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			return errs.NewBadRequestError(formatUserFriendlyMessage(sqlErr), true, &errorCode, nil, nil)

		case UniqueViolation:
			return errs.NewConflictError(formatUserFriendlyMessage(sqlErr), true, &errorCode, nil)

		case NotNullViolation:
			fieldErrors := []errs.FieldError{
				{
					Field: strings.ToLower(sqlErr.ColumnName),
					Error: "is required",
				},
			}
			return errs.NewBadRequestError(formatUserFriendlyMessage(sqlErr), true, &errorCode, fieldErrors, nil)

		case CheckViolation:
			return errs.NewBadRequestError(formatUserFriendlyMessage(sqlErr), true, &errorCode, nil, nil)

		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		if table := tableFromError(err); table != "" {
			return errs.NewNotFoundError(fmt.Sprintf("%s not found", getEntityName(table, "")), true, nil)
		}
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
