// Package model holds the stored entities and the request and response
// shapes exchanged with clients.
package model

import (
	"fmt"

	"github.com/deppfellow/gastro-routes/internal/validation"
)

// DefaultLimit is the page size used when a list request has no limit.
const DefaultLimit = 100

// MaxLimit caps the page size a client can ask for.
const MaxLimit = 1000

// Pagination is embedded in list requests.
type Pagination struct {
	Skip  int `query:"skip" validate:"gte=0"`
	Limit int `query:"limit" validate:"gte=0"`
}

// SetDefaults runs before binding, so values from the query string win.
func (p *Pagination) SetDefaults() {
	p.Limit = DefaultLimit
}

// PageLimit is the limit handed to repositories. A client asking for
// limit=0 gets DefaultLimit, so every client page stays within MaxLimit.
func (p Pagination) PageLimit() int {
	if p.Limit == 0 {
		return DefaultLimit
	}
	return p.Limit
}

func (p Pagination) validatePage() error {
	if p.Limit > MaxLimit {
		return validation.CustomValidationErrors{
			{Field: "limit", Message: fmt.Sprintf("must not exceed %d", MaxLimit)},
		}
	}
	return nil
}

// MessageResponse is returned by operations with nothing else to report.
type MessageResponse struct {
	Message string `json:"message"`
}
