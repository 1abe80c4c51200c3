package model

import (
	"strings"

	"github.com/deppfellow/gastro-routes/internal/lib/utils"
	"github.com/deppfellow/gastro-routes/internal/validation"
)

const (
	DefaultActivityState = "Querétaro"
	DefaultActivityType  = "Tour Gastronómico"
)

// ActivityStatusFilter selects activities by their is_active flag.
type ActivityStatusFilter string

const (
	ActivityStatusAll      ActivityStatusFilter = "all"
	ActivityStatusActive   ActivityStatusFilter = "active"
	ActivityStatusInactive ActivityStatusFilter = "inactive"
)

// Activity is a bookable gastronomic experience.
type Activity struct {
	ID           int64   `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Description  string  `db:"description" json:"description"`
	Duration     string  `db:"duration" json:"duration"`
	Cost         float64 `db:"cost" json:"cost"`
	Location     string  `db:"location" json:"location"`
	City         string  `db:"city" json:"city"`
	State        string  `db:"state" json:"state"`
	ImageURL     *string `db:"image_url" json:"image_url"`
	ActivityType string  `db:"activity_type" json:"activity_type"`
	IsActive     bool    `db:"is_active" json:"is_active"`
}

type CreateActivityRequest struct {
	Name         string   `json:"name" validate:"required,max=255"`
	Description  string   `json:"description" validate:"required"`
	Duration     string   `json:"duration" validate:"required,max=100"`
	Cost         *float64 `json:"cost" validate:"required,gte=0"`
	Location     string   `json:"location" validate:"required,max=255"`
	City         string   `json:"city" validate:"required,max=100"`
	State        string   `json:"state" validate:"omitempty,max=100"`
	ImageURL     *string  `json:"image_url" validate:"omitempty,max=2048"`
	ActivityType string   `json:"activity_type" validate:"omitempty,max=100"`
	IsActive     *bool    `json:"is_active"`
}

func (r *CreateActivityRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	var errs validation.CustomValidationErrors
	for _, f := range []struct{ field, value string }{
		{"name", r.Name},
		{"description", r.Description},
		{"duration", r.Duration},
		{"location", r.Location},
		{"city", r.City},
		{"state", r.State},
		{"activity_type", r.ActivityType},
	} {
		if f.value != "" && strings.TrimSpace(f.value) == "" {
			errs = append(errs, validation.CustomValidationError{Field: f.field, Message: "cannot be empty"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToActivity fills in column defaults for omitted fields.
func (r *CreateActivityRequest) ToActivity() Activity {
	a := Activity{
		Name:         r.Name,
		Description:  r.Description,
		Duration:     r.Duration,
		Location:     r.Location,
		City:         r.City,
		State:        r.State,
		ImageURL:     r.ImageURL,
		ActivityType: r.ActivityType,
		IsActive:     true,
	}
	if r.Cost != nil {
		a.Cost = *r.Cost
	}
	if a.State == "" {
		a.State = DefaultActivityState
	}
	if a.ActivityType == "" {
		a.ActivityType = DefaultActivityType
	}
	if r.IsActive != nil {
		a.IsActive = *r.IsActive
	}
	return a
}

type ListActivitiesRequest struct {
	Pagination
	City   string               `query:"city" validate:"max=100"`
	Status ActivityStatusFilter `query:"status" validate:"omitempty,oneof=active inactive all"`
}

func (r *ListActivitiesRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	return r.validatePage()
}

// ActivityFilter is what the repository understands.
type ActivityFilter struct {
	Skip   int
	Limit  int
	City   string
	Status ActivityStatusFilter
}

func (r *ListActivitiesRequest) Filter() ActivityFilter {
	status := r.Status
	if status == "" {
		status = ActivityStatusAll
	}
	return ActivityFilter{
		Skip:   r.Skip,
		Limit:  r.PageLimit(),
		City:   strings.TrimSpace(r.City),
		Status: status,
	}
}

// ActivityIDRequest addresses a single activity by path id.
type ActivityIDRequest struct {
	ID int64 `param:"id" json:"-" validate:"required,gt=0"`
}

func (r *ActivityIDRequest) Validate() error {
	return validation.Struct(r)
}

// UpdateActivityRequest is a partial update: only fields present in the
// body are written. image_url is the only field that may be null.
type UpdateActivityRequest struct {
	ID           int64                   `param:"id" json:"-" validate:"required,gt=0"`
	Name         utils.Optional[string]  `json:"name" validate:"omitempty,max=255"`
	Description  utils.Optional[string]  `json:"description"`
	Duration     utils.Optional[string]  `json:"duration" validate:"omitempty,max=100"`
	Cost         utils.Optional[float64] `json:"cost" validate:"omitempty,gte=0"`
	Location     utils.Optional[string]  `json:"location" validate:"omitempty,max=255"`
	City         utils.Optional[string]  `json:"city" validate:"omitempty,max=100"`
	State        utils.Optional[string]  `json:"state" validate:"omitempty,max=100"`
	ImageURL     utils.Optional[string]  `json:"image_url" validate:"omitempty,max=2048"`
	ActivityType utils.Optional[string]  `json:"activity_type" validate:"omitempty,max=100"`
	IsActive     utils.Optional[bool]    `json:"is_active"`
}

func (r *UpdateActivityRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	var errs validation.CustomValidationErrors
	requiredText := []struct {
		field string
		value utils.Optional[string]
	}{
		{"name", r.Name},
		{"description", r.Description},
		{"duration", r.Duration},
		{"location", r.Location},
		{"city", r.City},
		{"state", r.State},
		{"activity_type", r.ActivityType},
	}
	for _, f := range requiredText {
		switch {
		case f.value.Null:
			errs = append(errs, validation.CustomValidationError{Field: f.field, Message: "cannot be null"})
		case f.value.Set && strings.TrimSpace(f.value.Value) == "":
			errs = append(errs, validation.CustomValidationError{Field: f.field, Message: "cannot be empty"})
		}
	}
	if r.Cost.Null {
		errs = append(errs, validation.CustomValidationError{Field: "cost", Message: "cannot be null"})
	}
	if r.IsActive.Null {
		errs = append(errs, validation.CustomValidationError{Field: "is_active", Message: "cannot be null"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ActivityChanges holds the columns an update will write.
type ActivityChanges struct {
	Name         utils.Optional[string]
	Description  utils.Optional[string]
	Duration     utils.Optional[string]
	Cost         utils.Optional[float64]
	Location     utils.Optional[string]
	City         utils.Optional[string]
	State        utils.Optional[string]
	ImageURL     utils.Optional[string]
	ActivityType utils.Optional[string]
	IsActive     utils.Optional[bool]
}

func (r *UpdateActivityRequest) Changes() ActivityChanges {
	return ActivityChanges{
		Name:         r.Name,
		Description:  r.Description,
		Duration:     r.Duration,
		Cost:         r.Cost,
		Location:     r.Location,
		City:         r.City,
		State:        r.State,
		ImageURL:     r.ImageURL,
		ActivityType: r.ActivityType,
		IsActive:     r.IsActive,
	}
}

// Columns maps the set fields to column values. A null image_url maps to
// a nil value, which is written as NULL.
func (c ActivityChanges) Columns() map[string]any {
	cols := map[string]any{}

	setString := func(name string, o utils.Optional[string]) {
		if o.Set {
			if o.Null {
				cols[name] = nil
				return
			}
			cols[name] = o.Value
		}
	}

	setString("name", c.Name)
	setString("description", c.Description)
	setString("duration", c.Duration)
	setString("location", c.Location)
	setString("city", c.City)
	setString("state", c.State)
	setString("image_url", c.ImageURL)
	setString("activity_type", c.ActivityType)
	if c.Cost.Present() {
		cols["cost"] = c.Cost.Value
	}
	if c.IsActive.Present() {
		cols["is_active"] = c.IsActive.Value
	}

	return cols
}

// Apply returns a copy of a with the changes written over it.
func (c ActivityChanges) Apply(a Activity) Activity {
	for col, v := range c.Columns() {
		switch col {
		case "name":
			a.Name = v.(string)
		case "description":
			a.Description = v.(string)
		case "duration":
			a.Duration = v.(string)
		case "location":
			a.Location = v.(string)
		case "city":
			a.City = v.(string)
		case "state":
			a.State = v.(string)
		case "activity_type":
			a.ActivityType = v.(string)
		case "cost":
			a.Cost = v.(float64)
		case "is_active":
			a.IsActive = v.(bool)
		case "image_url":
			if v == nil {
				a.ImageURL = nil
			} else {
				s := v.(string)
				a.ImageURL = &s
			}
		}
	}
	return a
}

// ToggleActivityResponse reports the new is_active value.
type ToggleActivityResponse struct {
	ID       int64  `json:"id"`
	IsActive bool   `json:"is_active"`
	Message  string `json:"message"`
}
