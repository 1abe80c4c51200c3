// Package testutil provides an in-memory stand-in for the PostgreSQL
// repositories. It reports failures with the same error values the real
// database produces, so sqlerr mapping behaves identically in tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/deppfellow/gastro-routes/internal/model"
	"github.com/deppfellow/gastro-routes/internal/repository"
	"github.com/deppfellow/gastro-routes/internal/sqlerr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// Store holds all tables. Use Users, Activities and Appointments to get
// repository views over it.
type Store struct {
	mu sync.Mutex

	users        map[int64]model.User
	activities   map[int64]model.Activity
	appointments map[int64]model.Appointment
	nextID       map[string]int64

	// Now stamps created_at and updated_at.
	Now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:        map[int64]model.User{},
		activities:   map[int64]model.Activity{},
		appointments: map[int64]model.Appointment{},
		nextID:       map[string]int64{},
		Now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Users() *UserRepo               { return &UserRepo{s} }
func (s *Store) Activities() *ActivityRepo      { return &ActivityRepo{s} }
func (s *Store) Appointments() *AppointmentRepo { return &AppointmentRepo{s} }

func (s *Store) id(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

func notFound(table string) error {
	return errors.Wrapf(sql.ErrNoRows, "table:%s", table)
}

func missingReference(column, parent string, id int64) error {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23503",
		Message:        fmt.Sprintf(`insert or update on table "appointments" violates foreign key constraint "appointments_%s_fkey"`, column),
		Detail:         fmt.Sprintf(`Key (%s)=(%d) is not present in table "%s".`, column, id, parent),
		TableName:      "appointments",
		ConstraintName: fmt.Sprintf("appointments_%s_fkey", column),
	}
}

func restricted(parent, column string, id int64) error {
	return sqlerr.Restricted(&pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23503",
		Message:        fmt.Sprintf(`update or delete on table "%s" violates foreign key constraint "appointments_%s_fkey" on table "appointments"`, parent, column),
		Detail:         fmt.Sprintf(`Key (id)=(%d) is still referenced from table "appointments".`, id),
		TableName:      "appointments",
		ConstraintName: fmt.Sprintf("appointments_%s_fkey", column),
	}, parent)
}

func window(n, skip, limit int) (int, int) {
	if skip > n {
		skip = n
	}
	end := n
	if limit > 0 && skip+limit < n {
		end = skip + limit
	}
	return skip, end
}

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u model.NewUser) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return nil, &pgconn.PgError{
				Severity:       "ERROR",
				Code:           "23505",
				Message:        `duplicate key value violates unique constraint "users_email_key"`,
				Detail:         fmt.Sprintf("Key (email)=(%s) already exists.", u.Email),
				TableName:      "users",
				ConstraintName: "users_email_key",
			}
		}
	}

	user := model.User{
		ID:             r.s.id("users"),
		Email:          u.Email,
		Name:           u.Name,
		HashedPassword: u.HashedPassword,
		IsActive:       true,
		CreatedAt:      r.s.Now(),
	}
	r.s.users[user.ID] = user
	return &user, nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, notFound("users")
	}
	return &user, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, user := range r.s.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, notFound("users")
}

func (r *UserRepo) List(_ context.Context, skip, limit int) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users := []model.User{}
	for _, user := range r.s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	from, to := window(len(users), skip, limit)
	return users[from:to], nil
}

func (r *UserRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return notFound("users")
	}
	for _, a := range r.s.appointments {
		if a.UserID == id {
			return restricted("users", "user_id", id)
		}
	}
	delete(r.s.users, id)
	return nil
}

type ActivityRepo struct{ s *Store }

func (r *ActivityRepo) Create(_ context.Context, a model.Activity) (*model.Activity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a.ID = r.s.id("activities")
	r.s.activities[a.ID] = a
	return &a, nil
}

func (r *ActivityRepo) GetByID(_ context.Context, id int64) (*model.Activity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.activities[id]
	if !ok {
		return nil, notFound("activities")
	}
	return &a, nil
}

func (r *ActivityRepo) List(_ context.Context, f model.ActivityFilter) ([]model.Activity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	city := strings.ToLower(f.City)
	activities := []model.Activity{}
	for _, a := range r.s.activities {
		if city != "" && !strings.Contains(strings.ToLower(a.City), city) {
			continue
		}
		if f.Status == model.ActivityStatusActive && !a.IsActive {
			continue
		}
		if f.Status == model.ActivityStatusInactive && a.IsActive {
			continue
		}
		activities = append(activities, a)
	}
	sort.Slice(activities, func(i, j int) bool { return activities[i].ID < activities[j].ID })

	from, to := window(len(activities), f.Skip, f.Limit)
	return activities[from:to], nil
}

// Update writes columns through model.ActivityChanges semantics.
func (r *ActivityRepo) Update(_ context.Context, id int64, columns map[string]any) (*model.Activity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.activities[id]
	if !ok {
		return nil, notFound("activities")
	}

	for col, v := range columns {
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
		default:
			return nil, fmt.Errorf("unknown activities column %q", col)
		}
	}

	r.s.activities[id] = a
	return &a, nil
}

func (r *ActivityRepo) ToggleActive(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.activities[id]
	if !ok {
		return false, notFound("activities")
	}
	a.IsActive = !a.IsActive
	r.s.activities[id] = a
	return a.IsActive, nil
}

func (r *ActivityRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.activities[id]; !ok {
		return notFound("activities")
	}
	for _, a := range r.s.appointments {
		if a.ActivityID == id {
			return restricted("activities", "activity_id", id)
		}
	}
	delete(r.s.activities, id)
	return nil
}

type AppointmentRepo struct{ s *Store }

func (r *AppointmentRepo) Create(_ context.Context, n model.NewAppointment) (*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[n.UserID]; !ok {
		return nil, missingReference("user_id", "users", n.UserID)
	}
	if _, ok := r.s.activities[n.ActivityID]; !ok {
		return nil, missingReference("activity_id", "activities", n.ActivityID)
	}

	now := r.s.Now()
	a := model.Appointment{
		ID:              r.s.id("appointments"),
		UserID:          n.UserID,
		ActivityID:      n.ActivityID,
		AppointmentDate: n.AppointmentDate,
		Status:          model.AppointmentScheduled,
		Notes:           n.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.s.appointments[a.ID] = a
	return &a, nil
}

func (r *AppointmentRepo) GetByID(_ context.Context, id int64) (*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return nil, notFound("appointments")
	}
	return &a, nil
}

func (r *AppointmentRepo) detail(a model.Appointment) model.AppointmentWithDetails {
	user := r.s.users[a.UserID]
	user.HashedPassword = ""
	return model.AppointmentWithDetails{
		Appointment: a,
		Activity:    r.s.activities[a.ActivityID],
		User:        user,
	}
}

func (r *AppointmentRepo) GetDetailed(_ context.Context, id int64) (*model.AppointmentWithDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return nil, notFound("appointments")
	}
	d := r.detail(a)
	return &d, nil
}

func (r *AppointmentRepo) List(_ context.Context, f model.AppointmentFilter) ([]model.AppointmentWithDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	appointments := []model.AppointmentWithDetails{}
	for _, a := range r.s.appointments {
		if f.UserID > 0 && a.UserID != f.UserID {
			continue
		}
		if f.ActivityID > 0 && a.ActivityID != f.ActivityID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		appointments = append(appointments, r.detail(a))
	}
	sort.Slice(appointments, func(i, j int) bool { return appointments[i].ID < appointments[j].ID })

	from, to := window(len(appointments), f.Skip, f.Limit)
	return appointments[from:to], nil
}

func (r *AppointmentRepo) ListByUser(_ context.Context, userID int64) ([]model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	appointments := []model.Appointment{}
	for _, a := range r.s.appointments {
		if a.UserID == userID {
			appointments = append(appointments, a)
		}
	}
	sort.Slice(appointments, func(i, j int) bool { return appointments[i].ID < appointments[j].ID })
	return appointments, nil
}

func (r *AppointmentRepo) Update(_ context.Context, id int64, columns map[string]any, fromStatus model.AppointmentStatus) (*model.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return nil, notFound("appointments")
	}
	if len(columns) == 0 {
		return &a, nil
	}
	if fromStatus != "" && a.Status != fromStatus {
		return nil, repository.ErrStatusChanged
	}

	for col, v := range columns {
		switch col {
		case "appointment_date":
			a.AppointmentDate = v.(time.Time)
		case "status":
			a.Status = model.AppointmentStatus(v.(string))
		case "notes":
			if v == nil {
				a.Notes = nil
			} else {
				s := v.(string)
				a.Notes = &s
			}
		default:
			return nil, fmt.Errorf("unknown appointments column %q", col)
		}
	}
	a.UpdatedAt = r.s.Now()

	r.s.appointments[id] = a
	return &a, nil
}

func (r *AppointmentRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.appointments[id]; !ok {
		return notFound("appointments")
	}
	delete(r.s.appointments, id)
	return nil
}
