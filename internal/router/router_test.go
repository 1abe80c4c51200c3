package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/gastro-routes/internal/config"
	"github.com/deppfellow/gastro-routes/internal/errs"
	"github.com/deppfellow/gastro-routes/internal/handler"
	"github.com/deppfellow/gastro-routes/internal/model"
	"github.com/deppfellow/gastro-routes/internal/server"
	"github.com/deppfellow/gastro-routes/internal/service"
	"github.com/deppfellow/gastro-routes/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const allowedOrigin = "http://localhost:5173"

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "local"},
			Server:  config.ServerConfig{Port: "8080", CORSAllowedOrigins: []string{allowedOrigin}},
		},
		Logger: &logger,
	}

	store := testutil.NewStore()
	services := service.New(store.Users(), store.Activities(), store.Appointments())

	r, err := NewRouter(s, handler.NewHandlers(s, services))
	require.NoError(t, err)
	return r
}

func do(t *testing.T, r *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const activityBody = `{
	"name": "Ruta del Queso y Vino",
	"description": "Cata en viñedos",
	"duration": "5 horas",
	"cost": 1200,
	"location": "Bernal",
	"city": "Ezequiel Montes"
}`

func createActivity(t *testing.T, r *echo.Echo, body string) model.Activity {
	t.Helper()
	rec := do(t, r, http.MethodPost, "/activities", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.Activity](t, rec)
}

func registerUser(t *testing.T, r *echo.Echo, email string) model.User {
	t.Helper()
	rec := do(t, r, http.MethodPost, "/users/register", fmt.Sprintf(`{"email": %q, "name": "Ana", "password": "gorditas"}`, email))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.User](t, rec)
}

func TestUserRoutes(t *testing.T) {
	r := newTestRouter(t)

	user := registerUser(t, r, "ana@example.mx")
	assert.Equal(t, "ana@example.mx", user.Email)

	t.Run("hash is never returned", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, fmt.Sprintf("/users/%d", user.ID), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")
		assert.Contains(t, rec.Body.String(), `"appointments":[]`)
	})

	t.Run("duplicate email", func(t *testing.T) {
		rec := do(t, r, http.MethodPost, "/users/register", `{"email": "ana@example.mx", "name": "Ana", "password": "x"}`)
		require.Equal(t, http.StatusConflict, rec.Code)

		body := decode[errs.HTTPError](t, rec)
		assert.Equal(t, "USER_ALREADY_EXISTS", body.Code)
		assert.Equal(t, "Email already registered", body.Message)
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := do(t, r, http.MethodPost, "/users/register", `{"email": "not-an-email", "name": "Ana", "password": "x"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decode[errs.HTTPError](t, rec)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "email", body.Errors[0].Field)
	})

	t.Run("login", func(t *testing.T) {
		rec := do(t, r, http.MethodPost, "/users/login", `{"email": "ana@example.mx", "password": "gorditas"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, user.ID, decode[model.LoginResponse](t, rec).UserID)

		rec = do(t, r, http.MethodPost, "/users/login", `{"email": "ana@example.mx", "password": "enchiladas"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Incorrect email or password", decode[errs.HTTPError](t, rec).Message)
	})

	t.Run("list with trailing slash", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/users/?skip=0&limit=10", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]model.User](t, rec), 1)
	})

	t.Run("missing user", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/users/999", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User not found", decode[errs.HTTPError](t, rec).Message)

		rec = do(t, r, http.MethodDelete, "/users/999", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestActivityRoutes(t *testing.T) {
	r := newTestRouter(t)

	created := createActivity(t, r, activityBody)
	assert.True(t, created.IsActive)
	assert.Equal(t, model.DefaultActivityType, created.ActivityType)
	assert.Nil(t, created.ImageURL)

	path := fmt.Sprintf("/activities/%d", created.ID)

	t.Run("round trip", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, created, decode[model.Activity](t, rec))
	})

	t.Run("patch cost only", func(t *testing.T) {
		rec := do(t, r, http.MethodPatch, path, `{"cost": 950.5}`)
		require.Equal(t, http.StatusOK, rec.Code)

		expected := created
		expected.Cost = 950.5
		assert.Equal(t, expected, decode[model.Activity](t, rec))
	})

	t.Run("put sets then clears image", func(t *testing.T) {
		rec := do(t, r, http.MethodPut, path, `{"image_url": "https://img.example/queso.jpg"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, decode[model.Activity](t, rec).ImageURL)

		rec = do(t, r, http.MethodPut, path, `{"image_url": null}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, decode[model.Activity](t, rec).ImageURL)
	})

	t.Run("null name is rejected", func(t *testing.T) {
		rec := do(t, r, http.MethodPatch, path, `{"name": null}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decode[errs.HTTPError](t, rec)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "name", body.Errors[0].Field)
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := do(t, r, http.MethodPatch, path, `{"cost": "cheap"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "BAD_REQUEST", decode[errs.HTTPError](t, rec).Code)
	})

	t.Run("toggle twice", func(t *testing.T) {
		rec := do(t, r, http.MethodPatch, path+"/toggle-status", "")
		require.Equal(t, http.StatusOK, rec.Code)
		first := decode[model.ToggleActivityResponse](t, rec)
		assert.False(t, first.IsActive)
		assert.Equal(t, "Activity deactivated", first.Message)

		rec = do(t, r, http.MethodGet, "/activities?status=active", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())

		rec = do(t, r, http.MethodPatch, path+"/toggle-status", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decode[model.ToggleActivityResponse](t, rec).IsActive)
	})

	t.Run("filters", func(t *testing.T) {
		createActivity(t, r, strings.Replace(activityBody, "Ezequiel Montes", "Tequisquiapan", 1))

		rec := do(t, r, http.MethodGet, "/activities?city=tequis", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]model.Activity](t, rec), 1)

		rec = do(t, r, http.MethodGet, "/activities?limit=1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]model.Activity](t, rec), 1)

		rec = do(t, r, http.MethodGet, "/activities?status=archived", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = do(t, r, http.MethodGet, "/activities?limit=1001", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "limit", decode[errs.HTTPError](t, rec).Errors[0].Field)

		rec = do(t, r, http.MethodGet, "/activities?limit=0", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]model.Activity](t, rec), 2)
	})

	t.Run("missing cost", func(t *testing.T) {
		rec := do(t, r, http.MethodPost, "/activities", `{"name": "a", "description": "b", "duration": "c", "location": "d", "city": "e"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "cost", decode[errs.HTTPError](t, rec).Errors[0].Field)
	})

	t.Run("delete", func(t *testing.T) {
		rec := do(t, r, http.MethodDelete, path, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Activity deleted successfully", decode[model.MessageResponse](t, rec).Message)

		rec = do(t, r, http.MethodDelete, path, "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Activity not found", decode[errs.HTTPError](t, rec).Message)
	})
}

func TestAppointmentRoutes(t *testing.T) {
	r := newTestRouter(t)

	user := registerUser(t, r, "ana@example.mx")
	activity := createActivity(t, r, activityBody)

	body := fmt.Sprintf(`{"activity_id": %d, "appointment_date": "2026-06-01T18:00:00-06:00", "status": "completed"}`, activity.ID)
	rec := do(t, r, http.MethodPost, fmt.Sprintf("/appointments?user_id=%d", user.ID), body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[model.Appointment](t, rec)
	assert.Equal(t, model.AppointmentScheduled, created.Status)
	assert.Equal(t, "2026-06-02T00:00:00Z", created.AppointmentDate.Format("2006-01-02T15:04:05Z07:00"))

	path := fmt.Sprintf("/appointments/%d", created.ID)

	t.Run("user_id is required", func(t *testing.T) {
		rec := do(t, r, http.MethodPost, "/appointments", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "user_id", decode[errs.HTTPError](t, rec).Errors[0].Field)
	})

	t.Run("unknown activity", func(t *testing.T) {
		rec := do(t, r, http.MethodPost, fmt.Sprintf("/appointments?user_id=%d", user.ID), `{"activity_id": 999, "appointment_date": "2026-06-01T18:00:00Z"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "The referenced Activity does not exist", decode[errs.HTTPError](t, rec).Message)
	})

	t.Run("empty update keeps updated_at", func(t *testing.T) {
		rec := do(t, r, http.MethodPut, path, `{}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, created.UpdatedAt.Equal(decode[model.Appointment](t, rec).UpdatedAt))
	})

	t.Run("detail", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code)

		detail := decode[model.AppointmentWithDetails](t, rec)
		assert.Equal(t, activity.Name, detail.Activity.Name)
		assert.Equal(t, user.ID, detail.User.ID)
	})

	t.Run("list by status", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, fmt.Sprintf("/appointments?user_id=%d&status=scheduled", user.ID), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]model.AppointmentWithDetails](t, rec), 1)
	})

	t.Run("cancel then reopen", func(t *testing.T) {
		rec := do(t, r, http.MethodPut, path, `{"status": "cancelled", "notes": null}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, model.AppointmentCancelled, decode[model.Appointment](t, rec).Status)

		rec = do(t, r, http.MethodPut, path, `{"status": "scheduled"}`)
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "APPOINTMENT_INVALID_TRANSITION", decode[errs.HTTPError](t, rec).Code)
	})

	t.Run("activity in use", func(t *testing.T) {
		rec := do(t, r, http.MethodDelete, fmt.Sprintf("/activities/%d", activity.ID), "")
		require.Equal(t, http.StatusConflict, rec.Code)

		body := decode[errs.HTTPError](t, rec)
		require.NotNil(t, body.Action)
		assert.Equal(t, errs.ActionTypeHint, body.Action.Type)
	})

	t.Run("history", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, fmt.Sprintf("/appointments/user/%d/history", user.ID), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]model.AppointmentWithDetails](t, rec), 1)

		rec = do(t, r, http.MethodGet, "/appointments/user/999/history", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})

	t.Run("delete", func(t *testing.T) {
		rec := do(t, r, http.MethodDelete, path, "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = do(t, r, http.MethodGet, path, "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Appointment not found", decode[errs.HTTPError](t, rec).Message)
	})
}

func TestPagesAndSystemRoutes(t *testing.T) {
	r := newTestRouter(t)
	createActivity(t, r, activityBody)

	for _, path := range []string{
		"/", "/dashboard", "/admin/activities", "/activities/view/all",
		"/appointments/view/calendar", "/users/auth/login", "/users/auth/register",
	} {
		t.Run(path, func(t *testing.T) {
			rec := do(t, r, http.MethodGet, path, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
			assert.Contains(t, rec.Body.String(), "Rutas Gastronómicas")
		})
	}

	t.Run("home lists active activities", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/", "")
		assert.Contains(t, rec.Body.String(), "Ruta del Queso y Vino")
	})

	t.Run("docs", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/docs", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "/static/openapi.json")

		rec = do(t, r, http.MethodGet, "/static/openapi.json", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"openapi"`)
	})

	t.Run("health without database", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/status", "")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"unhealthy"`)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := do(t, r, http.MethodGet, "/nowhere", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Route not found", decode[errs.HTTPError](t, rec).Message)
	})

	t.Run("request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/activities", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

		rec = do(t, r, http.MethodGet, "/activities", "")
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("cors allow list", func(t *testing.T) {
		for origin, allowed := range map[string]bool{allowedOrigin: true, "https://evil.example": false} {
			req := httptest.NewRequest(http.MethodGet, "/activities", nil)
			req.Header.Set(echo.HeaderOrigin, origin)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if allowed {
				assert.Equal(t, origin, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
			} else {
				assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
			}
		}
	})
}
