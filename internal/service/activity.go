package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/gastro-routes/internal/errs"
	"github.com/deppfellow/gastro-routes/internal/model"
	"github.com/deppfellow/gastro-routes/internal/sqlerr"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// HomePreviewSize is how many active activities the home page shows.
const HomePreviewSize = 6

type ActivityService struct {
	activities ActivityRepository
}

func NewActivityService(activities ActivityRepository) *ActivityService {
	return &ActivityService{activities: activities}
}

func (s *ActivityService) Create(ctx context.Context, req *model.CreateActivityRequest) (*model.Activity, error) {
	activity, err := s.activities.Create(ctx, req.ToActivity())
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Int64("activity_id", activity.ID).Msg("activity created")

	return activity, nil
}

func (s *ActivityService) List(ctx context.Context, req *model.ListActivitiesRequest) ([]model.Activity, error) {
	return s.activities.List(ctx, req.Filter())
}

func (s *ActivityService) Get(ctx context.Context, id int64) (*model.Activity, error) {
	return s.activities.GetByID(ctx, id)
}

// Update writes only the fields present in the request. An empty request
// returns the stored row untouched.
func (s *ActivityService) Update(ctx context.Context, req *model.UpdateActivityRequest) (*model.Activity, error) {
	return s.activities.Update(ctx, req.ID, req.Changes().Columns())
}

func (s *ActivityService) ToggleActive(ctx context.Context, id int64) (*model.ToggleActivityResponse, error) {
	active, err := s.activities.ToggleActive(ctx, id)
	if err != nil {
		return nil, err
	}

	msg := "Activity deactivated"
	if active {
		msg = "Activity activated"
	}

	zerolog.Ctx(ctx).Info().Int64("activity_id", id).Bool("is_active", active).Msg("activity toggled")

	return &model.ToggleActivityResponse{ID: id, IsActive: active, Message: msg}, nil
}

// Delete removes the activity. Activities with appointments cannot be
// deleted; the conflict suggests deactivating them.
func (s *ActivityService) Delete(ctx context.Context, id int64) (*model.MessageResponse, error) {
	err := s.activities.Delete(ctx, id)
	var httpErr *errs.HTTPError
	if sqlerr.IsRestrictViolation(err) && errors.As(sqlerr.HandleError(err), &httpErr) {
		return nil, httpErr.WithAction(&errs.Action{
			Type:    errs.ActionTypeHint,
			Message: "Deactivate the activity instead",
			Value:   fmt.Sprintf("PATCH /activities/%d/toggle-status", id),
		})
	}
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Int64("activity_id", id).Msg("activity deleted")

	return &model.MessageResponse{Message: "Activity deleted successfully"}, nil
}

// Active lists active activities for the public pages. A limit of zero
// lists all of them.
func (s *ActivityService) Active(ctx context.Context, limit int) ([]model.Activity, error) {
	return s.activities.List(ctx, model.ActivityFilter{Limit: limit, Status: model.ActivityStatusActive})
}

// All lists every activity for the management page.
func (s *ActivityService) All(ctx context.Context) ([]model.Activity, error) {
	return s.activities.List(ctx, model.ActivityFilter{Status: model.ActivityStatusAll})
}
