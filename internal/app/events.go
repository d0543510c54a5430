package app

import (
	"context"

	"github.com/avesta/hackboard/internal/domain/model"
	"github.com/avesta/hackboard/pkg/logger"
	"github.com/avesta/hackboard/pkg/metrics"

	"github.com/google/uuid"
)

// CreateEventRequest carries the fields accepted at event creation.
type CreateEventRequest struct {
	Info    model.Info     `json:"info"`
	Rubrics []model.Rubric `json:"rubrics,omitempty"`
	Slots   []model.Slot   `json:"slots,omitempty"`
}

// UpdateEventRequest merges top-level fields into an existing document.
// Nil fields are left untouched.
type UpdateEventRequest struct {
	Info    *model.Info     `json:"info,omitempty"`
	Rubrics *[]model.Rubric `json:"rubrics,omitempty"`
	Slots   *[]model.Slot   `json:"slots,omitempty"`
}

// CreateEvent validates the request and stores a new aggregate.
func (s *Service) CreateEvent(ctx context.Context, req CreateEventRequest) (*model.Event, error) {
	if err := req.Info.Validate(); err != nil {
		metrics.RecordValidationFailure("events")
		return nil, err
	}
	if err := model.ValidateRubrics(req.Rubrics); err != nil {
		metrics.RecordValidationFailure("events")
		return nil, err
	}
	if err := model.ValidateSlots(req.Slots); err != nil {
		metrics.RecordValidationFailure("events")
		return nil, err
	}

	now := s.now()
	ev := &model.Event{
		EventID:   uuid.NewString(),
		Info:      req.Info,
		Teams:     []model.Team{},
		Rubrics:   req.Rubrics,
		Judges:    []model.Judge{},
		Slots:     req.Slots,
		Scores:    []model.Score{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.gateway.Create(ctx, ev)
	if err != nil {
		return nil, translateStoreErr(err)
	}

	metrics.RecordEventCreated()
	s.logger.Info(ctx, "event created",
		logger.String("eventID", created.EventID),
		logger.String("name", created.Info.Name),
	)
	return created, nil
}

// GetEvent returns one document snapshot.
func (s *Service) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	return s.loadEvent(ctx, eventID)
}

// ListEvents returns a snapshot of every stored event. No consistency
// guarantee relative to concurrent writers.
func (s *Service) ListEvents(ctx context.Context) ([]*model.Event, error) {
	events, err := s.gateway.ScanAll(ctx)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return events, nil
}

// ListEventsForJudge returns the events where judgeID appears on the roster,
// regardless of approval state.
func (s *Service) ListEventsForJudge(ctx context.Context, judgeID string) ([]*model.Event, error) {
	events, err := s.gateway.ScanAll(ctx)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	out := make([]*model.Event, 0, len(events))
	for _, ev := range events {
		if ev.JudgeByID(judgeID) != nil {
			out = append(out, ev)
		}
	}
	return out, nil
}

// UpdateEvent merges the given top-level fields and writes the document back
// after validating the merged shape.
func (s *Service) UpdateEvent(ctx context.Context, eventID string, req UpdateEventRequest) (*model.Event, error) {
	ev, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if req.Info != nil {
		ev.Info = *req.Info
	}
	if req.Rubrics != nil {
		ev.Rubrics = *req.Rubrics
	}
	if req.Slots != nil {
		ev.Slots = *req.Slots
	}

	if err := ev.Validate(); err != nil {
		metrics.RecordValidationFailure("events")
		return nil, err
	}

	updated, err := s.replace(ctx, ev)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "event updated", logger.String("eventID", eventID))
	return updated, nil
}

// DeleteEvent removes the aggregate; embedded children go with it.
func (s *Service) DeleteEvent(ctx context.Context, eventID string) error {
	if err := s.gateway.Delete(ctx, eventID); err != nil {
		return translateStoreErr(err)
	}
	metrics.RecordEventDeleted()
	s.logger.Info(ctx, "event deleted", logger.String("eventID", eventID))
	return nil
}

// GetRubrics returns the rubric set of one event.
func (s *Service) GetRubrics(ctx context.Context, eventID string) ([]model.Rubric, error) {
	ev, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return ev.Rubrics, nil
}
