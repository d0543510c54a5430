package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/avesta/hackboard/internal/adapters/notify"
	"github.com/avesta/hackboard/internal/domain/model"
	"github.com/avesta/hackboard/pkg/logger"
	"github.com/avesta/hackboard/pkg/metrics"
)

// RegisterJudge upserts a judge row by identity. Registration always grants
// approval: a new judge is appended as approved, a returning judge has their
// status overwritten to approved, whatever it was before. There is no
// administrative gate before first contact.
func (s *Service) RegisterJudge(ctx context.Context, eventID, judgeID string) (*model.Event, error) {
	if strings.TrimSpace(judgeID) == "" {
		metrics.RecordValidationFailure("judges")
		return nil, fmt.Errorf("%w: judge id is required", model.ErrValidation)
	}

	ev, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if judge := ev.JudgeByID(judgeID); judge != nil {
		judge.Status = model.JudgeApproved
	} else {
		ev.Judges = append(ev.Judges, model.Judge{JudgeID: judgeID, Status: model.JudgeApproved})
	}

	updated, err := s.replace(ctx, ev)
	if err != nil {
		return nil, err
	}

	metrics.RecordJudgeRegistered()
	s.logger.Info(ctx, "judge registered",
		logger.String("eventID", eventID),
		logger.String("judgeID", judgeID),
	)

	// Judge-interest email is a side-channel: enqueue and move on.
	if s.dispatcher != nil {
		s.dispatcher.Enqueue(ctx, notify.Message{
			EventID:   eventID,
			EventName: updated.Info.Name,
			JudgeID:   judgeID,
		})
	}

	return updated, nil
}

// SetJudgeStatus applies the administrative transition. Only approved and
// denied are accepted; an unknown judge fails NotFound without touching the
// document. Re-applying the current status is a no-op that still succeeds.
func (s *Service) SetJudgeStatus(ctx context.Context, eventID, judgeID, status string) (*model.Event, error) {
	parsed, err := model.ParseJudgeStatus(status)
	if err != nil {
		metrics.RecordValidationFailure("judges")
		return nil, err
	}

	ev, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	judge := ev.JudgeByID(judgeID)
	if judge == nil {
		return nil, fmt.Errorf("judge %s: %w", judgeID, ErrNotFound)
	}
	judge.Status = parsed

	updated, err := s.replace(ctx, ev)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "judge status updated",
		logger.String("eventID", eventID),
		logger.String("judgeID", judgeID),
		logger.String("status", string(parsed)),
	)
	return updated, nil
}
