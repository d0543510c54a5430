// Package model contains the event aggregate and its embedded records.
//
// The Event document is the unit of storage and update: every embedded
// collection (teams, rubrics, judges, slots, scores) travels with it through
// a read, mutate, replace cycle. All records are typed and validated here at
// the boundary rather than duck-typed at read time.
package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TeamSize is the required number of members on a roster.
const TeamSize = 4

// emailRx matches the minimal email shape required for roster members.
var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// JudgeStatus is the approval state of a judge within an event.
type JudgeStatus string

// Judge approval states.
const (
	JudgePending  JudgeStatus = "pending"
	JudgeApproved JudgeStatus = "approved"
	JudgeDenied   JudgeStatus = "denied"
)

// ParseJudgeStatus validates an administrative status value. Only approved
// and denied are assignable through the admin transition; pending exists
// solely as a possible pre-existing state.
func ParseJudgeStatus(s string) (JudgeStatus, error) {
	switch JudgeStatus(s) {
	case JudgeApproved, JudgeDenied:
		return JudgeStatus(s), nil
	default:
		return "", fmt.Errorf("%w: status must be %q or %q, got %q", ErrValidation, JudgeApproved, JudgeDenied, s)
	}
}

// Info carries the descriptive fields of an event.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        string `json:"date,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Validate checks the required descriptive fields.
func (i Info) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("%w: event name is required", ErrValidation)
	}
	if strings.TrimSpace(i.Description) == "" {
		return fmt.Errorf("%w: event description is required", ErrValidation)
	}
	return nil
}

// Team is a registered roster embedded in an event.
type Team struct {
	TeamID         string   `json:"team_id"`
	TeamName       string   `json:"team_name"`
	Members        []string `json:"members"`
	SlotPreference int      `json:"slot_preference,omitempty"`
	SubmissionLink string   `json:"submission_link,omitempty"`
}

// Validate checks the roster shape: non-empty name, exactly TeamSize
// email-shaped members.
func (t Team) Validate() error {
	if strings.TrimSpace(t.TeamName) == "" {
		return fmt.Errorf("%w: team name is required", ErrValidation)
	}
	if len(t.Members) != TeamSize {
		return fmt.Errorf("%w: team must have exactly %d members, got %d", ErrValidation, TeamSize, len(t.Members))
	}
	for _, m := range t.Members {
		if !emailRx.MatchString(m) {
			return fmt.Errorf("%w: member %q is not a valid email address", ErrValidation, m)
		}
	}
	return nil
}

// Rubric is a weighted scoring criterion fixed at event create/update time.
type Rubric struct {
	RubricID string  `json:"rubric_id"`
	Name     string  `json:"name"`
	MaxScore float64 `json:"max_score"`
	Weight   float64 `json:"weight"`
}

// Validate checks the rubric structure.
func (r Rubric) Validate() error {
	if strings.TrimSpace(r.RubricID) == "" {
		return fmt.Errorf("%w: rubric id is required", ErrValidation)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: rubric %s: name is required", ErrValidation, r.RubricID)
	}
	if r.MaxScore <= 0 {
		return fmt.Errorf("%w: rubric %s: max score must be positive", ErrValidation, r.RubricID)
	}
	if r.Weight < 0 {
		return fmt.Errorf("%w: rubric %s: weight must not be negative", ErrValidation, r.RubricID)
	}
	return nil
}

// Judge is an embedded judge row with its approval state.
type Judge struct {
	JudgeID string      `json:"judge_id"`
	Status  JudgeStatus `json:"status"`
}

// Slot is a presentation time slot embedded in an event.
type Slot struct {
	SlotNumber int    `json:"slot_number"`
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
	Location   string `json:"location,omitempty"`
}

// Score is one judge's score for one team against one rubric. At most one
// live entry exists per (judge, team, rubric) key; resubmission replaces it.
type Score struct {
	JudgeID   string    `json:"judge_id"`
	TeamID    string    `json:"team_id"`
	RubricID  string    `json:"rubric_id"`
	Score     float64   `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// Key returns the replacement key for the score entry.
func (s Score) Key() string {
	return s.JudgeID + "|" + s.TeamID + "|" + s.RubricID
}

// Event is the root aggregate document for one competition instance.
type Event struct {
	EventID   string    `json:"event_id"`
	Version   int64     `json:"version"`
	Info      Info      `json:"info"`
	Teams     []Team    `json:"teams"`
	Rubrics   []Rubric  `json:"rubrics"`
	Judges    []Judge   `json:"judges"`
	Slots     []Slot    `json:"slots"`
	Scores    []Score   `json:"scores"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TeamByID returns the team with the given id, or nil.
func (e *Event) TeamByID(teamID string) *Team {
	for i := range e.Teams {
		if e.Teams[i].TeamID == teamID {
			return &e.Teams[i]
		}
	}
	return nil
}

// JudgeByID returns the judge with the given id, or nil.
func (e *Event) JudgeByID(judgeID string) *Judge {
	for i := range e.Judges {
		if e.Judges[i].JudgeID == judgeID {
			return &e.Judges[i]
		}
	}
	return nil
}

// RubricByID returns the rubric with the given id, or nil.
func (e *Event) RubricByID(rubricID string) *Rubric {
	for i := range e.Rubrics {
		if e.Rubrics[i].RubricID == rubricID {
			return &e.Rubrics[i]
		}
	}
	return nil
}

// HasSlot reports whether slotNumber references an existing slot.
func (e *Event) HasSlot(slotNumber int) bool {
	for _, s := range e.Slots {
		if s.SlotNumber == slotNumber {
			return true
		}
	}
	return false
}

// ValidateRubrics checks each rubric structurally and rejects duplicate ids.
func ValidateRubrics(rubrics []Rubric) error {
	seen := make(map[string]struct{}, len(rubrics))
	for _, r := range rubrics {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, dup := seen[r.RubricID]; dup {
			return fmt.Errorf("%w: duplicate rubric id %s", ErrValidation, r.RubricID)
		}
		seen[r.RubricID] = struct{}{}
	}
	return nil
}

// ValidateSlots rejects duplicate slot numbers.
func ValidateSlots(slots []Slot) error {
	seen := make(map[int]struct{}, len(slots))
	for _, s := range slots {
		if _, dup := seen[s.SlotNumber]; dup {
			return fmt.Errorf("%w: duplicate slot number %d", ErrValidation, s.SlotNumber)
		}
		seen[s.SlotNumber] = struct{}{}
	}
	return nil
}

// Validate checks the whole aggregate shape. Used when a merged document is
// about to be written.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.EventID) == "" {
		return fmt.Errorf("%w: event id is required", ErrValidation)
	}
	if err := e.Info.Validate(); err != nil {
		return err
	}
	if err := ValidateRubrics(e.Rubrics); err != nil {
		return err
	}
	if err := ValidateSlots(e.Slots); err != nil {
		return err
	}
	return nil
}

// Clone returns a deep copy of the event. Stores hand out and accept copies
// so callers can never alias stored state.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	out := *e
	out.Teams = make([]Team, len(e.Teams))
	for i, t := range e.Teams {
		out.Teams[i] = t
		out.Teams[i].Members = append([]string(nil), t.Members...)
	}
	out.Rubrics = append([]Rubric(nil), e.Rubrics...)
	out.Judges = append([]Judge(nil), e.Judges...)
	out.Slots = append([]Slot(nil), e.Slots...)
	out.Scores = append([]Score(nil), e.Scores...)
	return &out
}
