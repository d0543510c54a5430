package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avesta/hackboard/internal/adapters/deposit"
	"github.com/avesta/hackboard/internal/adapters/identity"
	"github.com/avesta/hackboard/internal/adapters/store"
	"github.com/avesta/hackboard/internal/app"
	"github.com/avesta/hackboard/internal/domain/ledger"
	"github.com/avesta/hackboard/internal/domain/model"
	"github.com/avesta/hackboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func newService(t *testing.T, opts ...app.Option) *app.Service {
	t.Helper()
	if err := logger.Init(); err != nil {
		t.Fatalf("init logger: %v", err)
	}
	svc := app.New(append([]app.Option{app.WithGateway(store.NewMemoryGateway())}, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func createFixtureEvent(svc *app.Service) (*model.Event, error) {
	return svc.CreateEvent(context.Background(), app.CreateEventRequest{
		Info: model.Info{Name: "Hack Day", Description: "annual hack day"},
		Rubrics: []model.Rubric{
			{RubricID: "impact", Name: "Impact", MaxScore: 10, Weight: 1},
			{RubricID: "demo", Name: "Demo", MaxScore: 5, Weight: 0.5},
		},
		Slots: []model.Slot{{SlotNumber: 1}, {SlotNumber: 2}},
	})
}

func roster(prefix string) []string {
	return []string{
		prefix + "1@example.com",
		prefix + "2@example.com",
		prefix + "3@example.com",
		prefix + "4@example.com",
	}
}

func TestCreateAndFetchEvent(t *testing.T) {
	Convey("Given a started orchestrator", t, func() {
		svc := newService(t)
		ctx := context.Background()

		Convey("When creating a valid event", func() {
			ev, err := createFixtureEvent(svc)

			Convey("Then the document is stored with a generated id", func() {
				So(err, ShouldBeNil)
				So(ev.EventID, ShouldNotBeEmpty)
				So(ev.Version, ShouldEqual, 1)

				got, err := svc.GetEvent(ctx, ev.EventID)
				So(err, ShouldBeNil)
				So(got.Info.Name, ShouldEqual, "Hack Day")
			})
		})

		Convey("When creating without a name", func() {
			_, err := svc.CreateEvent(ctx, app.CreateEventRequest{
				Info: model.Info{Description: "no name"},
			})

			Convey("Then creation fails validation", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When fetching an unknown event", func() {
			_, err := svc.GetEvent(ctx, "missing")

			Convey("Then it reports not found", func() {
				So(errors.Is(err, store.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestUpdateAndDeleteEvent(t *testing.T) {
	Convey("Given a stored event", t, func() {
		svc := newService(t)
		ctx := context.Background()
		ev, err := createFixtureEvent(svc)
		So(err, ShouldBeNil)

		Convey("When merging new info", func() {
			info := ev.Info
			info.Location = "Hall B"
			updated, err := svc.UpdateEvent(ctx, ev.EventID, app.UpdateEventRequest{Info: &info})

			Convey("Then the merged document is written and versioned", func() {
				So(err, ShouldBeNil)
				So(updated.Info.Location, ShouldEqual, "Hall B")
				So(updated.Version, ShouldEqual, 2)
				So(updated.Rubrics, ShouldHaveLength, 2) // untouched fields survive
			})
		})

		Convey("When the merged shape is invalid", func() {
			bad := []model.Rubric{{RubricID: "x", Name: "X", MaxScore: 0, Weight: 1}}
			_, err := svc.UpdateEvent(ctx, ev.EventID, app.UpdateEventRequest{Rubrics: &bad})

			Convey("Then the update is rejected and nothing is written", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
				got, err := svc.GetEvent(ctx, ev.EventID)
				So(err, ShouldBeNil)
				So(got.Version, ShouldEqual, 1)
			})
		})

		Convey("When deleting the event", func() {
			So(svc.DeleteEvent(ctx, ev.EventID), ShouldBeNil)

			Convey("Then it is gone along with its children", func() {
				_, err := svc.GetEvent(ctx, ev.EventID)
				So(errors.Is(err, store.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestRegisterTeam(t *testing.T) {
	Convey("Given a stored event with slots", t, func() {
		svc := newService(t)
		ctx := context.Background()
		ev, err := createFixtureEvent(svc)
		So(err, ShouldBeNil)

		Convey("When registering four well-formed members", func() {
			teamID, updated, err := svc.RegisterTeam(ctx, ev.EventID, app.RegisterTeamRequest{
				TeamName: "Alpha",
				Members:  roster("a"),
			})

			Convey("Then a fresh team id is returned and the team appended", func() {
				So(err, ShouldBeNil)
				So(teamID, ShouldNotBeEmpty)
				So(updated.TeamByID(teamID), ShouldNotBeNil)
			})

			Convey("And re-registering the identical roster appends another row", func() {
				secondID, updated2, err := svc.RegisterTeam(ctx, ev.EventID, app.RegisterTeamRequest{
					TeamName: "Alpha",
					Members:  roster("a"),
				})
				So(err, ShouldBeNil)
				So(secondID, ShouldNotEqual, teamID)
				So(updated2.Teams, ShouldHaveLength, 2)
			})
		})

		Convey("When registering three members", func() {
			_, _, err := svc.RegisterTeam(ctx, ev.EventID, app.RegisterTeamRequest{
				TeamName: "Trio",
				Members:  roster("b")[:3],
			})

			Convey("Then registration fails validation", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When the slot preference does not exist", func() {
			_, _, err := svc.RegisterTeam(ctx, ev.EventID, app.RegisterTeamRequest{
				TeamName:       "Ghost slot",
				Members:        roster("c"),
				SlotPreference: 99,
			})

			Convey("Then registration fails validation", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When the slot preference exists", func() {
			_, updated, err := svc.RegisterTeam(ctx, ev.EventID, app.RegisterTeamRequest{
				TeamName:       "Slotted",
				Members:        roster("d"),
				SlotPreference: 2,
			})

			Convey("Then the preference is recorded", func() {
				So(err, ShouldBeNil)
				So(updated.Teams[0].SlotPreference, ShouldEqual, 2)
			})
		})
	})
}

func TestRegisterTeamWithIdentityLookup(t *testing.T) {
	Convey("Given an orchestrator with an identity lookup", t, func() {
		lookup := identity.NewStaticLookup(identity.WithEmails(map[string]string{
			"s1": "s1@school.edu",
			"s2": "s2@school.edu",
		}))
		svc := newService(t, app.WithIdentityLookup(lookup))
		ctx := context.Background()
		ev, err := createFixtureEvent(svc)
		So(err, ShouldBeNil)

		Convey("When member ids resolve", func() {
			teamID, updated, err := svc.RegisterTeam(ctx, ev.EventID, app.RegisterTeamRequest{
				TeamName:  "Mixed",
				Members:   []string{"x@y.io", "z@y.io"},
				MemberIDs: []string{"s1", "s2"},
			})

			Convey("Then resolved addresses complete the roster", func() {
				So(err, ShouldBeNil)
				team := updated.TeamByID(teamID)
				So(team.Members, ShouldContain, "s1@school.edu")
				So(team.Members, ShouldContain, "s2@school.edu")
				So(team.Members, ShouldHaveLength, 4)
			})
		})

		Convey("When a member id does not resolve", func() {
			_, _, err := svc.RegisterTeam(ctx, ev.EventID, app.RegisterTeamRequest{
				TeamName:  "Unknown",
				Members:   []string{"x@y.io", "z@y.io", "w@y.io"},
				MemberIDs: []string{"ghost"},
			})

			Convey("Then registration fails validation", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			})
		})
	})
}

func TestJudgeStateMachine(t *testing.T) {
	Convey("Given a stored event", t, func() {
		svc := newService(t)
		ctx := context.Background()
		ev, err := createFixtureEvent(svc)
		So(err, ShouldBeNil)

		Convey("When a judge self-registers", func() {
			updated, err := svc.RegisterJudge(ctx, ev.EventID, "judge-1")

			Convey("Then the judge is appended as approved", func() {
				So(err, ShouldBeNil)
				So(updated.JudgeByID("judge-1").Status, ShouldEqual, model.JudgeApproved)
			})

			Convey("And a denied judge re-registering flips back to approved", func() {
				_, err := svc.SetJudgeStatus(ctx, ev.EventID, "judge-1", "denied")
				So(err, ShouldBeNil)

				again, err := svc.RegisterJudge(ctx, ev.EventID, "judge-1")
				So(err, ShouldBeNil)
				So(again.JudgeByID("judge-1").Status, ShouldEqual, model.JudgeApproved)
				So(again.Judges, ShouldHaveLength, 1) // upsert, not append
			})
		})

		Convey("When setting an unrecognized status", func() {
			_, err := svc.RegisterJudge(ctx, ev.EventID, "judge-1")
			So(err, ShouldBeNil)
			_, err = svc.SetJudgeStatus(ctx, ev.EventID, "judge-1", "maybe")

			Convey("Then the call fails and the judge row is unchanged", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
				got, err := svc.GetEvent(ctx, ev.EventID)
				So(err, ShouldBeNil)
				So(got.JudgeByID("judge-1").Status, ShouldEqual, model.JudgeApproved)
			})
		})

		Convey("When setting status for an unknown judge", func() {
			_, err := svc.SetJudgeStatus(ctx, ev.EventID, "ghost", "approved")

			Convey("Then it fails not-found", func() {
				So(errors.Is(err, app.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When registering with a blank judge id", func() {
			_, err := svc.RegisterJudge(ctx, ev.EventID, "  ")

			Convey("Then registration fails validation", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			})
		})
	})
}

func TestSubmitScoresAndLeaderboard(t *testing.T) {
	Convey("Given an event with a team and an approved judge", t, func() {
		svc := newService(t)
		ctx := context.Background()
		ev, err := createFixtureEvent(svc)
		So(err, ShouldBeNil)

		teamID, _, err := svc.RegisterTeam(ctx, ev.EventID, app.RegisterTeamRequest{
			TeamName: "Alpha", Members: roster("a"),
		})
		So(err, ShouldBeNil)
		_, err = svc.RegisterJudge(ctx, ev.EventID, "judge-1")
		So(err, ShouldBeNil)

		Convey("When the judge submits valid scores", func() {
			updated, err := svc.SubmitScores(ctx, ev.EventID, "judge-1", teamID, []ledger.Entry{
				{RubricID: "impact", Score: 8},
				{RubricID: "demo", Score: 4},
			})

			Convey("Then both entries are live", func() {
				So(err, ShouldBeNil)
				So(updated.Scores, ShouldHaveLength, 2)
			})

			Convey("And resubmitting replaces rather than duplicates", func() {
				again, err := svc.SubmitScores(ctx, ev.EventID, "judge-1", teamID, []ledger.Entry{
					{RubricID: "impact", Score: 5},
				})
				So(err, ShouldBeNil)
				So(again.Scores, ShouldHaveLength, 2)
			})

			Convey("And the leaderboard reflects the pooled weighted sum", func() {
				ranked, err := svc.Leaderboard(ctx, ev.EventID)
				So(err, ShouldBeNil)
				So(ranked, ShouldHaveLength, 1)
				// (0.8*1 + 0.8*0.5) / 1.5 * 100 = 80
				So(ranked[0].FinalScore, ShouldEqual, 80.0)
				So(ranked[0].Rank, ShouldEqual, 1)
			})
		})

		Convey("When a denied judge submits", func() {
			_, err := svc.SetJudgeStatus(ctx, ev.EventID, "judge-1", "denied")
			So(err, ShouldBeNil)
			_, err = svc.SubmitScores(ctx, ev.EventID, "judge-1", teamID, []ledger.Entry{
				{RubricID: "impact", Score: 8},
			})

			Convey("Then the approval gate rejects the submission", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When a score exceeds the rubric maximum", func() {
			_, err := svc.SubmitScores(ctx, ev.EventID, "judge-1", teamID, []ledger.Entry{
				{RubricID: "impact", Score: 11},
			})

			Convey("Then the bounds invariant rejects the submission", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			})
		})
	})
}

// conflictGateway wraps the memory gateway and fails every Replace with a
// version mismatch, simulating a concurrent writer landing first.
type conflictGateway struct {
	*store.MemoryGateway
}

func (c *conflictGateway) Replace(ctx context.Context, ev *model.Event) (*model.Event, error) {
	return nil, store.ErrVersionMismatch
}

func TestStateConflictSurfaces(t *testing.T) {
	Convey("Given a gateway where every replace loses the race", t, func() {
		if err := logger.Init(); err != nil {
			t.Fatalf("init logger: %v", err)
		}
		gw := &conflictGateway{MemoryGateway: store.NewMemoryGateway()}
		svc := app.New(app.WithGateway(gw))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		ctx := context.Background()
		ev, err := createFixtureEvent(svc)
		So(err, ShouldBeNil)

		Convey("When any mutator writes", func() {
			_, _, err := svc.RegisterTeam(ctx, ev.EventID, app.RegisterTeamRequest{
				TeamName: "Alpha", Members: roster("a"),
			})

			Convey("Then the caller sees a state conflict", func() {
				So(errors.Is(err, app.ErrStateConflict), ShouldBeTrue)
			})
		})
	})
}

func TestSubmitTeamDocument(t *testing.T) {
	Convey("Given an orchestrator with a disk deposit", t, func() {
		dep, err := deposit.NewDiskDeposit(t.TempDir())
		So(err, ShouldBeNil)
		svc := newService(t, app.WithDeposit(dep))
		ctx := context.Background()

		ev, err := createFixtureEvent(svc)
		So(err, ShouldBeNil)
		teamID, _, err := svc.RegisterTeam(ctx, ev.EventID, app.RegisterTeamRequest{
			TeamName: "Alpha", Members: roster("a"),
		})
		So(err, ShouldBeNil)

		Convey("When uploading a submission", func() {
			url, err := svc.SubmitTeamDocument(ctx, ev.EventID, teamID, []byte("deck"), "deck.pdf", "application/pdf")

			Convey("Then the link lands on the team", func() {
				So(err, ShouldBeNil)
				So(url, ShouldStartWith, "/files/")

				got, err := svc.GetEvent(ctx, ev.EventID)
				So(err, ShouldBeNil)
				So(got.TeamByID(teamID).SubmissionLink, ShouldEqual, url)
			})
		})

		Convey("When uploading for an unknown team", func() {
			_, err := svc.SubmitTeamDocument(ctx, ev.EventID, "ghost", []byte("deck"), "deck.pdf", "application/pdf")

			Convey("Then it fails not-found", func() {
				So(errors.Is(err, app.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the deposit rejects the payload", func() {
			_, err := svc.SubmitTeamDocument(ctx, ev.EventID, teamID, nil, "deck.pdf", "application/pdf")

			Convey("Then the failure surfaces as upstream and nothing is written", func() {
				So(errors.Is(err, app.ErrUpstream), ShouldBeTrue)
				got, err := svc.GetEvent(ctx, ev.EventID)
				So(err, ShouldBeNil)
				So(got.TeamByID(teamID).SubmissionLink, ShouldBeEmpty)
			})
		})
	})
}

func TestListEventsForJudge(t *testing.T) {
	Convey("Given two events where a judge serves on one", t, func() {
		svc := newService(t)
		ctx := context.Background()

		first, err := createFixtureEvent(svc)
		So(err, ShouldBeNil)
		_, err = createFixtureEvent(svc)
		So(err, ShouldBeNil)
		_, err = svc.RegisterJudge(ctx, first.EventID, "judge-1")
		So(err, ShouldBeNil)

		Convey("When listing events for the judge", func() {
			events, err := svc.ListEventsForJudge(ctx, "judge-1")

			Convey("Then only the event with the judge is returned", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 1)
				So(events[0].EventID, ShouldEqual, first.EventID)
			})
		})

		Convey("When listing all events", func() {
			events, err := svc.ListEvents(ctx)
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 2)
		})
	})
}

func TestStartSeedsTeamIDs(t *testing.T) {
	Convey("Given a store already holding a team", t, func() {
		if err := logger.Init(); err != nil {
			t.Fatalf("init logger: %v", err)
		}
		seed := &model.Event{
			EventID: "ev-seed",
			Info:    model.Info{Name: "Old", Description: "old event"},
			Teams: []model.Team{{
				TeamID: "seed-team", TeamName: "Old team", Members: roster("o"),
			}},
		}
		gw := store.NewMemoryGateway(store.WithEvents(seed))
		svc := app.New(app.WithGateway(gw))

		Convey("When the orchestrator starts", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			defer svc.Stop()

			Convey("Then the stored id is known to the generator", func() {
				stats := svc.GetStats()
				So(stats["knownTeamIDs"], ShouldEqual, int64(1))
			})
		})
	})
}

func TestClockOption(t *testing.T) {
	Convey("Given a fixed clock", t, func() {
		fixed := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
		svc := newService(t, app.WithClock(func() time.Time { return fixed }))

		Convey("When creating an event", func() {
			ev, err := createFixtureEvent(svc)

			Convey("Then timestamps come from the clock", func() {
				So(err, ShouldBeNil)
				So(ev.CreatedAt.Equal(fixed), ShouldBeTrue)
				So(ev.UpdatedAt.Equal(fixed), ShouldBeTrue)
			})
		})
	})
}
