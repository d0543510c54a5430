package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/avesta/hackboard/internal/adapters/store"
	"github.com/avesta/hackboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleEvent(id string) *model.Event {
	return &model.Event{
		EventID: id,
		Info:    model.Info{Name: "Hack Day", Description: "annual"},
		Rubrics: []model.Rubric{{RubricID: "impact", Name: "Impact", MaxScore: 10, Weight: 1}},
	}
}

func TestMemoryGatewayLifecycle(t *testing.T) {
	Convey("Given an empty memory gateway", t, func() {
		ctx := context.Background()
		g := store.NewMemoryGateway()

		Convey("When reading an unknown id", func() {
			_, err := g.GetByID(ctx, "missing")

			Convey("Then it reports not found", func() {
				So(errors.Is(err, store.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When creating a document", func() {
			created, err := g.Create(ctx, sampleEvent("ev-1"))
			So(err, ShouldBeNil)

			Convey("Then it is stored at version 1", func() {
				So(created.Version, ShouldEqual, 1)
				got, err := g.GetByID(ctx, "ev-1")
				So(err, ShouldBeNil)
				So(got.Info.Name, ShouldEqual, "Hack Day")
				So(got.Version, ShouldEqual, 1)
			})

			Convey("And creating the same id again fails", func() {
				_, err := g.Create(ctx, sampleEvent("ev-1"))
				So(errors.Is(err, store.ErrAlreadyExists), ShouldBeTrue)
			})

			Convey("And the returned copy does not alias stored state", func() {
				created.Info.Name = "mutated"
				got, err := g.GetByID(ctx, "ev-1")
				So(err, ShouldBeNil)
				So(got.Info.Name, ShouldEqual, "Hack Day")
			})
		})

		Convey("When deleting", func() {
			_, err := g.Create(ctx, sampleEvent("ev-1"))
			So(err, ShouldBeNil)
			So(g.Delete(ctx, "ev-1"), ShouldBeNil)

			Convey("Then the document is gone", func() {
				_, err := g.GetByID(ctx, "ev-1")
				So(errors.Is(err, store.ErrNotFound), ShouldBeTrue)
			})

			Convey("And deleting again reports not found", func() {
				So(errors.Is(g.Delete(ctx, "ev-1"), store.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When scanning", func() {
			_, err := g.Create(ctx, sampleEvent("ev-1"))
			So(err, ShouldBeNil)
			_, err = g.Create(ctx, sampleEvent("ev-2"))
			So(err, ShouldBeNil)

			all, err := g.ScanAll(ctx)
			So(err, ShouldBeNil)

			Convey("Then every document is returned", func() {
				So(all, ShouldHaveLength, 2)
			})
		})
	})
}

func TestMemoryGatewayConditionalReplace(t *testing.T) {
	Convey("Given a stored document", t, func() {
		ctx := context.Background()
		g := store.NewMemoryGateway()
		created, err := g.Create(ctx, sampleEvent("ev-1"))
		So(err, ShouldBeNil)

		Convey("When replacing with the version just read", func() {
			doc := created.Clone()
			doc.Info.Location = "Hall B"
			replaced, err := g.Replace(ctx, doc)

			Convey("Then the write lands and the version bumps", func() {
				So(err, ShouldBeNil)
				So(replaced.Version, ShouldEqual, 2)
				got, err := g.GetByID(ctx, "ev-1")
				So(err, ShouldBeNil)
				So(got.Info.Location, ShouldEqual, "Hall B")
				So(got.Version, ShouldEqual, 2)
			})
		})

		Convey("When two writers race from the same snapshot", func() {
			first := created.Clone()
			second := created.Clone()

			_, err := g.Replace(ctx, first)
			So(err, ShouldBeNil)

			_, err = g.Replace(ctx, second)

			Convey("Then the stale writer gets a version mismatch", func() {
				So(errors.Is(err, store.ErrVersionMismatch), ShouldBeTrue)
			})
		})

		Convey("When replacing a deleted document", func() {
			So(g.Delete(ctx, "ev-1"), ShouldBeNil)
			_, err := g.Replace(ctx, created.Clone())

			Convey("Then it reports not found", func() {
				So(errors.Is(err, store.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestMemoryGatewayWithEvents(t *testing.T) {
	Convey("Given a gateway preloaded via WithEvents", t, func() {
		ctx := context.Background()
		seed := sampleEvent("ev-seed")
		g := store.NewMemoryGateway(store.WithEvents(seed, nil))

		Convey("Then the preloaded document is readable at version 1", func() {
			got, err := g.GetByID(ctx, "ev-seed")
			So(err, ShouldBeNil)
			So(got.Version, ShouldEqual, 1)
		})
	})
}
