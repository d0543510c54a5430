package teamid_test

import (
	"sync"
	"testing"

	"github.com/avesta/hackboard/internal/domain/teamid"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGeneratorUniqueness(t *testing.T) {
	Convey("Given a generator", t, func() {
		g := teamid.NewGenerator()

		Convey("When many ids are issued concurrently", func() {
			const n = 500
			var wg sync.WaitGroup
			ids := make(chan string, n)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					ids <- g.Next()
				}()
			}
			wg.Wait()
			close(ids)

			Convey("Then every id is non-empty and unique", func() {
				seen := make(map[string]struct{}, n)
				for id := range ids {
					So(id, ShouldNotBeEmpty)
					_, dup := seen[id]
					So(dup, ShouldBeFalse)
					seen[id] = struct{}{}
				}
				So(g.Size(), ShouldEqual, int64(n))
			})
		})
	})
}

func TestGeneratorRecord(t *testing.T) {
	Convey("Given preloaded ids", t, func() {
		g := teamid.NewGenerator()
		g.Record("existing-1")
		g.Record("existing-1") // idempotent
		g.Record("")           // ignored

		Convey("Then size reflects distinct non-empty ids", func() {
			So(g.Size(), ShouldEqual, int64(1))
		})

		Convey("And fresh ids never equal a recorded id", func() {
			for i := 0; i < 100; i++ {
				So(g.Next(), ShouldNotEqual, "existing-1")
			}
		})
	})
}
