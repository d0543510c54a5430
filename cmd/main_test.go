package main

import (
	"context"
	"os"
	"testing"

	"github.com/avesta/hackboard/internal/adapters/store"
	"github.com/avesta/hackboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainWiring(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When loading configuration from the environment", func() {
			_ = os.Setenv("HACKBOARD_ADDR", ":8080")
			_ = os.Setenv("HACKBOARD_STORE_BACKEND", "memory")
			defer func() {
				_ = os.Unsetenv("HACKBOARD_ADDR")
				_ = os.Unsetenv("HACKBOARD_STORE_BACKEND")
			}()

			cfg, err := config.Load(context.Background())

			convey.Convey("Then configuration should be loadable", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			})

			convey.Convey("And the memory gateway should be selected", func() {
				convey.So(err, convey.ShouldBeNil)
				g, err := buildGateway(cfg)
				convey.So(err, convey.ShouldBeNil)
				convey.So(g, convey.ShouldHaveSameTypeAs, store.NewMemoryGateway())
				convey.So(g.Close(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the sqlite backend is configured", func() {
			cfg := config.New()
			cfg.StoreBackend = "sqlite"
			cfg.SQLitePath = t.TempDir() + "/events.db"

			g, err := buildGateway(cfg)

			convey.Convey("Then a sqlite gateway opens against the path", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(g, convey.ShouldNotBeNil)
				convey.So(g.Close(), convey.ShouldBeNil)
			})
		})
	})
}
