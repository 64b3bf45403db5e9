package service_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/incent/internal/app"
	"github.com/okian/incent/internal/domain/curve"
	"github.com/okian/incent/internal/domain/grid"
	"github.com/okian/incent/internal/domain/model"
)

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithGridShape(10, 10))
		ctx := context.Background()

		Convey("When the service is started", func() {
			err := svc.Start(ctx)
			So(err, ShouldBeNil)
			defer svc.Stop()

			Convey("Then the default scenario is already evaluated", func() {
				rec, ok := svc.Current(ctx)
				So(ok, ShouldBeTrue)
				So(rec.Scenario, ShouldResemble, svc.Defaults())
				So(svc.Recent(ctx, 10), ShouldHaveLength, 1)
			})

			Convey("Then the default curve's surface is cached", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["cachedSurfaces"], ShouldEqual, 1)
			})

			Convey("And starting again is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
				So(svc.Recent(ctx, 10), ShouldHaveLength, 1)
			})
		})

		Convey("When operations run before Start", func() {
			_, err := svc.Evaluate(ctx, svc.Defaults())
			So(err, ShouldEqual, service.ErrNotStarted)

			_, err = svc.Surface(ctx, curve.Linear, 0, 0)
			So(err, ShouldEqual, service.ErrNotStarted)

			So(svc.Recent(ctx, 10), ShouldBeNil)
		})
	})
}

func TestServiceEvaluate(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithGridShape(10, 10))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a valid scenario is evaluated", func() {
			sc := model.Scenario{Commission: 0.3, Effort: 2.0, Curve: curve.Quadratic}
			rec, err := svc.Evaluate(ctx, sc)
			So(err, ShouldBeNil)

			Convey("Then it becomes the current state", func() {
				cur, ok := svc.Current(ctx)
				So(ok, ShouldBeTrue)
				So(cur.ID, ShouldEqual, rec.ID)
				So(cur.Scenario, ShouldResemble, sc)
			})

			Convey("Then it is recorded newest-first in the history", func() {
				recent := svc.Recent(ctx, 10)
				So(recent, ShouldHaveLength, 2)
				So(recent[0].ID, ShouldEqual, rec.ID)
			})
		})

		Convey("When an out-of-range commission is submitted", func() {
			before, _ := svc.Current(ctx)
			_, err := svc.Evaluate(ctx, model.Scenario{Commission: 0.95, Effort: 2.0, Curve: curve.Linear})

			Convey("Then the error names the commission constraint", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "commission value must be between")
			})

			Convey("And the current state is untouched", func() {
				after, ok := svc.Current(ctx)
				So(ok, ShouldBeTrue)
				So(after.ID, ShouldEqual, before.ID)
				So(svc.Recent(ctx, 10), ShouldHaveLength, 1)
			})
		})

		Convey("When a mixed-case curve name is submitted", func() {
			canonical, err := svc.Evaluate(ctx, model.Scenario{Commission: 0.5, Effort: 2.0, Curve: curve.Quadratic})
			So(err, ShouldBeNil)
			mixed, err := svc.Evaluate(ctx, model.Scenario{Commission: 0.5, Effort: 2.0, Curve: curve.Kind("Quadratic")})
			So(err, ShouldBeNil)

			Convey("Then it computes the same formula as the canonical name", func() {
				So(mixed.Metrics, ShouldResemble, canonical.Metrics)
			})

			Convey("And not the linear fallback", func() {
				linear, err := svc.Evaluate(ctx, model.Scenario{Commission: 0.5, Effort: 2.0, Curve: curve.Linear})
				So(err, ShouldBeNil)
				So(mixed.Metrics.AgentProfitPercent, ShouldNotEqual, linear.Metrics.AgentProfitPercent)
			})

			Convey("And the stored record carries the canonical kind", func() {
				So(mixed.Scenario.Curve, ShouldEqual, curve.Quadratic)
			})
		})

		Convey("When an unknown curve is submitted", func() {
			_, err := svc.Evaluate(ctx, model.Scenario{Commission: 0.5, Effort: 5.0, Curve: curve.Kind("cubic")})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid sales curve selected")
		})
	})
}

func TestServiceSurface(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(
			service.WithGridShape(12, 8),
			service.WithMaxGridSteps(50),
		)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a surface is requested with zero steps", func() {
			surface, err := svc.Surface(ctx, curve.Logarithmic, 0, 0)
			So(err, ShouldBeNil)

			Convey("Then the configured grid shape is used", func() {
				So(surface.Commissions, ShouldHaveLength, 12)
				So(surface.Efforts, ShouldHaveLength, 8)
			})
		})

		Convey("When the same surface is requested twice", func() {
			first, err := svc.Surface(ctx, curve.Exponential, 6, 6)
			So(err, ShouldBeNil)
			second, err := svc.Surface(ctx, curve.Exponential, 6, 6)
			So(err, ShouldBeNil)

			Convey("Then the cached surface is reused", func() {
				So(second, ShouldEqual, first)
			})
		})

		Convey("When the same curve is requested with different casing", func() {
			canonical, err := svc.Surface(ctx, curve.Exponential, 6, 6)
			So(err, ShouldBeNil)
			upper, err := svc.Surface(ctx, curve.Kind("EXPONENTIAL"), 6, 6)
			So(err, ShouldBeNil)

			Convey("Then the canonical cached surface is reused", func() {
				So(upper, ShouldEqual, canonical)
				So(upper.Curve, ShouldEqual, curve.Exponential)
			})
		})

		Convey("When the requested shape exceeds the cap", func() {
			_, err := svc.Surface(ctx, curve.Linear, 51, 10)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, grid.ErrTooLarge), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "requested grid too large")
		})

		Convey("When an unknown curve is requested", func() {
			_, err := svc.Surface(ctx, curve.Kind("cubic"), 10, 10)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestServiceBestEffort(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithGridShape(10, 10))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When the best effort is searched for a valid commission", func() {
			res, err := svc.BestEffort(ctx, 0.5, curve.Linear)
			So(err, ShouldBeNil)

			Convey("Then the result lies inside the effort domain", func() {
				d := svc.Bounds()
				So(res.Effort, ShouldBeGreaterThanOrEqualTo, d.EffortMin)
				So(res.Effort, ShouldBeLessThanOrEqualTo, d.EffortMax)
				So(res.Commission, ShouldEqual, 0.5)
				So(res.Curve, ShouldEqual, curve.Linear)
			})
		})

		Convey("When the curve name is mixed case", func() {
			res, err := svc.BestEffort(ctx, 0.5, curve.Kind("Linear"))
			So(err, ShouldBeNil)

			Convey("Then the result carries the canonical kind", func() {
				So(res.Curve, ShouldEqual, curve.Linear)
			})
		})

		Convey("When the commission is out of range", func() {
			_, err := svc.BestEffort(ctx, 1.5, curve.Linear)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "commission value must be between")
		})
	})
}
