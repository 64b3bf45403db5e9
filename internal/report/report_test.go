package report_test

import (
	"bytes"
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/incent/internal/domain/curve"
	"github.com/okian/incent/internal/domain/payoff"
	"github.com/okian/incent/internal/report"
)

func TestCompare(t *testing.T) {
	Convey("Given a reporter over the default calculator", t, func() {
		r := report.New(payoff.New())
		ctx := context.Background()

		Convey("When all curves are compared at one scenario", func() {
			cmp, err := r.Compare(ctx, 0.5, 5.0)
			So(err, ShouldBeNil)

			Convey("Then every curve gets exactly one row", func() {
				So(cmp.Rows, ShouldHaveLength, len(curve.Kinds()))
				seen := map[curve.Kind]bool{}
				for _, row := range cmp.Rows {
					seen[row.Curve] = true
				}
				So(seen, ShouldHaveLength, len(curve.Kinds()))
			})

			Convey("And rows agree with a direct evaluation", func() {
				calc := payoff.New()
				for _, row := range cmp.Rows {
					pct, profit := calc.Evaluate(5.0, 0.5, row.Curve)
					So(row.Metrics.AgentProfitPercent, ShouldEqual, pct)
					So(row.Metrics.AgentProfit, ShouldEqual, profit)
				}
			})

			Convey("And no best-effort column is computed by default", func() {
				for _, row := range cmp.Rows {
					So(row.BestEffort, ShouldBeNil)
				}
			})
		})
	})
}

func TestCompareWithBestEffort(t *testing.T) {
	Convey("Given a reporter with the best-response search enabled", t, func() {
		r := report.New(payoff.New(), report.WithBestEffort(0, 10))

		Convey("When curves are compared", func() {
			cmp, err := r.Compare(context.Background(), 0.4, 3.0)
			So(err, ShouldBeNil)

			Convey("Then every row carries an in-domain best effort", func() {
				for _, row := range cmp.Rows {
					So(row.BestEffort, ShouldNotBeNil)
					So(row.BestEffort.Effort, ShouldBeGreaterThanOrEqualTo, 0)
					So(row.BestEffort.Effort, ShouldBeLessThanOrEqualTo, 10)
				}
			})
		})
	})
}

func TestRender(t *testing.T) {
	Convey("Given a comparison", t, func() {
		cmp, err := report.New(payoff.New()).Compare(context.Background(), 0.5, 5.0)
		So(err, ShouldBeNil)

		Convey("When it is rendered", func() {
			var buf bytes.Buffer
			So(cmp.Render(&buf), ShouldBeNil)

			Convey("Then the table lists every curve", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "CURVE")
				for _, k := range curve.Kinds() {
					So(out, ShouldContainSubstring, k.String())
				}
			})
		})
	})
}
