package payoff_test

import (
	"testing"

	"github.com/okian/incent/internal/domain/curve"
	"github.com/okian/incent/internal/domain/model"
	"github.com/okian/incent/internal/domain/payoff"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEvaluate(t *testing.T) {
	Convey("Given a calculator with default effort cost", t, func() {
		calc := payoff.New()

		Convey("When evaluating the linear curve at zero effort", func() {
			// s = 0.5 * sigmoid(0) = 0.25
			pct, profit := calc.Evaluate(0, 0.5, curve.Linear)

			Convey("Then the agent profit should keep the negated sign", func() {
				// -(0.5*0.25 - 0) = -0.125
				So(profit, ShouldAlmostEqual, -0.125, 1e-12)
			})

			Convey("And the percentage divides by total sales", func() {
				// totalSales = 0.25*0.75 = 0.1875; (-0.125/0.1875)*100
				So(payoff.Round2(pct), ShouldAlmostEqual, -66.67, 1e-9)
			})
		})

		Convey("When effort dominates commission revenue", func() {
			_, profit := calc.Evaluate(10, 0.1, curve.Linear)

			Convey("Then the negated profit should be positive", func() {
				// revenue c*s < 0.01 while cost is 10
				So(profit, ShouldBeGreaterThan, 9.9)
			})
		})

		Convey("When total sales degenerates to zero", func() {
			// c = 0 bypasses domain validation and forces s = 0
			pct, profit := calc.Evaluate(3, 0, curve.Linear)

			Convey("Then the percentage falls back to exactly zero", func() {
				So(pct, ShouldEqual, 0)
				So(profit, ShouldAlmostEqual, -(0.0 - 3.0), 1e-12)
			})
		})

		Convey("When inputs stay inside the valid domain", func() {
			Convey("Then the zero fallback is unreachable", func() {
				for _, k := range curve.Kinds() {
					for _, e := range []float64{0, 2.5, 5, 10} {
						for _, c := range []float64{0.1, 0.5, 0.9} {
							s := k.Sales(e, c)
							So(s*(1-s), ShouldBeGreaterThan, 0)
						}
					}
				}
			})
		})
	})

	Convey("Given a calculator with a custom effort cost", t, func() {
		calc := payoff.New(payoff.WithEffortCost(2))

		Convey("When evaluating at nonzero effort", func() {
			_, profit := calc.Evaluate(1, 0.5, curve.Linear)
			_, base := payoff.New().Evaluate(1, 0.5, curve.Linear)

			Convey("Then the cost term should double", func() {
				So(profit, ShouldAlmostEqual, base+1, 1e-12)
			})
		})
	})
}

func TestCompanyProfitPercent(t *testing.T) {
	Convey("Given a calculator", t, func() {
		calc := payoff.New()

		Convey("When evaluating the canonical point", func() {
			got := calc.CompanyProfitPercent(0, 0.5, curve.Linear)

			Convey("Then round(0.25*0.75*100, 2) = 18.75", func() {
				So(got, ShouldEqual, 18.75)
			})
		})

		Convey("When sweeping the full domain", func() {
			Convey("Then the result should stay within [0, 25]", func() {
				for _, k := range curve.Kinds() {
					for _, e := range []float64{0, 1, 2.5, 5, 7.5, 10} {
						for _, c := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
							got := calc.CompanyProfitPercent(e, c, k)
							So(got, ShouldBeGreaterThanOrEqualTo, 0)
							So(got, ShouldBeLessThanOrEqualTo, 25)
						}
					}
				}
			})
		})
	})
}

func TestMetrics(t *testing.T) {
	Convey("Given a calculator", t, func() {
		calc := payoff.New()

		Convey("When bundling metrics for a scenario", func() {
			s := model.Scenario{Commission: 0.5, Effort: 0, Curve: curve.Linear}
			m := calc.Metrics(s)

			Convey("Then both sides should agree with the pointwise operations", func() {
				pct, profit := calc.Evaluate(s.Effort, s.Commission, s.Curve)
				So(m.AgentProfitPercent, ShouldEqual, pct)
				So(m.AgentProfit, ShouldEqual, profit)
				So(m.CompanyProfitPercent, ShouldEqual, 18.75)
			})
		})
	})
}

func TestRound2(t *testing.T) {
	Convey("Given two-decimal rounding", t, func() {
		Convey("When rounding representative values", func() {
			So(payoff.Round2(18.754), ShouldEqual, 18.75)
			So(payoff.Round2(18.756), ShouldEqual, 18.76)
			So(payoff.Round2(-66.666666), ShouldEqual, -66.67)
			So(payoff.Round2(0), ShouldEqual, 0)
		})
	})
}
