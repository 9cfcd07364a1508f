package tier_test

import (
	"testing"

	"github.com/okian/classrank/internal/domain/tier"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolve_WeeklyScenarios(t *testing.T) {
	Convey("Given the weekly progress table", t, func() {
		table := tier.Weekly()

		Convey("When the score is 0", func() {
			r := tier.Resolve(0, table)

			Convey("Then the student is an Absent Legend heading for The Crammer", func() {
				So(r.Current.Name, ShouldEqual, "Absent Legend")
				So(r.Next, ShouldNotBeNil)
				So(r.Next.Name, ShouldEqual, "The Crammer")
				So(r.ProgressPercent, ShouldEqual, 0)
				So(r.AmountToNext, ShouldEqual, 150)
			})
		})

		Convey("When the score is one point below a threshold", func() {
			r := tier.Resolve(149, table)

			Convey("Then progress rounds to 99 and one point remains", func() {
				So(r.Current.Name, ShouldEqual, "Absent Legend")
				So(r.Next.Name, ShouldEqual, "The Crammer")
				So(r.ProgressPercent, ShouldEqual, 99)
				So(r.AmountToNext, ShouldEqual, 1)
			})
		})

		Convey("When the score equals a threshold", func() {
			r := tier.Resolve(150, table)

			Convey("Then the lower bound is inclusive", func() {
				So(r.Current.Name, ShouldEqual, "The Crammer")
				So(r.Next.Name, ShouldEqual, "Seatwarmer")
				So(r.ProgressPercent, ShouldEqual, 0)
				So(r.AmountToNext, ShouldEqual, 150)
			})
		})

		Convey("When the score reaches the top tier", func() {
			for _, score := range []int{1050, 1051, 5000, 1 << 30} {
				r := tier.Resolve(score, table)
				So(r.Current.Name, ShouldEqual, "The Valedictornator")
				So(r.Next, ShouldBeNil)
				So(r.IsTop(), ShouldBeTrue)
				So(r.ProgressPercent, ShouldEqual, 100)
				So(r.AmountToNext, ShouldEqual, 0)
			}
		})

		Convey("When the score is negative", func() {
			r := tier.Resolve(-40, table)

			Convey("Then it is treated as 0", func() {
				So(r, ShouldResemble, tier.Resolve(0, table))
			})
		})
	})
}

func TestResolve_PvPScenarios(t *testing.T) {
	Convey("Given the PvP arena table", t, func() {
		table := tier.PvP()

		Convey("Then 0 stars is Grasshopper with 80 to Knight", func() {
			r := tier.Resolve(0, table)
			So(r.Current.Name, ShouldEqual, "Grasshopper")
			So(r.Next.Name, ShouldEqual, "Knight")
			So(r.ProgressPercent, ShouldEqual, 0)
			So(r.AmountToNext, ShouldEqual, 80)
		})

		Convey("Then 79 stars rounds to 99 percent", func() {
			r := tier.Resolve(79, table)
			So(r.Current.Name, ShouldEqual, "Grasshopper")
			So(r.ProgressPercent, ShouldEqual, 99)
			So(r.AmountToNext, ShouldEqual, 1)
		})

		Convey("Then 480 stars is Supreme and saturated", func() {
			r := tier.Resolve(480, table)
			So(r.Current.Name, ShouldEqual, "Supreme")
			So(r.Next, ShouldBeNil)
			So(r.ProgressPercent, ShouldEqual, 100)
			So(r.AmountToNext, ShouldEqual, 0)
		})

		Convey("Then the star cap of 500 stays Supreme", func() {
			So(tier.Resolve(500, table).Current.ID, ShouldEqual, tier.Supreme)
		})
	})
}

func TestResolve_Properties(t *testing.T) {
	tables := []tier.Table{tier.Weekly(), tier.PvP(), tier.Dashboard()}

	Convey("Given every tier table", t, func() {
		for _, table := range tables {
			last := table.At(table.Len() - 1)

			Convey("Then every score maps to the tier whose range contains it: "+table.Name(), func() {
				for score := 0; score <= last.MinScore+200; score++ {
					r := tier.Resolve(score, table)
					So(r.Current.Contains(score), ShouldBeTrue)
				}
			})

			Convey("Then each tier's lower bound resolves to that tier: "+table.Name(), func() {
				for _, d := range table.Tiers() {
					So(tier.Resolve(d.MinScore, table).Current.ID, ShouldEqual, d.ID)
				}
			})

			Convey("Then progress never decreases inside a tier and stays within bounds: "+table.Name(), func() {
				for i := 0; i < table.Len()-1; i++ {
					d := table.At(i)
					prev := -1
					for score := d.MinScore; score <= d.MaxScore; score++ {
						r := tier.Resolve(score, table)
						So(r.ProgressPercent, ShouldBeBetweenOrEqual, 0, 100)
						So(r.ProgressPercent, ShouldBeGreaterThanOrEqualTo, prev)
						So(r.AmountToNext, ShouldBeGreaterThan, 0)
						So(r.AmountToNext, ShouldEqual, r.Next.MinScore-score)
						prev = r.ProgressPercent
					}
				}
			})

			Convey("Then the next tier is the following table entry: "+table.Name(), func() {
				for i := 0; i < table.Len()-1; i++ {
					r := tier.Resolve(table.At(i).MinScore, table)
					So(r.Next, ShouldNotBeNil)
					So(r.Next.ID, ShouldEqual, table.At(i+1).ID)
				}
			})
		}
	})
}

func TestCompare(t *testing.T) {
	Convey("Given two scores on the weekly table", t, func() {
		table := tier.Weekly()

		Convey("When the score crosses a threshold upward", func() {
			So(tier.Compare(140, 160, table), ShouldEqual, tier.Promoted)
			So(tier.Compare(140, 160, table).String(), ShouldEqual, "promotion")
		})

		Convey("When the score crosses a threshold downward", func() {
			So(tier.Compare(300, 299, table), ShouldEqual, tier.Demoted)
			So(tier.Compare(300, 299, table).String(), ShouldEqual, "demotion")
		})

		Convey("When the score stays inside a tier", func() {
			So(tier.Compare(10, 140, table), ShouldEqual, tier.Unchanged)
			So(tier.Compare(2000, 9000, table), ShouldEqual, tier.Unchanged)
		})
	})
}
