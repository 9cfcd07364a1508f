package tier_test

import (
	"errors"
	"testing"

	"github.com/okian/classrank/internal/domain/tier"
	. "github.com/smartystreets/goconvey/convey"
)

func names(t tier.Table) []string {
	out := make([]string, 0, t.Len())
	for _, d := range t.Tiers() {
		out = append(out, d.Name)
	}
	return out
}

func thresholds(t tier.Table) []int {
	out := make([]int, 0, t.Len())
	for _, d := range t.Tiers() {
		out = append(out, d.MinScore)
	}
	return out
}

func TestTables(t *testing.T) {
	Convey("Given the constant tier tables", t, func() {
		Convey("Then the weekly table is reproduced verbatim", func() {
			table := tier.Weekly()
			So(table.Len(), ShouldEqual, 8)
			So(thresholds(table), ShouldResemble, []int{0, 150, 300, 450, 600, 750, 900, 1050})
			So(names(table), ShouldResemble, []string{
				"Absent Legend", "The Crammer", "Seatwarmer", "Group Project Ghost",
				"Google Scholar (Unofficial)", "The Lowkey Genius", "Almost Valedictorian", "The Valedictornator",
			})
		})

		Convey("Then the PvP table is reproduced verbatim", func() {
			table := tier.PvP()
			So(table.Len(), ShouldEqual, 7)
			So(thresholds(table), ShouldResemble, []int{0, 80, 160, 240, 320, 400, 480})
			So(names(table), ShouldResemble, []string{
				"Grasshopper", "Knight", "Gladiator", "Elite", "Legend", "Titan", "Supreme",
			})
		})

		Convey("Then the legacy dashboard table keeps its own thresholds", func() {
			table := tier.Dashboard()
			So(table.Len(), ShouldEqual, 7)
			So(thresholds(table), ShouldResemble, []int{0, 1000, 1300, 1600, 2400, 3000, 3600})
			So(table.At(0).Name, ShouldEqual, "Trainee Technician")
			So(table.At(6).Name, ShouldEqual, "Capsule Corp Visionary")
		})

		Convey("Then every table validates and derives contiguous ranges", func() {
			for _, table := range []tier.Table{tier.Weekly(), tier.PvP(), tier.Dashboard()} {
				So(table.Validate(), ShouldBeNil)
				for i := 0; i < table.Len()-1; i++ {
					So(table.At(i).MaxScore, ShouldEqual, table.At(i+1).MinScore-1)
				}
				So(table.At(table.Len()-1).IsTop(), ShouldBeTrue)
			}
		})

		Convey("Then every tier has a registered style", func() {
			for _, table := range []tier.Table{tier.Weekly(), tier.PvP(), tier.Dashboard()} {
				for _, d := range table.Tiers() {
					s := d.Style()
					So(s.Icon, ShouldNotEqual, "badge")
					So(s.Color.Hex(), ShouldStartWith, "#")
				}
			}
		})

		Convey("Then Tiers returns a copy", func() {
			ts := tier.Weekly().Tiers()
			ts[0].Name = "mutated"
			So(tier.Weekly().At(0).Name, ShouldEqual, "Absent Legend")
		})

		Convey("Then Lookup finds tiers by id", func() {
			d, ok := tier.PvP().Lookup(tier.Knight)
			So(ok, ShouldBeTrue)
			So(d.MinScore, ShouldEqual, 80)
			So(d.MaxScore, ShouldEqual, 159)

			_, ok = tier.PvP().Lookup(tier.Crammer)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestNewTable_Invalid(t *testing.T) {
	Convey("Given malformed tier definitions", t, func() {
		a := tier.Definition{ID: "a", Name: "A", MinScore: 0}
		b := tier.Definition{ID: "b", Name: "B", MinScore: 10}

		cases := map[string][]tier.Definition{
			"a single tier":          {a},
			"a non-zero start":       {{ID: "a", Name: "A", MinScore: 5}, b},
			"a decreasing threshold": {a, b, {ID: "c", Name: "C", MinScore: 10}},
			"a duplicate name":       {a, {ID: "b", Name: "A", MinScore: 10}},
			"a duplicate id":         {a, {ID: "a", Name: "B", MinScore: 10}},
			"a missing name":         {a, {ID: "b", MinScore: 10}},
		}

		for name, defs := range cases {
			Convey("When building a table with "+name, func() {
				_, err := tier.NewTable("broken", defs...)

				Convey("Then it reports an invalid table", func() {
					So(err, ShouldNotBeNil)
					So(errors.Is(err, tier.ErrInvalidTable), ShouldBeTrue)
				})
			})
		}

		Convey("When MustTable receives them", func() {
			So(func() { tier.MustTable("broken", a) }, ShouldPanic)
		})
	})
}

func TestTracks(t *testing.T) {
	Convey("Given track names", t, func() {
		Convey("Then known tracks parse case-insensitively", func() {
			tr, err := tier.ParseTrack(" PvP ")
			So(err, ShouldBeNil)
			So(tr, ShouldEqual, tier.TrackPvP)
		})

		Convey("Then unknown tracks are rejected", func() {
			_, err := tier.ParseTrack("season")
			So(errors.Is(err, tier.ErrUnknownTrack), ShouldBeTrue)
		})

		Convey("Then each track picks its own table", func() {
			So(tier.TrackWeekly.Table().Name(), ShouldEqual, "weekly")
			So(tier.TrackPvP.Table().Name(), ShouldEqual, "pvp")
			So(tier.TrackDashboard.Table().Name(), ShouldEqual, "dashboard")
		})

		Convey("Then the dashboard reads weekly points but is read-only", func() {
			So(tier.TrackDashboard.Source(), ShouldEqual, tier.TrackWeekly)
			So(tier.TrackDashboard.Writable(), ShouldBeFalse)
			So(tier.TrackWeekly.Writable(), ShouldBeTrue)
			So(tier.TrackPvP.Writable(), ShouldBeTrue)
		})

		Convey("Then the same score lands on different tiers per track", func() {
			So(tier.TrackWeekly.Resolve(1050).Current.ID, ShouldEqual, tier.Valedictornator)
			So(tier.TrackDashboard.Resolve(1050).Current.ID, ShouldEqual, tier.LabAssistant)
		})
	})
}
