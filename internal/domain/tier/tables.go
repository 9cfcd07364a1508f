package tier

import (
	"fmt"
	"strings"
)

// Track names a ranking track. Each track resolves against its own table.
type Track string

const (
	// TrackWeekly ranks points accumulated from scheduled quizzes.
	TrackWeekly Track = "weekly"
	// TrackPvP ranks stars accumulated from duels.
	TrackPvP Track = "pvp"
	// TrackDashboard is the legacy dashboard view of weekly points.
	TrackDashboard Track = "dashboard"
)

// Weekly progress tiers.
const (
	AbsentLegend        ID = "absent-legend"
	Crammer             ID = "crammer"
	Seatwarmer          ID = "seatwarmer"
	GroupProjectGhost   ID = "group-project-ghost"
	GoogleScholar       ID = "google-scholar"
	LowkeyGenius        ID = "lowkey-genius"
	AlmostValedictorian ID = "almost-valedictorian"
	Valedictornator     ID = "valedictornator"
)

// PvP arena tiers.
const (
	Grasshopper ID = "grasshopper"
	Knight      ID = "knight"
	Gladiator   ID = "gladiator"
	Elite       ID = "elite"
	Legend      ID = "legend"
	Titan       ID = "titan"
	Supreme     ID = "supreme"
)

// Legacy dashboard tiers.
const (
	TraineeTechnician    ID = "trainee-technician"
	LabAssistant         ID = "lab-assistant"
	JuniorEngineer       ID = "junior-engineer"
	GadgetSpecialist     ID = "gadget-specialist"
	SeniorInventor       ID = "senior-inventor"
	ChiefScientist       ID = "chief-scientist"
	CapsuleCorpVisionary ID = "capsule-corp-visionary"
)

var weekly = MustTable("weekly",
	Definition{ID: AbsentLegend, MinScore: 0, Name: "Absent Legend", Description: "Rumored to be enrolled. Sightings unconfirmed."},
	Definition{ID: Crammer, MinScore: 150, Name: "The Crammer", Description: "Learns a week of material the night before."},
	Definition{ID: Seatwarmer, MinScore: 300, Name: "Seatwarmer", Description: "Present, accounted for, occasionally awake."},
	Definition{ID: GroupProjectGhost, MinScore: 450, Name: "Group Project Ghost", Description: "Shows up for the grade, vanishes for the work."},
	Definition{ID: GoogleScholar, MinScore: 600, Name: "Google Scholar (Unofficial)", Description: "Has a search tab open for every question."},
	Definition{ID: LowkeyGenius, MinScore: 750, Name: "The Lowkey Genius", Description: "Quietly acing quizzes while pretending not to study."},
	Definition{ID: AlmostValedictorian, MinScore: 900, Name: "Almost Valedictorian", Description: "One good week away from the podium."},
	Definition{ID: Valedictornator, MinScore: 1050, Name: "The Valedictornator", Description: "Terminates every quiz with extreme accuracy."},
)

var pvp = MustTable("pvp",
	Definition{ID: Grasshopper, MinScore: 0, Name: "Grasshopper", Description: "Still learning which end of the quiz to hold."},
	Definition{ID: Knight, MinScore: 80, Name: "Knight", Description: "Sworn to answer before the timer runs out."},
	Definition{ID: Gladiator, MinScore: 160, Name: "Gladiator", Description: "Fights for every star in the arena."},
	Definition{ID: Elite, MinScore: 240, Name: "Elite", Description: "Rarely loses a duel and never forgets one."},
	Definition{ID: Legend, MinScore: 320, Name: "Legend", Description: "Opponents study their match history."},
	Definition{ID: Titan, MinScore: 400, Name: "Titan", Description: "Towers over the bracket."},
	Definition{ID: Supreme, MinScore: 480, Name: "Supreme", Description: "The arena's final boss."},
)

var dashboard = MustTable("dashboard",
	Definition{ID: TraineeTechnician, MinScore: 0, Name: "Trainee Technician", Description: "Sweeping the lab floor, taking notes."},
	Definition{ID: LabAssistant, MinScore: 1000, Name: "Lab Assistant", Description: "Trusted to hand over the right wrench."},
	Definition{ID: JuniorEngineer, MinScore: 1300, Name: "Junior Engineer", Description: "Builds prototypes that mostly work."},
	Definition{ID: GadgetSpecialist, MinScore: 1600, Name: "Gadget Specialist", Description: "Every pocket holds a capsule."},
	Definition{ID: SeniorInventor, MinScore: 2400, Name: "Senior Inventor", Description: "Patents pending, coffee mandatory."},
	Definition{ID: ChiefScientist, MinScore: 3000, Name: "Chief Scientist", Description: "Runs the lab and the leaderboard."},
	Definition{ID: CapsuleCorpVisionary, MinScore: 3600, Name: "Capsule Corp Visionary", Description: "Designs the future, one capsule at a time."},
)

// Weekly returns the weekly progress table (8 tiers).
func Weekly() Table { return weekly }

// PvP returns the PvP arena table (7 tiers).
func PvP() Table { return pvp }

// Dashboard returns the legacy dashboard table (7 tiers).
func Dashboard() Table { return dashboard }

// Tracks lists every known track.
func Tracks() []Track { return []Track{TrackWeekly, TrackPvP, TrackDashboard} }

// ParseTrack converts a string into a Track.
func ParseTrack(s string) (Track, error) {
	switch t := Track(strings.ToLower(strings.TrimSpace(s))); t {
	case TrackWeekly, TrackPvP, TrackDashboard:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTrack, s)
	}
}

// Table returns the tier table the track resolves against.
func (t Track) Table() Table {
	switch t {
	case TrackPvP:
		return pvp
	case TrackDashboard:
		return dashboard
	default:
		return weekly
	}
}

// Source returns the track whose score this track reads. The dashboard
// shares weekly points and only differs in its table.
func (t Track) Source() Track {
	if t == TrackDashboard {
		return TrackWeekly
	}
	return t
}

// Writable reports whether scores can be applied to or reset on the track.
func (t Track) Writable() bool { return t == t.Source() }

// Resolve maps score onto the track's table.
func (t Track) Resolve(score int) Result { return Resolve(score, t.Table()) }
