package tier

// Color is a display color token. Front ends map tokens onto their own theme.
type Color string

const (
	ColorSlate   Color = "slate"
	ColorStone   Color = "stone"
	ColorAmber   Color = "amber"
	ColorLime    Color = "lime"
	ColorEmerald Color = "emerald"
	ColorSky     Color = "sky"
	ColorIndigo  Color = "indigo"
	ColorViolet  Color = "violet"
	ColorRose    Color = "rose"
	ColorGold    Color = "gold"
)

var palette = map[Color]string{
	ColorSlate:   "#94A3B8",
	ColorStone:   "#A8A29E",
	ColorAmber:   "#F59E0B",
	ColorLime:    "#84CC16",
	ColorEmerald: "#10B981",
	ColorSky:     "#0EA5E9",
	ColorIndigo:  "#6366F1",
	ColorViolet:  "#8B5CF6",
	ColorRose:    "#F43F5E",
	ColorGold:    "#EAB308",
}

// Hex returns the reference hex value for the token, slate if unknown.
func (c Color) Hex() string {
	if h, ok := palette[c]; ok {
		return h
	}
	return palette[ColorSlate]
}

// Style is the presentation metadata for a tier: a short label, a color
// token and an icon reference.
type Style struct {
	Label string `json:"label"`
	Color Color  `json:"color"`
	Icon  string `json:"icon"`
}

var styles = map[ID]Style{
	AbsentLegend:        {Label: "Absent", Color: ColorSlate, Icon: "ghost"},
	Crammer:             {Label: "Crammer", Color: ColorStone, Icon: "coffee"},
	Seatwarmer:          {Label: "Seatwarmer", Color: ColorAmber, Icon: "armchair"},
	GroupProjectGhost:   {Label: "Ghost", Color: ColorLime, Icon: "users"},
	GoogleScholar:       {Label: "Scholar", Color: ColorEmerald, Icon: "search"},
	LowkeyGenius:        {Label: "Genius", Color: ColorSky, Icon: "brain"},
	AlmostValedictorian: {Label: "Almost", Color: ColorIndigo, Icon: "medal"},
	Valedictornator:     {Label: "Valedictornator", Color: ColorGold, Icon: "crown"},

	Grasshopper: {Label: "Grasshopper", Color: ColorLime, Icon: "sprout"},
	Knight:      {Label: "Knight", Color: ColorSlate, Icon: "shield"},
	Gladiator:   {Label: "Gladiator", Color: ColorAmber, Icon: "swords"},
	Elite:       {Label: "Elite", Color: ColorSky, Icon: "star"},
	Legend:      {Label: "Legend", Color: ColorViolet, Icon: "flame"},
	Titan:       {Label: "Titan", Color: ColorRose, Icon: "mountain"},
	Supreme:     {Label: "Supreme", Color: ColorGold, Icon: "trophy"},

	TraineeTechnician:    {Label: "Trainee", Color: ColorStone, Icon: "wrench"},
	LabAssistant:         {Label: "Assistant", Color: ColorSlate, Icon: "flask"},
	JuniorEngineer:       {Label: "Engineer", Color: ColorLime, Icon: "cog"},
	GadgetSpecialist:     {Label: "Specialist", Color: ColorEmerald, Icon: "cpu"},
	SeniorInventor:       {Label: "Inventor", Color: ColorSky, Icon: "lightbulb"},
	ChiefScientist:       {Label: "Chief", Color: ColorViolet, Icon: "atom"},
	CapsuleCorpVisionary: {Label: "Visionary", Color: ColorGold, Icon: "rocket"},
}

// StyleFor returns the style registered for id. Unknown ids get a neutral
// badge labelled with the id itself.
func StyleFor(id ID) Style {
	if s, ok := styles[id]; ok {
		return s
	}
	return Style{Label: string(id), Color: ColorSlate, Icon: "badge"}
}
