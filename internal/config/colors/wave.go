package colors

// Kanagawa Wave palette
const (
	sumiInk4     = "#2A2A37"
	sumiInk6     = "#54546D"
	waveBlue1    = "#223249"
	waveAqua2    = "#7AA89F"
	winterBlue   = "#252535"
	winterRed    = "#43242B"
	oniViolet    = "#957FB8"
	crystalBlue  = "#7E9CD8"
	springGreen  = "#98BB6C"
	carpYellow   = "#E6C384"
	surimiOrange = "#FFA066"
	dragonBlue   = "#658594"
	samuraiRed   = "#E82424"
	fujiGray     = "#727169"
	fujiWhite    = "#DCD7BA"
)

// Wave returns the Kanagawa Wave scheme
func Wave() *ColorScheme {
	return &ColorScheme{
		Preset: "wave",
		Accent: oniViolet,

		ColumnBorder:   sumiInk6,
		CardBorder:     sumiInk4,
		SelectedBorder: waveAqua2,
		SelectedBg:     waveBlue1,
		GrabbedBorder:  carpYellow,
		DropTarget:     springGreen,

		Title:  crystalBlue,
		Subtle: fujiGray,
		Normal: fujiWhite,

		PriorityLow:    dragonBlue,
		PriorityMedium: fujiWhite,
		PriorityHigh:   surimiOrange,
		PriorityUrgent: samuraiRed,

		InfoFg:  dragonBlue,
		InfoBg:  winterBlue,
		ErrorFg: samuraiRed,
		ErrorBg: winterRed,
	}
}
