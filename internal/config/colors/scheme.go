package colors

// ColorScheme defines every configurable color of the board
type ColorScheme struct {
	// Preset name ("default", "monochrome", "wave")
	Preset string `yaml:"preset"`

	Accent string `yaml:"accent"`

	// Board
	ColumnBorder   string `yaml:"column_border"`
	CardBorder     string `yaml:"card_border"`
	SelectedBorder string `yaml:"selected_border"`
	SelectedBg     string `yaml:"selected_bg"`
	GrabbedBorder  string `yaml:"grabbed_border"` // card or column being dragged
	DropTarget     string `yaml:"drop_target"`

	// Text
	Title  string `yaml:"title"`
	Subtle string `yaml:"subtle"`
	Normal string `yaml:"normal"`

	// Priority badges
	PriorityLow    string `yaml:"priority_low"`
	PriorityMedium string `yaml:"priority_medium"`
	PriorityHigh   string `yaml:"priority_high"`
	PriorityUrgent string `yaml:"priority_urgent"`

	// Notifications
	InfoFg  string `yaml:"info_fg"`
	InfoBg  string `yaml:"info_bg"`
	ErrorFg string `yaml:"error_fg"`
	ErrorBg string `yaml:"error_bg"`
}

// GetPreset returns a preset color scheme by name; unknown names get the default
func GetPreset(name string) *ColorScheme {
	switch name {
	case "monochrome":
		return Monochrome()
	case "wave":
		return Wave()
	default:
		return Default()
	}
}

// ApplyDefaults fills empty values from the selected preset
func (c *ColorScheme) ApplyDefaults() {
	preset := GetPreset(c.Preset)
	if c.Preset == "" {
		c.Preset = preset.Preset
	}
	c.fillFrom(*preset)
}

// MergeFrom overrides values with the non-empty values of other. Call it
// before ApplyDefaults so a preset change fills the rest.
func (c *ColorScheme) MergeFrom(other ColorScheme) {
	if other.Preset != "" {
		c.Preset = other.Preset
	}
	c.overrideWith(other)
}

func (c *ColorScheme) fields() []*string {
	return []*string{
		&c.Accent,
		&c.ColumnBorder, &c.CardBorder, &c.SelectedBorder, &c.SelectedBg,
		&c.GrabbedBorder, &c.DropTarget,
		&c.Title, &c.Subtle, &c.Normal,
		&c.PriorityLow, &c.PriorityMedium, &c.PriorityHigh, &c.PriorityUrgent,
		&c.InfoFg, &c.InfoBg, &c.ErrorFg, &c.ErrorBg,
	}
}

func (c *ColorScheme) fillFrom(preset ColorScheme) {
	src := preset.fields()
	for i, dst := range c.fields() {
		if *dst == "" {
			*dst = *src[i]
		}
	}
}

func (c *ColorScheme) overrideWith(other ColorScheme) {
	src := other.fields()
	for i, dst := range c.fields() {
		if *src[i] != "" {
			*dst = *src[i]
		}
	}
}
