package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresetsComplete(t *testing.T) {
	for _, name := range []string{"default", "monochrome", "wave"} {
		t.Run(name, func(t *testing.T) {
			preset := GetPreset(name)
			assert.Equal(t, name, preset.Preset)
			for i, field := range preset.fields() {
				assert.NotEmpty(t, *field, "field %d of %s", i, name)
			}
		})
	}
}

func TestGetPresetUnknown(t *testing.T) {
	assert.Equal(t, Default(), GetPreset("solarized"))
}

func TestApplyDefaultsKeepsOverrides(t *testing.T) {
	scheme := ColorScheme{Preset: "wave", Accent: "#123456"}
	scheme.ApplyDefaults()

	assert.Equal(t, "#123456", scheme.Accent)
	assert.Equal(t, Wave().Title, scheme.Title)
}

func TestMergeFrom(t *testing.T) {
	scheme := *Default()
	scheme.MergeFrom(ColorScheme{ErrorFg: "#ABCDEF"})

	assert.Equal(t, "#ABCDEF", scheme.ErrorFg)
	assert.Equal(t, Default().Accent, scheme.Accent)
	assert.Equal(t, "default", scheme.Preset)
}
