package config

import "github.com/thenoetrevino/tablero/internal/config/colors"

// ColorScheme is the theme section of the config file
type ColorScheme = colors.ColorScheme

// DefaultColorScheme returns the default (purple) scheme
func DefaultColorScheme() ColorScheme {
	return *colors.Default()
}
