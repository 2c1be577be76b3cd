package terminal

import (
	"fmt"
	"os"
	"strings"
)

// ColorMode is the color depth the game renders with
type ColorMode uint8

const (
	ColorMode256 ColorMode = iota
	ColorModeTrueColor
)

func (m ColorMode) String() string {
	if m == ColorModeTrueColor {
		return "truecolor"
	}
	return "256"
}

// ParseColorMode accepts auto, truecolor (true, 24bit) or 256. auto detects from env.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return DetectColorMode(os.Getenv), nil
	case "truecolor", "true", "24bit":
		return ColorModeTrueColor, nil
	case "256":
		return ColorMode256, nil
	default:
		return ColorMode256, fmt.Errorf("unknown color mode %q (auto, truecolor or 256)", s)
	}
}

// DetectColorMode determines terminal color capability from environment
func DetectColorMode(getenv func(string) string) ColorMode {
	colorterm := getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ColorModeTrueColor
	}

	for _, k := range []string{
		"KITTY_WINDOW_ID", "KONSOLE_VERSION", "ITERM_SESSION_ID",
		"ALACRITTY_WINDOW_ID", "ALACRITTY_LOG", "WEZTERM_PANE",
	} {
		if getenv(k) != "" {
			return ColorModeTrueColor
		}
	}

	term := getenv("TERM")
	if strings.Contains(term, "truecolor") ||
		strings.Contains(term, "24bit") ||
		strings.Contains(term, "direct") {
		return ColorModeTrueColor
	}

	return ColorMode256
}

// Apply steers tcell's own detection; call before the screen is created
func Apply(mode ColorMode) {
	switch mode {
	case ColorMode256:
		os.Setenv("TCELL_TRUECOLOR", "disable")
	case ColorModeTrueColor:
		os.Unsetenv("TCELL_TRUECOLOR")
		if os.Getenv("COLORTERM") == "" {
			os.Setenv("COLORTERM", "truecolor")
		}
	}
}
