package ui

import (
	"os"
	"strings"
)

var Theme = selectTheme()

func selectTheme() ColorTheme {
	if detectLightTerminal() {
		return NewBreakersTheme()
	}
	return NewMarianaTheme()
}

// detectLightTerminal detects if terminal has a light background via COLORFGBG.
// iTerm2 and other terminals set this as "foreground;background".
// Background 7 or 15 indicates light, 0-6 and 8 indicate dark.
func detectLightTerminal() bool {
	colorfgbg := os.Getenv("COLORFGBG")
	if colorfgbg == "" {
		return false
	}
	parts := strings.Split(colorfgbg, ";")
	if len(parts) != 2 {
		return false
	}
	bg := parts[1]
	return bg == "7" || bg == "15"
}

type ColorTheme struct {
	Foreground  string
	Background  string
	Cursor      string
	Border      string
	Hover       string
	Selection   string
	Placeholder Style
	Popup       Style // background of overlay content
	Mask        Style // backdrop drawn under modal overlays
}

func NewBreakersTheme() ColorTheme {
	return ColorTheme{
		Foreground:  "#333333", // grey3
		Background:  "#fbffff", // white5 (extremely light cyan-white)
		Cursor:      "#5fb3b3", // blue2 (caret)
		Border:      "#d9e0e4", // white2 (selection_border)
		Hover:       "#dae0e2", // white3
		Selection:   "#dae0e2", // white3 (line_highlight / selection)
		Placeholder: Style{FG: "#999999"},
		Popup:       Style{FG: "#333333", BG: "#f0f4f5"},
		Mask:        Style{BG: "#c0c5ce"},
	}
}

func NewMarianaTheme() ColorTheme {
	return ColorTheme{
		Foreground:  "#d8dee9", // white3
		Background:  "#303841", // blue3
		Cursor:      "#fac863", // orange
		Border:      "#65737e", // blue4 (selection_border)
		Hover:       "#4e5a65",
		Selection:   "#4e5a65", // blue2 (alpha handled by terminal blending)
		Placeholder: Style{FG: "#a7adba"},
		Popup:       Style{FG: "#d8dee9", BG: "#343d46"},
		Mask:        Style{BG: "#1b2026"},
	}
}
