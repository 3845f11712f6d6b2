package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Theme holds color constants for the TUI.
type Theme struct {
	Name              string
	BgColor           tcell.Color
	FgColor           tcell.Color
	BorderColor       tcell.Color
	BorderFocusColor  tcell.Color
	TableHeaderFg     tcell.Color
	TableHeaderBg     tcell.Color
	TableCursorFg     tcell.Color
	TableCursorBg     tcell.Color
	CrumbActiveFg     tcell.Color
	CrumbActiveBg     tcell.Color
	CrumbInactiveFg   tcell.Color
	CrumbInactiveBg   tcell.Color
	MenuKeyColor      tcell.Color
	NumericKeyColor   tcell.Color
	TitleColor        tcell.Color
	CounterColor      tcell.Color
	FlashInfoColor    tcell.Color
	FlashWarnColor    tcell.Color
	FlashErrColor     tcell.Color
	PromptBorderColor tcell.Color

	// Message list.
	MineBg         tcell.Color
	TheirsBg       tcell.Color
	TimeColor      tcell.Color
	DateSepColor   tcell.Color
	SelectedBg     tcell.Color
	HighlightBg    tcell.Color
	StarColor      tcell.Color
	MediaColor     tcell.Color
	UncertainColor tcell.Color
	MissingColor   tcell.Color
	SenderColors   []tcell.Color
}

// DefaultTheme returns a k9s-inspired dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		Name:              ThemeDark,
		BgColor:           tcell.ColorBlack,
		FgColor:           tcell.ColorCadetBlue,
		BorderColor:       tcell.ColorDodgerBlue,
		BorderFocusColor:  tcell.ColorLightSkyBlue,
		TableHeaderFg:     tcell.ColorWhite,
		TableHeaderBg:     tcell.ColorBlack,
		TableCursorFg:     tcell.ColorBlack,
		TableCursorBg:     tcell.ColorAqua,
		CrumbActiveFg:     tcell.ColorBlack,
		CrumbActiveBg:     tcell.ColorOrange,
		CrumbInactiveFg:   tcell.ColorBlack,
		CrumbInactiveBg:   tcell.ColorAqua,
		MenuKeyColor:      tcell.ColorDodgerBlue,
		NumericKeyColor:   tcell.ColorFuchsia,
		TitleColor:        tcell.ColorFuchsia,
		CounterColor:      tcell.ColorPapayaWhip,
		FlashInfoColor:    tcell.ColorNavajoWhite,
		FlashWarnColor:    tcell.ColorOrange,
		FlashErrColor:     tcell.ColorOrangeRed,
		PromptBorderColor: tcell.ColorDodgerBlue,

		MineBg:         tcell.NewHexColor(0x005c4b),
		TheirsBg:       tcell.NewHexColor(0x202c33),
		TimeColor:      tcell.ColorGray,
		DateSepColor:   tcell.ColorLightSkyBlue,
		SelectedBg:     tcell.NewHexColor(0x2a3942),
		HighlightBg:    tcell.ColorDarkGoldenrod,
		StarColor:      tcell.ColorGold,
		MediaColor:     tcell.ColorAqua,
		UncertainColor: tcell.ColorOrange,
		MissingColor:   tcell.ColorOrangeRed,
		SenderColors: []tcell.Color{
			tcell.ColorHotPink, tcell.ColorMediumPurple, tcell.ColorLightGreen,
			tcell.ColorSandyBrown, tcell.ColorTurquoise, tcell.ColorKhaki,
		},
	}
}

// LightTheme is the day variant.
func LightTheme() *Theme {
	t := DefaultTheme()
	t.Name = ThemeLight
	t.BgColor = tcell.ColorWhite
	t.FgColor = tcell.ColorBlack
	t.BorderColor = tcell.ColorTeal
	t.TableHeaderFg = tcell.ColorBlack
	t.TableHeaderBg = tcell.ColorWhite
	t.TableCursorFg = tcell.ColorWhite
	t.TableCursorBg = tcell.ColorTeal
	t.TitleColor = tcell.ColorPurple
	t.CounterColor = tcell.ColorNavy
	t.FlashInfoColor = tcell.ColorDarkBlue
	t.MineBg = tcell.NewHexColor(0xd9fdd3)
	t.TheirsBg = tcell.NewHexColor(0xf0f2f5)
	t.TimeColor = tcell.ColorDimGray
	t.DateSepColor = tcell.ColorTeal
	t.SelectedBg = tcell.NewHexColor(0xc8e6f5)
	t.HighlightBg = tcell.ColorYellow
	t.StarColor = tcell.ColorDarkOrange
	t.MediaColor = tcell.ColorDarkCyan
	t.SenderColors = []tcell.Color{
		tcell.ColorMediumVioletRed, tcell.ColorRebeccaPurple, tcell.ColorGreen,
		tcell.ColorSaddleBrown, tcell.ColorDarkCyan, tcell.ColorOlive,
	}
	return t
}

// ThemeFor returns the theme called name, defaulting to dark.
func ThemeFor(name string) *Theme {
	if strings.EqualFold(name, ThemeLight) {
		return LightTheme()
	}
	return DefaultTheme()
}

// Toggle returns the other theme.
func (t *Theme) Toggle() *Theme {
	if t.Name == ThemeLight {
		return DefaultTheme()
	}
	return LightTheme()
}

// SenderColor picks a stable color for the participant at position i.
func (t *Theme) SenderColor(i int) tcell.Color {
	if i < 0 || len(t.SenderColors) == 0 {
		return t.FgColor
	}
	return t.SenderColors[i%len(t.SenderColors)]
}
