package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme pairs the ANSI escape codes used by the CLI output with the
// lipgloss palette of the dashboard, so both surfaces switch together.
type Theme struct {
	Name string

	Primary   string // intervals, algorithm names
	Secondary string
	Success   string
	Warning   string // durations, timeouts
	Error     string
	Info      string
	Bold      string
	Underline string
	Reset     string

	TUI TUITheme
}

// TUITheme holds lipgloss colors for the TUI dashboard.
type TUITheme struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
}

const (
	esc       = "\033["
	bold      = esc + "1m"
	underline = esc + "4m"
	reset     = esc + "0m"
)

// fg256 returns the escape code selecting foreground color n of the
// 256-color palette.
func fg256(n string) string { return esc + "38;5;" + n + "m" }

var (
	// DarkTUITheme is the dashboard palette for dark backgrounds.
	DarkTUITheme = TUITheme{
		Text:    lipgloss.Color("#D8DEE9"),
		Border:  lipgloss.Color("#2A9D8F"),
		Accent:  lipgloss.Color("#48CAE4"),
		Success: lipgloss.Color("#90BE6D"),
		Error:   lipgloss.Color("#E76F51"),
		Dim:     lipgloss.Color("#6C7A89"),
	}

	// LightTUITheme is the dashboard palette for light backgrounds.
	LightTUITheme = TUITheme{
		Text:    lipgloss.Color("#2E3440"),
		Border:  lipgloss.Color("#1D6F66"),
		Accent:  lipgloss.Color("#0077B6"),
		Success: lipgloss.Color("#4F772D"),
		Error:   lipgloss.Color("#B23A1E"),
		Dim:     lipgloss.Color("#8A8F98"),
	}

	// NoColorTUITheme renders with the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Text:    lipgloss.NoColor{},
		Border:  lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
	}

	// DarkTheme is the default.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   fg256("44"),  // teal
		Secondary: fg256("246"), // slate
		Success:   fg256("113"), // moss
		Warning:   fg256("214"), // amber
		Error:     fg256("203"), // coral
		Info:      fg256("81"),  // sky
		Bold:      bold,
		Underline: underline,
		Reset:     reset,
		TUI:       DarkTUITheme,
	}

	LightTheme = Theme{
		Name:      "light",
		Primary:   fg256("30"),
		Secondary: fg256("242"),
		Success:   fg256("64"),
		Warning:   fg256("130"),
		Error:     fg256("160"),
		Info:      fg256("25"),
		Bold:      bold,
		Underline: underline,
		Reset:     reset,
		TUI:       LightTUITheme,
	}

	// NoColorTheme disables all styling, for NO_COLOR and --no-color.
	NoColorTheme = Theme{Name: "none", TUI: NoColorTUITheme}

	themesByName = map[string]Theme{
		DarkTheme.Name:    DarkTheme,
		LightTheme.Name:   LightTheme,
		NoColorTheme.Name: NoColorTheme,
	}

	themeMu      sync.RWMutex
	currentTheme = DarkTheme
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// GetCurrentTUITheme returns the dashboard palette of the active theme.
func GetCurrentTUITheme() TUITheme {
	return GetCurrentTheme().TUI
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMu.Lock()
	currentTheme = t
	themeMu.Unlock()
}

// SetTheme selects a theme by name ("dark", "light", "none"). Unknown
// names select the dark theme.
func SetTheme(name string) {
	t, ok := themesByName[name]
	if !ok {
		t = DarkTheme
	}
	SetCurrentTheme(t)
}

// InitTheme disables colors when noColor is set or NO_COLOR is present in
// the environment (https://no-color.org/), and selects the dark theme
// otherwise.
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); set || noColor {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}
