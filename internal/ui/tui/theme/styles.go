package theme

import "github.com/charmbracelet/lipgloss"

var (
	PanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	FocusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	HelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	LabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	DimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	// Reservoir and status emphasis tiers.
	ValueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	WarningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	CriticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	OkStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	NoticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))

	TabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("27")).
			Border(lipgloss.NormalBorder(), true, true, true, true).
			BorderForeground(lipgloss.Color("39"))
	TabInactiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("236")).
				Border(lipgloss.NormalBorder(), true, true, true, true).
				BorderForeground(lipgloss.Color("240"))
	TabHoverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("236")).
			Border(lipgloss.NormalBorder(), true, true, true, true).
			BorderForeground(lipgloss.Color("15"))
	ModalBackdrop = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	DisabledButtonBorder = lipgloss.Border{
		Top:         "╌",
		Bottom:      "╌",
		Left:        "┊",
		Right:       "┊",
		TopLeft:     "┌",
		TopRight:    "┐",
		BottomLeft:  "└",
		BottomRight: "┘",
	}
	DisabledBorderColor = lipgloss.Color("240")
	DisabledTextColor   = lipgloss.Color("240")

	ButtonStyle                = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder())
	ButtonFocusedStyle         = ButtonStyle.BorderForeground(lipgloss.Color("10")).Foreground(lipgloss.Color("10"))
	ButtonHoverStyle           = ButtonStyle.BorderForeground(lipgloss.Color("15")).Foreground(lipgloss.Color("15"))
	ButtonWarningStyle         = ButtonStyle.BorderForeground(lipgloss.Color("214")).Foreground(lipgloss.Color("214"))
	ButtonWarningFocusedStyle  = ButtonStyle.BorderForeground(lipgloss.Color("214")).Foreground(lipgloss.Color("214")).Bold(true)
	ButtonDisabledBaseStyle    = ButtonStyle.Border(DisabledButtonBorder).BorderForeground(DisabledBorderColor)
	ButtonDisabledStyle        = ButtonDisabledBaseStyle.Foreground(DisabledTextColor)
	ButtonDisabledFocusedStyle = ButtonStyle.BorderForeground(lipgloss.Color("255")).Foreground(lipgloss.Color("250"))
	ButtonDisabledHoverStyle   = ButtonDisabledBaseStyle.BorderForeground(lipgloss.Color("255")).Foreground(lipgloss.Color("250"))
)
