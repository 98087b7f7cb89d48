package ui

import (
	gloss "github.com/charmbracelet/lipgloss"
)

var (
	colorAccent  = gloss.Color("#89b4fa")
	colorMuted   = gloss.Color("#585b70")
	colorText    = gloss.Color("#cdd6f4")
	colorSubtext = gloss.Color("#bac2de")
	colorRed     = gloss.Color("#f38ba8")
	colorGreen   = gloss.Color("#a6e3a1")
	colorYellow  = gloss.Color("#f9e2af")
	colorLine    = gloss.Color("#363a4f")
)

const (
	TabSpacing    = 4
	TabPaddingTop = 1
	TabPaddingBot = 0
	ListMaxWidth  = 110
	FormMaxWidth  = 80
	LabelWidth    = 22
)

// Tab styles
var (
	ActiveTabStyle = gloss.NewStyle().
			Foreground(colorAccent).
			Padding(TabPaddingTop, TabSpacing, TabPaddingBot, TabSpacing).
			Align(gloss.Center)

	InactiveTabStyle = gloss.NewStyle().
				Foreground(colorMuted).
				Padding(TabPaddingTop, TabSpacing, TabPaddingBot, TabSpacing).
				Align(gloss.Center)

	TabsRow = gloss.NewStyle().
		Foreground(colorAccent).
		Align(gloss.Center).
		Bold(true)

	UnderlineRow = gloss.NewStyle().
			Foreground(colorLine).
			Align(gloss.Center)
)

// List container style
var ListStyle = gloss.NewStyle().
	Align(gloss.Left).
	Padding(1, 4)

var List = gloss.NewStyle().
	Align(gloss.Center)

// Listed item styles
var (
	SelectedTitleStyle = gloss.NewStyle().
				Foreground(colorAccent).
				BorderLeft(true).
				BorderStyle(gloss.NormalBorder()).
				BorderForeground(colorAccent).
				PaddingLeft(1).
				Bold(true)

	SelectedDescStyle = gloss.NewStyle().
				Foreground(colorSubtext).
				BorderLeft(true).
				BorderStyle(gloss.NormalBorder()).
				BorderForeground(colorAccent).
				PaddingLeft(1)

	NormalTitleStyle = gloss.NewStyle().
				Foreground(colorText).
				PaddingLeft(2)

	NormalDescStyle = gloss.NewStyle().
			Foreground(colorMuted).
			PaddingLeft(2)

	RatingStyle = gloss.NewStyle().Foreground(colorYellow)

	BadgeStyle = gloss.NewStyle().Foreground(colorAccent)

	IncludedGenreStyle = gloss.NewStyle().Foreground(colorGreen)

	ExcludedGenreStyle = gloss.NewStyle().Foreground(colorRed).Strikethrough(true)

	PlaceholderRowStyle = gloss.NewStyle().
				Foreground(colorMuted).
				PaddingLeft(2).
				Italic(true)

	ErrorRowStyle = gloss.NewStyle().
			Foreground(colorRed).
			PaddingLeft(2)
)

var (
	PromptStyle = gloss.NewStyle().
			Foreground(colorAccent)

	PromptTextStyle = gloss.NewStyle().
			Foreground(colorText)

	PromptCursorStyle = gloss.NewStyle().
				Foreground(colorText)

	PromptBoxStyle = gloss.NewStyle().
			Border(gloss.RoundedBorder()).
			BorderForeground(colorAccent)

	InputPlaceholderStyle = gloss.NewStyle().
				Foreground(colorMuted)
)

var (
	StatusStyle = gloss.NewStyle().
			Foreground(colorAccent).
			PaddingLeft(4).
			PaddingRight(4).
			PaddingTop(1).
			Align(gloss.Center)

	StatusMutedStyle = gloss.NewStyle().
				Foreground(colorMuted).
				PaddingLeft(4).
				PaddingTop(1).
				Align(gloss.Center)

	SuccessStyle = gloss.NewStyle().
			Foreground(colorGreen).
			PaddingLeft(4).
			PaddingTop(1)

	ErrorStyle = gloss.NewStyle().
			Foreground(colorRed).
			PaddingLeft(4).
			PaddingTop(1)

	HelpStyle = gloss.NewStyle().
			Foreground(colorMuted).
			PaddingLeft(4).
			PaddingTop(1)
)

// Form styles
var (
	LabelStyle = gloss.NewStyle().
			Foreground(colorSubtext).
			Width(LabelWidth)

	FocusedLabelStyle = gloss.NewStyle().
				Foreground(colorAccent).
				Bold(true).
				Width(LabelWidth)

	FieldErrorStyle = gloss.NewStyle().
			Foreground(colorRed).
			PaddingLeft(LabelWidth + 1)

	GroupTitleStyle = gloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			PaddingTop(1)

	FormStyle = gloss.NewStyle().
			Padding(0, 4)
)

// Popup styles
var (
	PopupBoxStyle = gloss.NewStyle().
			Border(gloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)

	PopupTitleStyle = gloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	PopupItemStyle = gloss.NewStyle().
			Foreground(colorText)
)
