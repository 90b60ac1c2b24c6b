package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	gold  = lipgloss.Color("#D4AF37")
	muted = lipgloss.Color("#8892B0")
	green = lipgloss.Color("#8BC34A")
	red   = lipgloss.Color("#e53935")

	titleStyle = lipgloss.NewStyle().
			Foreground(gold).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(muted)

	valueStyle = lipgloss.NewStyle().
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(red).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(gold).
			Padding(0, 1)
)

// kv renders one "label  value" line.
func kv(label string, value any) string {
	return labelStyle.Render(label) + " " + valueStyle.Render(fmt.Sprint(value))
}
