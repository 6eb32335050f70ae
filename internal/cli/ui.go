package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // Teal - primary values
	colorGreen = lipgloss.Color("35")  // Green - success
	colorRed   = lipgloss.Color("167") // Soft red - errors
	colorWhite = lipgloss.Color("255") // Bright white - values
	colorDim   = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// styleTitle for main headings.
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// styleDim for secondary/muted text.
	styleDim = lipgloss.NewStyle().Foreground(colorDim)

	// styleValue for data values.
	styleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// styleNumber for numeric values.
	styleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// styleSuccess for success markers.
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// styleError for failure markers.
	styleError = lipgloss.NewStyle().Foreground(colorRed)
)

// kv renders an aligned "label: value" line for summary output.
func kv(label string, value any) string {
	return fmt.Sprintf("%s %s",
		styleDim.Render(fmt.Sprintf("%-12s", label+":")),
		styleValue.Render(fmt.Sprint(value)))
}

// num renders a numeric summary line.
func num(label string, value any) string {
	return fmt.Sprintf("%s %s",
		styleDim.Render(fmt.Sprintf("%-12s", label+":")),
		styleNumber.Render(fmt.Sprint(value)))
}
