package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/svgbundle/pkg/pipeline"
	"github.com/matzehuels/svgbundle/pkg/shape"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings such as the browse table title.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleLink renders URLs and sprite references.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue renders paths and other data.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleWarning renders warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// Status icons, pre-rendered in their colors.
var (
	markSuccess = lipgloss.NewStyle().Foreground(colorGreen).Render("✓")
	markError   = lipgloss.NewStyle().Foreground(colorRed).Render("✗")
	markWarning = lipgloss.NewStyle().Foreground(colorYellow).Render("!")
	markInfo    = lipgloss.NewStyle().Foreground(colorGray).Render("›")
	markArrow   = StyleDim.Render("→")

	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCached  = lipgloss.NewStyle().Foreground(colorGreen)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

func status(mark, format string, args ...any) {
	fmt.Println(mark + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status(markSuccess, format, args...) }

func printError(format string, args ...any) { status(markError, format, args...) }

func printInfo(format string, args ...any) { status(markInfo, format, args...) }

func printWarning(format string, args ...any) {
	fmt.Println(markWarning + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written artifact path.
func printFile(path string) {
	fmt.Println("  " + markArrow + " " + StyleValue.Render(path))
}

// printSprite prints the sprite path followed by a summary line:
// image count, size on disk, canvas dimensions and optimizer cache hits.
func printSprite(r *pipeline.Result, fromCache int) {
	printFile(r.RelOutputPath)

	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d images", len(r.IDs))),
		StyleDim.Render(formatBytes(r.Bytes)),
		StyleDim.Render(shape.FormatNumber(r.Width) + "x" + shape.FormatNumber(r.Height)),
	}
	if fromCache > 0 {
		parts = append(parts, styleCached.Render(fmt.Sprintf("%d cached", fromCache)))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

func formatBytes(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
