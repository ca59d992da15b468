package cmd

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const logoRaw = `


██╗  ██╗██╗   ██╗██████╗ ███████╗███████╗███████╗ █████╗ ██╗
██║ ██╔╝██║   ██║██╔══██╗██╔════╝██╔════╝██╔════╝██╔══██╗██║
█████╔╝ ██║   ██║██████╔╝█████╗  ███████╗█████╗  ███████║██║
██╔═██╗ ██║   ██║██╔══██╗██╔══╝  ╚════██║██╔══╝  ██╔══██║██║
██║  ██╗╚██████╔╝██████╔╝███████╗███████║███████╗██║  ██║███████╗
╚═╝  ╚═╝ ╚═════╝ ╚═════╝ ╚══════╝╚══════╝╚══════╝╚═╝  ╚═╝╚══════╝
                                                        auto
`

var (
	gradientStart = "#00c6ff"
	gradientEnd   = "#7cffb2"
)

func renderLogo() string {
	lines := strings.Split(strings.TrimPrefix(logoRaw, "\n"), "\n")
	if len(lines) == 0 {
		return ""
	}

	maxWidth := 0
	for _, line := range lines {
		if w := utf8.RuneCountInString(line); w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth == 0 {
		return ""
	}

	startColor, _ := colorful.Hex(gradientStart)
	endColor, _ := colorful.Hex(gradientEnd)

	var result strings.Builder
	for _, line := range lines {
		col := 0
		for _, char := range line {
			col++
			if char == ' ' {
				result.WriteRune(char)
				continue
			}
			t := float64(col) / float64(maxWidth)
			c := startColor.BlendLuv(endColor, t)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
			result.WriteString(style.Render(string(char)))
		}
		result.WriteString("\n")
	}

	return result.String()
}

var logo = renderLogo()
