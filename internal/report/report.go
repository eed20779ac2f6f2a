// Package report renders a comparison report as the two labeled sections the
// docs tooling expects: "Incorrect" then "Missing", one sample key per line.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"samplecheck/internal/compare"
)

// Section labels. The emoji prefixes are part of the output contract with the
// existing checker scripts; keep them byte-identical.
const (
	incorrectHeader = "❌ Incorrect:"
	missingHeader   = "🔁 Missing:"
)

var (
	incorrectStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e53935"))
	missingStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFC107"))
)

// Render writes both report sections to w, separated by a blank line. Only
// the section headers are styled; the sample keys stay plain so the output
// remains grep- and CI-friendly.
func Render(w io.Writer, rep compare.Report, styled bool) error {
	incorrect := incorrectHeader
	missing := missingHeader
	if styled {
		incorrect = incorrectStyle.Render(incorrect)
		missing = missingStyle.Render(missing)
	}

	if _, err := fmt.Fprintf(w, "%s\n%s\n", incorrect, strings.Join(rep.Incorrect, "\n")); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n%s\n", missing, strings.Join(rep.Missing, "\n"))
	return err
}
