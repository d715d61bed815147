package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/realfunhq/copilot/internal/advisor"
)

// FormatResponse renders the full recommendation panel: intent badge,
// summary, slot table with the copy-paste list, chosen slot, WhatsApp
// draft, and any warnings.
func FormatResponse(resp *advisor.Response) string {
	sections := []string{
		IntentBadge(resp.Intent),
		Header("Summary") + "\n" + fieldOrMissing(resp.Summary),
		Header("Recommended Slots") + "\n" + FormatSlots(resp.RecommendedSlots),
		Header("Chosen Slot") + "\n" + formatChosen(resp.ChosenSlot),
		Header("WhatsApp Message") + "\n" + RenderBox("", resp.WhatsAppMessage),
	}
	if len(resp.Warnings) > 0 {
		sections = append(sections, Header("Warnings & Follow-ups")+"\n"+formatWarnings(resp.Warnings))
	}
	return strings.Join(sections, "\n\n")
}

// FormatSlots renders the slot table plus the enumerated list operators
// paste to parents.
func FormatSlots(slots []advisor.RecommendedSlot) string {
	if len(slots) == 0 {
		return Dim("No slot recommendations returned.")
	}

	rows := make([][]string, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, []string{
			StyleFg.Render(slot.Label),
			Dim(slot.InternalCode),
			StyleYellow.Render(FormatConfidence(slot.Confidence)),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable([]string{"Label", "Internal code", "Confidence"}, rows))
	b.WriteString("\n")
	b.WriteString(Bold("Options to share with parents:"))
	for i, slot := range slots {
		desc := slot.Label
		if slot.InternalCode != "" {
			desc += fmt.Sprintf(" (code: %s)", slot.InternalCode)
		}
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, desc))
	}
	return b.String()
}

func formatChosen(chosen *advisor.RecommendedSlot) string {
	if chosen == nil {
		return Dim("No slot automatically chosen. Please decide manually.")
	}
	return StyleGreen.Render("✔ " + chosen.Label)
}

func formatWarnings(warnings []string) string {
	lines := make([]string, 0, len(warnings))
	for _, w := range warnings {
		lines = append(lines, StyleYellow.Render("▲ ")+StyleFg.Render(w))
	}
	return strings.Join(lines, "\n")
}

func fieldOrMissing(text string) string {
	if strings.TrimSpace(text) == "" {
		return Dim("(not provided)")
	}
	return StyleFg.Render(text)
}

// FormatConfidence renders a confidence score as a whole percentage.
// Values are displayed as given; nothing range-checks them.
func FormatConfidence(value *float64) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%.0f%%", *value*100)
}

// FormatLatency converts call latency into a compact label.
func FormatLatency(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}

// FormatHint is the idle right-pane text before the first submission.
func FormatHint() string {
	return Dim("Fill in the form and submit to generate a recommendation.")
}

// FormatError renders an inline request failure with a retry hint.
func FormatError(msg string) string {
	return StyleRed.Render("✖ "+msg) + "\n" + Dim("Update the form and try again.")
}

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		inner := StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
		return boxStyle.Render(inner)
	}
	return boxStyle.Render(content)
}
