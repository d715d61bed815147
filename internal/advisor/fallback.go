package advisor

import (
	"fmt"
	"strings"
)

// maxFallbackOptions caps how many slots the fallback draft enumerates.
const maxFallbackOptions = 5

// BuildFallbackMessage constructs the WhatsApp draft used when the
// whatsapp_message column arrives empty or as an unparsed model dump.
func BuildFallbackMessage(summary string, slots []RecommendedSlot, chosen *RecommendedSlot) string {
	lines := []string{"Hi! Here is a quick summary and options based on your request:"}
	if summary != "" {
		lines = append(lines, "- Summary: "+summary)
	}
	switch {
	case chosen != nil:
		lines = append(lines, "- Suggested slot: "+chosen.Label)
	case len(slots) > 0:
		lines = append(lines, "- Recommended slots:")
		for i, slot := range slots {
			if i == maxFallbackOptions {
				break
			}
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, slot.Label))
		}
	}
	lines = append(lines, "Please reply with your preferred option (or share a new timing), and we will confirm with the teacher.")
	return strings.Join(lines, "\n")
}
