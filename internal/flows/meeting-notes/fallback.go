package meetingnotes

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	summarySentences = 2
	maxExcerptRunes  = 320
	maxOwners        = 10
)

// BuildFallbackNotes summarizes a meeting without a model: the opening
// sentences of the transcript, no decisions, and one review item per
// participant.
func BuildFallbackNotes(input Input) Notes {
	excerpt := truncateRunes(firstSentences(strings.Join(strings.Fields(input.Transcript), " "), summarySentences), maxExcerptRunes)

	notes := Notes{
		Summary: fmt.Sprintf("Automatic summary of %q was unavailable. The discussion opened with: %s",
			titleOf(&input), excerpt),
		KeyDecisions: []string{},
		RisksOrConcerns: []string{
			"Decisions and owners were not extracted automatically and need confirmation.",
		},
		FollowUpNotes: "Circulate the full transcript and confirm decisions and owners at the start of the next meeting.",
	}

	for _, owner := range owners(input.Participants) {
		notes.ActionItems = append(notes.ActionItems, ActionItem{
			Owner:   owner,
			Task:    "Review the transcript and confirm your action items",
			DueDate: "Before the next meeting",
		})
	}
	if len(notes.ActionItems) == 0 {
		notes.ActionItems = []ActionItem{{
			Owner:   "Meeting organizer",
			Task:    "Review the transcript and assign owners to open items",
			DueDate: "Before the next meeting",
		}}
	}
	return notes
}

// firstSentences returns the first n sentences of text. A sentence ends at
// '.', '!' or '?' followed by whitespace or the end of text.
func firstSentences(text string, n int) string {
	count := 0
	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		next := i + 1
		if next < len(text) && text[next] != ' ' {
			continue
		}
		count++
		if count == n {
			return text[:next]
		}
	}
	return text
}

func owners(participants []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range participants {
		p = strings.TrimSpace(p)
		key := strings.ToLower(p)
		if p == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
		if len(out) == maxOwners {
			break
		}
	}
	return out
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n-3])) + "..."
}
