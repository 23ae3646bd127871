package meetingnotes

import (
	"fmt"
	"strings"
)

const systemPrompt = "You summarize meetings into structured JSON. Always respond with valid JSON matching the schema. No markdown, no code fences."

const defaultTitle = "Untitled meeting"

func titleOf(input *Input) string {
	if t := strings.TrimSpace(input.MeetingTitle); t != "" {
		return t
	}
	return defaultTitle
}

func buildPrompt(input *Input) string {
	participants := "Not specified"
	if len(input.Participants) > 0 {
		participants = strings.Join(input.Participants, ", ")
	}

	return fmt.Sprintf(`Summarize the following meeting transcript.

Meeting title: %s
Participants: %s

Transcript:
"""
%s
"""

Return a JSON object with:
- summary: 2-3 sentences covering the overall meeting purpose and outcome.
- keyDecisions: 3-5 concise bullet points.
- actionItems: array of objects with owner, task, dueDate.
- risksOrConcerns: issues that could block progress.
- followUpNotes: include prep for next meeting or documentation reminders.

Return ONLY the JSON object.`, titleOf(input), participants, input.Transcript)
}
