package diyfixguide

import (
	"fmt"
	"strings"
)

const systemPrompt = "You produce reliable home repair instructions and always return strict JSON."

func buildPrompt(input *Input) string {
	tools := "Not specified"
	if len(input.ToolsAvailable) > 0 {
		tools = strings.Join(input.ToolsAvailable, ", ")
	}
	constraints := "Constraints: None provided"
	if input.Constraints != "" {
		constraints = "Constraints: " + input.Constraints
	}

	lines := []string{
		"You are a professional repair technician creating a friendly DIY guide. Always respond with valid JSON that matches the provided schema. Do not include markdown or extra commentary.",
		"",
		fmt.Sprintf("Issue description: %s", input.IssueDescription),
		fmt.Sprintf("Location context: %s", input.LocationContext),
		fmt.Sprintf("Skill level: %s", input.SkillLevel),
		fmt.Sprintf("Tools on hand: %s", tools),
		constraints,
		"",
		"Structure the response with:",
		"- overview: string summarizing root cause or objective in 2 sentences.",
		"- difficulty: one of 'easy', 'moderate', 'advanced' based on skill level and risk.",
		"- estimatedTime: string, include preparation + active work windows.",
		"- safetyGear: array of safety items (e.g., gloves, goggles).",
		"- requiredTools: array of { name: string, optional: boolean, alternative?: string } with 5-8 entries max.",
		"- materials: array describing consumables or replacement parts.",
		"- preparation: array of short bullet items to complete before the main steps.",
		"- stepByStep: 5-8 ordered steps. Each step must have title and detail, caution may be empty string if not needed.",
		"- validationChecks: array describing what success looks like or tests to run.",
		"- troubleshooting: array of { symptom: string, fix: string } with at most 4 entries.",
		"- whenToCallProfessional: array of red-flag scenarios in plain language.",
		"- cleanupAndMaintenance: array of follow-up and preventative advice.",
		"",
		"Honor the user skill level. If the plan is unsafe for the given skill, note that in whenToCallProfessional. Limit each string to under 60 words.",
		"Return ONLY the JSON object.",
	}
	return strings.Join(lines, "\n")
}
