package meetingnotes

import "toolbox-ai/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"transcript"},
		Properties: map[string]validation.Property{
			"transcript": {
				Type:        "string",
				Description: "Meeting transcript or raw notes",
				MinLength:   validation.IntPtr(40),
			},
			"meetingTitle": {
				Type:      "string",
				MaxLength: validation.IntPtr(120),
			},
			"participants": {
				Type:     "array",
				MaxItems: validation.IntPtr(30),
				Items:    &validation.Property{Type: "string", MinLength: validation.IntPtr(1)},
			},
		},
		AdditionalProperties: false,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"summary", "keyDecisions", "actionItems", "risksOrConcerns", "followUpNotes"},
		Properties: map[string]validation.Property{
			"summary": {
				Type:        "string",
				Description: "Concise summary of the meeting",
			},
			"keyDecisions": {
				Type:        "array",
				Description: "Decisions that were made during the meeting",
				Items:       &validation.Property{Type: "string"},
			},
			"actionItems": {
				Type:        "array",
				Description: "Action items with owners and due dates",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"owner", "task", "dueDate"},
					Properties: map[string]validation.Property{
						"owner":   {Type: "string", Description: "Person responsible for the action item"},
						"task":    {Type: "string", Description: "Action item description"},
						"dueDate": {Type: "string", Description: "Suggested due date or timeline"},
					},
				},
			},
			"risksOrConcerns": {
				Type:        "array",
				Description: "Open issues or risks mentioned",
				Items:       &validation.Property{Type: "string"},
			},
			"followUpNotes": {
				Type:        "string",
				Description: "Additional notes or reminders for the next meeting",
			},
		},
	}
}
