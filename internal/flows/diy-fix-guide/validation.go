package diyfixguide

import "toolbox-ai/internal/common/validation"

var (
	SkillLevels  = []string{"beginner", "intermediate", "advanced"}
	Difficulties = []string{"easy", "moderate", "advanced"}
)

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"issueDescription", "locationContext", "skillLevel"},
		Properties: map[string]validation.Property{
			"issueDescription": {
				Type:        "string",
				Description: "Describe the problem in detail so a safe fix can be recommended",
				MinLength:   validation.IntPtr(40),
			},
			"locationContext": {
				Type:        "string",
				Description: "Where the issue occurs, e.g. kitchen sink, bedroom wall, backyard deck",
				MinLength:   validation.IntPtr(3),
				MaxLength:   validation.IntPtr(60),
			},
			"skillLevel": {
				Type: "string",
				Enum: SkillLevels,
			},
			"toolsAvailable": {
				Type:     "array",
				MaxItems: validation.IntPtr(15),
				Items:    &validation.Property{Type: "string", MinLength: validation.IntPtr(2)},
			},
			"constraints": {
				Type:        "string",
				Description: "Limitations like budget, time or apartment rules",
				MaxLength:   validation.IntPtr(180),
			},
		},
		AdditionalProperties: false,
	}
}

func stringList(description string) validation.Property {
	return validation.Property{
		Type:        "array",
		Description: description,
		Items:       &validation.Property{Type: "string"},
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Required: []string{
			"overview", "difficulty", "estimatedTime", "safetyGear", "requiredTools",
			"materials", "preparation", "stepByStep", "validationChecks", "troubleshooting",
			"whenToCallProfessional", "cleanupAndMaintenance",
		},
		Properties: map[string]validation.Property{
			"overview": {
				Type:        "string",
				Description: "High-level description of the fix plan",
			},
			"difficulty": {
				Type:        "string",
				Description: "Overall difficulty rating",
				Enum:        Difficulties,
			},
			"estimatedTime": {
				Type:        "string",
				Description: "Rough time estimate to complete the task",
			},
			"safetyGear": stringList("Protective equipment required before starting"),
			"requiredTools": {
				Type:        "array",
				Description: "Tools needed to complete the job",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"name"},
					Properties: map[string]validation.Property{
						"name":        {Type: "string"},
						"optional":    {Type: "boolean", Default: false},
						"alternative": {Type: "string"},
					},
				},
			},
			"materials":   stringList("Materials or replacements to buy before the fix"),
			"preparation": stringList("Preparation checklist before starting work"),
			"stepByStep": {
				Type:        "array",
				Description: "Actionable steps to fix the issue",
				MinItems:    validation.IntPtr(3),
				MaxItems:    validation.IntPtr(10),
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"title", "detail"},
					Properties: map[string]validation.Property{
						"title":   {Type: "string"},
						"detail":  {Type: "string"},
						"caution": {Type: "string", Default: ""},
					},
				},
			},
			"validationChecks": stringList("Checks to confirm the repair succeeded"),
			"troubleshooting": {
				Type:        "array",
				Description: "How to handle common issues if results differ from expectations",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"symptom", "fix"},
					Properties: map[string]validation.Property{
						"symptom": {Type: "string"},
						"fix":     {Type: "string"},
					},
				},
			},
			"whenToCallProfessional": stringList("Red flags indicating the user should stop and hire a professional"),
			"cleanupAndMaintenance":  stringList("Wrap-up and future prevention tips"),
		},
	}
}
