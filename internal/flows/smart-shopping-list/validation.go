package smartshoppinglist

import "toolbox-ai/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"goals"},
		Properties: map[string]validation.Property{
			"householdSize": {
				Type:    "integer",
				Minimum: validation.FloatPtr(1),
				Maximum: validation.FloatPtr(12),
			},
			"budget": {
				Type:        "number",
				Description: "Weekly budget in the requested currency",
				Minimum:     validation.FloatPtr(10),
			},
			"goals": {
				Type:        "string",
				Description: "What meals are needed, any constraints and how the groceries will be used",
				MinLength:   validation.IntPtr(30),
			},
			"dietaryPreferences": {
				Type:     "array",
				MaxItems: validation.IntPtr(8),
				Items:    &validation.Property{Type: "string", MinLength: validation.IntPtr(2)},
			},
			"pantryItems": {
				Type:     "array",
				MaxItems: validation.IntPtr(25),
				Items:    &validation.Property{Type: "string", MinLength: validation.IntPtr(2)},
			},
			"currencyCode": {
				Type:        "string",
				Description: "Three-letter currency code",
				Pattern:     validation.StringPtr(`^[A-Za-z]{3}$`),
			},
			"regionCode": {
				Type:        "string",
				Description: "Letter-based region code",
				Pattern:     validation.StringPtr(`^[A-Za-z]{2,6}$`),
			},
		},
		AdditionalProperties: false,
	}
}

// GetOutputSchema describes the model plan for the default currency.
func GetOutputSchema() validation.JSONSchema {
	return outputSchemaFor(DefaultCurrency)
}

// outputSchemaFor fills a missing currencyCode with currency.
func outputSchemaFor(currency string) validation.JSONSchema {
	amount := func(description string) validation.Property {
		return validation.Property{Type: "number", Description: description}
	}
	stringList := func(description string) validation.Property {
		return validation.Property{Type: "array", Description: description, Items: &validation.Property{Type: "string"}}
	}

	return validation.JSONSchema{
		Type: "object",
		Required: []string{
			"overview", "estimatedTotal", "withinBudget", "budgetNotes", "categoryBreakdown",
			"nutritionHighlights", "savingsTips", "mealPrepIdeas",
		},
		Properties: map[string]validation.Property{
			"overview":       {Type: "string", Description: "Short explanation of the plan and how it meets the goals"},
			"estimatedTotal": amount("Estimated total cost for the shopping list"),
			"withinBudget":   {Type: "boolean", Description: "Whether the estimated total fits within the budget"},
			"budgetNotes":    {Type: "string", Description: "Notes on spending, trade-offs, or adjustments"},
			"categoryBreakdown": {
				Type:        "array",
				Description: "Categorized grocery list",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"category", "items"},
					Properties: map[string]validation.Property{
						"category": {Type: "string", Description: "Shopping category such as produce or pantry"},
						"items": {
							Type: "array",
							Items: &validation.Property{
								Type:     "object",
								Required: []string{"name", "quantity", "estimatedCost", "nutritionNote"},
								Properties: map[string]validation.Property{
									"name":          {Type: "string"},
									"quantity":      {Type: "string"},
									"estimatedCost": amount("Estimated cost for the item"),
									"nutritionNote": {Type: "string"},
								},
							},
						},
					},
				},
			},
			"nutritionHighlights": stringList("Key nutrition takeaways for the plan"),
			"savingsTips":         stringList("Ways to stay on budget or save money"),
			"mealPrepIdeas":       stringList("Meal prep ideas that use the groceries efficiently"),
			"currencyCode": {
				Type:        "string",
				Description: "ISO 4217 currency code used throughout the plan",
				MinLength:   validation.IntPtr(3),
				MaxLength:   validation.IntPtr(3),
				Default:     currency,
			},
		},
	}
}
