package smartshoppinglist

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a precise grocery planning assistant that always returns strict JSON with helpful but concise content."

func buildPrompt(input *Input, loc localization) string {
	household := "Not specified"
	if input.HouseholdSize != nil {
		household = fmt.Sprintf("%d", *input.HouseholdSize)
	}
	budget, baseline := "Not provided", "Not provided"
	if loc.budget != nil {
		budget = fmt.Sprintf("%.2f", *loc.budget)
	}
	if loc.baselineBudget != nil {
		baseline = fmt.Sprintf("%.2f", *loc.baselineBudget)
	}
	diet := "None provided"
	if len(input.DietaryPreferences) > 0 {
		diet = strings.Join(input.DietaryPreferences, ", ")
	}
	pantry := "None noted"
	if len(input.PantryItems) > 0 {
		pantry = strings.Join(input.PantryItems, ", ")
	}

	cur := loc.currency
	region := loc.profile.Name
	lines := []string{
		"Generate a weekly grocery shopping plan with organized categories and budget awareness. Return ONLY valid JSON matching the schema. Do not include markdown or commentary.",
		"",
		"Household size: " + household,
		"Region focus: " + region,
		fmt.Sprintf("Regional price multiplier compared to baseline: %.2f", loc.profile.EffectiveMultiplier()),
		"Budget currency (user facing): " + cur,
		"Weekly budget target (user currency): " + budget,
		"Baseline planning budget before multiplier: " + baseline,
		"Dietary preferences: " + diet,
		"Pantry items already available: " + pantry,
		"",
		"Goals and constraints:",
		input.Goals,
		"",
		"Return a JSON object with the following fields:",
		"- overview: string",
		fmt.Sprintf("- estimatedTotal: number (%s) representing baseline pricing BEFORE the multiplier is applied", cur),
		"- withinBudget: boolean",
		"- budgetNotes: string (mention the currency explicitly and reference regional pricing considerations)",
		fmt.Sprintf("- categoryBreakdown: array of { category: string, items: array of { name: string, quantity: string, estimatedCost: number (%s) before multiplier, nutritionNote: string } }", cur),
		"- nutritionHighlights: array of strings",
		"- savingsTips: array of strings",
		"- mealPrepIdeas: array of strings",
		fmt.Sprintf("- currencyCode: string (must be %q)", cur),
		"",
		fmt.Sprintf("Ensure the estimatedTotal roughly equals the sum of item estimatedCost values in %s, using baseline amounts before multiplier. If budget is provided, compare using the baseline budget value. Mention %s context in your notes but DO NOT apply the multiplier to numeric fields; the system will adjust totals after parsing.", cur, region),
		"Limit categoryBreakdown to at most 6 categories with up to 5 items each. Keep each string under 25 words and total response under 1200 tokens.",
		fmt.Sprintf("All numeric fields should be plain numbers without currency symbols; the interface will format them in %s after applying the multiplier.", cur),
	}
	return strings.Join(lines, "\n")
}
