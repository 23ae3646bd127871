package smartshoppinglist

import (
	"fmt"
	"strings"
)

const defaultHouseholdSize = 2

type staple struct {
	name     string
	unit     string
	perHead  float64 // units per person per week
	unitCost float64 // baseline cost per unit
	note     string
	meat     bool // excluded for vegetarians
	animal   bool // excluded for vegans
}

type stapleGroup struct {
	category string
	items    []staple
}

var staples = []stapleGroup{
	{"Produce", []staple{
		{name: "Bananas", unit: "lb", perHead: 1.5, unitCost: 0.65, note: "Quick breakfast fruit rich in potassium."},
		{name: "Carrots", unit: "lb", perHead: 1, unitCost: 1.1, note: "Keeps well and works raw or roasted."},
		{name: "Onions", unit: "lb", perHead: 1, unitCost: 1.2, note: "Flavor base for most cooked meals."},
		{name: "Frozen mixed vegetables", unit: "bag", perHead: 1, unitCost: 2.5, note: "Cheap vegetables with no spoilage."},
	}},
	{"Protein", []staple{
		{name: "Eggs", unit: "dozen", perHead: 0.5, unitCost: 3.2, note: "Versatile protein for any meal.", animal: true},
		{name: "Dried lentils", unit: "lb", perHead: 0.5, unitCost: 1.8, note: "Fiber and plant protein for soups and stews."},
		{name: "Chicken thighs", unit: "lb", perHead: 1, unitCost: 3.5, note: "Affordable protein for batch cooking.", meat: true},
		{name: "Firm tofu", unit: "block", perHead: 0.5, unitCost: 2.3, note: "Plant protein that takes on any seasoning."},
	}},
	{"Grains", []staple{
		{name: "Brown rice", unit: "lb", perHead: 1, unitCost: 1.6, note: "Whole grain base for bowls and stir-fries."},
		{name: "Rolled oats", unit: "lb", perHead: 0.5, unitCost: 1.9, note: "Filling breakfast with slow-release energy."},
		{name: "Whole wheat bread", unit: "loaf", perHead: 0.5, unitCost: 3, note: "Sandwiches and toast for quick meals."},
	}},
	{"Dairy", []staple{
		{name: "Milk", unit: "gallon", perHead: 0.5, unitCost: 3.9, note: "Calcium for breakfasts and cooking.", animal: true},
		{name: "Plain yogurt", unit: "tub", perHead: 0.5, unitCost: 3.4, note: "Protein-rich snack and breakfast topping.", animal: true},
	}},
}

// BuildFallbackPlan returns a staple grocery plan sized to the household.
// Prices are baseline; the caller localizes them like any model plan.
func BuildFallbackPlan(input Input, currency string, baselineBudget *float64) Plan {
	household := defaultHouseholdSize
	if input.HouseholdSize != nil && *input.HouseholdSize > 0 {
		household = *input.HouseholdSize
	}

	vegetarian, vegan := dietFlags(input.DietaryPreferences)

	groups := []CategoryGroup{}
	total := 0.0
	for _, group := range staples {
		var items []Item
		for _, s := range group.items {
			if (s.meat && vegetarian) || (s.animal && vegan) || inPantry(s.name, input.PantryItems) {
				continue
			}
			qty := roundUpHalf(s.perHead * float64(household))
			cost := round2(qty * s.unitCost)
			total += cost
			items = append(items, Item{
				Name:          s.name,
				Quantity:      fmt.Sprintf("%s %s", formatQuantity(qty), s.unit),
				EstimatedCost: cost,
				NutritionNote: s.note,
			})
		}
		if len(items) > 0 {
			groups = append(groups, CategoryGroup{Category: group.category, Items: items})
		}
	}
	total = round2(total)

	withinBudget := true
	budgetNotes := fmt.Sprintf("Staple plan built without model assistance. Amounts are baseline estimates in %s.", currency)
	if baselineBudget != nil {
		withinBudget = total <= round2(*baselineBudget+0.01)
		if !withinBudget {
			budgetNotes += " Trim the protein and dairy quantities first to meet the budget."
		}
	}

	return Plan{
		Overview: fmt.Sprintf(
			"Fallback staple grocery plan for a household of %d covering simple breakfasts, packed lunches and batch-cooked dinners.",
			household),
		EstimatedTotal:    total,
		WithinBudget:      withinBudget,
		BudgetNotes:       budgetNotes,
		CategoryBreakdown: groups,
		NutritionHighlights: []string{
			"Balanced mix of whole grains, produce and protein across the week.",
			"Frozen vegetables keep fiber intake steady without waste.",
		},
		SavingsTips: []string{
			"Buy store brands for grains, dairy and frozen produce.",
			"Check your pantry before shopping and skip anything already on hand.",
			"Cook grains and legumes in bulk and freeze portions.",
		},
		MealPrepIdeas: []string{
			"Batch-cook rice and lentils on the weekend for quick bowls.",
			"Prepare overnight oats with yogurt and sliced bananas.",
			"Roast carrots and onions together as a side for several dinners.",
		},
		CurrencyCode: currency,
	}
}

func dietFlags(prefs []string) (vegetarian, vegan bool) {
	for _, p := range prefs {
		p = strings.ToLower(p)
		switch {
		case strings.Contains(p, "vegan"), strings.Contains(p, "plant"):
			vegan, vegetarian = true, true
		case strings.Contains(p, "vegetarian"):
			vegetarian = true
		}
	}
	return vegetarian, vegan
}

func inPantry(name string, pantry []string) bool {
	name = strings.ToLower(name)
	for _, p := range pantry {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && (strings.Contains(name, p) || strings.Contains(p, name)) {
			return true
		}
	}
	return false
}

// roundUpHalf rounds up to the next half unit so quantities stay buyable.
func roundUpHalf(v float64) float64 {
	whole := float64(int(v * 2))
	if whole < v*2 {
		whole++
	}
	return whole / 2
}

func formatQuantity(v float64) string {
	if v == float64(int(v)) {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%.1f", v)
}
