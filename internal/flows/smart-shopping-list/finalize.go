package smartshoppinglist

import "strings"

const localizationMarker = "Localized using"

type localization struct {
	currency       string
	profile        PriceProfile
	budget         *float64
	baselineBudget *float64
}

func newLocalization(input *Input, defaultCurrency string) localization {
	currency := strings.ToUpper(strings.TrimSpace(input.CurrencyCode))
	if currency == "" {
		currency = defaultCurrency
	}
	profile := LookupProfile(currency, strings.TrimSpace(input.RegionCode))

	loc := localization{currency: currency, profile: profile, budget: input.Budget}
	if input.Budget != nil {
		baseline := round2(*input.Budget / profile.EffectiveMultiplier())
		loc.baselineBudget = &baseline
	}
	return loc
}

// Finalize applies the regional multiplier to a baseline plan, recomputes
// the total and budget check, and appends the localization note once.
func (l localization) Finalize(plan Plan) ShoppingList {
	m := l.profile.EffectiveMultiplier()
	apply := func(v float64) float64 { return round2(round2(v) * m) }

	categories := make([]CategoryGroup, len(plan.CategoryBreakdown))
	total := 0.0
	for i, group := range plan.CategoryBreakdown {
		items := make([]Item, len(group.Items))
		for j, item := range group.Items {
			item.EstimatedCost = apply(item.EstimatedCost)
			total += item.EstimatedCost
			items[j] = item
		}
		categories[i] = CategoryGroup{Category: group.Category, Items: items}
	}

	finalTotal := apply(plan.EstimatedTotal)
	if total > 0 {
		finalTotal = round2(total)
	}

	withinBudget := plan.WithinBudget
	if l.budget != nil {
		withinBudget = finalTotal <= round2(*l.budget+0.01)
	}

	notes := plan.BudgetNotes
	if !strings.Contains(notes, localizationMarker) {
		notes = strings.TrimSpace(strings.TrimSpace(notes) + " " + l.profile.LocalizationNote())
	}

	out := ShoppingList{
		Plan:           plan,
		CostMultiplier: m,
		RegionLabel:    l.profile.Name,
		RegionCode:     l.profile.Code,
		RegionNote:     l.profile.Note,
		BaselineBudget: l.baselineBudget,
	}
	out.EstimatedTotal = finalTotal
	out.WithinBudget = withinBudget
	out.BudgetNotes = notes
	out.CategoryBreakdown = categories
	out.CurrencyCode = l.currency
	if l.budget != nil {
		target := round2(*l.budget)
		out.TargetBudget = &target
	}
	return out
}
