package smartshoppinglist

// Input is the job payload for a weekly grocery plan.
type Input struct {
	HouseholdSize      *int     `json:"householdSize,omitempty"`
	Budget             *float64 `json:"budget,omitempty"`
	Goals              string   `json:"goals"`
	DietaryPreferences []string `json:"dietaryPreferences,omitempty"`
	PantryItems        []string `json:"pantryItems,omitempty"`
	CurrencyCode       string   `json:"currencyCode,omitempty"`
	RegionCode         string   `json:"regionCode,omitempty"`
}

type Item struct {
	Name          string  `json:"name"`
	Quantity      string  `json:"quantity"`
	EstimatedCost float64 `json:"estimatedCost"`
	NutritionNote string  `json:"nutritionNote"`
}

type CategoryGroup struct {
	Category string `json:"category"`
	Items    []Item `json:"items"`
}

// Plan is the shape the model is asked for. Costs are baseline prices
// before the regional multiplier.
type Plan struct {
	Overview            string          `json:"overview"`
	EstimatedTotal      float64         `json:"estimatedTotal"`
	WithinBudget        bool            `json:"withinBudget"`
	BudgetNotes         string          `json:"budgetNotes"`
	CategoryBreakdown   []CategoryGroup `json:"categoryBreakdown"`
	NutritionHighlights []string        `json:"nutritionHighlights"`
	SavingsTips         []string        `json:"savingsTips"`
	MealPrepIdeas       []string        `json:"mealPrepIdeas"`
	CurrencyCode        string          `json:"currencyCode"`
}

// ShoppingList is a Plan localized to the requested market.
type ShoppingList struct {
	Plan
	CostMultiplier float64  `json:"costMultiplier"`
	RegionLabel    string   `json:"regionLabel"`
	RegionCode     string   `json:"regionCode"`
	RegionNote     string   `json:"regionNote"`
	BaselineBudget *float64 `json:"baselineBudget,omitempty"`
	TargetBudget   *float64 `json:"targetBudget,omitempty"`
}

// Output is written back as job variables.
type Output struct {
	List   ShoppingList `json:"smartShoppingList"`
	Source string       `json:"smartShoppingListSource"`
}
