package smartshoppinglist

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"toolbox-ai/internal/common/config"
	"toolbox-ai/internal/common/errors"
	"toolbox-ai/internal/common/logger"
	"toolbox-ai/internal/common/validation"
	"toolbox-ai/internal/llm"
	"toolbox-ai/internal/structured"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "toolbox-process",
		ElementId:          "Activity_SmartShoppingList",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func createValidInput() *Input {
	return &Input{
		HouseholdSize:      intPtr(2),
		Budget:             floatPtr(50),
		Goals:              "Cheap healthy dinners for two adults with leftovers for lunch.",
		DietaryPreferences: []string{"high protein"},
		CurrencyCode:       "EUR",
	}
}

func createValidConfig() *Config {
	cfg := DefaultConfig()
	cfg.Timeout = 30 * time.Second
	return cfg
}

type recordingGenerator struct {
	responses map[bool]string
	requests  []llm.Request
}

func (g *recordingGenerator) Generate(_ context.Context, req llm.Request) (string, error) {
	g.requests = append(g.requests, req)
	return g.responses[req.SkipPrimary], nil
}

func newTestHandler(t *testing.T, gen llm.Generator) *Handler {
	t.Helper()
	handler, err := NewHandler(HandlerOptions{
		CustomConfig: createValidConfig(),
		Generator:    gen,
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return handler
}

const modelPlan = `{
	"overview": "Two dinners a night built around beans and chicken.",
	"estimatedTotal": "$6.40",
	"withinBudget": "true",
	"budgetNotes": "Prices in EUR reflect German supermarkets.",
	"categoryBreakdown": [
		{"category": "Protein", "items": [
			{"name": "Chicken thighs", "quantity": "1 kg", "estimatedCost": "4.00", "nutritionNote": "Lean protein"},
			{"name": "Canned beans", "quantity": "2 cans", "estimatedCost": 2.4, "nutritionNote": "Fiber"}
		]}
	],
	"nutritionHighlights": ["High protein"],
	"savingsTips": ["Buy family packs"],
	"mealPrepIdeas": ["Batch roast chicken"]
}`

// ==========================
// Handler Creation Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
		errMsg  string
	}{
		{name: "valid configuration", cfg: createValidConfig()},
		{name: "invalid timeout", cfg: &Config{MaxJobsActive: 1, DefaultCurrency: "USD"}, wantErr: true, errMsg: "timeout must be positive"},
		{name: "invalid max jobs active", cfg: &Config{Timeout: time.Second, DefaultCurrency: "USD"}, wantErr: true, errMsg: "max_jobs_active must be positive"},
		{name: "lower-case currency", cfg: &Config{MaxJobsActive: 1, Timeout: time.Second, DefaultCurrency: "usd"}, wantErr: true, errMsg: "default_currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, err := NewHandler(HandlerOptions{CustomConfig: tt.cfg, Logger: logger.NewNoOpLogger()})
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, handler)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, handler)
		})
	}
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	appConfig := &config.Config{
		Workers: map[string]config.WorkerConfig{
			FlowName: {Enabled: true, MaxJobsActive: 3, Timeout: 45000},
		},
	}

	cfg := createConfigFromAppConfig(appConfig, nil)
	assert.Equal(t, 3, cfg.MaxJobsActive)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, DefaultCurrency, cfg.DefaultCurrency)
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	handler := newTestHandler(t, nil)

	input, err := handler.parseInput(createMockJob(1, map[string]interface{}{
		"goals":         "Cheap healthy dinners for two adults with leftovers.",
		"householdSize": 3,
		"currencyCode":  " gbp ",
		"regionCode":    " gb",
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, *input.HouseholdSize)
	assert.Nil(t, input.Budget)
	assert.Equal(t, "gbp", input.CurrencyCode)
	assert.Equal(t, "gb", input.RegionCode)

	_, err = handler.parseInput(createMockJob(2, map[string]interface{}{"householdSize": 2.5}))
	assert.ErrorIs(t, err, errors.Sentinel(errors.ErrCodeInvalidInput, ""))
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{name: "short goals", mutate: func(in *Input) { in.Goals = "Cheap food" }},
		{name: "household too large", mutate: func(in *Input) { in.HouseholdSize = intPtr(13) }},
		{name: "household too small", mutate: func(in *Input) { in.HouseholdSize = intPtr(0) }},
		{name: "budget too small", mutate: func(in *Input) { in.Budget = floatPtr(5) }},
		{name: "currency not three letters", mutate: func(in *Input) { in.CurrencyCode = "US" }},
		{name: "region with digits", mutate: func(in *Input) { in.RegionCode = "U1" }},
		{name: "short dietary preference", mutate: func(in *Input) { in.DietaryPreferences = []string{"v"} }},
		{name: "too many pantry items", mutate: func(in *Input) { in.PantryItems = strings.Fields(strings.Repeat("rice ", 26)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &recordingGenerator{}
			input := createValidInput()
			tt.mutate(input)

			_, err := newTestHandler(t, gen).Execute(context.Background(), input)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.Sentinel(errors.ErrCodeInvalidInput, ""))
			assert.Empty(t, gen.requests)
		})
	}
}

func TestHandler_Execute_LocalizesModelPlan(t *testing.T) {
	gen := &recordingGenerator{responses: map[bool]string{false: modelPlan}}

	output, err := newTestHandler(t, gen).Execute(context.Background(), createValidInput())
	require.NoError(t, err)
	assert.Equal(t, string(structured.SourceDirect), output.Source)

	list := output.List
	assert.Equal(t, "EUR", list.CurrencyCode)
	assert.Equal(t, "DE", list.RegionCode)
	assert.Equal(t, "Germany", list.RegionLabel)
	assert.Equal(t, 1.25, list.CostMultiplier)
	assert.Equal(t, 5.0, list.CategoryBreakdown[0].Items[0].EstimatedCost)
	assert.Equal(t, 3.0, list.CategoryBreakdown[0].Items[1].EstimatedCost)
	assert.Equal(t, 8.0, list.EstimatedTotal)
	assert.True(t, list.WithinBudget)
	require.NotNil(t, list.BaselineBudget)
	assert.Equal(t, 40.0, *list.BaselineBudget)
	require.NotNil(t, list.TargetBudget)
	assert.Equal(t, 50.0, *list.TargetBudget)
	assert.Equal(t, 1, strings.Count(list.BudgetNotes, localizationMarker))

	require.Len(t, gen.requests, 1)
	prompt := gen.requests[0].Prompt
	assert.Contains(t, prompt, "Region focus: Germany")
	assert.Contains(t, prompt, "Regional price multiplier compared to baseline: 1.25")
	assert.Contains(t, prompt, "Baseline planning budget before multiplier: 40.00")
	assert.Contains(t, prompt, `- currencyCode: string (must be "EUR")`)
}

func TestHandler_Execute_Fallback(t *testing.T) {
	gen := &recordingGenerator{responses: map[bool]string{false: "{", true: `{"overview": 12}`}}
	input := createValidInput()
	input.CurrencyCode = ""
	input.RegionCode = "ng"

	output, err := newTestHandler(t, gen).Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, string(structured.SourceFallback), output.Source)
	assert.Equal(t, "USD", output.List.CurrencyCode)
	assert.Equal(t, "NG", output.List.RegionCode)
	assert.Equal(t, 2.1, output.List.CostMultiplier)
	assert.Contains(t, output.List.BudgetNotes, "Localized using Nigeria multiplier (~×2.10).")
	assert.NotEmpty(t, output.List.CategoryBreakdown)
	assert.Len(t, gen.requests, 2)
}

// ==========================
// Pricing Tests
// ==========================

func TestLookupProfile(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		region   string
		wantCode string
		wantCurr string
	}{
		{name: "region wins", currency: "USD", region: "gb", wantCode: "GB", wantCurr: "GBP"},
		{name: "first currency match", currency: "eur", wantCode: "DE", wantCurr: "EUR"},
		{name: "unknown region falls back to currency", currency: "CAD", region: "ZZ", wantCode: "CA", wantCurr: "CAD"},
		{name: "unknown currency is global", currency: "XYZ", wantCode: "GLOBAL", wantCurr: "XYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := LookupProfile(tt.currency, tt.region)
			assert.Equal(t, tt.wantCode, p.Code)
			assert.Equal(t, tt.wantCurr, p.DefaultCurrency)
		})
	}

	assert.Equal(t, "USD", GlobalProfile.DefaultCurrency)
}

func TestPriceProfile_EffectiveMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, PriceProfile{Multiplier: 0}.EffectiveMultiplier())
	assert.Equal(t, 1.0, PriceProfile{Multiplier: -2}.EffectiveMultiplier())
	assert.Equal(t, 1.5, PriceProfile{Multiplier: 1.5}.EffectiveMultiplier())
}

func TestFinalize(t *testing.T) {
	loc := newLocalization(&Input{CurrencyCode: "eur", Budget: floatPtr(7.5)}, DefaultCurrency)

	t.Run("recomputes total and budget check", func(t *testing.T) {
		list := loc.Finalize(Plan{
			EstimatedTotal: 99,
			WithinBudget:   true,
			BudgetNotes:    "  Tight week. ",
			CategoryBreakdown: []CategoryGroup{{Category: "Pantry", Items: []Item{
				{Name: "Rice", EstimatedCost: 4},
				{Name: "Beans", EstimatedCost: 2.4},
			}}},
		})
		assert.Equal(t, 8.0, list.EstimatedTotal)
		assert.False(t, list.WithinBudget)
		assert.True(t, strings.HasPrefix(list.BudgetNotes, "Tight week. Localized using Germany"))
	})

	t.Run("empty items use the multiplied estimate", func(t *testing.T) {
		list := loc.Finalize(Plan{EstimatedTotal: 10, CategoryBreakdown: []CategoryGroup{}})
		assert.Equal(t, 12.5, list.EstimatedTotal)
	})

	t.Run("existing localization note is kept", func(t *testing.T) {
		notes := "Localized using Germany multiplier already."
		list := loc.Finalize(Plan{BudgetNotes: notes})
		assert.Equal(t, notes, list.BudgetNotes)
	})

	t.Run("no budget keeps the model verdict", func(t *testing.T) {
		noBudget := newLocalization(&Input{}, DefaultCurrency)
		list := noBudget.Finalize(Plan{WithinBudget: true})
		assert.True(t, list.WithinBudget)
		assert.Nil(t, list.BaselineBudget)
		assert.Nil(t, list.TargetBudget)
		assert.Equal(t, "USD", list.CurrencyCode)
		assert.Equal(t, "US", list.RegionCode)
	})
}

// ==========================
// Fallback Tests
// ==========================

func TestBuildFallbackPlan(t *testing.T) {
	input := Input{
		HouseholdSize:      intPtr(3),
		DietaryPreferences: []string{"Vegan"},
		PantryItems:        []string{"rice", "Oats"},
	}

	plan := BuildFallbackPlan(input, "GBP", floatPtr(10))

	var names []string
	sum := 0.0
	for _, group := range plan.CategoryBreakdown {
		for _, item := range group.Items {
			names = append(names, item.Name)
			sum += item.EstimatedCost
		}
	}
	for _, excluded := range []string{"Chicken thighs", "Eggs", "Milk", "Plain yogurt", "Brown rice", "Rolled oats"} {
		assert.NotContains(t, names, excluded)
	}
	assert.Contains(t, names, "Firm tofu")
	assert.InDelta(t, sum, plan.EstimatedTotal, 0.001)
	assert.False(t, plan.WithinBudget)
	assert.Equal(t, "GBP", plan.CurrencyCode)
	assert.Contains(t, plan.Overview, "household of 3")

	doc, err := validation.ToDocument(plan)
	require.NoError(t, err)
	result, err := validation.Validate(doc, outputSchemaFor("GBP"))
	require.NoError(t, err)
	assert.True(t, result.Valid, result.Summary())
}

func TestBuildFallbackPlan_EverythingInPantry(t *testing.T) {
	var pantry []string
	for _, group := range staples {
		for _, s := range group.items {
			pantry = append(pantry, s.name)
		}
	}

	plan := BuildFallbackPlan(Input{PantryItems: pantry}, "USD", nil)
	assert.NotNil(t, plan.CategoryBreakdown)
	assert.Empty(t, plan.CategoryBreakdown)
	assert.Zero(t, plan.EstimatedTotal)
	assert.True(t, plan.WithinBudget)

	doc, err := validation.ToDocument(plan)
	require.NoError(t, err)
	result, err := validation.Validate(doc, GetOutputSchema())
	require.NoError(t, err)
	assert.True(t, result.Valid, result.Summary())
}

func TestRoundUpHalf(t *testing.T) {
	assert.Equal(t, 1.0, roundUpHalf(1))
	assert.Equal(t, 1.5, roundUpHalf(1.2))
	assert.Equal(t, 2.0, roundUpHalf(1.6))
	assert.Equal(t, "1.5", formatQuantity(1.5))
	assert.Equal(t, "2", formatQuantity(2))
}
