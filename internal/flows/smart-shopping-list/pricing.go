package smartshoppinglist

import (
	"fmt"
	"math"
	"strings"
)

// PriceProfile scales baseline (U.S.) grocery prices to a regional market.
type PriceProfile struct {
	Code            string   `json:"code"`
	Name            string   `json:"name"`
	Multiplier      float64  `json:"multiplier"`
	CurrencyCodes   []string `json:"currencyCodes"`
	DefaultCurrency string   `json:"defaultCurrency"`
	Note            string   `json:"note"`
}

var GlobalProfile = PriceProfile{
	Code:            "GLOBAL",
	Name:            "Global Average",
	Multiplier:      1,
	DefaultCurrency: "USD",
	Note:            "No localized pricing data supplied. Using a global baseline for grocery costs.",
}

// Profiles is searched in order; the first currency match wins, so EUR
// resolves to Germany.
var Profiles = []PriceProfile{
	GlobalProfile,
	{"US", "United States", 1, []string{"USD"}, "USD", "Baseline reference market used for most model estimates."},
	{"CA", "Canada", 1.15, []string{"CAD"}, "CAD", "Canadian grocery baskets trend roughly 15% above the U.S. baseline."},
	{"GB", "United Kingdom", 1.3, []string{"GBP"}, "GBP", "Average UK supermarket pricing is about 30% higher than the U.S. baseline."},
	{"DE", "Germany", 1.25, []string{"EUR"}, "EUR", "German grocery prices sit roughly 25% above the U.S. baseline costs."},
	{"FR", "France", 1.3, []string{"EUR"}, "EUR", "French supermarket baskets are about 30% higher than the U.S. baseline."},
	{"ES", "Spain", 1.2, []string{"EUR"}, "EUR", "Mediterranean staples trend around 20% above the U.S. baseline."},
	{"IT", "Italy", 1.25, []string{"EUR"}, "EUR", "Italian groceries average roughly 25% higher than the U.S. baseline."},
	{"AU", "Australia", 1.3, []string{"AUD"}, "AUD", "Australian grocery costs trend about 30% above the U.S. baseline."},
	{"NZ", "New Zealand", 1.35, []string{"NZD"}, "NZD", "New Zealand import-heavy groceries trend roughly 35% above the U.S. baseline."},
	{"JP", "Japan", 1.4, []string{"JPY"}, "JPY", "Urban Japanese grocery baskets trend about 40% above the U.S. baseline."},
	{"KR", "South Korea", 1.45, []string{"KRW"}, "KRW", "Korean supermarkets average 45% over the U.S. baseline due to imports."},
	{"SG", "Singapore", 1.5, []string{"SGD"}, "SGD", "Singapore grocery costs can reach 50% above the U.S. baseline."},
	{"AE", "United Arab Emirates", 1.55, []string{"AED"}, "AED", "High import reliance pushes UAE grocery pricing to roughly 55% above U.S. baseline."},
	{"SA", "Saudi Arabia", 1.4, []string{"SAR"}, "SAR", "Saudi grocery prices trend about 40% above the U.S. baseline in urban centers."},
	{"GH", "Ghana", 2.7, []string{"GHS"}, "GHS", "Imported produce and staples commonly land 2.5-3x higher than the U.S. baseline."},
	{"NG", "Nigeria", 2.1, []string{"NGN"}, "NGN", "Urban Nigerian supermarkets average roughly twice the U.S. baseline due to supply constraints."},
	{"KE", "Kenya", 1.9, []string{"KES"}, "KES", "Kenyan grocery baskets trend just under twice the U.S. baseline in major cities."},
	{"ZA", "South Africa", 1.6, []string{"ZAR"}, "ZAR", "South African prices are roughly 60% above the U.S. baseline in urban retail chains."},
	{"IN", "India", 1.2, []string{"INR"}, "INR", "Indian home-cooking staples trend about 20% above the U.S. baseline in tier-one cities."},
	{"CN", "China", 1.3, []string{"CNY"}, "CNY", "Chinese tier-one city supermarkets average 30% over the U.S. baseline."},
	{"HK", "Hong Kong", 1.8, []string{"HKD"}, "HKD", "Dense urban import reliance pushes Hong Kong grocery costs to about 80% above U.S. baseline."},
	{"BR", "Brazil", 1.35, []string{"BRL"}, "BRL", "Brazilian supermarket baskets trend around 35% higher than the U.S. baseline."},
	{"MX", "Mexico", 1.25, []string{"MXN"}, "MXN", "Mexican urban groceries are roughly 25% above the U.S. baseline."},
	{"AR", "Argentina", 1.5, []string{"ARS"}, "ARS", "Argentine supermarket costs fluctuate but average 50% above the U.S. baseline in stable months."},
	{"CL", "Chile", 1.3, []string{"CLP"}, "CLP", "Chilean urban groceries trend roughly 30% higher than the U.S. baseline."},
	{"CO", "Colombia", 1.25, []string{"COP"}, "COP", "Colombian supermarkets average about 25% above U.S. baseline pricing."},
	{"PE", "Peru", 1.3, []string{"PEN"}, "PEN", "Peruvian grocery baskets trend around 30% over U.S. baseline pricing."},
	{"PH", "Philippines", 1.6, []string{"PHP"}, "PHP", "Philippine supermarkets in Metro Manila average around 60% above U.S. baseline."},
	{"TH", "Thailand", 1.4, []string{"THB"}, "THB", "Thai urban grocery baskets trend about 40% above the U.S. baseline."},
	{"VN", "Vietnam", 1.3, []string{"VND"}, "VND", "Vietnamese supermarkets average roughly 30% above U.S. baseline costs."},
	{"ID", "Indonesia", 1.35, []string{"IDR"}, "IDR", "Indonesian grocery pricing trends approximately 35% above U.S. baseline in Jakarta."},
	{"PK", "Pakistan", 1.4, []string{"PKR"}, "PKR", "Pakistani urban staples trend around 40% over the U.S. baseline."},
	{"BD", "Bangladesh", 1.35, []string{"BDT"}, "BDT", "Bangladeshi grocery baskets in Dhaka average 35% above U.S. baseline."},
	{"EG", "Egypt", 1.85, []string{"EGP"}, "EGP", "Egyptian supermarkets trend around 85% over the U.S. baseline after subsidies and imports."},
	{"MA", "Morocco", 1.5, []string{"MAD"}, "MAD", "Moroccan groceries trend roughly 50% higher than the U.S. baseline."},
	{"TR", "Turkey", 1.7, []string{"TRY"}, "TRY", "Recent inflation pushes Turkish grocery prices to roughly 70% above U.S. baseline."},
	{"RU", "Russia", 1.45, []string{"RUB"}, "RUB", "Russian supermarket baskets average about 45% above U.S. baseline pricing."},
	{"UA", "Ukraine", 1.6, []string{"UAH"}, "UAH", "Supply-chain shocks push Ukrainian grocery costs roughly 60% over U.S. baseline."},
	{"PL", "Poland", 1.35, []string{"PLN"}, "PLN", "Polish supermarket baskets trend around 35% higher than the U.S. baseline."},
}

// LookupProfile resolves the price profile for a request: an exact region
// code first, then the first profile using the currency, then the global
// baseline carrying the requested currency.
func LookupProfile(currency, region string) PriceProfile {
	currency = strings.ToUpper(currency)

	if region = strings.ToUpper(region); region != "" {
		for _, p := range Profiles {
			if p.Code == region {
				return p
			}
		}
	}

	for _, p := range Profiles {
		for _, c := range p.CurrencyCodes {
			if c == currency {
				return p
			}
		}
	}

	global := GlobalProfile
	global.DefaultCurrency = currency
	return global
}

// EffectiveMultiplier guards against unusable multipliers.
func (p PriceProfile) EffectiveMultiplier() float64 {
	if p.Multiplier > 0 && !math.IsInf(p.Multiplier, 0) && !math.IsNaN(p.Multiplier) {
		return p.Multiplier
	}
	return 1
}

func (p PriceProfile) LocalizationNote() string {
	return fmt.Sprintf("Localized using %s multiplier (~×%.2f). %s", p.Name, p.EffectiveMultiplier(), p.Note)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
