// Package recommend ranks meals for a customer from their health condition,
// age, order history and the meal's description, time slot and price.
package recommend

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	weightHealth      = 0.4
	weightDescription = 0.2
	weightCategory    = 0.15
	weightAge         = 0.15
	weightPrice       = 0.1
)

type healthRule struct {
	bad  []string
	good []string
}

// healthRules keys are the health_condition values customers pick in their profile.
var healthRules = map[string]healthRule{
	"Diabetic": {
		bad:  []string{"سكر", "عسل", "sweet", "cake"},
		good: []string{"مشوي", "سلطة", "بدون سكر"},
	},
	"Hypertension": {
		bad:  []string{"ملح", "fried", "مقلي"},
		good: []string{"steam", "مشوي", "low salt"},
	},
}

var healthyWords = []string{"fresh", "طبيعي", "سلطة", "مشوي"}

var (
	cheap    = decimal.NewFromInt(500)
	midRange = decimal.NewFromInt(1000)
)

// HealthScore starts at 1, loses 0.7 per bad keyword and gains 0.4 per good
// one. It never drops below zero.
func HealthScore(description, condition string) float64 {
	rule, ok := healthRules[condition]
	if description == "" || !ok {
		return 1.0
	}
	desc := strings.ToLower(description)
	score := 1.0
	for _, w := range rule.bad {
		if strings.Contains(desc, w) {
			score -= 0.7
		}
	}
	for _, w := range rule.good {
		if strings.Contains(desc, w) {
			score += 0.4
		}
	}
	return math.Max(score, 0)
}

func DescriptionScore(description string) float64 {
	if description == "" {
		return 0.5
	}
	desc := strings.ToLower(description)
	score := 0.0
	for _, w := range healthyWords {
		if strings.Contains(desc, w) {
			score += 0.2
		}
	}
	return math.Min(score, 1)
}

func CategoryScore(category, favourite *uint) float64 {
	if category != nil && favourite != nil && *category == *favourite {
		return 1.0
	}
	return 0.4
}

// AgeScore penalises late-night meals for minors and heavy meals for over-50s.
// A nil age matches neither rule.
func AgeScore(age *float64, mealTime string) float64 {
	if age == nil {
		return 1.0
	}
	if *age < 18 && mealTime == "LateNight" {
		return 0.2
	}
	if *age > 50 && mealTime == "Heavy" {
		return 0.4
	}
	return 1.0
}

func PriceScore(price decimal.Decimal) float64 {
	switch {
	case price.LessThan(cheap):
		return 1.0
	case price.LessThan(midRange):
		return 0.7
	default:
		return 0.4
	}
}

// Profile is what the scorer knows about a customer.
type Profile struct {
	HealthCondition  string
	Age              *float64
	FavoriteCategory *uint
}

// MealFacts is what the scorer knows about a meal.
type MealFacts struct {
	Description string
	CategoryID  *uint
	MealTime    string
	Price       decimal.Decimal
}

// Score is the weighted sum of the five factors, rounded to three decimals.
func Score(p Profile, m MealFacts) float64 {
	s := HealthScore(m.Description, p.HealthCondition)*weightHealth +
		DescriptionScore(m.Description)*weightDescription +
		CategoryScore(m.CategoryID, p.FavoriteCategory)*weightCategory +
		AgeScore(p.Age, m.MealTime)*weightAge +
		PriceScore(m.Price)*weightPrice
	return math.Round(s*1000) / 1000
}
