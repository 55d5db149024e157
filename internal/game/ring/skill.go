package ring

import (
	"math"
	"unicode/utf8"

	"github.com/cory-johannsen/boxing/internal/game/boxer"
)

// Age bands that reduce skill.
const (
	youngAge = 25
	oldAge   = 35
)

// Skill scores a boxer: weight × len(name) + reach/10 + age modifier, where the
// age modifier is -1 below 25, -2 above 35, and 0 otherwise. Name length
// counts characters, not bytes.
//
// Precondition: b must be non-nil.
// Postcondition: Pure; b is not modified.
func Skill(b *boxer.Boxer) float64 {
	ageModifier := 0.0
	switch {
	case b.Age < youngAge:
		ageModifier = -1
	case b.Age > oldAge:
		ageModifier = -2
	}
	return b.Weight*float64(utf8.RuneCountInString(b.Name)) + b.Reach/10 + ageModifier
}

// WinProbability maps two skills to the logistic of their absolute
// difference: 1 / (1 + e^-|skill1 - skill2|).
//
// Postcondition: Returns a value in [0.5, 1].
func WinProbability(skill1, skill2 float64) float64 {
	delta := math.Abs(skill1 - skill2)
	return 1 / (1 + math.Exp(-delta))
}
