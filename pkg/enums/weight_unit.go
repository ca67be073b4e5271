package enums

import "fmt"

// WeightUnit denominates a variant's display weight.
type WeightUnit string

const (
	WeightUnitGram     WeightUnit = "g"
	WeightUnitKilogram WeightUnit = "kg"
	WeightUnitOunce    WeightUnit = "oz"
	WeightUnitPound    WeightUnit = "lb"
)

var validWeightUnits = []WeightUnit{
	WeightUnitGram,
	WeightUnitKilogram,
	WeightUnitOunce,
	WeightUnitPound,
}

// String implements fmt.Stringer.
func (w WeightUnit) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WeightUnit.
func (w WeightUnit) IsValid() bool {
	for _, candidate := range validWeightUnits {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWeightUnit converts raw input into a WeightUnit.
func ParseWeightUnit(value string) (WeightUnit, error) {
	for _, candidate := range validWeightUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid weight unit %q", value)
}
