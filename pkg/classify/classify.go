// Package classify maps drought index values to severity categories.
package classify

import "math"

// Category names shared by both scales.
const (
	NoData          = "No Data"
	ExtremelyWet    = "Extremely Wet"
	SevereWet       = "Severe Wet"
	ModerateWet     = "Moderate Wet"
	MildWet         = "Mild Wet"
	Normal          = "Normal"
	MildDrought     = "Mild Drought"
	ModerateDrought = "Moderate Drought"
	SevereDrought   = "Severe Drought"
	ExtremeDrought  = "Extreme Drought"
)

// Scale maps an index value to a category name.
type Scale func(value float64) string

// ZScale classifies CZI and MCZI values. Each bin includes its lower bound.
func ZScale(value float64) string {
	switch {
	case math.IsNaN(value):
		return NoData
	case value >= 2.0:
		return ExtremelyWet
	case value >= 1.5:
		return SevereWet
	case value >= 1.0:
		return ModerateWet
	case value >= 0.5:
		return MildWet
	case value >= -0.49:
		return Normal
	case value >= -0.99:
		return MildDrought
	case value >= -1.49:
		return ModerateDrought
	case value >= -1.99:
		return SevereDrought
	default:
		return ExtremeDrought
	}
}

// CompositeScale classifies Composite Index values. Every bin, Normal
// included, contains its lower bound.
func CompositeScale(value float64) string {
	switch {
	case math.IsNaN(value):
		return NoData
	case value >= -0.6:
		return Normal
	case value >= -1.2:
		return MildDrought
	case value >= -1.8:
		return ModerateDrought
	case value >= -2.4:
		return SevereDrought
	default:
		return ExtremeDrought
	}
}

// ZCategories lists the ZScale categories from wettest to driest.
var ZCategories = []string{
	ExtremelyWet, SevereWet, ModerateWet, MildWet, Normal,
	MildDrought, ModerateDrought, SevereDrought, ExtremeDrought,
}

// CompositeCategories lists the CompositeScale categories from wettest to driest.
var CompositeCategories = []string{
	Normal, MildDrought, ModerateDrought, SevereDrought, ExtremeDrought,
}

// IsDrought reports whether a category is one of the drought classes.
func IsDrought(category string) bool {
	switch category {
	case MildDrought, ModerateDrought, SevereDrought, ExtremeDrought:
		return true
	}
	return false
}

// IsSevere reports whether a category is severe or extreme drought.
func IsSevere(category string) bool {
	return category == SevereDrought || category == ExtremeDrought
}
