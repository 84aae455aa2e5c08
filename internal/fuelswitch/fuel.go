package fuelswitch

// Fuel is a canonical fuel name as it appears in model output tables.
type Fuel string

const (
	FuelCoal        Fuel = "Coal"
	FuelBrownCoal   Fuel = "Brown Coal"
	FuelNaturalGas  Fuel = "Natural Gas"
	FuelLPG         Fuel = "LPG"
	FuelOil         Fuel = "Oil"
	FuelWood        Fuel = "Wood"
	FuelElectricity Fuel = "Electricity"
	FuelHydrogen    Fuel = "Hydrogen"
	FuelBiomass     Fuel = "Biomass"
	FuelBiogas      Fuel = "Biogas"
	FuelSolar       Fuel = "Solar"
	FuelDiesel      Fuel = "Diesel"
	FuelPetrol      Fuel = "Petrol"
	FuelKerosene    Fuel = "Kerosene"
)

// fuelOrder fixes the enumeration order wherever fuel maps are iterated,
// so that run output is deterministic.
var fuelOrder = []Fuel{
	FuelCoal,
	FuelBrownCoal,
	FuelNaturalGas,
	FuelLPG,
	FuelOil,
	FuelWood,
	FuelElectricity,
	FuelHydrogen,
	FuelBiomass,
	FuelBiogas,
	FuelSolar,
	FuelDiesel,
	FuelPetrol,
	FuelKerosene,
}

var fuelRank = func() map[Fuel]int {
	ranks := make(map[Fuel]int, len(fuelOrder))
	for i, fuel := range fuelOrder {
		ranks[fuel] = i
	}
	return ranks
}()

// legacyFossilFuels are never a valid switch destination.
var legacyFossilFuels = map[Fuel]bool{
	FuelCoal:       true,
	FuelNaturalGas: true,
	FuelLPG:        true,
	FuelWood:       true,
	FuelOil:        true,
	FuelBrownCoal:  true,
}

// IsLegacyFossil reports whether fuel is a disallowed switch destination.
func IsLegacyFossil(fuel Fuel) bool {
	return legacyFossilFuels[fuel]
}

// sortFuels orders fuels by the canonical fuel order; fuels outside the
// catalog sort last by name.
func sortFuels(fuels []Fuel) {
	for i := 1; i < len(fuels); i++ {
		for j := i; j > 0 && fuelLess(fuels[j], fuels[j-1]); j-- {
			fuels[j], fuels[j-1] = fuels[j-1], fuels[j]
		}
	}
}

func fuelLess(a, b Fuel) bool {
	ra, okA := fuelRank[a]
	rb, okB := fuelRank[b]
	switch {
	case okA && okB:
		return ra < rb
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}

// EligibilityClass names the fuel set allowed to act as a switch source
// within one process group.
type EligibilityClass string

const (
	// ClassFossil allows coal, natural gas, hydrogen and oil as sources.
	ClassFossil EligibilityClass = "fossil"
	// ClassAll additionally allows electricity as a source.
	ClassAll EligibilityClass = "all"
)

var eligibilitySets = map[EligibilityClass]map[Fuel]bool{
	ClassFossil: {
		FuelCoal:       true,
		FuelNaturalGas: true,
		FuelHydrogen:   true,
		FuelOil:        true,
	},
	ClassAll: {
		FuelCoal:        true,
		FuelNaturalGas:  true,
		FuelHydrogen:    true,
		FuelOil:         true,
		FuelElectricity: true,
	},
}

// Contains reports whether fuel may act as a switch source under the class.
func (c EligibilityClass) Contains(fuel Fuel) bool {
	set, ok := eligibilitySets[c]
	if !ok {
		return false
	}
	return set[fuel]
}

// Valid reports whether the class is one of the defined eligibility classes.
func (c EligibilityClass) Valid() bool {
	_, ok := eligibilitySets[c]
	return ok
}
