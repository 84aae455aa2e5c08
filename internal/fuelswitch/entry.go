package fuelswitch

// EntryType is the semantic category attached to one attributed energy flow.
type EntryType string

const (
	EntryEnergyEfficiency      EntryType = "energy-efficiency"
	EntryElectrification       EntryType = "electrification"
	EntryFuelSwitch            EntryType = "fuel-switch"
	EntryAutomation            EntryType = "automation"
	EntryDemandReduction       EntryType = "demand-reduction"
	EntryRemainingConsumption  EntryType = "remaining-consumption"
	EntryEfficiencyImprovement EntryType = "efficiency-improvement"
)

// classifierEntryTypes are the categories the classifier may emit.
var classifierEntryTypes = map[EntryType]bool{
	EntryEnergyEfficiency:     true,
	EntryElectrification:      true,
	EntryFuelSwitch:           true,
	EntryAutomation:           true,
	EntryDemandReduction:      true,
	EntryRemainingConsumption: true,
}

// sameFuelEntryTypes are the categories allowed when no fuel change occurs.
var sameFuelEntryTypes = map[EntryType]bool{
	EntryRemainingConsumption: true,
	EntryEnergyEfficiency:     true,
	EntryAutomation:           true,
	EntryDemandReduction:      true,
}

// switchEntryTypes are the categories that imply an actual fuel change.
var switchEntryTypes = map[EntryType]bool{
	EntryFuelSwitch:      true,
	EntryElectrification: true,
}

// reportableEntryTypes survive into the merged output for classified
// sectors; the rest are analysis intermediates.
var reportableEntryTypes = map[EntryType]bool{
	EntryRemainingConsumption: true,
	EntryFuelSwitch:           true,
	EntryElectrification:      true,
}
