package fuelswitch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"austimes-tools/internal/fuelswitch"
)

func newTestClassifier() *fuelswitch.Classifier {
	return fuelswitch.NewClassifier(fuelswitch.DefaultConfig().Classifier)
}

func TestClassifierDispatch(t *testing.T) {
	tests := []struct {
		name    string
		process string
		from    fuelswitch.Fuel
		to      fuelswitch.Fuel
		entry   fuelswitch.EntryType
	}{
		{"efficiency device", "EE_IndBoiler", fuelswitch.FuelNaturalGas, fuelswitch.FuelNaturalGas, fuelswitch.EntryEnergyEfficiency},
		{"technology efficiency outranks the switch prefix", "ETI_EE_HeatRecovery", fuelswitch.FuelCoal, fuelswitch.FuelCoal, fuelswitch.EntryEnergyEfficiency},
		{"electrification technology", "ETI_ELE_ele_kiln", fuelswitch.FuelNaturalGas, fuelswitch.FuelElectricity, fuelswitch.EntryElectrification},
		{"hydrogen switch technology", "ETI_FS_hyd_furnace", fuelswitch.FuelNaturalGas, fuelswitch.FuelHydrogen, fuelswitch.EntryFuelSwitch},
		{"biomass switch technology", "ETI_FS_bio_boiler", fuelswitch.FuelCoal, fuelswitch.FuelBiomass, fuelswitch.EntryFuelSwitch},
		{"flexible load", "IFL_IT_sched", fuelswitch.FuelElectricity, fuelswitch.FuelElectricity, fuelswitch.EntryAutomation},
		{"coal supply", "IEScoa_plant", fuelswitch.FuelCoal, fuelswitch.FuelCoal, fuelswitch.EntryRemainingConsumption},
		{"electric supply to fuel consumer", "IES_ele_grid", fuelswitch.FuelNaturalGas, fuelswitch.FuelElectricity, fuelswitch.EntryElectrification},
		{"electric supply to electric consumer", "IESele", fuelswitch.FuelElectricity, fuelswitch.FuelElectricity, fuelswitch.EntryRemainingConsumption},
		{"retrofit envelope", "BFL_Office_Eni-2030", fuelswitch.FuelNaturalGas, fuelswitch.FuelNaturalGas, fuelswitch.EntryEnergyEfficiency},
		{"retrofit demand", "BFL_Office_Dem-2030", fuelswitch.FuelNaturalGas, fuelswitch.FuelNaturalGas, fuelswitch.EntryDemandReduction},
		{"composite biogas outranks plain gas", "TCS_BioG-Gas_Boiler", fuelswitch.FuelNaturalGas, fuelswitch.FuelBiogas, fuelswitch.EntryFuelSwitch},
		{"composite gas to electric", "TCS_Gas2Elc_Small", fuelswitch.FuelNaturalGas, fuelswitch.FuelElectricity, fuelswitch.EntryElectrification},
		{"composite hydrogen blend", "TCS_H2-Gas_Boiler", fuelswitch.FuelNaturalGas, fuelswitch.FuelHydrogen, fuelswitch.EntryFuelSwitch},
		{"composite plain gas", "TCS_Gas_Boiler", fuelswitch.FuelNaturalGas, fuelswitch.FuelNaturalGas, fuelswitch.EntryRemainingConsumption},
		{"composite oil consumer", "TCS_Hosp_Oil", fuelswitch.FuelOil, fuelswitch.FuelOil, fuelswitch.EntryRemainingConsumption},
		{"composite electric consumer", "TCS_Office_Elec", fuelswitch.FuelElectricity, fuelswitch.FuelElectricity, fuelswitch.EntryRemainingConsumption},
		{"commercial efficiency", "CEE_Lighting", fuelswitch.FuelElectricity, fuelswitch.FuelElectricity, fuelswitch.EntryEnergyEfficiency},
		{"residential efficiency", "REE_Insulation", fuelswitch.FuelNaturalGas, fuelswitch.FuelNaturalGas, fuelswitch.EntryEnergyEfficiency},
		{"residential gas conversion", "RTS_Heater-g2e", fuelswitch.FuelNaturalGas, fuelswitch.FuelElectricity, fuelswitch.EntryElectrification},
		{"residential wood conversion", "RTS_Heater-w2e", fuelswitch.FuelWood, fuelswitch.FuelElectricity, fuelswitch.EntryElectrification},
		{"residential stock kept", "RTS_Heater-g", fuelswitch.FuelNaturalGas, fuelswitch.FuelNaturalGas, fuelswitch.EntryRemainingConsumption},
	}

	c := newTestClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			to, entry, err := c.Classify(tt.process, tt.from)
			require.NoError(t, err)
			assert.Equal(t, tt.to, to)
			assert.Equal(t, tt.entry, entry)
		})
	}
}

func TestClassifierUnknownInputs(t *testing.T) {
	tests := []struct {
		name    string
		process string
		want    error
	}{
		{"unknown prefix", "XGT_Plant", fuelswitch.ErrUnknownProcess},
		{"unknown technology type", "ETI_XX_ele_kiln", fuelswitch.ErrUnknownTypeToken},
		{"unknown technology fuel code", "ETI_ELE_xyz_kiln", fuelswitch.ErrUnknownFuelCode},
		{"truncated technology id", "ETI_FS", fuelswitch.ErrUnknownTypeToken},
		{"unknown flexible-load type", "IFL_ZZ_sched", fuelswitch.ErrUnknownTypeToken},
		{"unknown supply code", "IESzzz", fuelswitch.ErrUnknownFuelCode},
		{"unknown retrofit type", "BFL_Office_Zzz-1", fuelswitch.ErrUnknownTypeToken},
		{"composite without tokens", "TCS_Nothing", fuelswitch.ErrUnknownProcess},
		{"unknown stock suffix", "RTS_Heater-zz", fuelswitch.ErrUnknownFuelCode},
		{"stock id without suffix", "RTSHeater", fuelswitch.ErrUnknownFuelCode},
		{"stock id with empty suffix", "RTS_Heater-", fuelswitch.ErrUnknownFuelCode},
	}

	c := newTestClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := c.Classify(tt.process, fuelswitch.FuelNaturalGas)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// Every code in the compiled-in tables must classify without error; a gap
// here means a rule table and its dispatch step drifted apart.
func TestClassifierCoversDefaultTables(t *testing.T) {
	cfg := fuelswitch.DefaultConfig()
	c := fuelswitch.NewClassifier(cfg.Classifier)

	for code := range cfg.Classifier.SupplyFuelCodes {
		_, _, err := c.Classify("IES"+code, fuelswitch.FuelCoal)
		assert.NoError(t, err, "supply code %q", code)
	}
	for token := range cfg.Classifier.TechTypes {
		for code := range cfg.Classifier.TechFuelCodes {
			_, _, err := c.Classify("ETI_"+token+"_"+code+"_x", fuelswitch.FuelCoal)
			assert.NoError(t, err, "technology %q/%q", token, code)
		}
	}
	for suffix := range cfg.Classifier.SwitchSuffixes {
		_, _, err := c.Classify("RTS_Heater-"+suffix, fuelswitch.FuelNaturalGas)
		assert.NoError(t, err, "switch suffix %q", suffix)
	}
	for _, suffix := range cfg.Classifier.RemainSuffixes {
		_, _, err := c.Classify("RTS_Heater-"+suffix, fuelswitch.FuelNaturalGas)
		assert.NoError(t, err, "remain suffix %q", suffix)
	}
}

func TestClassifierDeterministic(t *testing.T) {
	c := newTestClassifier()
	for _, id := range []string{"ETI_ELE_ele_kiln", "IESgas_plant", "TCS_Gas2Elc_Small", "RTS_Heater-g2e"} {
		to1, entry1, err := c.Classify(id, fuelswitch.FuelNaturalGas)
		require.NoError(t, err)
		to2, entry2, err := c.Classify(id, fuelswitch.FuelNaturalGas)
		require.NoError(t, err)
		assert.Equal(t, to1, to2)
		assert.Equal(t, entry1, entry2)
	}
}

func TestValidateClassification(t *testing.T) {
	assert.NoError(t, fuelswitch.ValidateClassification(
		fuelswitch.FuelNaturalGas, fuelswitch.FuelNaturalGas, fuelswitch.EntryRemainingConsumption))
	assert.NoError(t, fuelswitch.ValidateClassification(
		fuelswitch.FuelNaturalGas, fuelswitch.FuelHydrogen, fuelswitch.EntryFuelSwitch))
	assert.NoError(t, fuelswitch.ValidateClassification(
		fuelswitch.FuelNaturalGas, fuelswitch.FuelElectricity, fuelswitch.EntryElectrification))

	err := fuelswitch.ValidateClassification(
		fuelswitch.FuelNaturalGas, fuelswitch.FuelNaturalGas, fuelswitch.EntryFuelSwitch)
	assert.ErrorIs(t, err, fuelswitch.ErrSameFuelSwitch)

	err = fuelswitch.ValidateClassification(
		fuelswitch.FuelElectricity, fuelswitch.FuelCoal, fuelswitch.EntryFuelSwitch)
	assert.ErrorIs(t, err, fuelswitch.ErrFossilSwitchTarget)
}
