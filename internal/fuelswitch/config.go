package fuelswitch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SplitRule names how a sector extracts the fuel suffix from a commodity.
type SplitRule string

const (
	// SplitHyphenSuffix takes the token after the final hyphen.
	SplitHyphenSuffix SplitRule = "hyphen-suffix"
	// SplitHyphenInitial takes the first character of the final
	// hyphen-delimited token.
	SplitHyphenInitial SplitRule = "hyphen-initial"
	// SplitTagStrip strips the sector tag and reads the remainder.
	SplitTagStrip SplitRule = "tag-strip"
)

// CompositeTokenRule maps one embedded commercial-process token to its
// destination fuel and entry type. Rules are evaluated in slice order.
type CompositeTokenRule struct {
	Token string    `yaml:"token"`
	Fuel  Fuel      `yaml:"fuel"`
	Entry EntryType `yaml:"entry"`
}

// ClassifierRules holds the lookup tables behind process classification.
// The zero value is unusable; start from DefaultConfig.
type ClassifierRules struct {
	// TechTypes maps the ETI type token to its entry type.
	TechTypes map[string]EntryType `yaml:"tech_types"`
	// TechFuelCodes maps the ETI fuel code to the destination fuel.
	TechFuelCodes map[string]Fuel `yaml:"tech_fuel_codes"`
	// SupplyFuelCodes maps the IES supply code to its fuel.
	SupplyFuelCodes map[string]Fuel `yaml:"supply_fuel_codes"`
	// FlexibleLoadTypes maps the IFL type token to its entry type.
	FlexibleLoadTypes map[string]EntryType `yaml:"flexible_load_types"`
	// RetrofitTypes maps the BFL type token to its entry type.
	RetrofitTypes map[string]EntryType `yaml:"retrofit_types"`
	// CompositeTokens dispatches TCS identifiers by embedded substring.
	CompositeTokens []CompositeTokenRule `yaml:"composite_tokens"`
	// SwitchSuffixes maps RTS conversion suffixes to the destination fuel.
	SwitchSuffixes map[string]Fuel `yaml:"switch_suffixes"`
	// RemainSuffixes lists RTS suffixes that keep the inbound fuel.
	RemainSuffixes []string `yaml:"remain_suffixes"`
}

// SectorProfile describes one classified sector's process grammar.
type SectorProfile struct {
	Name          string          `yaml:"name"`
	Tag           string          `yaml:"tag"`
	VariableKinds []string        `yaml:"variable_kinds"`
	SplitRule     SplitRule       `yaml:"split_rule"`
	FuelSuffixes  map[string]Fuel `yaml:"fuel_suffixes"`
}

// ProcessGroupRule describes one reconciled process group: its substring
// match list over the process column and its fuel-eligibility class. An
// empty match list matches every process of the subsector.
type ProcessGroupRule struct {
	Name  string           `yaml:"name"`
	Match []string         `yaml:"match"`
	Fuels EligibilityClass `yaml:"fuels"`
}

// SubsectorRule describes one heavy-industry subsector.
type SubsectorRule struct {
	Name   string             `yaml:"name"`
	Match  []string           `yaml:"match"`
	Groups []ProcessGroupRule `yaml:"groups"`
}

// HeavyIndustryProfile describes the reconciled industry slice of the
// energy table.
type HeavyIndustryProfile struct {
	ProcessPrefixes []string        `yaml:"process_prefixes"`
	ConsumptionKind string          `yaml:"consumption_kind"`
	ProductionKind  string          `yaml:"production_kind"`
	Subsectors      []SubsectorRule `yaml:"subsectors"`
}

// ColumnNames maps the logical input columns onto the header names a
// deployment's export files actually carry. Matching is case-insensitive.
// Blanking an optional column disables it without a warning.
type ColumnNames struct {
	Scenario       string `yaml:"scenario"`
	Region         string `yaml:"region"`
	Sector         string `yaml:"sector"`
	Process        string `yaml:"process"`
	Commodity      string `yaml:"commodity"`
	VariableKind   string `yaml:"variable_kind"`
	Fuel           string `yaml:"fuel"`
	Unit           string `yaml:"unit"`
	HydrogenSource string `yaml:"hydrogen_source"`
}

// Config is the full fuel-switching rules configuration. It is loaded once
// at process start and treated as immutable afterwards.
type Config struct {
	// BaselineYear pins the baseline year; zero means the earliest year
	// present in the input.
	BaselineYear int                  `yaml:"baseline_year"`
	Columns      ColumnNames          `yaml:"columns"`
	Classifier   ClassifierRules      `yaml:"classifier"`
	Sectors      []SectorProfile      `yaml:"sectors"`
	Industry     HeavyIndustryProfile `yaml:"industry"`
}

// DefaultConfig returns the compiled-in rule tables.
func DefaultConfig() Config {
	return Config{
		Columns: ColumnNames{
			Scenario:       "scen",
			Region:         "region",
			Sector:         "sector",
			Process:        "process",
			Commodity:      "commodity",
			VariableKind:   "varbl",
			Fuel:           "fuel",
			Unit:           "unit",
			HydrogenSource: "hydrogen_source",
		},
		Classifier: ClassifierRules{
			TechTypes: map[string]EntryType{
				"ELE": EntryElectrification,
				"FS":  EntryFuelSwitch,
			},
			TechFuelCodes: map[string]Fuel{
				"ele": FuelElectricity,
				"hyd": FuelHydrogen,
				"bio": FuelBiomass,
			},
			SupplyFuelCodes: map[string]Fuel{
				"coa": FuelCoal,
				"bcl": FuelBrownCoal,
				"gas": FuelNaturalGas,
				"lpg": FuelLPG,
				"oil": FuelOil,
				"wod": FuelWood,
				"ele": FuelElectricity,
				"hyd": FuelHydrogen,
				"bio": FuelBiomass,
				"bgs": FuelBiogas,
				"sol": FuelSolar,
				"die": FuelDiesel,
				"pet": FuelPetrol,
				"ker": FuelKerosene,
			},
			FlexibleLoadTypes: map[string]EntryType{
				"IT": EntryAutomation,
			},
			RetrofitTypes: map[string]EntryType{
				"Eni": EntryEnergyEfficiency,
				"Dem": EntryDemandReduction,
			},
			CompositeTokens: []CompositeTokenRule{
				{Token: "BioG-Gas", Fuel: FuelBiogas, Entry: EntryFuelSwitch},
				{Token: "Gas2Elc", Fuel: FuelElectricity, Entry: EntryElectrification},
				{Token: "H2-Gas", Fuel: FuelHydrogen, Entry: EntryFuelSwitch},
				{Token: "Oil", Fuel: FuelOil, Entry: EntryRemainingConsumption},
				{Token: "Elec", Fuel: FuelElectricity, Entry: EntryRemainingConsumption},
				{Token: "Gas", Fuel: FuelNaturalGas, Entry: EntryRemainingConsumption},
			},
			SwitchSuffixes: map[string]Fuel{
				"g2e": FuelElectricity,
				"w2e": FuelElectricity,
				"l2e": FuelElectricity,
			},
			RemainSuffixes: []string{"e", "g", "l", "w"},
		},
		Sectors: []SectorProfile{
			{
				Name:          "industry",
				Tag:           "ES",
				VariableKinds: []string{"prod-from-ee", "prod-from-rem"},
				SplitRule:     SplitHyphenSuffix,
				FuelSuffixes: map[string]Fuel{
					"coa": FuelCoal,
					"bcl": FuelBrownCoal,
					"gas": FuelNaturalGas,
					"lpg": FuelLPG,
					"oil": FuelOil,
					"wod": FuelWood,
					"ele": FuelElectricity,
					"hyd": FuelHydrogen,
					"bio": FuelBiomass,
					"bgs": FuelBiogas,
					"sol": FuelSolar,
				},
			},
			{
				Name:          "commercial",
				Tag:           "CS",
				VariableKinds: []string{"prod-from-ee", "prod-from-rem"},
				SplitRule:     SplitHyphenInitial,
				FuelSuffixes: map[string]Fuel{
					"e": FuelElectricity,
					"g": FuelNaturalGas,
					"l": FuelLPG,
					"w": FuelWood,
					"o": FuelOil,
					"c": FuelCoal,
					"b": FuelBiomass,
					"h": FuelHydrogen,
					"s": FuelSolar,
				},
			},
			{
				Name:          "residential",
				Tag:           "RS",
				VariableKinds: []string{"prod-from-ee", "prod-from-rem"},
				SplitRule:     SplitTagStrip,
				FuelSuffixes: map[string]Fuel{
					"ele": FuelElectricity,
					"gas": FuelNaturalGas,
					"lpg": FuelLPG,
					"wod": FuelWood,
					"sol": FuelSolar,
					"oil": FuelOil,
				},
			},
		},
		Industry: HeavyIndustryProfile{
			ProcessPrefixes: []string{"IIS"},
			ConsumptionKind: "fuel-consumption",
			ProductionKind:  "production",
			Subsectors: []SubsectorRule{
				{
					Name:  "cement",
					Match: []string{"cement"},
					Groups: []ProcessGroupRule{
						{Name: "calcination", Match: []string{"calcination"}, Fuels: ClassFossil},
						{Name: "kiln", Match: []string{"kiln"}, Fuels: ClassAll},
						{Name: "all", Fuels: ClassAll},
					},
				},
				{
					Name:  "iron-steel",
					Match: []string{"steel"},
					Groups: []ProcessGroupRule{
						{Name: "blast-furnace", Match: []string{"blast"}, Fuels: ClassFossil},
						{Name: "all", Fuels: ClassAll},
					},
				},
				{
					Name:  "alumina",
					Match: []string{"alumina"},
					Groups: []ProcessGroupRule{
						{Name: "calcination", Match: []string{"calcin"}, Fuels: ClassFossil},
						{Name: "all", Fuels: ClassAll},
					},
				},
			},
		},
	}
}

// LoadConfig returns the compiled defaults, overlaid with the YAML rules
// file at path when path is non-empty. Map entries in the file merge over
// defaults; list-valued sections replace them.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("rules file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("rules file %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for the holes that would otherwise
// surface as misclassified rows deep inside a run.
func (c Config) Validate() error {
	if c.Columns.Process == "" || c.Columns.Commodity == "" || c.Columns.VariableKind == "" {
		return fmt.Errorf("%w: required input column name unset", ErrInvalidConfig)
	}
	if len(c.Classifier.TechTypes) == 0 ||
		len(c.Classifier.TechFuelCodes) == 0 ||
		len(c.Classifier.SupplyFuelCodes) == 0 ||
		len(c.Classifier.CompositeTokens) == 0 {
		return fmt.Errorf("%w: empty classifier table", ErrInvalidConfig)
	}
	for _, table := range []map[string]EntryType{c.Classifier.TechTypes, c.Classifier.FlexibleLoadTypes, c.Classifier.RetrofitTypes} {
		for token, entry := range table {
			if !classifierEntryTypes[entry] {
				return fmt.Errorf("%w: type token %s maps to unknown entry type %q", ErrInvalidConfig, token, entry)
			}
		}
	}
	for _, rule := range c.Classifier.CompositeTokens {
		if rule.Token == "" || !classifierEntryTypes[rule.Entry] {
			return fmt.Errorf("%w: composite token %q with entry type %q", ErrInvalidConfig, rule.Token, rule.Entry)
		}
	}
	for _, sector := range c.Sectors {
		if sector.Name == "" || sector.Tag == "" {
			return fmt.Errorf("%w: sector without name or tag", ErrInvalidConfig)
		}
		switch sector.SplitRule {
		case SplitHyphenSuffix, SplitHyphenInitial, SplitTagStrip:
		default:
			return fmt.Errorf("%w: sector %s: unknown split rule %q", ErrInvalidConfig, sector.Name, sector.SplitRule)
		}
		if len(sector.FuelSuffixes) == 0 {
			return fmt.Errorf("%w: sector %s: empty fuel suffix table", ErrInvalidConfig, sector.Name)
		}
		if len(sector.VariableKinds) == 0 {
			return fmt.Errorf("%w: sector %s: no variable kinds", ErrInvalidConfig, sector.Name)
		}
	}
	if c.Industry.ConsumptionKind == "" || c.Industry.ProductionKind == "" {
		return fmt.Errorf("%w: industry variable kinds unset", ErrInvalidConfig)
	}
	for _, subsector := range c.Industry.Subsectors {
		if subsector.Name == "" {
			return fmt.Errorf("%w: subsector without name", ErrInvalidConfig)
		}
		for _, group := range subsector.Groups {
			if group.Name == "" {
				return fmt.Errorf("%w: subsector %s: group without name", ErrInvalidConfig, subsector.Name)
			}
			if !group.Fuels.Valid() {
				return fmt.Errorf("%w: group %s/%s: unknown eligibility class %q",
					ErrInvalidConfig, subsector.Name, group.Name, group.Fuels)
			}
		}
	}
	return nil
}
