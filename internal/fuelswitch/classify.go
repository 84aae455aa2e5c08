package fuelswitch

import (
	"fmt"
	"strings"
)

// Classifier maps a supply-process identifier and an inbound fuel to a
// destination fuel and entry type. It is a pure lookup over immutable rule
// tables: identical inputs always produce identical outputs.
type Classifier struct {
	rules ClassifierRules
	steps []dispatchStep
}

// dispatchStep is one (predicate, handler) pair. Steps run in slice order;
// the first matching predicate wins.
type dispatchStep struct {
	name  string
	match func(id string) bool
	apply func(id string, from Fuel) (Fuel, EntryType, error)
}

// NewClassifier builds the dispatch chain for the given rule tables.
func NewClassifier(rules ClassifierRules) *Classifier {
	c := &Classifier{rules: rules}
	c.steps = []dispatchStep{
		{name: "efficiency-device", match: matchPrefix("EE", "ETI_EE"), apply: sameFuel(EntryEnergyEfficiency)},
		{name: "switch-technology", match: matchPrefix("ETI_"), apply: c.applyTechnology},
		{name: "flexible-load", match: matchPrefix("IFL_"), apply: c.applyFlexibleLoad},
		{name: "energy-supply", match: matchPrefix("IES"), apply: c.applySupply},
		{name: "building-retrofit", match: matchPrefix("BFL"), apply: c.applyRetrofit},
		{name: "commercial-composite", match: matchPrefix("TCS"), apply: c.applyComposite},
		{name: "sector-efficiency", match: matchPrefix("CEE", "REE"), apply: sameFuel(EntryEnergyEfficiency)},
		{name: "residential-stock", match: matchPrefix("RTS"), apply: c.applyResidentialStock},
	}
	return c
}

// Classify resolves one supply process. Unknown identifiers, type tokens
// and fuel codes are fatal: the rule tables are missing an entry for new
// input data and must not be silently defaulted.
func (c *Classifier) Classify(processID string, from Fuel) (Fuel, EntryType, error) {
	for _, step := range c.steps {
		if step.match(processID) {
			return step.apply(processID, from)
		}
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnknownProcess, processID)
}

func matchPrefix(prefixes ...string) func(string) bool {
	return func(id string) bool {
		for _, prefix := range prefixes {
			if strings.HasPrefix(id, prefix) {
				return true
			}
		}
		return false
	}
}

func sameFuel(entry EntryType) func(string, Fuel) (Fuel, EntryType, error) {
	return func(_ string, from Fuel) (Fuel, EntryType, error) {
		return from, entry, nil
	}
}

// applyTechnology parses ETI_<TYPE>_<fuelcode>_... identifiers.
func (c *Classifier) applyTechnology(id string, _ Fuel) (Fuel, EntryType, error) {
	parts := strings.Split(id, "_")
	if len(parts) < 3 {
		return "", "", fmt.Errorf("%w: malformed technology id %q", ErrUnknownTypeToken, id)
	}
	entry, ok := c.rules.TechTypes[parts[1]]
	if !ok {
		return "", "", fmt.Errorf("%w: %q in %q", ErrUnknownTypeToken, parts[1], id)
	}
	to, ok := c.rules.TechFuelCodes[parts[2]]
	if !ok {
		return "", "", fmt.Errorf("%w: %q in %q", ErrUnknownFuelCode, parts[2], id)
	}
	return to, entry, nil
}

// applyFlexibleLoad parses IFL_<TYPE>_... identifiers.
func (c *Classifier) applyFlexibleLoad(id string, from Fuel) (Fuel, EntryType, error) {
	parts := strings.Split(id, "_")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("%w: malformed flexible-load id %q", ErrUnknownTypeToken, id)
	}
	entry, ok := c.rules.FlexibleLoadTypes[parts[1]]
	if !ok {
		return "", "", fmt.Errorf("%w: %q in %q", ErrUnknownTypeToken, parts[1], id)
	}
	return from, entry, nil
}

// applySupply parses IES<code> / IES_<code>_... identifiers. Supply
// processes are remaining consumption, except that an electricity supply
// feeding a non-electric consumer is electrification.
func (c *Classifier) applySupply(id string, from Fuel) (Fuel, EntryType, error) {
	code := strings.TrimPrefix(id, "IES")
	code = strings.TrimPrefix(code, "_")
	if i := strings.IndexByte(code, '_'); i >= 0 {
		code = code[:i]
	}
	to, ok := c.rules.SupplyFuelCodes[code]
	if !ok {
		return "", "", fmt.Errorf("%w: %q in %q", ErrUnknownFuelCode, code, id)
	}
	if to == FuelElectricity && from != FuelElectricity {
		return to, EntryElectrification, nil
	}
	return to, EntryRemainingConsumption, nil
}

// applyRetrofit parses BFL_..._<TYPE>-... identifiers; the type token sits
// in the final underscore segment, before the first hyphen.
func (c *Classifier) applyRetrofit(id string, from Fuel) (Fuel, EntryType, error) {
	segments := strings.Split(id, "_")
	token, _, _ := strings.Cut(segments[len(segments)-1], "-")
	entry, ok := c.rules.RetrofitTypes[token]
	if !ok {
		return "", "", fmt.Errorf("%w: %q in %q", ErrUnknownTypeToken, token, id)
	}
	return from, entry, nil
}

// applyComposite dispatches TCS identifiers on embedded tokens, first
// match wins.
func (c *Classifier) applyComposite(id string, _ Fuel) (Fuel, EntryType, error) {
	for _, rule := range c.rules.CompositeTokens {
		if strings.Contains(id, rule.Token) {
			return rule.Fuel, rule.Entry, nil
		}
	}
	return "", "", fmt.Errorf("%w: no composite token in %q", ErrUnknownProcess, id)
}

// applyResidentialStock parses RTS...-<suffix> identifiers.
func (c *Classifier) applyResidentialStock(id string, from Fuel) (Fuel, EntryType, error) {
	idx := strings.LastIndexByte(id, '-')
	if idx < 0 || idx == len(id)-1 {
		return "", "", fmt.Errorf("%w: no suffix in %q", ErrUnknownFuelCode, id)
	}
	suffix := id[idx+1:]
	if to, ok := c.rules.SwitchSuffixes[suffix]; ok {
		if to == FuelElectricity {
			return to, EntryElectrification, nil
		}
		return to, EntryFuelSwitch, nil
	}
	for _, remain := range c.rules.RemainSuffixes {
		if remain == suffix {
			return from, EntryRemainingConsumption, nil
		}
	}
	return "", "", fmt.Errorf("%w: %q in %q", ErrUnknownFuelCode, suffix, id)
}

// ValidateClassification enforces the same-fuel and legacy-fossil-target
// invariants on one classification result. Violations indicate a data
// quality problem and abort the run.
func ValidateClassification(from, to Fuel, entry EntryType) error {
	if from == to && !sameFuelEntryTypes[entry] {
		return fmt.Errorf("%w: %s with unchanged fuel %s", ErrSameFuelSwitch, entry, from)
	}
	if switchEntryTypes[entry] && IsLegacyFossil(to) {
		return fmt.Errorf("%w: %s targeting %s", ErrFossilSwitchTarget, entry, to)
	}
	return nil
}
