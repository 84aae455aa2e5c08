package fuelswitch

import "errors"

var (
	// ErrUnknownProcess is returned when no classifier rule matches a
	// supply-process identifier.
	ErrUnknownProcess = errors.New("fuelswitch: unknown supply process")
	// ErrUnknownFuelCode is returned when an identifier carries a fuel code
	// missing from the rule tables.
	ErrUnknownFuelCode = errors.New("fuelswitch: unknown fuel code")
	// ErrUnknownTypeToken is returned when an identifier carries a
	// technology or retrofit type token missing from the rule tables.
	ErrUnknownTypeToken = errors.New("fuelswitch: unknown type token")
	// ErrUnknownFuelSuffix is returned when a commodity name carries a fuel
	// suffix missing from the sector's suffix table.
	ErrUnknownFuelSuffix = errors.New("fuelswitch: unknown fuel suffix")
	// ErrSameFuelSwitch is returned when a switch entry reports no fuel
	// change.
	ErrSameFuelSwitch = errors.New("fuelswitch: switch without fuel change")
	// ErrFossilSwitchTarget is returned when a switch targets a legacy
	// fossil fuel.
	ErrFossilSwitchTarget = errors.New("fuelswitch: switch to legacy fossil fuel")
	// ErrNonPositiveAllocation is returned when a pair allocation is not
	// strictly positive.
	ErrNonPositiveAllocation = errors.New("fuelswitch: non-positive allocation")
	// ErrNegativeFlow is returned when a flow value stays negative after
	// clamping.
	ErrNegativeFlow = errors.New("fuelswitch: negative flow value")
	// ErrConservation is returned when attributed flows do not sum back to
	// the scaled baseline.
	ErrConservation = errors.New("fuelswitch: conservation mismatch")
	// ErrInvalidConfig is returned when the rules configuration is
	// incomplete or inconsistent.
	ErrInvalidConfig = errors.New("fuelswitch: invalid configuration")
)
