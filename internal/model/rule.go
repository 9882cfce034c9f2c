package model

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type RuleCategory string

const (
	RuleCategoryGameDay     RuleCategory = "GAME_DAY"
	RuleCategoryTrainingDay RuleCategory = "TRAINING_DAY"
)

type TimeUnit string

const (
	TimeUnitSecond TimeUnit = "SECOND"
	TimeUnitMinute TimeUnit = "MINUTE"
	TimeUnitHour   TimeUnit = "HOUR"
	TimeUnitDay    TimeUnit = "DAY"
	TimeUnitWeek   TimeUnit = "WEEK"
	TimeUnitMonth  TimeUnit = "MONTH"
	TimeUnitYear   TimeUnit = "YEAR"
)

type RuleKindType string

const (
	RuleKindBasic              RuleKindType = "BASIC"
	RuleKindMultiplication     RuleKindType = "MULTIPLICATION"
	RuleKindTimeMultiplication RuleKindType = "TIME_MULTIPLICATION"
	RuleKindRegularIntervals   RuleKindType = "REGULAR_INTERVALS"
)

// RuleKind is a closed tagged union discriminated by Type. Only the fields
// belonging to the active variant are meaningful; JSON (de)serialization
// enforces that.
type RuleKind struct {
	Type RuleKindType

	// BASIC and REGULAR_INTERVALS
	Price float64

	// MULTIPLICATION
	PriceToMultiply float64

	// TIME_MULTIPLICATION
	PricePerTimeUnit float64

	// TIME_MULTIPLICATION and REGULAR_INTERVALS
	TimeUnit TimeUnit

	// REGULAR_INTERVALS
	IntervalInTimeUnit uint32
}

type ruleKindWire struct {
	Type               RuleKindType `json:"type"`
	Price              *float64     `json:"price,omitempty"`
	PriceToMultiply    *float64     `json:"price_to_multiply,omitempty"`
	PricePerTimeUnit   *float64     `json:"price_per_time_unit,omitempty"`
	TimeUnit           *TimeUnit    `json:"time_unit,omitempty"`
	IntervalInTimeUnit *uint32      `json:"interval_in_time_unit,omitempty"`
}

func (k RuleKind) MarshalJSON() ([]byte, error) {
	wire := ruleKindWire{Type: k.Type}

	switch k.Type {
	case RuleKindBasic:
		wire.Price = &k.Price
	case RuleKindMultiplication:
		wire.PriceToMultiply = &k.PriceToMultiply
	case RuleKindTimeMultiplication:
		wire.PricePerTimeUnit = &k.PricePerTimeUnit
		wire.TimeUnit = &k.TimeUnit
	case RuleKindRegularIntervals:
		wire.Price = &k.Price
		wire.IntervalInTimeUnit = &k.IntervalInTimeUnit
		wire.TimeUnit = &k.TimeUnit
	default:
		return nil, fmt.Errorf("unknown rule kind %q", k.Type)
	}

	return json.Marshal(wire)
}

func (k *RuleKind) UnmarshalJSON(data []byte) error {
	var wire ruleKindWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	kind := RuleKind{Type: wire.Type}

	switch wire.Type {
	case RuleKindBasic:
		if wire.Price == nil {
			return fmt.Errorf("rule kind %s requires a price", wire.Type)
		}
		kind.Price = *wire.Price
	case RuleKindMultiplication:
		if wire.PriceToMultiply == nil {
			return fmt.Errorf("rule kind %s requires a price_to_multiply", wire.Type)
		}
		kind.PriceToMultiply = *wire.PriceToMultiply
	case RuleKindTimeMultiplication:
		if wire.PricePerTimeUnit == nil || wire.TimeUnit == nil {
			return fmt.Errorf("rule kind %s requires a price_per_time_unit and a time_unit", wire.Type)
		}
		kind.PricePerTimeUnit = *wire.PricePerTimeUnit
		kind.TimeUnit = *wire.TimeUnit
	case RuleKindRegularIntervals:
		if wire.Price == nil || wire.IntervalInTimeUnit == nil || wire.TimeUnit == nil {
			return fmt.Errorf("rule kind %s requires a price, an interval_in_time_unit and a time_unit", wire.Type)
		}
		kind.Price = *wire.Price
		kind.IntervalInTimeUnit = *wire.IntervalInTimeUnit
		kind.TimeUnit = *wire.TimeUnit
	default:
		return fmt.Errorf("unknown rule kind %q", wire.Type)
	}

	if kind.TimeUnit != "" {
		switch kind.TimeUnit {
		case TimeUnitSecond, TimeUnitMinute, TimeUnitHour, TimeUnitDay, TimeUnitWeek, TimeUnitMonth, TimeUnitYear:
		default:
			return fmt.Errorf("unknown time unit %q", kind.TimeUnit)
		}
	}

	*k = kind
	return nil
}

// Rule is a team-scoped pricing policy. Rule identifiers are unique within
// their owning team.
type Rule struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Category    RuleCategory `json:"category"`
	Description string       `json:"description"`
	Kind        RuleKind     `json:"kind"`
}

// RuleRequest is the request body for a rule, nested in a team create/update.
// A missing id means a fresh one is assigned.
type RuleRequest struct {
	ID          *uuid.UUID   `json:"id,omitempty"`
	Name        string       `json:"name" validate:"required"`
	Category    RuleCategory `json:"category" validate:"required,oneof=GAME_DAY TRAINING_DAY"`
	Description string       `json:"description"`
	Kind        RuleKind     `json:"kind"`
}

func (r *RuleRequest) Rule() Rule {
	id := uuid.New()
	if r.ID != nil {
		id = *r.ID
	}
	return Rule{
		ID:          id,
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		Kind:        r.Kind,
	}
}
