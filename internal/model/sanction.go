package model

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type ExtraInfoType string

const (
	ExtraInfoNone           ExtraInfoType = "NONE"
	ExtraInfoMultiplication ExtraInfoType = "MULTIPLICATION"
)

// ExtraInfo is the per-sanction data supplied by the caller. It must be
// compatible with the kind of the rule it is priced against.
type ExtraInfo struct {
	Type   ExtraInfoType
	Factor uint32
}

type extraInfoWire struct {
	Type   ExtraInfoType `json:"type"`
	Factor *uint32       `json:"factor,omitempty"`
}

func (e ExtraInfo) MarshalJSON() ([]byte, error) {
	wire := extraInfoWire{Type: e.Type}

	switch e.Type {
	case ExtraInfoNone:
	case ExtraInfoMultiplication:
		wire.Factor = &e.Factor
	default:
		return nil, fmt.Errorf("unknown extra info %q", e.Type)
	}

	return json.Marshal(wire)
}

func (e *ExtraInfo) UnmarshalJSON(data []byte) error {
	var wire extraInfoWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	info := ExtraInfo{Type: wire.Type}

	switch wire.Type {
	case ExtraInfoNone:
	case ExtraInfoMultiplication:
		if wire.Factor == nil {
			return fmt.Errorf("extra info %s requires a factor", wire.Type)
		}
		info.Factor = *wire.Factor
	default:
		return fmt.Errorf("unknown extra info %q", wire.Type)
	}

	*e = info
	return nil
}

// SanctionInfo ties a sanction to the rule it was priced against.
type SanctionInfo struct {
	AssociatedRule uuid.UUID `json:"associated_rule"`
	ExtraInfo      ExtraInfo `json:"extra_info"`
}

func (s *SanctionInfo) UnmarshalJSON(data []byte) error {
	var wire struct {
		AssociatedRule uuid.UUID  `json:"associated_rule"`
		ExtraInfo      *ExtraInfo `json:"extra_info"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.ExtraInfo == nil {
		return fmt.Errorf("missing field extra_info")
	}

	s.AssociatedRule = wire.AssociatedRule
	s.ExtraInfo = *wire.ExtraInfo
	return nil
}

// PriceMismatchError reports an ExtraInfo incompatible with the kind of the
// matched rule.
type PriceMismatchError struct {
	RuleName  string
	RuleKind  RuleKindType
	ExtraInfo ExtraInfoType
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("extra info %s does not apply to rule %q of kind %s",
		e.ExtraInfo, e.RuleName, e.RuleKind)
}

// Price computes the amount owed for this sanction under the given rule.
//
// The (ExtraInfo, RuleKind) pairing is matched exhaustively: NONE prices only
// against BASIC, MULTIPLICATION only against MULTIPLICATION or
// TIME_MULTIPLICATION. REGULAR_INTERVALS rules have no pricing formula yet
// and always report a mismatch. Every non-matching pairing returns a
// *PriceMismatchError.
func (s SanctionInfo) Price(rule *Rule) (float64, error) {
	switch s.ExtraInfo.Type {
	case ExtraInfoNone:
		if rule.Kind.Type == RuleKindBasic {
			return rule.Kind.Price, nil
		}
	case ExtraInfoMultiplication:
		switch rule.Kind.Type {
		case RuleKindMultiplication:
			return rule.Kind.PriceToMultiply * float64(s.ExtraInfo.Factor), nil
		case RuleKindTimeMultiplication:
			return rule.Kind.PricePerTimeUnit * float64(s.ExtraInfo.Factor), nil
		}
	}

	return 0, &PriceMismatchError{
		RuleName:  rule.Name,
		RuleKind:  rule.Kind.Type,
		ExtraInfo: s.ExtraInfo.Type,
	}
}

// Sanction is a recorded fine against a team member, with its price computed
// at creation time.
type Sanction struct {
	ID           uuid.UUID    `json:"id"`
	UserID       uuid.UUID    `json:"user_id"`
	TeamID       uuid.UUID    `json:"team_id"`
	SanctionInfo SanctionInfo `json:"sanction_info"`
	Price        float64      `json:"price"`
	CreatedAt    Date         `json:"created_at"`
}

// SanctionRequest is one entry of a batch-create body. A missing id means a
// fresh one is assigned; a missing creation date defaults to today.
type SanctionRequest struct {
	ID           *uuid.UUID   `json:"id,omitempty"`
	UserID       uuid.UUID    `json:"user_id" validate:"required"`
	SanctionInfo SanctionInfo `json:"sanction_info"`
	CreatedAt    *Date        `json:"created_at,omitempty"`
}
