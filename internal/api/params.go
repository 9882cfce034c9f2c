package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/VictorDENSC/CaisseNoire/internal/model"
)

const (
	paramMonth  = "month"
	paramYear   = "year"
	paramFormat = "format"
)

type ParameterErrorKind string

const (
	ParameterErrorUnvalidType        ParameterErrorKind = "UNVALID_TYPE"
	ParameterErrorUnvalidValue       ParameterErrorKind = "UNVALID_VALUE"
	ParameterErrorUnvalidCombination ParameterErrorKind = "UNVALID_COMBINATION"
)

// ParameterError reports a malformed or incompatible query parameter. Exactly
// one of the detail fields is set, according to Kind.
type ParameterError struct {
	Parameter string
	Kind      ParameterErrorKind

	// UNVALID_TYPE
	ExpectedType string

	// UNVALID_VALUE
	Value  string
	Reason string

	// UNVALID_COMBINATION
	MissingParameters []string
}

func (e *ParameterError) Error() string {
	switch e.Kind {
	case ParameterErrorUnvalidType:
		return fmt.Sprintf("parameter %s must be a %s", e.Parameter, e.ExpectedType)
	case ParameterErrorUnvalidValue:
		return fmt.Sprintf("parameter %s has unvalid value %q: %s", e.Parameter, e.Value, e.Reason)
	case ParameterErrorUnvalidCombination:
		return fmt.Sprintf("parameter %s must be combined with %s", e.Parameter, strings.Join(e.MissingParameters, ", "))
	}
	return fmt.Sprintf("parameter %s is unvalid", e.Parameter)
}

func unvalidType(parameter, expected string) *ParameterError {
	return &ParameterError{
		Parameter:    parameter,
		Kind:         ParameterErrorUnvalidType,
		ExpectedType: expected,
	}
}

// dateIntervalFromParams parses the optional month/year pair into an
// inclusive calendar interval.
//
// Both absent means no filtering. A lone month or year is an unvalid
// combination naming the present parameter. When both are given, the
// interval spans the first to the last day of that month; December rolls
// over into January of the next year.
func dateIntervalFromParams(params url.Values) (*model.DateInterval, *ParameterError) {
	hasMonth := params.Has(paramMonth)
	hasYear := params.Has(paramYear)

	switch {
	case !hasMonth && !hasYear:
		return nil, nil
	case hasMonth && !hasYear:
		return nil, &ParameterError{
			Parameter:         paramMonth,
			Kind:              ParameterErrorUnvalidCombination,
			MissingParameters: []string{paramYear},
		}
	case hasYear && !hasMonth:
		return nil, &ParameterError{
			Parameter:         paramYear,
			Kind:              ParameterErrorUnvalidCombination,
			MissingParameters: []string{paramMonth},
		}
	}

	year, err := strconv.Atoi(params.Get(paramYear))
	if err != nil {
		return nil, unvalidType(paramYear, "number")
	}

	month, err := strconv.ParseUint(params.Get(paramMonth), 10, 32)
	if err != nil {
		return nil, unvalidType(paramMonth, "number")
	}
	if month < 1 || month > 12 {
		return nil, &ParameterError{
			Parameter: paramMonth,
			Kind:      ParameterErrorUnvalidValue,
			Value:     params.Get(paramMonth),
			Reason:    "This value must be between 1 and 12",
		}
	}

	start := model.NewDate(year, time.Month(month), 1)
	// time.Date normalizes month 13, so December rolls over to January.
	end := model.Date{Time: time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)}

	return &model.DateInterval{Start: start, End: end}, nil
}

// formatFromParams parses the optional boolean "format" parameter. Absent
// means false; any present value other than "true" or "false" is an unvalid
// type. strconv.ParseBool is deliberately not used here: it accepts "t",
// "1" and friends, which are rejected as booleans on this surface.
func formatFromParams(params url.Values) (bool, *ParameterError) {
	if !params.Has(paramFormat) {
		return false, nil
	}

	switch params.Get(paramFormat) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}

	return false, unvalidType(paramFormat, "boolean")
}
