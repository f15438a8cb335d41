package types

import (
	"fmt"
	"strconv"
	"strings"
)

// OptionType identifies the leg type of an option contract.
type OptionType string

const (
	// Call is a call option.
	Call OptionType = "CALL"
	// Put is a put option.
	Put OptionType = "PUT"
)

// ParsedSymbol holds the structured fields of an instrument symbol.
//
// Instrument symbols are dash-delimited: <C|P>-<ASSET>-<STRIKE>-<DDMMYY>,
// e.g. "C-ETH-3500-310125" is the ETH 3500 call expiring 31 Jan 2025.
type ParsedSymbol struct {
	OptionType OptionType
	Asset      string
	Strike     int
	ExpiryCode string
}

// ParseSymbol parses an instrument symbol into its structured fields.
// A symbol that does not match the grammar yields a *MalformedDataError.
func ParseSymbol(symbol string) (ParsedSymbol, error) {
	parts := strings.Split(symbol, "-")
	if len(parts) != 4 {
		return ParsedSymbol{}, &MalformedDataError{
			Symbol: symbol,
			Reason: fmt.Sprintf("expected 4 dash-delimited fields, got %d", len(parts)),
		}
	}

	var optType OptionType
	switch parts[0] {
	case "C":
		optType = Call
	case "P":
		optType = Put
	default:
		return ParsedSymbol{}, &MalformedDataError{
			Symbol: symbol,
			Reason: fmt.Sprintf("unknown leg type prefix %q", parts[0]),
		}
	}

	if parts[1] == "" {
		return ParsedSymbol{}, &MalformedDataError{Symbol: symbol, Reason: "empty asset field"}
	}

	strike, err := strconv.Atoi(parts[2])
	if err != nil || strike <= 0 {
		return ParsedSymbol{}, &MalformedDataError{
			Symbol: symbol,
			Reason: fmt.Sprintf("invalid strike %q", parts[2]),
		}
	}

	expiry := parts[3]
	if len(expiry) != 6 {
		return ParsedSymbol{}, &MalformedDataError{
			Symbol: symbol,
			Reason: fmt.Sprintf("invalid expiry code %q", expiry),
		}
	}
	for _, r := range expiry {
		if r < '0' || r > '9' {
			return ParsedSymbol{}, &MalformedDataError{
				Symbol: symbol,
				Reason: fmt.Sprintf("invalid expiry code %q", expiry),
			}
		}
	}

	return ParsedSymbol{
		OptionType: optType,
		Asset:      parts[1],
		Strike:     strike,
		ExpiryCode: expiry,
	}, nil
}
