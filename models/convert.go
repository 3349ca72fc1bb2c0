package models

import (
	"strings"
)

// paginationSwitchValues is the closed token set accepted by the pagination switch
var paginationSwitchValues = map[string]bool{
	"on":    true,
	"true":  true,
	"1":     true,
	"yes":   true,
	"👍":     true,
	"off":   false,
	"false": false,
	"0":     false,
	"no":    false,
	"👎":     false,
}

// ParseOnOffSwitch maps a user-supplied switch token to a boolean. Tokens are
// matched case-insensitively; unrecognized input yields ok=false and callers
// are expected to have validated membership beforehand.
func ParseOnOffSwitch(token string) (value bool, ok bool) {
	value, ok = paginationSwitchValues[strings.ToLower(token)]
	return value, ok
}

// FormatOnOff renders an optional boolean for settings display
func FormatOnOff(v *bool) string {
	switch {
	case v == nil:
		return "<NOT SET>"
	case *v:
		return "ON"
	default:
		return "OFF"
	}
}
