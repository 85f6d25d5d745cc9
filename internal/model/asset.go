package model

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Asset is a tradable instrument from the catalog.
type Asset struct {
	ID     string `yaml:"id" json:"id" validate:"required"`
	Symbol string `yaml:"symbol" json:"symbol" validate:"required"`
	Change string `yaml:"change" json:"change"` // signed percent, e.g. "+1,25%"
}

// ChangeValue returns the parsed recent price change in percent.
func (a Asset) ChangeValue() float64 {
	return ParseChange(a.Change)
}

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseChange converts a percent string like "-0,42%" to -0.42.
// Either ',' or '.' may be the decimal separator and a trailing '%' is
// tolerated. Only the leading numeric part is read; anything unparsable is 0.
func ParseChange(change string) float64 {
	s := strings.Replace(change, ",", ".", 1)
	s = strings.Replace(s, "%", "", 1)
	s = strings.TrimSpace(s)

	m := numericPrefix.FindString(s)
	if m == "" {
		return 0
	}
	m = strings.TrimPrefix(m, "+")
	m = strings.Replace(m, ".e", "e", 1)
	m = strings.Replace(m, ".E", "E", 1)
	m = strings.TrimSuffix(m, ".")
	if strings.HasPrefix(m, ".") || strings.HasPrefix(m, "-.") {
		m = strings.Replace(m, ".", "0.", 1)
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
