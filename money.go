package cupcake

import (
	"fmt"
	"strconv"
	"strings"
)

// Cents is a money amount in US cents. Prices are integers end to end so
// that quantity math never rounds; formatting happens only at the edges.
type Cents int64

// String renders the amount as dollars, e.g. "$12.00".
func (c Cents) String() string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s$%d.%02d", sign, c/100, c%100)
}

// ParsePrice converts a decimal dollar string into cents. It accepts the
// forms operators write in config files: "2", "2.5", "2.50" and "$2.50".
// At most two decimal places are allowed; negative prices are rejected.
func ParsePrice(s string) (Cents, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "$")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty price")
	}
	if strings.HasPrefix(raw, "-") {
		return 0, fmt.Errorf("negative price %q", s)
	}

	whole, frac, hasFrac := strings.Cut(raw, ".")
	if whole == "" {
		whole = "0"
	}
	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", s)
	}

	var cents int64
	if hasFrac && frac != "" {
		if len(frac) > 2 {
			return 0, fmt.Errorf("invalid price %q: at most two decimal places", s)
		}
		padded := frac + strings.Repeat("0", 2-len(frac))
		cents, err = strconv.ParseInt(padded, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q", s)
		}
	}

	return Cents(dollars*100 + cents), nil
}
