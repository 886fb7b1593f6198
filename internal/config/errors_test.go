package config

import (
	"fmt"
	"strings"
	"testing"
)

func TestConfigErrorFormatting(t *testing.T) {
	err := NewConfigError("/shop/cupcake.yaml", "menu has no flavors").
		WithHint("every flavor needs a unique name")

	errMsg := err.Error()
	t.Logf("Error message:\n%s", errMsg)

	if !strings.Contains(errMsg, "❌ Error in /shop/cupcake.yaml") {
		t.Errorf("Error should mention file path")
	}

	if !strings.Contains(errMsg, "menu has no flavors") {
		t.Errorf("Error should include message")
	}

	if !strings.Contains(errMsg, "💡 Tip: every flavor needs a unique name") {
		t.Errorf("Error should include hint")
	}
}

func TestConfigErrorWithoutHint(t *testing.T) {
	err := NewConfigError("cupcake.yaml", "something went wrong")

	if strings.Contains(err.Error(), "💡") {
		t.Errorf("Error without a hint should not render a tip line")
	}
}

func TestDescribePicksMatchingHints(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHint string
	}{
		{
			name:     "price failure",
			err:      fmt.Errorf("menu unit_price: invalid price %q", "free"),
			wantHint: "dollar strings",
		},
		{
			name:     "quantities failure",
			err:      fmt.Errorf("menu: menu has no quantities"),
			wantHint: "box sizes",
		},
		{
			name:     "flavor failure",
			err:      fmt.Errorf("menu: flavor %q appears twice", "Vanilla"),
			wantHint: "unique name",
		},
		{
			name:     "pickup failure",
			err:      fmt.Errorf("menu: pickup days 0, need at least 1"),
			wantHint: "pickup_days",
		},
		{
			name:     "yaml failure",
			err:      fmt.Errorf("failed to parse config file: yaml: line 4: mapping values are not allowed"),
			wantHint: "whitespace sensitive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := Describe("cupcake.yaml", tt.err)
			if !strings.Contains(ce.Hint, tt.wantHint) {
				t.Errorf("expected hint mentioning %q, got %q", tt.wantHint, ce.Hint)
			}
			if !strings.Contains(ce.Error(), tt.err.Error()) {
				t.Errorf("described error should carry the original message")
			}
		})
	}
}

func TestDescribeUnknownFailureHasNoHint(t *testing.T) {
	ce := Describe("cupcake.yaml", fmt.Errorf("disk on fire"))
	if ce.Hint != "" {
		t.Errorf("expected no hint for an unrecognized failure, got %q", ce.Hint)
	}
}
