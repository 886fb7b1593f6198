package server

import (
	"strings"
	"testing"

	cupcake "github.com/ranjanproject/composenavigation"
)

func TestRenderDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text gets a paragraph",
			input: "Rich dark chocolate.",
			want:  "<p>Rich dark chocolate.</p>",
		},
		{
			name:  "emphasis renders",
			input: "Back by *popular demand*.",
			want:  "<em>popular demand</em>",
		},
		{
			name:  "strong renders",
			input: "**Seasonal** special.",
			want:  "<strong>Seasonal</strong>",
		},
		{
			name:  "strikethrough renders via GFM",
			input: "~~Sold out~~ restocked.",
			want:  "<del>Sold out</del>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderDescription(tt.input)
			if !strings.Contains(got, tt.want) {
				t.Errorf("renderDescription(%q) = %q, want it to contain %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderDescriptionOmitsRawHTML(t *testing.T) {
	// goldmark runs without the unsafe option, so raw HTML in a menu
	// file never reaches the kiosk DOM.
	got := renderDescription("<script>alert(1)</script>")
	if strings.Contains(got, "<script>") {
		t.Errorf("Raw HTML leaked through: %q", got)
	}
}

func TestBuildMenuPayload(t *testing.T) {
	m := cupcake.DefaultMenu()
	payload := buildMenuPayload(m)

	if len(payload.Quantities) != len(m.Quantities) {
		t.Fatalf("Quantities = %v, want %v", payload.Quantities, m.Quantities)
	}
	if len(payload.Flavors) != len(m.Flavors) {
		t.Fatalf("Flavors = %d entries, want %d", len(payload.Flavors), len(m.Flavors))
	}
	if payload.UnitPrice != "$2.00" {
		t.Errorf("UnitPrice = %q, want $2.00", payload.UnitPrice)
	}
	if payload.SameDaySurcharge != "$3.00" {
		t.Errorf("SameDaySurcharge = %q, want $3.00", payload.SameDaySurcharge)
	}
	if payload.PickupDays != m.PickupDays {
		t.Errorf("PickupDays = %d, want %d", payload.PickupDays, m.PickupDays)
	}

	for i, f := range payload.Flavors {
		if f.Name != m.Flavors[i].Name {
			t.Errorf("Flavor %d name = %q, want %q", i, f.Name, m.Flavors[i].Name)
		}
		if f.DescriptionHTML == "" {
			t.Errorf("Flavor %q should carry a rendered description", f.Name)
		}
	}
}

func TestBuildMenuPayloadCopiesQuantities(t *testing.T) {
	m := cupcake.DefaultMenu()
	payload := buildMenuPayload(m)

	payload.Quantities[0] = 999
	if m.Quantities[0] == 999 {
		t.Error("Payload should hold a copy, not alias the menu's slice")
	}
}
