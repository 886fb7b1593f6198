package cupcake

import (
	"reflect"
	"strings"
	"testing"
)

func TestDefaultMenuIsValid(t *testing.T) {
	if err := DefaultMenu().Validate(); err != nil {
		t.Fatalf("default menu should validate, got: %v", err)
	}
}

func TestMenuValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Menu)
		wantErr string
	}{
		{
			name:    "no quantities",
			mutate:  func(m *Menu) { m.Quantities = nil },
			wantErr: "no quantities",
		},
		{
			name:    "zero quantity",
			mutate:  func(m *Menu) { m.Quantities = []int{0, 6} },
			wantErr: "not positive",
		},
		{
			name:    "negative quantity",
			mutate:  func(m *Menu) { m.Quantities = []int{6, -12} },
			wantErr: "not positive",
		},
		{
			name:    "duplicate quantity",
			mutate:  func(m *Menu) { m.Quantities = []int{6, 12, 6} },
			wantErr: "appears twice",
		},
		{
			name:    "no flavors",
			mutate:  func(m *Menu) { m.Flavors = nil },
			wantErr: "no flavors",
		},
		{
			name:    "empty flavor name",
			mutate:  func(m *Menu) { m.Flavors = append(m.Flavors, Flavor{}) },
			wantErr: "empty name",
		},
		{
			name:    "duplicate flavor",
			mutate:  func(m *Menu) { m.Flavors = append(m.Flavors, Flavor{Name: "Vanilla"}) },
			wantErr: "appears twice",
		},
		{
			name:    "zero unit price",
			mutate:  func(m *Menu) { m.UnitPrice = 0 },
			wantErr: "not positive",
		},
		{
			name:    "negative surcharge",
			mutate:  func(m *Menu) { m.SameDaySurcharge = -1 },
			wantErr: "negative",
		},
		{
			name:    "zero pickup days",
			mutate:  func(m *Menu) { m.PickupDays = 0 },
			wantErr: "at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DefaultMenu()
			tt.mutate(m)
			err := m.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestAllowsQuantity(t *testing.T) {
	m := DefaultMenu()
	for _, q := range m.Quantities {
		if !m.AllowsQuantity(q) {
			t.Errorf("expected quantity %d to be allowed", q)
		}
	}
	for _, q := range []int{0, 1, 7, -6, 13} {
		if m.AllowsQuantity(q) {
			t.Errorf("expected quantity %d to be rejected", q)
		}
	}
}

func TestHasFlavor(t *testing.T) {
	m := DefaultMenu()
	if !m.HasFlavor("Vanilla") {
		t.Error("expected Vanilla to be on the menu")
	}
	if m.HasFlavor("vanilla") {
		t.Error("flavor match should be exact, not case folded")
	}
	if m.HasFlavor("Pistachio") {
		t.Error("expected Pistachio to be off the menu")
	}
}

func TestFlavorNames(t *testing.T) {
	got := DefaultMenu().FlavorNames()
	expected := []string{"Vanilla", "Chocolate", "Red Velvet", "Salted Caramel", "Coffee"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}
