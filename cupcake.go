// Package cupcake implements the order flow at the heart of the cupcake
// kiosk: a linear four-step wizard (quantity, flavor, pickup date, summary)
// over a single in-progress order.
//
// The package holds no I/O, no locks and no transport types. A renderer
// subscribes to a Wizard for change notifications and pulls the current
// Snapshot after each one; the web frontend under internal/server is one
// such renderer, but anything able to call methods can drive the flow.
//
// Inputs arriving here are trusted: every event corresponds to a control the
// current step actually offers, and the values passed come from the options
// the wizard itself published. Layers facing untrusted input (the websocket
// session, the config loader) validate before calling in; a violation at
// this level is a bug in the caller and panics immediately rather than
// limping into an inconsistent order.
package cupcake

import "fmt"

// Flavor is one entry on the flavor step. Description may carry operator
// authored Markdown; the core stores it verbatim and leaves rendering to
// the frontend.
type Flavor struct {
	Name        string
	Description string
}

// Menu is the option source for a wizard: the box sizes on offer, the
// flavor list and the pricing rules. A wizard captures its menu at creation
// time, so swapping menus never disturbs an order already underway.
type Menu struct {
	// Quantities are the box sizes a customer can pick, in display order.
	Quantities []int

	// Flavors are offered in display order. Names must be unique; they are
	// the values SelectFlavor accepts.
	Flavors []Flavor

	// UnitPrice is the price of a single cupcake.
	UnitPrice Cents

	// SameDaySurcharge is added once per order when the customer picks the
	// earliest offered pickup date.
	SameDaySurcharge Cents

	// PickupDays is how many consecutive calendar days, starting today, are
	// offered as pickup dates.
	PickupDays int
}

// DefaultMenu returns the menu the kiosk ships with.
func DefaultMenu() *Menu {
	return &Menu{
		Quantities: []int{6, 12, 24},
		Flavors: []Flavor{
			{Name: "Vanilla", Description: "Madagascar vanilla bean, our classic."},
			{Name: "Chocolate", Description: "Dark cocoa sponge with fudge frosting."},
			{Name: "Red Velvet", Description: "Cream cheese frosting on a cocoa crumb."},
			{Name: "Salted Caramel", Description: "Burnt sugar caramel with sea salt flakes."},
			{Name: "Coffee", Description: "Espresso soaked sponge, mocha buttercream."},
		},
		UnitPrice:        200,
		SameDaySurcharge: 300,
		PickupDays:       4,
	}
}

// Validate reports the first problem that would make the menu unusable as a
// wizard's option source.
func (m *Menu) Validate() error {
	if len(m.Quantities) == 0 {
		return fmt.Errorf("menu has no quantities")
	}
	seen := make(map[int]bool, len(m.Quantities))
	for _, q := range m.Quantities {
		if q <= 0 {
			return fmt.Errorf("quantity %d is not positive", q)
		}
		if seen[q] {
			return fmt.Errorf("quantity %d appears twice", q)
		}
		seen[q] = true
	}
	if len(m.Flavors) == 0 {
		return fmt.Errorf("menu has no flavors")
	}
	names := make(map[string]bool, len(m.Flavors))
	for _, f := range m.Flavors {
		if f.Name == "" {
			return fmt.Errorf("flavor with empty name")
		}
		if names[f.Name] {
			return fmt.Errorf("flavor %q appears twice", f.Name)
		}
		names[f.Name] = true
	}
	if m.UnitPrice <= 0 {
		return fmt.Errorf("unit price %s is not positive", m.UnitPrice)
	}
	if m.SameDaySurcharge < 0 {
		return fmt.Errorf("same-day surcharge %s is negative", m.SameDaySurcharge)
	}
	if m.PickupDays < 1 {
		return fmt.Errorf("pickup days %d, need at least 1", m.PickupDays)
	}
	return nil
}

// AllowsQuantity reports whether n is one of the offered box sizes.
func (m *Menu) AllowsQuantity(n int) bool {
	for _, q := range m.Quantities {
		if q == n {
			return true
		}
	}
	return false
}

// HasFlavor reports whether name is on the flavor list.
func (m *Menu) HasFlavor(name string) bool {
	for _, f := range m.Flavors {
		if f.Name == name {
			return true
		}
	}
	return false
}

// FlavorNames returns the flavor names in display order.
func (m *Menu) FlavorNames() []string {
	names := make([]string, len(m.Flavors))
	for i, f := range m.Flavors {
		names[i] = f.Name
	}
	return names
}
