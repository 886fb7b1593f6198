package cupcake

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clockAt returns a frozen clock for deterministic pickup options.
// 2000-01-01 was a Saturday.
func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var (
	saturday = time.Date(2000, time.January, 1, 10, 30, 0, 0, time.UTC)
	monthEnd = time.Date(2000, time.January, 31, 10, 30, 0, 0, time.UTC)
)

func TestPickupOptionsConsecutiveDays(t *testing.T) {
	o := newOrder(DefaultMenu(), clockAt(saturday))
	expected := []string{"Sat Jan 1", "Sun Jan 2", "Mon Jan 3", "Tue Jan 4"}
	if got := o.PickupOptions(); !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestPickupOptionsCrossMonthBoundary(t *testing.T) {
	o := newOrder(DefaultMenu(), clockAt(monthEnd))
	expected := []string{"Mon Jan 31", "Tue Feb 1", "Wed Feb 2", "Thu Feb 3"}
	if got := o.PickupOptions(); !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestPickupOptionsCountFollowsMenu(t *testing.T) {
	m := DefaultMenu()
	m.PickupDays = 7
	o := newOrder(m, clockAt(saturday))

	got := o.PickupOptions()
	if len(got) != 7 {
		t.Fatalf("expected 7 options, got %d", len(got))
	}
	for i, label := range got {
		expected := saturday.AddDate(0, 0, i).Format("Mon Jan 2")
		if label != expected {
			t.Errorf("option %d: expected %q, got %q", i, expected, label)
		}
	}
}

func TestPickupOptionsAreACopy(t *testing.T) {
	o := newOrder(DefaultMenu(), clockAt(saturday))
	got := o.PickupOptions()
	got[0] = "tampered"
	if o.PickupOptions()[0] != "Sat Jan 1" {
		t.Error("mutating the returned slice should not touch the order")
	}
}

func TestPriceForEveryQuantityAndDate(t *testing.T) {
	m := DefaultMenu()
	for _, q := range m.Quantities {
		for i := 0; i < m.PickupDays; i++ {
			o := newOrder(m, clockAt(saturday))
			o.setQuantity(q)
			o.setFlavor("Chocolate")
			o.setPickupDate(o.pickupOptions[i])

			expected := Cents(q) * m.UnitPrice
			if i == 0 {
				expected += m.SameDaySurcharge
			}
			if o.Price() != expected {
				t.Errorf("quantity %d, option %d: expected %s, got %s", q, i, expected, o.Price())
			}
		}
	}
}

func TestPriceBeforeAnySelection(t *testing.T) {
	o := newOrder(DefaultMenu(), clockAt(saturday))
	if o.Price() != 0 {
		t.Errorf("expected $0.00 before any selection, got %s", o.Price())
	}
}

func TestSurchargeFollowsDateChanges(t *testing.T) {
	m := DefaultMenu()
	o := newOrder(m, clockAt(saturday))
	o.setQuantity(6)

	o.setPickupDate(o.pickupOptions[0])
	assert.Equal(t, Cents(6)*m.UnitPrice+m.SameDaySurcharge, o.Price(), "same-day pickup should add the surcharge")

	o.setPickupDate(o.pickupOptions[2])
	assert.Equal(t, Cents(6)*m.UnitPrice, o.Price(), "moving off same-day should drop the surcharge")

	o.setPickupDate(o.pickupOptions[0])
	assert.Equal(t, Cents(6)*m.UnitPrice+m.SameDaySurcharge, o.Price(), "moving back to same-day should restore it")
}

func TestResetClearsSelections(t *testing.T) {
	o := newOrder(DefaultMenu(), clockAt(saturday))
	o.setQuantity(24)
	o.setFlavor("Red Velvet")
	o.setPickupDate(o.pickupOptions[0])

	o.reset()

	if o.Quantity() != 0 || o.Flavor() != "" || o.PickupDate() != "" {
		t.Errorf("expected cleared selections, got quantity=%d flavor=%q date=%q",
			o.Quantity(), o.Flavor(), o.PickupDate())
	}
	if o.Price() != 0 {
		t.Errorf("expected price $0.00 after reset, got %s", o.Price())
	}
	if o.Complete() {
		t.Error("reset order should not be complete")
	}
}

func TestResetIsIdempotent(t *testing.T) {
	o := newOrder(DefaultMenu(), clockAt(saturday))
	o.setQuantity(12)
	o.reset()
	first := snapshotOf(o)
	o.reset()
	second := snapshotOf(o)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two resets should land in the same state: %+v vs %+v", first, second)
	}
}

func TestResetRegeneratesOptionsFromClock(t *testing.T) {
	current := saturday
	o := newOrder(DefaultMenu(), func() time.Time { return current })
	if o.pickupOptions[0] != "Sat Jan 1" {
		t.Fatalf("expected options from the first day, got %q", o.pickupOptions[0])
	}

	// The kiosk runs overnight; the next reset must offer the new day.
	current = saturday.AddDate(0, 0, 1)
	o.reset()
	if o.pickupOptions[0] != "Sun Jan 2" {
		t.Errorf("expected options regenerated from the new day, got %q", o.pickupOptions[0])
	}
}

func TestCompleteRequiresAllThreeSelections(t *testing.T) {
	o := newOrder(DefaultMenu(), clockAt(saturday))
	assert.False(t, o.Complete())
	o.setQuantity(6)
	assert.False(t, o.Complete())
	o.setFlavor("Coffee")
	assert.False(t, o.Complete())
	o.setPickupDate(o.pickupOptions[1])
	assert.True(t, o.Complete())
}

func TestSummaryText(t *testing.T) {
	o := newOrder(DefaultMenu(), clockAt(saturday))
	o.setQuantity(12)
	o.setFlavor("Vanilla")
	o.setPickupDate(o.pickupOptions[1])

	expected := "Quantity: 12 cupcakes\n" +
		"Flavor: Vanilla\n" +
		"Pickup date: Sun Jan 2\n" +
		"Total: $24.00\n" +
		"Thank you!"
	if got := o.SummaryText(); got != expected {
		t.Errorf("expected summary:\n%s\ngot:\n%s", expected, got)
	}
}

func TestSummarySubject(t *testing.T) {
	o := newOrder(DefaultMenu(), clockAt(saturday))
	if got := o.SummarySubject(); got != "New Cupcake Order" {
		t.Errorf("expected %q, got %q", "New Cupcake Order", got)
	}
}

func TestOffMenuInputsPanic(t *testing.T) {
	o := newOrder(DefaultMenu(), clockAt(saturday))

	assert.Panics(t, func() { o.setQuantity(7) }, "quantity off the menu")
	assert.Panics(t, func() { o.setQuantity(0) }, "zero quantity")
	assert.Panics(t, func() { o.setFlavor("Pistachio") }, "flavor off the menu")
	assert.Panics(t, func() { o.setFlavor("") }, "empty flavor")
	assert.Panics(t, func() { o.setPickupDate("Fri Jan 7") }, "date past the offered window")
	assert.Panics(t, func() { o.setPickupDate("") }, "empty date")
}

func TestPanicMessagesNameTheInput(t *testing.T) {
	o := newOrder(DefaultMenu(), clockAt(saturday))
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("expected string panic, got %T", r)
		}
		if !strings.HasPrefix(msg, "cupcake:") || !strings.Contains(msg, "7") {
			t.Errorf("panic should carry package prefix and the bad value, got %q", msg)
		}
	}()
	o.setQuantity(7)
}

// snapshotOf captures the observable order fields for equality checks.
func snapshotOf(o *Order) map[string]any {
	return map[string]any{
		"quantity": o.Quantity(),
		"flavor":   o.Flavor(),
		"date":     o.PickupDate(),
		"options":  o.PickupOptions(),
		"price":    o.Price(),
	}
}
