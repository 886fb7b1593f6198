package cupcake

import (
	"fmt"
	"strings"
	"time"
)

// pickupDateFormat produces the short labels the kiosk shows and stores,
// e.g. "Tue Aug 25". Dates stay strings once formatted; equality against
// the published options is the only operation ever done on them.
const pickupDateFormat = "Mon Jan 2"

// summarySubject is the share sheet subject line for a finished order.
const summarySubject = "New Cupcake Order"

// Order is the single in-progress order: the customer's selections plus the
// price and pickup options derived from them. Mutations live on unexported
// methods so that the Wizard stays the only writer; readers get copies.
type Order struct {
	menu *Menu
	now  func() time.Time

	quantity      int
	flavor        string
	pickupDate    string
	pickupOptions []string
	price         Cents
}

func newOrder(menu *Menu, now func() time.Time) *Order {
	o := &Order{menu: menu, now: now}
	o.reset()
	return o
}

// reset clears every selection and regenerates the pickup options from the
// current day, so a kiosk left running overnight offers fresh dates to the
// next customer.
func (o *Order) reset() {
	o.pickupOptions = pickupDates(o.now(), o.menu.PickupDays)
	o.quantity = 0
	o.flavor = ""
	o.pickupDate = ""
	o.reprice()
}

func (o *Order) setQuantity(n int) {
	if !o.menu.AllowsQuantity(n) {
		panic(fmt.Sprintf("cupcake: quantity %d is not on the menu", n))
	}
	o.quantity = n
	o.reprice()
}

func (o *Order) setFlavor(name string) {
	if !o.menu.HasFlavor(name) {
		panic(fmt.Sprintf("cupcake: flavor %q is not on the menu", name))
	}
	o.flavor = name
}

func (o *Order) setPickupDate(date string) {
	if !o.offersDate(date) {
		panic(fmt.Sprintf("cupcake: pickup date %q is not offered", date))
	}
	o.pickupDate = date
	o.reprice()
}

func (o *Order) offersDate(date string) bool {
	for _, d := range o.pickupOptions {
		if d == date {
			return true
		}
	}
	return false
}

// reprice is the single place the price is derived, keeping it consistent
// with quantity and pickup date after every mutation.
func (o *Order) reprice() {
	total := Cents(o.quantity) * o.menu.UnitPrice
	if o.pickupDate != "" && o.pickupDate == o.pickupOptions[0] {
		total += o.menu.SameDaySurcharge
	}
	o.price = total
}

// Quantity returns the selected box size, 0 before a selection.
func (o *Order) Quantity() int { return o.quantity }

// Flavor returns the selected flavor name, "" before a selection.
func (o *Order) Flavor() string { return o.flavor }

// PickupDate returns the selected pickup date label, "" before a selection.
func (o *Order) PickupDate() string { return o.pickupDate }

// PickupOptions returns the offered pickup date labels, earliest first.
func (o *Order) PickupOptions() []string {
	return append([]string(nil), o.pickupOptions...)
}

// Price returns the running total for the current selections.
func (o *Order) Price() Cents { return o.price }

// Complete reports whether every selection has been made.
func (o *Order) Complete() bool {
	return o.quantity != 0 && o.flavor != "" && o.pickupDate != ""
}

// SummarySubject is the subject line handed to the exporter.
func (o *Order) SummarySubject() string { return summarySubject }

// SummaryText renders the order for the share handoff. It is a projection
// for humans; nothing parses it back.
func (o *Order) SummaryText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Quantity: %d cupcakes\n", o.quantity)
	fmt.Fprintf(&b, "Flavor: %s\n", o.flavor)
	fmt.Fprintf(&b, "Pickup date: %s\n", o.pickupDate)
	fmt.Fprintf(&b, "Total: %s\n", o.price)
	b.WriteString("Thank you!")
	return b.String()
}

// pickupDates returns n consecutive calendar-day labels starting at today
// in now's location.
func pickupDates(now time.Time, n int) []string {
	opts := make([]string, n)
	for i := range opts {
		opts[i] = now.AddDate(0, 0, i).Format(pickupDateFormat)
	}
	return opts
}
