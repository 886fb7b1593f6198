package cupcake

import (
	"fmt"
	"time"
)

// Step identifies one screen of the linear order flow.
type Step int

const (
	StepStart Step = iota
	StepFlavor
	StepPickup
	StepSummary
)

var stepNames = map[Step]string{
	StepStart:   "start",
	StepFlavor:  "flavor",
	StepPickup:  "pickup",
	StepSummary: "summary",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// MarshalText makes steps appear as their lower-case names in JSON payloads.
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a step name written by MarshalText.
func (s *Step) UnmarshalText(text []byte) error {
	for step, name := range stepNames {
		if name == string(text) {
			*s = step
			return nil
		}
	}
	return fmt.Errorf("unknown step %q", text)
}

// nextStep is the forward edge walked by Next. StepStart is absent because
// the quantity selection itself advances, and StepSummary only leaves
// through Send or Cancel.
var nextStep = map[Step]Step{
	StepFlavor: StepPickup,
	StepPickup: StepSummary,
}

// prevStep is the single-step back edge. Back pops one step and keeps the
// order; Cancel is the one that discards it.
var prevStep = map[Step]Step{
	StepFlavor:  StepStart,
	StepPickup:  StepFlavor,
	StepSummary: StepPickup,
}

// Exporter receives a finished order summary. Implementations hand it to
// whatever share mechanism the platform has; the wizard neither waits on
// nor observes the outcome.
type Exporter interface {
	Share(subject, body string)
}

// ExporterFunc adapts a plain function to the Exporter interface.
type ExporterFunc func(subject, body string)

// Share calls f.
func (f ExporterFunc) Share(subject, body string) { f(subject, body) }

// Wizard owns one order and the current position in the flow. It is the
// only writer of its order, and it is not safe for concurrent use: events
// must arrive one at a time, which a UI event loop or a per-session
// websocket reader already guarantees.
type Wizard struct {
	menu      *Menu
	order     *Order
	step      Step
	exporter  Exporter
	listeners []func()
	now       func() time.Time
}

// Option configures a Wizard at creation.
type Option func(*Wizard)

// WithExporter sets the collaborator that receives the summary on Send.
// Without one, Send still completes and the summary is dropped.
func WithExporter(e Exporter) Option {
	return func(w *Wizard) { w.exporter = e }
}

// WithClock fixes the time source used to derive pickup options. The
// default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

// New returns a wizard at the start step with a fresh order. The menu must
// be valid; New panics otherwise, because a kiosk with nothing to offer
// cannot run at all.
func New(menu *Menu, opts ...Option) *Wizard {
	if menu == nil {
		panic("cupcake: nil menu")
	}
	if err := menu.Validate(); err != nil {
		panic(fmt.Sprintf("cupcake: invalid menu: %v", err))
	}
	w := &Wizard{menu: menu, step: StepStart, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	w.order = newOrder(menu, w.now)
	return w
}

// Subscribe registers fn to run after every state change. Notification is
// synchronous and in registration order; subscribers pull Snapshot from
// inside fn rather than receiving state as an argument.
func (w *Wizard) Subscribe(fn func()) {
	w.listeners = append(w.listeners, fn)
}

func (w *Wizard) notify() {
	for _, fn := range w.listeners {
		fn()
	}
}

// CurrentStep returns the step the flow is on.
func (w *Wizard) CurrentStep() Step { return w.step }

// CanGoBack reports whether Back is offered, i.e. the flow is past the
// start step.
func (w *Wizard) CanGoBack() bool { return w.step != StepStart }

// Menu returns the option source captured at creation.
func (w *Wizard) Menu() *Menu { return w.menu }

// Order returns the in-progress order for reading.
func (w *Wizard) Order() *Order { return w.order }

// SelectQuantity records the box size and advances to the flavor step. It
// is the one event that both selects and advances; the start screen's
// quantity buttons fire a single tap and there is nothing else to choose
// there.
func (w *Wizard) SelectQuantity(n int) {
	w.mustBeAt(StepStart, "SelectQuantity")
	w.order.setQuantity(n)
	w.step = StepFlavor
	w.notify()
}

// SelectFlavor records the flavor. The flow stays on the flavor step so the
// customer can change their mind before Next.
func (w *Wizard) SelectFlavor(name string) {
	w.mustBeAt(StepFlavor, "SelectFlavor")
	w.order.setFlavor(name)
	w.notify()
}

// SelectPickupDate records the pickup date; same-day pickup is repriced
// immediately so the customer sees the surcharge before committing.
func (w *Wizard) SelectPickupDate(date string) {
	w.mustBeAt(StepPickup, "SelectPickupDate")
	w.order.setPickupDate(date)
	w.notify()
}

// Next advances from a selection step once its selection is made.
func (w *Wizard) Next() {
	to, ok := nextStep[w.step]
	if !ok {
		panic(fmt.Sprintf("cupcake: Next is not offered at step %s", w.step))
	}
	if !w.stepComplete(w.step) {
		panic(fmt.Sprintf("cupcake: Next at step %s before a selection was made", w.step))
	}
	w.step = to
	w.notify()
}

// Back pops one step and keeps the order as it stands.
func (w *Wizard) Back() {
	to, ok := prevStep[w.step]
	if !ok {
		panic("cupcake: Back is not offered at the start step")
	}
	w.step = to
	w.notify()
}

// Cancel abandons the order from any step past the start: the order resets
// and the flow returns to the start step.
func (w *Wizard) Cancel() {
	if w.step == StepStart {
		panic("cupcake: Cancel is not offered at the start step")
	}
	w.restart()
}

// Send hands the summary to the exporter and begins a new order. The export
// is fire and forget: the kiosk is ready for the next customer as soon as
// Send returns, whatever the share mechanism does with the text.
func (w *Wizard) Send() {
	w.mustBeAt(StepSummary, "Send")
	if !w.order.Complete() {
		panic("cupcake: Send with an incomplete order")
	}
	if w.exporter != nil {
		w.exporter.Share(w.order.SummarySubject(), w.order.SummaryText())
	}
	w.restart()
}

func (w *Wizard) restart() {
	w.order.reset()
	w.step = StepStart
	w.notify()
}

func (w *Wizard) mustBeAt(step Step, event string) {
	if w.step != step {
		panic(fmt.Sprintf("cupcake: %s at step %s, offered only at %s", event, w.step, step))
	}
}

// stepComplete reports whether the selection belonging to step has been
// made. Steps without a selection of their own count as complete.
func (w *Wizard) stepComplete(step Step) bool {
	switch step {
	case StepStart:
		return w.order.quantity != 0
	case StepFlavor:
		return w.order.flavor != ""
	case StepPickup:
		return w.order.pickupDate != ""
	default:
		return true
	}
}

// Snapshot is the read model a renderer pulls after a change notification.
// Price is in cents; PickupOptions is a copy the caller may keep.
type Snapshot struct {
	Step          Step     `json:"step"`
	CanGoBack     bool     `json:"canGoBack"`
	Quantity      int      `json:"quantity"`
	Flavor        string   `json:"flavor"`
	PickupDate    string   `json:"pickupDate"`
	PickupOptions []string `json:"pickupOptions"`
	Price         Cents    `json:"price"`
	Complete      bool     `json:"complete"`
}

// Snapshot returns a copy of everything a renderer needs to draw the
// current step.
func (w *Wizard) Snapshot() Snapshot {
	return Snapshot{
		Step:          w.step,
		CanGoBack:     w.CanGoBack(),
		Quantity:      w.order.quantity,
		Flavor:        w.order.flavor,
		PickupDate:    w.order.pickupDate,
		PickupOptions: w.order.PickupOptions(),
		Price:         w.order.price,
		Complete:      w.order.Complete(),
	}
}
