package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	cupcake "github.com/ranjanproject/composenavigation"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The kiosk front-end is served by this same process; allow
		// all origins so LAN access works without extra setup.
		return true
	},
}

// Message types pushed to the client. Every outbound frame is a
// serverMessage envelope carrying one of these payloads.
const (
	msgState = "state" // wizard snapshot, sent after every event
	msgMenu  = "menu"  // the menu this session is ordering from
	msgShare = "share" // finished order summary, ready to hand off
	msgError = "error" // a rejected client action
)

// clientMessage is the envelope for every frame a client sends.
type clientMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// serverMessage is the envelope for every frame pushed to a client.
type serverMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// statePayload is the wizard snapshot plus the formatted price shown in
// the kiosk header.
type statePayload struct {
	cupcake.Snapshot
	PriceText string `json:"priceText"`
}

// sharePayload carries a finished order to the client for hand-off.
type sharePayload struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// errorPayload tells the client why an action was rejected.
type errorPayload struct {
	Message string `json:"message"`
}

// session is one kiosk screen: a WebSocket connection paired with its
// own ordering wizard. Client frames are untrusted, so every action is
// validated here before it reaches the wizard.
type session struct {
	id     string
	server *Server
	conn   *websocket.Conn

	// mu guards wizard and pending. The read loop and menu broadcasts
	// both mutate session state.
	mu      sync.Mutex
	wizard  *cupcake.Wizard
	pending *cupcake.Menu // menu swap deferred until the order finishes

	// writeMu serializes writes: wizard notifications and menu
	// broadcasts can push frames from different goroutines.
	writeMu sync.Mutex

	limiter *rate.Limiter
	debug   bool
}

// handleWS upgrades the connection and runs the session until the
// client disconnects.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}

	sess := &session{
		id:     uuid.NewString(),
		server: s,
		conn:   conn,
		limiter: rate.NewLimiter(
			rate.Limit(s.cfg.Features.GetRateLimitRPS()),
			s.cfg.Features.GetRateLimitBurst()),
		debug: s.cfg.Server.Debug,
	}
	sess.swapWizard(s.menus.Menu())

	defer func() {
		s.unregister(sess)
		conn.Close()
	}()
	s.register(sess)

	sess.run()
}

// short returns the first uuid block, enough to tell sessions apart in
// the logs.
func (s *session) short() string {
	if len(s.id) < 8 {
		return s.id
	}
	return s.id[:8]
}

// swapWizard replaces the session's wizard with a fresh one built from
// the given menu. The session subscribes to it so every wizard event
// pushes a state frame, and acts as its exporter so Send hands the
// summary back to the client.
func (s *session) swapWizard(m *cupcake.Menu) {
	w := cupcake.New(m, cupcake.WithExporter(s))
	w.Subscribe(func() { s.sendState(w) })
	s.wizard = w
}

// run sends the opening handshake and then reads client frames until
// the connection drops.
func (s *session) run() {
	s.mu.Lock()
	s.sendMenu(s.wizard.Menu())
	s.sendState(s.wizard)
	s.mu.Unlock()

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Session %s read error: %v", s.short(), err)
			}
			return
		}
		s.handleMessage(raw)
	}
}

// handleMessage decodes and dispatches one client frame.
func (s *session) handleMessage(raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.sendError("message is not valid JSON")
		return
	}

	if !s.limiter.Allow() {
		s.sendError("too many actions, slow down")
		return
	}

	if s.debug {
		log.Printf("[WS] Session %s action: %s", s.short(), msg.Action)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatch(msg)
	s.settleMenu()
}

// dispatch validates a client action against what the wizard currently
// offers and forwards it. Anything off-script is answered with an error
// frame and a state frame so the client can re-sync.
func (s *session) dispatch(msg clientMessage) {
	w := s.wizard
	snap := w.Snapshot()
	m := w.Menu()

	switch msg.Action {
	case "selectQuantity":
		var data struct {
			Quantity int `json:"quantity"`
		}
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			s.reject(w, "selectQuantity needs a quantity")
			return
		}
		if snap.Step != cupcake.StepStart {
			s.reject(w, "quantity is chosen on the start screen")
			return
		}
		if !m.AllowsQuantity(data.Quantity) {
			s.reject(w, fmt.Sprintf("%d is not a box size on the menu", data.Quantity))
			return
		}
		w.SelectQuantity(data.Quantity)

	case "selectFlavor":
		var data struct {
			Flavor string `json:"flavor"`
		}
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			s.reject(w, "selectFlavor needs a flavor")
			return
		}
		if snap.Step != cupcake.StepFlavor {
			s.reject(w, "flavor is chosen on the flavor screen")
			return
		}
		if !m.HasFlavor(data.Flavor) {
			s.reject(w, fmt.Sprintf("%q is not a flavor on the menu", data.Flavor))
			return
		}
		w.SelectFlavor(data.Flavor)

	case "selectDate":
		var data struct {
			Date string `json:"date"`
		}
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			s.reject(w, "selectDate needs a date")
			return
		}
		if snap.Step != cupcake.StepPickup {
			s.reject(w, "pickup date is chosen on the pickup screen")
			return
		}
		if !contains(snap.PickupOptions, data.Date) {
			s.reject(w, fmt.Sprintf("%q is not an offered pickup date", data.Date))
			return
		}
		w.SelectPickupDate(data.Date)

	case "next":
		switch snap.Step {
		case cupcake.StepFlavor:
			if snap.Flavor == "" {
				s.reject(w, "pick a flavor first")
				return
			}
		case cupcake.StepPickup:
			if snap.PickupDate == "" {
				s.reject(w, "pick a pickup date first")
				return
			}
		default:
			s.reject(w, "nothing to advance to")
			return
		}
		w.Next()

	case "back":
		if !snap.CanGoBack {
			s.reject(w, "already at the start")
			return
		}
		w.Back()

	case "cancel":
		if snap.Step == cupcake.StepStart {
			s.reject(w, "no order to cancel")
			return
		}
		w.Cancel()

	case "send":
		if snap.Step != cupcake.StepSummary || !snap.Complete {
			s.reject(w, "the order is not ready to send")
			return
		}
		w.Send()

	default:
		s.reject(w, fmt.Sprintf("unknown action %q", msg.Action))
	}
}

// settleMenu swaps in a pending menu once the session is idle on the
// start screen again. Called after every dispatch with mu held.
func (s *session) settleMenu() {
	if s.pending == nil {
		return
	}

	snap := s.wizard.Snapshot()
	if snap.Step != cupcake.StepStart || snap.Quantity != 0 {
		return
	}

	m := s.pending
	s.pending = nil
	s.swapWizard(m)
	s.sendMenu(m)
	s.sendState(s.wizard)
}

// applyMenu is called on a menu broadcast. Idle sessions pick the menu
// up immediately; busy ones keep it pending so a running order is never
// disturbed.
func (s *session) applyMenu(m *cupcake.Menu) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = m
	s.settleMenu()
}

// reject answers an invalid action with the reason and a fresh state
// frame so a confused client recovers on its own.
func (s *session) reject(w *cupcake.Wizard, message string) {
	if s.debug {
		log.Printf("[WS] Session %s rejected: %s", s.short(), message)
	}
	s.sendError(message)
	s.sendState(w)
}

// Share implements cupcake.Exporter: a sent order is logged for the
// bakery and pushed to the client for hand-off.
func (s *session) Share(subject, body string) {
	log.Printf("[Order] Session %s placed an order:\n%s", s.short(), body)
	s.send(msgShare, sharePayload{Subject: subject, Body: body})
}

func (s *session) sendState(w *cupcake.Wizard) {
	snap := w.Snapshot()
	s.send(msgState, statePayload{Snapshot: snap, PriceText: snap.Price.String()})
}

func (s *session) sendMenu(m *cupcake.Menu) {
	s.send(msgMenu, buildMenuPayload(m))
}

func (s *session) sendError(message string) {
	s.send(msgError, errorPayload{Message: message})
}

// send marshals a payload into the envelope and writes it out.
func (s *session) send(typ string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[WS] Session %s: failed to marshal %s payload: %v", s.short(), typ, err)
		return
	}
	frame, err := json.Marshal(serverMessage{Type: typ, Data: data})
	if err != nil {
		log.Printf("[WS] Session %s: failed to marshal envelope: %v", s.short(), err)
		return
	}

	s.writeMu.Lock()
	err = s.conn.WriteMessage(websocket.TextMessage, frame)
	s.writeMu.Unlock()

	if err != nil && s.debug {
		log.Printf("[WS] Session %s write failed: %v", s.short(), err)
	}
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
