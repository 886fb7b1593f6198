package server

import (
	"bytes"
	"encoding/json"
	"html"
	"log"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	cupcake "github.com/ranjanproject/composenavigation"
)

// menuPayload is the JSON shape of the menu, shared by the REST
// endpoint and the WebSocket menu frame.
type menuPayload struct {
	Quantities       []int           `json:"quantities"`
	Flavors          []flavorPayload `json:"flavors"`
	UnitPrice        string          `json:"unitPrice"`
	SameDaySurcharge string          `json:"sameDaySurcharge"`
	PickupDays       int             `json:"pickupDays"`
}

type flavorPayload struct {
	Name            string `json:"name"`
	DescriptionHTML string `json:"descriptionHtml"`
}

// descriptionMD renders flavor descriptions. Bakeries write them in
// markdown, so *seasonal* and **back by popular demand** come out
// styled on the kiosk.
var descriptionMD = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

func renderDescription(text string) string {
	var buf bytes.Buffer
	if err := descriptionMD.Convert([]byte(text), &buf); err != nil {
		return "<p>" + html.EscapeString(text) + "</p>"
	}
	return buf.String()
}

func buildMenuPayload(m *cupcake.Menu) menuPayload {
	flavors := make([]flavorPayload, len(m.Flavors))
	for i, f := range m.Flavors {
		flavors[i] = flavorPayload{
			Name:            f.Name,
			DescriptionHTML: renderDescription(f.Description),
		}
	}
	return menuPayload{
		Quantities:       append([]int(nil), m.Quantities...),
		Flavors:          flavors,
		UnitPrice:        m.UnitPrice.String(),
		SameDaySurcharge: m.SameDaySurcharge.String(),
		PickupDays:       m.PickupDays,
	}
}

// handleMenuAPI serves the current menu as JSON. The endpoint is
// read-only: orders only ever flow through the WebSocket wizard.
func (s *Server) handleMenuAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, buildMenuPayload(s.menus.Menu()))
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[API] Error encoding JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		log.Printf("[API] Error encoding error response: %v", err)
	}
}
