package admin

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"dataops-idle/internal/game"
	"dataops-idle/internal/sim"
)

type Server struct {
	Sim *sim.Simulator
	tpl *template.Template
}

//go:embed templates/index.html
var content embed.FS

func NewServer(simulator *sim.Simulator) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{Sim: simulator, tpl: tpl}
}

func (s *Server) routes() {
	http.HandleFunc("/", s.handleIndex)
	http.HandleFunc("/state", s.handleState)
	http.HandleFunc("/portfolio", s.handlePortfolio)
	http.HandleFunc("/hire-staff", s.handleHireStaff)
	http.HandleFunc("/toggle-maintenance", s.handleToggleMaintenance)
	http.HandleFunc("/prestige", s.handlePrestige)
}

func (s *Server) Start(addr string) error {
	s.routes()
	return http.ListenAndServe(addr, nil)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	dc, lifetime := s.Sim.Balance()
	data := struct {
		DC          float64
		LifetimeDC  float64
		GlobalSLA   float64
		Rate        float64
		Health      sim.DatasetHealth
		Paused      bool
		ActiveEvent *game.GameEvent
	}{
		DC:          dc,
		LifetimeDC:  lifetime,
		GlobalSLA:   s.Sim.GlobalSLA(),
		Rate:        s.Sim.TotalRate(),
		Health:      s.Sim.Health(),
		Paused:      s.Sim.ActiveEvent() != nil,
		ActiveEvent: s.Sim.ActiveEvent(),
	}
	s.tpl.Execute(w, data)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	dc, lifetime := s.Sim.Balance()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"dc":         dc,
		"lifetimeDc": lifetime,
		"globalSla":  s.Sim.GlobalSLA(),
		"rate":       s.Sim.TotalRate(),
		"health":     s.Sim.Health(),
		"paused":     s.Sim.ActiveEvent() != nil,
	})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.Snapshot())
}

func (s *Server) handleHireStaff(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	hired := id != "" && s.Sim.HireStaff(id)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"hired": hired, "id": id})
}

func (s *Server) handleToggleMaintenance(w http.ResponseWriter, r *http.Request) {
	var active bool
	if s.Sim.ActiveEvent() != nil {
		s.Sim.ClearEvent()
	} else {
		id := r.URL.Query().Get("id")
		if id == "" {
			id = "ev-maintenance"
		}
		active = s.Sim.TriggerEvent(id)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"maintenance": active})
}

func (s *Server) handlePrestige(w http.ResponseWriter, r *http.Request) {
	ok := s.Sim.Prestige()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"prestiged": ok})
}
