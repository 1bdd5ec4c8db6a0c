package web

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/flashbot/internal/review"
	"github.com/example/flashbot/internal/scheduler"
)

// Server exposes the review flow over JSON endpoints. Rendering,
// sessions and authentication live in the outer layers; the server only
// wires HTTP requests onto the review service.
type Server struct {
	reviews *review.Service
	sched   *scheduler.Scheduler
	secret  string // Shared secret gating the scheduler trigger
	router  *http.ServeMux
}

// NewServer creates and configures a new server. sched may be nil when
// notifications are disabled.
func NewServer(reviews *review.Service, sched *scheduler.Scheduler, secret string) *Server {
	s := &Server{
		reviews: reviews,
		sched:   sched,
		secret:  secret,
		router:  http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	s.router.HandleFunc("/review/next", s.handleNextCard)
	s.router.HandleFunc("/review/random", s.handleRandomCard)
	s.router.HandleFunc("/review/stats", s.handleStats)
	s.router.HandleFunc("/review/", s.handleSubmitOutcome)
	s.router.HandleFunc("/api/trigger-scheduler", s.handleTriggerScheduler)
}

// handleNextCard returns the next due card and the owner's stats, or a
// null card when nothing is due
func (s *Server) handleNextCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	item, err := s.reviews.NextCard(r.Context(), userID)
	if err != nil {
		log.Printf("Error selecting next card: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleSubmitOutcome records the outcome of one presented card:
// POST /review/{id} with a "status" form field
func (s *Server) handleSubmitOutcome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	cardID, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/review/"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid card ID", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	outcome, err := review.ParseOutcome(r.PostFormValue("status"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.reviews.SubmitOutcome(r.Context(), userID, cardID, outcome); err != nil {
		if errors.Is(err, review.ErrInvalidOutcome) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error submitting outcome: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleRandomCard returns an arbitrary card for ad-hoc recall
func (s *Server) handleRandomCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	card, err := s.reviews.RandomCard(r.Context(), userID)
	if err != nil {
		log.Printf("Error selecting random card: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// handleStats returns the owner's due/new/total counts
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	stats, err := s.reviews.Stats(r.Context(), userID)
	if err != nil {
		log.Printf("Error loading stats: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleTriggerScheduler runs the due-card notification check across
// all owners. Gated by a shared secret so only the external cron can
// trigger it.
func (s *Server) handleTriggerScheduler(w http.ResponseWriter, r *http.Request) {
	if s.sched == nil {
		http.Error(w, "Scheduler is disabled", http.StatusServiceUnavailable)
		return
	}

	secret := r.URL.Query().Get("secret")
	if s.secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(s.secret)) != 1 {
		http.Error(w, "Invalid secret key", http.StatusForbidden)
		return
	}

	if err := s.sched.RunCheck(r.Context()); err != nil {
		log.Printf("Error running scheduler check: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// ownerFromRequest parses the owner identifier from the "user" query
// parameter. Resolving the identifier from a real session is the outer
// layer's job.
func ownerFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user"), 10, 64)
	if err != nil || userID <= 0 {
		http.Error(w, "Missing or invalid user", http.StatusBadRequest)
		return 0, false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
