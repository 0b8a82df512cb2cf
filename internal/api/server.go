package api

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/neo/guestbook/internal/clock"
	"github.com/neo/guestbook/internal/db"
	"github.com/neo/guestbook/internal/ratelimit"
	"github.com/neo/guestbook/internal/web"
)

type ServerConfig struct {
	Store      *db.Store
	Clock      clock.Clock
	Limiter    *ratelimit.PerKey
	AdminToken string
	CORSOrigin string
	Logger     *log.Logger
}

type Server struct {
	store      *db.Store
	clock      clock.Clock
	limiter    *ratelimit.PerKey
	admin      adminGate
	corsOrigin string
	logger     *log.Logger
}

func NewServer(cfg ServerConfig) *Server {
	origin := cfg.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	s := &Server{
		store:      cfg.Store,
		clock:      cfg.Clock,
		limiter:    cfg.Limiter,
		corsOrigin: origin,
		logger:     cfg.Logger,
	}
	if cfg.AdminToken != "" {
		s.admin = adminGate{enabled: true, token: cfg.AdminToken}
	}
	return s
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/register", s.handleRegister)
	mux.HandleFunc("/visitors", s.handleListPublic)
	// Admin routes exist on the mux only when a token was configured;
	// without one they 404 like any other unknown path.
	if s.admin.enabled {
		mux.Handle("/admin/visitors", s.admin.require(http.HandlerFunc(s.handleAdminList)))
		mux.Handle("/admin/visitors/", s.admin.require(http.HandlerFunc(s.handleAdminDelete)))
	}
	mux.Handle("/", web.Handler())
	return requestID(s.logRequests(s.cors(mux)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountVisitors(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "visitors": count})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	addr := clientAddr(r)
	if !s.limiter.Allow(limiterKey(addr)) {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		return
	}
	var req struct {
		Nick  string  `json:"nick"`
		Group *string `json:"group"`
		Email *string `json:"email"`
		Extra *string `json:"extra"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Nick == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "nick is required"})
		return
	}
	_, err := s.store.InsertVisitor(r.Context(), db.InsertVisitorParams{
		CreatedAt: s.clock.Now(),
		IP:        addr,
		Nick:      req.Nick,
		Group:     req.Group,
		Email:     req.Email,
		Extra:     req.Extra,
	})
	if err != nil {
		var dup *db.DuplicateNickError
		if errors.As(err, &dup) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": dup.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleListPublic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	visitors, err := s.store.ListPublicVisitors(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if visitors == nil {
		visitors = []db.PublicVisitor{}
	}
	writeJSON(w, http.StatusOK, visitors)
}

// clientAddr resolves the address a registration is recorded under: the
// first X-Forwarded-For value when a proxy supplied one, else the socket
// peer.
func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	return r.RemoteAddr
}

// limiterKey strips the port so one client is not split across ephemeral
// ports.
func limiterKey(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
