package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// Server is the HTTP API front end over a SessionManager, grounded on the
// teacher's api/server.go route-table-plus-mux shape.
type Server struct {
	sessions    *SessionManager
	broadcaster *Broadcaster
	mux         *http.ServeMux
	httpServer  *http.Server
	addr        string
}

// NewServer builds a server listening on addr (host:port).
func NewServer(addr string) *Server {
	b := NewBroadcaster()
	s := &Server{
		sessions:    NewSessionManager(b),
		broadcaster: b,
		mux:         http.NewServeMux(),
		addr:        addr,
	}
	s.registerRoutes()
	return s
}

// Handler exposes the route mux directly, the seam httptest-based handler
// tests use without going through Start's real listener.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Broadcaster exposes the server's event fan-out, the same seam the
// teacher's GetBroadcaster gives integration tests to trigger events
// directly instead of driving a whole session to produce one.
func (s *Server) Broadcaster() *Broadcaster {
	return s.broadcaster
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/v1/sessions", s.handleSessions)
	s.mux.HandleFunc("/api/v1/sessions/", s.handleSessionRoute)
}

// Start runs the HTTP server until it errors or is shut down, matching
// the teacher's timeout choices in api/server.go.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server and disconnects WebSocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.broadcaster.Close()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSessions dispatches POST /api/v1/sessions.
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req SessionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := s.sessions.CreateSession(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, SessionCreateResponse{ID: session.ID})
}

// handleSessionRoute dispatches the /api/v1/sessions/{id}[/step|/run|/state|/ws]
// family, matching the teacher's single-handler-plus-suffix-switch style in
// api/server.go's handleSessionRoute.
func (s *Server) handleSessionRoute(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/sessions/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "missing session id")
		return
	}
	id := parts[0]
	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	session, err := s.sessions.GetSession(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	switch action {
	case "step":
		s.handleStep(w, r, session)
	case "run":
		s.handleRun(w, r, session)
	case "state":
		s.handleState(w, r, session)
	case "ws":
		s.handleWebSocket(w, r, session)
	default:
		writeError(w, http.StatusNotFound, "unknown session action")
	}
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request, session *Session) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session.mu.Lock()
	halted, err := session.Ctx.Step()
	line := session.Ctx.LineNo()
	session.mu.Unlock()

	s.broadcaster.BroadcastState(session.ID, halted, line)
	writeStepResponse(w, halted, line, err)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request, session *Session) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session.mu.Lock()
	err := session.Ctx.Run()
	line := session.Ctx.LineNo()
	session.mu.Unlock()

	s.broadcaster.BroadcastState(session.ID, true, line)
	writeStepResponse(w, true, line, err)
}

func writeStepResponse(w http.ResponseWriter, halted bool, line int, err error) {
	resp := StepResponse{Halted: halted, Line: line}
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request, session *Session) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	st := session.State
	snap := RegisterSnapshot{
		CR:   st.CR,
		XER:  st.XER,
		CTR:  st.CTR,
		LR:   st.LR,
		Line: session.Ctx.LineNo(),
	}
	for i := 0; i < 32; i++ {
		snap.GPR[i] = st.Gpr(i).U32()
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
