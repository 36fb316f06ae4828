package api

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/lookbusy1344/ppc-interp/internal/cpu"
	"github.com/lookbusy1344/ppc-interp/internal/interp"
	"github.com/lookbusy1344/ppc-interp/loader"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// memoryBaseAddress is where a posted memory image is preloaded, matching
// the flat address space's mapped region floor (see internal/cpu.Memory).
const memoryBaseAddress = 0x80000000

// Session is one interactive interpreter session: its own Context,
// register file, and memory, wrapping them the way the teacher's
// api.Session wraps a private vm.VM. Concurrent HTTP requests can reach
// the same Session, so the step/run/state handlers hold its mu while they
// use it; the SessionManager's map is guarded by the manager's own mutex.
type Session struct {
	ID        string
	Ctx       *interp.Context
	State     *cpu.State
	CreatedAt time.Time

	mu sync.Mutex
}

// SessionManager owns the set of active sessions, grounded on the
// teacher's api/session_manager.go.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	broadcaster *Broadcaster
}

// NewSessionManager returns an empty session manager broadcasting events
// through b.
func NewSessionManager(b *Broadcaster) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		broadcaster: b,
	}
}

// CreateSession builds a fresh Context over req.Source, optionally
// preloading req.MemoryImage (base64) at memoryBaseAddress.
func (sm *SessionManager) CreateSession(req SessionCreateRequest) (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	state := cpu.NewState()
	mem := cpu.NewMemory(cpu.DefaultMemorySize)

	if req.MemoryImage != "" {
		data, err := base64.StdEncoding.DecodeString(req.MemoryImage)
		if err != nil {
			return nil, err
		}
		if err := loader.LoadBytes(mem, data, memoryBaseAddress); err != nil {
			return nil, err
		}
	}

	out := newEventWriter(sm.broadcaster, id)
	ctx := interp.NewContext(req.Source, state, mem, out)

	session := &Session{
		ID:        id,
		Ctx:       ctx,
		State:     state,
		CreatedAt: time.Now(),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, exists := sm.sessions[id]; exists {
		return nil, ErrSessionAlreadyExists
	}
	sm.sessions[id] = session
	return session, nil
}

// GetSession looks up a session by ID.
func (sm *SessionManager) GetSession(id string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// DestroySession removes a session by ID.
func (sm *SessionManager) DestroySession(id string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, ok := sm.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(sm.sessions, id)
	return nil
}

// ListSessions returns every active session ID.
func (sm *SessionManager) ListSessions() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	return ids
}

func generateSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
