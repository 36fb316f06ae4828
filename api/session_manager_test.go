package api_test

import (
	"testing"

	"github.com/lookbusy1344/ppc-interp/api"
	_ "github.com/lookbusy1344/ppc-interp/internal/instr"
)

func TestSessionManager_CreateAndGet(t *testing.T) {
	sm := api.NewSessionManager(api.NewBroadcaster())

	session, err := sm.CreateSession(api.SessionCreateRequest{Source: "addi r1,r0,1\n.exit\n"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.ID == "" {
		t.Fatal("expected non-empty session ID")
	}

	got, err := sm.GetSession(session.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != session.ID {
		t.Errorf("got session %q, want %q", got.ID, session.ID)
	}
}

func TestSessionManager_GetUnknownSessionErrors(t *testing.T) {
	sm := api.NewSessionManager(api.NewBroadcaster())
	if _, err := sm.GetSession("nonexistent"); err != api.ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionManager_DestroySession(t *testing.T) {
	sm := api.NewSessionManager(api.NewBroadcaster())
	session, err := sm.CreateSession(api.SessionCreateRequest{Source: ".exit\n"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := sm.DestroySession(session.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := sm.GetSession(session.ID); err != api.ErrSessionNotFound {
		t.Errorf("expected session to be gone, got err=%v", err)
	}
	if err := sm.DestroySession(session.ID); err != api.ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound on double-destroy, got %v", err)
	}
}

func TestSessionManager_ListSessions(t *testing.T) {
	sm := api.NewSessionManager(api.NewBroadcaster())
	a, err := sm.CreateSession(api.SessionCreateRequest{Source: ".exit\n"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := sm.CreateSession(api.SessionCreateRequest{Source: ".exit\n"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := sm.ListSessions()
	if len(ids) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(ids))
	}
	seen := map[string]bool{ids[0]: true, ids[1]: true}
	if !seen[a.ID] || !seen[b.ID] {
		t.Errorf("expected both session IDs listed, got %+v", ids)
	}
}

func TestSessionManager_CreateWithMemoryImagePreloadsBytes(t *testing.T) {
	sm := api.NewSessionManager(api.NewBroadcaster())
	// base64 of 0xDEADBEEF, preloaded at the mapped memory base
	session, err := sm.CreateSession(api.SessionCreateRequest{
		Source:      ".exit\n",
		MemoryImage: "3q2+7w==",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := session.Ctx.Memory().Lwz(0x80000000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0xDEADBEEF {
		t.Errorf("got %#x, want 0xdeadbeef", got)
	}
}

func TestSessionManager_CreateWithInvalidMemoryImageErrors(t *testing.T) {
	sm := api.NewSessionManager(api.NewBroadcaster())
	if _, err := sm.CreateSession(api.SessionCreateRequest{
		Source:      ".exit\n",
		MemoryImage: "not-valid-base64!!",
	}); err == nil {
		t.Error("expected error for invalid base64 memory image")
	}
}

func TestSessionManager_StepRunsOneLine(t *testing.T) {
	sm := api.NewSessionManager(api.NewBroadcaster())
	session, err := sm.CreateSession(api.SessionCreateRequest{Source: "addi r1,r0,9\n.exit\n"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	halted, err := session.Ctx.Step()
	if err != nil || halted {
		t.Fatalf("unexpected step result: halted=%v err=%v", halted, err)
	}
	if session.State.Gpr(1).S32() != 9 {
		t.Errorf("expected r1=9, got %d", session.State.Gpr(1).S32())
	}
}
