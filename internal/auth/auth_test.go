package auth

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("segredo-da-api"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestAdminFromTokenReadsClaimsWithoutKey(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"adminLogadoId": float64(4), "adminLogadoNome": "Marina"})
	admin, err := AdminFromToken(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if admin.ID != "4" || admin.Nome != "Marina" {
		t.Fatalf("unexpected admin %+v", admin)
	}
	if admin.Rotulo() != "Marina" {
		t.Errorf("unexpected label %q", admin.Rotulo())
	}
}

func TestAdminFromTokenFallbacks(t *testing.T) {
	admin, err := AdminFromToken(signed(t, jwt.MapClaims{"email": "a@revenda.com"}))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if admin.Rotulo() != "a@revenda.com" {
		t.Errorf("expected email label, got %q", admin.Rotulo())
	}
	if _, err := AdminFromToken("lixo"); err == nil {
		t.Errorf("expected error for malformed token")
	}
	if _, err := AdminFromToken(""); err == nil {
		t.Errorf("expected error for empty token")
	}
}

func TestFingerprintIsStableAndShort(t *testing.T) {
	a := Fingerprint("abc")
	if len(a) != 16 {
		t.Fatalf("expected 16 hex chars, got %q", a)
	}
	if a != Fingerprint("abc") {
		t.Errorf("fingerprint not stable")
	}
	if a == Fingerprint("abd") {
		t.Errorf("different tokens share fingerprint")
	}
	if Fingerprint("") != "" {
		t.Errorf("empty token should have empty fingerprint")
	}
}

func TestActorContext(t *testing.T) {
	if _, ok := ActorFrom(context.Background()); ok {
		t.Fatalf("expected no actor")
	}
	ctx := WithActor(context.Background(), ActorFromToken("", "10.0.0.1"))
	a, ok := ActorFrom(ctx)
	if !ok || a.Nome != "desconhecido" || a.IP != "10.0.0.1" {
		t.Fatalf("unexpected actor %+v", a)
	}
}

func newManager(released *int32) *SessionManager[*int] {
	cfg := &core.Config{SessionTimeout: time.Minute}
	return NewSessionManager(cfg, func() *int { v := 0; return &v }, func(*int) { atomic.AddInt32(released, 1) })
}

func TestSessionManagerGetOrCreate(t *testing.T) {
	var released int32
	sm := newManager(&released)
	s1, created := sm.GetOrCreate("", "ip", "ua")
	if !created || s1.Telas == nil {
		t.Fatalf("expected new session")
	}
	s2, created := sm.GetOrCreate(s1.ID, "ip", "ua")
	if created || s2 != s1 {
		t.Fatalf("expected same session")
	}
	if _, created := sm.GetOrCreate("desconhecida", "ip", "ua"); !created {
		t.Fatalf("unknown id should create a session")
	}
	if sm.Count() != 2 {
		t.Fatalf("expected 2 sessions got %d", sm.Count())
	}
	sm.Shutdown()
	if released != 2 || sm.Count() != 0 {
		t.Fatalf("expected all sessions released, got %d", released)
	}
}

func TestSessionManagerCleanupReleasesExpired(t *testing.T) {
	var released int32
	sm := newManager(&released)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return base }
	old, _ := sm.GetOrCreate("", "", "")

	sm.now = func() time.Time { return base.Add(30 * time.Second) }
	fresh, _ := sm.GetOrCreate("", "", "")

	sm.now = func() time.Time { return base.Add(75 * time.Second) }
	if n := sm.cleanupExpiredSessions(); n != 1 {
		t.Fatalf("expected 1 expired, got %d", n)
	}
	if released != 1 {
		t.Fatalf("expected release of expired screens")
	}
	if _, err := sm.GetSession(old.ID); err == nil {
		t.Errorf("expired session still reachable")
	}
	if _, err := sm.GetSession(fresh.ID); err != nil {
		t.Errorf("fresh session lost: %v", err)
	}
}
