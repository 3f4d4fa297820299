package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
	appLogger "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core/logger"
)

// SessionCookieName é o cookie que identifica o navegador.
const SessionCookieName = "revenda_sessao"

// Session associa um navegador às telas que ele tem montadas.
// Telas vive só em memória.
type Session[T any] struct {
	ID           string
	IPAddress    string
	UserAgent    string
	CreatedAt    time.Time
	LastActivity time.Time
	Telas        T
}

// IsExpired verifica se a sessão expirou com base no tempo de inatividade.
func (s *Session[T]) IsExpired(sessionTimeout time.Duration, now time.Time) bool {
	return now.After(s.LastActivity.Add(sessionTimeout))
}

// SessionManager gerencia as sessões de navegador.
// newTelas cria as telas de uma sessão nova; release desmonta as telas de uma sessão removida.
type SessionManager[T any] struct {
	timeout         time.Duration
	cleanupInterval time.Duration
	cleanupEnabled  bool

	sessions map[string]*Session[T]
	lock     sync.RWMutex
	newTelas func() T
	release  func(T)

	shutdownChan chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
	now          func() time.Time
}

// NewSessionManager cria uma nova instância do SessionManager.
func NewSessionManager[T any](cfg *core.Config, newTelas func() T, release func(T)) *SessionManager[T] {
	if newTelas == nil {
		appLogger.Fatalf("newTelas não pode ser nil para NewSessionManager")
	}
	if release == nil {
		release = func(T) {}
	}
	timeout := cfg.SessionTimeout
	if timeout <= 0 {
		timeout = time.Hour
	}
	return &SessionManager[T]{
		timeout:         timeout,
		cleanupInterval: cfg.SessionCleanupInterval,
		cleanupEnabled:  cfg.SessionCleanupEnabled && cfg.SessionCleanupInterval > 0,
		sessions:        make(map[string]*Session[T]),
		newTelas:        newTelas,
		release:         release,
		shutdownChan:    make(chan struct{}),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// StartCleanupGoroutine inicia uma goroutine para limpar sessões expiradas periodicamente.
func (sm *SessionManager[T]) StartCleanupGoroutine() {
	if !sm.cleanupEnabled {
		appLogger.Info("Limpeza de sessão em background desabilitada.")
		return
	}

	sm.wg.Add(1)
	go func() {
		defer sm.wg.Done()
		ticker := time.NewTicker(sm.cleanupInterval)
		defer ticker.Stop()

		appLogger.Infof("Goroutine de limpeza de sessões iniciada (intervalo: %v).", sm.cleanupInterval)
		for {
			select {
			case <-ticker.C:
				sm.cleanupExpiredSessions()
			case <-sm.shutdownChan:
				appLogger.Info("Goroutine de limpeza de sessões recebendo sinal de shutdown.")
				return
			}
		}
	}()
}

// Shutdown para a goroutine de limpeza e desmonta as telas de todas as sessões.
func (sm *SessionManager[T]) Shutdown() {
	sm.shutdownOnce.Do(func() {
		appLogger.Info("Iniciando shutdown do SessionManager...")
		close(sm.shutdownChan)
		sm.wg.Wait()

		sm.lock.Lock()
		removed := make([]*Session[T], 0, len(sm.sessions))
		for id, s := range sm.sessions {
			removed = append(removed, s)
			delete(sm.sessions, id)
		}
		sm.lock.Unlock()

		for _, s := range removed {
			sm.release(s.Telas)
		}
		appLogger.Infof("SessionManager shutdown concluído (%d sessões encerradas).", len(removed))
	})
}

// GetOrCreate devolve a sessão do id informado ou cria uma nova se ele for vazio,
// desconhecido ou expirado. created indica que um novo cookie deve ser emitido.
func (sm *SessionManager[T]) GetOrCreate(sessionID, ip, userAgent string) (sess *Session[T], created bool) {
	if sessionID != "" {
		if s, err := sm.GetSession(sessionID); err == nil {
			return s, false
		}
	}

	now := sm.now()
	s := &Session[T]{
		ID:           uuid.NewString(),
		IPAddress:    ip,
		UserAgent:    userAgent,
		CreatedAt:    now,
		LastActivity: now,
		Telas:        sm.newTelas(),
	}
	sm.lock.Lock()
	sm.sessions[s.ID] = s
	sm.lock.Unlock()

	appLogger.Debugf("Sessão criada: ID=%s..., IP=%s", shortID(s.ID), ip)
	return s, true
}

// GetSession recupera uma sessão por seu ID e renova sua atividade.
func (sm *SessionManager[T]) GetSession(sessionID string) (*Session[T], error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: ID da sessão não pode ser vazio", core.ErrInvalidInput)
	}
	now := sm.now()

	sm.lock.Lock()
	session, exists := sm.sessions[sessionID]
	if !exists {
		sm.lock.Unlock()
		return nil, fmt.Errorf("%w: sessão %s... não encontrada", core.ErrNotFound, shortID(sessionID))
	}
	if session.IsExpired(sm.timeout, now) {
		delete(sm.sessions, sessionID)
		sm.lock.Unlock()
		appLogger.Infof("Sessão %s... expirada durante GetSession. Removendo.", shortID(sessionID))
		sm.release(session.Telas)
		return nil, fmt.Errorf("%w: sessão expirada", core.ErrNotFound)
	}
	session.LastActivity = now
	sm.lock.Unlock()

	return session, nil
}

// DeleteSession remove uma sessão específica e desmonta suas telas.
func (sm *SessionManager[T]) DeleteSession(sessionID string) {
	sm.lock.Lock()
	session, exists := sm.sessions[sessionID]
	delete(sm.sessions, sessionID)
	sm.lock.Unlock()

	if exists {
		sm.release(session.Telas)
		appLogger.Infof("Sessão %s... removida.", shortID(sessionID))
	}
}

// Count devolve o número de sessões ativas.
func (sm *SessionManager[T]) Count() int {
	sm.lock.RLock()
	defer sm.lock.RUnlock()
	return len(sm.sessions)
}

// cleanupExpiredSessions é chamado pela goroutine de limpeza.
func (sm *SessionManager[T]) cleanupExpiredSessions() int {
	now := sm.now()

	sm.lock.Lock()
	var expired []*Session[T]
	for id, session := range sm.sessions {
		if session.IsExpired(sm.timeout, now) {
			expired = append(expired, session)
			delete(sm.sessions, id)
		}
	}
	sm.lock.Unlock()

	for _, s := range expired {
		sm.release(s.Telas)
	}
	if len(expired) > 0 {
		appLogger.Infof("Limpeza de sessões removeu %d sessões expiradas.", len(expired))
	} else {
		appLogger.Debug("Limpeza de sessões: Nenhuma sessão expirada encontrada.")
	}
	return len(expired)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
