package ui

import (
	"context"
	"sync"
	"time"

	appErrors "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data/models"
)

// ErrActionPending é devolvido quando a mesma ação já está em andamento.
var ErrActionPending = appErrors.ErrActionPending

// ActionState é o estado de uma ação mutante de uma tela.
type ActionState int

const (
	ActionIdle ActionState = iota
	ActionPending
	ActionApplied
	ActionRejected
)

func (s ActionState) String() string {
	switch s {
	case ActionPending:
		return "pendente"
	case ActionApplied:
		return "aplicada"
	case ActionRejected:
		return "rejeitada"
	default:
		return "ociosa"
	}
}

// NoticeKind classifica o aviso (toast) de uma tela.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "sucesso"
	NoticeError   NoticeKind = "erro"
	NoticeInfo    NoticeKind = "info"
)

// Notice é o aviso pendente de uma tela. É consumido na renderização.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Screen guarda o estado comum de uma instância de tela: geração de montagem,
// estado das ações e aviso pendente. Todo estado da tela é protegido por mu.
//
// Cada Mount incrementa a geração. Resultados que chegam com uma geração antiga
// (tela desmontada ou remontada) são descartados por Execute.
type Screen struct {
	mu         sync.Mutex
	generation uint64
	mounted    bool
	actions    map[string]ActionState
	notice     *Notice

	loading  bool
	loaded   bool
	loadErr  string
	loadDone chan struct{}
}

// beginMount zera o estado comum e devolve a nova geração. Chamar com mu travado.
func (s *Screen) beginMount() uint64 {
	s.generation++
	s.mounted = true
	s.actions = make(map[string]ActionState)
	s.notice = nil
	s.loading = true
	s.loaded = false
	s.loadErr = ""
	if s.loadDone != nil {
		close(s.loadDone)
	}
	s.loadDone = make(chan struct{})
	return s.generation
}

// finishLoad marca o fim do carregamento inicial. Chamar com mu travado.
func (s *Screen) finishLoad(errMsg string) {
	s.loading = false
	s.loaded = errMsg == ""
	s.loadErr = errMsg
	if s.loadDone != nil {
		close(s.loadDone)
		s.loadDone = nil
	}
}

// Execute aplica fn ao estado da tela se gen ainda for a montagem atual.
// Devolve false quando o resultado foi descartado.
func (s *Screen) Execute(gen uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted || gen != s.generation {
		return false
	}
	fn()
	return true
}

// Unmount desmonta a tela. Requisições em voo viram no-op.
func (s *Screen) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.mounted = false
	if s.loadDone != nil {
		close(s.loadDone)
		s.loadDone = nil
	}
}

// Mounted indica se a tela tem uma montagem ativa.
func (s *Screen) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Wait espera o carregamento inicial por no máximo d. Devolve true se ele terminou.
// Uma remontagem fecha o canal da montagem anterior; Wait passa a esperar a nova.
func (s *Screen) Wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		s.mu.Lock()
		done := s.loadDone
		s.mu.Unlock()
		if done == nil {
			return true
		}
		select {
		case <-done:
		case <-timer.C:
			return false
		case <-ctx.Done():
			return false
		}
	}
}

// startAction move a ação key de ocioso para pendente e devolve a geração atual.
func (s *Screen) startAction(key string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mounted {
		return 0, appErrors.WrapErrorf(appErrors.ErrInvalidInput, "tela não montada")
	}
	if s.actions[key] == ActionPending {
		return 0, ErrActionPending
	}
	s.actions[key] = ActionPending
	return s.generation, nil
}

// settleAction conclui a ação. Chamar com mu travado e geração já conferida.
func (s *Screen) settleAction(key string, ok bool) {
	if ok {
		s.actions[key] = ActionApplied
	} else {
		s.actions[key] = ActionRejected
	}
}

// ActionState devolve o estado atual da ação key.
func (s *Screen) ActionState(key string) ActionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actions[key]
}

// setNotice define o aviso pendente. Chamar com mu travado.
func (s *Screen) setNotice(kind NoticeKind, text string) {
	s.notice = &Notice{Kind: kind, Text: text}
}

// takeNotice consome o aviso pendente. Chamar com mu travado.
func (s *Screen) takeNotice() *Notice {
	n := s.notice
	s.notice = nil
	return n
}

// pendingKeys lista as ações pendentes. Chamar com mu travado.
func (s *Screen) pendingKeys() map[string]bool {
	out := make(map[string]bool)
	for k, st := range s.actions {
		if st == ActionPending {
			out[k] = true
		}
	}
	return out
}

// LoadView é o estado do carregamento inicial visto pela renderização.
type LoadView struct {
	Loading bool
	Loaded  bool
	Erro    string
}

func (s *Screen) loadView() LoadView {
	return LoadView{Loading: s.loading, Loaded: s.loaded, Erro: s.loadErr}
}

// Lista é a coleção de uma tela, com setters explícitos. Não é segura para uso
// concorrente; quem a possui (a tela) a protege.
type Lista[T models.Identificavel] struct {
	items []T
}

// Replace troca a coleção inteira.
func (l *Lista[T]) Replace(items []T) {
	l.items = append([]T(nil), items...)
}

// Remove tira o item de id informado, mantendo a ordem dos demais.
func (l *Lista[T]) Remove(id int) bool {
	for i, it := range l.items {
		if it.GetID() == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Patch aplica fn ao item de id informado.
func (l *Lista[T]) Patch(id int, fn func(*T)) bool {
	for i := range l.items {
		if l.items[i].GetID() == id {
			fn(&l.items[i])
			return true
		}
	}
	return false
}

// Prepend coloca o item no topo.
func (l *Lista[T]) Prepend(item T) {
	l.items = append([]T{item}, l.items...)
}

// Get devolve o item de id informado.
func (l *Lista[T]) Get(id int) (T, bool) {
	for _, it := range l.items {
		if it.GetID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Items devolve uma cópia da coleção.
func (l *Lista[T]) Items() []T {
	return append([]T{}, l.items...)
}

// Len devolve o tamanho da coleção.
func (l *Lista[T]) Len() int { return len(l.items) }

// Clear esvazia a coleção.
func (l *Lista[T]) Clear() { l.items = nil }
