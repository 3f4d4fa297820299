package web

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/apiclient"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/auth"
	appLogger "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core/logger"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/ui"
)

type sessionKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// logRequests registra método, caminho, status e duração de cada requisição.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		appLogger.WithFields(logrus.Fields{
			"metodo":  r.Method,
			"caminho": r.URL.Path,
			"status":  rec.status,
			"duracao": time.Since(start).String(),
			"ip":      clientIP(r),
		}).Info("Requisição atendida")
	})
}

// withToken lê o token do administrador do cookie e o coloca no contexto,
// junto com o autor usado pela auditoria. Cookie ausente segue sem token.
func (s *Server) withToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if c, err := r.Cookie(s.cfg.TokenCookie); err == nil && c.Value != "" {
			ctx = apiclient.WithToken(ctx, c.Value)
			ctx = auth.WithActor(ctx, auth.ActorFromToken(c.Value, clientIP(r)))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withSession associa a requisição às telas do navegador, emitindo o cookie quando necessário.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(auth.SessionCookieName); err == nil {
			id = c.Value
		}
		sess, created := s.sessions.GetOrCreate(id, clientIP(r), r.UserAgent())
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     auth.SessionCookieName,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, sess.Telas)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// telasFrom devolve as telas da sessão atual.
func telasFrom(r *http.Request) *ui.Telas {
	t, _ := r.Context().Value(sessionKey{}).(*ui.Telas)
	return t
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
