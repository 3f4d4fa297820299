package auth

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/blake2b"
)

// Admin é o que o painel sabe sobre quem está logado, lido do token sem verificação.
// Serve só para exibição e auditoria; quem autoriza é a API.
type Admin struct {
	ID    string
	Nome  string
	Email string
}

// Rotulo devolve o melhor nome disponível para exibir.
func (a Admin) Rotulo() string {
	switch {
	case a.Nome != "":
		return a.Nome
	case a.Email != "":
		return a.Email
	case a.ID != "":
		return "admin #" + a.ID
	default:
		return "desconhecido"
	}
}

// Chaves aceitas para cada campo, na ordem de preferência.
var (
	nomeClaims  = []string{"adminLogadoNome", "nome", "name"}
	emailClaims = []string{"email"}
	idClaims    = []string{"adminLogadoId", "userLogadoId", "id", "sub"}
)

// AdminFromToken extrai o administrador das claims do JWT. A assinatura NÃO é verificada.
func AdminFromToken(token string) (Admin, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Admin{}, errors.New("token ausente")
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Admin{}, fmt.Errorf("token ilegível: %w", err)
	}
	return Admin{
		ID:    firstClaim(claims, idClaims),
		Nome:  firstClaim(claims, nomeClaims),
		Email: firstClaim(claims, emailClaims),
	}, nil
}

func firstClaim(claims jwt.MapClaims, keys []string) string {
	for _, k := range keys {
		v, ok := claims[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case float64:
			return fmt.Sprintf("%.0f", t)
		default:
			return fmt.Sprint(t)
		}
	}
	return ""
}

// Fingerprint identifica um token sem expô-lo: blake2b-256, 8 primeiros bytes em hex.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

// Actor é o autor de uma ação no painel, como gravado na auditoria.
type Actor struct {
	Nome             string
	TokenFingerprint string
	IP               string
}

// ActorFromToken monta o Actor a partir do token cru. Tokens ilegíveis viram "desconhecido".
func ActorFromToken(token, ip string) Actor {
	admin, _ := AdminFromToken(token)
	return Actor{Nome: admin.Rotulo(), TokenFingerprint: Fingerprint(token), IP: ip}
}

type actorKey struct{}

// WithActor guarda o autor da requisição no contexto.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom lê o autor do contexto. ok=false quando ausente.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
