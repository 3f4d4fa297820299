package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	appErrors "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
	appLogger "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core/logger"
)

const maxErrorBody = 64 * 1024

type tokenKey struct{}

// WithToken devolve um contexto que carrega o token do administrador.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom lê o token guardado por WithToken. Vazio se não houver.
func TokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

// RequestOptions ajusta uma chamada individual.
type RequestOptions struct {
	// Auth anexa "Authorization: Bearer <token>" com o token do contexto.
	Auth bool
}

// Client fala JSON com a API da revenda.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient cria o cliente. timeout 0 significa sem limite.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP permite injetar o *http.Client (testes, transportes customizados).
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// BaseURL devolve a origem configurada.
func (c *Client) BaseURL() string { return c.baseURL }

// Do executa uma requisição. body, se não nil, vai como JSON; out, se não nil,
// recebe a resposta 2xx decodificada.
//
// Falhas:
//   - sem resposta: *core.TransportError (errors.Is ErrConnection)
//   - status fora de 2xx: *core.APIError com a mensagem opcional do corpo
//   - 2xx com JSON inválido: core.ErrInvalidResponse
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}, opts RequestOptions) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.WrapErrorf(appErrors.ErrInvalidInput, "falha ao serializar corpo de %s %s: %v", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return appErrors.WrapErrorf(appErrors.ErrInternal, "falha ao montar requisição %s %s: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if opts.Auth {
		req.Header.Set("Authorization", "Bearer "+TokenFrom(ctx))
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		appLogger.WithFields(logrus.Fields{"metodo": method, "caminho": path}).Warnf("Falha de transporte: %v", err)
		return &appErrors.TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	appLogger.WithFields(logrus.Fields{
		"metodo":  method,
		"caminho": path,
		"status":  resp.StatusCode,
		"duracao": time.Since(start).String(),
	}).Debug("Chamada à API concluída")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return appErrors.NewAPIError(method, path, resp.StatusCode, readErrorBody(resp.Body))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &appErrors.TransportError{Method: method, Path: path, Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", appErrors.ErrInvalidResponse, method, path, err)
	}
	return nil
}

// readErrorBody tenta extrair {message} do corpo de erro. Corpos ilegíveis viram ErrorBody vazio.
func readErrorBody(r io.Reader) appErrors.ErrorBody {
	var eb appErrors.ErrorBody
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return eb
	}
	if err := json.Unmarshal(raw, &eb); err != nil {
		return appErrors.ErrorBody{}
	}
	return eb
}

// Get é um atalho para Do sem corpo.
func (c *Client) Get(ctx context.Context, path string, out interface{}, opts RequestOptions) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, opts)
}
