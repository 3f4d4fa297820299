package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/auth"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
	appLogger "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core/logger"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/navigation"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/ui"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Páginas renderizadas dentro de layout.html e a entrada de menu que cada uma destaca.
var paginas = map[string]navigation.PageID{
	"produtos.html":     navigation.PageProdutos,
	"novo_produto.html": navigation.PageNovoProduto,
	"propostas.html":    navigation.PagePropostas,
	"auditoria.html":    navigation.PageAuditoria,
	"confirmar.html":    navigation.PageNone,
	"carregando.html":   navigation.PageNone,
	"erro.html":         navigation.PageNone,
}

var printerBR = message.NewPrinter(language.BrazilianPortuguese)

// Moeda formata um valor em reais no padrão pt-BR (R$ 95.000,50).
func Moeda(d decimal.Decimal) string {
	return printerBR.Sprintf("R$ %v", number.Decimal(d.InexactFloat64(), number.Scale(2)))
}

// Data formata uma data como dd/mm/aaaa; nil vira vazio.
func Data(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"moeda":  Moeda,
		"data":   Data,
		"ano":    func() int { return time.Now().Year() },
		"ancora": ui.AncoraProposta,
		"chave":  func(acao string, id int) string { return fmt.Sprintf("%s:%d", acao, id) },
		"dataHora": func(t time.Time) string {
			return t.Local().Format("02/01/2006 15:04:05")
		},
	}
}

type renderer struct {
	appName string
	menu    []navigation.Item
	pages   map[string]*template.Template
}

// newRenderer faz o parse de todas as páginas uma única vez.
func newRenderer(cfg *core.Config) (*renderer, error) {
	r := &renderer{
		appName: cfg.AppName,
		menu:    navigation.Menu(cfg),
		pages:   make(map[string]*template.Template, len(paginas)),
	}
	for name := range paginas {
		t, err := template.New("layout.html").Funcs(funcs()).ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("falha ao carregar template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// render executa a página em memória e só então escreve a resposta.
func (rd *renderer) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	t, ok := rd.pages[name]
	if !ok {
		appLogger.Errorf("Template desconhecido: %s", name)
		http.Error(w, "Erro interno", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["AppName"]; !exists {
		data["AppName"] = rd.appName
	}
	data["Menu"] = rd.menu
	data["Atual"] = paginas[name]
	if _, exists := data["Admin"]; !exists {
		if a, ok := auth.ActorFrom(r.Context()); ok {
			data["Admin"] = a.Nome
		}
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		appLogger.Errorf("Erro ao renderizar %s: %v", name, err)
		http.Error(w, "Erro interno", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
