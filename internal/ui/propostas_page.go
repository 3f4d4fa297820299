package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
	appLogger "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core/logger"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data/models"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/services"
)

const (
	msgPropostaEnviada     = "Proposta enviada com sucesso!"
	msgPropostaSemEco      = "Proposta enviada com sucesso! Recarregue a página para vê-la na lista."
	msgPropostaExcluida    = "Proposta excluída com sucesso"
	msgPropostaNaoExcluida = "Erro... Proposta não foi excluída"
	msgErroCarregarProp    = "Erro ao carregar propostas. Tente novamente mais tarde."
	chaveEnviarProposta    = "enviar"
)

// PropostasOptions parametriza a tela de propostas.
type PropostasOptions struct {
	ShowResponseDate   bool
	AutoScrollOnSubmit bool
	ClienteSource      string
}

// OptionsFromConfig monta as opções a partir da configuração carregada.
func OptionsFromConfig(cfg *core.Config) PropostasOptions {
	return PropostasOptions{
		ShowResponseDate:   cfg.PropostasShowResposta,
		AutoScrollOnSubmit: cfg.PropostasAutoScroll,
		ClienteSource:      cfg.PropostasClienteSource,
	}
}

// PropostasView é o retrato da tela de propostas.
type PropostasView struct {
	LoadView
	Options   PropostasOptions
	ClienteID int
	Propostas []models.Proposta
	Form      models.PropostaForm
	Erros     map[string]string
	Notice    *Notice
	Pendentes map[string]bool
	Enviando  bool
	// Ancora é o id HTML da proposta recém-criada, quando AutoScrollOnSubmit.
	Ancora string
}

// PropostasPage lista as propostas de um cliente e envia novas.
type PropostasPage struct {
	Screen
	propostaService services.PropostaService
	options         PropostasOptions

	clienteID int
	propostas Lista[models.Proposta]
	form      models.PropostaForm
	erros     map[string]string
	ancora    string
}

// NewPropostasPage cria a tela com as opções informadas.
func NewPropostasPage(propostaService services.PropostaService, options PropostasOptions) *PropostasPage {
	if propostaService == nil {
		appLogger.Fatalf("PropostaService não pode ser nil para NewPropostasPage")
	}
	return &PropostasPage{propostaService: propostaService, options: options}
}

// Options devolve as opções da tela.
func (p *PropostasPage) Options() PropostasOptions { return p.options }

// ClienteID devolve o cliente da montagem atual.
func (p *PropostasPage) ClienteID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clienteID
}

// Mount monta a tela para o cliente informado e busca suas propostas uma vez.
func (p *PropostasPage) Mount(ctx context.Context, clienteID int) {
	p.mu.Lock()
	gen := p.beginMount()
	p.clienteID = clienteID
	p.propostas.Clear()
	p.form = models.PropostaForm{}
	p.erros = nil
	p.ancora = ""
	p.mu.Unlock()

	appLogger.WithComponent("propostas").Debugf("Montando tela para cliente %d (geração %d)", clienteID, gen)

	bg := context.WithoutCancel(ctx)
	go func() {
		propostas, err := p.propostaService.ListPropostas(bg, clienteID)
		p.Execute(gen, func() {
			if err != nil {
				appLogger.Errorf("Erro ao carregar propostas do cliente %d: %v", clienteID, err)
				p.propostas.Clear()
				p.finishLoad(msgErroCarregarProp)
				return
			}
			p.propostas.Replace(propostas)
			p.finishLoad("")
		})
	}()
}

// View devolve o retrato atual e consome o aviso pendente.
func (p *PropostasPage) View() PropostasView {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := PropostasView{
		LoadView:  p.loadView(),
		Options:   p.options,
		ClienteID: p.clienteID,
		Propostas: p.propostas.Items(),
		Form:      p.form,
		Erros:     p.erros,
		Notice:    p.takeNotice(),
		Pendentes: p.pendingKeys(),
		Enviando:  p.actions[chaveEnviarProposta] == ActionPending,
		Ancora:    p.ancora,
	}
	p.ancora = ""
	return v
}

// Submit envia uma nova proposta para o cliente montado e a coloca no topo da lista.
func (p *PropostasPage) Submit(ctx context.Context, form models.PropostaForm) (*models.Proposta, error) {
	gen, err := p.startAction(chaveEnviarProposta)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	clienteID := p.clienteID
	p.mu.Unlock()
	if clienteID > 0 {
		form.ClienteID = strconv.Itoa(clienteID)
	}

	criada, opErr := p.propostaService.CreateProposta(context.WithoutCancel(ctx), form)

	p.Execute(gen, func() {
		p.settleAction(chaveEnviarProposta, opErr == nil)
		if opErr != nil {
			p.form = form
			p.erros = camposInvalidos(opErr)
			p.setNotice(NoticeError, mensagemFalha(opErr, "Erro ao enviar a proposta."))
			return
		}
		p.form = models.PropostaForm{}
		p.erros = nil
		// Sem id a linha não poderia ser excluída nem ancorada.
		if criada == nil || criada.ID <= 0 {
			p.setNotice(NoticeInfo, msgPropostaSemEco)
			return
		}
		p.propostas.Prepend(*criada)
		if p.options.AutoScrollOnSubmit {
			p.ancora = AncoraProposta(criada.ID)
		}
		p.setNotice(NoticeSuccess, msgPropostaEnviada)
	})
	if opErr != nil {
		appLogger.Warnf("Falha ao enviar proposta do cliente %d: %v", clienteID, opErr)
	}
	return criada, opErr
}

// AncoraProposta é o id HTML da linha de uma proposta.
func AncoraProposta(id int) string { return fmt.Sprintf("proposta-%d", id) }

// Delete exclui a proposta após confirmação.
func (p *PropostasPage) Delete(ctx context.Context, id int, confirmado bool) error {
	if !confirmado {
		return core.ErrNotConfirmed
	}
	key := chaveExcluir(id)
	gen, err := p.startAction(key)
	if err != nil {
		return err
	}

	opErr := p.propostaService.DeleteProposta(context.WithoutCancel(ctx), id)

	p.Execute(gen, func() {
		p.settleAction(key, opErr == nil)
		if opErr != nil {
			p.setNotice(NoticeError, msgPropostaNaoExcluida)
			return
		}
		p.propostas.Remove(id)
		p.setNotice(NoticeSuccess, msgPropostaExcluida)
	})
	return opErr
}

// Proposta devolve uma proposta da lista local.
func (p *PropostasPage) Proposta(id int) (models.Proposta, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.propostas.Get(id)
}
