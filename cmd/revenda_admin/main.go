package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/apiclient"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/auth"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core"
	appLogger "github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/core/logger"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/data/models"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/repositories"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/services"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/ui"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/ui/web"
	"github.com/Dukorsa/APP_REVENDA_ADMIN_GO/internal/utils"
)

func main() {
	envPath := flag.String("env", ".env", "arquivo .env com a configuração")
	exportar := flag.String("exportar", "", "exporta os produtos para o arquivo informado (.xlsx ou .csv) e encerra")
	flag.Parse()

	// --- 1. Carregar Configurações ---
	cfg, err := core.LoadConfig(*envPath)
	if err != nil {
		log.Fatalf("Erro CRÍTICO ao carregar configuração: %v", err)
	}

	// --- 2. Configurar Logger ---
	if err := appLogger.SetupLogger(cfg); err != nil {
		log.Fatalf("Erro CRÍTICO ao configurar logger: %v", err)
	}
	appLogger.Info("=====================================================")
	appLogger.Infof("Iniciando %s v%s...", cfg.AppName, cfg.AppVersion)
	appLogger.Debugf("Modo Debug: %t", cfg.AppDebug)
	appLogger.Infof("API remota: %s", cfg.APIBaseURL)
	appLogger.Info("=====================================================")

	// --- 3. Banco de auditoria (opcional) ---
	var db *gorm.DB
	auditLogService := services.NewDisabledAuditLogService()
	if cfg.AuditEnabled {
		db, err = data.InitializeDB(cfg)
		if err != nil {
			appLogger.Fatalf("Erro CRÍTICO ao inicializar banco de auditoria: %v", err)
		}
		auditLogService = services.NewAuditLogService(repositories.NewGormAuditLogRepository(db))
	} else {
		appLogger.Info("Auditoria desabilitada (APP_AUDIT_ENABLED=false).")
	}
	defer func() {
		if err := data.CloseDB(db); err != nil {
			appLogger.Errorf("Erro ao fechar conexão com banco de dados: %v", err)
		}
	}()

	// --- 4. Cliente da API, repositórios e serviços ---
	client := apiclient.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	produtoService := services.NewProdutoService(repositories.NewAPIProdutoRepository(client), auditLogService)
	marcaService := services.NewMarcaService(repositories.NewAPIMarcaRepository(client))
	propostaService := services.NewPropostaService(repositories.NewAPIPropostaRepository(client), auditLogService)
	appLogger.Info("Todos os serviços foram inicializados.")

	if *exportar != "" {
		if err := exportarProdutos(cfg, produtoService, auditLogService, *exportar); err != nil {
			appLogger.Errorf("Exportação falhou: %v", err)
			fmt.Fprintf(os.Stderr, "Exportação falhou: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// --- 5. Sessões de navegador e telas ---
	telas := ui.NewTelasFactory(ui.Services{
		Produtos:  produtoService,
		Marcas:    marcaService,
		Propostas: propostaService,
	}, ui.OptionsFromConfig(cfg))
	sessionManager := auth.NewSessionManager(cfg, telas, ui.ReleaseTelas)
	sessionManager.StartCleanupGoroutine()
	defer sessionManager.Shutdown()

	// --- 6. Servidor HTTP ---
	server, err := web.NewServer(cfg, sessionManager, auditLogService)
	if err != nil {
		appLogger.Fatalf("Erro CRÍTICO ao montar servidor: %v", err)
	}
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		appLogger.Infof("Painel disponível em http://localhost%s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Errorf("Servidor HTTP encerrado com erro: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Sinal de encerramento recebido. Finalizando servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorf("Erro ao finalizar servidor HTTP: %v", err)
	}
	appLogger.Info("Aplicação encerrada normalmente.")
}

// exportarProdutos busca a lista uma vez e grava o arquivo.
func exportarProdutos(cfg *core.Config, produtoService services.ProdutoService, audit services.AuditLogService, destino string) error {
	ctx := context.Background()
	if cfg.APITimeout == 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Minute)
		defer cancel()
	}
	produtos, err := produtoService.ListProdutos(ctx)
	if err != nil {
		return err
	}
	caminho, err := utils.ExportToFile(utils.ProdutosTabela(produtos), destino, cfg.ExportDir)
	if err != nil {
		return err
	}
	services.LogAudit(ctx, audit, models.AuditLogEntry{
		Action:      models.AcaoProdutosExportado,
		Description: fmt.Sprintf("%d produtos exportados para %s.", len(produtos), caminho),
		Severity:    "INFO",
		Metadata:    models.JSONMetadata{"arquivo": caminho, "linhas": len(produtos)},
	})
	fmt.Println(caminho)
	return nil
}
