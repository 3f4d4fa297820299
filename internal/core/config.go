package core

import (
	"errors"
	"fmt"
	"log" // Usado para logs iniciais antes que o logger da aplicação esteja configurado
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Origem do ID do cliente na tela de propostas.
const (
	ClienteSourceFixed = "fixed" // ID fixo vindo de APP_CLIENTE_ID
	ClienteSourceParam = "param" // ID vindo da rota /propostas/cliente/{clienteId}
)

// Config struct para armazenar todas as configurações da aplicação
type Config struct {
	AppName    string
	AppVersion string
	AppDebug   bool

	// Servidor HTTP do painel
	HTTPAddr string

	// API remota
	APIBaseURL  string
	APITimeout  time.Duration // 0 = sem timeout
	TokenCookie string

	// Telas
	UILoadWait             time.Duration
	ClienteID              int
	PropostasClienteSource string
	PropostasShowResposta  bool
	PropostasAutoScroll    bool
	SessionTimeout         time.Duration
	SessionCleanupInterval time.Duration
	SessionCleanupEnabled  bool

	// Database (log de auditoria)
	AuditEnabled bool
	DBEngine     string
	DBName       string
	DBHost       string
	DBPort       int
	DBUser       string
	DBPassword   string

	// Logging
	LogDir         string
	LogLevel       string
	LogMaxBytes    int
	LogBackupCount int
	LogToConsole   bool

	// Export
	ExportDir string
}

// LoadConfig carrega as configurações do arquivo .env especificado ou encontrado na árvore de diretórios.
func LoadConfig(envPath string) (*Config, error) {
	foundEnvPath, err := findEnvFile(envPath)
	if err != nil {
		log.Printf("Aviso: Arquivo .env em '%s' não encontrado: %v. Usando variáveis de ambiente existentes.", envPath, err)
	} else {
		log.Printf("Carregando configurações de: %s", foundEnvPath)
		if err := godotenv.Load(foundEnvPath); err != nil {
			log.Printf("Aviso: Erro ao carregar arquivo .env de '%s': %v. Usando valores padrão ou variáveis de ambiente existentes.", foundEnvPath, err)
		}
	}

	cfg := &Config{}

	cfg.AppName = getEnv("APP_NAME", "Revenda Admin GO")
	cfg.AppVersion = getEnv("APP_VERSION", "1.0.0-go")
	cfg.AppDebug = getEnvAsBool("APP_DEBUG", false)

	cfg.HTTPAddr = getEnv("APP_HTTP_ADDR", ":8080")

	cfg.APIBaseURL = strings.TrimRight(getEnv("URL_API", "http://localhost:3004"), "/")
	cfg.APITimeout = getEnvAsDuration("APP_API_TIMEOUT", 0)
	cfg.TokenCookie = getEnv("APP_TOKEN_COOKIE", "admin_logado_token")

	cfg.UILoadWait = time.Duration(getEnvAsInt("APP_UI_LOAD_WAIT", 1500)) * time.Millisecond
	cfg.ClienteID = getEnvAsInt("APP_CLIENTE_ID", 1)
	cfg.PropostasClienteSource = strings.ToLower(getEnv("APP_PROPOSTAS_CLIENTE_SOURCE", ClienteSourceFixed))
	cfg.PropostasShowResposta = getEnvAsBool("APP_PROPOSTAS_SHOW_RESPOSTA", true)
	cfg.PropostasAutoScroll = getEnvAsBool("APP_PROPOSTAS_AUTO_SCROLL", true)
	cfg.SessionTimeout = getEnvAsDuration("APP_SESSION_TIMEOUT", 3600)                 // 1 hora
	cfg.SessionCleanupInterval = getEnvAsDuration("APP_SESSION_CLEANUP_INTERVAL", 600) // 10 minutos
	cfg.SessionCleanupEnabled = getEnvAsBool("APP_SESSION_CLEANUP_ENABLED", true)

	cfg.AuditEnabled = getEnvAsBool("APP_AUDIT_ENABLED", true)
	cfg.DBEngine = getEnv("APP_DB_ENGINE", "sqlite")
	cfg.DBName = getEnv("APP_DB_NAME", "revenda_admin.db")
	cfg.DBHost = getEnv("APP_DB_HOST", "localhost")
	cfg.DBPort = getEnvAsInt("APP_DB_PORT", 5432)
	cfg.DBUser = getEnv("APP_DB_USER", "user")
	cfg.DBPassword = getEnv("APP_DB_PASSWORD", "password")

	cfg.LogDir = getEnv("APP_LOG_DIR", "./app_logs")
	cfg.LogLevel = strings.ToUpper(getEnv("APP_LOG_LEVEL", "INFO"))
	cfg.LogMaxBytes = getEnvAsInt("APP_LOG_MAX_BYTES", 5*1024*1024) // 5MB
	cfg.LogBackupCount = getEnvAsInt("APP_LOG_BACKUP_COUNT", 7)
	cfg.LogToConsole = getEnvAsBool("APP_LOG_TO_CONSOLE", true)

	cfg.ExportDir = getEnv("APP_EXPORT_DIR", "./app_exports")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := ensureDir(cfg.LogDir, true); err != nil {
		return nil, fmt.Errorf("falha ao criar diretório de log essencial '%s': %w", cfg.LogDir, err)
	}
	if cfg.AuditEnabled && cfg.DBEngine == "sqlite" {
		sqliteDir := filepath.Dir(cfg.DBName)
		if sqliteDir != "." && sqliteDir != string(filepath.Separator) {
			if err := ensureDir(sqliteDir, true); err != nil {
				return nil, fmt.Errorf("falha ao criar diretório para banco de dados SQLite '%s': %w", sqliteDir, err)
			}
		}
	}
	_ = ensureDir(cfg.ExportDir, false)

	log.Println("Configurações carregadas e validadas.")
	return cfg, nil
}

// Validate verifica as configurações críticas.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: URL_API deve ser uma URL absoluta, recebido '%s'", ErrConfiguration, c.APIBaseURL)
	}
	switch c.PropostasClienteSource {
	case ClienteSourceFixed, ClienteSourceParam:
	default:
		return fmt.Errorf("%w: APP_PROPOSTAS_CLIENTE_SOURCE inválido '%s' (use fixed ou param)", ErrConfiguration, c.PropostasClienteSource)
	}
	if c.PropostasClienteSource == ClienteSourceFixed && c.ClienteID <= 0 {
		return fmt.Errorf("%w: APP_CLIENTE_ID deve ser positivo", ErrConfiguration)
	}
	if c.TokenCookie == "" {
		return errors.New("FATAL: APP_TOKEN_COOKIE não pode ser vazio")
	}
	return nil
}

// findEnvFile tenta localizar o arquivo .env.
// Primeiro no path fornecido, depois subindo na árvore de diretórios a partir do CWD.
func findEnvFile(envPath string) (string, error) {
	if _, err := os.Stat(envPath); err == nil {
		absPath, _ := filepath.Abs(envPath)
		return absPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("não foi possível obter o diretório de trabalho atual: %w", err)
	}

	for i := 0; i < 5; i++ {
		tryPath := filepath.Join(cwd, ".env")
		if _, err := os.Stat(tryPath); err == nil {
			return tryPath, nil
		}
		parent := filepath.Dir(cwd)
		if parent == cwd { // Chegou à raiz
			break
		}
		cwd = parent
	}
	return "", fmt.Errorf("arquivo .env não encontrado no caminho '%s' ou nos diretórios pais", envPath)
}

// ensureDir garante que um diretório exista, criando-o se necessário.
// Se 'critical' for true, retorna erro em caso de falha. Caso contrário, apenas loga um aviso.
func ensureDir(dirPath string, critical bool) error {
	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		msg := fmt.Sprintf("Não foi possível resolver o caminho absoluto para '%s': %v", dirPath, err)
		if critical {
			return errors.New(msg)
		}
		log.Println("AVISO:", msg)
		return nil
	}

	if err := os.MkdirAll(absPath, os.ModePerm); err != nil {
		msg := fmt.Sprintf("Não foi possível criar o diretório '%s': %v", absPath, err)
		if critical {
			return errors.New(msg)
		}
		log.Println("AVISO:", msg)
	}
	return nil
}

// getEnv recupera o valor de uma variável de ambiente ou retorna um fallback.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAsInt recupera uma variável de ambiente como int ou retorna um fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

// getEnvAsBool recupera uma variável de ambiente como bool ou retorna um fallback.
func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration recupera uma variável de ambiente como time.Duration em segundos, ou retorna um fallback.
func getEnvAsDuration(key string, fallbackSeconds int) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(value) * time.Second
	}
	return time.Duration(fallbackSeconds) * time.Second
}
