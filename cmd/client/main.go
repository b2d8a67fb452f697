package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"beam_go/internal/config"
	"beam_go/internal/discovery"
	"beam_go/internal/dispatch"
	"beam_go/internal/hub"
	"beam_go/internal/mirror"
	"beam_go/internal/presenter"
	"beam_go/internal/settings"
	"beam_go/pkg/logger"
)

func main() {
	// Inicializar logger
	logger.Init()

	// Exibir banner de inicialização
	displayBanner()

	logger.Info("Iniciando Beam Quality Analyzer Client")

	// Carregar configurações da aplicação
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Erro ao carregar configurações", err)
	}

	logger.SetLevel(levelFromString(cfg.Logging.Level))
	if cfg.Logging.FileEnabled {
		if err := logger.EnableFileLogging(cfg.Logging.Dir, "beam"); err != nil {
			logger.Error("Erro ao habilitar log em arquivo", err)
		}
	}
	defer logger.Sync()

	// Carregar o registro persistido de configurações; na primeira execução
	// o arquivo de configuração fornece a URL padrão do servidor
	dbPath, err := settings.DefaultPath()
	if err != nil {
		logger.Fatal("Erro ao determinar caminho do banco de configurações", err)
	}
	store := settings.NewService(dbPath, settings.DefaultsFromConfig(cfg))

	stored, err := store.Load()
	if err != nil {
		logger.Fatal("Erro ao carregar configurações persistidas", err)
	}

	serverURL := stored.ServerURL
	if serverURL == "" {
		serverURL = cfg.Server.URL
	}

	// Sem URL configurada, tentar descobrir o servidor na rede
	if serverURL == "" && cfg.Discovery.Enabled {
		if found, err := discovery.Browse(context.Background(), cfg.Discovery.Timeout); err == nil {
			serverURL = found
		} else {
			logger.Warnf("Descoberta de servidor falhou: %v", err)
		}
	}

	// Intervalos de atualização persistidos prevalecem sobre o arquivo
	if stored.Refresh.ChartIntervalMs > 0 {
		cfg.Refresh.ChartInterval = time.Duration(stored.Refresh.ChartIntervalMs) * time.Millisecond
	}
	if stored.Refresh.View2DIntervalMs > 0 {
		cfg.Refresh.View2DInterval = time.Duration(stored.Refresh.View2DIntervalMs) * time.Millisecond
	}
	if stored.Refresh.View3DIntervalMs > 0 {
		cfg.Refresh.View3DInterval = time.Duration(stored.Refresh.View3DIntervalMs) * time.Millisecond
	}

	// Montar o loop de atualização, o cliente do hub e os presenters
	loop := dispatch.NewLoop()
	client := hub.NewClient(cfg.Server)
	app := presenter.NewMainPresenter(client, loop, store, cfg)

	// Espelho Redis opcional do fluxo de dados
	mirrorService, err := mirror.NewService(cfg.Mirror)
	if err != nil {
		logger.Error("Erro ao iniciar espelho Redis", err)
	} else {
		mirrorService.Attach(client)
	}

	// Conectar ao servidor; falha aqui não encerra o cliente, a reconexão
	// fica a cargo do operador
	logger.Infof("Servidor de análise: %s", serverURL)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ConnectTimeout)
	if err := app.ConnectToServer(ctx, serverURL); err != nil {
		logger.Warnf("Conexão inicial falhou: %v", err)
	}
	cancel()

	// Log periódico de situação
	statusTicker := time.NewTicker(10 * time.Second)
	defer statusTicker.Stop()
	go func() {
		for range statusTicker.C {
			rows := app.Chart.Rows()
			logger.Infof("Situação: %s | %s | pontos: %d | M² global: %s",
				app.StatusBar.Connection().Text,
				app.StatusBar.Device().Text,
				len(app.Chart.Points()),
				rows[0].Global)
		}
	}()

	// Aguardar sinal de encerramento
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Encerrando cliente...")

	app.Close()
	client.Disconnect()
	if mirrorService != nil {
		mirrorService.Close()
	}
	loop.Close()

	logger.Info("Cliente encerrado com sucesso")
}

// levelFromString converte o nível configurado para o nível do logger
func levelFromString(level string) logger.Level {
	switch level {
	case "debug":
		return logger.DEBUG
	case "warn":
		return logger.WARN
	case "error":
		return logger.ERROR
	default:
		return logger.INFO
	}
}

// displayBanner exibe um banner de inicialização
func displayBanner() {
	banner := `
 ______  _______ _______ _______      _______ __   _ _______        __   __ _______ _______  ______
 |_____] |______ |_____| |  |  |      |_____| | \  | |_____| |        \_/   ____/ |______ |_____/
 |_____] |______ |     | |  |  |      |     | |  \_| |     | |_____    |   /_____ |______ |    \_
                                                                      CLIENT EDITION v1.0
 `
	fmt.Println(banner)
	fmt.Printf("Iniciando em %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
}
