package presenter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"beam_go/internal/config"
	"beam_go/internal/dispatch"
	"beam_go/internal/models"
	"beam_go/internal/settings"
)

// Connector estende o APIClient com o ciclo de vida da conexão, que só o
// presenter principal comanda
type Connector interface {
	APIClient
	Connect(ctx context.Context, serverURL string) error
	Disconnect()
}

// MainPresenter compõe os demais presenters e expõe os comandos do operador:
// iniciar/parar aquisição, parada de emergência, reset do instrumento,
// captura de tela, relatório, gravação no banco, auto-teste e configurações.
// Falhas de comando viram mensagem de status, nunca se propagam.
type MainPresenter struct {
	client   Connector
	loop     *dispatch.Loop
	store    *settings.Service
	exported config.ExportConfig

	Chart         *ChartPresenter
	Visualization *VisualizationPresenter
	StatusBar     *StatusBarPresenter

	mu            sync.RWMutex
	busy          bool
	statusMessage string
	current       models.Settings
}

// NewMainPresenter cria o presenter principal e seus filhos
func NewMainPresenter(client Connector, loop *dispatch.Loop, store *settings.Service, cfg *config.Config) *MainPresenter {
	return &MainPresenter{
		client:        client,
		loop:          loop,
		store:         store,
		exported:      cfg.Export,
		Chart:         NewChartPresenter(client, loop, cfg.Refresh, cfg.Render),
		Visualization: NewVisualizationPresenter(client, loop, cfg.Refresh, cfg.Render),
		StatusBar:     NewStatusBarPresenter(client, loop, cfg.Refresh),
	}
}

// ConnectToServer conecta ao servidor registrado nas configurações e assina
// o fluxo de pontos brutos. Connect/Disconnect são serializados por aqui.
func (p *MainPresenter) ConnectToServer(ctx context.Context, serverURL string) error {
	if err := p.client.Connect(ctx, serverURL); err != nil {
		p.setStatus(fmt.Sprintf("Falha ao conectar: %v", err))
		return err
	}

	if err := p.client.SubscribeToDataStream(); err != nil {
		p.setStatus(fmt.Sprintf("Conectado, mas sem fluxo de dados: %v", err))
		return nil
	}

	p.setStatus("Conectado ao servidor")
	return nil
}

// DisconnectFromServer encerra a conexão com o servidor
func (p *MainPresenter) DisconnectFromServer() {
	p.client.Disconnect()
	p.setStatus("Desconectado do servidor")
}

// StartAcquisition inicia a aquisição
func (p *MainPresenter) StartAcquisition() {
	p.runCommand("Aquisição iniciada", p.client.StartAcquisition)
}

// StopAcquisition interrompe a aquisição
func (p *MainPresenter) StopAcquisition() {
	p.runCommand("Aquisição interrompida", p.client.StopAcquisition)
}

// EmergencyStop aciona a parada de emergência
func (p *MainPresenter) EmergencyStop() {
	p.runCommand("Parada de emergência acionada", p.client.EmergencyStop)
}

// ResetDevice reinicia o instrumento
func (p *MainPresenter) ResetDevice() {
	p.runCommand("Instrumento reiniciado", p.client.ResetDevice)
}

// StartAutoTest inicia o auto-teste do instrumento
func (p *MainPresenter) StartAutoTest() {
	p.runCommand("Auto-teste iniciado", p.client.StartAutoTest)
}

// RefreshAutoTest consulta o andamento do auto-teste e o reflete no status
func (p *MainPresenter) RefreshAutoTest() {
	p.loop.Background(
		func() (interface{}, error) {
			status, err := p.client.GetAutoTestStatus()
			return status, err
		},
		func(result interface{}, err error) {
			if err != nil {
				p.setStatus(fmt.Sprintf("Falha ao consultar auto-teste: %v", err))
				return
			}
			status := result.(models.AutoTestStatus)
			if status.Running {
				p.setStatus(fmt.Sprintf("Auto-teste em andamento: %s", status.Step))
				return
			}
			p.setStatus(fmt.Sprintf("Auto-teste concluído: %d ok, %d falhas", status.Passed, status.Failed))
		},
	)
}

// SaveMeasurement persiste o último resultado de análise no banco do servidor
func (p *MainPresenter) SaveMeasurement(name, operator, notes string) {
	p.loop.Background(
		func() (interface{}, error) {
			result, err := p.client.GetLatestAnalysisResult()
			if err != nil {
				return nil, err
			}
			return p.client.SaveMeasurement(models.MeasurementRecord{
				Name:     name,
				Operator: operator,
				Notes:    notes,
				Result:   result,
			})
		},
		func(result interface{}, err error) {
			if err != nil {
				p.setStatus(fmt.Sprintf("Falha ao salvar medição: %v", err))
				return
			}
			p.setStatus(fmt.Sprintf("Medição salva (id %v)", result))
		},
	)
}

// TakeScreenshot gera uma captura no servidor, baixa o arquivo e o grava no
// diretório de capturas
func (p *MainPresenter) TakeScreenshot() {
	p.export("captura de tela", p.exported.ScreenshotDir, p.client.GenerateScreenshot)
}

// GenerateReport gera um relatório no servidor, baixa o arquivo e o grava no
// diretório de relatórios
func (p *MainPresenter) GenerateReport(format string) {
	p.export("relatório", p.exported.ReportDir, func() (string, error) {
		return p.client.GenerateReport(format)
	})
}

// export executa o fluxo comum de exportação: gerar, baixar, gravar em disco
func (p *MainPresenter) export(label, dir string, generate func() (string, error)) {
	p.setBusy(true)
	p.loop.Background(
		func() (interface{}, error) {
			filename, err := generate()
			if err != nil {
				return nil, err
			}
			data, err := p.client.DownloadFile(filename)
			if err != nil {
				return nil, err
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
			path := filepath.Join(dir, filename)
			if err := os.WriteFile(path, data, 0644); err != nil {
				return nil, err
			}
			return path, nil
		},
		func(result interface{}, err error) {
			p.setBusy(false)
			if err != nil {
				p.setStatus(fmt.Sprintf("Falha ao exportar %s: %v", label, err))
				return
			}
			p.setStatus(fmt.Sprintf("Exportação concluída: %v", result))
		},
	)
}

// LoadSettings carrega o registro corrente de configurações
func (p *MainPresenter) LoadSettings() (models.Settings, error) {
	loaded, err := p.store.Load()
	if err != nil {
		return models.Settings{}, err
	}
	p.mu.Lock()
	p.current = loaded
	p.mu.Unlock()
	return loaded, nil
}

// SaveSettings grava o registro corrente e, quando conectado, empurra a
// atualização para o servidor
func (p *MainPresenter) SaveSettings(updated models.Settings, description string) error {
	if err := p.store.Save(updated, description); err != nil {
		return err
	}

	p.mu.Lock()
	p.current = updated
	p.mu.Unlock()

	if p.client.IsConnected() {
		if err := p.client.UpdateSettings(updated); err != nil {
			p.setStatus(fmt.Sprintf("Configurações salvas localmente; servidor não atualizado: %v", err))
			return nil
		}
	}

	p.setStatus("Configurações salvas")
	return nil
}

// TestRemoteDatabase testa a conexão do servidor com o banco remoto
func (p *MainPresenter) TestRemoteDatabase(db models.RemoteDBSettings) {
	p.loop.Background(
		func() (interface{}, error) {
			ok, err := p.client.TestDatabaseConnection(db)
			return ok, err
		},
		func(result interface{}, err error) {
			if err != nil {
				p.setStatus(fmt.Sprintf("Falha no teste do banco remoto: %v", err))
				return
			}
			if ok, _ := result.(bool); ok {
				p.setStatus("Banco remoto acessível")
				return
			}
			p.setStatus("Banco remoto inacessível")
		},
	)
}

// Settings retorna o registro de configurações em memória
func (p *MainPresenter) Settings() models.Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// StatusMessage retorna a mensagem de status corrente
func (p *MainPresenter) StatusMessage() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.statusMessage
}

// Busy informa se há comando longo em andamento
func (p *MainPresenter) Busy() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.busy
}

// Close encerra os presenters filhos. Deve ser chamado antes de descartar o
// presenter principal; as assinaturas não se desfazem sozinhas.
func (p *MainPresenter) Close() {
	p.Chart.Close()
	p.Visualization.Close()
	p.StatusBar.Close()
}

// runCommand executa uma operação do hub em segundo plano e converte o
// desfecho em mensagem de status
func (p *MainPresenter) runCommand(okMessage string, op func() error) {
	p.loop.Background(
		func() (interface{}, error) {
			return nil, op()
		},
		func(_ interface{}, err error) {
			if err != nil {
				p.setStatus(fmt.Sprintf("Falha no comando: %v", err))
				return
			}
			p.setStatus(okMessage)
		},
	)
}

func (p *MainPresenter) setStatus(message string) {
	p.loop.Run(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.statusMessage = message
	})
}

func (p *MainPresenter) setBusy(busy bool) {
	p.loop.Run(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.busy = busy
	})
}
