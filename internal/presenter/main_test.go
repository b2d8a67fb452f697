package presenter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beam_go/internal/config"
	"beam_go/internal/dispatch"
	"beam_go/internal/models"
	"beam_go/internal/settings"
)

func newMainUnderTest(t *testing.T, client *fakeClient) *MainPresenter {
	loop := dispatch.NewLoop()
	t.Cleanup(loop.Close)

	exportDir := t.TempDir()
	cfg := &config.Config{
		Refresh: testRefresh(),
		Render:  config.RenderConfig{MaxChartPoints: 500, MatrixRows: 2, MatrixCols: 2},
		Export: config.ExportConfig{
			ReportDir:     filepath.Join(exportDir, "relatorios"),
			ScreenshotDir: filepath.Join(exportDir, "capturas"),
		},
	}
	store := settings.NewService(filepath.Join(t.TempDir(), "config.db"), models.Settings{
		ServerURL: "http://padrao:5000",
	})

	p := NewMainPresenter(client, loop, store, cfg)
	t.Cleanup(p.Close)
	return p
}

func waitStatus(t *testing.T, p *MainPresenter, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return p.StatusMessage() == want
	}, time.Second, 5*time.Millisecond, "status atual: %q", p.StatusMessage())
}

func TestConnectToServerSubscribesToStream(t *testing.T) {
	client := newFakeClient()
	p := newMainUnderTest(t, client)

	require.NoError(t, p.ConnectToServer(context.Background(), "http://servidor:5000"))
	assert.True(t, client.IsConnected())
	assert.Contains(t, client.commandLog(), "SubscribeToDataStream")
	waitStatus(t, p, "Conectado ao servidor")
}

func TestConnectToServerReportsFailure(t *testing.T) {
	client := newFakeClient()
	client.connectErr = errors.New("servidor fora do ar")
	p := newMainUnderTest(t, client)

	err := p.ConnectToServer(context.Background(), "http://servidor:5000")
	require.Error(t, err)
	assert.False(t, client.IsConnected())
	assert.Contains(t, p.StatusMessage(), "Falha ao conectar")
}

func TestConnectToServerToleratesStreamFailure(t *testing.T) {
	client := newFakeClient()
	client.subscribeErr = errors.New("fluxo indisponível")
	p := newMainUnderTest(t, client)

	// A conexão em si é preservada; só o fluxo de pontos fica de fora
	require.NoError(t, p.ConnectToServer(context.Background(), "http://servidor:5000"))
	assert.True(t, client.IsConnected())
	assert.Contains(t, p.StatusMessage(), "sem fluxo de dados")
}

func TestOperatorCommands(t *testing.T) {
	client := newFakeClient()
	p := newMainUnderTest(t, client)

	p.StartAcquisition()
	waitStatus(t, p, "Aquisição iniciada")

	p.StopAcquisition()
	waitStatus(t, p, "Aquisição interrompida")

	p.EmergencyStop()
	waitStatus(t, p, "Parada de emergência acionada")

	p.ResetDevice()
	waitStatus(t, p, "Instrumento reiniciado")

	assert.Equal(t, []string{
		"StartAcquisition",
		"StopAcquisition",
		"EmergencyStop",
		"ResetDevice",
	}, client.commandLog())
}

func TestCommandFailureBecomesStatus(t *testing.T) {
	client := newFakeClient()
	client.commandErr = errors.New("dispositivo ocupado")
	p := newMainUnderTest(t, client)

	p.StartAcquisition()
	require.Eventually(t, func() bool {
		return p.StatusMessage() != ""
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, p.StatusMessage(), "Falha no comando")
	assert.Contains(t, p.StatusMessage(), "dispositivo ocupado")
}

func TestAutoTestStatusRefresh(t *testing.T) {
	client := newFakeClient()
	p := newMainUnderTest(t, client)

	client.autoTest = models.AutoTestStatus{Running: true, Step: "alinhamento"}
	p.RefreshAutoTest()
	waitStatus(t, p, "Auto-teste em andamento: alinhamento")

	client.mu.Lock()
	client.autoTest = models.AutoTestStatus{Passed: 8, Failed: 1}
	client.mu.Unlock()
	p.RefreshAutoTest()
	waitStatus(t, p, "Auto-teste concluído: 8 ok, 1 falhas")
}

func TestSaveMeasurementUsesLatestResult(t *testing.T) {
	client := newFakeClient()
	client.latestResult = models.CalculationResult{MSquared: 1.3}
	client.saveID = "m-7"
	p := newMainUnderTest(t, client)

	p.SaveMeasurement("feixe de teste", "operadora", "sem observações")
	waitStatus(t, p, "Medição salva (id m-7)")

	client.mu.Lock()
	defer client.mu.Unlock()
	require.Len(t, client.savedRecords, 1)
	assert.Equal(t, "feixe de teste", client.savedRecords[0].Name)
	assert.Equal(t, 1.3, client.savedRecords[0].Result.MSquared)
}

func TestTakeScreenshotDownloadsAndWritesFile(t *testing.T) {
	client := newFakeClient()
	client.screenshotName = "spot.png"
	client.files["spot.png"] = []byte("conteudo-png")
	p := newMainUnderTest(t, client)

	p.TakeScreenshot()

	require.Eventually(t, func() bool {
		return p.StatusMessage() != "" && !p.Busy()
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, p.StatusMessage(), "Exportação concluída")

	path := filepath.Join(p.exported.ScreenshotDir, "spot.png")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("conteudo-png"), data)
}

func TestGenerateReportFailureClearsBusy(t *testing.T) {
	client := newFakeClient()
	client.reportName = "relatorio.pdf"
	// Nenhum arquivo registrado: o download falha
	p := newMainUnderTest(t, client)

	p.GenerateReport("pdf")

	require.Eventually(t, func() bool {
		return p.StatusMessage() != "" && !p.Busy()
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, p.StatusMessage(), "Falha ao exportar relatório")
}

func TestSettingsRoundTripThroughStore(t *testing.T) {
	client := newFakeClient()
	p := newMainUnderTest(t, client)

	loaded, err := p.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "http://padrao:5000", loaded.ServerURL)

	loaded.ServerURL = "http://novo:5000"
	require.NoError(t, p.SaveSettings(loaded, "Mudança de servidor"))
	assert.Equal(t, "http://novo:5000", p.Settings().ServerURL)
	assert.Empty(t, client.pushedSettings(), "desconectado, nada é enviado ao servidor")

	reloaded, err := p.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "http://novo:5000", reloaded.ServerURL)
}

func TestSaveSettingsPushesToServerWhenConnected(t *testing.T) {
	client := newFakeClient()
	client.connected = true
	p := newMainUnderTest(t, client)

	updated := models.Settings{ServerURL: "http://remoto:5000"}
	require.NoError(t, p.SaveSettings(updated, "Ajuste"))
	waitStatus(t, p, "Configurações salvas")

	pushed := client.pushedSettings()
	require.Len(t, pushed, 1)
	assert.Equal(t, "http://remoto:5000", pushed[0].ServerURL)
}

func TestSaveSettingsKeepsLocalCopyOnPushFailure(t *testing.T) {
	client := newFakeClient()
	client.connected = true
	client.updateErr = errors.New("sem permissão")
	p := newMainUnderTest(t, client)

	require.NoError(t, p.SaveSettings(models.Settings{ServerURL: "http://x:5000"}, "Ajuste"))
	assert.Contains(t, p.StatusMessage(), "servidor não atualizado")
	assert.Equal(t, "http://x:5000", p.Settings().ServerURL)
}

func TestRemoteDatabaseProbe(t *testing.T) {
	client := newFakeClient()
	client.dbTestResult = true
	p := newMainUnderTest(t, client)

	p.TestRemoteDatabase(models.RemoteDBSettings{Host: "10.0.0.9"})
	waitStatus(t, p, "Banco remoto acessível")

	client.mu.Lock()
	client.dbTestResult = false
	client.mu.Unlock()
	p.TestRemoteDatabase(models.RemoteDBSettings{Host: "10.0.0.9"})
	waitStatus(t, p, "Banco remoto inacessível")
}
