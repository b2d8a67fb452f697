package presenter

import (
	"beam_go/internal/hub"
	"beam_go/internal/models"
)

// APIClient é a abstração do cliente do hub consumida pelos presenters.
// *hub.Client a implementa; os testes usam um dublê.
type APIClient interface {
	IsConnected() bool
	ServerURL() string

	OnConnected(func()) *hub.Subscription
	OnDisconnected(func()) *hub.Subscription
	OnRawDataReceived(func(models.RawDataPoint)) *hub.Subscription
	OnCalculationCompleted(func(models.CalculationResult)) *hub.Subscription
	OnVisualizationDataUpdated(func(models.VisualizationData)) *hub.Subscription
	OnDeviceStatusChanged(func(models.DeviceStatus)) *hub.Subscription
	OnAcquisitionStatusChanged(func(models.AcquisitionStatus)) *hub.Subscription
	OnErrorOccurred(func(models.ErrorNotification)) *hub.Subscription
	OnProgressUpdated(func(models.ProgressUpdate)) *hub.Subscription
	OnLogMessage(func(models.LogMessage)) *hub.Subscription

	StartAcquisition() error
	StopAcquisition() error
	EmergencyStop() error
	GetAcquisitionStatus() (models.AcquisitionStatus, error)
	ResetDevice() error
	GetDeviceStatus() (models.DeviceStatus, error)
	RecalculateAnalysis(models.RecalculateParams) error
	GetLatestAnalysisResult() (models.CalculationResult, error)
	SaveMeasurement(models.MeasurementRecord) (string, error)
	QueryMeasurements(models.MeasurementQuery) ([]models.MeasurementRecord, error)
	DeleteMeasurement(string) error
	GenerateScreenshot() (string, error)
	GenerateReport(string) (string, error)
	GetSettings() (models.Settings, error)
	UpdateSettings(models.Settings) error
	TestDatabaseConnection(models.RemoteDBSettings) (bool, error)
	StartAutoTest() error
	GetAutoTestStatus() (models.AutoTestStatus, error)
	SubscribeToDataStream() error
	UnsubscribeFromDataStream() error
	DownloadFile(string) ([]byte, error)
}

// ParameterRow é uma linha exibida na tabela de parâmetros do feixe.
// O conjunto de linhas é fixo; os valores são reformatados a cada resultado.
type ParameterRow struct {
	Name   string
	Global string
	X      string
	Y      string
}

// ConnectionDisplay são os atributos de exibição do estado de conexão
type ConnectionDisplay struct {
	Text  string
	Color string
}

// connectionDisplay mapeia o estado de conexão para atributos de exibição.
// Função pura, sem dependência de framework de interface.
func connectionDisplay(connected bool) ConnectionDisplay {
	if connected {
		return ConnectionDisplay{Text: "Conectado", Color: "#2E7D32"}
	}
	return ConnectionDisplay{Text: "Desconectado", Color: "#C62828"}
}

// deviceDisplay mapeia o status do instrumento para atributos de exibição
func deviceDisplay(status models.DeviceStatus) ConnectionDisplay {
	switch {
	case !status.Connected:
		return ConnectionDisplay{Text: "Instrumento offline", Color: "#C62828"}
	case status.State == "measuring":
		return ConnectionDisplay{Text: "Medindo", Color: "#1565C0"}
	case status.State == "error":
		return ConnectionDisplay{Text: "Falha no instrumento", Color: "#C62828"}
	default:
		return ConnectionDisplay{Text: "Instrumento pronto", Color: "#2E7D32"}
	}
}
