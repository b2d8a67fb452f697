package models

import "time"

// RawDataPoint representa um ponto bruto produzido durante a aquisição
type RawDataPoint struct {
	Position  float64   `json:"position"`  // Posição do detector no eixo óptico (mm)
	DiameterX float64   `json:"diameterX"` // Diâmetro do feixe no eixo X (µm)
	DiameterY float64   `json:"diameterY"` // Diâmetro do feixe no eixo Y (µm)
	Timestamp time.Time `json:"timestamp"`
}

// CalculationResult armazena o resultado de uma análise de qualidade de feixe.
// Cada evento substitui integralmente o resultado anterior exibido.
type CalculationResult struct {
	MSquared       float64   `json:"mSquared"`       // Fator M² global
	MSquaredX      float64   `json:"mSquaredX"`      // Fator M² no eixo X
	MSquaredY      float64   `json:"mSquaredY"`      // Fator M² no eixo Y
	PeakPositionX  float64   `json:"peakPositionX"`  // Posição do pico (mm)
	PeakPositionY  float64   `json:"peakPositionY"`
	WaistPositionX float64   `json:"waistPositionX"` // Posição da cintura (mm)
	WaistPositionY float64   `json:"waistPositionY"`
	WaistDiameterX float64   `json:"waistDiameterX"` // Diâmetro da cintura (µm)
	WaistDiameterY float64   `json:"waistDiameterY"`
	FittedCurveX   []float64 `json:"fittedCurveX,omitempty"` // Curva ajustada, opcional
	FittedCurveY   []float64 `json:"fittedCurveY,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// VisualizationData é o payload de visualização enviado pelo servidor.
// As matrizes chegam serializadas em JSON e são decodificadas sob demanda.
type VisualizationData struct {
	SpotMatrix  string    `json:"spotMatrix"`  // Matriz 2D de intensidade serializada
	EnergyDistX string    `json:"energyDistX"` // Distribuição de energia no eixo X
	EnergyDistY string    `json:"energyDistY"` // Distribuição de energia no eixo Y
	SpotCenterX float64   `json:"spotCenterX"` // Coordenada do centro do spot
	SpotCenterY float64   `json:"spotCenterY"`
	Timestamp   time.Time `json:"timestamp"`
}

// SurfacePoint é uma tupla (X, Y, Z) usada na renderização 3D
type SurfacePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DeviceStatus representa o status atual do instrumento
type DeviceStatus struct {
	Connected bool      `json:"connected"`
	State     string    `json:"state"` // "idle", "measuring", "error", etc.
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// AcquisitionStatus representa o andamento de uma aquisição
type AcquisitionStatus struct {
	Running     bool      `json:"running"`
	CurrentStep int       `json:"currentStep"`
	TotalSteps  int       `json:"totalSteps"`
	State       string    `json:"state"`
	Timestamp   time.Time `json:"timestamp"`
}

// ProgressUpdate representa o progresso de uma operação longa no servidor
type ProgressUpdate struct {
	Operation string    `json:"operation"`
	Percent   float64   `json:"percent"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorNotification é um erro assíncrono reportado pelo servidor
type ErrorNotification struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// LogMessage é uma mensagem de log encaminhada pelo servidor
type LogMessage struct {
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// RecalculateParams são os parâmetros locais de uma reanálise
type RecalculateParams struct {
	Magnification float64 `json:"magnification"` // Deve ser > 0
	WavelengthNm  float64 `json:"wavelengthNm,omitempty"`
	FocalLengthMm float64 `json:"focalLengthMm,omitempty"`
}

// MeasurementRecord é uma medição persistida no banco do servidor
type MeasurementRecord struct {
	ID        string            `json:"id,omitempty"`
	Name      string            `json:"name"`
	Operator  string            `json:"operator,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	Result    CalculationResult `json:"result"`
	CreatedAt time.Time         `json:"createdAt,omitempty"`
}

// MeasurementQuery filtra medições persistidas no servidor
type MeasurementQuery struct {
	From     time.Time `json:"from,omitempty"`
	To       time.Time `json:"to,omitempty"`
	Operator string    `json:"operator,omitempty"`
	Limit    int       `json:"limit,omitempty"`
}

// AutoTestStatus representa o andamento do auto-teste do instrumento
type AutoTestStatus struct {
	Running   bool      `json:"running"`
	Step      string    `json:"step,omitempty"`
	Passed    int       `json:"passed"`
	Failed    int       `json:"failed"`
	Report    string    `json:"report,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ExportResult é a resposta das operações de captura de tela e relatório.
// O arquivo gerado fica disponível para download pelo nome retornado.
type ExportResult struct {
	FileName string `json:"fileName"`
}
