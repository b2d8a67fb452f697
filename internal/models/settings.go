package models

import "time"

// Settings é o registro único de configurações persistido localmente.
// Existe sempre exatamente uma linha "corrente"; cada gravação gera uma
// entrada no histórico com o snapshot JSON anterior.
type Settings struct {
	ServerURL string            `json:"serverUrl"`
	Device    DeviceSettings    `json:"device"`
	Algorithm AlgorithmSettings `json:"algorithm"`
	Export    ExportSettings    `json:"export"`
	RemoteDB  RemoteDBSettings  `json:"remoteDb"`
	Refresh   RefreshSettings   `json:"refresh"`
	Logging   LoggingSettings   `json:"logging"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// DeviceSettings contém os parâmetros de conexão com o instrumento
type DeviceSettings struct {
	Port      string `json:"port"`
	BaudRate  int    `json:"baudRate"`
	Address   int    `json:"address"`
	TimeoutMs int    `json:"timeoutMs"`
}

// AlgorithmSettings contém os valores padrão dos parâmetros de análise
type AlgorithmSettings struct {
	Magnification      float64 `json:"magnification"`
	WavelengthNm       float64 `json:"wavelengthNm"`
	FocalLengthMm      float64 `json:"focalLengthMm"`
	SamplesPerPosition int     `json:"samplesPerPosition"`
}

// ExportSettings contém os diretórios de exportação
type ExportSettings struct {
	ReportDir     string `json:"reportDir"`
	ScreenshotDir string `json:"screenshotDir"`
}

// RemoteDBSettings contém as opções do banco de dados remoto de medições
type RemoteDBSettings struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password"`
}

// RefreshSettings contém os intervalos de atualização da interface (ms)
type RefreshSettings struct {
	ChartIntervalMs  int `json:"chartIntervalMs"`
	View2DIntervalMs int `json:"view2DIntervalMs"`
	View3DIntervalMs int `json:"view3DIntervalMs"`
}

// LoggingSettings contém as opções de log da aplicação
type LoggingSettings struct {
	Level       string `json:"level"`
	FileEnabled bool   `json:"fileEnabled"`
	Dir         string `json:"dir"`
}

// SettingsHistoryEntry é uma entrada do histórico de configurações
type SettingsHistoryEntry struct {
	ID          int64     `json:"id"`
	Snapshot    string    `json:"snapshot"` // Snapshot JSON do registro gravado
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
