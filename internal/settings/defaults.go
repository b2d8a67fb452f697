package settings

import (
	"beam_go/internal/config"
	"beam_go/internal/models"
)

// DefaultsFromConfig monta o registro de configurações padrão usado na
// primeira execução, a partir do arquivo de configuração da aplicação
func DefaultsFromConfig(cfg *config.Config) models.Settings {
	return models.Settings{
		ServerURL: cfg.Server.URL,
		Device: models.DeviceSettings{
			Port:      "COM1",
			BaudRate:  115200,
			Address:   1,
			TimeoutMs: 3000,
		},
		Algorithm: models.AlgorithmSettings{
			Magnification:      1.0,
			WavelengthNm:       1064,
			FocalLengthMm:      250,
			SamplesPerPosition: 10,
		},
		Export: models.ExportSettings{
			ReportDir:     cfg.Export.ReportDir,
			ScreenshotDir: cfg.Export.ScreenshotDir,
		},
		RemoteDB: models.RemoteDBSettings{
			Enabled: false,
			Host:    "localhost",
			Port:    5432,
		},
		Refresh: models.RefreshSettings{
			ChartIntervalMs:  int(cfg.Refresh.ChartInterval.Milliseconds()),
			View2DIntervalMs: int(cfg.Refresh.View2DInterval.Milliseconds()),
			View3DIntervalMs: int(cfg.Refresh.View3DInterval.Milliseconds()),
		},
		Logging: models.LoggingSettings{
			Level:       cfg.Logging.Level,
			FileEnabled: cfg.Logging.FileEnabled,
			Dir:         cfg.Logging.Dir,
		},
	}
}
