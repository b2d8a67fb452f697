package config

import "time"

// getDefaultConfig retorna uma configuração padrão
func getDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			URL:            "http://localhost:5000",
			ConnectTimeout: 10 * time.Second,
			InvokeTimeout:  30 * time.Second,
		},
		Refresh: RefreshConfig{
			ChartInterval:  100 * time.Millisecond,
			View2DInterval: 200 * time.Millisecond,
			View3DInterval: 300 * time.Millisecond,
		},
		Render: RenderConfig{
			MaxChartPoints: 500,
			MatrixRows:     64,
			MatrixCols:     64,
		},
		Export: ExportConfig{
			ReportDir:     "./exports/reports",
			ScreenshotDir: "./exports/screenshots",
		},
		Mirror: MirrorConfig{
			Enabled:        false,
			Host:           "localhost",
			Port:           6379,
			Password:       "",
			DB:             0,
			Prefix:         "beam_analyzer",
			MaxHistorySize: 1000,
		},
		Discovery: DiscoveryConfig{
			Enabled: true,
			Timeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Dir:         "./logs",
			FileEnabled: true,
		},
	}
}
