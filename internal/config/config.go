package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

// Config representa a configuração completa da aplicação
type Config struct {
	Server    ServerConfig    `json:"server"`
	Refresh   RefreshConfig   `json:"refresh"`
	Render    RenderConfig    `json:"render"`
	Export    ExportConfig    `json:"export"`
	Mirror    MirrorConfig    `json:"mirror"`
	Discovery DiscoveryConfig `json:"discovery"`
	Logging   LoggingConfig   `json:"logging"`
}

// ServerConfig contém as configurações de acesso ao serviço de análise
type ServerConfig struct {
	URL            string        `json:"url"`            // URL base, ex.: http://192.168.1.10:5000
	ConnectTimeout time.Duration `json:"connectTimeout"` // Timeout da conexão inicial
	InvokeTimeout  time.Duration `json:"invokeTimeout"`  // Timeout de cada invocação RPC
}

// RefreshConfig contém os intervalos de atualização por classe de exibição
type RefreshConfig struct {
	ChartInterval  time.Duration `json:"chartInterval"`  // Gráficos e parâmetros
	View2DInterval time.Duration `json:"view2DInterval"` // Spot 2D
	View3DInterval time.Duration `json:"view3DInterval"` // Superfície 3D
}

// RenderConfig contém os limites de redução de dados para renderização
type RenderConfig struct {
	MaxChartPoints int `json:"maxChartPoints"` // Máximo de pontos por série
	MatrixRows     int `json:"matrixRows"`     // Linhas alvo das matrizes 3D
	MatrixCols     int `json:"matrixCols"`     // Colunas alvo das matrizes 3D
}

// ExportConfig contém os diretórios de destino de relatórios e capturas
type ExportConfig struct {
	ReportDir     string `json:"reportDir"`
	ScreenshotDir string `json:"screenshotDir"`
}

// MirrorConfig contém as configurações do espelho Redis do fluxo de dados
type MirrorConfig struct {
	Enabled        bool   `json:"enabled"`
	Host           string `json:"host"`
	Port           int    `json:"port"`
	Password       string `json:"password"`
	DB             int    `json:"db"`
	Prefix         string `json:"prefix"`
	MaxHistorySize int    `json:"maxHistorySize"`
}

// DiscoveryConfig contém as configurações de descoberta do serviço na rede
type DiscoveryConfig struct {
	Enabled bool          `json:"enabled"`
	Timeout time.Duration `json:"timeout"`
}

// LoggingConfig contém as configurações de log
type LoggingConfig struct {
	Level       string `json:"level"`
	Dir         string `json:"dir"`
	FileEnabled bool   `json:"fileEnabled"`
}

// Load carrega a configuração do arquivo ou usa valores padrão
func Load() (*Config, error) {
	config := getDefaultConfig()

	// Verificar se existe um arquivo de configuração
	if _, err := os.Stat("config.json"); err == nil {
		file, err := os.Open("config.json")
		if err != nil {
			return nil, err
		}
		defer file.Close()

		decoder := json.NewDecoder(file)
		if err := decoder.Decode(&config); err != nil {
			return nil, err
		}
	}

	// Sobrescrever com variáveis de ambiente, se existirem
	applyEnvironmentOverrides(&config)

	return &config, nil
}

// applyEnvironmentOverrides sobrescreve configurações com variáveis de ambiente
func applyEnvironmentOverrides(config *Config) {
	if v := os.Getenv("BEAM_SERVER_URL"); v != "" {
		config.Server.URL = v
	}
	if v := os.Getenv("BEAM_MIRROR_HOST"); v != "" {
		config.Mirror.Host = v
	}
	if v := os.Getenv("BEAM_MIRROR_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Mirror.Port = port
		}
	}
	if v := os.Getenv("BEAM_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
