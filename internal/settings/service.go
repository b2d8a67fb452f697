package settings

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"beam_go/internal/models"
	"beam_go/pkg/logger"
)

// Nome do arquivo do banco local de configurações
const dbFileName = "config.db"

// Service gerencia a persistência local das configurações. Existe sempre
// exatamente um registro corrente (linha de id 1) e um histórico append-only
// de snapshots JSON para eventual rollback. A conexão com o banco é aberta e
// fechada a cada operação; não há handle compartilhado.
type Service struct {
	dbPath   string
	defaults models.Settings
}

// NewService cria um serviço de configurações sobre o arquivo informado
func NewService(dbPath string, defaults models.Settings) *Service {
	return &Service{dbPath: dbPath, defaults: defaults}
}

// DefaultPath retorna o caminho padrão do banco de configurações, no
// diretório de dados do usuário
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("erro ao determinar diretório de configuração: %w", err)
	}
	return filepath.Join(base, "BeamAnalyzer", dbFileName), nil
}

// Load carrega o registro corrente. Na primeira execução, quando o banco
// ainda está vazio, o registro padrão é gravado e retornado.
func (s *Service) Load() (models.Settings, error) {
	db, err := s.open()
	if err != nil {
		return models.Settings{}, err
	}
	defer db.Close()

	var payload string
	err = db.QueryRow(`SELECT payload FROM settings WHERE id = 1`).Scan(&payload)
	if err == sql.ErrNoRows {
		db.Close()
		logger.Info("Banco de configurações vazio, gravando registro padrão")
		if err := s.Save(s.defaults, "Registro inicial"); err != nil {
			return models.Settings{}, err
		}
		return s.defaults, nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("erro ao carregar configurações: %w", err)
	}

	var settings models.Settings
	if err := json.Unmarshal([]byte(payload), &settings); err != nil {
		return models.Settings{}, fmt.Errorf("erro ao decodificar configurações: %w", err)
	}
	return settings, nil
}

// Save grava o registro corrente e anexa exatamente uma entrada de histórico
// com o snapshot JSON e a descrição da mudança. As duas escritas são
// sequenciais, sem transação abrangente.
func (s *Service) Save(settings models.Settings, description string) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	settings.UpdatedAt = time.Now()
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("erro ao serializar configurações: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO settings (id, payload, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		string(payload), settings.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("erro ao gravar configurações: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO settings_history (snapshot, description, created_at) VALUES (?, ?, ?)`,
		string(payload), description, time.Now().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("erro ao gravar histórico de configurações: %w", err)
	}

	return nil
}

// History retorna as entradas mais recentes do histórico, da mais nova para
// a mais antiga
func (s *Service) History(limit int) ([]models.SettingsHistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT id, snapshot, description, created_at
		FROM settings_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("erro ao consultar histórico: %w", err)
	}
	defer rows.Close()

	var entries []models.SettingsHistoryEntry
	for rows.Next() {
		var entry models.SettingsHistoryEntry
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.Snapshot, &entry.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("erro ao ler histórico: %w", err)
		}
		entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// open abre a conexão com o banco e garante o schema
func (s *Service) open() (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.dbPath), 0755); err != nil {
		return nil, fmt.Errorf("erro ao criar diretório do banco de configurações: %w", err)
	}

	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir banco de configurações: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao preparar banco de configurações: %w", err)
	}

	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	payload    TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS settings_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	snapshot    TEXT NOT NULL,
	description TEXT NOT NULL,
	created_at  TEXT NOT NULL
);`
