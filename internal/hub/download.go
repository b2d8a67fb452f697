package hub

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Caminho de download de arquivos exportados, relativo à URL do servidor
const downloadPath = "/api/export/download/"

var downloadClient = &http.Client{Timeout: 60 * time.Second}

// DownloadFile baixa um arquivo exportado pelo servidor. Ao contrário das
// demais operações, usa um canal HTTP simples em vez da conexão persistente,
// mas exige que uma URL de servidor tenha sido registrada por Connect.
func (c *Client) DownloadFile(filename string) ([]byte, error) {
	serverURL := c.ServerURL()
	if serverURL == "" {
		return nil, ErrNotConnected
	}
	if filename == "" {
		return nil, fmt.Errorf("nome de arquivo não informado")
	}

	fileURL := serverURL + downloadPath + url.PathEscape(filename)

	resp, err := downloadClient.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("erro ao baixar %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("erro ao baixar %s: servidor respondeu %s", filename, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler conteúdo de %s: %w", filename, err)
	}

	return data, nil
}
