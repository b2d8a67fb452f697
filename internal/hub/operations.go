package hub

import (
	"fmt"

	"beam_go/internal/models"
)

// Operações de requisição/resposta do hub. Todas falham imediatamente com
// ErrNotConnected quando não há conexão ativa; a verificação acontece antes
// de qualquer tentativa de envio.

// StartAcquisition inicia uma aquisição no instrumento
func (c *Client) StartAcquisition() error {
	return c.invoke(models.MethodStartAcquisition, nil, nil)
}

// StopAcquisition interrompe a aquisição em andamento
func (c *Client) StopAcquisition() error {
	return c.invoke(models.MethodStopAcquisition, nil, nil)
}

// EmergencyStop aciona a parada de emergência do instrumento
func (c *Client) EmergencyStop() error {
	return c.invoke(models.MethodEmergencyStop, nil, nil)
}

// GetAcquisitionStatus consulta o status atual da aquisição
func (c *Client) GetAcquisitionStatus() (models.AcquisitionStatus, error) {
	var status models.AcquisitionStatus
	err := c.invoke(models.MethodGetAcquisitionStatus, nil, &status)
	return status, err
}

// ResetDevice reinicia o instrumento
func (c *Client) ResetDevice() error {
	return c.invoke(models.MethodResetDevice, nil, nil)
}

// GetDeviceStatus consulta o status atual do instrumento
func (c *Client) GetDeviceStatus() (models.DeviceStatus, error) {
	var status models.DeviceStatus
	err := c.invoke(models.MethodGetDeviceStatus, nil, &status)
	return status, err
}

// RecalculateAnalysis dispara uma reanálise com os parâmetros informados.
// O resultado chega pela notificação de cálculo concluído.
func (c *Client) RecalculateAnalysis(params models.RecalculateParams) error {
	return c.invoke(models.MethodRecalculateAnalysis, params, nil)
}

// GetLatestAnalysisResult consulta o último resultado de análise disponível
func (c *Client) GetLatestAnalysisResult() (models.CalculationResult, error) {
	var result models.CalculationResult
	err := c.invoke(models.MethodGetLatestAnalysisResult, nil, &result)
	return result, err
}

// SaveMeasurement persiste uma medição no banco do servidor e retorna o ID
func (c *Client) SaveMeasurement(record models.MeasurementRecord) (string, error) {
	var saved models.MeasurementRecord
	if err := c.invoke(models.MethodSaveMeasurement, record, &saved); err != nil {
		return "", err
	}
	return saved.ID, nil
}

// QueryMeasurements consulta as medições persistidas no servidor
func (c *Client) QueryMeasurements(query models.MeasurementQuery) ([]models.MeasurementRecord, error) {
	var records []models.MeasurementRecord
	err := c.invoke(models.MethodQueryMeasurements, query, &records)
	return records, err
}

// DeleteMeasurement remove uma medição persistida
func (c *Client) DeleteMeasurement(id string) error {
	if id == "" {
		return fmt.Errorf("id da medição não informado")
	}
	return c.invoke(models.MethodDeleteMeasurement, id, nil)
}

// GenerateScreenshot solicita uma captura da visualização atual e retorna o
// nome do arquivo gerado, disponível para download
func (c *Client) GenerateScreenshot() (string, error) {
	var result models.ExportResult
	if err := c.invoke(models.MethodGenerateScreenshot, nil, &result); err != nil {
		return "", err
	}
	return result.FileName, nil
}

// GenerateReport solicita a geração de um relatório no formato informado
// ("pdf", "docx") e retorna o nome do arquivo gerado
func (c *Client) GenerateReport(format string) (string, error) {
	var result models.ExportResult
	if err := c.invoke(models.MethodGenerateReport, format, &result); err != nil {
		return "", err
	}
	return result.FileName, nil
}

// GetSettings consulta as configurações vigentes no servidor
func (c *Client) GetSettings() (models.Settings, error) {
	var settings models.Settings
	err := c.invoke(models.MethodGetSettings, nil, &settings)
	return settings, err
}

// UpdateSettings envia novas configurações para o servidor
func (c *Client) UpdateSettings(settings models.Settings) error {
	return c.invoke(models.MethodUpdateSettings, settings, nil)
}

// TestDatabaseConnection testa as credenciais do banco remoto de medições
func (c *Client) TestDatabaseConnection(db models.RemoteDBSettings) (bool, error) {
	var ok bool
	err := c.invoke(models.MethodTestDatabaseConnection, db, &ok)
	return ok, err
}

// StartAutoTest inicia o auto-teste do instrumento
func (c *Client) StartAutoTest() error {
	return c.invoke(models.MethodStartAutoTest, nil, nil)
}

// GetAutoTestStatus consulta o andamento do auto-teste
func (c *Client) GetAutoTestStatus() (models.AutoTestStatus, error) {
	var status models.AutoTestStatus
	err := c.invoke(models.MethodGetAutoTestStatus, nil, &status)
	return status, err
}

// SubscribeToDataStream assina o fluxo de pontos brutos no servidor
func (c *Client) SubscribeToDataStream() error {
	return c.invoke(models.MethodSubscribeToDataStream, nil, nil)
}

// UnsubscribeFromDataStream cancela a assinatura do fluxo de pontos brutos
func (c *Client) UnsubscribeFromDataStream() error {
	return c.invoke(models.MethodUnsubscribeFromDataStream, nil, nil)
}
