package models

import "encoding/json"

// Tipos de mensagem trocadas com o hub
const (
	HubTypeInvocation = "invocation" // Chamada RPC do cliente para o servidor
	HubTypeCompletion = "completion" // Resposta do servidor a uma invocação
	HubTypeEvent      = "event"      // Notificação push do servidor
	HubTypePing       = "ping"
	HubTypePong       = "pong"
)

// HubMessage é o envelope de todas as mensagens do protocolo do hub.
// O campo ID correlaciona invocações com suas respostas.
type HubMessage struct {
	Type   string          `json:"type"`
	ID     string          `json:"id,omitempty"`
	Method string          `json:"method,omitempty"` // Nome da operação remota (invocação)
	Event  string          `json:"event,omitempty"`  // Nome da notificação (push)
	Args   json.RawMessage `json:"args,omitempty"`   // Argumentos da invocação
	Result json.RawMessage `json:"result,omitempty"` // Resultado da invocação
	Data   json.RawMessage `json:"data,omitempty"`   // Payload da notificação
	Error  string          `json:"error,omitempty"`  // Erro reportado pelo servidor
}

// Operações remotas expostas pelo hub de análise
const (
	MethodStartAcquisition          = "StartAcquisition"
	MethodStopAcquisition           = "StopAcquisition"
	MethodEmergencyStop             = "EmergencyStop"
	MethodGetAcquisitionStatus      = "GetAcquisitionStatus"
	MethodResetDevice               = "ResetDevice"
	MethodGetDeviceStatus           = "GetDeviceStatus"
	MethodRecalculateAnalysis       = "RecalculateAnalysis"
	MethodGetLatestAnalysisResult   = "GetLatestAnalysisResult"
	MethodSaveMeasurement           = "SaveMeasurement"
	MethodQueryMeasurements         = "QueryMeasurements"
	MethodDeleteMeasurement         = "DeleteMeasurement"
	MethodGenerateScreenshot        = "GenerateScreenshot"
	MethodGenerateReport            = "GenerateReport"
	MethodGetSettings               = "GetSettings"
	MethodUpdateSettings            = "UpdateSettings"
	MethodTestDatabaseConnection    = "TestDatabaseConnection"
	MethodStartAutoTest             = "StartAutoTest"
	MethodGetAutoTestStatus         = "GetAutoTestStatus"
	MethodSubscribeToDataStream     = "SubscribeToDataStream"
	MethodUnsubscribeFromDataStream = "UnsubscribeFromDataStream"
)

// Notificações push enviadas pelo hub
const (
	EventRawDataReceived          = "OnRawDataReceived"
	EventCalculationCompleted     = "OnCalculationCompleted"
	EventVisualizationDataUpdated = "OnVisualizationDataUpdated"
	EventDeviceStatusChanged      = "OnDeviceStatusChanged"
	EventAcquisitionStatusChanged = "OnAcquisitionStatusChanged"
	EventErrorOccurred            = "OnErrorOccurred"
	EventProgressUpdated          = "OnProgressUpdated"
	EventLogMessage               = "OnLogMessage"
)
