package hub

import (
	"encoding/json"
	"sync"

	"beam_go/internal/models"
	"beam_go/pkg/logger"
)

// Eventos internos de ciclo de vida da conexão, além dos push do servidor
const (
	eventConnected    = "connected"
	eventDisconnected = "disconnected"
)

// Subscription é o vínculo de um assinante com um evento. Cancel remove o
// assinante; cancelar mais de uma vez é inofensivo. Todo presenter deve
// guardar as assinaturas que criou e cancelá-las ao ser encerrado.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Cancel desfaz a assinatura
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// NewSubscription cria uma assinatura com a função de cancelamento dada.
// Permite que implementações alternativas do cliente (dublês de teste,
// decoradores) participem do mesmo contrato de assinatura.
func NewSubscription(cancel func()) *Subscription {
	if cancel == nil {
		cancel = func() {}
	}
	return &Subscription{cancel: cancel}
}

// eventHub mantém os assinantes registrados por nome de evento. Os handlers
// são disparados na goroutine do transporte; é responsabilidade do assinante
// saltar para o loop de atualização quando necessário.
type eventHub struct {
	mu       sync.RWMutex
	nextID   int64
	handlers map[string]map[int64]func(json.RawMessage)
}

func newEventHub() *eventHub {
	return &eventHub{
		handlers: make(map[string]map[int64]func(json.RawMessage)),
	}
}

// subscribe registra um handler e devolve a assinatura correspondente
func (e *eventHub) subscribe(event string, handler func(json.RawMessage)) *Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID

	if e.handlers[event] == nil {
		e.handlers[event] = make(map[int64]func(json.RawMessage))
	}
	e.handlers[event][id] = handler

	return &Subscription{cancel: func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.handlers[event], id)
	}}
}

// dispatch entrega o payload a todos os assinantes do evento
func (e *eventHub) dispatch(event string, data json.RawMessage) {
	e.mu.RLock()
	handlers := make([]func(json.RawMessage), 0, len(e.handlers[event]))
	for _, h := range e.handlers[event] {
		handlers = append(handlers, h)
	}
	e.mu.RUnlock()

	for _, h := range handlers {
		h(data)
	}
}

// decodeInto desserializa o payload de um evento; falhas são registradas em
// nível de debug e o ciclo de atualização correspondente é descartado
func decodeInto(event string, data json.RawMessage, v interface{}) bool {
	if err := json.Unmarshal(data, v); err != nil {
		logger.Debugf("Payload inválido no evento %s: %v", event, err)
		return false
	}
	return true
}

// OnConnected assina a notificação de conexão estabelecida
func (c *Client) OnConnected(handler func()) *Subscription {
	return c.events.subscribe(eventConnected, func(json.RawMessage) { handler() })
}

// OnDisconnected assina a notificação de conexão perdida ou encerrada
func (c *Client) OnDisconnected(handler func()) *Subscription {
	return c.events.subscribe(eventDisconnected, func(json.RawMessage) { handler() })
}

// OnRawDataReceived assina os pontos brutos emitidos durante a aquisição
func (c *Client) OnRawDataReceived(handler func(models.RawDataPoint)) *Subscription {
	return c.events.subscribe(models.EventRawDataReceived, func(data json.RawMessage) {
		var point models.RawDataPoint
		if decodeInto(models.EventRawDataReceived, data, &point) {
			handler(point)
		}
	})
}

// OnCalculationCompleted assina os resultados de análise concluídos
func (c *Client) OnCalculationCompleted(handler func(models.CalculationResult)) *Subscription {
	return c.events.subscribe(models.EventCalculationCompleted, func(data json.RawMessage) {
		var result models.CalculationResult
		if decodeInto(models.EventCalculationCompleted, data, &result) {
			handler(result)
		}
	})
}

// OnVisualizationDataUpdated assina os payloads de visualização
func (c *Client) OnVisualizationDataUpdated(handler func(models.VisualizationData)) *Subscription {
	return c.events.subscribe(models.EventVisualizationDataUpdated, func(data json.RawMessage) {
		var payload models.VisualizationData
		if decodeInto(models.EventVisualizationDataUpdated, data, &payload) {
			handler(payload)
		}
	})
}

// OnDeviceStatusChanged assina as mudanças de status do instrumento
func (c *Client) OnDeviceStatusChanged(handler func(models.DeviceStatus)) *Subscription {
	return c.events.subscribe(models.EventDeviceStatusChanged, func(data json.RawMessage) {
		var status models.DeviceStatus
		if decodeInto(models.EventDeviceStatusChanged, data, &status) {
			handler(status)
		}
	})
}

// OnAcquisitionStatusChanged assina as mudanças de status da aquisição
func (c *Client) OnAcquisitionStatusChanged(handler func(models.AcquisitionStatus)) *Subscription {
	return c.events.subscribe(models.EventAcquisitionStatusChanged, func(data json.RawMessage) {
		var status models.AcquisitionStatus
		if decodeInto(models.EventAcquisitionStatusChanged, data, &status) {
			handler(status)
		}
	})
}

// OnErrorOccurred assina os erros assíncronos reportados pelo servidor
func (c *Client) OnErrorOccurred(handler func(models.ErrorNotification)) *Subscription {
	return c.events.subscribe(models.EventErrorOccurred, func(data json.RawMessage) {
		var notification models.ErrorNotification
		if decodeInto(models.EventErrorOccurred, data, &notification) {
			handler(notification)
		}
	})
}

// OnProgressUpdated assina o progresso de operações longas
func (c *Client) OnProgressUpdated(handler func(models.ProgressUpdate)) *Subscription {
	return c.events.subscribe(models.EventProgressUpdated, func(data json.RawMessage) {
		var progress models.ProgressUpdate
		if decodeInto(models.EventProgressUpdated, data, &progress) {
			handler(progress)
		}
	})
}

// OnLogMessage assina as mensagens de log encaminhadas pelo servidor
func (c *Client) OnLogMessage(handler func(models.LogMessage)) *Subscription {
	return c.events.subscribe(models.EventLogMessage, func(data json.RawMessage) {
		var msg models.LogMessage
		if decodeInto(models.EventLogMessage, data, &msg) {
			handler(msg)
		}
	})
}
