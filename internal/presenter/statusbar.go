package presenter

import (
	"sync"

	"beam_go/internal/config"
	"beam_go/internal/dispatch"
	"beam_go/internal/hub"
	"beam_go/internal/models"
	"beam_go/internal/render"
)

// StatusBarPresenter expõe o estado da barra de status: conexão, instrumento,
// aquisição, progresso de operações longas e a última mensagem de log do
// servidor. O progresso chega em rajadas e passa por throttle; os demais
// eventos são raros e aplicados diretamente.
type StatusBarPresenter struct {
	client APIClient
	loop   *dispatch.Loop

	progressThrottle *render.Throttle

	subs []*hub.Subscription

	pendingMu       sync.Mutex
	pendingProgress *models.ProgressUpdate

	mu          sync.RWMutex
	connection  ConnectionDisplay
	device      ConnectionDisplay
	acquisition models.AcquisitionStatus
	progress    models.ProgressUpdate
	lastLog     models.LogMessage
	lastError   models.ErrorNotification
}

// NewStatusBarPresenter cria o presenter e assina os eventos de status
func NewStatusBarPresenter(client APIClient, loop *dispatch.Loop, refresh config.RefreshConfig) *StatusBarPresenter {
	p := &StatusBarPresenter{
		client:           client,
		loop:             loop,
		progressThrottle: render.NewThrottle(refresh.ChartInterval),
		connection:       connectionDisplay(client.IsConnected()),
		device:           deviceDisplay(models.DeviceStatus{}),
	}

	p.subs = append(p.subs,
		client.OnConnected(func() { p.setConnection(true) }),
		client.OnDisconnected(func() { p.setConnection(false) }),
		client.OnDeviceStatusChanged(p.onDeviceStatus),
		client.OnAcquisitionStatusChanged(p.onAcquisitionStatus),
		client.OnProgressUpdated(p.onProgress),
		client.OnLogMessage(p.onLogMessage),
		client.OnErrorOccurred(p.onError),
	)

	return p
}

func (p *StatusBarPresenter) setConnection(connected bool) {
	p.loop.Run(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.connection = connectionDisplay(connected)
	})
}

func (p *StatusBarPresenter) onDeviceStatus(status models.DeviceStatus) {
	p.loop.Run(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.device = deviceDisplay(status)
	})
}

func (p *StatusBarPresenter) onAcquisitionStatus(status models.AcquisitionStatus) {
	p.loop.Run(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.acquisition = status
	})
}

func (p *StatusBarPresenter) onProgress(progress models.ProgressUpdate) {
	p.pendingMu.Lock()
	p.pendingProgress = &progress
	p.pendingMu.Unlock()

	p.progressThrottle.Do(func() {
		p.loop.Run(p.applyProgress)
	})
}

func (p *StatusBarPresenter) applyProgress() {
	p.pendingMu.Lock()
	progress := p.pendingProgress
	p.pendingProgress = nil
	p.pendingMu.Unlock()

	if progress == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress = *progress
}

func (p *StatusBarPresenter) onLogMessage(msg models.LogMessage) {
	p.loop.Run(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.lastLog = msg
	})
}

func (p *StatusBarPresenter) onError(notification models.ErrorNotification) {
	p.loop.Run(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.lastError = notification
	})
}

// Connection retorna os atributos de exibição do estado de conexão
func (p *StatusBarPresenter) Connection() ConnectionDisplay {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.connection
}

// Device retorna os atributos de exibição do status do instrumento
func (p *StatusBarPresenter) Device() ConnectionDisplay {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.device
}

// Acquisition retorna o status corrente da aquisição
func (p *StatusBarPresenter) Acquisition() models.AcquisitionStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.acquisition
}

// Progress retorna o progresso corrente de operações longas
func (p *StatusBarPresenter) Progress() models.ProgressUpdate {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.progress
}

// LastLog retorna a última mensagem de log encaminhada pelo servidor
func (p *StatusBarPresenter) LastLog() models.LogMessage {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastLog
}

// LastError retorna o último erro assíncrono reportado pelo servidor
func (p *StatusBarPresenter) LastError() models.ErrorNotification {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastError
}

// Close cancela as assinaturas e encerra o throttle de progresso
func (p *StatusBarPresenter) Close() {
	for _, sub := range p.subs {
		sub.Cancel()
	}
	p.progressThrottle.Close()
}
