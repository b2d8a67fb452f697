package presenter

import (
	"fmt"
	"sync"

	"beam_go/internal/config"
	"beam_go/internal/dispatch"
	"beam_go/internal/hub"
	"beam_go/internal/models"
	"beam_go/internal/render"
	"beam_go/pkg/logger"
	"beam_go/pkg/utils"
)

// Nomes fixos das linhas da tabela de parâmetros
const (
	rowMSquared      = "M²"
	rowPeakPosition  = "Posição do pico"
	rowWaistPosition = "Posição da cintura"
	rowWaistDiameter = "Diâmetro da cintura"
)

// ChartPresenter expõe o estado dos gráficos de diâmetro e da tabela de
// parâmetros do feixe. Consome os eventos de pontos brutos e de cálculo
// concluído, com throttle próprio por classe de atualização; toda mutação de
// estado acontece dentro do loop de atualização.
type ChartPresenter struct {
	client APIClient
	loop   *dispatch.Loop

	rawThrottle  *render.Throttle
	calcThrottle *render.Throttle
	maxPoints    int

	subs []*hub.Subscription

	// Último payload recebido de cada classe, aguardando o throttle
	pendingMu     sync.Mutex
	pendingPoints []models.RawDataPoint
	latestResult  *models.CalculationResult

	// Estado exposto às views; mutado apenas dentro do loop
	mu            sync.RWMutex
	points        []models.RawDataPoint
	fittedX       []float64
	fittedY       []float64
	rows          []ParameterRow
	magnification float64
	invalidMag    bool
	status        string
}

// NewChartPresenter cria o presenter e assina os eventos relevantes do hub
func NewChartPresenter(client APIClient, loop *dispatch.Loop, refresh config.RefreshConfig, renderCfg config.RenderConfig) *ChartPresenter {
	maxPoints := renderCfg.MaxChartPoints
	if maxPoints <= 0 {
		maxPoints = 500
	}

	p := &ChartPresenter{
		client:        client,
		loop:          loop,
		rawThrottle:   render.NewThrottle(refresh.ChartInterval),
		calcThrottle:  render.NewThrottle(refresh.ChartInterval),
		maxPoints:     maxPoints,
		rows:          emptyRows(),
		magnification: 1.0,
	}

	p.subs = append(p.subs,
		client.OnRawDataReceived(p.onRawData),
		client.OnCalculationCompleted(p.onCalculation),
	)

	return p
}

// onRawData acumula o ponto recebido e agenda a atualização do gráfico
func (p *ChartPresenter) onRawData(point models.RawDataPoint) {
	p.pendingMu.Lock()
	p.pendingPoints = append(p.pendingPoints, point)
	p.pendingMu.Unlock()

	p.rawThrottle.Do(func() {
		p.loop.Run(p.applyPendingPoints)
	})
}

// onCalculation guarda o resultado mais recente e agenda a atualização da
// tabela de parâmetros
func (p *ChartPresenter) onCalculation(result models.CalculationResult) {
	p.pendingMu.Lock()
	p.latestResult = &result
	p.pendingMu.Unlock()

	p.calcThrottle.Do(func() {
		p.loop.Run(p.applyLatestResult)
	})
}

// applyPendingPoints incorpora os pontos acumulados à série exibida,
// reduzindo-a ao limite de renderização
func (p *ChartPresenter) applyPendingPoints() {
	p.pendingMu.Lock()
	pending := p.pendingPoints
	p.pendingPoints = nil
	p.pendingMu.Unlock()

	if len(pending) == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	series := append(p.points, pending...)
	reduced, err := render.Downsample(series, p.maxPoints)
	if err != nil {
		logger.Debugf("Redução da série de pontos descartada: %v", err)
		return
	}
	p.points = reduced
}

// applyLatestResult substitui os valores exibidos pelo resultado mais recente
func (p *ChartPresenter) applyLatestResult() {
	p.pendingMu.Lock()
	result := p.latestResult
	p.pendingMu.Unlock()

	if result == nil {
		return
	}

	fittedX, errX := render.Downsample(result.FittedCurveX, p.maxPoints)
	fittedY, errY := render.Downsample(result.FittedCurveY, p.maxPoints)

	p.mu.Lock()
	defer p.mu.Unlock()

	if errX == nil {
		p.fittedX = fittedX
	}
	if errY == nil {
		p.fittedY = fittedY
	}

	p.rows = []ParameterRow{
		{
			Name:   rowMSquared,
			Global: utils.FormatSignificant(result.MSquared),
			X:      utils.FormatSignificant(result.MSquaredX),
			Y:      utils.FormatSignificant(result.MSquaredY),
		},
		{
			Name:   rowPeakPosition,
			Global: utils.NonFiniteDisplay,
			X:      utils.FormatSignificant(result.PeakPositionX),
			Y:      utils.FormatSignificant(result.PeakPositionY),
		},
		{
			Name:   rowWaistPosition,
			Global: utils.NonFiniteDisplay,
			X:      utils.FormatSignificant(result.WaistPositionX),
			Y:      utils.FormatSignificant(result.WaistPositionY),
		},
		{
			Name:   rowWaistDiameter,
			Global: utils.NonFiniteDisplay,
			X:      utils.FormatSignificant(result.WaistDiameterX),
			Y:      utils.FormatSignificant(result.WaistDiameterY),
		},
	}
}

// SetMagnification define a magnificação usada na reanálise. Valores não
// positivos marcam erro de validação e desabilitam o comando de reanálise.
func (p *ChartPresenter) SetMagnification(value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.magnification = value
	p.invalidMag = !(value > 0)
}

// Magnification retorna a magnificação corrente
func (p *ChartPresenter) Magnification() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.magnification
}

// HasValidationError informa se há erro de validação pendente
func (p *ChartPresenter) HasValidationError() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.invalidMag
}

// CanRecalculate informa se o comando de reanálise está habilitado
func (p *ChartPresenter) CanRecalculate() bool {
	return !p.HasValidationError() && p.client.IsConnected()
}

// Recalculate dispara a reanálise em segundo plano. Falhas viram mensagem de
// status; nunca são propagadas para a cadeia de eventos.
func (p *ChartPresenter) Recalculate() {
	if !p.CanRecalculate() {
		return
	}

	params := models.RecalculateParams{Magnification: p.Magnification()}

	p.loop.Background(
		func() (interface{}, error) {
			return nil, p.client.RecalculateAnalysis(params)
		},
		func(_ interface{}, err error) {
			p.mu.Lock()
			defer p.mu.Unlock()
			if err != nil {
				p.status = fmt.Sprintf("Falha na reanálise: %v", err)
				return
			}
			p.status = "Reanálise solicitada"
		},
	)
}

// Points retorna uma cópia da série de pontos exibida
func (p *ChartPresenter) Points() []models.RawDataPoint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.RawDataPoint, len(p.points))
	copy(out, p.points)
	return out
}

// FittedCurves retorna cópias das curvas ajustadas exibidas
func (p *ChartPresenter) FittedCurves() (x, y []float64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	x = make([]float64, len(p.fittedX))
	copy(x, p.fittedX)
	y = make([]float64, len(p.fittedY))
	copy(y, p.fittedY)
	return x, y
}

// Rows retorna uma cópia das linhas da tabela de parâmetros
func (p *ChartPresenter) Rows() []ParameterRow {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]ParameterRow, len(p.rows))
	copy(out, p.rows)
	return out
}

// Status retorna a mensagem de status corrente do presenter
func (p *ChartPresenter) Status() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Close cancela as assinaturas e encerra os throttles. Deve ser chamado
// explicitamente; não há gerenciamento automático de ciclo de vida.
func (p *ChartPresenter) Close() {
	for _, sub := range p.subs {
		sub.Cancel()
	}
	p.rawThrottle.Close()
	p.calcThrottle.Close()
}

// emptyRows monta as quatro linhas fixas da tabela, sem valores
func emptyRows() []ParameterRow {
	dash := utils.NonFiniteDisplay
	return []ParameterRow{
		{Name: rowMSquared, Global: dash, X: dash, Y: dash},
		{Name: rowPeakPosition, Global: dash, X: dash, Y: dash},
		{Name: rowWaistPosition, Global: dash, X: dash, Y: dash},
		{Name: rowWaistDiameter, Global: dash, X: dash, Y: dash},
	}
}
