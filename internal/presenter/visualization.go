package presenter

import (
	"encoding/json"
	"sync"

	"beam_go/internal/config"
	"beam_go/internal/dispatch"
	"beam_go/internal/hub"
	"beam_go/internal/models"
	"beam_go/internal/render"
	"beam_go/pkg/logger"
)

// Abas de distribuição de energia disponíveis
const (
	TabEnergyX = "x"
	TabEnergyY = "y"
)

// VisualizationPresenter expõe o estado das visualizações 2D e 3D do spot.
// Cada payload recebido substitui integralmente o anterior; as duas classes
// de exibição têm throttles independentes e podem se intercalar livremente.
type VisualizationPresenter struct {
	client APIClient
	loop   *dispatch.Loop

	throttle2D *render.Throttle
	throttle3D *render.Throttle
	targetRows int
	targetCols int

	subs []*hub.Subscription

	// Último payload recebido, aguardando os throttles
	pendingMu sync.Mutex
	latest    *models.VisualizationData

	// Estado exposto às views; mutado apenas dentro do loop
	mu          sync.RWMutex
	spotMatrix  [][]float64
	spotCenterX float64
	spotCenterY float64
	surface     []models.SurfacePoint
	energyX     []models.SurfacePoint
	energyY     []models.SurfacePoint
	activeTab   string
}

// NewVisualizationPresenter cria o presenter e assina o evento de
// visualização do hub
func NewVisualizationPresenter(client APIClient, loop *dispatch.Loop, refresh config.RefreshConfig, renderCfg config.RenderConfig) *VisualizationPresenter {
	targetRows := renderCfg.MatrixRows
	if targetRows <= 0 {
		targetRows = 64
	}
	targetCols := renderCfg.MatrixCols
	if targetCols <= 0 {
		targetCols = 64
	}

	p := &VisualizationPresenter{
		client:     client,
		loop:       loop,
		throttle2D: render.NewThrottle(refresh.View2DInterval),
		throttle3D: render.NewThrottle(refresh.View3DInterval),
		targetRows: targetRows,
		targetCols: targetCols,
		activeTab:  TabEnergyX,
	}

	p.subs = append(p.subs, client.OnVisualizationDataUpdated(p.onVisualization))

	return p
}

// onVisualization guarda o payload mais recente e agenda as duas classes de
// atualização de forma independente
func (p *VisualizationPresenter) onVisualization(data models.VisualizationData) {
	p.pendingMu.Lock()
	p.latest = &data
	p.pendingMu.Unlock()

	p.throttle2D.Do(func() {
		p.loop.Run(p.apply2D)
	})
	p.throttle3D.Do(func() {
		p.loop.Run(p.apply3D)
	})
}

// apply2D atualiza a exibição 2D do spot com o payload mais recente
func (p *VisualizationPresenter) apply2D() {
	data := p.takeLatest()
	if data == nil {
		return
	}

	// Payload malformado deixa a exibição deste ciclo como está
	spot, ok := decodeMatrix("spot", data.SpotMatrix)
	if !ok {
		return
	}

	reduced, err := render.DownsampleMatrix(spot, p.targetRows, p.targetCols)
	if err != nil {
		logger.Debugf("Redução da matriz 2D descartada: %v", err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.spotMatrix = reduced
	p.spotCenterX = data.SpotCenterX
	p.spotCenterY = data.SpotCenterY
}

// apply3D atualiza as superfícies 3D (spot e distribuições de energia)
func (p *VisualizationPresenter) apply3D() {
	data := p.takeLatest()
	if data == nil {
		return
	}

	var surface, energyX, energyY []models.SurfacePoint

	if spot, ok := decodeMatrix("spot", data.SpotMatrix); ok {
		surface = p.toSurface(spot)
	}
	if matrix, ok := decodeMatrix("energyX", data.EnergyDistX); ok {
		energyX = p.toSurface(matrix)
	}
	if matrix, ok := decodeMatrix("energyY", data.EnergyDistY); ok {
		energyY = p.toSurface(matrix)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if surface != nil {
		p.surface = surface
	}
	if energyX != nil {
		p.energyX = energyX
	}
	if energyY != nil {
		p.energyY = energyY
	}
}

// toSurface reduz uma matriz por média e a converte na grade de tuplas
// (X, Y, Z) consumida pela renderização 3D
func (p *VisualizationPresenter) toSurface(matrix [][]float64) []models.SurfacePoint {
	reduced, err := render.DownsampleMatrixAverage(matrix, p.targetRows, p.targetCols)
	if err != nil {
		logger.Debugf("Redução da matriz 3D descartada: %v", err)
		return nil
	}

	points := make([]models.SurfacePoint, 0, len(reduced)*len(reduced[0]))
	for i, row := range reduced {
		for j, v := range row {
			points = append(points, models.SurfacePoint{
				X: float64(j),
				Y: float64(i),
				Z: v,
			})
		}
	}
	return points
}

// SelectTab escolhe qual distribuição de energia pré-computada é exibida
func (p *VisualizationPresenter) SelectTab(tab string) {
	if tab != TabEnergyX && tab != TabEnergyY {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activeTab = tab
}

// ActiveTab retorna a aba de distribuição de energia ativa
func (p *VisualizationPresenter) ActiveTab() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.activeTab
}

// SpotMatrix retorna a matriz 2D exibida e o centro do spot
func (p *VisualizationPresenter) SpotMatrix() (matrix [][]float64, centerX, centerY float64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.spotMatrix, p.spotCenterX, p.spotCenterY
}

// Surface retorna a grade 3D do spot
func (p *VisualizationPresenter) Surface() []models.SurfacePoint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.surface
}

// EnergySurface retorna a grade 3D da distribuição de energia da aba ativa
func (p *VisualizationPresenter) EnergySurface() []models.SurfacePoint {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.activeTab == TabEnergyY {
		return p.energyY
	}
	return p.energyX
}

// Close cancela as assinaturas e encerra os throttles
func (p *VisualizationPresenter) Close() {
	for _, sub := range p.subs {
		sub.Cancel()
	}
	p.throttle2D.Close()
	p.throttle3D.Close()
}

// takeLatest lê o payload pendente sem consumi-lo, para que a outra classe
// de atualização também o processe
func (p *VisualizationPresenter) takeLatest() *models.VisualizationData {
	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()
	return p.latest
}

// decodeMatrix desserializa uma matriz JSON; falhas são engolidas com um
// rastro de debug e o ciclo correspondente fica sem atualização
func decodeMatrix(name, payload string) ([][]float64, bool) {
	if payload == "" {
		return nil, false
	}
	var matrix [][]float64
	if err := json.Unmarshal([]byte(payload), &matrix); err != nil {
		logger.Debugf("Matriz %s malformada no payload de visualização: %v", name, err)
		return nil, false
	}
	if len(matrix) == 0 {
		return nil, false
	}
	return matrix, true
}
