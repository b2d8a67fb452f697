package render

import (
	"sync"
	"time"

	"beam_go/pkg/logger"
)

// Throttle coalesce rajadas de atualizações em no máximo uma execução por
// intervalo, sempre com a ação mais recente. A primeira chamada de uma janela
// fria executa imediatamente; as seguintes ficam pendentes até o próximo
// disparo do timer, e o timer só continua enquanto houver tráfego.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	pending  func()
	running  bool
	closed   bool
}

// NewThrottle cria um throttle com o intervalo informado
func NewThrottle(interval time.Duration) *Throttle {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Throttle{interval: interval}
}

// Do agenda a ação, substituindo qualquer ação pendente anterior. Se o timer
// não estiver em execução, a ação é executada imediatamente e a janela abre;
// caso contrário fica pendente até o próximo disparo.
func (t *Throttle) Do(action func()) {
	if action == nil {
		return
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	if t.running {
		t.pending = action
		t.mu.Unlock()
		return
	}
	t.running = true
	t.mu.Unlock()

	t.invoke(action)

	t.mu.Lock()
	if !t.closed && t.running {
		if t.timer == nil {
			t.timer = time.AfterFunc(t.interval, t.onTick)
		} else {
			t.timer.Reset(t.interval)
		}
	}
	t.mu.Unlock()
}

// onTick executa a ação pendente, se houver, e rearma o timer. Sem ação
// pendente a janela fecha e o timer para.
func (t *Throttle) onTick() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	action := t.pending
	t.pending = nil
	if action == nil {
		t.running = false
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	t.invoke(action)

	t.mu.Lock()
	if !t.closed && t.running {
		t.timer.Reset(t.interval)
	}
	t.mu.Unlock()
}

// Flush para o timer e executa imediatamente qualquer ação pendente
func (t *Throttle) Flush() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.running = false
	action := t.pending
	t.pending = nil
	t.mu.Unlock()

	if action != nil {
		t.invoke(action)
	}
}

// Close encerra o throttle, descartando qualquer ação pendente. Chamadas a Do
// após o encerramento são ignoradas.
func (t *Throttle) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true
	t.running = false
	t.pending = nil
	if t.timer != nil {
		t.timer.Stop()
	}
}

// invoke executa a ação protegendo o timer interno de panics do consumidor
func (t *Throttle) invoke(action func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debugf("Ação descartada pelo throttle após panic: %v", r)
		}
	}()
	action()
}
