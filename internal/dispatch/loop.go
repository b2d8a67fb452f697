package dispatch

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"beam_go/pkg/logger"
)

// Loop serializa as mutações de estado de apresentação em uma única
// goroutine, papel equivalente ao da thread de interface. Todo estado exposto
// pelos presenters só pode ser alterado de dentro do loop; callbacks vindos
// do transporte devem usar Run/Post para entrar nele.
type Loop struct {
	tasks   chan task
	stopped chan struct{}
	loopID  atomic.Int64
	mu      sync.RWMutex
	closed  bool
}

type task struct {
	fn   func()
	done chan struct{}
}

const taskBufferSize = 128

// NewLoop cria e inicia um novo loop de atualização
func NewLoop() *Loop {
	l := &Loop{
		tasks:   make(chan task, taskBufferSize),
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

// run consome e executa as tarefas submetidas, em ordem de chegada
func (l *Loop) run() {
	l.loopID.Store(currentGoroutineID())

	for t := range l.tasks {
		safeRun(t.fn)
		if t.done != nil {
			close(t.done)
		}
	}
	close(l.stopped)
}

// Run executa fn dentro do loop e bloqueia até a conclusão. Quando o chamador
// já está no loop, ou quando não há loop ativo (contexto de teste ou
// headless), fn executa inline no próprio chamador.
func (l *Loop) Run(fn func()) {
	if fn == nil {
		return
	}
	if l == nil || l.onLoop() {
		safeRun(fn)
		return
	}

	done := make(chan struct{})
	if !l.submit(task{fn: fn, done: done}) {
		// Loop encerrado, degrada para execução inline
		safeRun(fn)
		return
	}
	<-done
}

// Post executa fn dentro do loop sem bloquear o chamador
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	if l == nil || l.onLoop() {
		safeRun(fn)
		return
	}
	if !l.submit(task{fn: fn}) {
		safeRun(fn)
	}
}

// Background executa work em uma goroutine separada e entrega o resultado à
// continuação then já dentro do loop
func (l *Loop) Background(work func() (interface{}, error), then func(interface{}, error)) {
	if work == nil {
		return
	}
	go func() {
		result, err := work()
		if then == nil {
			return
		}
		l.Post(func() {
			then(result, err)
		})
	}()
}

// Close encerra o loop após drenar as tarefas já submetidas. Chamado de
// dentro de uma tarefa do próprio loop, retorna sem aguardar; a drenagem se
// completa assim que a tarefa corrente devolve o controle.
func (l *Loop) Close() {
	if l == nil {
		return
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.tasks)
	l.mu.Unlock()

	if l.onLoop() {
		return
	}
	<-l.stopped
}

// onLoop verifica se o chamador já está executando dentro do loop
func (l *Loop) onLoop() bool {
	id := l.loopID.Load()
	return id != 0 && id == currentGoroutineID()
}

// submit enfileira uma tarefa; retorna false se o loop já foi encerrado
func (l *Loop) submit(t task) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return false
	}
	l.tasks <- t
	return true
}

// safeRun executa fn isolando panics para não derrubar o loop
func safeRun(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Panic em tarefa do loop de atualização: %v", r)
		}
	}()
	fn()
}

// currentGoroutineID extrai o ID da goroutine atual do cabeçalho da stack
func currentGoroutineID() int64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	// Formato: "goroutine 123 [running]: ..."
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	if i := bytes.IndexByte(buf, ' '); i >= 0 {
		if id, err := strconv.ParseInt(string(buf[:i]), 10, 64); err == nil {
			return id
		}
	}
	return 0
}
