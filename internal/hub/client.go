package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"beam_go/internal/config"
	"beam_go/internal/models"
	"beam_go/pkg/logger"
)

const (
	// HubPath é o caminho do hub de análise derivado da URL do servidor
	HubPath = "/beamAnalyzerHub"

	// Tamanho máximo de mensagem aceito do servidor (payloads de visualização
	// carregam matrizes inteiras)
	maxMessageSize = 8 * 1024 * 1024
)

// Agenda de reconexão automática após queda de conexão
var reconnectSchedule = []time.Duration{
	0,
	2 * time.Second,
	5 * time.Second,
	10 * time.Second,
}

// Client é o wrapper de acesso ao serviço de análise de feixe. Mantém uma
// conexão persistente com o hub, expõe as operações de requisição/resposta e
// reencaminha as notificações push como eventos locais assináveis.
//
// Connect e Disconnect não são seguros para chamadas concorrentes entre si;
// o chamador deve serializá-los (tipicamente a partir do loop de atualização).
type Client struct {
	connectTimeout time.Duration
	invokeTimeout  time.Duration

	// URL do servidor registrada no último Connect; usada também pelo
	// canal de download de arquivos
	urlMu     sync.RWMutex
	serverURL string

	conn      *websocket.Conn
	connected atomic.Bool

	// Geração da conexão: invalida pumps e laços de reconexão antigos
	// quando Connect/Disconnect são chamados novamente
	generation atomic.Int64

	// Serializa escritas no websocket e guarda a publicação de conn,
	// que também acontece na goroutine de reconexão
	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]chan models.HubMessage

	events *eventHub
}

// NewClient cria um novo cliente do hub
func NewClient(cfg config.ServerConfig) *Client {
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	invokeTimeout := cfg.InvokeTimeout
	if invokeTimeout <= 0 {
		invokeTimeout = 30 * time.Second
	}

	return &Client{
		connectTimeout: connectTimeout,
		invokeTimeout:  invokeTimeout,
		pending:        make(map[string]chan models.HubMessage),
		events:         newEventHub(),
	}
}

// Connect estabelece a conexão com o hub do servidor. Qualquer conexão
// existente é derrubada antes. Em caso de sucesso a notificação de conexão é
// emitida para todos os assinantes.
func (c *Client) Connect(ctx context.Context, serverURL string) error {
	hubURL, err := deriveHubURL(serverURL)
	if err != nil {
		return err
	}

	// Derrubar conexão anterior, se houver
	c.Disconnect()

	logger.Infof("Conectando ao hub de análise em %s...", hubURL)

	dialer := websocket.Dialer{HandshakeTimeout: c.connectTimeout}
	conn, _, err := dialer.DialContext(ctx, hubURL, nil)
	if err != nil {
		return fmt.Errorf("erro ao conectar ao servidor: %w", err)
	}
	conn.SetReadLimit(maxMessageSize)

	c.urlMu.Lock()
	c.serverURL = strings.TrimRight(serverURL, "/")
	c.urlMu.Unlock()

	gen := c.generation.Add(1)
	c.writeMu.Lock()
	c.conn = conn
	c.writeMu.Unlock()
	c.connected.Store(true)

	go c.readPump(conn, gen)

	logger.Infof("Conectado ao hub de análise em %s", hubURL)
	c.events.dispatch(eventConnected, nil)

	return nil
}

// Disconnect encerra a conexão atual e emite a notificação de desconexão.
// É idempotente: pode ser chamado quantas vezes for necessário.
func (c *Client) Disconnect() {
	// Invalidar pump e reconexões em andamento
	c.generation.Add(1)

	wasConnected := c.connected.Swap(false)

	c.writeMu.Lock()
	conn := c.conn
	c.conn = nil
	c.writeMu.Unlock()

	if conn != nil {
		conn.Close()
	}
	c.failPending()

	if wasConnected {
		logger.Info("Conexão com o hub de análise encerrada")
		c.events.dispatch(eventDisconnected, nil)
	}
}

// IsConnected verifica se há conexão ativa com o servidor
func (c *Client) IsConnected() bool {
	return c.connected.Load()
}

// ServerURL retorna a URL registrada no último Connect
func (c *Client) ServerURL() string {
	c.urlMu.RLock()
	defer c.urlMu.RUnlock()
	return c.serverURL
}

// readPump consome as mensagens do servidor até a conexão cair ou ser
// invalidada por um novo Connect/Disconnect
func (c *Client) readPump(conn *websocket.Conn, gen int64) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if c.generation.Load() != gen {
				// Desconexão intencional, nada a fazer
				return
			}
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				logger.Errorf("Erro de leitura no hub: %v", err)
			}
			c.handleConnectionLoss(gen)
			return
		}

		c.handleMessage(message)
	}
}

// handleMessage roteia uma mensagem recebida: respostas para as invocações
// pendentes, notificações para os assinantes
func (c *Client) handleMessage(message []byte) {
	var msg models.HubMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Debugf("Mensagem do hub descartada por formato inválido: %v", err)
		return
	}

	switch msg.Type {
	case models.HubTypeCompletion:
		c.pendingMu.Lock()
		ch, ok := c.pending[msg.ID]
		if ok {
			delete(c.pending, msg.ID)
		}
		c.pendingMu.Unlock()

		if ok {
			ch <- msg
		} else {
			logger.Debugf("Resposta sem invocação correspondente: %s", msg.ID)
		}

	case models.HubTypeEvent:
		c.events.dispatch(msg.Event, msg.Data)

	case models.HubTypePing:
		c.writeJSON(models.HubMessage{Type: models.HubTypePong, ID: msg.ID})

	default:
		logger.Debugf("Tipo de mensagem desconhecido do hub: %q", msg.Type)
	}
}

// handleConnectionLoss trata uma queda de conexão: falha as invocações
// pendentes, notifica os assinantes e inicia a reconexão automática.
// Mensagens perdidas durante a desconexão não são rebobinadas.
func (c *Client) handleConnectionLoss(gen int64) {
	c.connected.Store(false)
	c.failPending()

	logger.Warn("Conexão com o hub de análise perdida")
	c.events.dispatch(eventDisconnected, nil)

	go c.reconnect(gen)
}

// reconnect tenta restabelecer a conexão seguindo a agenda de backoff.
// Abandona se Connect/Disconnect forem chamados nesse meio tempo.
func (c *Client) reconnect(gen int64) {
	hubURL, err := deriveHubURL(c.ServerURL())
	if err != nil {
		logger.Error("Reconexão abortada", err)
		return
	}

	for attempt, delay := range reconnectSchedule {
		if delay > 0 {
			time.Sleep(delay)
		}
		if c.generation.Load() != gen {
			return
		}

		logger.Infof("Tentativa de reconexão %d/%d...", attempt+1, len(reconnectSchedule))

		ctx, cancel := context.WithTimeout(context.Background(), c.connectTimeout)
		dialer := websocket.Dialer{HandshakeTimeout: c.connectTimeout}
		conn, _, err := dialer.DialContext(ctx, hubURL, nil)
		cancel()
		if err != nil {
			logger.Warnf("Reconexão falhou: %v", err)
			continue
		}

		conn.SetReadLimit(maxMessageSize)

		// Publicar a nova conexão sob o mesmo lock das escritas; um
		// Connect/Disconnect nesse meio tempo invalida a geração e a
		// conexão recém-aberta é descartada
		c.writeMu.Lock()
		if c.generation.Load() != gen {
			c.writeMu.Unlock()
			conn.Close()
			return
		}
		c.conn = conn
		c.writeMu.Unlock()
		c.connected.Store(true)

		go c.readPump(conn, gen)

		logger.Info("Reconectado ao hub de análise")
		c.events.dispatch(eventConnected, nil)
		return
	}

	logger.Error("Reconexão esgotada, permanecendo desconectado", nil)
}

// invoke envia uma invocação ao servidor e aguarda a resposta correlacionada
func (c *Client) invoke(method string, args interface{}, result interface{}) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	msg := models.HubMessage{
		Type:   models.HubTypeInvocation,
		ID:     uuid.New().String(),
		Method: method,
	}
	if args != nil {
		data, err := json.Marshal(args)
		if err != nil {
			return fmt.Errorf("erro ao serializar argumentos de %s: %w", method, err)
		}
		msg.Args = data
	}

	reply := make(chan models.HubMessage, 1)
	c.pendingMu.Lock()
	c.pending[msg.ID] = reply
	c.pendingMu.Unlock()

	if err := c.writeJSON(msg); err != nil {
		c.pendingMu.Lock()
		delete(c.pending, msg.ID)
		c.pendingMu.Unlock()
		return fmt.Errorf("erro ao enviar invocação %s: %w", method, err)
	}

	timer := time.NewTimer(c.invokeTimeout)
	defer timer.Stop()

	select {
	case completion := <-reply:
		if completion.Error != "" {
			return fmt.Errorf("%s: %s", method, completion.Error)
		}
		if result != nil && len(completion.Result) > 0 {
			if err := json.Unmarshal(completion.Result, result); err != nil {
				return fmt.Errorf("erro ao decodificar resposta de %s: %w", method, err)
			}
		}
		return nil

	case <-timer.C:
		c.pendingMu.Lock()
		delete(c.pending, msg.ID)
		c.pendingMu.Unlock()
		return fmt.Errorf("%s: %w", method, ErrInvokeTimeout)
	}
}

// writeJSON serializa e envia uma mensagem pela conexão ativa
func (c *Client) writeJSON(msg models.HubMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	conn := c.conn
	if conn == nil {
		return ErrNotConnected
	}
	return conn.WriteJSON(msg)
}

// failPending responde todas as invocações pendentes com erro de desconexão
func (c *Client) failPending() {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	for id, ch := range c.pending {
		ch <- models.HubMessage{
			Type:  models.HubTypeCompletion,
			ID:    id,
			Error: ErrNotConnected.Error(),
		}
		delete(c.pending, id)
	}
}

// deriveHubURL converte a URL base do servidor no endpoint websocket do hub
func deriveHubURL(serverURL string) (string, error) {
	if serverURL == "" {
		return "", fmt.Errorf("URL do servidor não informada")
	}

	parsed, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("URL do servidor inválida: %w", err)
	}

	switch parsed.Scheme {
	case "http", "ws":
		parsed.Scheme = "ws"
	case "https", "wss":
		parsed.Scheme = "wss"
	default:
		return "", fmt.Errorf("URL do servidor inválida: esquema %q não suportado", parsed.Scheme)
	}

	parsed.Path = strings.TrimRight(parsed.Path, "/") + HubPath
	return parsed.String(), nil
}
