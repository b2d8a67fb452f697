package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"beam_go/internal/config"
	"beam_go/internal/hub"
	"beam_go/internal/models"
	"beam_go/pkg/logger"
)

// Chaves usadas no espelho, relativas ao prefixo configurado
const (
	keyRawHistory   = "raw_history"
	keyLatestPoint  = "latest_point"
	keyLatestResult = "latest_result"
)

// Source é o subconjunto do cliente do hub consumido pelo espelho
type Source interface {
	OnRawDataReceived(func(models.RawDataPoint)) *hub.Subscription
	OnCalculationCompleted(func(models.CalculationResult)) *hub.Subscription
}

// Service espelha o fluxo de dados recebido do hub em um Redis local, para
// que outras ferramentas da planta leiam a medição em andamento sem falar com
// o servidor de análise. Opcional; desabilitado por configuração fica em modo
// offline e ignora tudo.
type Service struct {
	client    *redis.Client
	ctx       context.Context
	cancel    context.CancelFunc
	prefix    string
	config    config.MirrorConfig
	connected bool
	mutex     sync.RWMutex

	subs []*hub.Subscription
}

// NewService cria um novo serviço de espelho Redis
func NewService(cfg config.MirrorConfig) (*Service, error) {
	if !cfg.Enabled {
		logger.Info("Espelho Redis desabilitado por configuração")
		return &Service{config: cfg}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	service := &Service{
		client: client,
		ctx:    ctx,
		cancel: cancel,
		prefix: cfg.Prefix,
		config: cfg,
	}

	// Testar conexão; falha deixa o espelho em modo offline
	if err := service.testConnection(); err != nil {
		logger.Warnf("Aviso: %v. O espelho Redis ficará em modo offline.", err)
		return service, nil
	}

	service.connected = true
	logger.Infof("Espelho Redis ativo em %s:%d", cfg.Host, cfg.Port)
	return service, nil
}

// testConnection verifica a conexão com o Redis
func (s *Service) testConnection() error {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	if _, err := s.client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("erro ao conectar ao Redis: %w", err)
	}
	return nil
}

// IsConnected verifica se o espelho está operante
func (s *Service) IsConnected() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.connected
}

// Attach assina os eventos do hub que devem ser espelhados
func (s *Service) Attach(source Source) {
	if !s.IsConnected() {
		return
	}

	s.subs = append(s.subs,
		source.OnRawDataReceived(s.mirrorRawPoint),
		source.OnCalculationCompleted(s.mirrorResult),
	)
}

// mirrorRawPoint grava um ponto bruto no histórico capado e como ponto atual
func (s *Service) mirrorRawPoint(point models.RawDataPoint) {
	payload, err := json.Marshal(point)
	if err != nil {
		logger.Debugf("Ponto bruto não espelhado: %v", err)
		return
	}

	score := float64(point.Timestamp.UnixNano()) / float64(time.Millisecond)

	pipe := s.client.Pipeline()
	pipe.ZAdd(s.ctx, s.key(keyRawHistory), &redis.Z{Score: score, Member: payload})
	pipe.ZRemRangeByRank(s.ctx, s.key(keyRawHistory), 0, int64(-s.config.MaxHistorySize-1))
	pipe.Set(s.ctx, s.key(keyLatestPoint), payload, 0)
	if _, err := pipe.Exec(s.ctx); err != nil {
		logger.Debugf("Falha ao espelhar ponto bruto: %v", err)
	}
}

// mirrorResult grava o resultado de análise mais recente
func (s *Service) mirrorResult(result models.CalculationResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		logger.Debugf("Resultado não espelhado: %v", err)
		return
	}

	if err := s.client.Set(s.ctx, s.key(keyLatestResult), payload, 0).Err(); err != nil {
		logger.Debugf("Falha ao espelhar resultado: %v", err)
	}
}

// LatestResult lê o último resultado espelhado
func (s *Service) LatestResult() (models.CalculationResult, error) {
	var result models.CalculationResult
	if !s.IsConnected() {
		return result, fmt.Errorf("espelho Redis não conectado")
	}

	payload, err := s.client.Get(s.ctx, s.key(keyLatestResult)).Result()
	if err != nil {
		return result, fmt.Errorf("erro ao ler resultado espelhado: %w", err)
	}
	err = json.Unmarshal([]byte(payload), &result)
	return result, err
}

// Close cancela as assinaturas e fecha a conexão com o Redis
func (s *Service) Close() {
	for _, sub := range s.subs {
		sub.Cancel()
	}
	s.subs = nil

	if s.cancel != nil {
		s.cancel()
	}
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			logger.Error("Erro ao fechar conexão do espelho Redis", err)
		}
	}

	s.mutex.Lock()
	s.connected = false
	s.mutex.Unlock()
}

// key formata uma chave com o prefixo configurado
func (s *Service) key(name string) string {
	return fmt.Sprintf("%s:%s", s.prefix, name)
}
