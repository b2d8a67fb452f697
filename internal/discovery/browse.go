package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/grandcat/zeroconf"

	"beam_go/pkg/logger"
)

const (
	// ServiceType define o tipo de serviço anunciado pelo servidor de análise
	ServiceType = "_beamhub._tcp"

	// ServiceDomain é o domínio de descoberta na rede
	ServiceDomain = "local."
)

// Browse procura o servidor de análise na rede local via mDNS e retorna a
// URL base do primeiro encontrado. Usado quando nenhuma URL de servidor foi
// configurada.
func Browse(ctx context.Context, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return "", fmt.Errorf("erro ao criar resolvedor mDNS: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return "", fmt.Errorf("erro ao procurar serviço na rede: %w", err)
	}

	logger.Infof("Procurando servidor de análise na rede (%s)...", ServiceType)

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return "", fmt.Errorf("nenhum servidor de análise encontrado na rede")
			}
			if entry == nil || len(entry.AddrIPv4) == 0 {
				continue
			}
			url := fmt.Sprintf("http://%s:%d", entry.AddrIPv4[0], entry.Port)
			logger.Infof("Servidor de análise encontrado: %s (%s)", url, entry.Instance)
			return url, nil

		case <-ctx.Done():
			return "", fmt.Errorf("nenhum servidor de análise encontrado na rede")
		}
	}
}
