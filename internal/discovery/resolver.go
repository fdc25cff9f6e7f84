package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ServiceResolver keeps the base URL of a healthy instance of a service,
// looking it up again on every tick of Run. A failed lookup keeps the last
// known URL.
type ServiceResolver struct {
	consul   *ConsulClient
	name     string
	interval time.Duration

	mutex sync.RWMutex
	url   string
}

// NewServiceResolver resolves name once and fails when no healthy instance
// is registered.
func NewServiceResolver(consul *ConsulClient, name string, interval time.Duration) (*ServiceResolver, error) {
	url, err := consul.GetServiceURL(name)
	if err != nil {
		return nil, err
	}

	log.Info().Str("service", name).Str("url", url).Msg("Service discovered")

	return &ServiceResolver{
		consul:   consul,
		name:     name,
		interval: interval,
		url:      url,
	}, nil
}

func (r *ServiceResolver) URL() string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.url
}

func (r *ServiceResolver) refresh() {
	url, err := r.consul.GetServiceURL(r.name)
	if err != nil {
		log.Warn().Err(err).Str("service", r.name).Msg("Service lookup failed, keeping last known URL")
		return
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	if url != r.url {
		log.Info().Str("service", r.name).Str("old_url", r.url).Str("url", url).Msg("Service moved")
		r.url = url
	}
}

// Run refreshes the URL until ctx is done.
func (r *ServiceResolver) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh()
		}
	}
}
