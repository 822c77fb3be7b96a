package service

//
// propagator.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
)

// RevocationPropagator fan revoked tokens out to registered listeners.
// Listeners run synchronously, so when Publish returns every cache
// already dropped the token and no stale feed can be served.
type RevocationPropagator struct {
	mu        sync.Mutex
	listeners []func(ctx context.Context, token string)
}

func NewRevocationPropagatorI(_ do.Injector) (*RevocationPropagator, error) {
	return &RevocationPropagator{}, nil
}

func (p *RevocationPropagator) Register(listener func(ctx context.Context, token string)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.listeners = append(p.listeners, listener)
}

func (p *RevocationPropagator) Publish(ctx context.Context, token string) {
	p.mu.Lock()
	listeners := p.listeners
	p.mu.Unlock()

	log.Ctx(ctx).Debug().Msgf("propagate revocation to %d listeners", len(listeners))

	for _, listener := range listeners {
		listener(ctx, token)
	}
}
