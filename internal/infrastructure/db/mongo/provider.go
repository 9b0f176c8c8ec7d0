package mongo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/onboarding-system/internal/core/domain"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultRetryDelay = 5 * time.Second
)

// State is the lifecycle state of the Provider's connection.
type State string

const (
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateDisconnected State = "disconnected"
	StateClosed       State = "closed"
)

// Config captures the settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
	// RetryDelay is both the reconnect delay and the heartbeat interval.
	RetryDelay time.Duration
}

// Provider owns the process-wide MongoDB connection. Open starts a
// supervisor that connects, pings every RetryDelay and keeps retrying at
// that fixed delay, forever, until Close.
type Provider struct {
	cfg Config
	log zerolog.Logger

	dial func(ctx context.Context) (*mongo.Client, error)
	ping func(ctx context.Context, c *mongo.Client) error

	mu           sync.RWMutex
	client       *mongo.Client
	db           *mongo.Database
	state        State
	onConnect    []func()
	onDisconnect []func()

	cancel context.CancelFunc
	done   chan struct{}
}

// NewProvider returns a Provider in the connecting state. Nothing is dialled
// until Open.
func NewProvider(cfg Config, log zerolog.Logger) *Provider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	p := &Provider{cfg: cfg, log: log, state: StateConnecting}
	p.dial = p.connect
	p.ping = func(ctx context.Context, c *mongo.Client) error { return c.Ping(ctx, nil) }
	return p
}

// OnConnect registers fn to run after every successful (re)connection.
func (p *Provider) OnConnect(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onConnect = append(p.onConnect, fn)
}

// OnDisconnect registers fn to run whenever an established connection is lost.
func (p *Provider) OnDisconnect(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onDisconnect = append(p.onDisconnect, fn)
}

// Open starts the supervisor and returns immediately.
func (p *Provider) Open(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.run(ctx)
}

// Database returns the selected database, or domain.ErrDatabaseUnavailable
// when no connection has been established yet.
func (p *Provider) Database() (*mongo.Database, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.db == nil || p.state == StateClosed {
		return nil, domain.ErrDatabaseUnavailable
	}
	return p.db, nil
}

func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Ping checks the live connection, failing with domain.ErrDatabaseUnavailable
// before the first successful dial.
func (p *Provider) Ping(ctx context.Context) error {
	p.mu.RLock()
	client := p.client
	p.mu.RUnlock()
	if client == nil {
		return domain.ErrDatabaseUnavailable
	}
	return p.ping(ctx, client)
}

// Close stops the supervisor and disconnects the client.
func (p *Provider) Close(ctx context.Context) error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	p.mu.Lock()
	client := p.client
	p.client, p.db, p.state = nil, nil, StateClosed
	p.mu.Unlock()

	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo disconnect: %w", err)
	}
	return nil
}

func (p *Provider) run(ctx context.Context) {
	defer close(p.done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		p.check(ctx)
		timer.Reset(p.cfg.RetryDelay)
	}
}

// check performs one supervisor step: dial when there is no client yet,
// otherwise ping and fire hooks on state changes.
func (p *Provider) check(ctx context.Context) {
	p.mu.RLock()
	client, prev := p.client, p.state
	p.mu.RUnlock()

	if client == nil {
		c, err := p.dial(ctx)
		if err != nil {
			if ctx.Err() == nil {
				p.log.Error().Err(err).Dur("retry_in", p.cfg.RetryDelay).Msg("database connection failed")
			}
			return
		}
		p.mu.Lock()
		p.client, p.db = c, c.Database(p.cfg.Database)
		p.mu.Unlock()
		p.transition(StateConnected)
		p.log.Info().Str("database", p.cfg.Database).Msg("database connected")
		return
	}

	pingCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()
	if err := p.ping(pingCtx, client); err != nil {
		if ctx.Err() != nil {
			return
		}
		if prev == StateConnected {
			p.log.Warn().Err(err).Dur("retry_in", p.cfg.RetryDelay).Msg("database disconnected, attempting reconnect")
			p.transition(StateDisconnected)
		}
		return
	}
	if prev != StateConnected {
		p.log.Info().Msg("database reconnected")
		p.transition(StateConnected)
	}
}

func (p *Provider) transition(to State) {
	p.mu.Lock()
	p.state = to
	var hooks []func()
	switch to {
	case StateConnected:
		hooks = append(hooks, p.onConnect...)
	case StateDisconnected:
		hooks = append(hooks, p.onDisconnect...)
	}
	p.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// connect dials MongoDB and verifies connectivity with a ping.
func (p *Provider) connect(ctx context.Context) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(p.cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}
