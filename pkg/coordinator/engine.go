// Package coordinator implements the intent coordination engine: the state
// machine that turns resolver events and bridge poll results into durable
// intent and transaction state.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/syndicate-hq/coordinator/pkg/blockchain"
	"github.com/syndicate-hq/coordinator/pkg/bridge"
	"github.com/syndicate-hq/coordinator/pkg/circuitbreaker"
	"github.com/syndicate-hq/coordinator/pkg/contracts"
	"github.com/syndicate-hq/coordinator/pkg/logger"
	"github.com/syndicate-hq/coordinator/pkg/models"
	"github.com/syndicate-hq/coordinator/pkg/store"
)

// ErrUnknownIntent is returned when a downstream event references an intent
// the store has never seen. The handler must not fabricate a record because
// the amount and user would be unknown.
var ErrUnknownIntent = errors.New("event references unknown intent")

// ChainReader is the read-only contract surface the engine needs per chain
type ChainReader interface {
	GetIntent(ctx context.Context, intentID string) (contracts.ResolverIntent, error)
	TicketToSyndicate(ctx context.Context, ticketID *big.Int) (common.Address, error)
}

// IntentResolver is the signing contract surface used for manual resolution
type IntentResolver interface {
	ResolveIntent(ctx context.Context, nm *blockchain.NonceManager, intentID string, signature []byte) (*types.Receipt, error)
}

// Config holds the engine's scheduling knobs
type Config struct {
	// PendingPollInterval is the fixed delay between bridge polls while the
	// deposit is pending. Relay time is externally determined, so the delay
	// is flat rather than exponential.
	PendingPollInterval time.Duration

	// ErrorPollInterval is the longer delay applied when the status query
	// itself failed.
	ErrorPollInterval time.Duration

	// PollCallTimeout bounds a single status query so a hung call cannot
	// stall the scheduler.
	PollCallTimeout time.Duration

	// MaxPollAttempts fails an intent after this many polls. Zero means
	// poll until the deposit relays.
	MaxPollAttempts int
}

func (c *Config) applyDefaults() {
	if c.PendingPollInterval <= 0 {
		c.PendingPollInterval = 60 * time.Second
	}
	if c.ErrorPollInterval <= 0 {
		c.ErrorPollInterval = 300 * time.Second
	}
	if c.PollCallTimeout <= 0 {
		c.PollCallTimeout = 15 * time.Second
	}
}

// Deps are the engine's collaborators. Readers is keyed by chain ID and must
// cover every chain events arrive from. Resolvers, Nonce and Breakers are only
// needed when manual on-chain resolution is enabled.
type Deps struct {
	Store     store.Store
	Readers   map[int]ChainReader
	Bridge    bridge.StatusClient
	Resolvers map[int]IntentResolver
	Nonce     *blockchain.NonceManager
	Breakers  map[int]*circuitbreaker.CircuitBreaker
	Logger    logger.Logger
}

// Engine drives every intent from submission to a terminal state. It holds no
// authoritative state of its own: on restart all pending work is rebuilt from
// the store.
type Engine struct {
	store     store.Store
	readers   map[int]ChainReader
	bridge    bridge.StatusClient
	resolvers map[int]IntentResolver
	nonce     *blockchain.NonceManager
	breakers  map[int]*circuitbreaker.CircuitBreaker
	logger    logger.Logger
	cfg       Config

	// DeadlinePolicy, when set, is consulted at poll time for intents whose
	// on-chain deadline has passed. Returning true fails the intent. Left
	// nil, expired intents keep polling.
	DeadlinePolicy func(models.Intent) bool

	locks *intentLocks
	sched *pollScheduler

	mu      sync.Mutex
	started bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates an engine from its dependencies
func New(deps Deps, cfg Config) (*Engine, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if deps.Bridge == nil {
		return nil, fmt.Errorf("bridge status client is required")
	}
	if len(deps.Readers) == 0 {
		return nil, fmt.Errorf("at least one chain reader is required")
	}
	if deps.Logger == nil {
		deps.Logger = &logger.EmptyLogger{}
	}
	cfg.applyDefaults()

	return &Engine{
		store:     deps.Store,
		readers:   deps.Readers,
		bridge:    deps.Bridge,
		resolvers: deps.Resolvers,
		nonce:     deps.Nonce,
		breakers:  deps.Breakers,
		logger:    deps.Logger,
		cfg:       cfg,
		locks:     newIntentLocks(),
		sched:     newPollScheduler(),
	}, nil
}

// Start rebuilds pending work from the store and begins accepting events
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return fmt.Errorf("engine already started")
	}
	e.ctx, e.cancel = context.WithCancel(ctx)
	e.started = true
	e.mu.Unlock()

	if err := e.reconstruct(e.ctx); err != nil {
		e.Stop()
		return fmt.Errorf("failed to reconstruct pending work: %v", err)
	}

	return nil
}

// Stop cancels all outstanding poll timers and waits for in-flight work
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return
	}
	e.started = false
	e.cancel()
	e.mu.Unlock()

	e.sched.CancelAll()
	e.wg.Wait()
}

// PendingPolls returns the number of intents with an outstanding poll timer
func (e *Engine) PendingPolls() int {
	return e.sched.Size()
}

// reconstruct resumes bridge polling for every EXECUTING intent that has an
// active bridge transaction. EXECUTING intents without one are still waiting
// for the initiation event and need no timer.
func (e *Engine) reconstruct(ctx context.Context) error {
	executing, err := e.store.ListIntentsByStatus(ctx, models.IntentStatusExecuting)
	if err != nil {
		return fmt.Errorf("failed to list executing intents: %v", err)
	}

	resumed := 0
	for i := range executing {
		intent := executing[i]
		if _, err := e.store.ActiveBridgeTransaction(ctx, intent.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				e.logger.Info("Intent %s is EXECUTING with no bridge transaction, awaiting initiation event", intent.ID)
				continue
			}
			return fmt.Errorf("failed to look up bridge transaction for intent %s: %v", intent.ID, err)
		}
		e.schedulePoll(intent.ID, 0, 0)
		resumed++
	}

	e.logger.Info("Resumed %d in-flight bridge polls from the store", resumed)
	return nil
}
