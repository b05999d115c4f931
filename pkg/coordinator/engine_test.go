package coordinator

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syndicate-hq/coordinator/pkg/blockchain"
	"github.com/syndicate-hq/coordinator/pkg/bridge"
	"github.com/syndicate-hq/coordinator/pkg/contracts"
	"github.com/syndicate-hq/coordinator/pkg/models"
	"github.com/syndicate-hq/coordinator/pkg/store"
)

// mockReader is a test implementation of ChainReader
type mockReader struct {
	mu       sync.Mutex
	intents  map[string]contracts.ResolverIntent
	tickets  map[string]common.Address
	getCalls int
}

func newMockReader() *mockReader {
	return &mockReader{
		intents: make(map[string]contracts.ResolverIntent),
		tickets: make(map[string]common.Address),
	}
}

func (m *mockReader) GetIntent(ctx context.Context, intentID string) (contracts.ResolverIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getCalls++
	details, ok := m.intents[intentID]
	if !ok {
		return contracts.ResolverIntent{}, errors.New("execution reverted: unknown intent")
	}
	return details, nil
}

func (m *mockReader) TicketToSyndicate(ctx context.Context, ticketID *big.Int) (common.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tickets[ticketID.String()], nil
}

func (m *mockReader) GetIntentCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getCalls
}

type pollResult struct {
	status bridge.Status
	err    error
}

// mockBridge replays a scripted sequence of poll results, repeating the last
// entry once the script is exhausted
type mockBridge struct {
	mu     sync.Mutex
	script []pollResult
	calls  int
}

func (m *mockBridge) DepositStatus(ctx context.Context, intentID string) (bridge.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.calls
	m.calls++
	if len(m.script) == 0 {
		return bridge.StatusPending, nil
	}
	if i >= len(m.script) {
		i = len(m.script) - 1
	}
	return m.script[i].status, m.script[i].err
}

func (m *mockBridge) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockResolver is a test implementation of IntentResolver
type mockResolver struct {
	mu      sync.Mutex
	receipt *types.Receipt
	err     error
	calls   int
}

func (m *mockResolver) ResolveIntent(ctx context.Context, nm *blockchain.NonceManager, intentID string, signature []byte) (*types.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.receipt, nil
}

func crossChainDetails() contracts.ResolverIntent {
	return contracts.ResolverIntent{
		SyndicateAddress: common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Amount:           mustBig("100000000000000000000"),
		TokenAddress:     common.HexToAddress("0x2222222222222222222222222222222222222222"),
		SourceChain:      1,
		DestinationChain: 2,
		UseOptimalRoute:  true,
		MaxFeePercentage: big.NewInt(100),
		Deadline:         big.NewInt(time.Now().Add(time.Hour).Unix()),
	}
}

func sameChainDetails() contracts.ResolverIntent {
	details := crossChainDetails()
	details.DestinationChain = 1
	return details
}

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid big int literal: " + s)
	}
	return v
}

func submittedEvent(intentID string) models.IntentSubmittedEvent {
	return models.IntentSubmittedEvent{
		IntentID:   intentID,
		User:       "0x3333333333333333333333333333333333333333",
		IntentType: models.IntentTypeBuyTicket,
		Meta:       models.LogMeta{ChainID: 1, BlockNumber: 100, TxHash: "0xaaa", LogIndex: 0},
	}
}

func initiatedEvent(intentID string) models.CrossChainOperationInitiatedEvent {
	return models.CrossChainOperationInitiatedEvent{
		IntentID:         intentID,
		SourceChain:      1,
		DestinationChain: 2,
		Meta:             models.LogMeta{ChainID: 1, BlockNumber: 101, TxHash: "0xbbb", LogIndex: 1},
	}
}

// flakyStore wraps a Store and fails a scripted number of calls before
// delegating, simulating transient database outages.
type flakyStore struct {
	store.Store
	mu               sync.Mutex
	getIntentErrs    int
	updateStatusErrs int
}

func (f *flakyStore) GetIntent(ctx context.Context, intentID string) (*models.Intent, error) {
	f.mu.Lock()
	if f.getIntentErrs > 0 {
		f.getIntentErrs--
		f.mu.Unlock()
		return nil, errors.New("db connection reset")
	}
	f.mu.Unlock()
	return f.Store.GetIntent(ctx, intentID)
}

func (f *flakyStore) UpdateIntentStatus(ctx context.Context, intentID string, status models.IntentStatus) error {
	f.mu.Lock()
	if f.updateStatusErrs > 0 {
		f.updateStatusErrs--
		f.mu.Unlock()
		return errors.New("db connection reset")
	}
	f.mu.Unlock()
	return f.Store.UpdateIntentStatus(ctx, intentID, status)
}

type testEngine struct {
	engine *Engine
	store  store.Store
	reader *mockReader
	bridge *mockBridge
}

func newTestEngine(t *testing.T, cfg Config) *testEngine {
	t.Helper()

	st := store.NewMemoryStore()
	reader := newMockReader()
	br := &mockBridge{}

	engine, err := New(Deps{
		Store:   st,
		Readers: map[int]ChainReader{1: reader, 2: reader},
		Bridge:  br,
	}, cfg)
	require.NoError(t, err)

	require.NoError(t, engine.Start(context.Background()))
	t.Cleanup(engine.Stop)

	return &testEngine{engine: engine, store: st, reader: reader, bridge: br}
}

func fastPollConfig() Config {
	return Config{
		PendingPollInterval: 5 * time.Millisecond,
		ErrorPollInterval:   10 * time.Millisecond,
		PollCallTimeout:     time.Second,
	}
}

func TestSameChainIntentStaysPending(t *testing.T) {
	te := newTestEngine(t, fastPollConfig())
	intentID := common.HexToHash("0x1").Hex()
	te.reader.intents[intentID] = sameChainDetails()

	require.NoError(t, te.engine.HandleIntentSubmitted(context.Background(), submittedEvent(intentID)))

	intent, err := te.store.GetIntent(context.Background(), intentID)
	require.NoError(t, err)
	assert.Equal(t, models.IntentStatusPending, intent.Status)
	assert.Equal(t, "100000000000000000000", intent.Amount)

	txs, err := te.store.ListTransactionsByIntent(context.Background(), intentID)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestCrossChainIntentPromotedToExecuting(t *testing.T) {
	te := newTestEngine(t, fastPollConfig())
	intentID := common.HexToHash("0x2").Hex()
	te.reader.intents[intentID] = crossChainDetails()

	require.NoError(t, te.engine.HandleIntentSubmitted(context.Background(), submittedEvent(intentID)))

	intent, err := te.store.GetIntent(context.Background(), intentID)
	require.NoError(t, err)
	assert.Equal(t, models.IntentStatusExecuting, intent.Status)
	assert.Equal(t, 1, intent.SourceChain)
	assert.Equal(t, 2, intent.DestinationChain)
}

func TestDuplicateSubmissionIsIdempotent(t *testing.T) {
	te := newTestEngine(t, fastPollConfig())
	intentID := common.HexToHash("0x3").Hex()
	te.reader.intents[intentID] = crossChainDetails()

	require.NoError(t, te.engine.HandleIntentSubmitted(context.Background(), submittedEvent(intentID)))
	require.NoError(t, te.engine.HandleIntentSubmitted(context.Background(), submittedEvent(intentID)))

	assert.Equal(t, 1, te.reader.GetIntentCalls())

	page, err := te.store.ListIntentsByUser(context.Background(), "0x3333333333333333333333333333333333333333", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
}

func TestInitiationForUnknownIntentLeavesStoreUnchanged(t *testing.T) {
	te := newTestEngine(t, fastPollConfig())
	intentID := common.HexToHash("0x4").Hex()

	err := te.engine.HandleCrossChainInitiated(context.Background(), initiatedEvent(intentID))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownIntent))
	assert.True(t, isStructural(err))

	_, err = te.store.GetIntent(context.Background(), intentID)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	txs, err := te.store.ListTransactionsByIntent(context.Background(), intentID)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestConcurrentInitiationCreatesOneBridgeTransaction(t *testing.T) {
	te := newTestEngine(t, fastPollConfig())
	intentID := common.HexToHash("0x5").Hex()
	te.reader.intents[intentID] = crossChainDetails()

	require.NoError(t, te.engine.HandleIntentSubmitted(context.Background(), submittedEvent(intentID)))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = te.engine.HandleCrossChainInitiated(context.Background(), initiatedEvent(intentID))
		}()
	}
	wg.Wait()

	txs, err := te.store.ListTransactionsByIntent(context.Background(), intentID)
	require.NoError(t, err)

	bridgeTxs := 0
	for _, tx := range txs {
		if tx.Type == models.TransactionTypeBridge && tx.Status != models.TransactionStatusFailed {
			bridgeTxs++
		}
	}
	assert.Equal(t, 1, bridgeTxs)
}

func TestBridgeLifecycleCompletesAfterPendingPolls(t *testing.T) {
	te := newTestEngine(t, fastPollConfig())
	te.bridge.script = []pollResult{
		{status: bridge.StatusPending},
		{status: bridge.StatusPending},
		{status: bridge.StatusPending},
		{status: bridge.StatusRelayed},
	}

	intentID := common.HexToHash("0x6").Hex()
	te.reader.intents[intentID] = crossChainDetails()

	require.NoError(t, te.engine.HandleIntentSubmitted(context.Background(), submittedEvent(intentID)))
	require.NoError(t, te.engine.HandleCrossChainInitiated(context.Background(), initiatedEvent(intentID)))

	require.Eventually(t, func() bool {
		intent, err := te.store.GetIntent(context.Background(), intentID)
		return err == nil && intent.Status == models.IntentStatusCompleted
	}, 2*time.Second, 2*time.Millisecond)

	assert.GreaterOrEqual(t, te.bridge.Calls(), 4)

	txs, err := te.store.ListTransactionsByIntent(context.Background(), intentID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.TransactionTypeBridge, txs[0].Type)
	assert.Equal(t, models.TransactionStatusConfirmed, txs[0].Status)
}

func TestBridgeQueryErrorsDoNotPreventCompletion(t *testing.T) {
	te := newTestEngine(t, fastPollConfig())
	te.bridge.script = []pollResult{
		{err: errors.New("connection refused")},
		{err: errors.New("connection refused")},
		{status: bridge.StatusRelayed},
	}

	intentID := common.HexToHash("0x7").Hex()
	te.reader.intents[intentID] = crossChainDetails()

	require.NoError(t, te.engine.HandleIntentSubmitted(context.Background(), submittedEvent(intentID)))
	require.NoError(t, te.engine.HandleCrossChainInitiated(context.Background(), initiatedEvent(intentID)))

	require.Eventually(t, func() bool {
		intent, err := te.store.GetIntent(context.Background(), intentID)
		return err == nil && intent.Status == models.IntentStatusCompleted
	}, 2*time.Second, 2*time.Millisecond)

	assert.GreaterOrEqual(t, te.bridge.Calls(), 3)
}

func TestReconstructResumesPollingFromStore(t *testing.T) {
	st := store.NewMemoryStore()
	intentID := common.HexToHash("0x8").Hex()

	require.NoError(t, st.CreateIntent(context.Background(), &models.Intent{
		ID:               intentID,
		User:             "0x3333333333333333333333333333333333333333",
		IntentType:       models.IntentTypeJoinSyndicate,
		Amount:           "5000",
		SourceChain:      1,
		DestinationChain: 2,
		Status:           models.IntentStatusExecuting,
	}))
	require.NoError(t, st.CreateTransaction(context.Background(), &models.Transaction{
		IntentID: intentID,
		ChainID:  1,
		Type:     models.TransactionTypeBridge,
		Status:   models.TransactionStatusPending,
	}))

	br := &mockBridge{script: []pollResult{{status: bridge.StatusRelayed}}}
	engine, err := New(Deps{
		Store:   st,
		Readers: map[int]ChainReader{1: newMockReader()},
		Bridge:  br,
	}, fastPollConfig())
	require.NoError(t, err)

	require.NoError(t, engine.Start(context.Background()))
	defer engine.Stop()

	require.Eventually(t, func() bool {
		intent, err := st.GetIntent(context.Background(), intentID)
		return err == nil && intent.Status == models.IntentStatusCompleted
	}, 2*time.Second, 2*time.Millisecond)

	tx, err := st.ListTransactionsByIntent(context.Background(), intentID)
	require.NoError(t, err)
	require.Len(t, tx, 1)
	assert.Equal(t, models.TransactionStatusConfirmed, tx[0].Status)
}

func TestTransientStoreErrorDoesNotStopPolling(t *testing.T) {
	mem := store.NewMemoryStore()
	intentID := common.HexToHash("0xe").Hex()

	require.NoError(t, mem.CreateIntent(context.Background(), &models.Intent{
		ID:               intentID,
		User:             "0x3333333333333333333333333333333333333333",
		IntentType:       models.IntentTypeJoinSyndicate,
		Amount:           "5000",
		SourceChain:      1,
		DestinationChain: 2,
		Status:           models.IntentStatusExecuting,
	}))
	require.NoError(t, mem.CreateTransaction(context.Background(), &models.Transaction{
		IntentID: intentID,
		ChainID:  1,
		Type:     models.TransactionTypeBridge,
		Status:   models.TransactionStatusPending,
	}))

	// The first intent lookup of the poll fails; the retry must still reach
	// the bridge and observe the relay.
	flaky := &flakyStore{Store: mem, getIntentErrs: 1}
	br := &mockBridge{script: []pollResult{{status: bridge.StatusRelayed}}}

	engine, err := New(Deps{
		Store:   flaky,
		Readers: map[int]ChainReader{1: newMockReader()},
		Bridge:  br,
	}, fastPollConfig())
	require.NoError(t, err)
	require.NoError(t, engine.Start(context.Background()))
	defer engine.Stop()

	require.Eventually(t, func() bool {
		intent, err := mem.GetIntent(context.Background(), intentID)
		return err == nil && intent.Status == models.IntentStatusCompleted
	}, 2*time.Second, 2*time.Millisecond)

	assert.GreaterOrEqual(t, br.Calls(), 1)
}

func TestTransientCompletionErrorRetriesPoll(t *testing.T) {
	mem := store.NewMemoryStore()
	intentID := common.HexToHash("0xf").Hex()

	require.NoError(t, mem.CreateIntent(context.Background(), &models.Intent{
		ID:               intentID,
		User:             "0x3333333333333333333333333333333333333333",
		IntentType:       models.IntentTypeJoinSyndicate,
		Amount:           "5000",
		SourceChain:      1,
		DestinationChain: 2,
		Status:           models.IntentStatusExecuting,
	}))
	require.NoError(t, mem.CreateTransaction(context.Background(), &models.Transaction{
		IntentID: intentID,
		ChainID:  1,
		Type:     models.TransactionTypeBridge,
		Status:   models.TransactionStatusPending,
	}))

	// The relay is observed but the completion write fails once; the next
	// poll replays the idempotent completion.
	flaky := &flakyStore{Store: mem, updateStatusErrs: 1}
	br := &mockBridge{script: []pollResult{{status: bridge.StatusRelayed}}}

	engine, err := New(Deps{
		Store:   flaky,
		Readers: map[int]ChainReader{1: newMockReader()},
		Bridge:  br,
	}, fastPollConfig())
	require.NoError(t, err)
	require.NoError(t, engine.Start(context.Background()))
	defer engine.Stop()

	require.Eventually(t, func() bool {
		intent, err := mem.GetIntent(context.Background(), intentID)
		return err == nil && intent.Status == models.IntentStatusCompleted
	}, 2*time.Second, 2*time.Millisecond)

	assert.GreaterOrEqual(t, br.Calls(), 2)
}

func TestInitiationForTerminalIntentIsIgnored(t *testing.T) {
	te := newTestEngine(t, fastPollConfig())
	intentID := common.HexToHash("0x9").Hex()
	te.reader.intents[intentID] = crossChainDetails()

	require.NoError(t, te.engine.HandleIntentSubmitted(context.Background(), submittedEvent(intentID)))
	require.NoError(t, te.store.UpdateIntentStatus(context.Background(), intentID, models.IntentStatusFailed))

	require.NoError(t, te.engine.HandleCrossChainInitiated(context.Background(), initiatedEvent(intentID)))

	txs, err := te.store.ListTransactionsByIntent(context.Background(), intentID)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestMaxPollAttemptsFailsIntent(t *testing.T) {
	cfg := fastPollConfig()
	cfg.MaxPollAttempts = 3
	te := newTestEngine(t, cfg)
	te.bridge.script = []pollResult{{status: bridge.StatusPending}}

	intentID := common.HexToHash("0xa").Hex()
	te.reader.intents[intentID] = crossChainDetails()

	require.NoError(t, te.engine.HandleIntentSubmitted(context.Background(), submittedEvent(intentID)))
	require.NoError(t, te.engine.HandleCrossChainInitiated(context.Background(), initiatedEvent(intentID)))

	require.Eventually(t, func() bool {
		intent, err := te.store.GetIntent(context.Background(), intentID)
		return err == nil && intent.Status == models.IntentStatusFailed
	}, 2*time.Second, 2*time.Millisecond)

	txs, err := te.store.ListTransactionsByIntent(context.Background(), intentID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.TransactionStatusFailed, txs[0].Status)
}

func TestDeadlinePolicyFailsExpiredIntent(t *testing.T) {
	te := newTestEngine(t, fastPollConfig())
	te.engine.DeadlinePolicy = func(models.Intent) bool { return true }
	te.bridge.script = []pollResult{{status: bridge.StatusPending}}

	intentID := common.HexToHash("0xb").Hex()
	details := crossChainDetails()
	details.Deadline = big.NewInt(time.Now().Add(-time.Hour).Unix())
	te.reader.intents[intentID] = details

	require.NoError(t, te.engine.HandleIntentSubmitted(context.Background(), submittedEvent(intentID)))
	require.NoError(t, te.engine.HandleCrossChainInitiated(context.Background(), initiatedEvent(intentID)))

	require.Eventually(t, func() bool {
		intent, err := te.store.GetIntent(context.Background(), intentID)
		return err == nil && intent.Status == models.IntentStatusFailed
	}, 2*time.Second, 2*time.Millisecond)
}

func TestWinningTicketForUntrackedSyndicateIsNoOp(t *testing.T) {
	te := newTestEngine(t, fastPollConfig())

	err := te.engine.HandleWinningTicket(context.Background(), models.WinningTicketDetectedEvent{
		TicketID: "42",
		Amount:   "1000000",
		Meta:     models.LogMeta{ChainID: 2, BlockNumber: 200, TxHash: "0xccc"},
	})
	assert.NoError(t, err)
}

func TestWinningTicketForTrackedSyndicateIsObserved(t *testing.T) {
	te := newTestEngine(t, fastPollConfig())
	te.reader.tickets["42"] = common.HexToAddress("0x4444444444444444444444444444444444444444")

	err := te.engine.HandleWinningTicket(context.Background(), models.WinningTicketDetectedEvent{
		TicketID: "42",
		Amount:   "1000000",
		Meta:     models.LogMeta{ChainID: 2, BlockNumber: 200, TxHash: "0xccc"},
	})
	assert.NoError(t, err)
}

func TestResolveIntentCompletesSameChainIntent(t *testing.T) {
	st := store.NewMemoryStore()
	intentID := common.HexToHash("0xc").Hex()

	require.NoError(t, st.CreateIntent(context.Background(), &models.Intent{
		ID:               intentID,
		User:             "0x3333333333333333333333333333333333333333",
		IntentType:       models.IntentTypeClaimWinnings,
		Amount:           "7000",
		SourceChain:      1,
		DestinationChain: 1,
		Status:           models.IntentStatusPending,
	}))

	resolver := &mockResolver{receipt: &types.Receipt{
		TxHash:      common.HexToHash("0xdead"),
		BlockNumber: big.NewInt(500),
		GasUsed:     21000,
	}}

	engine, err := New(Deps{
		Store:     st,
		Readers:   map[int]ChainReader{1: newMockReader()},
		Bridge:    &mockBridge{},
		Resolvers: map[int]IntentResolver{1: resolver},
	}, fastPollConfig())
	require.NoError(t, err)
	require.NoError(t, engine.Start(context.Background()))
	defer engine.Stop()

	require.NoError(t, engine.ResolveIntent(context.Background(), intentID, []byte{0x1}))

	intent, err := st.GetIntent(context.Background(), intentID)
	require.NoError(t, err)
	assert.Equal(t, models.IntentStatusCompleted, intent.Status)

	txs, err := st.ListTransactionsByIntent(context.Background(), intentID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.TransactionTypeIntentSubmission, txs[0].Type)
	assert.Equal(t, "21000", txs[0].GasUsed)

	// A second resolution is rejected because the intent is terminal
	err = engine.ResolveIntent(context.Background(), intentID, []byte{0x1})
	assert.True(t, errors.Is(err, store.ErrIntentTerminal))
	assert.Equal(t, 1, resolver.calls)
}

func TestStopCancelsOutstandingPolls(t *testing.T) {
	cfg := fastPollConfig()
	cfg.PendingPollInterval = time.Hour
	te := newTestEngine(t, cfg)
	te.bridge.script = []pollResult{{status: bridge.StatusPending}}

	intentID := common.HexToHash("0xd").Hex()
	te.reader.intents[intentID] = crossChainDetails()

	require.NoError(t, te.engine.HandleIntentSubmitted(context.Background(), submittedEvent(intentID)))
	require.NoError(t, te.engine.HandleCrossChainInitiated(context.Background(), initiatedEvent(intentID)))

	require.Eventually(t, func() bool {
		return te.bridge.Calls() >= 1
	}, 2*time.Second, 2*time.Millisecond)

	te.engine.Stop()
	assert.Equal(t, 0, te.engine.PendingPolls())
}
