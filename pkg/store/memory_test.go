package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syndicate-hq/coordinator/pkg/models"
)

func newTestIntent(id string) *models.Intent {
	return &models.Intent{
		ID:               id,
		User:             "0x1111111111111111111111111111111111111111",
		IntentType:       models.IntentTypeJoinSyndicate,
		SyndicateAddress: "0x2222222222222222222222222222222222222222",
		Amount:           "1000000",
		TokenAddress:     "0x3333333333333333333333333333333333333333",
		SourceChain:      8453,
		DestinationChain: 137,
		Status:           models.IntentStatusPending,
	}
}

func TestCreateIntentRejectsDuplicate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	err := s.CreateIntent(ctx, newTestIntent("0xaa"))
	require.NoError(t, err)

	err = s.CreateIntent(ctx, newTestIntent("0xaa"))
	assert.ErrorIs(t, err, ErrDuplicateIntent)
}

func TestAmountPrecisionRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	// 100 tokens at 18 decimals exceeds float64 precision
	intent := newTestIntent("0xbb")
	intent.Amount = "100000000000000000000"
	require.NoError(t, s.CreateIntent(ctx, intent))

	got, err := s.GetIntent(ctx, "0xbb")
	require.NoError(t, err)
	assert.Equal(t, "100000000000000000000", got.Amount)
}

func TestUpdateIntentStatus(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.CreateIntent(ctx, newTestIntent("0xcc")))

	err := s.UpdateIntentStatus(ctx, "0xcc", models.IntentStatusExecuting)
	require.NoError(t, err)

	got, err := s.GetIntent(ctx, "0xcc")
	require.NoError(t, err)
	assert.Equal(t, models.IntentStatusExecuting, got.Status)

	err = s.UpdateIntentStatus(ctx, "0xmissing", models.IntentStatusExecuting)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTerminalIntentIsImmutable(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.CreateIntent(ctx, newTestIntent("0xdd")))
	require.NoError(t, s.CreateTransaction(ctx, &models.Transaction{
		IntentID: "0xdd",
		ChainID:  8453,
		Type:     models.TransactionTypeBridge,
		Status:   models.TransactionStatusConfirmed,
	}))
	require.NoError(t, s.UpdateIntentStatus(ctx, "0xdd", models.IntentStatusCompleted))

	err := s.UpdateIntentStatus(ctx, "0xdd", models.IntentStatusFailed)
	assert.ErrorIs(t, err, ErrIntentTerminal)

	got, err := s.GetIntent(ctx, "0xdd")
	require.NoError(t, err)
	assert.Equal(t, models.IntentStatusCompleted, got.Status)
}

func TestCompletionRequiresBridgeTransaction(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	// Cross-chain: completing without a bridge transaction is rejected
	require.NoError(t, s.CreateIntent(ctx, newTestIntent("0xd1")))
	err := s.UpdateIntentStatus(ctx, "0xd1", models.IntentStatusCompleted)
	assert.ErrorIs(t, err, ErrNoBridgeTransaction)

	got, err := s.GetIntent(ctx, "0xd1")
	require.NoError(t, err)
	assert.Equal(t, models.IntentStatusPending, got.Status)

	// A FAILED bridge transaction does not satisfy the requirement
	require.NoError(t, s.CreateTransaction(ctx, &models.Transaction{
		IntentID: "0xd1",
		ChainID:  8453,
		Type:     models.TransactionTypeBridge,
		Status:   models.TransactionStatusFailed,
	}))
	err = s.UpdateIntentStatus(ctx, "0xd1", models.IntentStatusCompleted)
	assert.ErrorIs(t, err, ErrNoBridgeTransaction)

	require.NoError(t, s.CreateTransaction(ctx, &models.Transaction{
		IntentID: "0xd1",
		ChainID:  8453,
		Type:     models.TransactionTypeBridge,
		Status:   models.TransactionStatusPending,
	}))
	require.NoError(t, s.UpdateIntentStatus(ctx, "0xd1", models.IntentStatusCompleted))

	// Same-chain: no bridge leg is required
	sameChain := newTestIntent("0xd2")
	sameChain.DestinationChain = sameChain.SourceChain
	require.NoError(t, s.CreateIntent(ctx, sameChain))
	require.NoError(t, s.UpdateIntentStatus(ctx, "0xd2", models.IntentStatusCompleted))
}

func TestCreateTransactionRequiresIntent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	err := s.CreateTransaction(ctx, &models.Transaction{
		IntentID: "0xmissing",
		ChainID:  137,
		Type:     models.TransactionTypeBridge,
		Status:   models.TransactionStatusPending,
	})
	assert.ErrorIs(t, err, ErrIntentNotFound)
}

func TestActiveBridgeTransaction(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.CreateIntent(ctx, newTestIntent("0xee")))

	_, err := s.ActiveBridgeTransaction(ctx, "0xee")
	assert.ErrorIs(t, err, ErrNotFound)

	failed := &models.Transaction{
		IntentID: "0xee",
		ChainID:  8453,
		Type:     models.TransactionTypeBridge,
		Status:   models.TransactionStatusFailed,
	}
	require.NoError(t, s.CreateTransaction(ctx, failed))

	// Failed bridge transactions do not count as active
	_, err = s.ActiveBridgeTransaction(ctx, "0xee")
	assert.ErrorIs(t, err, ErrNotFound)

	active := &models.Transaction{
		IntentID: "0xee",
		ChainID:  8453,
		Type:     models.TransactionTypeBridge,
		Status:   models.TransactionStatusPending,
	}
	require.NoError(t, s.CreateTransaction(ctx, active))

	got, err := s.ActiveBridgeTransaction(ctx, "0xee")
	require.NoError(t, err)
	assert.Equal(t, active.ID, got.ID)
}

func TestListTransactionsByIntentOrdered(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.CreateIntent(ctx, newTestIntent("0xff")))

	types := []models.TransactionType{
		models.TransactionTypeApproval,
		models.TransactionTypeIntentSubmission,
		models.TransactionTypeBridge,
	}
	for _, typ := range types {
		require.NoError(t, s.CreateTransaction(ctx, &models.Transaction{
			IntentID: "0xff",
			ChainID:  8453,
			Type:     typ,
			Status:   models.TransactionStatusPending,
		}))
	}

	txns, err := s.ListTransactionsByIntent(ctx, "0xff")
	require.NoError(t, err)
	require.Len(t, txns, 3)
	for i, typ := range types {
		assert.Equal(t, typ, txns[i].Type)
	}
}

func TestListIntentsByUserPagination(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		intent := newTestIntent(fmt.Sprintf("0x%02d", i))
		require.NoError(t, s.CreateIntent(ctx, intent))
	}

	page, err := s.ListIntentsByUser(ctx, "0x1111111111111111111111111111111111111111", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Intents, 2)

	last, err := s.ListIntentsByUser(ctx, "0x1111111111111111111111111111111111111111", 3, 2)
	require.NoError(t, err)
	assert.Len(t, last.Intents, 1)

	empty, err := s.ListIntentsByUser(ctx, "0x9999999999999999999999999999999999999999", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.TotalCount)
	assert.Empty(t, empty.Intents)
}

func TestListIntentsByStatus(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	a := newTestIntent("0xa1")
	require.NoError(t, s.CreateIntent(ctx, a))

	b := newTestIntent("0xb2")
	b.Status = models.IntentStatusExecuting
	require.NoError(t, s.CreateIntent(ctx, b))

	executing, err := s.ListIntentsByStatus(ctx, models.IntentStatusExecuting)
	require.NoError(t, err)
	require.Len(t, executing, 1)
	assert.Equal(t, "0xb2", executing[0].ID)
}
