// Package store provides durable persistence for intents and their transactions.
package store

import (
	"context"
	"errors"

	"github.com/syndicate-hq/coordinator/pkg/models"
)

var (
	// ErrDuplicateIntent is returned when an intent ID already exists
	ErrDuplicateIntent = errors.New("intent already exists")

	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrIntentTerminal is returned when mutating an intent that reached COMPLETED or FAILED
	ErrIntentTerminal = errors.New("intent is in a terminal state")

	// ErrIntentNotFound is returned when a transaction references a missing intent
	ErrIntentNotFound = errors.New("transaction references unknown intent")

	// ErrNoBridgeTransaction is returned when completing a cross-chain intent
	// that has no non-FAILED BRIDGE transaction
	ErrNoBridgeTransaction = errors.New("cross-chain intent has no bridge transaction")
)

// IntentPage is one page of a user's intents
type IntentPage struct {
	Intents    []models.Intent
	TotalCount int64
	Page       int
	TotalPages int
}

// Store is the durable record store shared by all engine handlers. Implementations
// must make status updates atomic per row so concurrent handlers for different
// intents cannot produce lost updates.
type Store interface {
	// CreateIntent persists a new intent, failing with ErrDuplicateIntent when
	// the intent ID is already recorded.
	CreateIntent(ctx context.Context, intent *models.Intent) error

	// GetIntent returns the intent with the given ID or ErrNotFound.
	GetIntent(ctx context.Context, intentID string) (*models.Intent, error)

	// UpdateIntentStatus atomically moves an intent to a new status. It fails
	// with ErrNotFound when the intent is absent, ErrIntentTerminal when the
	// intent already reached COMPLETED or FAILED, and ErrNoBridgeTransaction
	// when moving a cross-chain intent to COMPLETED without a non-FAILED
	// BRIDGE transaction.
	UpdateIntentStatus(ctx context.Context, intentID string, status models.IntentStatus) error

	// CreateTransaction records an operation owned by an intent, failing with
	// ErrIntentNotFound when the intent does not exist.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// UpdateTransactionStatus moves a transaction to a new status.
	UpdateTransactionStatus(ctx context.Context, txID uint64, status models.TransactionStatus) error

	// ListTransactionsByIntent returns the intent's transactions in creation order.
	ListTransactionsByIntent(ctx context.Context, intentID string) ([]models.Transaction, error)

	// ActiveBridgeTransaction returns the intent's non-FAILED BRIDGE transaction,
	// or ErrNotFound when none exists. At most one may exist at a time.
	ActiveBridgeTransaction(ctx context.Context, intentID string) (*models.Transaction, error)

	// ListIntentsByStatus returns all intents with the given status. Used to
	// reconstruct pending work after a restart.
	ListIntentsByStatus(ctx context.Context, status models.IntentStatus) ([]models.Intent, error)

	// ListIntentsByUser returns one page of a user's intents, newest first.
	ListIntentsByUser(ctx context.Context, user string, page, limit int) (*IntentPage, error)
}
