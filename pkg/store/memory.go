package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/syndicate-hq/coordinator/pkg/models"
)

// MemoryStore is an in-memory Store with the same semantics as the Postgres
// implementation. It backs local development and the engine tests.
type MemoryStore struct {
	mu       sync.Mutex
	intents  map[string]models.Intent
	txns     map[uint64]models.Transaction
	nextTxID uint64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		intents:  make(map[string]models.Intent),
		txns:     make(map[uint64]models.Transaction),
		nextTxID: 1,
	}
}

// CreateIntent persists a new intent
func (s *MemoryStore) CreateIntent(_ context.Context, intent *models.Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.intents[intent.ID]; exists {
		return ErrDuplicateIntent
	}

	now := time.Now()
	intent.CreatedAt = now
	intent.UpdatedAt = now
	s.intents[intent.ID] = *intent
	return nil
}

// GetIntent fetches an intent by ID
func (s *MemoryStore) GetIntent(_ context.Context, intentID string) (*models.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, exists := s.intents[intentID]
	if !exists {
		return nil, ErrNotFound
	}
	return &intent, nil
}

// UpdateIntentStatus moves an intent to a new status, rejecting mutations of
// terminal intents
func (s *MemoryStore) UpdateIntentStatus(_ context.Context, intentID string, status models.IntentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, exists := s.intents[intentID]
	if !exists {
		return ErrNotFound
	}
	if intent.Status.IsTerminal() {
		return ErrIntentTerminal
	}
	if status == models.IntentStatusCompleted && intent.IsCrossChain() && !s.hasActiveBridgeLocked(intentID) {
		return ErrNoBridgeTransaction
	}

	intent.Status = status
	intent.UpdatedAt = time.Now()
	s.intents[intentID] = intent
	return nil
}

// hasActiveBridgeLocked reports whether the intent has a non-FAILED BRIDGE
// transaction. Callers must hold s.mu.
func (s *MemoryStore) hasActiveBridgeLocked(intentID string) bool {
	for _, txn := range s.txns {
		if txn.IntentID == intentID &&
			txn.Type == models.TransactionTypeBridge &&
			txn.Status != models.TransactionStatusFailed {
			return true
		}
	}
	return false
}

// CreateTransaction records an operation owned by an intent
func (s *MemoryStore) CreateTransaction(_ context.Context, txn *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.intents[txn.IntentID]; !exists {
		return ErrIntentNotFound
	}

	now := time.Now()
	txn.ID = s.nextTxID
	s.nextTxID++
	txn.CreatedAt = now
	txn.UpdatedAt = now
	s.txns[txn.ID] = *txn
	return nil
}

// UpdateTransactionStatus moves a transaction to a new status
func (s *MemoryStore) UpdateTransactionStatus(_ context.Context, txID uint64, status models.TransactionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txn, exists := s.txns[txID]
	if !exists {
		return ErrNotFound
	}

	txn.Status = status
	txn.UpdatedAt = time.Now()
	s.txns[txID] = txn
	return nil
}

// ListTransactionsByIntent returns an intent's transactions in creation order
func (s *MemoryStore) ListTransactionsByIntent(_ context.Context, intentID string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var txns []models.Transaction
	for _, txn := range s.txns {
		if txn.IntentID == intentID {
			txns = append(txns, txn)
		}
	}
	sort.Slice(txns, func(i, j int) bool { return txns[i].ID < txns[j].ID })
	return txns, nil
}

// ActiveBridgeTransaction returns the non-FAILED BRIDGE transaction for an intent
func (s *MemoryStore) ActiveBridgeTransaction(_ context.Context, intentID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found *models.Transaction
	for id := range s.txns {
		txn := s.txns[id]
		if txn.IntentID == intentID &&
			txn.Type == models.TransactionTypeBridge &&
			txn.Status != models.TransactionStatusFailed {
			if found == nil || txn.ID < found.ID {
				copied := txn
				found = &copied
			}
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

// ListIntentsByStatus returns all intents with the given status
func (s *MemoryStore) ListIntentsByStatus(_ context.Context, status models.IntentStatus) ([]models.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var intents []models.Intent
	for _, intent := range s.intents {
		if intent.Status == status {
			intents = append(intents, intent)
		}
	}
	sort.Slice(intents, func(i, j int) bool {
		return intents[i].CreatedAt.Before(intents[j].CreatedAt)
	})
	return intents, nil
}

// ListIntentsByUser returns one page of a user's intents, newest first
func (s *MemoryStore) ListIntentsByUser(_ context.Context, user string, page, limit int) (*IntentPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var all []models.Intent
	for _, intent := range s.intents {
		if intent.User == user {
			all = append(all, intent)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := int64(len(all))
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	return &IntentPage{
		Intents:    all[start:end],
		TotalCount: total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}
