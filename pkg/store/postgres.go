package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/syndicate-hq/coordinator/pkg/logger"
	"github.com/syndicate-hq/coordinator/pkg/models"
)

// PostgreSQL error codes
const (
	pgErrForeignKeyViolation = "23503"
	pgErrUniqueViolation     = "23505"
)

// PostgresStore implements Store on a PostgreSQL database
type PostgresStore struct {
	db     *gorm.DB
	logger logger.Logger
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to the database and runs schema migrations.
// Connection attempts are retried because the database may still be starting
// when the coordinator boots.
func NewPostgresStore(dsn string, log logger.Logger) (*PostgresStore, error) {
	var db *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err == nil {
			break
		}
		log.Error("Database connection attempt %d failed: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Intent{}, &models.Transaction{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %v", err)
	}

	log.Info("Connected to database and completed schema migration")
	return &PostgresStore{db: db, logger: log}, nil
}

// CreateIntent persists a new intent row
func (s *PostgresStore) CreateIntent(ctx context.Context, intent *models.Intent) error {
	err := s.db.WithContext(ctx).Create(intent).Error
	if err != nil {
		if isPgError(err, pgErrUniqueViolation) {
			return ErrDuplicateIntent
		}
		return fmt.Errorf("failed to create intent %s: %v", intent.ID, err)
	}
	return nil
}

// GetIntent fetches an intent by ID
func (s *PostgresStore) GetIntent(ctx context.Context, intentID string) (*models.Intent, error) {
	var intent models.Intent
	err := s.db.WithContext(ctx).First(&intent, "intent_id = ?", intentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch intent %s: %v", intentID, err)
	}
	return &intent, nil
}

// UpdateIntentStatus moves an intent to a new status under a row lock so that
// concurrent handlers cannot interleave a terminal transition with another update.
func (s *PostgresStore) UpdateIntentStatus(ctx context.Context, intentID string, status models.IntentStatus) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var intent models.Intent
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&intent, "intent_id = ?", intentID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock intent %s: %v", intentID, err)
		}

		if intent.Status.IsTerminal() {
			return ErrIntentTerminal
		}

		if status == models.IntentStatusCompleted && intent.IsCrossChain() {
			var bridges int64
			err := tx.Model(&models.Transaction{}).
				Where("intent_id = ? AND tx_type = ? AND status <> ?",
					intentID, models.TransactionTypeBridge, models.TransactionStatusFailed).
				Count(&bridges).Error
			if err != nil {
				return fmt.Errorf("failed to count bridge transactions for intent %s: %v", intentID, err)
			}
			if bridges == 0 {
				return ErrNoBridgeTransaction
			}
		}

		return tx.Model(&models.Intent{}).
			Where("intent_id = ?", intentID).
			Update("status", status).Error
	})
}

// CreateTransaction records an operation owned by an intent
func (s *PostgresStore) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	err := s.db.WithContext(ctx).Create(txn).Error
	if err != nil {
		if isPgError(err, pgErrForeignKeyViolation) {
			return ErrIntentNotFound
		}
		return fmt.Errorf("failed to create transaction for intent %s: %v", txn.IntentID, err)
	}
	return nil
}

// UpdateTransactionStatus moves a transaction to a new status
func (s *PostgresStore) UpdateTransactionStatus(ctx context.Context, txID uint64, status models.TransactionStatus) error {
	result := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ?", txID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction %d: %v", txID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTransactionsByIntent returns an intent's transactions in creation order
func (s *PostgresStore) ListTransactionsByIntent(ctx context.Context, intentID string) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.WithContext(ctx).
		Where("intent_id = ?", intentID).
		Order("id ASC").
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for intent %s: %v", intentID, err)
	}
	return txns, nil
}

// ActiveBridgeTransaction returns the non-FAILED BRIDGE transaction for an intent
func (s *PostgresStore) ActiveBridgeTransaction(ctx context.Context, intentID string) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.WithContext(ctx).
		Where("intent_id = ? AND tx_type = ? AND status <> ?",
			intentID, models.TransactionTypeBridge, models.TransactionStatusFailed).
		Order("id ASC").
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch bridge transaction for intent %s: %v", intentID, err)
	}
	return &txn, nil
}

// ListIntentsByStatus returns all intents with the given status
func (s *PostgresStore) ListIntentsByStatus(ctx context.Context, status models.IntentStatus) ([]models.Intent, error) {
	var intents []models.Intent
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&intents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list intents with status %s: %v", status, err)
	}
	return intents, nil
}

// ListIntentsByUser returns one page of a user's intents, newest first
func (s *PostgresStore) ListIntentsByUser(ctx context.Context, user string, page, limit int) (*IntentPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Intent{}).
		Where("user_address = ?", user).
		Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count intents for user %s: %v", user, err)
	}

	var intents []models.Intent
	err := s.db.WithContext(ctx).
		Where("user_address = ?", user).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&intents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list intents for user %s: %v", user, err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &IntentPage{
		Intents:    intents,
		TotalCount: total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// isPgError reports whether err carries the given PostgreSQL error code
func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
