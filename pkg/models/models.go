package models

import (
	"time"
)

// IntentStatus represents the lifecycle state of an intent
type IntentStatus string

const (
	// IntentStatusPending indicates the intent was submitted but no cross-chain operation started
	IntentStatusPending IntentStatus = "PENDING"
	// IntentStatusExecuting indicates a cross-chain operation is in flight
	IntentStatusExecuting IntentStatus = "EXECUTING"
	// IntentStatusCompleted indicates terminal success
	IntentStatusCompleted IntentStatus = "COMPLETED"
	// IntentStatusFailed indicates terminal failure
	IntentStatusFailed IntentStatus = "FAILED"
)

// IsTerminal reports whether the status permits no further mutation
func (s IntentStatus) IsTerminal() bool {
	return s == IntentStatusCompleted || s == IntentStatusFailed
}

// IntentType represents the user-declared goal of an intent
type IntentType string

const (
	IntentTypeJoinSyndicate IntentType = "JOIN_SYNDICATE"
	IntentTypeBuyTicket     IntentType = "BUY_TICKET"
	IntentTypeClaimWinnings IntentType = "CLAIM_WINNINGS"
	IntentTypeWithdrawFunds IntentType = "WITHDRAW_FUNDS"
)

// IntentTypeFromCode maps the uint8 emitted by the resolver contract to an IntentType
func IntentTypeFromCode(code uint8) IntentType {
	switch code {
	case 0:
		return IntentTypeJoinSyndicate
	case 1:
		return IntentTypeBuyTicket
	case 2:
		return IntentTypeClaimWinnings
	case 3:
		return IntentTypeWithdrawFunds
	default:
		return ""
	}
}

// Intent represents one user-declared cross-chain goal tracked through its lifecycle.
// The intent ID is assigned by the originating contract, not by this service.
// Amounts are stored as decimal strings to preserve arbitrary precision.
type Intent struct {
	ID               string       `json:"id" gorm:"column:intent_id;primaryKey;type:varchar(66)"`
	User             string       `json:"user" gorm:"column:user_address;type:varchar(42);index;not null"`
	IntentType       IntentType   `json:"intent_type" gorm:"column:intent_type;type:varchar(20);not null"`
	SyndicateAddress string       `json:"syndicate_address" gorm:"column:syndicate_address;type:varchar(42);index"`
	Amount           string       `json:"amount" gorm:"column:amount;type:varchar(80);not null"`
	TokenAddress     string       `json:"token_address" gorm:"column:token_address;type:varchar(42)"`
	SourceChain      int          `json:"source_chain" gorm:"column:source_chain;not null"`
	DestinationChain int          `json:"destination_chain" gorm:"column:destination_chain;not null"`
	UseOptimalRoute  bool         `json:"use_optimal_route" gorm:"column:use_optimal_route"`
	MaxFeePercentage string       `json:"max_fee_percentage" gorm:"column:max_fee_percentage;type:varchar(10)"`
	Deadline         int64        `json:"deadline" gorm:"column:deadline"`
	Status           IntentStatus `json:"status" gorm:"column:status;type:varchar(10);index;not null"`
	Metadata         string       `json:"metadata,omitempty" gorm:"column:metadata;type:jsonb"`
	CreatedAt        time.Time    `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time    `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

// IsCrossChain reports whether the intent requires a bridge operation
func (i *Intent) IsCrossChain() bool {
	return i.SourceChain != i.DestinationChain
}

// DeadlineExpired reports whether the on-chain deadline has passed at the given time
func (i *Intent) DeadlineExpired(now time.Time) bool {
	return i.Deadline > 0 && now.Unix() > i.Deadline
}

// TransactionType classifies an on-chain or bridge operation tied to an intent
type TransactionType string

const (
	TransactionTypeApproval         TransactionType = "APPROVAL"
	TransactionTypeIntentSubmission TransactionType = "INTENT_SUBMISSION"
	TransactionTypeBridge           TransactionType = "BRIDGE"
	TransactionTypeTicketPurchase   TransactionType = "TICKET_PURCHASE"
)

// TransactionStatus represents the confirmation state of a tracked operation
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusConfirmed TransactionStatus = "CONFIRMED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction represents one on-chain or bridge operation owned by an intent.
// Gas figures are decimal strings for the same precision reasons as Intent.Amount.
type Transaction struct {
	ID          uint64            `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	IntentID    string            `json:"intent_id" gorm:"column:intent_id;type:varchar(66);index;not null"`
	ChainID     int               `json:"chain_id" gorm:"column:chain_id;index;not null"`
	TxHash      string            `json:"tx_hash" gorm:"column:tx_hash;type:varchar(66);index"`
	Type        TransactionType   `json:"type" gorm:"column:tx_type;type:varchar(20);not null"`
	Status      TransactionStatus `json:"status" gorm:"column:status;type:varchar(10);index;not null"`
	BlockNumber uint64            `json:"block_number,omitempty" gorm:"column:block_number"`
	GasUsed     string            `json:"gas_used,omitempty" gorm:"column:gas_used;type:varchar(80)"`
	GasFee      string            `json:"gas_fee,omitempty" gorm:"column:gas_fee;type:varchar(80)"`
	Data        string            `json:"data,omitempty" gorm:"column:data;type:text"`
	CreatedAt   time.Time         `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`

	// Intent is the owning row. The association makes migration emit the
	// foreign key that backs the store's missing-intent error mapping.
	Intent *Intent `json:"-" gorm:"foreignKey:IntentID;references:ID"`
}
