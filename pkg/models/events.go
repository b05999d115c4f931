package models

// LogMeta carries the raw log metadata attached to every decoded event
type LogMeta struct {
	ChainID     int
	BlockNumber uint64
	TxHash      string
	LogIndex    uint
}

// IntentSubmittedEvent is emitted by the resolver contract when a user submits an intent
type IntentSubmittedEvent struct {
	IntentID   string
	User       string
	IntentType IntentType
	Meta       LogMeta
}

// CrossChainOperationInitiatedEvent is emitted when the resolver hands an intent to the bridge
type CrossChainOperationInitiatedEvent struct {
	IntentID         string
	SourceChain      int
	DestinationChain int
	Meta             LogMeta
}

// WinningTicketDetectedEvent is emitted by the resolver when a tracked ticket wins a draw
type WinningTicketDetectedEvent struct {
	TicketID string
	Amount   string
	Meta     LogMeta
}
