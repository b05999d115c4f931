package coordinator

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/syndicate-hq/coordinator/pkg/metrics"
	"github.com/syndicate-hq/coordinator/pkg/models"
	"github.com/syndicate-hq/coordinator/pkg/store"
)

// isStructural reports whether an error is non-retryable: the event itself is
// wrong (unknown intent, duplicate, terminal mutation) rather than the
// environment being flaky. Structural errors abort the handler invocation;
// everything else is treated as transient.
func isStructural(err error) bool {
	return errors.Is(err, ErrUnknownIntent) ||
		errors.Is(err, store.ErrDuplicateIntent) ||
		errors.Is(err, store.ErrIntentNotFound) ||
		errors.Is(err, store.ErrIntentTerminal) ||
		errors.Is(err, store.ErrNotFound)
}

// dispatch runs one event handler under the intent's lock and records the
// outcome uniformly. A handler error never propagates past here into the
// listener loop; it is logged and counted, and processing of other intents
// continues.
func (e *Engine) dispatch(ctx context.Context, chainID int, event, intentID string, fn func(context.Context) error) error {
	unlock := e.locks.lock(intentID)
	defer unlock()

	err := fn(ctx)
	chainLabel := strconv.Itoa(chainID)

	switch {
	case err == nil:
		metrics.EventsProcessed.WithLabelValues(chainLabel, event, "ok").Inc()
	case isStructural(err):
		metrics.EventsProcessed.WithLabelValues(chainLabel, event, "structural_error").Inc()
		metrics.StructuralErrors.WithLabelValues(chainLabel, event).Inc()
		e.logger.ErrorWithChain(chainID, "%s handler rejected intent %s: %v", event, intentID, err)
	default:
		metrics.EventsProcessed.WithLabelValues(chainLabel, event, "transient_error").Inc()
		e.logger.ErrorWithChain(chainID, "%s handler hit transient error for intent %s: %v", event, intentID, err)
	}

	return err
}

// HandleIntentSubmitted records a newly submitted intent. Duplicate deliveries
// are no-ops; the full intent details come from a read-only contract call on
// the source chain.
func (e *Engine) HandleIntentSubmitted(ctx context.Context, ev models.IntentSubmittedEvent) error {
	return e.dispatch(ctx, ev.Meta.ChainID, "IntentSubmitted", ev.IntentID, func(ctx context.Context) error {
		existing, err := e.store.GetIntent(ctx, ev.IntentID)
		if err == nil {
			e.logger.DebugWithChain(ev.Meta.ChainID, "Intent %s already recorded with status %s, skipping", ev.IntentID, existing.Status)
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		reader, ok := e.readers[ev.Meta.ChainID]
		if !ok {
			return fmt.Errorf("no chain reader configured for chain %d", ev.Meta.ChainID)
		}

		details, err := reader.GetIntent(ctx, ev.IntentID)
		if err != nil {
			return fmt.Errorf("failed to fetch details for intent %s: %v", ev.IntentID, err)
		}

		intent := &models.Intent{
			ID:               ev.IntentID,
			User:             ev.User,
			IntentType:       ev.IntentType,
			SyndicateAddress: details.SyndicateAddress.Hex(),
			Amount:           details.Amount.String(),
			TokenAddress:     details.TokenAddress.Hex(),
			SourceChain:      int(details.SourceChain),
			DestinationChain: int(details.DestinationChain),
			UseOptimalRoute:  details.UseOptimalRoute,
			MaxFeePercentage: details.MaxFeePercentage.String(),
			Deadline:         details.Deadline.Int64(),
			Status:           models.IntentStatusPending,
		}

		if err := e.store.CreateIntent(ctx, intent); err != nil {
			if errors.Is(err, store.ErrDuplicateIntent) {
				// Lost a race with a concurrent duplicate delivery
				return nil
			}
			return err
		}

		e.logger.NoticeWithChain(ev.Meta.ChainID, "Recorded intent %s (%s) from %s, amount %s", intent.ID, intent.IntentType, intent.User, intent.Amount)

		// The submission call triggers the cross-chain initiation on its own;
		// the engine only reflects that in the status.
		if intent.IsCrossChain() {
			if err := e.store.UpdateIntentStatus(ctx, intent.ID, models.IntentStatusExecuting); err != nil {
				return err
			}
			e.logger.InfoWithChain(ev.Meta.ChainID, "Intent %s is cross-chain (%d -> %d), now EXECUTING", intent.ID, intent.SourceChain, intent.DestinationChain)
		}

		return nil
	})
}

// HandleCrossChainInitiated records the bridge deposit for a known intent and
// starts the status polling loop. An unknown intent is a structural error: no
// record is fabricated.
func (e *Engine) HandleCrossChainInitiated(ctx context.Context, ev models.CrossChainOperationInitiatedEvent) error {
	return e.dispatch(ctx, ev.Meta.ChainID, "CrossChainOperationInitiated", ev.IntentID, func(ctx context.Context) error {
		intent, err := e.store.GetIntent(ctx, ev.IntentID)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUnknownIntent, ev.IntentID)
		}
		if err != nil {
			return err
		}

		if intent.Status.IsTerminal() {
			e.logger.DebugWithChain(ev.Meta.ChainID, "Ignoring initiation for terminal intent %s (%s)", intent.ID, intent.Status)
			return nil
		}

		if intent.Status == models.IntentStatusPending {
			if err := e.store.UpdateIntentStatus(ctx, intent.ID, models.IntentStatusExecuting); err != nil {
				return err
			}
		}

		if _, err := e.store.ActiveBridgeTransaction(ctx, intent.ID); err == nil {
			// Duplicate delivery: the deposit is already tracked. Rescheduling
			// replaces any outstanding timer rather than adding a second loop.
			e.logger.DebugWithChain(ev.Meta.ChainID, "Bridge transaction already active for intent %s, rescheduling poll", intent.ID)
			e.schedulePoll(intent.ID, 0, 0)
			return nil
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		tx := &models.Transaction{
			IntentID:    intent.ID,
			ChainID:     ev.SourceChain,
			TxHash:      ev.Meta.TxHash,
			Type:        models.TransactionTypeBridge,
			Status:      models.TransactionStatusPending,
			BlockNumber: ev.Meta.BlockNumber,
		}
		if err := e.store.CreateTransaction(ctx, tx); err != nil {
			return err
		}

		e.logger.NoticeWithChain(ev.Meta.ChainID, "Bridge deposit recorded for intent %s (%d -> %d), polling for relay", intent.ID, ev.SourceChain, ev.DestinationChain)
		e.schedulePoll(intent.ID, 0, 0)
		return nil
	})
}

// HandleWinningTicket resolves the syndicate owning a winning ticket. The fund
// return is bridged autonomously by the resolver contract, so the engine only
// records the observation.
func (e *Engine) HandleWinningTicket(ctx context.Context, ev models.WinningTicketDetectedEvent) error {
	return e.dispatch(ctx, ev.Meta.ChainID, "WinningTicketDetected", ev.TicketID, func(ctx context.Context) error {
		reader, ok := e.readers[ev.Meta.ChainID]
		if !ok {
			return fmt.Errorf("no chain reader configured for chain %d", ev.Meta.ChainID)
		}

		ticketID, ok := new(big.Int).SetString(ev.TicketID, 10)
		if !ok {
			return fmt.Errorf("invalid ticket id %q", ev.TicketID)
		}

		syndicate, err := reader.TicketToSyndicate(ctx, ticketID)
		if err != nil {
			return fmt.Errorf("failed to resolve syndicate for ticket %s: %v", ev.TicketID, err)
		}

		if syndicate == (common.Address{}) {
			e.logger.DebugWithChain(ev.Meta.ChainID, "Ticket %s is not tracked by any syndicate, ignoring", ev.TicketID)
			return nil
		}

		metrics.WinningTicketsObserved.WithLabelValues(strconv.Itoa(ev.Meta.ChainID)).Inc()
		e.logger.NoticeWithChain(ev.Meta.ChainID, "Winning ticket %s pays %s to syndicate %s, fund return handled on-chain", ev.TicketID, ev.Amount, syndicate.Hex())
		return nil
	})
}
