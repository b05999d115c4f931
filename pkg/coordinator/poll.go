package coordinator

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/syndicate-hq/coordinator/pkg/bridge"
	"github.com/syndicate-hq/coordinator/pkg/metrics"
	"github.com/syndicate-hq/coordinator/pkg/models"
	"github.com/syndicate-hq/coordinator/pkg/store"
)

// schedulePoll arms the intent's poll timer. The attempt counter rides along
// so the optional MaxPollAttempts cap survives rescheduling.
func (e *Engine) schedulePoll(intentID string, attempt int, delay time.Duration) {
	e.sched.Schedule(intentID, delay, func() {
		e.firePoll(intentID, attempt)
	})
}

// firePoll is the timer callback. It registers with the engine's wait group
// only while the engine is running, so Stop can drain in-flight polls without
// racing a late timer.
func (e *Engine) firePoll(intentID string, attempt int) {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return
	}
	e.wg.Add(1)
	ctx := e.ctx
	e.mu.Unlock()
	defer e.wg.Done()

	e.pollBridge(ctx, intentID, attempt)
}

// pollBridge performs one deposit-status query for the intent and either
// finalizes it or reschedules exactly one future poll.
func (e *Engine) pollBridge(ctx context.Context, intentID string, attempt int) {
	unlock := e.locks.lock(intentID)
	defer unlock()

	if ctx.Err() != nil {
		return
	}

	intent, err := e.store.GetIntent(ctx, intentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			e.logger.Error("Dropping bridge poll for unknown intent %s", intentID)
			return
		}
		// A store hiccup must not kill the poll loop; the bridge may already
		// have relayed the deposit.
		e.logger.Error("Store lookup failed for intent %s: %v. Retrying poll in %v", intentID, err, e.cfg.ErrorPollInterval)
		e.schedulePoll(intentID, attempt, e.cfg.ErrorPollInterval)
		return
	}
	if intent.Status.IsTerminal() {
		return
	}

	if e.DeadlinePolicy != nil && intent.DeadlineExpired(time.Now()) && e.DeadlinePolicy(*intent) {
		e.logger.Error("Intent %s passed its deadline (%d), failing", intent.ID, intent.Deadline)
		e.failIntent(ctx, intent, "deadline")
		return
	}

	if e.cfg.MaxPollAttempts > 0 && attempt >= e.cfg.MaxPollAttempts {
		e.logger.Error("Intent %s exceeded %d bridge poll attempts, failing", intent.ID, e.cfg.MaxPollAttempts)
		e.failIntent(ctx, intent, "max_poll_attempts")
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.PollCallTimeout)
	status, err := e.bridge.DepositStatus(callCtx, intentID)
	cancel()

	if err != nil {
		metrics.BridgePolls.WithLabelValues("error").Inc()
		e.logger.Error("Bridge status query failed for intent %s: %v. Retrying in %v", intentID, err, e.cfg.ErrorPollInterval)
		e.schedulePoll(intentID, attempt+1, e.cfg.ErrorPollInterval)
		return
	}

	switch status {
	case bridge.StatusRelayed:
		metrics.BridgePolls.WithLabelValues("relayed").Inc()
		e.completeIntent(ctx, intent, attempt)
	case bridge.StatusPending:
		metrics.BridgePolls.WithLabelValues("pending").Inc()
		e.logger.DebugWithChain(intent.SourceChain, "Bridge deposit for intent %s still pending, next poll in %v", intent.ID, e.cfg.PendingPollInterval)
		e.schedulePoll(intentID, attempt+1, e.cfg.PendingPollInterval)
	default:
		metrics.BridgePolls.WithLabelValues("error").Inc()
		e.logger.Error("Bridge returned unexpected status %q for intent %s. Retrying in %v", status, intentID, e.cfg.ErrorPollInterval)
		e.schedulePoll(intentID, attempt+1, e.cfg.ErrorPollInterval)
	}
}

// completeIntent confirms the bridge transaction and marks the intent
// COMPLETED. Transient store failures reschedule the poll; the relayed status
// query and both updates are idempotent, so the retry replays them safely.
func (e *Engine) completeIntent(ctx context.Context, intent *models.Intent, attempt int) {
	tx, err := e.store.ActiveBridgeTransaction(ctx, intent.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			e.logger.Error("Relay confirmed but no active bridge transaction for intent %s", intent.ID)
			return
		}
		e.logger.Error("Failed to look up bridge transaction for intent %s: %v. Retrying poll in %v", intent.ID, err, e.cfg.ErrorPollInterval)
		e.schedulePoll(intent.ID, attempt, e.cfg.ErrorPollInterval)
		return
	}

	if err := e.store.UpdateTransactionStatus(ctx, tx.ID, models.TransactionStatusConfirmed); err != nil {
		e.logger.Error("Failed to confirm bridge transaction %d for intent %s: %v. Retrying poll in %v", tx.ID, intent.ID, err, e.cfg.ErrorPollInterval)
		e.schedulePoll(intent.ID, attempt, e.cfg.ErrorPollInterval)
		return
	}
	if err := e.store.UpdateIntentStatus(ctx, intent.ID, models.IntentStatusCompleted); err != nil {
		if errors.Is(err, store.ErrIntentTerminal) {
			return
		}
		e.logger.Error("Failed to complete intent %s: %v. Retrying poll in %v", intent.ID, err, e.cfg.ErrorPollInterval)
		e.schedulePoll(intent.ID, attempt, e.cfg.ErrorPollInterval)
		return
	}

	metrics.IntentsCompleted.WithLabelValues(strconv.Itoa(intent.SourceChain)).Inc()
	e.logger.NoticeWithChain(intent.SourceChain, "Intent %s completed, bridge deposit relayed to chain %d", intent.ID, intent.DestinationChain)
}

// failIntent marks the active bridge transaction FAILED (when one exists) and
// moves the intent to FAILED
func (e *Engine) failIntent(ctx context.Context, intent *models.Intent, reason string) {
	if tx, err := e.store.ActiveBridgeTransaction(ctx, intent.ID); err == nil {
		if err := e.store.UpdateTransactionStatus(ctx, tx.ID, models.TransactionStatusFailed); err != nil {
			e.logger.Error("Failed to fail bridge transaction %d for intent %s: %v", tx.ID, intent.ID, err)
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		e.logger.Error("Failed to look up bridge transaction for intent %s: %v", intent.ID, err)
	}

	if err := e.store.UpdateIntentStatus(ctx, intent.ID, models.IntentStatusFailed); err != nil {
		e.logger.Error("Failed to fail intent %s: %v", intent.ID, err)
		return
	}

	metrics.IntentsFailed.WithLabelValues(strconv.Itoa(intent.SourceChain), reason).Inc()
}
