package app

import (
	"github.com/canteenlab/kiosk-api/internal/domain"
	"github.com/canteenlab/kiosk-api/internal/events"
	"github.com/sirupsen/logrus"
)

// publishTransaction emits a ledger event for a committed record. Runs only
// after the owning transaction committed; failures are logged and dropped.
func publishTransaction(pub events.Publisher, log *logrus.Logger, rec domain.TransactionRecord) {
	if pub == nil {
		return
	}

	event := events.TransactionRecorded{
		TransactionID: rec.ID,
		AccountID:     rec.AccountID,
		Kind:          string(rec.Kind),
		Amount:        rec.Amount,
		Description:   rec.Description,
		OccurredAt:    rec.CreatedAt,
	}
	if err := pub.Publish(events.TopicTransactionRecorded, event); err != nil && log != nil {
		log.WithFields(logrus.Fields{
			"transaction_id": rec.ID,
			"kind":           rec.Kind,
		}).WithError(err).Warn("failed to publish ledger event")
	}
}
