package worker

// lowstock_worker.go
// Processes low-stock alert jobs from QueueLowStock.
// Looks up the product owner's email and sends a notification via SMTP,
// behind the circuit breaker so a dead mail server cannot pile up goroutines.

import (
	"context"
	"encoding/json"
	"fmt"

	"korecatalog/internal/infra"
	"korecatalog/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LowStockWorker sends an email when a product's balance crosses its
// alert floor.
type LowStockWorker struct {
	users  repository.UserRepository
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
}

func NewLowStockWorker(users repository.UserRepository, mailer *infra.Mailer, cb *infra.CircuitBreaker) *LowStockWorker {
	return &LowStockWorker{users: users, mailer: mailer, cb: cb}
}

// Process resolves the owner's address and delivers the alert. An owner
// without an email address is not an error — the job is simply dropped.
func (w *LowStockWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload LowStockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("lowstock_worker: invalid payload")
		return nil // malformed jobs are not retryable
	}

	uid, err := uuid.Parse(payload.UserID)
	if err != nil {
		log.Error().Str("user_id", payload.UserID).Msg("lowstock_worker: invalid user id")
		return nil
	}

	user, err := w.users.FindByID(ctx, uid)
	if err != nil {
		return fmt.Errorf("lowstock_worker: load user: %w", err)
	}
	if user.Email == nil || *user.Email == "" {
		log.Debug().Str("user_id", payload.UserID).Msg("lowstock_worker: owner has no email — skipping")
		return nil
	}

	subject := fmt.Sprintf("Low stock: %s", payload.ProductName)
	body := fmt.Sprintf(
		"Stock for %q has dropped to %d units (alert threshold: %d).\n\nReplenish it or adjust the threshold in your product settings.",
		payload.ProductName, payload.Stock, payload.MinStock,
	)

	sendErr := w.cb.Execute(func() error {
		return w.mailer.SendAlert(*user.Email, subject, body)
	})
	if sendErr != nil {
		return fmt.Errorf("lowstock_worker: send alert: %w", sendErr)
	}

	log.Info().
		Str("to", *user.Email).
		Str("product_id", payload.ProductID).
		Int("stock", payload.Stock).
		Msg("lowstock_worker: alert sent")
	return nil
}
