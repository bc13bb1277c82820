// Package notify dispatches the completion notifications for a submitted
// order: a confirmation to the customer, a summary to the administrator, and a
// best-effort relay of every attached photo.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/m3rciful/stickerbot/core/logger"
	"github.com/m3rciful/stickerbot/order"
)

// Messenger is the outbound side of the messaging channel.
type Messenger interface {
	SendText(ctx context.Context, to int64, text string) error
	SendPhoto(ctx context.Context, to int64, fileID string) error
}

// RelayResult records the outcome of relaying one attachment to the admin.
type RelayResult struct {
	FileID string
	Err    error
}

// Notifier formats and sends the completion notifications.
type Notifier struct {
	messenger Messenger
	adminID   int64
	// contactLink is shown to customers for payment follow-up.
	contactLink string
}

// New constructs a Notifier.
func New(messenger Messenger, adminID int64, contactLink string) *Notifier {
	return &Notifier{
		messenger:   messenger,
		adminID:     adminID,
		contactLink: contactLink,
	}
}

// Notify sends the customer confirmation, the admin summary, and relays every
// photo to the admin in original order. Photo relays are independent: one
// failure is logged and does not stop the rest, and no failure rolls the order
// back. The returned error aggregates only the two message sends.
func (n *Notifier) Notify(ctx context.Context, rec order.Record) ([]RelayResult, error) {
	var errs *multierror.Error

	if err := n.messenger.SendText(ctx, rec.UserID, userConfirmation(rec, n.contactLink)); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("user confirmation: %w", err))
	}
	if err := n.messenger.SendText(ctx, n.adminID, adminSummary(rec)); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("admin summary: %w", err))
	}

	results := make([]RelayResult, 0, len(rec.FileIDs))
	for _, fileID := range rec.FileIDs {
		err := n.messenger.SendPhoto(ctx, n.adminID, fileID)
		if err != nil {
			logger.Error(ctx, "notify", "photo.relay",
				slog.String("status", "fail"),
				slog.Int64("user_id", rec.UserID),
				slog.String("file_id", logger.SanitizeLimit(fileID, 128)),
				slog.String("err", err.Error()),
			)
		}
		results = append(results, RelayResult{FileID: fileID, Err: err})
	}

	return results, errs.ErrorOrNil()
}

func userConfirmation(rec order.Record, contactLink string) string {
	return fmt.Sprintf(
		"✅ Заказ оформлен!\nФормат: %s\nКоличество: %d\nСумма: %d₽\n\nСвяжись с мастером для оплаты: %s",
		rec.Format, rec.Quantity, rec.Total, contactLink,
	)
}

func adminSummary(rec order.Record) string {
	return fmt.Sprintf(
		"📦 Новый заказ!\nОт: @%s (ID: %d)\nФормат: %s\nКоличество: %d\nСумма: %d₽",
		rec.Username, rec.UserID, rec.Format, rec.Quantity, rec.Total,
	)
}
