package bot

import (
	"context"
	"log/slog"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/stickerbot/core/logger"
	tghelpers "github.com/m3rciful/stickerbot/core/telegram/helpers"
	"github.com/m3rciful/stickerbot/core/telegram/keyboard"
	"github.com/m3rciful/stickerbot/notify"
	"github.com/m3rciful/stickerbot/order"
)

const (
	// CallbackOrder identifies the begin-order button.
	CallbackOrder = "order"
	// CallbackFormat identifies format selection buttons; the payload
	// carries the format token.
	CallbackFormat = "fmt"
)

// Handlers maps Telegram updates to flow events and sends the flow's replies
// back. On completion it runs the sink write and the notifications; the
// session is already gone by then, so their failures are logged, not
// propagated to the user.
type Handlers struct {
	flow      *order.Flow
	sink      order.Sink
	adminID   int64
	adminLink string

	notifierOnce sync.Once
	notifier     *notify.Notifier
}

// NewHandlers wires the update handlers.
func NewHandlers(flow *order.Flow, sink order.Sink, adminID int64, adminLink string) *Handlers {
	return &Handlers{
		flow:      flow,
		sink:      sink,
		adminID:   adminID,
		adminLink: adminLink,
	}
}

func (h *Handlers) onStart(c tele.Context) error {
	return h.dispatch(c, order.StartCommand{User: senderOf(c)})
}

func (h *Handlers) onBeginOrder(c tele.Context) error {
	_ = c.Respond()
	return h.dispatch(c, order.BeginOrder{User: senderOf(c)})
}

func (h *Handlers) onSelectFormat(c tele.Context) error {
	_ = c.Respond()
	return h.dispatch(c, order.SelectFormat{User: senderOf(c), Format: c.Data()})
}

func (h *Handlers) onText(c tele.Context) error {
	user := senderOf(c)
	if h.flow.MatchesDone(c.Text()) {
		return h.dispatch(c, order.CompleteSignal{User: user})
	}
	return h.dispatch(c, order.QuantityText{User: user, Text: c.Text()})
}

func (h *Handlers) onPhoto(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return nil
	}
	return h.dispatch(c, order.PhotoAttachment{User: senderOf(c), FileID: msg.Photo.FileID})
}

func (h *Handlers) dispatch(c tele.Context, ev order.Event) error {
	ctx := tghelpers.BuildContext(c)

	res, err := h.flow.Handle(ev)
	if err != nil {
		logger.Error(ctx, "flow", "event.rejected",
			slog.String("err", err.Error()),
		)
		return err
	}

	for _, reply := range res.Replies {
		if err := h.send(c, reply); err != nil {
			return err
		}
	}

	if res.Record != nil {
		h.finalize(ctx, c, *res.Record)
	}
	return nil
}

func (h *Handlers) send(c tele.Context, reply order.Reply) error {
	switch {
	case reply.ShowOrderButton:
		markup := keyboard.InlineButtons([]keyboard.InlineBtn{
			{Text: order.OrderButtonText, Unique: CallbackOrder},
		})
		return c.Send(reply.Text, markup)
	case len(reply.ShowFormats) > 0:
		buttons := make([]keyboard.InlineBtn, 0, len(reply.ShowFormats))
		for _, format := range reply.ShowFormats {
			buttons = append(buttons, keyboard.InlineBtn{
				Text:   format,
				Unique: CallbackFormat,
				Data:   format,
			})
		}
		return c.Send(reply.Text, keyboard.InlineButtonsNPerRow(buttons, 2))
	default:
		return c.Send(reply.Text)
	}
}

// finalize persists and announces a completed order. The session was deleted
// when the record was emitted, so a sink failure leaves the order acknowledged
// but unrecorded; it is logged loudly instead of surfaced to the customer.
func (h *Handlers) finalize(ctx context.Context, c tele.Context, rec order.Record) {
	if err := h.sink.Save(ctx, rec); err != nil {
		logger.Error(ctx, "orders", "order.save",
			slog.String("status", "fail"),
			slog.Int64("user_id", rec.UserID),
			slog.String("format", rec.Format),
			slog.String("err", err.Error()),
		)
	} else {
		logger.Info(ctx, "orders", "order.saved",
			slog.Int64("user_id", rec.UserID),
			slog.String("format", rec.Format),
			slog.Int("quantity", rec.Quantity),
			slog.Int("total", rec.Total),
			slog.Int("photos", len(rec.FileIDs)),
		)
	}

	relays, err := h.notifierFor(c).Notify(ctx, rec)
	if err != nil {
		logger.Error(ctx, "notify", "order.notify",
			slog.String("status", "fail"),
			slog.Int64("user_id", rec.UserID),
			slog.String("err", err.Error()),
		)
	}
	failed := 0
	for _, r := range relays {
		if r.Err != nil {
			failed++
		}
	}
	logger.Info(ctx, "notify", "order.relayed",
		slog.Int64("user_id", rec.UserID),
		slog.Int("photos", len(relays)),
		slog.Int("failed", failed),
	)
}

func (h *Handlers) notifierFor(c tele.Context) *notify.Notifier {
	h.notifierOnce.Do(func() {
		h.notifier = notify.New(NewMessenger(c.Bot()), h.adminID, h.adminLink)
	})
	return h.notifier
}

// senderOf extracts the event identity, falling back to "unknown" when the
// account has no public username, matching the persisted representation.
func senderOf(c tele.Context) order.User {
	user := c.Sender()
	if user == nil {
		return order.User{Username: "unknown"}
	}
	username := user.Username
	if username == "" {
		username = "unknown"
	}
	return order.User{ID: user.ID, Username: username}
}
