package bot

import (
	"context"

	tele "gopkg.in/telebot.v4"
)

// telebotMessenger adapts the telebot API to the notify.Messenger interface.
type telebotMessenger struct {
	api tele.API
}

// NewMessenger wraps the bot API for outbound sends keyed by user id.
func NewMessenger(api tele.API) *telebotMessenger {
	return &telebotMessenger{api: api}
}

func (m *telebotMessenger) SendText(ctx context.Context, to int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := m.api.Send(&tele.User{ID: to}, text)
	return err
}

func (m *telebotMessenger) SendPhoto(ctx context.Context, to int64, fileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	photo := &tele.Photo{File: tele.File{FileID: fileID}}
	_, err := m.api.Send(&tele.User{ID: to}, photo)
	return err
}
