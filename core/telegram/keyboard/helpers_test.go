package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineButtonsOnePerRow(t *testing.T) {
	markup := InlineButtons([]InlineBtn{
		{Text: "A", Unique: "u", Data: "a"},
		{Text: "B", Unique: "u", Data: "b"},
		{Text: "C", Unique: "u", Data: "c"},
	})
	require.Len(t, markup.InlineKeyboard, 3)
	for _, row := range markup.InlineKeyboard {
		assert.Len(t, row, 1)
	}
	assert.Equal(t, "A", markup.InlineKeyboard[0][0].Text)
}

func TestInlineButtonsNPerRowSplits(t *testing.T) {
	buttons := []InlineBtn{
		{Text: "1", Unique: "u", Data: "1"},
		{Text: "2", Unique: "u", Data: "2"},
		{Text: "3", Unique: "u", Data: "3"},
		{Text: "4", Unique: "u", Data: "4"},
		{Text: "5", Unique: "u", Data: "5"},
	}
	markup := InlineButtonsNPerRow(buttons, 2)
	require.Len(t, markup.InlineKeyboard, 3)
	assert.Len(t, markup.InlineKeyboard[0], 2)
	assert.Len(t, markup.InlineKeyboard[1], 2)
	assert.Len(t, markup.InlineKeyboard[2], 1)
	assert.Equal(t, "5", markup.InlineKeyboard[2][0].Text)
}

func TestInlineButtonsNPerRowFallsBackToOnePerRow(t *testing.T) {
	buttons := []InlineBtn{{Text: "1", Unique: "u"}, {Text: "2", Unique: "u"}}
	markup := InlineButtonsNPerRow(buttons, 0)
	require.Len(t, markup.InlineKeyboard, 2)
}

func TestInlineButtonsEmpty(t *testing.T) {
	markup := InlineButtons(nil)
	assert.Empty(t, markup.InlineKeyboard)
}
