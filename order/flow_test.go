package order

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlow(t *testing.T) (*Flow, *Store) {
	t.Helper()
	catalog, err := NewCatalog(defaultPrices())
	require.NoError(t, err)
	store := NewStore()
	return NewFlow(catalog, store, "готово"), store
}

func alice() User { return User{ID: 100, Username: "alice"} }
func bob() User   { return User{ID: 200, Username: "bob"} }

func handle(t *testing.T, f *Flow, ev Event) Result {
	t.Helper()
	res, err := f.Handle(ev)
	require.NoError(t, err)
	return res
}

func singleReply(t *testing.T, res Result) Reply {
	t.Helper()
	require.Len(t, res.Replies, 1)
	return res.Replies[0]
}

func TestStartShowsOrderButton(t *testing.T) {
	f, _ := newTestFlow(t)

	reply := singleReply(t, handle(t, f, StartCommand{User: alice()}))
	assert.True(t, reply.ShowOrderButton)
	assert.Contains(t, reply.Text, "оформить заказ")
}

func TestBeginOrderListsFormatsByPrice(t *testing.T) {
	f, _ := newTestFlow(t)

	reply := singleReply(t, handle(t, f, BeginOrder{User: alice()}))
	assert.Equal(t, []string{"2.5x2.5", "3x3", "3x4", "6x8"}, reply.ShowFormats)
}

func TestSelectFormatCreatesSession(t *testing.T) {
	f, store := newTestFlow(t)

	reply := singleReply(t, handle(t, f, SelectFormat{User: alice(), Format: "3x3"}))
	assert.Contains(t, reply.Text, "Формат выбран: 3x3")
	assert.Contains(t, reply.Text, "60₽")

	sess, ok := store.Get(alice().ID)
	require.True(t, ok)
	assert.Equal(t, StateAwaitingQuantity, sess.State)
	assert.Equal(t, "alice", sess.Username)
}

func TestSelectUnknownFormatFails(t *testing.T) {
	f, store := newTestFlow(t)

	_, err := f.Handle(SelectFormat{User: alice(), Format: "9x9"})
	require.ErrorIs(t, err, ErrUnknownFormat)
	assert.Equal(t, 0, store.Len())
}

func TestQuantityTotalForAllFormats(t *testing.T) {
	f, _ := newTestFlow(t)
	prices := defaultPrices()

	for format, price := range prices {
		for _, n := range []int{1, 2, 7} {
			user := User{ID: 1000, Username: "prop"}
			handle(t, f, SelectFormat{User: user, Format: format})
			handle(t, f, QuantityText{User: user, Text: fmt.Sprintf("%d", n)})
			res := handle(t, f, CompleteSignal{User: user})
			require.NotNil(t, res.Record, "format %s n %d", format, n)
			assert.Equal(t, price*n, res.Record.Total)
		}
	}
}

func TestCompleteWithoutSession(t *testing.T) {
	f, _ := newTestFlow(t)

	res := handle(t, f, CompleteSignal{User: alice()})
	assert.Nil(t, res.Record)
	assert.Equal(t, msgNoActiveOrder, singleReply(t, res).Text)
}

func TestCompleteBeforeQuantityKeepsSession(t *testing.T) {
	f, store := newTestFlow(t)
	handle(t, f, SelectFormat{User: alice(), Format: "3x3"})

	res := handle(t, f, CompleteSignal{User: alice()})
	assert.Nil(t, res.Record)
	assert.Equal(t, msgQuantityPrompt, singleReply(t, res).Text)

	sess, ok := store.Get(alice().ID)
	require.True(t, ok)
	assert.Equal(t, StateAwaitingQuantity, sess.State)
}

func TestReselectFormatDiscardsProgress(t *testing.T) {
	f, store := newTestFlow(t)
	handle(t, f, SelectFormat{User: alice(), Format: "2.5x2.5"})
	handle(t, f, QuantityText{User: alice(), Text: "2"})
	handle(t, f, PhotoAttachment{User: alice(), FileID: "p1"})

	handle(t, f, SelectFormat{User: alice(), Format: "6x8"})

	sess, ok := store.Get(alice().ID)
	require.True(t, ok)
	assert.Equal(t, StateAwaitingQuantity, sess.State)
	assert.Equal(t, "6x8", sess.Format)
	assert.Zero(t, sess.Quantity)
	assert.Empty(t, sess.Attachments)
}

func TestNonNumericRejectionIsIdempotent(t *testing.T) {
	f, store := newTestFlow(t)
	handle(t, f, SelectFormat{User: alice(), Format: "3x3"})

	for i := 0; i < 5; i++ {
		res := handle(t, f, QuantityText{User: alice(), Text: "lots please"})
		assert.Nil(t, res.Record)
		assert.Equal(t, msgQuantityPrompt, singleReply(t, res).Text)
	}

	sess, ok := store.Get(alice().ID)
	require.True(t, ok)
	assert.Equal(t, StateAwaitingQuantity, sess.State)
	assert.Zero(t, sess.Quantity)
}

func TestZeroQuantityRejected(t *testing.T) {
	f, store := newTestFlow(t)
	handle(t, f, SelectFormat{User: alice(), Format: "3x3"})

	res := handle(t, f, QuantityText{User: alice(), Text: "0"})
	assert.Equal(t, msgQuantityPrompt, singleReply(t, res).Text)

	sess, _ := store.Get(alice().ID)
	assert.Equal(t, StateAwaitingQuantity, sess.State)
}

func TestQuantityWithoutSessionIsGuidanceOnly(t *testing.T) {
	f, store := newTestFlow(t)

	res := handle(t, f, QuantityText{User: alice(), Text: "5"})
	assert.Equal(t, msgSelectFormatFirst, singleReply(t, res).Text)
	assert.Equal(t, 0, store.Len())
}

func TestQuantityCorrectionWhileCollectingPhotos(t *testing.T) {
	f, store := newTestFlow(t)
	handle(t, f, SelectFormat{User: alice(), Format: "3x3"})
	handle(t, f, QuantityText{User: alice(), Text: "2"})
	handle(t, f, PhotoAttachment{User: alice(), FileID: "p1"})

	res := handle(t, f, QuantityText{User: alice(), Text: "5"})
	assert.Contains(t, singleReply(t, res).Text, "Итого: 300₽")

	sess, _ := store.Get(alice().ID)
	assert.Equal(t, 5, sess.Quantity)
	assert.Equal(t, []string{"p1"}, sess.Attachments)
}

func TestPhotoBeforeSessionRejected(t *testing.T) {
	f, store := newTestFlow(t)

	res := handle(t, f, PhotoAttachment{User: alice(), FileID: "p1"})
	assert.Equal(t, msgPhotoTooEarly, singleReply(t, res).Text)
	assert.Equal(t, 0, store.Len())
}

func TestPhotoBeforeQuantityRejectedNotBuffered(t *testing.T) {
	f, store := newTestFlow(t)
	handle(t, f, SelectFormat{User: alice(), Format: "3x3"})

	res := handle(t, f, PhotoAttachment{User: alice(), FileID: "p1"})
	assert.Equal(t, msgPhotoTooEarly, singleReply(t, res).Text)

	sess, _ := store.Get(alice().ID)
	assert.Empty(t, sess.Attachments)
	assert.Equal(t, StateAwaitingQuantity, sess.State)
}

func TestZeroAttachmentCompletion(t *testing.T) {
	f, store := newTestFlow(t)
	handle(t, f, SelectFormat{User: alice(), Format: "3x3"})
	handle(t, f, QuantityText{User: alice(), Text: "5"})

	res := handle(t, f, CompleteSignal{User: alice()})
	require.NotNil(t, res.Record)
	assert.Equal(t, "3x3", res.Record.Format)
	assert.Equal(t, 5, res.Record.Quantity)
	assert.Equal(t, 300, res.Record.Total)
	assert.Empty(t, res.Record.FileIDs)
	assert.Equal(t, 0, store.Len())
}

func TestEndToEndOrder(t *testing.T) {
	f, store := newTestFlow(t)

	handle(t, f, SelectFormat{User: alice(), Format: "6x8"})
	handle(t, f, QuantityText{User: alice(), Text: "3"})
	handle(t, f, PhotoAttachment{User: alice(), FileID: "p1"})
	handle(t, f, PhotoAttachment{User: alice(), FileID: "p2"})
	res := handle(t, f, CompleteSignal{User: alice()})

	require.NotNil(t, res.Record)
	assert.Equal(t, int64(100), res.Record.UserID)
	assert.Equal(t, "alice", res.Record.Username)
	assert.Equal(t, "6x8", res.Record.Format)
	assert.Equal(t, 3, res.Record.Quantity)
	assert.Equal(t, 585, res.Record.Total)
	assert.Equal(t, []string{"p1", "p2"}, res.Record.FileIDs)

	// The session is consumed; a second completion finds nothing.
	assert.Equal(t, 0, store.Len())
	res = handle(t, f, CompleteSignal{User: alice()})
	assert.Nil(t, res.Record)
	assert.Equal(t, msgNoActiveOrder, singleReply(t, res).Text)
}

func TestMatchesDoneIsCaseInsensitive(t *testing.T) {
	f, _ := newTestFlow(t)

	assert.True(t, f.MatchesDone("готово"))
	assert.True(t, f.MatchesDone("  ГОТОВО "))
	assert.False(t, f.MatchesDone("готово!"))
	assert.False(t, f.MatchesDone("done"))
}

func TestInterleavedUsersStayIsolated(t *testing.T) {
	f, _ := newTestFlow(t)

	handle(t, f, SelectFormat{User: alice(), Format: "6x8"})
	handle(t, f, SelectFormat{User: bob(), Format: "3x3"})
	handle(t, f, QuantityText{User: alice(), Text: "3"})
	handle(t, f, QuantityText{User: bob(), Text: "5"})
	handle(t, f, PhotoAttachment{User: alice(), FileID: "a1"})
	handle(t, f, PhotoAttachment{User: bob(), FileID: "b1"})
	handle(t, f, PhotoAttachment{User: alice(), FileID: "a2"})

	resA := handle(t, f, CompleteSignal{User: alice()})
	resB := handle(t, f, CompleteSignal{User: bob()})

	require.NotNil(t, resA.Record)
	require.NotNil(t, resB.Record)
	assert.Equal(t, 585, resA.Record.Total)
	assert.Equal(t, []string{"a1", "a2"}, resA.Record.FileIDs)
	assert.Equal(t, 300, resB.Record.Total)
	assert.Equal(t, []string{"b1"}, resB.Record.FileIDs)
}

func TestConcurrentUsersDoNotCorruptEachOther(t *testing.T) {
	f, _ := newTestFlow(t)

	var wg sync.WaitGroup
	records := make([]*Record, 2)
	users := []User{alice(), bob()}
	formats := []string{"6x8", "3x3"}
	quantities := []string{"3", "5"}

	for i := range users {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := users[i]
			_, _ = f.Handle(SelectFormat{User: u, Format: formats[i]})
			_, _ = f.Handle(QuantityText{User: u, Text: quantities[i]})
			for p := 0; p < 10; p++ {
				_, _ = f.Handle(PhotoAttachment{User: u, FileID: fmt.Sprintf("u%d-p%d", u.ID, p)})
			}
			res, _ := f.Handle(CompleteSignal{User: u})
			records[i] = res.Record
		}(i)
	}
	wg.Wait()

	require.NotNil(t, records[0])
	require.NotNil(t, records[1])
	assert.Equal(t, 585, records[0].Total)
	assert.Equal(t, 300, records[1].Total)
	for i, rec := range records {
		require.Len(t, rec.FileIDs, 10)
		for p, id := range rec.FileIDs {
			assert.Equal(t, fmt.Sprintf("u%d-p%d", users[i].ID, p), id)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in string
		n  int
		ok bool
	}{
		{"1", 1, true},
		{" 42 ", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"3.5", 0, false},
		{"three", 0, false},
		{"", 0, false},
		{"10 stickers", 0, false},
	}
	for _, tc := range cases {
		n, ok := parseQuantity(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.n, n, "input %q", tc.in)
	}
}
