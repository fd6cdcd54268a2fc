package conversation

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rsanthanam/techdesk/internal/kb"
	"github.com/rsanthanam/techdesk/internal/sqlite"
)

func newTestService(t *testing.T) (*Service, *sqlite.Store, int64) {
	t.Helper()
	store, err := sqlite.OpenWithConfig(sqlite.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	user, err := store.CreateUser(context.Background(), "testuser", "hash", false)
	require.NoError(t, err)
	return New(store), store, user.ID
}

func TestRecordExchangeCreatesThread(t *testing.T) {
	ctx := context.Background()
	svc, _, userID := newTestService(t)

	longPrompt := strings.Repeat("x", 40)
	id, created, err := svc.RecordExchange(ctx, userID, 0, longPrompt, "plain answer")
	require.NoError(t, err)
	require.True(t, created)

	conv, messages, err := svc.Get(ctx, userID, id)
	require.NoError(t, err)
	require.NotNil(t, conv)
	require.Len(t, conv.Title, 30)
	require.Len(t, messages, 2)
	require.Equal(t, longPrompt, messages[0].Content)
}

func TestRecordExchangeAppendsAndTracksOffer(t *testing.T) {
	ctx := context.Background()
	svc, _, userID := newTestService(t)

	answer := "The Access Code for **Network Protocol** is **6210**.\n\n \U0001F4A1 Do you want to know the sub code for that? (Code: 6210)"
	id, _, err := svc.RecordExchange(ctx, userID, 0, "code for network protocol", answer)
	require.NoError(t, err)

	offer, err := svc.PendingOffer(ctx, userID, id)
	require.NoError(t, err)
	require.Equal(t, kb.PendingOffer{Kind: kb.OfferSubCode, Code: "6210"}, offer)

	_, created, err := svc.RecordExchange(ctx, userID, id, "yes", "Understood. Let me know if you need help with other codes!")
	require.NoError(t, err)
	require.False(t, created)

	offer, err = svc.PendingOffer(ctx, userID, id)
	require.NoError(t, err)
	require.Equal(t, kb.OfferNone, offer.Kind)
}

func TestRecordExchangeRejectsForeignThread(t *testing.T) {
	ctx := context.Background()
	svc, store, userID := newTestService(t)
	other, err := store.CreateUser(ctx, "other", "hash", false)
	require.NoError(t, err)

	id, _, err := svc.RecordExchange(ctx, userID, 0, "hello", "Hello! I am your Technical Assistant. How can I help you today?")
	require.NoError(t, err)

	_, _, err = svc.RecordExchange(ctx, other.ID, id, "hi", "answer")
	require.Error(t, err)
}

// Threads persisted before the pending_offer column was written still derive
// their state from the last assistant message.
func TestPendingOfferFallsBackToLastMessage(t *testing.T) {
	ctx := context.Background()
	svc, store, userID := newTestService(t)

	answer := "Here are the sub codes for code **6210**:\n\n| Sub-Code | Description / Values |\n| :--- | :--- |\n\n \U0001F4A1 Do you want to know how to set the 08 code?"
	id, err := store.CreateConversation(ctx, userID, "legacy", "6210", answer, "")
	require.NoError(t, err)

	offer, err := svc.PendingOffer(ctx, userID, id)
	require.NoError(t, err)
	require.Equal(t, kb.OfferProcedure, offer.Kind)
}

func TestPendingOfferUnknownThread(t *testing.T) {
	ctx := context.Background()
	svc, _, userID := newTestService(t)
	offer, err := svc.PendingOffer(ctx, userID, 999)
	require.NoError(t, err)
	require.Equal(t, kb.PendingOffer{}, offer)
}
