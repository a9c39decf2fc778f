package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/MaekawaAo0604/muscle-SNS/internal/apperrors"
	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
	"github.com/MaekawaAo0604/muscle-SNS/internal/repositories"
	"github.com/MaekawaAo0604/muscle-SNS/internal/services"
)

// recordingHub captures broadcasts instead of pushing them to sockets.
type recordingHub struct {
	events []recordedEvent
}

type recordedEvent struct {
	MatchID string
	Event   string
	Payload interface{}
}

func (h *recordingHub) BroadcastToMatch(matchID, event string, payload interface{}) {
	h.events = append(h.events, recordedEvent{MatchID: matchID, Event: event, Payload: payload})
}

type messageFixture struct {
	messages *services.MessageService
	matches  *services.MatchService
	safety   *services.SafetyService
	hub      *recordingHub
	db       *gorm.DB
}

func setupMessageFixture(t *testing.T) *messageFixture {
	t.Helper()

	db := setupDB(t)
	rc := setupCache(t)
	log := discardLogger()

	userRepo := repositories.NewPostgresUserRepository(db)
	swipeRepo := repositories.NewPostgresSwipeRepository(db)
	matchRepo := repositories.NewPostgresMatchRepository(db)
	messageRepo := repositories.NewPostgresMessageRepository(db)
	blockRepo := repositories.NewPostgresBlockRepository(db)
	reportRepo := repositories.NewPostgresReportRepository(db)

	hub := &recordingHub{}
	return &messageFixture{
		messages: services.NewMessageService(matchRepo, messageRepo, userRepo, rc, hub, log),
		matches:  services.NewMatchService(swipeRepo, matchRepo, messageRepo, rc, log),
		safety:   services.NewSafetyService(userRepo, blockRepo, reportRepo),
		hub:      hub,
		db:       db,
	}
}

func (f *messageFixture) mutualMatch(t *testing.T, a, b string) *models.Match {
	t.Helper()

	_, err := f.matches.RecordSwipe(a, b, models.SwipeRight)
	require.NoError(t, err)
	res, err := f.matches.RecordSwipe(b, a, models.SwipeRight)
	require.NoError(t, err)
	require.NotNil(t, res.Match)
	return res.Match
}

func TestConversationReadFlow(t *testing.T) {
	f := setupMessageFixture(t)
	seedUser(t, f.db, "alice", "Alice")
	seedUser(t, f.db, "bob", "Bob")
	match := f.mutualMatch(t, "alice", "bob")

	sent, err := f.messages.SendMessage(match.ID, "alice", "same gym tomorrow at 7?", "")
	require.NoError(t, err)
	assert.Equal(t, "bob", sent.ToUserID)
	assert.False(t, sent.IsRead)

	// Bob sees the message unread and counted.
	listed, err := f.messages.ListMessages(match.ID, "bob", 1, 50)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.False(t, listed[0].IsRead)

	unread, err := f.messages.UnreadCount(match.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	count, err := f.messages.MarkRead(match.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	listed, err = f.messages.ListMessages(match.ID, "bob", 1, 50)
	require.NoError(t, err)
	assert.True(t, listed[0].IsRead)

	// A second pass has nothing left to transition.
	count, err = f.messages.MarkRead(match.ID, "bob")
	require.NoError(t, err)
	assert.Zero(t, count)

	unread, err = f.messages.UnreadCount(match.ID, "bob")
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestSendMessageRecipientInferredAndBroadcast(t *testing.T) {
	f := setupMessageFixture(t)
	seedUser(t, f.db, "alice", "Alice")
	seedUser(t, f.db, "bob", "Bob")
	match := f.mutualMatch(t, "alice", "bob")

	_, err := f.messages.SendMessage(match.ID, "bob", "leg day?", "")
	require.NoError(t, err)

	require.Len(t, f.hub.events, 1)
	assert.Equal(t, services.EventNewMessage, f.hub.events[0].Event)
	assert.Equal(t, match.ID, f.hub.events[0].MatchID)
	broadcast, ok := f.hub.events[0].Payload.(*models.Message)
	require.True(t, ok)
	assert.Equal(t, "alice", broadcast.ToUserID)
	require.NotNil(t, broadcast.FromUser)
	assert.Equal(t, "Bob", broadcast.FromUser.Nickname)

	_, err = f.messages.MarkRead(match.ID, "alice")
	require.NoError(t, err)
	require.Len(t, f.hub.events, 2)
	assert.Equal(t, services.EventMessagesRead, f.hub.events[1].Event)
	receipt, ok := f.hub.events[1].Payload.(services.ReadReceipt)
	require.True(t, ok)
	assert.Equal(t, "alice", receipt.ReadByUserID)
}

func TestSendMessageValidation(t *testing.T) {
	f := setupMessageFixture(t)
	seedUser(t, f.db, "alice", "Alice")
	seedUser(t, f.db, "bob", "Bob")
	match := f.mutualMatch(t, "alice", "bob")

	_, err := f.messages.SendMessage(match.ID, "alice", "   ", "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	// An image-only message is allowed.
	msg, err := f.messages.SendMessage(match.ID, "alice", "", "https://cdn.test/pic.webp")
	require.NoError(t, err)
	assert.Empty(t, msg.Content)
	assert.Equal(t, "https://cdn.test/pic.webp", msg.ImageURL)
}

func TestMessagingAuthorization(t *testing.T) {
	f := setupMessageFixture(t)
	seedUser(t, f.db, "alice", "Alice")
	seedUser(t, f.db, "bob", "Bob")
	seedUser(t, f.db, "mallory", "Mallory")
	match := f.mutualMatch(t, "alice", "bob")

	// Outsiders on an active match are refused outright.
	_, err := f.messages.SendMessage(match.ID, "mallory", "hi", "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	_, err = f.messages.ListMessages(match.ID, "mallory", 1, 50)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	// Unknown matches are not found.
	_, err = f.messages.SendMessage("no-such-match", "alice", "hi", "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestBlockDissolvesMatchAndClosesChannel(t *testing.T) {
	f := setupMessageFixture(t)
	seedUser(t, f.db, "alice", "Alice")
	seedUser(t, f.db, "bob", "Bob")
	match := f.mutualMatch(t, "alice", "bob")

	_, err := f.messages.SendMessage(match.ID, "alice", "see you saturday", "")
	require.NoError(t, err)

	_, err = f.safety.BlockUser("bob", "alice")
	require.NoError(t, err)

	// The channel is closed for both parties, indistinguishable from a
	// match that never existed.
	_, err = f.messages.SendMessage(match.ID, "alice", "hello?", "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	_, err = f.messages.SendMessage(match.ID, "bob", "hello?", "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestListMessagesPagination(t *testing.T) {
	f := setupMessageFixture(t)
	seedUser(t, f.db, "alice", "Alice")
	seedUser(t, f.db, "bob", "Bob")
	match := f.mutualMatch(t, "alice", "bob")

	for _, text := range []string{"one", "two", "three", "four", "five"} {
		_, err := f.messages.SendMessage(match.ID, "alice", text, "")
		require.NoError(t, err)
	}

	// Page one holds the newest two, oldest first within the page.
	page1, err := f.messages.ListMessages(match.ID, "bob", 1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "four", page1[0].Content)
	assert.Equal(t, "five", page1[1].Content)

	page2, err := f.messages.ListMessages(match.ID, "bob", 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, "two", page2[0].Content)
	assert.Equal(t, "three", page2[1].Content)
}
