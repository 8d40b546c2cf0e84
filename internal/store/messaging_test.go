package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerayy/fithub-backend/internal/models"
)

var msgCols = []string{
	"id", "conversation_id", "sender_type", "sender_user_id", "message_type", "body",
	"media_url", "media_meta", "created_at", "read_at",
}

func TestListMessagesWithCursor(t *testing.T) {
	db, mock := newMock(t)
	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	before := int64(40)

	mock.ExpectQuery(`WHERE conversation_id = \$1 AND id < \$2 ORDER BY id DESC LIMIT \$3`).
		WithArgs(int64(5), int64(40), 3).
		WillReturnRows(sqlmock.NewRows(msgCols).
			AddRow(39, 5, "coach", 7, "image", "", "/uploads/a.png", []byte(`{"w":10}`), at, nil).
			AddRow(38, 5, "client", 36, "text", "hi", nil, nil, at, at))

	msgs, err := NewMessagingStore(db).ListMessages(context.Background(), 5, &before, 3)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, models.SenderCoach, msgs[0].SenderType)
	assert.Equal(t, models.MessageImage, msgs[0].Type)
	assert.Equal(t, "/uploads/a.png", *msgs[0].MediaURL)
	assert.JSONEq(t, `{"w":10}`, string(msgs[0].MediaMeta))
	assert.Nil(t, msgs[0].ReadAt)
	assert.Nil(t, msgs[1].MediaURL)
	assert.Nil(t, msgs[1].MediaMeta)
	require.NotNil(t, msgs[1].ReadAt)
}

func TestListMessagesFirstPage(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`WHERE conversation_id = \$1 ORDER BY id DESC LIMIT \$2`).
		WithArgs(int64(5), 51).
		WillReturnRows(sqlmock.NewRows(msgCols))

	msgs, err := NewMessagingStore(db).ListMessages(context.Background(), 5, nil, 51)
	require.NoError(t, err)
	assert.NotNil(t, msgs)
	assert.Empty(t, msgs)
}

func TestCreateMessageBumpsConversation(t *testing.T) {
	db, mock := newMock(t)
	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	m := models.Message{
		ConversationID: 5, SenderType: models.SenderClient, SenderUserID: 36,
		Type: models.MessageText, Body: "hello", CreatedAt: at, ReadAt: &at,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO messages`).
		WithArgs(int64(5), "client", int64(36), "text", "hello", sqlmock.AnyArg(), nil, at, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(msgCols).AddRow(41, 5, "client", 36, "text", "hello", nil, nil, at, at))
	mock.ExpectExec(`UPDATE conversations SET updated_at = \$2 WHERE id = \$1`).WithArgs(int64(5), at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	out, err := NewMessagingStore(db).CreateMessage(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, int64(41), out.ID)
}

func TestMarkRead(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()
	st := NewMessagingStore(db)

	mock.ExpectExec(`UPDATE messages SET read_at = \$4`).WithArgs(int64(41), int64(5), "coach", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := st.MarkRead(context.Background(), 5, 41, models.SenderCoach, now)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec(`UPDATE messages SET read_at = \$4`).WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = st.MarkRead(context.Background(), 5, 41, models.SenderCoach, now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestActiveSubscriptionMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(`AND coach_user_id = \$3`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, ok, err := NewMessagingStore(db).ActiveSubscription(context.Background(), 36, 7, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}
