package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/models"
)

type MessagingStore struct {
	db *sql.DB
}

func NewMessagingStore(db *sql.DB) *MessagingStore {
	return &MessagingStore{db: db}
}

const activeSubscriptionWhere = `client_user_id = $1 AND status = 'active' AND ends_at > $2`

func (s *MessagingStore) ActiveSubscription(ctx context.Context, clientID, coachID int64, now time.Time) (int64, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM subscriptions
		WHERE `+activeSubscriptionWhere+` AND coach_user_id = $3
		ORDER BY started_at DESC, id DESC
		LIMIT 1`, clientID, now, coachID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, mapErr("find subscription", err)
	}
	return id, true, nil
}

func (s *MessagingStore) LatestActiveSubscription(ctx context.Context, clientID int64, now time.Time) (int64, int64, bool, error) {
	var coachID, id int64
	err := s.db.QueryRowContext(ctx, `
		SELECT coach_user_id, id FROM subscriptions
		WHERE `+activeSubscriptionWhere+`
		ORDER BY purchased_at DESC, id DESC
		LIMIT 1`, clientID, now).Scan(&coachID, &id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, mapErr("find subscription", err)
	}
	return coachID, id, true, nil
}

const conversationColumns = `id, client_user_id, coach_user_id, subscription_id, created_at, updated_at`

func scanConversation(r rowScanner, extra ...any) (models.Conversation, error) {
	var (
		c     models.Conversation
		subID sql.NullInt64
	)
	dest := append([]any{&c.ID, &c.ClientUserID, &c.CoachUserID, &subID, &c.CreatedAt, &c.UpdatedAt}, extra...)
	if err := r.Scan(dest...); err != nil {
		return models.Conversation{}, err
	}
	c.SubscriptionID = int64Ptr(subID)
	return c, nil
}

func (s *MessagingStore) UpsertConversation(ctx context.Context, clientID, coachID int64, subID *int64) (models.Conversation, error) {
	c, err := scanConversation(s.db.QueryRowContext(ctx, `
		INSERT INTO conversations (client_user_id, coach_user_id, subscription_id, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (client_user_id, coach_user_id)
		DO UPDATE SET updated_at = NOW(), subscription_id = COALESCE(EXCLUDED.subscription_id, conversations.subscription_id)
		RETURNING `+conversationColumns, clientID, coachID, subID))
	if err != nil {
		return models.Conversation{}, mapErr("upsert conversation", err)
	}
	return c, nil
}

func (s *MessagingStore) GetConversation(ctx context.Context, id int64) (models.Conversation, error) {
	c, err := scanConversation(s.db.QueryRowContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, apperr.NotFound("conversation not found")
	}
	if err != nil {
		return models.Conversation{}, mapErr("get conversation", err)
	}
	return c, nil
}

// Column names for each side of a conversation; never user input.
var sideColumns = map[models.SenderType]struct{ own, peer string }{
	models.SenderClient: {own: "client_user_id", peer: "coach_user_id"},
	models.SenderCoach:  {own: "coach_user_id", peer: "client_user_id"},
}

func (s *MessagingStore) ListConversations(ctx context.Context, side models.SenderType, userID int64) ([]models.ConversationSummary, error) {
	cols, ok := sideColumns[side]
	if !ok {
		return nil, apperr.Internal("list conversations", errors.New("unknown side "+string(side)))
	}
	peerSide := models.SenderCoach
	if side == models.SenderCoach {
		peerSide = models.SenderClient
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.client_user_id, c.coach_user_id, c.subscription_id, c.created_at, c.updated_at,
		       COALESCE(u.full_name, u.email), lm.body, lm.created_at,
		       (SELECT COUNT(*) FROM messages m
		        WHERE m.conversation_id = c.id AND m.sender_type = $2 AND m.read_at IS NULL)
		FROM conversations c
		JOIN users u ON u.id = c.`+cols.peer+`
		LEFT JOIN LATERAL (
			SELECT body, created_at FROM messages
			WHERE conversation_id = c.id
			ORDER BY id DESC
			LIMIT 1
		) lm ON TRUE
		WHERE c.`+cols.own+` = $1
		ORDER BY lm.created_at DESC NULLS LAST, c.id DESC`, userID, string(peerSide))
	if err != nil {
		return nil, mapErr("list conversations", err)
	}
	defer rows.Close()
	out := []models.ConversationSummary{}
	for rows.Next() {
		var (
			sum    models.ConversationSummary
			last   sql.NullString
			lastAt sql.NullTime
		)
		c, err := scanConversation(rows, &sum.PeerName, &last, &lastAt, &sum.UnreadCount)
		if err != nil {
			return nil, mapErr("scan conversation", err)
		}
		sum.Conversation = c
		sum.LastMessage = strPtr(last)
		if lastAt.Valid {
			t := lastAt.Time
			sum.LastMessageAt = &t
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list conversations", err)
	}
	return out, nil
}

const messageColumns = `id, conversation_id, sender_type, sender_user_id, message_type, body, media_url, media_meta, created_at, read_at`

func scanMessage(r rowScanner) (models.Message, error) {
	var (
		m      models.Message
		url    sql.NullString
		meta   []byte
		readAt sql.NullTime
	)
	if err := r.Scan(&m.ID, &m.ConversationID, &m.SenderType, &m.SenderUserID, &m.Type, &m.Body,
		&url, &meta, &m.CreatedAt, &readAt); err != nil {
		return models.Message{}, err
	}
	m.MediaURL = strPtr(url)
	if len(meta) > 0 {
		m.MediaMeta = meta
	}
	if readAt.Valid {
		t := readAt.Time
		m.ReadAt = &t
	}
	return m, nil
}

func (s *MessagingStore) ListMessages(ctx context.Context, conversationID int64, before *int64, limit int) ([]models.Message, error) {
	var ph placeholders
	q := `SELECT ` + messageColumns + ` FROM messages WHERE conversation_id = ` + ph.add(conversationID)
	if before != nil {
		q += ` AND id < ` + ph.add(*before)
	}
	q += ` ORDER BY id DESC LIMIT ` + ph.add(limit)
	rows, err := s.db.QueryContext(ctx, q, ph.args...)
	if err != nil {
		return nil, mapErr("list messages", err)
	}
	defer rows.Close()
	out := []models.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, mapErr("scan message", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list messages", err)
	}
	return out, nil
}

// CreateMessage inserts m and bumps the conversation's updated_at.
func (s *MessagingStore) CreateMessage(ctx context.Context, m models.Message) (models.Message, error) {
	var out models.Message
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		out, err = scanMessage(tx.QueryRowContext(ctx, `
			INSERT INTO messages (conversation_id, sender_type, sender_user_id, message_type, body,
				media_url, media_meta, created_at, read_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9)
			RETURNING `+messageColumns,
			m.ConversationID, string(m.SenderType), m.SenderUserID, string(m.Type), m.Body,
			m.MediaURL, nullableJSON(m.MediaMeta), m.CreatedAt, m.ReadAt))
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE conversations SET updated_at = $2 WHERE id = $1`, m.ConversationID, m.CreatedAt)
		return err
	})
	if err != nil {
		return models.Message{}, err
	}
	return out, nil
}

func (s *MessagingStore) MarkRead(ctx context.Context, conversationID, messageID int64, from models.SenderType, now time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE messages SET read_at = $4
		WHERE id = $1 AND conversation_id = $2 AND sender_type = $3 AND read_at IS NULL`,
		messageID, conversationID, string(from), now)
	if err != nil {
		return false, mapErr("mark read", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, mapErr("mark read", err)
	}
	return n == 1, nil
}
