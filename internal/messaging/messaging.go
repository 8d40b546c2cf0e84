// Package messaging implements client and coach conversations.
package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aerayy/fithub-backend/internal/apperr"
	"github.com/aerayy/fithub-backend/internal/models"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
	previewRunes    = 100
	maxBodyRunes    = 4000
)

type Store interface {
	// ActiveSubscription returns the id of an active, unexpired subscription
	// between the pair, or ok=false.
	ActiveSubscription(ctx context.Context, clientID, coachID int64, now time.Time) (subID int64, ok bool, err error)
	// LatestActiveSubscription finds the client's newest active subscription
	// with any coach.
	LatestActiveSubscription(ctx context.Context, clientID int64, now time.Time) (coachID, subID int64, ok bool, err error)
	UpsertConversation(ctx context.Context, clientID, coachID int64, subID *int64) (models.Conversation, error)
	GetConversation(ctx context.Context, id int64) (models.Conversation, error)
	ListConversations(ctx context.Context, side models.SenderType, userID int64) ([]models.ConversationSummary, error)
	// ListMessages returns at most limit messages, newest first, with ids
	// below before when it is set.
	ListMessages(ctx context.Context, conversationID int64, before *int64, limit int) ([]models.Message, error)
	CreateMessage(ctx context.Context, m models.Message) (models.Message, error)
	// MarkRead sets read_at on an unread message sent by from. It reports
	// whether a row changed.
	MarkRead(ctx context.Context, conversationID, messageID int64, from models.SenderType, now time.Time) (bool, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

func other(side models.SenderType) models.SenderType {
	if side == models.SenderClient {
		return models.SenderCoach
	}
	return models.SenderClient
}

// Open finds or creates the conversation between a client and a coach they
// hold an active subscription with. Without a coach id the client's latest
// subscription picks the coach.
func (s *Service) Open(ctx context.Context, clientID int64, coachID *int64) (models.Conversation, error) {
	now := s.now()
	var (
		coach int64
		subID int64
	)
	if coachID == nil || *coachID <= 0 {
		c, sid, ok, err := s.store.LatestActiveSubscription(ctx, clientID, now)
		if err != nil {
			return models.Conversation{}, err
		}
		if !ok {
			return models.Conversation{}, apperr.InvalidInput("no active subscription with a coach")
		}
		coach, subID = c, sid
	} else {
		sid, ok, err := s.store.ActiveSubscription(ctx, clientID, *coachID, now)
		if err != nil {
			return models.Conversation{}, err
		}
		if !ok {
			return models.Conversation{}, apperr.Forbidden("no active subscription with this coach")
		}
		coach, subID = *coachID, sid
	}
	return s.store.UpsertConversation(ctx, clientID, coach, &subID)
}

func (s *Service) List(ctx context.Context, side models.SenderType, userID int64) ([]models.ConversationSummary, error) {
	list, err := s.store.ListConversations(ctx, side, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.ConversationSummary{}
	}
	for i := range list {
		if p := list[i].LastMessage; p != nil {
			v := truncate(*p, previewRunes)
			list[i].LastMessage = &v
		}
	}
	return list, nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func (s *Service) conversation(ctx context.Context, side models.SenderType, userID, id int64) (models.Conversation, error) {
	c, err := s.store.GetConversation(ctx, id)
	if err != nil {
		return models.Conversation{}, err
	}
	owner := c.ClientUserID
	if side == models.SenderCoach {
		owner = c.CoachUserID
	}
	if owner != userID {
		return models.Conversation{}, apperr.NotFound("conversation not found")
	}
	return c, nil
}

// PageInput is the raw query string of a message page request.
type PageInput struct {
	Limit  string
	Before string
}

type Page struct {
	Messages []models.Message `json:"messages"`
	HasMore  bool             `json:"has_more"`
}

func (in PageInput) parse() (int, *int64, error) {
	limit := defaultPageSize
	if s := strings.TrimSpace(in.Limit); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxPageSize {
			return 0, nil, apperr.InvalidQuery("limit must be between 1 and 100")
		}
		limit = n
	}
	var before *int64
	if s := strings.TrimSpace(in.Before); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n <= 0 {
			return 0, nil, apperr.InvalidQuery("before must be a message id")
		}
		before = &n
	}
	return limit, before, nil
}

// Messages returns one page, newest first. Pass the smallest id of a page as
// before to get the previous one.
func (s *Service) Messages(ctx context.Context, side models.SenderType, userID, conversationID int64, in PageInput) (Page, error) {
	limit, before, err := in.parse()
	if err != nil {
		return Page{}, err
	}
	if _, err := s.conversation(ctx, side, userID, conversationID); err != nil {
		return Page{}, err
	}
	msgs, err := s.store.ListMessages(ctx, conversationID, before, limit+1)
	if err != nil {
		return Page{}, err
	}
	page := Page{Messages: msgs, HasMore: len(msgs) > limit}
	if page.HasMore {
		page.Messages = msgs[:limit]
	}
	if page.Messages == nil {
		page.Messages = []models.Message{}
	}
	return page, nil
}

type SendInput struct {
	Type      models.MessageType `json:"type"`
	Body      string             `json:"body"`
	MediaURL  string             `json:"media_url"`
	MediaMeta json.RawMessage    `json:"media_meta"`
}

func (in SendInput) message() (models.Message, error) {
	m := models.Message{Type: in.Type, Body: strings.TrimSpace(in.Body)}
	if m.Type == "" {
		m.Type = models.MessageText
	}
	if utf8.RuneCountInString(m.Body) > maxBodyRunes {
		return models.Message{}, apperr.InvalidInput("body is too long")
	}
	switch m.Type {
	case models.MessageText:
		if m.Body == "" {
			return models.Message{}, apperr.InvalidInput("body cannot be empty")
		}
	case models.MessageImage:
		url := strings.TrimSpace(in.MediaURL)
		if url == "" {
			return models.Message{}, apperr.InvalidInput("media_url is required for image messages")
		}
		m.MediaURL = &url
		meta := bytes.TrimSpace(in.MediaMeta)
		if len(meta) > 0 && !bytes.Equal(meta, []byte("null")) {
			if meta[0] != '{' || !json.Valid(meta) {
				return models.Message{}, apperr.InvalidInput("media_meta must be an object")
			}
			m.MediaMeta = json.RawMessage(meta)
		}
	default:
		return models.Message{}, apperr.InvalidInput("type must be text or image")
	}
	return m, nil
}

// Send stores a message from side. The sender has read their own message.
func (s *Service) Send(ctx context.Context, side models.SenderType, userID, conversationID int64, in SendInput) (models.Message, error) {
	m, err := in.message()
	if err != nil {
		return models.Message{}, err
	}
	if _, err := s.conversation(ctx, side, userID, conversationID); err != nil {
		return models.Message{}, err
	}
	now := s.now()
	m.ConversationID = conversationID
	m.SenderType = side
	m.SenderUserID = userID
	m.CreatedAt = now
	m.ReadAt = &now
	return s.store.CreateMessage(ctx, m)
}

// MarkRead marks a message from the other side as read. Own messages and
// messages already read are NotFound.
func (s *Service) MarkRead(ctx context.Context, side models.SenderType, userID, conversationID, messageID int64) error {
	if _, err := s.conversation(ctx, side, userID, conversationID); err != nil {
		return err
	}
	ok, err := s.store.MarkRead(ctx, conversationID, messageID, other(side), s.now())
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("message not found or already read")
	}
	return nil
}
