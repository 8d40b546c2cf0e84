package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aerayy/fithub-backend/internal/messaging"
	"github.com/aerayy/fithub-backend/internal/models"
)

type openConversationRequest struct {
	CoachUserID *int64 `json:"coach_user_id"`
}

// OpenConversation handles POST /client/conversations. An empty body
// opens the conversation with the coach of the latest subscription.
func (h *Handler) OpenConversation(c *fiber.Ctx) error {
	client, err := currentUser(c)
	if err != nil {
		return err
	}
	var req openConversationRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	ctx, cancel := h.withDBTimeout(c)
	defer cancel()
	conv, err := h.svc.Messaging.Open(ctx, client.ID, req.CoachUserID)
	if err != nil {
		return err
	}
	return jsonOK(c, fiber.Map{"conversation": conv})
}

func (h *Handler) ListConversations(side models.SenderType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		ctx, cancel := h.withDBTimeout(c)
		defer cancel()
		list, err := h.svc.Messaging.List(ctx, side, u.ID)
		if err != nil {
			return err
		}
		return jsonOK(c, fiber.Map{"conversations": list})
	}
}

// ListMessages pages newest first; pass the smallest id seen as before.
func (h *Handler) ListMessages(side models.SenderType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		convID, err := paramID(c, "conversation_id")
		if err != nil {
			return err
		}
		ctx, cancel := h.withDBTimeout(c)
		defer cancel()
		page, err := h.svc.Messaging.Messages(ctx, side, u.ID, convID, messaging.PageInput{
			Limit:  c.Query("limit"),
			Before: c.Query("before"),
		})
		if err != nil {
			return err
		}
		return jsonOK(c, fiber.Map{"messages": page.Messages, "has_more": page.HasMore})
	}
}

func (h *Handler) SendMessage(side models.SenderType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		convID, err := paramID(c, "conversation_id")
		if err != nil {
			return err
		}
		var in messaging.SendInput
		if err := parseBody(c, &in); err != nil {
			return err
		}
		ctx, cancel := h.withDBTimeout(c)
		defer cancel()
		msg, err := h.svc.Messaging.Send(ctx, side, u.ID, convID, in)
		if err != nil {
			return err
		}
		return jsonCreated(c, fiber.Map{"message": msg})
	}
}

func (h *Handler) MarkRead(side models.SenderType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := currentUser(c)
		if err != nil {
			return err
		}
		convID, err := paramID(c, "conversation_id")
		if err != nil {
			return err
		}
		msgID, err := paramID(c, "message_id")
		if err != nil {
			return err
		}
		ctx, cancel := h.withDBTimeout(c)
		defer cancel()
		if err := h.svc.Messaging.MarkRead(ctx, side, u.ID, convID, msgID); err != nil {
			return err
		}
		return jsonOK(c, fiber.Map{"message_id": msgID, "read": true})
	}
}
