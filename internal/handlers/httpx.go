package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aerayy/fithub-backend/internal/apperr"
)

var problemBaseURL string

// SetProblemBaseURL sets the base URL of the Problem Details "type" field,
// e.g. https://api.fithub.app/problem. Empty means URN types.
func SetProblemBaseURL(base string) {
	problemBaseURL = strings.TrimRight(strings.TrimSpace(base), "/")
}

// ErrorHandler renders every error returned by a handler or middleware as
// RFC 7807 application/problem+json.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return jsonError(c, log, err)
	}
}

func jsonError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	status, code, msg := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("path", c.Path()).Int("status", status).Msg("request rejected")
	}
	problem := fiber.Map{
		"type":     problemType(code),
		"title":    http.StatusText(status),
		"status":   status,
		"detail":   msg,
		"instance": c.OriginalURL(),
		"code":     code,
		// backward-compat fields
		"success": false,
		"error":   msg,
	}
	c.Status(status)
	c.Set(fiber.HeaderContentType, "application/problem+json")
	body, mErr := c.App().Config().JSONEncoder(problem)
	if mErr != nil {
		return c.SendStatus(http.StatusInternalServerError)
	}
	return c.Send(body)
}

// classify maps application errors by kind and fiber errors by status.
func classify(err error) (int, string, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, statusCode(fe.Code), fe.Message
	}
	return apperr.HTTP(err)
}

func statusCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "validation-error"
	case fiber.StatusUnauthorized:
		return "unauthorized"
	case fiber.StatusForbidden:
		return "forbidden"
	case fiber.StatusNotFound:
		return "not-found"
	case fiber.StatusMethodNotAllowed:
		return "method-not-allowed"
	case fiber.StatusConflict:
		return "conflict"
	case fiber.StatusRequestEntityTooLarge:
		return "request-entity-too-large"
	case fiber.StatusUnsupportedMediaType:
		return "unsupported-media-type"
	case fiber.StatusTooManyRequests:
		return "too-many-requests"
	default:
		return "internal-error"
	}
}

func problemType(code string) string {
	if strings.HasPrefix(problemBaseURL, "http://") || strings.HasPrefix(problemBaseURL, "https://") {
		return problemBaseURL + "/" + code
	}
	return "urn:fithub:problem:" + code
}

func jsonOK(c *fiber.Ctx, payload fiber.Map) error {
	if payload == nil {
		payload = fiber.Map{}
	}
	payload["success"] = true
	return c.JSON(payload)
}

func jsonCreated(c *fiber.Ctx, payload fiber.Map) error {
	c.Status(fiber.StatusCreated)
	return jsonOK(c, payload)
}

// paramID reads a positive integer path parameter.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidInput("invalid " + name)
	}
	return id, nil
}

// parseBody decodes a JSON request body into out.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return apperr.InvalidInput("request body is required")
	}
	if err := c.App().Config().JSONDecoder(c.Body(), out); err != nil {
		return apperr.InvalidInput("malformed JSON body")
	}
	return nil
}
