package handlers

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aerayy/fithub-backend/internal/apperr"
)

const maxUpload = 10 * 1024 * 1024 // 10MB

// imageExt is keyed by the sniffed content type, never the client's header.
var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

func sniff(buf []byte) string {
	head := buf
	if len(head) > 512 {
		head = head[:512]
	}
	return http.DetectContentType(head)
}

// UploadImage handles POST /uploads/image (multipart field "file") and
// answers with the URL to put in a message's media_url.
func (h *Handler) UploadImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return apperr.InvalidInput("multipart field \"file\" is required")
	}
	if fh.Size <= 0 || fh.Size > maxUpload {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "file is empty or larger than 10 MB")
	}
	f, err := fh.Open()
	if err != nil {
		return apperr.Internal("open upload", err)
	}
	defer f.Close()

	lr := &io.LimitedReader{R: f, N: maxUpload + 1}
	buf, err := io.ReadAll(lr)
	if err != nil {
		return apperr.Internal("read upload", err)
	}
	if int64(len(buf)) > maxUpload {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "file is larger than 10 MB")
	}
	ct := sniff(buf)
	ext, ok := imageExt[ct]
	if !ok {
		return fiber.NewError(fiber.StatusUnsupportedMediaType, "only JPEG, PNG, WebP or GIF images are allowed")
	}

	if err := os.MkdirAll(h.uploadPath, 0o755); err != nil {
		return apperr.Internal("create upload dir", err)
	}
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(h.uploadPath, name), buf, 0o644); err != nil {
		return apperr.Internal("save upload", err)
	}
	h.log.Info().Str("file", name).Int("size", len(buf)).Str("content_type", ct).Msg("image uploaded")

	return jsonCreated(c, fiber.Map{
		"url":          "/uploads/" + name,
		"size_bytes":   len(buf),
		"content_type": ct,
	})
}

// uploadName accepts only names UploadImage could have produced.
func uploadName(name string) bool {
	ext := filepath.Ext(name)
	if _, err := uuid.Parse(strings.TrimSuffix(name, ext)); err != nil {
		return false
	}
	for _, e := range imageExt {
		if e == ext {
			return true
		}
	}
	return false
}

// GetUpload handles GET /uploads/:name.
func (h *Handler) GetUpload(c *fiber.Ctx) error {
	name := c.Params("name")
	if !uploadName(name) {
		return apperr.NotFound("file not found")
	}
	img, err := os.ReadFile(filepath.Join(h.uploadPath, name))
	if errors.Is(err, os.ErrNotExist) {
		return apperr.NotFound("file not found")
	}
	if err != nil {
		return apperr.Internal("read upload", err)
	}
	ct := sniff(img)
	if !strings.HasPrefix(ct, "image/") {
		ct = "application/octet-stream"
	}
	c.Set(fiber.HeaderContentType, ct)
	sum := sha256.Sum256(img)
	c.Set(fiber.HeaderETag, fmt.Sprintf(`W/"%x"`, sum[:16]))
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	return c.Send(img)
}
