package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/akash-limitlessglobaltechnologies/landx/internal/middleware"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/models"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/services"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/storage"
)

const maxImageSize = 5 * 1024 * 1024

type PropertyHandler struct {
	svc    services.PropertyService
	images *storage.S3Store
	logger *zap.Logger
}

func NewPropertyHandler(svc services.PropertyService, images *storage.S3Store, logger *zap.Logger) *PropertyHandler {
	return &PropertyHandler{svc: svc, images: images, logger: logger}
}

func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	var req models.CreatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	p, err := h.svc.Create(c.Context(), middleware.Phone(c), req.Title, req.RawJSON)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// FetchByID releases a listing through the access guard; a private listing
// needs its code in the `pin` query parameter.
func (h *PropertyHandler) FetchByID(c *fiber.Ctx) error {
	p, err := h.svc.Fetch(c.Context(), c.Params("id"), c.Query("pin"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}

func (h *PropertyHandler) UserProperties(c *fiber.Ctx) error {
	props, err := h.svc.OwnerProperties(c.Context(), middleware.Phone(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"count":      len(props),
		"properties": props,
	})
}

func (h *PropertyHandler) UpdateAccess(c *fiber.Ctx) error {
	var req models.UpdatePropertyAccessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	p, err := h.svc.SetAccess(c.Context(), req.ID, middleware.Phone(c), req.IsPrivate, req.AccessCode)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message":  "Property updated successfully",
		"property": p,
	})
}

// UploadImage stores a listing photo in S3 and returns its URL.
func (h *PropertyHandler) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "image file missing"})
	}
	if fileHeader.Size == 0 || fileHeader.Size > maxImageSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "file size not allowed"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "cannot open file"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "cannot read file"})
	}

	ct := fileHeader.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	if !strings.HasPrefix(ct, "image/") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid file type, only images are allowed"})
	}

	key := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), fileHeader.Filename)
	imageURL, err := h.images.Upload(c.Context(), key, ct, data)
	if err != nil {
		h.logger.Error("S3 upload failed", zap.String("key", key), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "error uploading file"})
	}
	return c.JSON(fiber.Map{"imageUrl": imageURL})
}
