package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"galleryapi/internal/service"
)

// UploadAttachment stores a multipart file under a generated key. The upload
// gate middleware has already validated the declared MIME type against the
// filename by the time this handler runs.
func UploadAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		att, err := svc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(att)
	}
}

// ListAttachments enumerates the keys of all stored attachments.
func ListAttachments(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		keys, err := svc.List(c.UserContext())
		if err != nil {
			return writeDomainError(c, err)
		}
		if keys == nil {
			keys = []string{}
		}
		return c.JSON(fiber.Map{"keys": keys})
	}
}

// GetAttachmentURL returns a time-limited URL for the attachment without
// proxying its content.
func GetAttachmentURL(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uri, err := svc.GetURI(c.UserContext(), c.Params("key"))
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(fiber.Map{"url": uri})
	}
}

// DownloadAttachment streams the attachment content to the caller.
func DownloadAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, att, err := svc.Download(c.UserContext(), c.Params("key"))
		if err != nil {
			return writeDomainError(c, err)
		}

		if att.ContentType != "" {
			c.Set(fiber.HeaderContentType, att.ContentType)
		}
		filename := att.OriginalFilename
		if filename == "" {
			filename = att.Key
		}
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))

		// fasthttp closes the stream once the response is written.
		return c.SendStream(rc, int(att.Size))
	}
}

// DeleteAttachment removes the attachment. Deleting an absent key succeeds.
func DeleteAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("key")); err != nil {
			return writeDomainError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
