package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tiflisi/internal/services"
)

var errNoUpload = errors.New("no file or data URI given")

// readUpload takes the multipart file in field, falling back to a
// data:<mime>;base64 URI posted as field+"DataUri".
func readUpload(c *fiber.Ctx, field string) (services.Upload, error) {
	if fh, err := c.FormFile(field); err == nil && fh != nil {
		return services.ReadFileHeader(fh)
	}
	if uri := strings.TrimSpace(c.FormValue(field + "DataUri")); uri != "" {
		return services.DecodeDataURI(uri)
	}
	return services.Upload{}, errNoUpload
}

func uploadMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrNotImage):
		return "დაშვებულია მხოლოდ სურათები (PNG, JPEG, GIF, WEBP)"
	case errors.Is(err, services.ErrUploadTooBig):
		return "ფაილის ზომა არ უნდა აღემატებოდეს 5 MB-ს"
	case errors.Is(err, services.ErrBadDataURI), errors.Is(err, services.ErrEmptyUpload), errors.Is(err, errNoUpload):
		return "ფაილი ვერ წაიკითხა"
	}
	return "ფაილის ატვირთვა ვერ მოხერხდა"
}

// clientUploadError reports whether err is the uploader's fault.
func clientUploadError(err error) bool {
	return errors.Is(err, services.ErrNotImage) || errors.Is(err, services.ErrUploadTooBig) ||
		errors.Is(err, services.ErrBadDataURI) || errors.Is(err, services.ErrEmptyUpload) ||
		errors.Is(err, errNoUpload) || errors.Is(err, services.ErrUnknownSlot)
}
