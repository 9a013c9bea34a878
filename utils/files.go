package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidFileType = errors.New("invalid file type")
)

// allowedImageTypes maps accepted MIME types to the extension stored objects get.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/avif": ".avif",
	"image/gif":  ".gif",
}

type ImageValidator struct {
	maxSize int64
}

func NewImageValidator(maxSize int64) *ImageValidator {
	return &ImageValidator{maxSize: maxSize}
}

func (v *ImageValidator) MaxSize() int64 { return v.maxSize }

// ValidateFile checks size first, then sniffs the content. A declared
// Content-Type, when present, must also be an allowed image type.
// It returns the detected MIME type and the extension to store under.
func (v *ImageValidator) ValidateFile(fileHeader *multipart.FileHeader) (string, string, error) {
	if fileHeader.Size > v.maxSize {
		return "", "", fmt.Errorf("%w. Maximum size is %dMB.", ErrFileTooLarge, v.maxSize>>20)
	}

	declared := strings.ToLower(strings.TrimSpace(fileHeader.Header.Get("Content-Type")))
	if declared != "" {
		if _, ok := allowedImageTypes[declared]; !ok {
			return "", "", fmt.Errorf("%w. Use JPG, PNG, WebP, AVIF, or GIF.", ErrInvalidFileType)
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	detected, err := mimetype.DetectReader(file)
	if err != nil {
		return "", "", fmt.Errorf("failed to read file header: %w", err)
	}

	for m := detected; m != nil; m = m.Parent() {
		if ext, ok := allowedImageTypes[m.String()]; ok {
			return m.String(), ext, nil
		}
	}
	return "", "", fmt.Errorf("%w. Use JPG, PNG, WebP, AVIF, or GIF.", ErrInvalidFileType)
}
