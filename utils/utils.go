package utils

import (
	"errors"
	"log"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

var (
	nonSlugChars     = regexp.MustCompile(`[^a-z0-9]+`)
	nonFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)
)

// GenerateSlug lowercases name and collapses every run of characters outside
// [a-z0-9] into one hyphen. There is no transliteration: "Déjà Vu" becomes
// "d-j-vu".
func GenerateSlug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugFrom picks the explicit slug when given, the name otherwise.
func SlugFrom(slug, name string) string {
	if strings.TrimSpace(slug) != "" {
		return GenerateSlug(slug)
	}
	return GenerateSlug(name)
}

// SafeFileBase strips the extension and collapses every run of unsafe
// characters in an uploaded file name into one hyphen, keeping at most 50
// characters.
func SafeFileBase(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.Trim(nonFileNameChars.ReplaceAllString(base, "-"), "-")
	if len(base) > 50 {
		base = strings.TrimRight(base[:50], "-")
	}
	if base == "" {
		base = "image"
	}
	return base
}

// NormalizeText trims and NFC-normalizes user supplied text so that visually
// identical strings compare equal.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}

	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			log.Println("Error code", e.Code)
			if e.Code == 11000 || e.Code == 11001 {
				return true
			}
		}
	}

	// Fallback
	msg := err.Error()
	return strings.Contains(msg, "E11000 duplicate key error") || strings.Contains(msg, "SQLSTATE 23505")
}

func ParseBoolQuery(value string) (*bool, error) {
	if value == "" {
		return nil, nil // not provided
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func ParseIntDefault(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
