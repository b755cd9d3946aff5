package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxTitleLength   = 80
	RandomSuffixLen  = 5
	DefaultFileTitle = "audio"
	MP3Extension     = ".mp3"
)

var turkishReplacer = strings.NewReplacer(
	"ç", "c", "Ç", "C",
	"ğ", "g", "Ğ", "G",
	"ı", "i", "İ", "I",
	"ö", "o", "Ö", "O",
	"ş", "s", "Ş", "S",
	"ü", "u", "Ü", "U",
)

var now = time.Now

// SanitizeTitle transliterates Turkish letters and keeps only [A-Za-z0-9 -],
// trimmed and capped at MaxTitleLength characters.
func SanitizeTitle(title string) string {
	ascii := turkishReplacer.Replace(title)

	var b strings.Builder
	b.Grow(len(ascii))
	for _, r := range ascii {
		if isFilenameRune(r) {
			b.WriteRune(r)
		}
	}

	result := strings.TrimSpace(b.String())
	if len(result) > MaxTitleLength {
		result = strings.TrimSpace(result[:MaxTitleLength])
	}
	return result
}

func isFilenameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == ' ', r == '-':
		return true
	}
	return false
}

// UniqueToken returns a base-36 millisecond timestamp. Batch tokens carry a
// random suffix so downloads started in the same millisecond do not collide.
func UniqueToken(batch bool) string {
	token := strconv.FormatInt(now().UnixMilli(), 36)
	if batch {
		token += "_" + randomSuffix()
	}
	return token
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:RandomSuffixLen]
}

func BuildFileName(title, token string) string {
	name := SanitizeTitle(title)
	if name == "" {
		name = DefaultFileTitle
	}
	return name + "_" + token + MP3Extension
}
