package services

import (
	"strings"

	"edumart/notify"

	"github.com/google/uuid"
)

// Mailer enqueues outbound notifications. Satisfied by notify.Notifier;
// tests substitute a recorder.
type Mailer interface {
	Enqueue(msg notify.Notification) bool
}

// GenerateOrderNumber produces a human-readable unique order number.
func GenerateOrderNumber() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// GeneratePayoutReference produces a unique payout reference.
func GeneratePayoutReference() string {
	return "PAY-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// Slugify turns a title into a URL slug ("Go Mastery Bundle" -> "go-mastery-bundle").
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true // suppress leading dash
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		// Titles without ASCII alphanumerics would all collide on "".
		slug = strings.ToLower(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	}
	return slug
}
