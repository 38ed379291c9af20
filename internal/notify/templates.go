package notify

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatPurpose(purpose string) string {
	p := strings.ReplaceAll(purpose, "_", " ")
	return cases.Title(language.English).String(p)
}

// OTPMessage renders the one-time code e-mail.
func OTPMessage(to, name, code, purpose string, ttl time.Duration) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Your %s code", formatPurpose(purpose)),
		Body: fmt.Sprintf(
			"Hello %s,\n\nYour %s verification code is %s.\nIt expires in %d minutes. Do not share it with anyone.\n",
			name, strings.ToLower(formatPurpose(purpose)), code, int(ttl.Minutes()),
		),
	}
}

// RegistrationMessage confirms a new application.
func RegistrationMessage(to, name, registrationCode string) Message {
	return Message{
		To:      to,
		Subject: "Registration received",
		Body: fmt.Sprintf(
			"Hello %s,\n\nThanks for registering. Your registration code is %s.\nSign in with your e-mail to follow your application.\n",
			name, registrationCode,
		),
	}
}

// StatusMessage is sent by admin notification dispatch.
func StatusMessage(to, name, subject, body string) Message {
	return Message{
		To:      to,
		Subject: subject,
		Body:    fmt.Sprintf("Hello %s,\n\n%s\n", name, body),
	}
}
