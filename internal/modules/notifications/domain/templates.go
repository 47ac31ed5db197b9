package domain

import (
	"fmt"

	reservations "salleYaFloor/internal/modules/reservations/domain"
)

// smsMaxLength keeps message bodies inside a single SMS segment with some
// headroom for provider framing.
const smsMaxLength = 150

// ConfirmationEmail renders the fixed confirmation template.
func ConfirmationEmail(r reservations.Reservation) (subject, htmlBody string) {
	subject = "Votre réservation est confirmée"
	htmlBody = fmt.Sprintf(
		"<p>Bonjour %s,</p><p>Votre réservation pour %d personne(s) le %s à %s est confirmée.</p><p>À très bientôt !</p>",
		r.Name, r.Guests, r.Date, r.Time,
	)
	return subject, htmlBody
}

// CancellationEmail renders the fixed cancellation template.
func CancellationEmail(r reservations.Reservation) (subject, htmlBody string) {
	subject = "Votre réservation a été annulée"
	htmlBody = fmt.Sprintf(
		"<p>Bonjour %s,</p><p>Votre réservation du %s à %s a été annulée.</p><p>N'hésitez pas à réserver de nouveau.</p>",
		r.Name, r.Date, r.Time,
	)
	return subject, htmlBody
}

// ConfirmationSMS renders the confirmation text message.
func ConfirmationSMS(r reservations.Reservation) string {
	return clampSMS(fmt.Sprintf(
		"Bonjour %s, votre réservation pour %d personne(s) le %s à %s est confirmée. À bientôt !",
		r.Name, r.Guests, r.Date, r.Time,
	))
}

// CancellationSMS renders the cancellation text message.
func CancellationSMS(r reservations.Reservation) string {
	return clampSMS(fmt.Sprintf(
		"Bonjour %s, votre réservation du %s à %s a été annulée.",
		r.Name, r.Date, r.Time,
	))
}

func clampSMS(message string) string {
	runes := []rune(message)
	if len(runes) <= smsMaxLength {
		return message
	}
	return string(runes[:smsMaxLength-1]) + "…"
}
