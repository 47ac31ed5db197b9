package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"salleYaFloor/internal/modules/notifications/domain"
	"salleYaFloor/internal/modules/reservations/application/port"
	reservations "salleYaFloor/internal/modules/reservations/domain"
	"salleYaFloor/internal/shared/httputil"
)

// EmailHTTPSender delivers templated emails through the provider's JSON API.
type EmailHTTPSender struct {
	rest   *httputil.RESTClient
	apiKey string
	from   string
}

func NewEmailHTTPSender(baseURL, apiKey, from string, timeout time.Duration, client *http.Client) *EmailHTTPSender {
	return &EmailHTTPSender{
		rest:   httputil.NewRESTClient(baseURL, timeout, client),
		apiKey: strings.TrimSpace(apiKey),
		from:   strings.TrimSpace(from),
	}
}

func (s *EmailHTTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	payload := map[string]any{
		"from":    s.from,
		"to":      strings.TrimSpace(to),
		"subject": subject,
		"html":    htmlBody,
	}
	return postJSON(ctx, s.rest, "/emails", s.apiKey, payload)
}

// SMSHTTPSender delivers text messages through the provider's JSON API.
// Recipients are normalized to bare country-code digit strings first.
type SMSHTTPSender struct {
	rest   *httputil.RESTClient
	apiKey string
	sender string
}

func NewSMSHTTPSender(baseURL, apiKey, sender string, timeout time.Duration, client *http.Client) *SMSHTTPSender {
	return &SMSHTTPSender{
		rest:   httputil.NewRESTClient(baseURL, timeout, client),
		apiKey: strings.TrimSpace(apiKey),
		sender: strings.TrimSpace(sender),
	}
}

func (s *SMSHTTPSender) Send(ctx context.Context, toDigits, message string) error {
	payload := map[string]any{
		"sender":  s.sender,
		"to":      toDigits,
		"message": message,
	}
	return postJSON(ctx, s.rest, "/sms", s.apiKey, payload)
}

func postJSON(ctx context.Context, rest *httputil.RESTClient, path, apiKey string, payload map[string]any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode notification payload: %w", err)
	}
	req, err := rest.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	res, err := rest.Do(req)
	if err != nil {
		return fmt.Errorf("notification request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return fmt.Errorf("notification provider status %d: %s", res.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}

// CustomerNotifier composes the two channels into the Notifier port. Each
// channel is attempted independently: a dead SMS provider never blocks the
// confirmation email and vice versa.
type CustomerNotifier struct {
	email *EmailHTTPSender
	sms   *SMSHTTPSender
}

func NewCustomerNotifier(email *EmailHTTPSender, sms *SMSHTTPSender) *CustomerNotifier {
	return &CustomerNotifier{email: email, sms: sms}
}

func (n *CustomerNotifier) SendConfirmation(ctx context.Context, reservation reservations.Reservation) error {
	subject, body := domain.ConfirmationEmail(reservation)
	return n.deliver(ctx, reservation, subject, body, domain.ConfirmationSMS(reservation))
}

func (n *CustomerNotifier) SendCancellation(ctx context.Context, reservation reservations.Reservation) error {
	subject, body := domain.CancellationEmail(reservation)
	return n.deliver(ctx, reservation, subject, body, domain.CancellationSMS(reservation))
}

func (n *CustomerNotifier) deliver(ctx context.Context, reservation reservations.Reservation, subject, htmlBody, sms string) error {
	var failures []string

	if email := strings.TrimSpace(reservation.Email); email != "" && n.email != nil {
		if err := n.email.Send(ctx, email, subject, htmlBody); err != nil {
			slog.Warn("email send failed", slog.Int("reservationId", reservation.ID), slog.Any("error", err))
			failures = append(failures, "email")
		}
	}
	if digits := domain.NormalizePhone(reservation.Phone); digits != "" && n.sms != nil {
		if err := n.sms.Send(ctx, digits, sms); err != nil {
			slog.Warn("sms send failed", slog.Int("reservationId", reservation.ID), slog.Any("error", err))
			failures = append(failures, "sms")
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("notification delivery failed: %s", strings.Join(failures, ", "))
	}
	return nil
}

var _ port.Notifier = (*CustomerNotifier)(nil)
