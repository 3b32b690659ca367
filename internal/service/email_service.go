package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// EmailService sends transactional emails.
type EmailService interface {
	SendInvite(ctx context.Context, toEmail, name, inviteURL, idempotencyKey string) error
}

// NoopEmailService is used when email sending is disabled; the invite
// link still appears in the logs so local setups can complete the flow.
type NoopEmailService struct{}

func (s *NoopEmailService) SendInvite(ctx context.Context, toEmail, name, inviteURL, idempotencyKey string) error {
	log.Printf("[EmailService] noop send invite to=%s url=%s", toEmail, inviteURL)
	return nil
}

// ResendEmailService sends emails via the Resend REST API.
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

func (s *ResendEmailService) SendInvite(ctx context.Context, toEmail, name, inviteURL, idempotencyKey string) error {
	if toEmail == "" || inviteURL == "" {
		return fmt.Errorf("toEmail and inviteURL are required")
	}

	greeting := "Hello"
	if strings.TrimSpace(name) != "" {
		greeting = "Hello " + strings.TrimSpace(name)
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: "You have been invited",
		Text: fmt.Sprintf("%s,\n\nYou have been invited as a teacher. Open the link to activate your account:\n%s\n\nThe link expires in 7 days.",
			greeting, inviteURL),
		Html: fmt.Sprintf("<p>%s,</p><p>You have been invited as a teacher. <a href=%q>Activate your account</a>.</p><p>The link expires in 7 days.</p>",
			greeting, inviteURL),
	}

	options := &resend.SendEmailOptions{}
	if strings.TrimSpace(idempotencyKey) != "" {
		options.IdempotencyKey = strings.TrimSpace(idempotencyKey)
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && (netErr.Timeout() || netErr.Temporary()) {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
