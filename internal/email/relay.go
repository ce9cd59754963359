package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/soratech/storefront/internal/config"
)

const defaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// Relay sends transactional mail through an EmailJS-style HTTP API. With an
// empty service/key configuration every send is skipped with a warning so
// the surrounding flow never fails on mail.
type Relay struct {
	endpoint      string
	serviceID     string
	publicKey     string
	orderTemplate string
	resetTemplate string
	httpClient    *http.Client
	logger        *slog.Logger
}

func NewRelay(cfg *config.Config, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		endpoint:      defaultEndpoint,
		serviceID:     cfg.EMAILJS_SERVICE_ID,
		publicKey:     cfg.EMAILJS_PUBLIC_KEY,
		orderTemplate: cfg.EMAILJS_ORDER_TEMPLATE_ID,
		resetTemplate: cfg.EMAILJS_RESET_TEMPLATE_ID,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		logger:        logger,
	}
}

func (r *Relay) SendOrderReceipt(ctx context.Context, to, orderNumber string, total float64) error {
	return r.send(ctx, r.orderTemplate, map[string]string{
		"to_email":     to,
		"order_number": orderNumber,
		"total_amount": strconv.FormatFloat(total, 'f', 2, 64),
	})
}

func (r *Relay) SendResetCode(ctx context.Context, to, code string) error {
	return r.send(ctx, r.resetTemplate, map[string]string{
		"to_email":   to,
		"reset_code": code,
	})
}

func (r *Relay) send(ctx context.Context, templateID string, params map[string]string) error {
	if r.serviceID == "" || r.publicKey == "" || templateID == "" {
		r.logger.Warn("email relay not configured, skipping send", "template", templateID)
		return nil
	}

	body := map[string]any{
		"service_id":      r.serviceID,
		"template_id":     templateID,
		"user_id":         r.publicKey,
		"template_params": params,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email relay responded %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}
