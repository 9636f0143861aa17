// Package notify sends invoice notifications through the WhatsApp Cloud API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"bizbooks/internal/invoice"
	"bizbooks/internal/logger"
	"bizbooks/internal/models"
)

// Config holds the Cloud API settings.
type Config struct {
	APIURL      string // e.g. https://graph.facebook.com/v19.0/<phone-number-id>/messages
	APIToken    string
	Template    string
	CountryCode string // prefixed to 10-digit local numbers
	Timeout     time.Duration
}

// WhatsApp sends template messages. It implements invoice.Notifier.
type WhatsApp struct {
	cfg    Config
	client *http.Client
	log    zerolog.Logger
}

var _ invoice.Notifier = (*WhatsApp)(nil)

func NewWhatsApp(cfg Config) *WhatsApp {
	return &WhatsApp{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    logger.WithComponent("whatsapp"),
	}
}

type templateMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Template         template `json:"template"`
}

type template struct {
	Name       string      `json:"name"`
	Language   language    `json:"language"`
	Components []component `json:"components"`
}

type language struct {
	Code string `json:"code"`
}

type component struct {
	Type       string      `json:"type"`
	Parameters []parameter `json:"parameters"`
}

type parameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// NormalizePhone keeps the digits of phone and prefixes countryCode to 10-digit numbers.
func NormalizePhone(phone, countryCode string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 10 && countryCode != "" {
		return countryCode + digits
	}
	return digits
}

func (w *WhatsApp) buildMessage(inv *models.Invoice) templateMessage {
	return templateMessage{
		MessagingProduct: "whatsapp",
		To:               NormalizePhone(inv.CustomerMobile, w.cfg.CountryCode),
		Type:             "template",
		Template: template{
			Name:     w.cfg.Template,
			Language: language{Code: "en"},
			Components: []component{{
				Type: "body",
				Parameters: []parameter{
					{Type: "text", Text: inv.InvoiceNo},
					{Type: "text", Text: inv.TotalAmount.StringFixed(2)},
					{Type: "text", Text: inv.CustomerName},
				},
			}},
		},
	}
}

// SendInvoiceNotification posts the invoice template to the customer's number.
// Every failure is logged and reported as false.
func (w *WhatsApp) SendInvoiceNotification(ctx context.Context, inv *models.Invoice) bool {
	log := w.log.With().Str("invoice_no", inv.InvoiceNo).Logger()

	if err := w.send(ctx, inv); err != nil {
		log.Error().Err(err).Msg("Failed to send WhatsApp notification")
		return false
	}
	log.Info().Msg("WhatsApp notification sent")
	return true
}

func (w *WhatsApp) send(ctx context.Context, inv *models.Invoice) error {
	if w.cfg.APIURL == "" || w.cfg.APIToken == "" {
		return fmt.Errorf("whatsapp api is not configured")
	}
	msg := w.buildMessage(inv)
	if msg.To == "" {
		return fmt.Errorf("invoice has no usable mobile number")
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out sendResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(out.Messages) == 0 {
		return fmt.Errorf("whatsapp api accepted no messages")
	}
	return nil
}
