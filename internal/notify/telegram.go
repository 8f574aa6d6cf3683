// Package notify sends complaint notifications through a Telegram bot.
//
// Notifications are strictly best-effort: a nil client disables them,
// and a send failure never blocks or fails the operation that
// triggered it.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"resolvex/internal/complaint"
)

const defaultAPIBase = "https://api.telegram.org"

// Client represents a Telegram bot client.
type Client struct {
	botToken string
	chatID   string
	apiBase  string
	http     *http.Client
	debug    bool
}

// New creates a Telegram client. It returns nil when the token or chat
// id is missing, which disables notifications; callers hold a nil
// client safely because every method checks for it.
//
// In debug mode messages are logged instead of sent.
func New(botToken, chatID string, debug bool) *Client {
	if botToken == "" || chatID == "" {
		log.Println("⚠️  Telegram not configured, notifications disabled")
		return nil
	}

	log.Println("✓ Telegram configured successfully")
	return &Client{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		http:     &http.Client{Timeout: 30 * time.Second},
		debug:    debug,
	}
}

// message is the sendMessage payload.
type message struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// doRequest handles the common logic for sending requests to the
// Telegram API: JSON marshaling, the POST itself and error response
// parsing.
func (c *Client) doRequest(method string, payload any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.botToken, method)

	resp, err := c.http.Post(apiURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if ok, exists := result["ok"].(bool); !exists || !ok {
		return fmt.Errorf("telegram API error: %v", result)
	}
	return nil
}

// NotifyNewComplaint announces a freshly submitted complaint.
//
// Message format:
//
//	📋 Complaint : CMP007
//	👤 Jane Doe (jane@example.com)
//	🏷 Billing
//	📅 2026-09-01
//	💬 Details:
//	[description]
func (c *Client) NotifyNewComplaint(cm complaint.Complaint) error {
	if c == nil {
		return nil
	}

	text := fmt.Sprintf(
		"📋 Complaint : %s\n\n"+
			"👤 %s (%s)\n"+
			"🏷 %s\n"+
			"📅 %s\n\n"+
			"💬 <b>Details:</b>\n%s",
		cm.ID, cm.Name, cm.Email, cm.Category, cm.CreatedAt, cm.Description,
	)

	if c.debug {
		log.Printf("🐛 DEBUG MODE: would send Telegram notification for %s", cm.ID)
		return nil
	}

	log.Printf("   📨 Sending complaint %s to Telegram...", cm.ID)
	err := c.doRequest("sendMessage", message{
		ChatID:                c.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("failed to send Telegram message: %w", err)
	}

	log.Println("   ✓ Complaint successfully sent to Telegram")
	return nil
}

// SendCriticalAlert reports a failure that needs manual intervention.
func (c *Client) SendCriticalAlert(errorType, errorMsg string) error {
	if c == nil {
		return nil
	}

	text := fmt.Sprintf(
		"🚨 <b>CRITICAL ALERT - RESOLVEX SERVICE</b>\n\n"+
			"<b>Error Type:</b> %s\n"+
			"<b>Error Message:</b> %s\n"+
			"<b>Timestamp:</b> %s\n\n"+
			"⚠️ <b>Action Required:</b> Please check the service immediately.",
		errorType, errorMsg, time.Now().Format("2006-01-02 15:04:05"),
	)

	if c.debug {
		log.Printf("🐛 DEBUG MODE: would send critical alert: %s", errorType)
		return nil
	}

	err := c.doRequest("sendMessage", message{
		ChatID:                c.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("failed to send Telegram alert: %w", err)
	}
	return nil
}

// SetAPIBase overrides the Telegram API host. Used by tests to point
// the client at a local server.
func (c *Client) SetAPIBase(base string) {
	if c != nil {
		c.apiBase = base
	}
}
