package telegram

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/trailtony/vidhub/internal/config"
)

type Client struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		token:   cfg.TelegramBotToken,
		chatID:  cfg.TelegramAdminChatID,
		baseURL: "https://api.telegram.org",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// IsConfigured reports whether alerts will actually be sent.
func (c *Client) IsConfigured() bool {
	return c != nil && c.token != "" && c.chatID != ""
}

func (c *Client) SendAlert(msg string) error {
	if !c.IsConfigured() {
		return nil
	}
	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	vals := url.Values{}
	vals.Set("chat_id", c.chatID)
	vals.Set("text", "🚨 vidhub ERROR: "+msg)

	resp, err := c.client.PostForm(apiURL, vals)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}
