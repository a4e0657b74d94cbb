// Package telegram is a minimal Telegram Bot API client covering the
// methods the bot needs: sending messages, replying, and long-polling
// for updates.
package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.telegram.org/bot"
	sendTimeout    = 10 * time.Second
)

// SendOptions are the optional parameters of SendMessage.
type SendOptions struct {
	ParseMode             string
	DisableWebPagePreview bool
	ReplyToMessageID      int
}

// Client is a Telegram Bot API client.
type Client struct {
	botToken   string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Telegram client.
func NewClient(botToken string) (*Client, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	return &Client{
		botToken: botToken,
		baseURL:  defaultBaseURL,
		httpClient: &http.Client{
			Timeout: sendTimeout,
		},
	}, nil
}

// SendMessage sends a text message to a chat.
func (c *Client) SendMessage(chatID int64, text string, opts *SendOptions) (*Message, error) {
	if text == "" {
		return nil, fmt.Errorf("message text is required")
	}

	payload := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	if opts != nil {
		if opts.ParseMode != "" {
			payload["parse_mode"] = opts.ParseMode
		}
		if opts.DisableWebPagePreview {
			payload["disable_web_page_preview"] = true
		}
		if opts.ReplyToMessageID != 0 {
			payload["reply_to_message_id"] = opts.ReplyToMessageID
		}
	}

	var sent Message
	if err := c.call(c.httpClient, "sendMessage", payload, &sent); err != nil {
		return nil, err
	}
	return &sent, nil
}

// Reply sends a message as a reply to an earlier message in the same
// chat.
func (c *Client) Reply(to *Message, text string, opts *SendOptions) (*Message, error) {
	var o SendOptions
	if opts != nil {
		o = *opts
	}
	o.ReplyToMessageID = to.MessageID
	return c.SendMessage(to.Chat.ID, text, &o)
}

// GetUpdates long-polls for updates, returning once the server has
// something to deliver or the timeout elapses. Pass the last seen
// update ID plus one as offset to acknowledge processed updates.
func (c *Client) GetUpdates(offset, timeoutSeconds int) ([]Update, error) {
	payload := map[string]interface{}{}
	if offset > 0 {
		payload["offset"] = offset
	}
	if timeoutSeconds > 0 {
		payload["timeout"] = timeoutSeconds
	}

	// The HTTP timeout has to outlive Telegram's long-poll window
	pollClient := &http.Client{Timeout: time.Duration(timeoutSeconds+10) * time.Second}

	var updates []Update
	if err := c.call(pollClient, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// call posts a Bot API method and decodes the result envelope into out.
func (c *Client) call(httpClient *http.Client, method string, payload interface{}, out interface{}) error {
	url := fmt.Sprintf("%s%s/%s", c.baseURL, c.botToken, method)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		OK          bool            `json:"ok"`
		Description string          `json:"description"`
		Result      json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}

	if out != nil && len(result.Result) > 0 {
		if err := json.Unmarshal(result.Result, out); err != nil {
			return fmt.Errorf("parsing result: %w", err)
		}
	}
	return nil
}
