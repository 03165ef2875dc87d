package chatwoot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultUserAgent = "wiral-decision-core/0.1"

// Config controls how the helpdesk client behaves.
type Config struct {
	BaseURL    string
	APIToken   string
	AccountID  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	UserAgent  string
}

// Client wraps the Chatwoot REST endpoints the decision core depends on:
// reply dispatch, recent-message windows, conversation labels, and contact
// attribute updates.
type Client struct {
	apiToken   string
	baseURL    string
	accountID  string
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIToken) == "" {
		return nil, errors.New("chatwoot: API token is required")
	}
	if strings.TrimSpace(cfg.AccountID) == "" {
		return nil, errors.New("chatwoot: account id is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("chatwoot: base URL is required")
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		apiToken:   cfg.APIToken,
		baseURL:    baseURL,
		accountID:  cfg.AccountID,
		httpClient: httpClient,
		logger:     logger,
		userAgent:  userAgent,
	}, nil
}

// SendReply posts an outgoing message to the conversation.
func (c *Client) SendReply(ctx context.Context, conversationID int, content string) (*Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("chatwoot: reply content is empty")
	}
	body, err := json.Marshal(sendMessageRequest{
		Content:     content,
		MessageType: "outgoing",
	})
	if err != nil {
		return nil, fmt.Errorf("chatwoot: marshal reply body: %w", err)
	}
	data, err := c.invoke(ctx, http.MethodPost, c.conversationPath(conversationID, "/messages"), body)
	if err != nil {
		return nil, err
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("chatwoot: decode reply response: %w", err)
	}
	return &msg, nil
}

// ListMessages fetches the most recent messages for a conversation, oldest
// first, capped at limit (0 means no cap).
func (c *Client) ListMessages(ctx context.Context, conversationID int, limit int) ([]Message, error) {
	data, err := c.invoke(ctx, http.MethodGet, c.conversationPath(conversationID, "/messages"), nil)
	if err != nil {
		return nil, err
	}
	var envelope messagesEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("chatwoot: decode messages: %w", err)
	}
	messages := envelope.Payload
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

// ListLabels returns the labels currently applied to the conversation.
func (c *Client) ListLabels(ctx context.Context, conversationID int) ([]string, error) {
	data, err := c.invoke(ctx, http.MethodGet, c.conversationPath(conversationID, "/labels"), nil)
	if err != nil {
		return nil, err
	}
	var envelope labelsEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("chatwoot: decode labels: %w", err)
	}
	return envelope.Payload, nil
}

// AddLabel applies a label to the conversation, preserving existing labels.
// The platform only exposes a set-labels endpoint, so this is fetch-then-set.
func (c *Client) AddLabel(ctx context.Context, conversationID int, label string) error {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return errors.New("chatwoot: label is empty")
	}
	current, err := c.ListLabels(ctx, conversationID)
	if err != nil {
		return err
	}
	for _, l := range current {
		if l == label {
			return nil
		}
	}
	return c.setLabels(ctx, conversationID, append(current, label))
}

// RemoveLabel strips a label from the conversation. Removing an absent label
// is a no-op, not an error.
func (c *Client) RemoveLabel(ctx context.Context, conversationID int, label string) error {
	label = strings.ToLower(strings.TrimSpace(label))
	current, err := c.ListLabels(ctx, conversationID)
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(current))
	found := false
	for _, l := range current {
		if l == label {
			found = true
			continue
		}
		kept = append(kept, l)
	}
	if !found {
		return nil
	}
	return c.setLabels(ctx, conversationID, kept)
}

// UpdateContactAttributes merges custom attributes onto the contact record.
func (c *Client) UpdateContactAttributes(ctx context.Context, contactID int, attrs map[string]string) error {
	if len(attrs) == 0 {
		return nil
	}
	body, err := json.Marshal(updateContactRequest{CustomAttributes: attrs})
	if err != nil {
		return fmt.Errorf("chatwoot: marshal contact attributes: %w", err)
	}
	path := fmt.Sprintf("/api/v1/accounts/%s/contacts/%d", c.accountID, contactID)
	_, err = c.invoke(ctx, http.MethodPut, path, body)
	return err
}

func (c *Client) setLabels(ctx context.Context, conversationID int, labels []string) error {
	body, err := json.Marshal(setLabelsRequest{Labels: labels})
	if err != nil {
		return fmt.Errorf("chatwoot: marshal labels: %w", err)
	}
	_, err = c.invoke(ctx, http.MethodPost, c.conversationPath(conversationID, "/labels"), body)
	return err
}

func (c *Client) conversationPath(conversationID int, suffix string) string {
	return fmt.Sprintf("/api/v1/accounts/%s/conversations/%d%s", c.accountID, conversationID, suffix)
}

func (c *Client) invoke(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("chatwoot: build request: %w", err)
	}
	req.Header.Set("api_access_token", c.apiToken)
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chatwoot: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("chatwoot: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("chatwoot request failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
		return nil, fmt.Errorf("chatwoot: %s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	return data, nil
}
