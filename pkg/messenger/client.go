package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"workmate-bot/internal/pkg/logger"
)

// Sender delivers outbound text to a user on the messaging platform.
type Sender interface {
	SendText(ctx context.Context, userID, text string) error
}

// MediaFetcher downloads inbound media referenced by id.
type MediaFetcher interface {
	FetchMedia(ctx context.Context, mediaID string) ([]byte, error)
}

// Client talks to a WhatsApp-Cloud-style Graph API.
type Client struct {
	baseURL       string
	accessToken   string
	phoneNumberID string
	http          *http.Client
	log           logger.ILogger
}

func NewClient(baseURL, accessToken, phoneNumberID string, log logger.ILogger) *Client {
	return &Client{
		baseURL:       baseURL,
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		http:          &http.Client{Timeout: 30 * time.Second},
		log:           log,
	}
}

type sendTextRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

func (c *Client) SendText(ctx context.Context, userID, text string) error {
	payload := sendTextRequest{
		MessagingProduct: "whatsapp",
		To:               userID,
		Type:             "text",
		Text:             textBody{Body: text},
	}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("send message: status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

type mediaLookupResponse struct {
	URL string `json:"url"`
}

// FetchMedia resolves the media id to a download URL, then fetches the bytes.
func (c *Client) FetchMedia(ctx context.Context, mediaID string) ([]byte, error) {
	lookupURL := fmt.Sprintf("%s/%s", c.baseURL, mediaID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media lookup: status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var lookup mediaLookupResponse
	if err := json.Unmarshal(bodyBytes, &lookup); err != nil {
		return nil, err
	}
	if lookup.URL == "" {
		return nil, fmt.Errorf("media lookup: empty url for %s", mediaID)
	}

	dlReq, err := http.NewRequestWithContext(ctx, http.MethodGet, lookup.URL, nil)
	if err != nil {
		return nil, err
	}
	dlReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	dlResp, err := c.http.Do(dlReq)
	if err != nil {
		return nil, err
	}
	defer dlResp.Body.Close()

	if dlResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media download: status %d", dlResp.StatusCode)
	}
	return io.ReadAll(dlResp.Body)
}
