package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/glabrego/subtriage/internal/subscription"
)

// PageSize is the largest page the subscriptions endpoint serves.
const PageSize = 50

const unknownSubCount = "Unknown"

// TokenSource yields the bearer token for each request.
type TokenSource interface {
	AccessToken() (string, error)
}

// Page is one page of the caller's subscriptions.
type Page struct {
	Records       []subscription.Record
	NextPageToken string
}

// APIError is a non-2xx answer from the Data API.
type APIError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube api status %d (%s): %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("youtube api status %d: %s", e.StatusCode, e.Message)
}

type resourceID struct {
	Kind      string `json:"kind"`
	ChannelID string `json:"channelId"`
}

type insertRequest struct {
	Snippet struct {
		ResourceID resourceID `json:"resourceId"`
	} `json:"snippet"`
}

type subscriptionResource struct {
	ID      string `json:"id"`
	Snippet struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		ResourceID  resourceID `json:"resourceId"`
		Thumbnails  struct {
			Default struct {
				URL string `json:"url"`
			} `json:"default"`
		} `json:"thumbnails"`
	} `json:"snippet"`
}

type listResponse struct {
	NextPageToken string                 `json:"nextPageToken"`
	Items         []subscriptionResource `json:"items"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

type Client struct {
	baseURL string
	tokens  TokenSource
	limiter *rate.Limiter
	http    *http.Client
}

// NewClient builds a Data API client. A nil limiter disables client-side
// throttling.
func NewClient(baseURL string, tokens TokenSource, limiter *rate.Limiter, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		limiter: limiter,
		http:    httpClient,
	}
}

func (c *Client) ListSubscriptions(ctx context.Context, pageToken string) (Page, error) {
	q := make(url.Values)
	q.Set("part", "snippet,contentDetails")
	q.Set("mine", "true")
	q.Set("maxResults", strconv.Itoa(PageSize))
	q.Set("order", "alphabetical")
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}

	resp, err := c.do(ctx, http.MethodGet, "/subscriptions?"+q.Encode(), nil)
	if err != nil {
		return Page{}, fmt.Errorf("list subscriptions: %w", err)
	}
	defer resp.Body.Close()

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Page{}, fmt.Errorf("decode subscriptions response: %w", err)
	}

	page := Page{
		Records:       make([]subscription.Record, 0, len(body.Items)),
		NextPageToken: body.NextPageToken,
	}
	for _, item := range body.Items {
		page.Records = append(page.Records, recordFromResource(item))
	}
	return page, nil
}

func (c *Client) DeleteSubscription(ctx context.Context, subscriptionID string) error {
	if strings.TrimSpace(subscriptionID) == "" {
		return errors.New("delete subscription: no subscription id provided")
	}
	q := make(url.Values)
	q.Set("id", subscriptionID)

	resp, err := c.do(ctx, http.MethodDelete, "/subscriptions?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("delete subscription %s: %w", subscriptionID, err)
	}
	resp.Body.Close()
	return nil
}

// InsertSubscription subscribes to channelID and returns the new subscription id.
func (c *Client) InsertSubscription(ctx context.Context, channelID string) (string, error) {
	if strings.TrimSpace(channelID) == "" {
		return "", errors.New("insert subscription: no channel id provided")
	}
	var payload insertRequest
	payload.Snippet.ResourceID = resourceID{Kind: "youtube#channel", ChannelID: channelID}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode insert payload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/subscriptions?part=snippet", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("insert subscription for %s: %w", channelID, err)
	}
	defer resp.Body.Close()

	var created subscriptionResource
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode insert response: %w", err)
	}
	if created.ID == "" {
		return "", errors.New("insert subscription: response carried no id")
	}
	return created.ID, nil
}

// do sends the request and returns the response only for 2xx statuses.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	return nil, decodeAPIError(resp)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	token, err := c.tokens.AccessToken()
	if err != nil {
		return nil, fmt.Errorf("access token: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	return req, nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}

	var parsed errorResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error.Message != "" {
		apiErr.Message = parsed.Error.Message
		if len(parsed.Error.Errors) > 0 {
			apiErr.Reason = parsed.Error.Errors[0].Reason
		}
	}
	return apiErr
}

func recordFromResource(item subscriptionResource) subscription.Record {
	return subscription.Record{
		ID:             item.Snippet.ResourceID.ChannelID,
		SubscriptionID: item.ID,
		Name:           item.Snippet.Title,
		Handle:         item.Snippet.Title,
		SubCount:       unknownSubCount,
		Description:    subscription.PlainText(item.Snippet.Description),
		Status:         subscription.StatusPending,
		AvatarURL:      item.Snippet.Thumbnails.Default.URL,
		Tags:           []string{},
	}
}
