package youtube

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/time/rate"
)

type staticToken string

func (s staticToken) AccessToken() (string, error) {
	if s == "" {
		return "", errors.New("signed out")
	}
	return string(s), nil
}

func TestListSubscriptions_SendsQueryAndParsesResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/subscriptions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("part") != "snippet,contentDetails" || q.Get("mine") != "true" || q.Get("maxResults") != "50" || q.Get("order") != "alphabetical" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("pageToken") != "PAGE2" {
			t.Fatalf("unexpected page token: %s", r.URL.RawQuery)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("unexpected auth header: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"nextPageToken":"PAGE3","items":[{"id":"sub-1","snippet":{"title":"Go Channel","description":"Talks &amp; demos","resourceId":{"kind":"youtube#channel","channelId":"UC123"},"thumbnails":{"default":{"url":"https://img.example/1.jpg"}}}}]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, staticToken("tok"), nil, ts.Client())
	page, err := c.ListSubscriptions(context.Background(), "PAGE2")
	if err != nil {
		t.Fatalf("ListSubscriptions returned error: %v", err)
	}
	if page.NextPageToken != "PAGE3" {
		t.Fatalf("unexpected next page token: %q", page.NextPageToken)
	}
	if len(page.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(page.Records))
	}
	rec := page.Records[0]
	if rec.ID != "UC123" || rec.SubscriptionID != "sub-1" || rec.Handle != "Go Channel" || rec.Name != "Go Channel" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.SubCount != "Unknown" || rec.Status != "pending" || rec.AvatarURL != "https://img.example/1.jpg" {
		t.Fatalf("unexpected record defaults: %+v", rec)
	}
	if rec.Description != "Talks & demos" {
		t.Fatalf("unexpected description: %q", rec.Description)
	}
}

func TestListSubscriptions_FirstPageOmitsToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.URL.Query()["pageToken"]; ok {
			t.Fatalf("did not expect pageToken on first page: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, staticToken("tok"), nil, ts.Client())
	page, err := c.ListSubscriptions(context.Background(), "")
	if err != nil {
		t.Fatalf("ListSubscriptions returned error: %v", err)
	}
	if len(page.Records) != 0 || page.NextPageToken != "" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestListSubscriptions_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"The request cannot be completed because you have exceeded your quota.","errors":[{"reason":"quotaExceeded"}]}}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, staticToken("tok"), nil, ts.Client())
	_, err := c.ListSubscriptions(context.Background(), "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusForbidden || apiErr.Reason != "quotaExceeded" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestClient_SignedOutSendsNothing(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	c := NewClient(ts.URL, staticToken(""), nil, ts.Client())
	if _, err := c.ListSubscriptions(context.Background(), ""); err == nil {
		t.Fatal("expected error without token")
	}
	if called {
		t.Fatal("request must not be sent without a token")
	}
}

func TestDeleteSubscription_SendsID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/subscriptions" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("id") != "sub-9" {
			t.Fatalf("unexpected id: %s", r.URL.RawQuery)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, staticToken("tok"), nil, ts.Client())
	if err := c.DeleteSubscription(context.Background(), "sub-9"); err != nil {
		t.Fatalf("DeleteSubscription returned error: %v", err)
	}
}

func TestDeleteSubscription_RequiresID(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", staticToken("tok"), nil, nil)
	if err := c.DeleteSubscription(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty subscription id")
	}
}

func TestDeleteSubscription_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Subscription not found","errors":[{"reason":"subscriptionNotFound"}]}}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, staticToken("tok"), nil, ts.Client())
	err := c.DeleteSubscription(context.Background(), "gone")
	if err == nil || !strings.Contains(err.Error(), "Subscription not found") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInsertSubscription_SendsPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/subscriptions" || r.URL.Query().Get("part") != "snippet" {
			t.Fatalf("unexpected request: %s %s?%s", r.Method, r.URL.Path, r.URL.RawQuery)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json; charset=utf-8" {
			t.Fatalf("unexpected content-type: %s", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"snippet":{"resourceId":{"kind":"youtube#channel","channelId":"UC42"}}}` {
			t.Fatalf("unexpected body: %s", string(body))
		}
		_, _ = w.Write([]byte(`{"id":"sub-new","snippet":{"title":"Chan"}}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, staticToken("tok"), nil, ts.Client())
	id, err := c.InsertSubscription(context.Background(), "UC42")
	if err != nil {
		t.Fatalf("InsertSubscription returned error: %v", err)
	}
	if id != "sub-new" {
		t.Fatalf("unexpected subscription id: %q", id)
	}
}

func TestClient_RateLimiterHonorsContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer ts.Close()

	limiter := rate.NewLimiter(rate.Limit(0.001), 1)
	c := NewClient(ts.URL, staticToken("tok"), limiter, ts.Client())
	if _, err := c.ListSubscriptions(context.Background(), ""); err != nil {
		t.Fatalf("first call should use the burst: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.ListSubscriptions(ctx, ""); err == nil {
		t.Fatal("expected limiter wait to fail on cancelled context")
	}
}
