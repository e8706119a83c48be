package sessionize

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"conferencescheduler/internal/domain"
)

// DefaultBaseURL is the public Sessionize API root.
const DefaultBaseURL = "https://sessionize.com/api/v2"

// maxBody caps how much of a response is decoded.
const maxBody = 16 << 20

type httpFetcher struct {
	client  *http.Client
	baseURL string
}

// NewHTTPFetcher returns a fetcher for the "All" view of a Sessionize event.
// An empty baseURL means DefaultBaseURL.
func NewHTTPFetcher(client *http.Client, baseURL string) domain.SessionFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &httpFetcher{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (f *httpFetcher) Fetch(ctx context.Context, sessionizeID string) (domain.SessionFeed, error) {
	if strings.TrimSpace(sessionizeID) == "" {
		return domain.SessionFeed{}, fmt.Errorf("sessionize id is required: %w", domain.ErrInvalidInput)
	}
	endpoint := fmt.Sprintf("%s/%s/view/All", f.baseURL, url.PathEscape(sessionizeID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.SessionFeed{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.client.Do(req)
	if err != nil {
		return domain.SessionFeed{}, fmt.Errorf("failed to fetch from sessionize: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.SessionFeed{}, fmt.Errorf("sessionize event %q: %w", sessionizeID, domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return domain.SessionFeed{}, fmt.Errorf("sessionize api returned status: %d", resp.StatusCode)
	}

	var feed domain.SessionFeed
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&feed); err != nil {
		return domain.SessionFeed{}, fmt.Errorf("failed to decode sessionize response: %w", err)
	}
	return feed, nil
}
