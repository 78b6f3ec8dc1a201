package refresher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

type fetcher struct {
	httpClient http.Client
	url        string
}

func newFetcher(url string, timeout time.Duration) *fetcher {
	return &fetcher{
		httpClient: http.Client{
			Timeout: timeout,
		},
		url: url,
	}
}

// fetch downloads the upstream payload. Any status outside 2xx aborts the run.
func (f *fetcher) fetch(ctx context.Context) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	request.Header.Set("User-Agent", userAgent)
	request.Header.Set("Accept", "application/json")

	response, err := f.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch dataset: %s", response.Status)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
