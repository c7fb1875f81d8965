// Package network provides the shared HTTP client and small fetch helpers
// used by the extractors and the subtitle downloader.
package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const userAgent = "yle-dl/3.0 (+https://github.com/ElijahAhianyo/yle-dl)"

// Client is the HTTP client shared across the application.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 20
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	return t
}

// FetchPage downloads url and returns the response body as a string. The
// optional headers are added to the request.
func FetchPage(ctx context.Context, url string, headers map[string]string) (string, error) {
	body, err := fetch(ctx, url, headers)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchBytes downloads url and returns the raw response body.
func FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return fetch(ctx, url, nil)
}

func fetch(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
