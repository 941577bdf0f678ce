package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chart-lyrics-go/internal/config"
	"chart-lyrics-go/internal/logger"
	"github.com/cenkalti/backoff/v4"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) chart-lyrics-go/1.0"

var ErrUnauthorized = errors.New("genius rejected access token")

// StatusError is a non-2xx response from Genius.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("genius http %d: %s", e.Code, e.Body)
}

type searchResponse struct {
	Meta struct {
		Status  int    `json:"status"`
		Message string `json:"message,omitempty"`
	} `json:"meta"`
	Response struct {
		Hits []searchHit `json:"hits"`
	} `json:"response"`
}

type searchHit struct {
	Type   string     `json:"type"`
	Result songResult `json:"result"`
}

type songResult struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	PrimaryArtist struct {
		Name string `json:"name"`
	} `json:"primary_artist"`
}

// GeniusClient is an authenticated handle to the Genius API. Build it once
// and reuse it for the whole run.
type GeniusClient struct {
	baseURL      string
	token        string
	httpClient   *http.Client
	pingMaxRetry time.Duration
	log          *logger.Logger
}

func NewGeniusClient(cfg config.Config, log *logger.Logger) *GeniusClient {
	return &GeniusClient{
		baseURL:      strings.TrimRight(cfg.GeniusAPIURL, "/"),
		token:        cfg.GeniusToken,
		httpClient:   &http.Client{Timeout: cfg.GeniusHTTPTimeout},
		pingMaxRetry: cfg.GeniusPingMaxRetry,
		log:          logger.Or(log).WithComponent("lyrics.genius"),
	}
}

// Ping checks the token once, after the input is known to be readable and
// before the first lookup. Network errors and 5xx
// are retried with exponential backoff; an auth rejection is final.
func (c *GeniusClient) Ping(ctx context.Context) error {
	op := func() error {
		_, err := c.search(ctx, "genius")
		if err == nil {
			return nil
		}
		var se *StatusError
		if errors.As(err, &se) && se.Code < 500 {
			if se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden {
				return backoff.Permanent(fmt.Errorf("%w: %v", ErrUnauthorized, err))
			}
			return backoff.Permanent(err)
		}
		c.log.WithError(err).Warn("genius ping failed")
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.pingMaxRetry

	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("genius ping: %w", err)
	}
	c.log.Info("genius token accepted")
	return nil
}

// Search looks up title by artist: one search request, then one page fetch
// for the best matching hit. No retries.
func (c *GeniusClient) Search(ctx context.Context, title, artist string) Outcome {
	hits, err := c.search(ctx, strings.TrimSpace(title+" "+artist))
	if err != nil {
		return Failure(fmt.Errorf("search: %w", err))
	}

	song, ok := bestHit(hits, title, artist)
	if !ok {
		c.log.WithField("title", title).WithField("artist", artist).WithField("hits", len(hits)).Debug("no matching hit")
		return Missing()
	}

	text, err := c.fetchLyrics(ctx, song.URL)
	if err != nil {
		return Failure(fmt.Errorf("lyrics page %s: %w", song.URL, err))
	}
	if text == "" {
		// instrumentals and unreleased tracks have an empty container
		return Missing()
	}
	return FoundText(text)
}

func (c *GeniusClient) search(ctx context.Context, query string) ([]searchHit, error) {
	u, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	var resp searchResponse
	if err := c.doJSON(req, &resp); err != nil {
		return nil, err
	}
	return resp.Response.Hits, nil
}

func (c *GeniusClient) fetchLyrics(ctx context.Context, pageURL string) (string, error) {
	if pageURL == "" {
		return "", errors.New("hit has no url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &StatusError{Code: resp.StatusCode, Body: string(b)}
	}
	return extractLyrics(resp.Body)
}

func (c *GeniusClient) doJSON(req *http.Request, target interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= 300 {
		if len(body) > 512 {
			body = body[:512]
		}
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	if len(body) == 0 {
		return fmt.Errorf("empty body")
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("json decode error: %w", err)
	}
	return nil
}
