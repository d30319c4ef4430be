package geocoder

import (
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

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
)

// ErrNoMatch is returned by HTTPGeocoder when the provider knows nothing about
// the query. Callers treat it as Unresolved.
var ErrNoMatch = errors.New("geocoder: no match")

// Config describes a Nominatim-compatible provider.
type Config struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
}

// HTTPGeocoder talks to a Nominatim-compatible JSON API.
type HTTPGeocoder struct {
	cfg    Config
	client *http.Client
}

// NewHTTPGeocoder builds a geocoder. A nil client gets one bounded by cfg.Timeout.
func NewHTTPGeocoder(cfg Config, client *http.Client) *HTTPGeocoder {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &HTTPGeocoder{cfg: cfg, client: client}
}

type searchHit struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

type reverseHit struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// Search resolves a free-form address to coordinates.
func (g *HTTPGeocoder) Search(ctx context.Context, address string) (domain.Coordinates, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	var hits []searchHit
	if err := g.get(ctx, "/search", q, &hits); err != nil {
		return domain.Coordinates{}, err
	}
	if len(hits) == 0 {
		return domain.Coordinates{}, ErrNoMatch
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocoder: bad lat %q: %w", hits[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocoder: bad lon %q: %w", hits[0].Lon, err)
	}
	c := domain.Coordinates{Lat: lat, Lon: lon}
	if !c.Valid() {
		return domain.Coordinates{}, ErrNoMatch
	}
	return c, nil
}

// Reverse returns a display address for a point.
func (g *HTTPGeocoder) Reverse(ctx context.Context, c domain.Coordinates) (string, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.Lon, 'f', -1, 64))
	q.Set("format", "json")

	var hit reverseHit
	if err := g.get(ctx, "/reverse", q, &hit); err != nil {
		return "", err
	}
	if hit.Error != "" || strings.TrimSpace(hit.DisplayName) == "" {
		return "", ErrNoMatch
	}
	return hit.DisplayName, nil
}

func (g *HTTPGeocoder) get(ctx context.Context, path string, q url.Values, out any) error {
	if g.cfg.APIKey != "" {
		q.Set("key", g.cfg.APIKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("geocoder: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if g.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", g.cfg.UserAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return apperr.Transient(fmt.Errorf("geocoder: %s: %w", path, err))
	}
	defer resp.Body.Close()

	if err := classify(resp.StatusCode); err != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("geocoder: %s: %w", path, err)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("geocoder: decode %s: %w", path, err)
	}
	return nil
}

func classify(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", apperr.ErrGeocoderAuth, code)
	case code == http.StatusNotFound:
		return ErrNoMatch
	case code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= 500:
		return apperr.Transient(fmt.Errorf("status %d", code))
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}
