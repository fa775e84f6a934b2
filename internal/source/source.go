// Package source loads the poem collection text from a file or URL
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultLocation is used when no source is configured
const DefaultLocation = "poemas.txt"

// MaxSize bounds how much text is read from a source
const MaxSize = 16 << 20

// ErrUnavailable wraps every failure to obtain the collection text
var ErrUnavailable = errors.New("poem source unavailable")

// Source is the raw collection text and where it came from
type Source struct {
	Location string
	Text     string
	Size     int64
	LoadedAt time.Time
}

// ErrTooLarge is returned for sources over the loader's limit
var ErrTooLarge = errors.New("poem source too large")

// Loader fetches collection text. The zero value is usable.
type Loader struct {
	httpClient *http.Client

	// Limit bounds the source size in bytes; zero means MaxSize
	Limit int64
}

// NewLoader creates a loader with the given HTTP timeout
func NewLoader(timeout time.Duration) *Loader {
	return &Loader{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// IsRemote reports whether location is fetched over HTTP
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Load reads location, which is a filesystem path or an http(s) URL
func (l *Loader) Load(ctx context.Context, location string) (*Source, error) {
	if location == "" {
		location = DefaultLocation
	}

	var (
		text string
		err  error
	)
	if IsRemote(location) {
		text, err = l.fetch(ctx, location)
	} else {
		text, err = l.readFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, location, err)
	}

	return &Source{
		Location: location,
		Text:     text,
		Size:     int64(len(text)),
		LoadedAt: time.Now(),
	}, nil
}

func (l *Loader) limit() int64 {
	if l.Limit > 0 {
		return l.Limit
	}
	return MaxSize
}

// readAll reads r whole, failing rather than truncating past the limit
func (l *Loader) readAll(r io.Reader) (string, error) {
	limit := l.limit()
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%w: over %d bytes", ErrTooLarge, limit)
	}
	return string(data), nil
}

func (l *Loader) readFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("is a directory")
	}

	return l.readAll(f)
}

func (l *Loader) fetch(ctx context.Context, url string) (string, error) {
	client := l.httpClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return l.readAll(resp.Body)
}
