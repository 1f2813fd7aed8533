package sourcehttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	configmgmt "github.com/plasne/config-mgmt"
	"github.com/plasne/config-mgmt/internal/normalize"
)

// DefaultTimeout bounds the whole settings download.
const DefaultTimeout = 30 * time.Second

// MaxPages caps how many "@nextLink" pages one download follows.
const MaxPages = 1000

// Options configures the remote settings source.
type Options struct {
	// Endpoint is the service base URL (e.g., "https://settings.example.com").
	Endpoint string

	// KeyFilter selects settings by key (e.g., "/myapp/*"). Empty selects all.
	KeyFilter string

	// Label selects a labelled variant of each setting (e.g., "dev"). Empty selects the default.
	Label string

	// Token is sent as a bearer token when set.
	Token string

	// Timeout bounds the download, including retries. Default: DefaultTimeout.
	Timeout time.Duration

	// RetryCount retries failed requests. Default: 0.
	RetryCount int

	// Logger receives debug timing lines. Nil disables logging.
	Logger *zerolog.Logger

	// Client overrides the HTTP client, e.g. to share transport settings.
	// The source configures its own clone; the client itself is not modified.
	Client *resty.Client
}

// Setting is one key-value pair returned by the service.
type Setting struct {
	Key         string `json:"key"`
	Label       string `json:"label,omitempty"`
	Value       string `json:"value"`
	ContentType string `json:"content_type,omitempty"`
}

type page struct {
	Items    []Setting `json:"items"`
	NextLink string    `json:"@nextLink,omitempty"`
}

// Source is a remote settings source. Settings are downloaded once; a failed
// download is retried on the next lookup.
type Source struct {
	opts   Options
	client *resty.Client
	logger zerolog.Logger

	mu       sync.Mutex
	loaded   bool
	settings []Setting // Fetch order, blank values removed
}

// New creates a remote settings source. Nothing is fetched until the first lookup.
func New(opts Options) *Source {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	var client *resty.Client
	if opts.Client != nil {
		client = opts.Client.Clone()
	} else {
		client = resty.New()
	}
	client.SetBaseURL(strings.TrimRight(opts.Endpoint, "/")).
		SetRetryCount(opts.RetryCount)
	if opts.Token != "" {
		client.SetAuthToken(opts.Token)
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Source{
		opts:   opts,
		client: client,
		logger: logger,
	}
}

// Lookup returns the setting whose full key, or else last key segment, equals key.
func (s *Source) Lookup(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", configmgmt.ErrEmptyKey
	}

	settings, err := s.Settings()
	if err != nil {
		return "", err
	}

	for _, setting := range settings {
		if strings.EqualFold(setting.Key, key) {
			return setting.Value, nil
		}
	}
	for _, setting := range settings {
		if strings.EqualFold(normalize.LastSegment(setting.Key), key) {
			return setting.Value, nil
		}
	}

	return "", fmt.Errorf("%s %s: %w", s.Name(), key, configmgmt.ErrNotFound)
}

// Name implements configmgmt.Source.
func (s *Source) Name() string {
	if u, err := url.Parse(s.opts.Endpoint); err == nil && u.Host != "" {
		return "http:" + u.Host
	}
	return "http"
}

// Settings returns the downloaded settings, fetching them until one download succeeds.
func (s *Source) Settings() ([]Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.settings, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.Timeout)
	defer cancel()
	settings, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.settings, s.loaded = settings, true
	return s.settings, nil
}

func (s *Source) fetch(ctx context.Context) ([]Setting, error) {
	if s.opts.Endpoint == "" {
		return nil, errors.New("sourcehttp: endpoint is empty")
	}

	start := time.Now()
	s.logger.Debug().Str("endpoint", s.opts.Endpoint).Msg("getting settings")

	var settings []Setting
	next := "/kv"
	query := map[string]string{}
	if s.opts.KeyFilter != "" {
		query["key"] = s.opts.KeyFilter
	}
	if s.opts.Label != "" {
		query["label"] = s.opts.Label
	}

	visited := map[string]bool{}
	for next != "" {
		if visited[next] {
			return nil, fmt.Errorf("get settings from %s: paging loops back to %s", s.opts.Endpoint, next)
		}
		if len(visited) >= MaxPages {
			return nil, fmt.Errorf("get settings from %s: more than %d pages", s.opts.Endpoint, MaxPages)
		}
		visited[next] = true

		var p page
		req := s.client.R().SetContext(ctx).SetResult(&p)
		if query != nil {
			req.SetQueryParams(query)
		}
		resp, err := req.Get(next)
		if err != nil {
			return nil, fmt.Errorf("get settings from %s: %w", s.opts.Endpoint, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("get settings from %s: unexpected status %s", s.opts.Endpoint, resp.Status())
		}

		for _, item := range p.Items {
			if strings.TrimSpace(item.Value) == "" {
				continue
			}
			item.Value = unwrapReference(item.Value)
			settings = append(settings, item)
		}

		// nextLink already carries the filters
		next = p.NextLink
		query = nil
	}

	keys := make([]string, len(settings))
	for i, setting := range settings {
		keys[i] = setting.Key
	}
	s.logger.Debug().
		Str("endpoint", s.opts.Endpoint).
		Int("count", len(settings)).
		Dur("elapsed", time.Since(start)).
		Strs("keys", keys).
		Msg("got settings")

	return settings, nil
}

// unwrapReference returns the uri of values shaped like {"uri": "..."}, otherwise value.
func unwrapReference(value string) string {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return value
	}

	var ref map[string]any
	if err := json.Unmarshal([]byte(trimmed), &ref); err != nil {
		return value
	}
	if uri, ok := ref["uri"].(string); ok && uri != "" {
		return uri
	}
	return value
}
