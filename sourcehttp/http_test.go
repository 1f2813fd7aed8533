package sourcehttp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configmgmt "github.com/plasne/config-mgmt"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestSource_Lookup(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/kv", r.URL.Path)
		assert.Equal(t, "/myapp/*", r.URL.Query().Get("key"))
		assert.Equal(t, "dev", r.URL.Query().Get("label"))
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

		writeJSON(w, page{Items: []Setting{
			{Key: "/myapp/HOST", Label: "dev", Value: "db.local"},
			{Key: "/myapp/KEY_IN_VAULT", Label: "dev", Value: `{"uri":"arn:aws:secretsmanager:us-east-1:123456789012:secret:app"}`},
			{Key: "/myapp/EMPTY", Label: "dev", Value: "  "},
			{Key: "/myapp/JSON", Label: "dev", Value: `{"name":"x"}`},
		}})
	})

	src := New(Options{
		Endpoint:  srv.URL,
		KeyFilter: "/myapp/*",
		Label:     "dev",
		Token:     "secret-token",
	})

	tests := []struct {
		key      string
		expected string
	}{
		{"/myapp/HOST", "db.local"},
		{"/MYAPP/host", "db.local"},
		{"HOST", "db.local"},
		{"KEY_IN_VAULT", "arn:aws:secretsmanager:us-east-1:123456789012:secret:app"},
		{"json", `{"name":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := src.Lookup(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := src.Lookup("EMPTY")
	assert.ErrorIs(t, err, configmgmt.ErrNotFound, "blank settings are dropped")

	_, err = src.Lookup("MISSING")
	assert.ErrorIs(t, err, configmgmt.ErrNotFound)

	_, err = src.Lookup("")
	assert.ErrorIs(t, err, configmgmt.ErrEmptyKey)

	assert.Equal(t, int32(1), calls.Load(), "settings are fetched once")
}

func TestSource_FollowsNextLink(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("after") == "" {
			writeJSON(w, page{
				Items:    []Setting{{Key: "first", Value: "1"}},
				NextLink: "/kv?after=first",
			})
			return
		}
		writeJSON(w, page{Items: []Setting{{Key: "second", Value: "2"}}})
	})

	src := New(Options{Endpoint: srv.URL})

	settings, err := src.Settings()
	require.NoError(t, err)
	require.Len(t, settings, 2)
	assert.Equal(t, "first", settings[0].Key)
	assert.Equal(t, "second", settings[1].Key)

	got, err := src.Lookup("second")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

func TestSource_FullKeyBeatsLastSegment(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, page{Items: []Setting{
			{Key: "/other/PORT", Value: "1"},
			{Key: "PORT", Value: "2"},
		}})
	})

	got, err := New(Options{Endpoint: srv.URL}).Lookup("port")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

func TestSource_ServerError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	src := New(Options{Endpoint: srv.URL})
	_, err := src.Lookup("HOST")
	require.Error(t, err)
	assert.NotErrorIs(t, err, configmgmt.ErrNotFound)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestSource_RetriesAfterFailedLoad(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, page{Items: []Setting{{Key: "A", Value: "1"}}})
	})

	src := New(Options{Endpoint: srv.URL})

	_, err := src.Lookup("A")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")

	got, err := src.Lookup("A")
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	_, err = src.Lookup("A")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "a successful download is kept")
}

func TestSource_SharedClient(t *testing.T) {
	a := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-a", r.Header.Get("Authorization"))
		writeJSON(w, page{Items: []Setting{{Key: "A", Value: "from-a"}}})
	})
	b := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-b", r.Header.Get("Authorization"))
		writeJSON(w, page{Items: []Setting{{Key: "A", Value: "from-b"}}})
	})

	shared := resty.New()
	srcA := New(Options{Endpoint: a.URL, Token: "token-a", Client: shared})
	srcB := New(Options{Endpoint: b.URL, Token: "token-b", Client: shared})

	got, err := srcA.Lookup("A")
	require.NoError(t, err)
	assert.Equal(t, "from-a", got)

	got, err = srcB.Lookup("A")
	require.NoError(t, err)
	assert.Equal(t, "from-b", got)

	assert.Empty(t, shared.BaseURL, "the caller's client is left untouched")
	assert.Empty(t, shared.Token)
}

func TestSource_NextLinkLoop(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, page{
			Items:    []Setting{{Key: "A", Value: "1"}},
			NextLink: "/kv?after=a",
		})
	})

	_, err := New(Options{Endpoint: srv.URL}).Settings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loops back")
	assert.Equal(t, int32(2), calls.Load())
}

func TestSource_EmptyEndpoint(t *testing.T) {
	_, err := New(Options{}).Lookup("HOST")
	assert.Error(t, err)
}

func TestSource_Name(t *testing.T) {
	assert.Equal(t, "http:settings.example.com", New(Options{Endpoint: "https://settings.example.com"}).Name())
	assert.Equal(t, "http", New(Options{}).Name())
}

func TestUnwrapReference(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`{"uri":"s3://bucket/key"}`, "s3://bucket/key"},
		{` {"uri": "https://vault/secrets/a"} `, "https://vault/secrets/a"},
		{`{"uri": 5}`, `{"uri": 5}`},
		{`{not json}`, `{not json}`},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, unwrapReference(tt.input), tt.input)
	}
}

func TestSource_UsableAsRegistrySource(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, page{Items: []Setting{{Key: "/myapp/WORKERS", Value: "4"}}})
	})

	reg := configmgmt.NewRegistry().WithSource(New(Options{Endpoint: srv.URL}))
	workers := reg.AsInteger("WORKERS").Fetch()

	assert.Equal(t, 4, workers.Value())
	assert.Equal(t, "http:"+srv.Listener.Addr().String(), workers.Provenance().SourceName)
}
