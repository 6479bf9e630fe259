package pokeapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kapu/pokedex-catalog-go/pkg/errors"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL+"/api/v2/", time.Second, zap.NewNop())
}

func TestListResourceSendsPaging(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/pokemon" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("expected limit=50, got %s", got)
		}
		if got := r.URL.Query().Get("offset"); got != "100" {
			t.Errorf("expected offset=100, got %s", got)
		}
		fmt.Fprint(w, `{"count":1302,"results":[{"name":"bulbasaur","url":"https://pokeapi.co/api/v2/pokemon/1/"}]}`)
	})

	list, err := client.ListResource(context.Background(), 50, 100)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if list.Count != 1302 || len(list.Results) != 1 || list.Results[0].Name != "bulbasaur" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestGetResourceDecodesRecord(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/pokemon/charmander" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"id":4,"name":"charmander","height":6,"weight":85,
			"types":[{"slot":1,"type":{"name":"fire","url":""}}],
			"stats":[{"base_stat":60,"stat":{"name":"special-attack"}}],
			"abilities":[{"ability":{"name":"blaze"}}],
			"sprites":{"front_default":"x"},
			"species":{"name":"charmander","url":"https://pokeapi.co/api/v2/pokemon-species/4/"}}`)
	})

	raw, err := client.GetResource(context.Background(), "charmander")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if raw.ID != 4 || raw.Height != 6 || raw.Stats[0].Stat.Name != "special-attack" || raw.Sprites["front_default"] != "x" {
		t.Fatalf("unexpected record %+v", raw)
	}
}

func TestGetByURLResolvesRelativeAndAbsolute(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		fmt.Fprint(w, `{"id":1,"name":"bulbasaur"}`)
	})

	var species RawSpecies
	if err := client.GetByURL(context.Background(), srv.URL+"/api/v2/pokemon-species/1/", &species); err != nil {
		t.Fatalf("absolute: %v", err)
	}
	if err := client.GetByURL(context.Background(), "/pokemon-species/1/", &species); err != nil {
		t.Fatalf("relative: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 2 || paths[0] != "/api/v2/pokemon-species/1/" || paths[1] != "/api/v2/pokemon-species/1/" {
		t.Fatalf("unexpected paths %v", paths)
	}
}

func TestHTTPErrorStatusIsAPIError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	_, err := client.GetResource(context.Background(), "missingno")
	var apiErr *errors.APIError
	if !stderrors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound || !errors.IsNotFound(err) {
		t.Fatalf("expected 404, got %d", apiErr.StatusCode)
	}
}

func TestTimeoutIsTransportError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client := NewClient(srv.URL, 50*time.Millisecond, zap.NewNop())
	_, err := client.GetResource(context.Background(), "1")

	var transportErr *errors.TransportError
	if !stderrors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %T %v", err, err)
	}
	if errors.IsNotFound(err) {
		t.Fatalf("timeout must not look like not-found")
	}
}

func TestMalformedRequestIsRequestError(t *testing.T) {
	client := NewClient("http://bad host", time.Second, zap.NewNop())
	_, err := client.GetResource(context.Background(), "1")

	var requestErr *errors.RequestError
	if !stderrors.As(err, &requestErr) {
		t.Fatalf("expected RequestError, got %T %v", err, err)
	}
}

func TestMalformedPayloadIsValidationError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"not-a-number"`)
	})

	_, err := client.GetResource(context.Background(), "1")
	var validationErr *errors.ValidationError
	if !stderrors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T %v", err, err)
	}
}

func TestServerErrorsOpenCircuitWithoutRetrying(t *testing.T) {
	var hits atomic.Int32
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 5; i++ {
		if _, err := client.GetResource(context.Background(), "1"); err == nil {
			t.Fatalf("expected error on attempt %d", i)
		}
	}
	if got := hits.Load(); got != 5 {
		t.Fatalf("expected one request per call (no retries), got %d", got)
	}
	if !client.IsCircuitOpen() {
		t.Fatalf("expected circuit to be open")
	}

	_, err := client.GetResource(context.Background(), "1")
	if err == nil || !strings.Contains(err.Error(), "Circuit breaker open") {
		t.Fatalf("expected fail-fast error, got %v", err)
	}
	if got := hits.Load(); got != 5 {
		t.Fatalf("expected no request while open, got %d", got)
	}
}
