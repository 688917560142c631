package wolfram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/asymptotica/majorant/internal/cache"
	"github.com/asymptotica/majorant/internal/model"
	"github.com/asymptotica/majorant/internal/oracle"
)

func remoteClient(t *testing.T, handler http.HandlerFunc, c cache.Cache) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{
		Transport: model.TransportRemote,
		Endpoint:  server.URL,
		Timeout:   5 * time.Second,
		Cache:     c,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client, server
}

func TestResolveForAll_Remote(t *testing.T) {
	tests := []struct {
		body string
		want oracle.Truth
	}{
		{"True\n", oracle.True},
		{"False", oracle.False},
		{"Resolve[ForAll[{x}, x <= y], Reals]", oracle.Unknown},
	}
	for _, tt := range tests {
		client, _ := remoteClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if err := r.ParseForm(); err != nil {
				t.Fatal(err)
			}
			if r.PostForm.Get("code") == "" {
				t.Error("missing code form field")
			}
			_, _ = w.Write([]byte(tt.body))
		}, nil)

		got, err := client.ResolveForAll(context.Background(), "x <= y")
		if err != nil {
			t.Fatalf("ResolveForAll: %v", err)
		}
		if got != tt.want {
			t.Errorf("ResolveForAll with body %q = %s, want %s", tt.body, got, tt.want)
		}
	}
}

func TestResolveForAll_TransportError(t *testing.T) {
	client, _ := remoteClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, nil)

	got, err := client.ResolveForAll(context.Background(), "x <= y")
	if err == nil {
		t.Fatal("expected transport error")
	}
	var te *oracle.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error type %T", err)
	}
	if got != oracle.Unknown {
		t.Errorf("failed call must report Unknown, got %s", got)
	}
}

func TestEvaluateJSON_Remote(t *testing.T) {
	client, _ := remoteClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Logs":["Formula: 1/d^4","Subdomain 1: d > 1"],"Result":true}`))
	}, nil)

	packet, err := client.EvaluateJSON(context.Background(), "calculateEstimates[...]")
	if err != nil {
		t.Fatal(err)
	}
	if !packet.AllTrue() {
		t.Error("expected certified packet")
	}
	want := []string{"Formula: 1/d^4", "Subdomain 1: d > 1"}
	if !reflect.DeepEqual(packet.Logs, want) {
		t.Errorf("logs = %v, want %v", packet.Logs, want)
	}
}

func TestEvaluateJSON_BadPayload(t *testing.T) {
	client, _ := remoteClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Out[1]= not json"))
	}, nil)

	_, err := client.EvaluateJSON(context.Background(), "whatever")
	var te *oracle.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestEval_CachesSuccessfulOutputs(t *testing.T) {
	var calls int32
	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	client, _ := remoteClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte("True"))
	}, mem)

	for i := 0; i < 3; i++ {
		if _, err := client.ResolveForAll(context.Background(), "x <= x"); err != nil {
			t.Fatal(err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 upstream call, got %d", got)
	}

	// A different script must miss the cache.
	if _, err := client.ResolveForAll(context.Background(), "x <= 2*x"); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 upstream calls, got %d", got)
	}
}

func TestNew_ConstructionErrors(t *testing.T) {
	if _, err := New(Config{Transport: model.TransportRemote}); err == nil {
		t.Error("remote transport without endpoint must fail")
	}
	if _, err := New(Config{Transport: model.TransportLocal, WolframScript: "/nonexistent/wolframscript"}); err == nil {
		t.Error("missing binary must fail construction")
	}
	if _, err := New(Config{Transport: "carrier-pigeon"}); err == nil {
		t.Error("unknown transport must fail")
	}
}

func TestCleanEnv(t *testing.T) {
	in := []string{"PATH=/usr/bin", "DYLD_LIBRARY_PATH=/bad", "HOME=/root", "DYLD_INSERT_LIBRARIES=x"}
	want := []string{"PATH=/usr/bin", "HOME=/root"}
	if got := cleanEnv(in); !reflect.DeepEqual(got, want) {
		t.Errorf("cleanEnv = %v, want %v", got, want)
	}
}
