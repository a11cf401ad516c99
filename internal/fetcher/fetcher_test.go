package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchStripsNoiseElements(t *testing.T) {
	page := `<html><head><title>Terms</title><script>var x=1;</script><style>body{}</style></head>
<body>
<nav>Home About</nav>
<header>Site header</header>
<p>We collect your email.</p>
<button>Accept</button>
<footer>Copyright</footer>
</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Mozilla/5.0") {
			t.Errorf("expected browser-like User-Agent, got %q", ua)
		}
		w.Write([]byte(page))
	}))
	defer srv.Close()

	text, err := New().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(text, "We collect your email.") {
		t.Fatalf("expected body text, got %q", text)
	}
	for _, noise := range []string{"var x=1", "Home About", "Site header", "Accept", "Copyright"} {
		if strings.Contains(text, noise) {
			t.Fatalf("expected %q to be stripped, got %q", noise, text)
		}
	}
}

func TestFetchTruncatesToMaxLen(t *testing.T) {
	long := strings.Repeat("terms and conditions apply ", 2000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>" + long + "</p></body></html>"))
	}))
	defer srv.Close()

	text, err := New().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(text) > MaxTextLen {
		t.Fatalf("expected at most %d chars, got %d", MaxTextLen, len(text))
	}
}

func TestFetchNormalizesWhitespace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>  first  second  </p>\n\n<p>third</p></body></html>"))
	}))
	defer srv.Close()

	text, err := New().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if text != "first\nsecond\nthird" {
		t.Fatalf("expected normalized text, got %q", text)
	}
}

func TestFetchNon2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New().Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 403 status")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if !strings.Contains(fetchErr.Message, "403") {
		t.Fatalf("expected status in message, got %q", fetchErr.Message)
	}
}

func TestFetchNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := New().Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
}
