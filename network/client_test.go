package network

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"navtime/timing"
)

func TestNavigatePopulatesMarks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><head></head><body>hello</body></html>")
	}))
	defer srv.Close()

	res, err := Navigate(srv.Client(), srv.URL, Options{})
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	if res.Marks.ReadyState() != timing.ReadyComplete {
		t.Errorf("ready state = %q, want %q", res.Marks.ReadyState(), timing.ReadyComplete)
	}

	// Every lifecycle mark of the navigation itself must be captured, in
	// order.
	ordered := []timing.Mark{
		timing.NavigationStart,
		timing.FetchStart,
		timing.ResponseStart,
		timing.ResponseEnd,
		timing.DOMInteractive,
		timing.DOMComplete,
		timing.LoadEventEnd,
	}
	prev := int64(0)
	for _, m := range ordered {
		v := res.Marks.MarkValue(m)
		if v == 0 {
			t.Errorf("mark %q not captured", m)
			continue
		}
		if v < prev {
			t.Errorf("mark %q (%d) out of order, previous was %d", m, v, prev)
		}
		prev = v
	}

	if res.Navigation.Type != timing.Navigate {
		t.Errorf("navigation type = %v, want %v", res.Navigation.Type, timing.Navigate)
	}
	if res.Navigation.RedirectCount != 0 {
		t.Errorf("redirect count = %d, want 0", res.Navigation.RedirectCount)
	}
	if res.ContentSize == 0 {
		t.Error("content size not recorded")
	}
}

func TestNavigateFeedsCalculator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body>ok</body></html>")
	}))
	defer srv.Close()

	res, err := Navigate(srv.Client(), srv.URL, Options{})
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	c := timing.New(res.Marks, nil, res.Capabilities, timing.WithNavigation(res.Navigation))

	if !c.Ready() {
		t.Error("calculator should report the document ready")
	}
	if v, ok := c.NetworkTime(); !ok || v < 0 {
		t.Errorf("network time = %v (ok=%v), want available and non-negative", v, ok)
	}
	if v, ok := c.TotalPageTime(); !ok || v < 0 {
		t.Errorf("total page time = %v (ok=%v), want available and non-negative", v, ok)
	}

	// Plain-HTTP navigation: no TLS handshake, so the TLS metric must be
	// not available rather than zero.
	if _, ok := c.TLSTime(); ok {
		t.Error("tls negotiation time should be unavailable over cleartext")
	}

	// No redirect occurred.
	if _, ok := c.RedirectTime(); ok {
		t.Error("redirect time should be unavailable without redirects")
	}
}

func TestNavigateCountsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusFound)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body>done</body></html>")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res, err := Navigate(srv.Client(), srv.URL+"/start", Options{})
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	if res.Navigation.RedirectCount != 1 {
		t.Errorf("redirect count = %d, want 1", res.Navigation.RedirectCount)
	}
	if len(res.Hops) != 2 {
		t.Errorf("hops = %d, want 2", len(res.Hops))
	}

	c := timing.New(res.Marks, nil, res.Capabilities)
	if v, ok := c.RedirectTime(); !ok || v < 0 {
		t.Errorf("redirect time = %v (ok=%v), want available and non-negative", v, ok)
	}
}

func TestNavigateDetectsRedirectLoop(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := Navigate(srv.Client(), srv.URL+"/loop", Options{})
	if err == nil {
		t.Fatal("expected a redirect loop error")
	}
	if !strings.Contains(err.Error(), "redirect loop") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNavigateLoadsAssets(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head>
			<link rel="stylesheet" href="/style.css">
			<script src="/app.js"></script>
		</head><body><img src="/logo.png"></body></html>`)
	})
	mux.HandleFunc("/style.css", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "body{}")
	})
	mux.HandleFunc("/app.js", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "void 0")
	})
	mux.HandleFunc("/logo.png", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "png")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res, err := Navigate(srv.Client(), srv.URL, Options{LoadAssets: true})
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	if res.Assets.Count != 3 {
		t.Errorf("asset count = %d, want 3", res.Assets.Count)
	}
	if res.Assets.TotalBytes == 0 {
		t.Error("asset bytes not accumulated")
	}
	if res.Assets.Failed != 0 {
		t.Errorf("asset failures = %d, want 0", res.Assets.Failed)
	}

	// domComplete must come after the assets were loaded, never before
	// domInteractive.
	if res.Marks.MarkValue(timing.DOMComplete) < res.Marks.MarkValue(timing.DOMInteractive) {
		t.Error("domComplete precedes domInteractive")
	}
}

func TestAddDefaultProtocol(t *testing.T) {
	cases := map[string]string{
		"example.com":         "https://example.com",
		"http://example.com":  "http://example.com",
		"https://example.com": "https://example.com",
	}
	for in, want := range cases {
		if got := AddDefaultProtocol(in); got != want {
			t.Errorf("AddDefaultProtocol(%q) = %q, want %q", in, got, want)
		}
	}
}
