// Package network is the host adapter: it performs the document navigation
// and populates the mark table the timing calculator reads. It emulates the
// browser document lifecycle for plain HTTP documents; it is a stand-in for
// a real host environment, not a browser.
package network

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"navtime/timing"
)

const userAgent = "navtime"

// AddDefaultProtocol adds an https:// prefix if the protocol is missing.
func AddDefaultProtocol(s string) string {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return "https://" + s
	}
	return s
}

// CreateHTTPClient creates the HTTP client used for navigation and asset
// fetching.
func CreateHTTPClient(timeout time.Duration, insecure bool) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: insecure,
			},
			MaxIdleConnsPerHost: 100,
			MaxConnsPerHost:     100,
			IdleConnTimeout:     30 * time.Second,
		},
		Timeout: timeout,
	}
}

// Probe reports which host sources this adapter provides. It is computed
// once and injected into the calculator, which never sniffs the
// environment itself.
func Probe() timing.Capabilities {
	return timing.Capabilities{
		HasMarks:              true,
		HasNavigationMetadata: true,
		HasNativeClock:        true,
	}
}

// Options controls a navigation.
type Options struct {
	Timeout      time.Duration
	MaxRedirects int
	LoadAssets   bool
	Concurrency  int
}

func (o *Options) setDefaults() {
	if o.Timeout == 0 {
		o.Timeout = 30 * time.Second
	}
	if o.MaxRedirects == 0 {
		o.MaxRedirects = 10
	}
	if o.Concurrency == 0 {
		o.Concurrency = 8
	}
}

// Navigate fetches the document at urlArg, following redirects manually so
// each hop is observed, and records the lifecycle marks as they occur:
// network phases from the transport trace, DOM phases around the HTML parse
// and subresource loading.
func Navigate(client *http.Client, urlArg string, opts Options) (*NavigationResult, error) {
	opts.setDefaults()

	marks := timing.NewMarkTable()
	res := &NavigationResult{
		Marks:        marks,
		Capabilities: Probe(),
	}

	// Disable auto-redirect so every hop is timed individually.
	originalRedirectPolicy := client.CheckRedirect
	client.CheckRedirect = func(_ *http.Request, _ []*http.Request) error {
		return http.ErrUseLastResponse
	}
	defer func() {
		client.CheckRedirect = originalRedirectPolicy
	}()

	marks.Set(timing.NavigationStart, time.Now().UnixMilli())

	visited := make(map[string]bool)
	current := urlArg
	redirects := 0

	for depth := 0; ; depth++ {
		if visited[current] {
			return nil, fmt.Errorf("redirect loop detected at URL: %s", current)
		}
		if depth > opts.MaxRedirects {
			return nil, fmt.Errorf("max redirect depth reached (%d)", opts.MaxRedirects)
		}
		visited[current] = true

		resp, body, hop, err := fetchDocument(client, current, opts.Timeout, marks, res)
		if err != nil {
			return nil, err
		}
		res.Hops = append(res.Hops, hop)

		if resp.StatusCode >= 300 && resp.StatusCode < 400 {
			location, err := resp.Location()
			if err != nil {
				return nil, fmt.Errorf("error reading redirect location: %w", err)
			}
			if redirects == 0 {
				marks.Set(timing.RedirectStart, hop.Start.UnixMilli())
			}
			marks.Set(timing.RedirectEnd, time.Now().UnixMilli())
			redirects++
			current = location.String()
			continue
		}

		res.Response = resp
		res.ContentSize = int64(body.Len())
		finishDocument(client, resp, body, marks, res, opts)
		break
	}

	res.Navigation = timing.NavigationInfo{
		Type:          timing.NavigationTypeFromCode(0),
		RedirectCount: redirects,
	}
	return res, nil
}

// fetchDocument performs one hop of the navigation with a transport trace
// attached. The body is fully read so responseEnd reflects the complete
// transfer.
func fetchDocument(client *http.Client, urlArg string, timeout time.Duration, marks *timing.MarkTable, res *NavigationResult) (*http.Response, *bytes.Buffer, Hop, error) {
	req, err := http.NewRequest(http.MethodGet, urlArg, nil)
	if err != nil {
		return nil, nil, Hop{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	trace := markTrace(marks, res)
	ctx, cancel := context.WithTimeout(httptrace.WithClientTrace(context.Background(), trace), timeout)
	defer cancel()
	req = req.WithContext(ctx)

	hopStart := time.Now()
	marks.Set(timing.FetchStart, hopStart.UnixMilli())

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, Hop{}, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	body := new(bytes.Buffer)
	if _, err := io.Copy(body, resp.Body); err != nil {
		return nil, nil, Hop{}, fmt.Errorf("error reading response body: %w", err)
	}
	marks.Set(timing.ResponseEnd, time.Now().UnixMilli())

	res.HTTPVersion = resp.Proto
	switch {
	case resp.ProtoMajor == 2:
		res.Protocol = "HTTP/2"
	case resp.ProtoMajor == 3:
		res.Protocol = "HTTP/3"
	case resp.TLS != nil:
		res.Protocol = "HTTPS"
	default:
		res.Protocol = "HTTP"
	}

	hop := Hop{
		URL:        urlArg,
		Status:     resp.Status,
		StatusCode: resp.StatusCode,
		Start:      hopStart,
		Duration:   time.Since(hopStart),
	}
	return resp, body, hop, nil
}

// finishDocument drives the emulated DOM lifecycle after the document body
// has been received: parse, content-loaded, subresource loading, load event.
func finishDocument(client *http.Client, resp *http.Response, body *bytes.Buffer, marks *timing.MarkTable, res *NavigationResult, opts Options) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body.Bytes()))
	marks.Set(timing.DOMInteractive, time.Now().UnixMilli())
	marks.SetReadyState(timing.ReadyInteractive)

	marks.Set(timing.DOMContentLoadedEventStart, time.Now().UnixMilli())
	marks.Set(timing.DOMContentLoadedEventEnd, time.Now().UnixMilli())

	if err == nil && opts.LoadAssets && isHTML(resp) {
		res.Assets = loadAssets(client, doc, resp.Request.URL, opts.Concurrency)
	}

	marks.Set(timing.DOMComplete, time.Now().UnixMilli())
	marks.Set(timing.LoadEventStart, time.Now().UnixMilli())
	marks.Set(timing.LoadEventEnd, time.Now().UnixMilli())
	marks.SetReadyState(timing.ReadyComplete)
}

func isHTML(resp *http.Response) bool {
	return strings.Contains(resp.Header.Get("Content-Type"), "html")
}

// markTrace records the network-phase marks as the transport reports them.
// When the final hop reuses a connection the DNS/connect marks keep the
// values from the hop that actually dialed.
func markTrace(marks *timing.MarkTable, res *NavigationResult) *httptrace.ClientTrace {
	var mu sync.Mutex
	now := func() int64 { return time.Now().UnixMilli() }

	return &httptrace.ClientTrace{
		DNSStart: func(_ httptrace.DNSStartInfo) {
			mu.Lock()
			marks.Set(timing.DomainLookupStart, now())
			mu.Unlock()
		},
		DNSDone: func(_ httptrace.DNSDoneInfo) {
			mu.Lock()
			marks.Set(timing.DomainLookupEnd, now())
			mu.Unlock()
		},
		ConnectStart: func(_, _ string) {
			mu.Lock()
			marks.Set(timing.ConnectStart, now())
			mu.Unlock()
		},
		ConnectDone: func(_, _ string, err error) {
			if err != nil {
				return
			}
			mu.Lock()
			marks.Set(timing.ConnectEnd, now())
			mu.Unlock()
		},
		TLSHandshakeStart: func() {
			mu.Lock()
			marks.Set(timing.SecureConnectionStart, now())
			mu.Unlock()
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err != nil {
				return
			}
			mu.Lock()
			// connectEnd includes the TLS negotiation, matching browser
			// navigation timing.
			marks.Set(timing.ConnectEnd, now())
			res.TLSVersion = tlsVersionName(state.Version)
			res.TLSCipherSuite = tls.CipherSuiteName(state.CipherSuite)
			res.TLSResumption = state.DidResume
			mu.Unlock()
		},
		GotConn: func(info httptrace.GotConnInfo) {
			mu.Lock()
			res.ConnectionReused = info.Reused
			if info.Conn != nil {
				res.LocalAddr = info.Conn.LocalAddr().String()
				res.RemoteAddr = info.Conn.RemoteAddr().String()
			}
			mu.Unlock()
		},
		WroteHeaders: func() {
			mu.Lock()
			marks.Set(timing.RequestStart, now())
			mu.Unlock()
		},
		GotFirstResponseByte: func() {
			mu.Lock()
			marks.Set(timing.ResponseStart, now())
			marks.Set(timing.DOMLoading, now())
			mu.Unlock()
		},
	}
}

func tlsVersionName(version uint16) string {
	switch version {
	case tls.VersionTLS10:
		return "TLS 1.0"
	case tls.VersionTLS11:
		return "TLS 1.1"
	case tls.VersionTLS12:
		return "TLS 1.2"
	case tls.VersionTLS13:
		return "TLS 1.3"
	default:
		return fmt.Sprintf("Unknown (0x%04x)", version)
	}
}
