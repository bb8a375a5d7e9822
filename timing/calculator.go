package timing

import "fmt"

// Capabilities describes which host sources are available. It is computed
// once by the host adapter and injected; the calculator never probes the
// environment itself.
type Capabilities struct {
	HasMarks              bool
	HasNavigationMetadata bool
	HasNativeClock        bool
}

// DiagnosticFunc receives advisory warnings. Diagnostics never affect
// returned values or control flow.
type DiagnosticFunc func(msg string)

// Calculator computes named durations from a host-owned mark table. It is
// stateless apart from diagnostic bookkeeping: every interval is recomputed
// on demand so results always reflect the table's current values.
type Calculator struct {
	marks MarkSource
	clock Clock
	caps  Capabilities
	nav   NavigationInfo
	warn  DiagnosticFunc
	gaps  map[string]bool
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithNavigation supplies the navigation metadata read from the host.
func WithNavigation(info NavigationInfo) Option {
	return func(c *Calculator) { c.nav = info }
}

// WithDiagnostics installs the advisory warning callback. Without it,
// diagnostics are dropped.
func WithDiagnostics(fn DiagnosticFunc) Option {
	return func(c *Calculator) { c.warn = fn }
}

// New builds a Calculator over the given mark source. A nil clock selects
// the clock matching caps. A nil marks source is valid and behaves like an
// absent host feature: every metric reads as not available.
func New(marks MarkSource, clock Clock, caps Capabilities, opts ...Option) *Calculator {
	c := &Calculator{
		marks: marks,
		clock: clock,
		caps:  caps,
		nav:   NavigationInfo{Type: UnknownNavigation},
		gaps:  make(map[string]bool),
	}
	if marks == nil {
		c.caps.HasMarks = false
	}
	if c.clock == nil {
		c.clock = ClockFor(c.caps)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Calculator) warnf(format string, args ...interface{}) {
	if c.warn != nil {
		c.warn(fmt.Sprintf(format, args...))
	}
}

// warnOnce reports a capability gap a single time for the calculator's
// lifetime, however many lookups hit it.
func (c *Calculator) warnOnce(gap, msg string) {
	if c.gaps[gap] {
		return
	}
	c.gaps[gap] = true
	c.warnf("%s", msg)
}

// MarkValue returns the raw millisecond value the host currently reports
// for name. The second return is false only when the mark source itself is
// absent. Reading before the document has finished loading emits an
// advisory diagnostic but still returns the host's current value, which may
// be zero for marks not yet captured.
func (c *Calculator) MarkValue(name Mark) (int64, bool) {
	if !c.caps.HasMarks {
		c.warnOnce("marks", "navigation timing marks are not supported by this host")
		return 0, false
	}
	if c.marks.ReadyState() != ReadyComplete {
		c.warnf("mark %q read before the document finished loading; the mark table may be partially populated", name)
	}
	return c.marks.MarkValue(name), true
}

// Interval returns the duration from start to end in seconds, computed as
// (end - start) / 1000 over the raw millisecond marks. If either mark is
// unavailable (source absent, or the mark reads zero) the result is not
// available: ok is false and the value must be ignored. A zero value with
// ok true is a genuine zero-length interval.
func (c *Calculator) Interval(start, end Mark) (float64, bool) {
	s, ok := c.MarkValue(start)
	if !ok || s == 0 {
		return 0, false
	}
	e, ok := c.MarkValue(end)
	if !ok || e == 0 {
		return 0, false
	}
	return float64(e-s) / 1000, true
}

// SameOriginTiming reports whether the cross-origin-restricted unload marks
// are populated. When the prior document was on a different origin the host
// suppresses both to zero, and intervals over them are not available rather
// than zero-length.
func (c *Calculator) SameOriginTiming() bool {
	if !c.caps.HasMarks {
		return false
	}
	return c.marks.MarkValue(UnloadEventStart) != 0 || c.marks.MarkValue(UnloadEventEnd) != 0
}

// Ready reports whether the document lifecycle has reached "complete".
// Advisory only: lookups before that point still work, they just warn.
func (c *Calculator) Ready() bool {
	return c.caps.HasMarks && c.marks.ReadyState() == ReadyComplete
}

// Navigation returns the navigation metadata captured at construction. ok
// is false when the host has no navigation-metadata source.
func (c *Calculator) Navigation() (NavigationInfo, bool) {
	if !c.caps.HasNavigationMetadata {
		c.warnOnce("navigation", "navigation metadata is not supported by this host")
		return NavigationInfo{Type: UnknownNavigation}, false
	}
	return c.nav, true
}

// The fixed metric catalog. Every method returns seconds and reports
// ok=false when the underlying marks are unavailable.

// TotalPageTime is navigationStart to loadEventEnd: everything including
// redirects and the previous page's unload.
func (c *Calculator) TotalPageTime() (float64, bool) {
	return c.Interval(NavigationStart, LoadEventEnd)
}

// TotalLoadTime is fetchStart to loadEventEnd: the current document only.
func (c *Calculator) TotalLoadTime() (float64, bool) {
	return c.Interval(FetchStart, LoadEventEnd)
}

// NetworkTime is fetchStart to responseEnd.
func (c *Calculator) NetworkTime() (float64, bool) {
	return c.Interval(FetchStart, ResponseEnd)
}

// RedirectTime is redirectStart to redirectEnd; not available when no
// redirect occurred.
func (c *Calculator) RedirectTime() (float64, bool) {
	return c.Interval(RedirectStart, RedirectEnd)
}

// DownloadTime is responseStart to responseEnd.
func (c *Calculator) DownloadTime() (float64, bool) {
	return c.Interval(ResponseStart, ResponseEnd)
}

// ServerTime is requestStart to responseEnd: time attributable to the
// application and server once the connection is up.
func (c *Calculator) ServerTime() (float64, bool) {
	return c.Interval(RequestStart, ResponseEnd)
}

// DNSLookupTime is domainLookupStart to domainLookupEnd.
func (c *Calculator) DNSLookupTime() (float64, bool) {
	return c.Interval(DomainLookupStart, DomainLookupEnd)
}

// TCPConnectTime is connectStart to connectEnd.
func (c *Calculator) TCPConnectTime() (float64, bool) {
	return c.Interval(ConnectStart, ConnectEnd)
}

// TLSTime is secureConnectionStart to connectEnd; not available on
// cleartext connections.
func (c *Calculator) TLSTime() (float64, bool) {
	return c.Interval(SecureConnectionStart, ConnectEnd)
}

// RequestTime is requestStart to responseStart.
func (c *Calculator) RequestTime() (float64, bool) {
	return c.Interval(RequestStart, ResponseStart)
}

// ResponseTime is responseStart to responseEnd.
func (c *Calculator) ResponseTime() (float64, bool) {
	return c.Interval(ResponseStart, ResponseEnd)
}

// ParseTime is domLoading to domInteractive.
func (c *Calculator) ParseTime() (float64, bool) {
	return c.Interval(DOMLoading, DOMInteractive)
}

// DocumentTotalTime is domLoading to domComplete.
func (c *Calculator) DocumentTotalTime() (float64, bool) {
	return c.Interval(DOMLoading, DOMComplete)
}

// ExternalAssetsTime is the document total minus the parse phase: time
// spent loading subresources after the HTML itself was parsed. Not
// available whenever either operand is.
func (c *Calculator) ExternalAssetsTime() (float64, bool) {
	total, ok := c.DocumentTotalTime()
	if !ok {
		return 0, false
	}
	parse, ok := c.ParseTime()
	if !ok {
		return 0, false
	}
	return total - parse, true
}

// LoadEventTime is loadEventStart to loadEventEnd.
func (c *Calculator) LoadEventTime() (float64, bool) {
	return c.Interval(LoadEventStart, LoadEventEnd)
}

// ContentLoadedEventTime is domContentLoadedEventStart to
// domContentLoadedEventEnd.
func (c *Calculator) ContentLoadedEventTime() (float64, bool) {
	return c.Interval(DOMContentLoadedEventStart, DOMContentLoadedEventEnd)
}

// UnloadEventTime is unloadEventStart to unloadEventEnd; suppressed (not
// available) for cross-origin predecessors.
func (c *Calculator) UnloadEventTime() (float64, bool) {
	return c.Interval(UnloadEventStart, UnloadEventEnd)
}

// TimeToFirstByte is fetchStart to responseStart.
func (c *Calculator) TimeToFirstByte() (float64, bool) {
	return c.Interval(FetchStart, ResponseStart)
}

// TimeToLastByte is fetchStart to responseEnd.
func (c *Calculator) TimeToLastByte() (float64, bool) {
	return c.Interval(FetchStart, ResponseEnd)
}

// TimeToInteractive is fetchStart to domInteractive.
func (c *Calculator) TimeToInteractive() (float64, bool) {
	return c.Interval(FetchStart, DOMInteractive)
}

// TimeToDOMComplete is fetchStart to domComplete.
func (c *Calculator) TimeToDOMComplete() (float64, bool) {
	return c.Interval(FetchStart, DOMComplete)
}

// TimeToDOMReady is fetchStart to domContentLoadedEventEnd.
func (c *Calculator) TimeToDOMReady() (float64, bool) {
	return c.Interval(FetchStart, DOMContentLoadedEventEnd)
}
