// Package timing computes derived page-load intervals from navigation
// timing marks captured by a host environment.
package timing

// Mark names a single timestamp captured by the host during the document
// lifecycle. The set of valid names is fixed.
type Mark string

const (
	NavigationStart            Mark = "navigationStart"
	UnloadEventStart           Mark = "unloadEventStart"
	UnloadEventEnd             Mark = "unloadEventEnd"
	RedirectStart              Mark = "redirectStart"
	RedirectEnd                Mark = "redirectEnd"
	FetchStart                 Mark = "fetchStart"
	DomainLookupStart          Mark = "domainLookupStart"
	DomainLookupEnd            Mark = "domainLookupEnd"
	ConnectStart               Mark = "connectStart"
	ConnectEnd                 Mark = "connectEnd"
	SecureConnectionStart      Mark = "secureConnectionStart"
	RequestStart               Mark = "requestStart"
	ResponseStart              Mark = "responseStart"
	ResponseEnd                Mark = "responseEnd"
	DOMLoading                 Mark = "domLoading"
	DOMInteractive             Mark = "domInteractive"
	DOMContentLoadedEventStart Mark = "domContentLoadedEventStart"
	DOMContentLoadedEventEnd   Mark = "domContentLoadedEventEnd"
	DOMComplete                Mark = "domComplete"
	LoadEventStart             Mark = "loadEventStart"
	LoadEventEnd               Mark = "loadEventEnd"
)

// Marks lists every valid mark name in lifecycle order.
var Marks = []Mark{
	NavigationStart,
	UnloadEventStart,
	UnloadEventEnd,
	RedirectStart,
	RedirectEnd,
	FetchStart,
	DomainLookupStart,
	DomainLookupEnd,
	ConnectStart,
	ConnectEnd,
	SecureConnectionStart,
	RequestStart,
	ResponseStart,
	ResponseEnd,
	DOMLoading,
	DOMInteractive,
	DOMContentLoadedEventStart,
	DOMContentLoadedEventEnd,
	DOMComplete,
	LoadEventStart,
	LoadEventEnd,
}

// Document ready states reported by a MarkSource.
const (
	ReadyLoading     = "loading"
	ReadyInteractive = "interactive"
	ReadyComplete    = "complete"
)

// MarkSource is the host-owned table of lifecycle timestamps. A mark that
// has not been captured yet (or that the host suppresses, e.g. cross-origin
// unload marks) reads as zero. The calculator only reads from it; the host
// is the single writer.
type MarkSource interface {
	// MarkValue returns the millisecond timestamp for name, or zero when
	// the mark has not been captured.
	MarkValue(name Mark) int64

	// ReadyState reports the document lifecycle state, one of ReadyLoading,
	// ReadyInteractive or ReadyComplete.
	ReadyState() string
}

// MarkTable is the standard MarkSource implementation: a plain mapping
// populated progressively by the host adapter as the document lifecycle
// advances.
type MarkTable struct {
	marks map[Mark]int64
	ready string
}

// NewMarkTable returns an empty table in the "loading" state.
func NewMarkTable() *MarkTable {
	return &MarkTable{
		marks: make(map[Mark]int64, len(Marks)),
		ready: ReadyLoading,
	}
}

// Set records a millisecond timestamp for name, overwriting any prior value.
func (t *MarkTable) Set(name Mark, unixMillis int64) {
	t.marks[name] = unixMillis
}

// MarkValue implements MarkSource.
func (t *MarkTable) MarkValue(name Mark) int64 {
	return t.marks[name]
}

// SetReadyState advances the document lifecycle state.
func (t *MarkTable) SetReadyState(state string) {
	t.ready = state
}

// ReadyState implements MarkSource.
func (t *MarkTable) ReadyState() string {
	return t.ready
}
