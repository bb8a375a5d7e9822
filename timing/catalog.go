package timing

import "strings"

// Metric is one entry in the fixed catalog of derived durations. Most are
// a plain mark pair; composites carry their own compute function.
type Metric struct {
	Label string
	Alias string
	Start Mark
	End   Mark

	compute func(*Calculator) (float64, bool)
}

// Value computes the metric against c. ok is false when the metric is not
// available.
func (m Metric) Value(c *Calculator) (float64, bool) {
	if m.compute != nil {
		return m.compute(c)
	}
	return c.Interval(m.Start, m.End)
}

// Catalog is the fixed registry of derived metrics, in report order.
var Catalog = []Metric{
	{Label: "total page time", Alias: "page", Start: NavigationStart, End: LoadEventEnd},
	{Label: "total load time", Alias: "load", Start: FetchStart, End: LoadEventEnd},
	{Label: "network time", Alias: "network", Start: FetchStart, End: ResponseEnd},
	{Label: "redirect time", Alias: "redirect", Start: RedirectStart, End: RedirectEnd},
	{Label: "download time", Alias: "download", Start: ResponseStart, End: ResponseEnd},
	{Label: "server time", Alias: "server", Start: RequestStart, End: ResponseEnd},
	{Label: "dns lookup time", Alias: "dns", Start: DomainLookupStart, End: DomainLookupEnd},
	{Label: "tcp connect time", Alias: "tcp", Start: ConnectStart, End: ConnectEnd},
	{Label: "tls negotiation time", Alias: "tls", Start: SecureConnectionStart, End: ConnectEnd},
	{Label: "request time", Alias: "request", Start: RequestStart, End: ResponseStart},
	{Label: "response time", Alias: "response", Start: ResponseStart, End: ResponseEnd},
	{Label: "parse time", Alias: "parse", Start: DOMLoading, End: DOMInteractive},
	{Label: "document total time", Alias: "document", Start: DOMLoading, End: DOMComplete},
	{Label: "external assets time", Alias: "assets", compute: (*Calculator).ExternalAssetsTime},
	{Label: "load event time", Alias: "onload", Start: LoadEventStart, End: LoadEventEnd},
	{Label: "content loaded event time", Alias: "dcl", Start: DOMContentLoadedEventStart, End: DOMContentLoadedEventEnd},
	{Label: "unload event time", Alias: "unload", Start: UnloadEventStart, End: UnloadEventEnd},
	{Label: "time to first byte", Alias: "ttfb", Start: FetchStart, End: ResponseStart},
	{Label: "time to last byte", Alias: "ttlb", Start: FetchStart, End: ResponseEnd},
	{Label: "time to interactive", Alias: "tti", Start: FetchStart, End: DOMInteractive},
	{Label: "time to dom complete", Alias: "ttdc", Start: FetchStart, End: DOMComplete},
	{Label: "time to dom ready", Alias: "ttdr", Start: FetchStart, End: DOMContentLoadedEventEnd},
}

// MetricByName resolves a catalog entry by its label or short alias,
// case-insensitively.
func MetricByName(name string) (Metric, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, m := range Catalog {
		if m.Label == name || m.Alias == name {
			return m, true
		}
	}
	return Metric{}, false
}
