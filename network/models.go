package network

import (
	"net/http"
	"time"

	"navtime/timing"
)

// Hop describes one request in the redirect chain.
type Hop struct {
	URL        string
	Status     string
	StatusCode int
	Start      time.Time
	Duration   time.Duration
}

// AssetSummary aggregates the document's external subresources.
type AssetSummary struct {
	Count      int
	Failed     int
	TotalBytes int64
}

// NavigationResult is everything captured for one document navigation: the
// populated mark table and navigation metadata for the calculator, plus
// connection detail for the report.
type NavigationResult struct {
	Marks        *timing.MarkTable
	Navigation   timing.NavigationInfo
	Capabilities timing.Capabilities

	Hops        []Hop
	Response    *http.Response
	ContentSize int64

	// Connection details from the final document fetch.
	LocalAddr        string
	RemoteAddr       string
	ConnectionReused bool
	Protocol         string
	HTTPVersion      string
	TLSVersion       string
	TLSCipherSuite   string
	TLSResumption    bool

	Assets AssetSummary
}
