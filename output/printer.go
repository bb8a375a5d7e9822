// Package output renders timing reports to the terminal.
package output

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"
	"github.com/logrusorgru/aurora"
	"github.com/olekukonko/tablewriter"

	"navtime/network"
	"navtime/timing"
)

// FormatSeconds renders a derived interval: fixed three-decimal seconds,
// or the literal N/A when the interval is not available. A genuine
// zero-length interval prints as 0.000s, never as N/A.
func FormatSeconds(v float64, ok bool) string {
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.3fs", v)
}

// FormatSize formats a byte size in a human-readable way.
func FormatSize(size int64) string {
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	} else if size < 1024*1024 {
		return fmt.Sprintf("%.2f KB", float64(size)/1024)
	} else if size < 1024*1024*1024 {
		return fmt.Sprintf("%.2f MB", float64(size)/(1024*1024))
	}
	return fmt.Sprintf("%.2f GB", float64(size)/(1024*1024*1024))
}

// PrintVersion prints the version information.
func PrintVersion(w io.Writer, version string) {
	fmt.Fprintln(w, aurora.Sprintf(aurora.Green("navtime v%s"), aurora.Yellow(version)))
}

// WriteReport renders the full metric catalog, one line per metric, under
// a multi-line header.
func WriteReport(w io.Writer, version, urlArg string, c *timing.Calculator) {
	PrintVersion(w, version)
	fmt.Fprintln(w, aurora.Magenta("URL:"), aurora.Cyan(urlArg))

	nav, navOK := c.Navigation()
	if navOK {
		fmt.Fprintln(w, aurora.Green("Navigation:"), aurora.Blue(nav.Type.String()),
			aurora.Green("Redirects:"), aurora.Blue(nav.RedirectCount))
	} else {
		fmt.Fprintln(w, aurora.Yellow("Navigation metadata not available"))
	}
	fmt.Fprintln(w, aurora.Green("Same-origin timing:"), aurora.Blue(c.SameOriginTiming()),
		aurora.Green("Document ready:"), aurora.Blue(c.Ready()))
	fmt.Fprintln(w)

	for _, m := range timing.Catalog {
		v, ok := m.Value(c)
		fmt.Fprintf(w, "%28s %s\n", aurora.BrightGreen(m.Label), FormatSeconds(v, ok))
	}
}

// WriteMetricsTable renders the catalog as a table with the short aliases.
func WriteMetricsTable(w io.Writer, c *timing.Calculator) {
	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Alias", "Duration")

	for _, m := range timing.Catalog {
		v, ok := m.Value(c)
		table.Append(m.Label, m.Alias, FormatSeconds(v, ok))
	}

	table.Render()
}

// WritePhaseGraph plots the available catalog durations.
func WritePhaseGraph(w io.Writer, c *timing.Calculator) {
	var durations []float64
	for _, m := range timing.Catalog {
		if v, ok := m.Value(c); ok {
			durations = append(durations, v)
		}
	}
	if len(durations) < 2 {
		return
	}

	fmt.Fprintln(w, aurora.Green("Catalog durations (seconds)"))
	fmt.Fprintln(w, asciigraph.Plot(durations, asciigraph.Height(10)))
	fmt.Fprintln(w)
}

// WriteConnectionInfo prints connection and transfer detail captured during
// the navigation.
func WriteConnectionInfo(w io.Writer, res *network.NavigationResult) {
	fmt.Fprintln(w)
	if res.ConnectionReused {
		fmt.Fprintf(w, "%28s %s\n", aurora.BrightGreen("Connection"), aurora.Blue("Reused"))
	} else {
		fmt.Fprintf(w, "%28s %s\n", aurora.BrightGreen("Connection"), aurora.Blue("New"))
	}

	if res.LocalAddr != "" || res.RemoteAddr != "" {
		fmt.Fprintf(w, "%28s %s\n", aurora.BrightGreen("Local address"), aurora.Blue(res.LocalAddr))
		fmt.Fprintf(w, "%28s %s\n", aurora.BrightGreen("Remote address"), aurora.Blue(res.RemoteAddr))
	}

	if res.Protocol != "" {
		fmt.Fprintf(w, "%28s %s\n", aurora.Yellow("Protocol"), aurora.Blue(res.Protocol))
	}
	if res.HTTPVersion != "" {
		fmt.Fprintf(w, "%28s %s\n", aurora.Yellow("HTTP version"), aurora.Blue(res.HTTPVersion))
	}

	if res.TLSVersion != "" {
		fmt.Fprintf(w, "%28s %s\n", aurora.BrightGreen("TLS version"), aurora.Blue(res.TLSVersion))
		fmt.Fprintf(w, "%28s %s\n", aurora.BrightGreen("TLS cipher"), aurora.Blue(res.TLSCipherSuite))
		fmt.Fprintf(w, "%28s %s\n", aurora.BrightGreen("TLS resumption"), aurora.Blue(fmt.Sprintf("%t", res.TLSResumption)))
	}

	fmt.Fprintf(w, "%28s %s\n", aurora.BrightGreen("Document size"), aurora.Blue(FormatSize(res.ContentSize)))

	if res.Assets.Count > 0 || res.Assets.Failed > 0 {
		fmt.Fprintf(w, "%28s %s\n", aurora.BrightGreen("Assets loaded"), aurora.Blue(res.Assets.Count))
		fmt.Fprintf(w, "%28s %s\n", aurora.BrightGreen("Asset bytes"), aurora.Blue(FormatSize(res.Assets.TotalBytes)))
		if res.Assets.Failed > 0 {
			fmt.Fprintf(w, "%28s %s\n", aurora.Yellow("Assets failed"), aurora.Blue(res.Assets.Failed))
		}
	}

	if len(res.Hops) > 1 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, aurora.Green("Redirect chain"))
		for i, hop := range res.Hops {
			fmt.Fprintf(w, "  %d. %s %s\n", i+1, aurora.Cyan(hop.URL), aurora.Blue(hop.Status))
		}
	}
}

// WriteResponseHeaders prints the final response headers.
func WriteResponseHeaders(w io.Writer, res *network.NavigationResult) {
	if res.Response == nil {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, aurora.Green("Response headers:"))
	for key, values := range res.Response.Header {
		for _, value := range values {
			fmt.Fprintln(w, aurora.Green(key+": "), aurora.Blue(value))
		}
	}
}
