package output

import (
	"bytes"
	"strings"
	"testing"

	"navtime/timing"
)

func reportCalculator() *timing.Calculator {
	table := timing.NewMarkTable()
	table.Set(timing.NavigationStart, 50)
	table.Set(timing.FetchStart, 100)
	table.Set(timing.DomainLookupStart, 110)
	table.Set(timing.DomainLookupEnd, 140)
	table.Set(timing.ResponseStart, 300)
	table.Set(timing.ResponseEnd, 350)
	table.SetReadyState(timing.ReadyComplete)
	return timing.New(table, nil, timing.Capabilities{HasMarks: true, HasNavigationMetadata: true},
		timing.WithNavigation(timing.NavigationInfo{Type: timing.Navigate}))
}

func TestFormatSeconds(t *testing.T) {
	cases := []struct {
		v    float64
		ok   bool
		want string
	}{
		{0.030, true, "0.030s"},
		{0, true, "0.000s"},
		{1.23456, true, "1.235s"},
		{0, false, "N/A"},
	}
	for _, tc := range cases {
		if got := FormatSeconds(tc.v, tc.ok); got != tc.want {
			t.Errorf("FormatSeconds(%v, %v) = %q, want %q", tc.v, tc.ok, got, tc.want)
		}
	}
}

func TestWriteReportRendersEveryMetric(t *testing.T) {
	var buf bytes.Buffer
	WriteReport(&buf, "0.0.0", "https://example.com", reportCalculator())
	out := buf.String()

	// One line per catalog metric.
	if got := strings.Count(out, "\n"); got < len(timing.Catalog) {
		t.Errorf("report has %d lines, want at least %d", got, len(timing.Catalog))
	}

	// Available metrics render with fixed precision.
	if !strings.Contains(out, "0.030s") {
		t.Error("dns lookup time missing from report")
	}
	if !strings.Contains(out, "0.200s") {
		t.Error("time to first byte missing from report")
	}

	// Suppressed metrics render as the literal placeholder.
	if !strings.Contains(out, "N/A") {
		t.Error("unavailable metrics should render as N/A")
	}
}

func TestWriteMetricsTable(t *testing.T) {
	var buf bytes.Buffer
	WriteMetricsTable(&buf, reportCalculator())
	out := buf.String()

	for _, want := range []string{"ttfb", "dns", "N/A", "0.030s"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q", want)
		}
	}
}

func TestWritePhaseGraphSkipsSparseData(t *testing.T) {
	// A calculator without marks has nothing to plot; the graph must not
	// panic or emit anything.
	c := timing.New(nil, nil, timing.Capabilities{})
	var buf bytes.Buffer
	WritePhaseGraph(&buf, c)
	if buf.Len() != 0 {
		t.Errorf("expected no graph output, got %q", buf.String())
	}
}

func TestFormatSize(t *testing.T) {
	cases := map[int64]string{
		512:         "512 B",
		2048:        "2.00 KB",
		3 * 1 << 20: "3.00 MB",
	}
	for in, want := range cases {
		if got := FormatSize(in); got != want {
			t.Errorf("FormatSize(%d) = %q, want %q", in, got, want)
		}
	}
}
