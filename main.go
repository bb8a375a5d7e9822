package main

import (
	"fmt"
	"os"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"

	"navtime/network"
	"navtime/output"
	"navtime/timing"
)

var (
	tableArg    bool
	graphArg    bool
	headersArg  bool
	quietArg    bool
	insecureArg bool
	noAssetsArg bool
	timeoutArg  time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "navtime <url>",
	Short: "Page-load timing report from navigation marks",
	Long: `navtime navigates to a URL, captures lifecycle timestamps (DNS lookup,
TCP connect, TLS negotiation, first byte, parse, asset loading) and reports
the derived durations the way a browser's navigation timing would.`,
	Args:         cobra.ExactArgs(1),
	RunE:         run,
	SilenceUsage: true,
	Version:      appVersion,
}

func init() {
	rootCmd.Flags().BoolVar(&tableArg, "table", false, "render the metric catalog as a table")
	rootCmd.Flags().BoolVar(&graphArg, "graph", false, "plot the catalog durations")
	rootCmd.Flags().BoolVar(&headersArg, "headers", false, "print the final response headers")
	rootCmd.Flags().BoolVar(&quietArg, "quiet", false, "suppress advisory warnings")
	rootCmd.Flags().BoolVar(&insecureArg, "insecure", false, "skip TLS certificate verification")
	rootCmd.Flags().BoolVar(&noAssetsArg, "no-assets", false, "skip loading the document's subresources")
	rootCmd.Flags().DurationVar(&timeoutArg, "timeout", 30*time.Second, "navigation timeout")
}

func run(_ *cobra.Command, args []string) error {
	urlArg := network.AddDefaultProtocol(args[0])
	client := network.CreateHTTPClient(timeoutArg, insecureArg)

	res, err := network.Navigate(client, urlArg, network.Options{
		Timeout:    timeoutArg,
		LoadAssets: !noAssetsArg,
	})
	if err != nil {
		return err
	}

	opts := []timing.Option{timing.WithNavigation(res.Navigation)}
	if !quietArg {
		opts = append(opts, timing.WithDiagnostics(func(msg string) {
			fmt.Fprintln(os.Stderr, aurora.Yellow("warning: "+msg))
		}))
	}
	calc := timing.New(res.Marks, nil, res.Capabilities, opts...)

	output.WriteReport(os.Stdout, appVersion, urlArg, calc)
	output.WriteConnectionInfo(os.Stdout, res)

	if graphArg {
		fmt.Println()
		output.WritePhaseGraph(os.Stdout, calc)
	}
	if tableArg {
		fmt.Println()
		output.WriteMetricsTable(os.Stdout, calc)
	}
	if headersArg {
		output.WriteResponseHeaders(os.Stdout, res)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, aurora.Red(err))
		os.Exit(1)
	}
}
