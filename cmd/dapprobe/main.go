// Package main provides the entry point for the dapprobe CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/sukidog/dapprobe/internal/probe"
)

var (
	verbose  bool
	interval time.Duration

	rootCmd = &cobra.Command{
		Use:   "dapprobe",
		Short: "Inspect CMSIS-DAP debug probes attached over USB",
		Long: `dapprobe discovers CMSIS-DAP debug probes on the USB bus and reports
their identity. Probes are matched by the CMSIS-DAP marker in their
product string and addressed by serial number.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List attached CMSIS-DAP probes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}

	infoCmd = &cobra.Command{
		Use:   "info <serial>",
		Short: "Show details for one probe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Rescan the bus periodically and report probe arrivals and departures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	watchCmd.Flags().DurationVarP(&interval, "interval", "i", 2*time.Second, "Time between bus scans")
	rootCmd.AddCommand(listCmd, infoCmd, watchCmd)
}

func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func runList() error {
	descs, err := probe.Detect()
	if err != nil {
		return err
	}
	if len(descs) == 0 {
		fmt.Println("no probes found")
		return nil
	}
	for _, d := range descs {
		fmt.Println(formatDescriptor(d))
	}
	return nil
}

func runInfo(serial string) error {
	d, err := probe.Find(serial)
	if err != nil {
		return err
	}
	fmt.Printf("serial:       %s\n", d.SerialNumber)
	fmt.Printf("vendor:       %s (%04x)\n", d.VendorName, d.VendorID)
	fmt.Printf("product:      %s (%04x)\n", d.ProductName, d.ProductID)
	fmt.Printf("interface:    %d\n", d.InterfaceNumber)
	fmt.Printf("out endpoint: %t\n", d.HasOutEndpoint)
	fmt.Printf("packet size:  %d\n", d.MaxPacketSize)
	return nil
}

// runWatch rescans the bus at the configured rate and logs the difference
// between consecutive scans until interrupted.
func runWatch() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := rate.NewLimiter(rate.Every(interval), 1)
	known := map[string]probe.Descriptor{}

	log.Info().Dur("interval", interval).Msg("Watching for probes, press Ctrl+C to stop")
	for {
		if err := limiter.Wait(ctx); err != nil {
			log.Info().Msg("Watch stopped")
			return nil
		}

		descs, err := probe.Detect()
		if err != nil {
			log.Warn().Err(err).Msg("Bus scan failed")
			continue
		}

		current := bySerial(descs)
		added, removed := diffSerials(known, current)
		for _, serial := range added {
			log.Info().
				Str("serial", serial).
				Str("product", current[serial].ProductName).
				Msg("Probe connected")
		}
		for _, serial := range removed {
			log.Info().Str("serial", serial).Msg("Probe disconnected")
		}
		known = current
	}
}

// bySerial indexes descriptors by serial number.
func bySerial(descs []probe.Descriptor) map[string]probe.Descriptor {
	out := make(map[string]probe.Descriptor, len(descs))
	for _, d := range descs {
		out[d.SerialNumber] = d
	}
	return out
}

// diffSerials returns the serials present only in next and only in prev,
// each sorted for stable output.
func diffSerials(prev, next map[string]probe.Descriptor) (added, removed []string) {
	for serial := range next {
		if _, ok := prev[serial]; !ok {
			added = append(added, serial)
		}
	}
	for serial := range prev {
		if _, ok := next[serial]; !ok {
			removed = append(removed, serial)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

func formatDescriptor(d probe.Descriptor) string {
	return fmt.Sprintf("%-24s %04x:%04x  %s (%s)", d.SerialNumber, d.VendorID, d.ProductID, d.ProductName, d.VendorName)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Failed to execute command")
	}
}
