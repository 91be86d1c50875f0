// Package console is the admin CLI. It drives the lifecycle core (status
// machine, reservation aggregator, bulk coordinator, generation poller and
// CSV pipeline) against the booking API.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/client"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/config"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/csvpipe"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/reservations"
	"github.com/spf13/cobra"
)

type app struct {
	out io.Writer
	cfg config.Console
	api *client.Client
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) pipeline() *csvpipe.Pipeline {
	return csvpipe.NewPipeline(a.api, a.cfg.ExportDir)
}

// NewRootCmd builds the command tree writing to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:   "booking",
		Short: "Booking admin console",
		Long: `booking manages orders, activity and organized-travel reservations and
products through the booking API: status changes, bulk delete and export,
CSV import and product generation from a URL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConsole(cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.api = client.New(cfg.APIURL, cfg.Token, cfg.Timeout, cfg.GetRetries)
			return nil
		},
	}
	root.SetOut(out)
	config.ConsoleFlags(root.PersistentFlags())

	root.AddCommand(
		a.ordersCmd(),
		a.reservationsCmd(),
		a.productsCmd(),
		a.importCmd(),
	)
	return root
}

// Execute runs the console and reports any failure as a single line.
func Execute() {
	if err := NewRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+Notify(err))
		os.Exit(1)
	}
}

func parseVariant(s string) (reservations.Variant, error) {
	switch strings.ToLower(s) {
	case "activity", "activities":
		return reservations.VariantActivity, nil
	case "travel", "organized-travel", "organizedtravel":
		return reservations.VariantOrganizedTravel, nil
	}
	return "", fmt.Errorf("unknown reservation type %q (want activity or travel)", s)
}

func parseTypeFilter(s string) (reservations.TypeFilter, error) {
	if s == "" || strings.EqualFold(s, "all") {
		return reservations.TypeAll, nil
	}
	v, err := parseVariant(s)
	if err != nil {
		return "", err
	}
	return reservations.TypeFilter(v), nil
}

func variantResource(v reservations.Variant) csvpipe.Resource {
	if v == reservations.VariantOrganizedTravel {
		return csvpipe.ResourceTravelReservations
	}
	return csvpipe.ResourceActivityReservations
}
