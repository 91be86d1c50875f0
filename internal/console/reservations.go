package console

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/bulk"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/client"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/reservations"
	"github.com/spf13/cobra"
)

func (a *app) reservationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reservations",
		Aliases: []string{"res"},
		Short:   "Manage activity and organized-travel reservations together",
	}
	cmd.AddCommand(a.reservationsListCmd(), a.reservationsUpdateCmd(),
		a.reservationsDeleteCmd(), a.reservationsExportCmd())
	return cmd
}

type reservationFlags struct {
	search, status, payment, typ string
}

func (rf *reservationFlags) bind(cmd *cobra.Command) {
	rf.bindView(cmd)
	cmd.Flags().StringVar(&rf.typ, "type", "all", "all|activity|travel")
}

// bindView binds the filters without --type, for commands naming the type.
func (rf *reservationFlags) bindView(cmd *cobra.Command) {
	cmd.Flags().StringVar(&rf.search, "search", "", "match customer name or email")
	cmd.Flags().StringVar(&rf.status, "status", "", "pending|confirmed|completed|cancelled")
	cmd.Flags().StringVar(&rf.payment, "payment", "", "pending|partial|paid|refunded")
}

func (rf *reservationFlags) filter() (reservations.Filter, error) {
	t, err := parseTypeFilter(rf.typ)
	if err != nil {
		return reservations.Filter{}, err
	}
	return reservations.Filter{
		Search:        rf.search,
		Status:        reservations.Status(rf.status),
		PaymentStatus: reservations.PaymentStatus(rf.payment),
		Type:          t,
	}, nil
}

func printReservations(w io.Writer, list []reservations.Reservation) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()
	fmt.Fprintf(tw, "ID\tTYPE\tCUSTOMER\tEMAIL\tTOTAL\tSTATUS\tPAYMENT\tCREATED\n")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Variant, r.CustomerName(), r.CustomerEmail(),
			r.TotalPrice.StringFixed(2), r.Status, r.PaymentStatus, r.CreatedAt.Format("2006-01-02"))
	}
	fmt.Fprintf(tw, "%d reservations\n", len(list))
}

func (a *app) reservationsListCmd() *cobra.Command {
	var rf reservationFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reservations of both kinds, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := rf.filter()
			if err != nil {
				return err
			}
			list, err := a.api.Reservations().List(cmd.Context(), f)
			if err != nil {
				return err
			}
			printReservations(a.out, list)
			return nil
		},
	}
	rf.bind(cmd)
	return cmd
}

// find locates one listed reservation; only a listed record yields a Ref.
func find(ctx context.Context, agg *reservations.Aggregator, v reservations.Variant, id string) (reservations.Reservation, error) {
	list, err := agg.List(ctx, reservations.Filter{Type: reservations.TypeFilter(v)})
	if err != nil {
		return reservations.Reservation{}, err
	}
	for _, r := range list {
		if r.ID == id {
			return r, nil
		}
	}
	return reservations.Reservation{}, fmt.Errorf("%s reservation %s: %w", v, id, reservations.ErrNotFound)
}

func (a *app) reservationsUpdateCmd() *cobra.Command {
	var status, payment, notes string
	cmd := &cobra.Command{
		Use:   "update <activity|travel> <id>",
		Short: "Change status, payment status or notes of a reservation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseVariant(args[0])
			if err != nil {
				return err
			}
			var p reservations.Patch
			if cmd.Flags().Changed("status") {
				s := reservations.Status(status)
				p.Status = &s
			}
			if cmd.Flags().Changed("payment") {
				ps := reservations.PaymentStatus(payment)
				p.PaymentStatus = &ps
			}
			if cmd.Flags().Changed("notes") {
				p.Notes = &notes
			}
			if p.Empty() {
				return fmt.Errorf("nothing to update: pass --status, --payment or --notes")
			}

			agg := a.api.Reservations()
			cur, err := find(cmd.Context(), agg, v, args[1])
			if err != nil {
				return err
			}
			r, err := agg.Update(cmd.Context(), cur, p)
			if err != nil {
				return err
			}
			a.printf("%s reservation %s: status %s, payment %s\n", r.Variant, r.ID, r.Status, r.PaymentStatus)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "new status")
	cmd.Flags().StringVar(&payment, "payment", "", "new payment status")
	cmd.Flags().StringVar(&notes, "notes", "", "admin notes")
	return cmd
}

func (a *app) reservationsDeleteCmd() *cobra.Command {
	var all bool
	var rf reservationFlags
	cmd := &cobra.Command{
		Use:   "delete [id...]",
		Short: "Delete the given reservations; with --all, every listed one except the given ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !all {
				return fmt.Errorf("no reservations selected")
			}
			f, err := rf.filter()
			if err != nil {
				return err
			}
			agg := a.api.Reservations()
			list, err := agg.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			refs := make(map[string]reservations.Ref, len(list))
			visible := make([]string, 0, len(list))
			for _, r := range list {
				refs[r.ID] = r.Ref()
				visible = append(visible, r.ID)
			}

			co := bulk.NewCoordinator("reservations", func(ctx context.Context, id string) error {
				ref, ok := refs[id]
				if !ok {
					return reservations.ErrNotFound
				}
				return agg.Delete(ctx, ref)
			}, nil)
			if all {
				co.Selection().SelectAll(visible)
			}
			for _, id := range args {
				co.Selection().Toggle(id)
			}

			res := co.BulkDelete(cmd.Context())
			a.printf("deleted %d reservation(s)\n", res.Succeeded)
			for _, fl := range res.Failed {
				a.printf("  %s: %s\n", fl.ID, Notify(fl.Err))
			}
			return res.Err()
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "select every reservation matching the filter")
	rf.bind(cmd)
	return cmd
}

func (a *app) reservationsExportCmd() *cobra.Command {
	var rf reservationFlags
	cmd := &cobra.Command{
		Use:   "export <activity|travel> [id...]",
		Short: "Export the given reservations, or every one of a kind matching the filters, to CSV",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseVariant(args[0])
			if err != nil {
				return err
			}
			f, err := rf.filter()
			if err != nil {
				return err
			}
			res := variantResource(v)
			co := bulk.NewCoordinator(string(res), nil, func(ctx context.Context, ids []string) (string, error) {
				return a.pipeline().Export(ctx, res, ids, client.ReservationQuery(f))
			})
			return a.exportSelection(cmd.Context(), co, args[1:])
		},
	}
	rf.bindView(cmd)
	return cmd
}
