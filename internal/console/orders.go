package console

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/bulk"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/client"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/csvpipe"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/orders"
	"github.com/spf13/cobra"
)

func (a *app) ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders and drive their fulfillment status",
	}
	cmd.AddCommand(a.ordersListCmd(), a.ordersStatusCmd(), a.ordersDeliverCmd(),
		a.ordersRemindCmd(), a.ordersStatsCmd(), a.ordersExportCmd())
	return cmd
}

// orderFlags are the view filters shared by list and export.
type orderFlags struct {
	search, status, paid string
}

func (of *orderFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&of.search, "search", "", "match order number, customer name or email")
	cmd.Flags().StringVar(&of.status, "status", "", "pending|processing|shipped|delivered|cancelled")
	cmd.Flags().StringVar(&of.paid, "paid", "", "yes|no")
}

func (of *orderFlags) filter() (orders.Filter, error) {
	f := orders.Filter{Search: of.search, Status: orders.Status(of.status)}
	switch of.paid {
	case "":
	case "yes", "true":
		t := true
		f.IsPaid = &t
	case "no", "false":
		t := false
		f.IsPaid = &t
	default:
		return f, fmt.Errorf("--paid must be yes or no, got %q", of.paid)
	}
	return f, nil
}

func (a *app) ordersListCmd() *cobra.Command {
	var (
		of   orderFlags
		sort string
		page int
		lim  int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := of.filter()
			if err != nil {
				return err
			}
			f.Sort, f.Page, f.Limit = sort, page, lim
			p, err := a.api.ListOrders(cmd.Context(), f)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			defer tw.Flush()
			fmt.Fprintf(tw, "ID\tNUMBER\tCUSTOMER\tTOTAL\tSTATUS\tPAYMENT\tCREATED\n")
			for _, o := range p.Orders {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", o.ID, o.OrderNumber, o.CustomerName,
					o.TotalPrice.StringFixed(2), o.Status, o.PaymentState(), o.CreatedAt.Format("2006-01-02"))
			}
			fmt.Fprintf(tw, "page %d/%d, %d orders\n", p.Page, p.Pages, p.Total)
			return nil
		},
	}
	of.bind(cmd)
	cmd.Flags().StringVar(&sort, "sort", "newest", "newest|oldest|total")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&lim, "limit", 20, "page size")
	return cmd
}

// changeStatus fetches the order fresh so the transition is checked against
// the backend's current state, not a stale listing.
func (a *app) changeStatus(ctx context.Context, id string, to orders.Status) error {
	cur, err := a.api.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	var o orders.Order
	if to == orders.StatusDelivered {
		o, err = a.api.MarkDelivered(ctx, cur)
	} else {
		o, err = a.api.UpdateOrderStatus(ctx, cur, to)
	}
	if err != nil {
		return err
	}
	a.printf("order %s: %s -> %s\n", o.OrderNumber, cur.Status, o.Status)
	return nil
}

func (a *app) ordersStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <order-id> <status>",
		Short: "Move an order to another fulfillment status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.changeStatus(cmd.Context(), args[0], orders.Status(args[1]))
		},
	}
}

func (a *app) ordersDeliverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deliver <order-id>",
		Short: "Mark an order delivered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.changeStatus(cmd.Context(), args[0], orders.StatusDelivered)
		},
	}
}

func (a *app) ordersRemindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind <order-id>",
		Short: "Send a payment reminder for an unpaid order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.SendPaymentReminder(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printf("payment reminder queued for %s\n", args[0])
			return nil
		},
	}
}

func (a *app) ordersStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show order counts and revenue",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.api.OrderStats(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("orders: %d (paid %d, unpaid %d)\n", st.TotalOrders, st.PaidOrders, st.UnpaidOrders)
			for _, s := range orders.Statuses() {
				a.printf("  %-10s %d\n", s, st.ByStatus[s])
			}
			a.printf("revenue: %s\n", st.Revenue.StringFixed(2))
			return nil
		},
	}
}

func (a *app) ordersExportCmd() *cobra.Command {
	var of orderFlags
	cmd := &cobra.Command{
		Use:   "export [order-id...]",
		Short: "Export the given orders, or every order matching the filters, to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := of.filter()
			if err != nil {
				return err
			}
			co := bulk.NewCoordinator("orders", nil, func(ctx context.Context, ids []string) (string, error) {
				return a.pipeline().Export(ctx, csvpipe.ResourceOrders, ids, client.OrderQuery(f))
			})
			return a.exportSelection(cmd.Context(), co, args)
		},
	}
	of.bind(cmd)
	return cmd
}

func (a *app) exportSelection(ctx context.Context, co *bulk.Coordinator, ids []string) error {
	for _, id := range ids {
		co.Selection().Toggle(id)
	}
	path, err := co.BulkExport(ctx)
	if err != nil {
		return err
	}
	a.printf("exported to %s\n", path)
	return nil
}
