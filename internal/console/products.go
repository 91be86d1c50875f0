package console

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/bulk"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/catalog"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/csvpipe"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/generation"
	"github.com/spf13/cobra"
)

func (a *app) productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage the product catalog",
	}
	cmd.AddCommand(a.productsListCmd(), a.productsGenerateCmd(), a.productsDeleteCmd(), a.productsExportCmd())
	return cmd
}

func (a *app) productsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := a.api.ListProducts(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			defer tw.Flush()
			fmt.Fprintf(tw, "ID\tSKU\tNAME\tPRICE\tSTOCK\n")
			for _, p := range ps {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.SKU, p.Name, p.Price.StringFixed(2), p.Stock)
			}
			return nil
		},
	}
}

// generateSlot is the single place product generation runs from.
const generateSlot = "generate-from-url"

func (a *app) productsGenerateCmd() *cobra.Command {
	var (
		sku   string
		stock int
	)
	cmd := &cobra.Command{
		Use:   "generate <url>",
		Short: "Generate a product draft from a product page URL",
		Long: `generate submits the URL to the API and polls the task until it completes
or fails. Ctrl-C stops waiting; the server-side task keeps running. With
--sku the draft is saved as a product.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			p := generation.NewPoller(a.api.Generation(), a.cfg.PollInterval)
			p.OnUpdate = func(_ string, t generation.Task) {
				a.printf("task %s: %s\n", t.ID, t.Status)
			}
			t, err := p.Run(ctx, generateSlot, args[0])
			if err != nil {
				return err
			}
			pd := t.ProductData
			a.printf("name: %s\nprice: %s %s\nimage: %s\n", pd.Name, pd.Price.StringFixed(2), pd.Currency, pd.Image)
			if sku == "" {
				return nil
			}
			saved, err := a.api.CreateProduct(ctx, catalog.Product{
				SKU:         sku,
				Name:        pd.Name,
				Description: pd.Description,
				Image:       pd.Image,
				SourceURL:   pd.SourceURL,
				Price:       pd.Price,
				Stock:       stock,
			})
			if err != nil {
				return err
			}
			a.printf("product %s created\n", saved.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&sku, "sku", "", "save the draft as a product with this SKU")
	cmd.Flags().IntVar(&stock, "stock", 0, "initial stock when saving")
	return cmd
}

func (a *app) productsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete products",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			co := bulk.NewCoordinator("products", a.api.DeleteProduct, nil)
			for _, id := range args {
				co.Selection().Toggle(id)
			}
			res := co.BulkDelete(cmd.Context())
			a.printf("deleted %d product(s)\n", res.Succeeded)
			for _, fl := range res.Failed {
				a.printf("  %s: %s\n", fl.ID, Notify(fl.Err))
			}
			return res.Err()
		},
	}
}

func (a *app) productsExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [id...]",
		Short: "Export the given products, or all products, to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			co := bulk.NewCoordinator("products", nil, func(ctx context.Context, ids []string) (string, error) {
				return a.pipeline().Export(ctx, csvpipe.ResourceProducts, ids, nil)
			})
			return a.exportSelection(cmd.Context(), co, args)
		},
	}
}
