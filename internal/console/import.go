package console

import (
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/csvpipe"
	"github.com/spf13/cobra"
)

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <products|activity-reservations|travel-reservations> <file.csv>",
		Short: "Upload a CSV file; the whole file is accepted or rejected",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := csvpipe.ParseResource(args[0])
			if err != nil {
				return err
			}
			sum, err := a.pipeline().ImportFile(cmd.Context(), res, args[1])
			if err != nil {
				return err
			}
			msg := sum.Message
			if msg == "" {
				msg = "import finished"
			}
			a.printf("%s (%d rows)\n", msg, sum.Imported)
			return nil
		},
	}
}
