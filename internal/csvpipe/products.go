package csvpipe

import (
	"fmt"
	"io"
	"strconv"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/catalog"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/validation"
)

var ProductHeader = []string{"ID", "SKU", "Name", "Description", "Price", "Stock", "Image", "Source URL"}

func WriteProducts(w io.Writer, list []catalog.Product) error {
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		rows = append(rows, []string{
			p.ID, p.SKU, p.Name, p.Description, p.Price.StringFixed(2), strconv.Itoa(p.Stock), p.Image, p.SourceURL,
		})
	}
	return writeAll(w, ProductHeader, rows)
}

// ReadProducts parses and validates every row. Any invalid row fails the whole
// file with a field error list; nothing is returned for partial use.
func ReadProducts(r io.Reader) ([]catalog.Product, error) {
	t, err := readTable(r, "SKU", "Name", "Price")
	if err != nil {
		return nil, err
	}
	var (
		out  = make([]catalog.Product, 0, len(t.rows))
		errs validation.Errors
	)
	for i := range t.rows {
		row := t.row(i)
		p := catalog.Product{
			ID:          row.str("ID"),
			SKU:         row.str("SKU"),
			Name:        row.str("Name"),
			Description: row.str("Description"),
			Price:       row.number("Price"),
			Stock:       row.integer("Stock"),
			Image:       row.str("Image"),
			SourceURL:   row.str("Source URL"),
		}
		row.check(catalog.Validate(p))
		if len(row.errs) > 0 {
			errs = append(errs, row.errs.Prefix(fmt.Sprintf("row %d", i+2))...)
			continue
		}
		out = append(out, p)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
