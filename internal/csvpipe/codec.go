package csvpipe

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/validation"
	"github.com/shopspring/decimal"
)

const timeLayout = time.RFC3339

// table is a header-indexed view over a CSV body.
type table struct {
	index map[string]int
	rows  [][]string
}

func readTable(r io.Reader, required ...string) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("csv is empty")
	}
	t := &table{index: map[string]int{}, rows: records[1:]}
	for i, h := range records[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.index[strings.ToLower(h)] = i
	}
	var errs validation.Errors
	for _, col := range required {
		if _, ok := t.index[strings.ToLower(col)]; !ok {
			errs.Add(col, "missing column")
		}
	}
	return t, errs.Err()
}

// row reads named cells of one record and accumulates field errors.
type row struct {
	t    *table
	rec  []string
	errs validation.Errors
}

func (t *table) row(i int) *row { return &row{t: t, rec: t.rows[i]} }

func (r *row) str(col string) string {
	i, ok := r.t.index[strings.ToLower(col)]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r *row) integer(col string) int {
	s := r.str(col)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		r.errs.Add(col, "is not a whole number")
	}
	return n
}

func (r *row) number(col string) decimal.Decimal {
	s := r.str(col)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		r.errs.Add(col, "is not a number")
	}
	return d
}

func (r *row) date(col string) time.Time {
	s := r.str(col)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{timeLayout, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	r.errs.Add(col, "is not a date")
	return time.Time{}
}

func (r *row) check(err error) {
	var ve validation.Errors
	switch {
	case err == nil:
	case errors.As(err, &ve):
		r.errs = append(r.errs, ve...)
	default:
		r.errs.Add("", err.Error())
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func writeAll(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
