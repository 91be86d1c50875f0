package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/postgres"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("order not found")

type Repo struct{ DB *pgxpool.Pool }

const orderColumns = `id, order_number, customer_name, customer_email, status, is_paid, paid_at,
	payment_result, delivered_at, items, items_price, tax_price, shipping_price, total_price,
	created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o       Order
		status  string
		payment []byte
		items   []byte
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerEmail, &status, &o.IsPaid, &o.PaidAt,
		&payment, &o.DeliveredAt, &items, &o.ItemsPrice, &o.TaxPrice, &o.ShippingPrice, &o.TotalPrice,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	o.Status = Status(status)
	if len(payment) > 0 {
		o.PaymentResult = &PaymentResult{}
		if err := json.Unmarshal(payment, o.PaymentResult); err != nil {
			return Order{}, fmt.Errorf("decode payment_result of %s: %w", o.ID, err)
		}
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return Order{}, fmt.Errorf("decode items of %s: %w", o.ID, err)
	}
	return o, nil
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	defer rows.Close()
	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (f Filter) where() *postgres.Where {
	w := &postgres.Where{}
	if s := strings.TrimSpace(f.Search); s != "" {
		w.Add(`(order_number ILIKE $%[1]d OR customer_name ILIKE $%[1]d OR customer_email ILIKE $%[1]d)`, postgres.Like(s))
	}
	if f.Status != "" {
		w.Add(`status = $%d`, string(f.Status))
	}
	if f.IsPaid != nil {
		w.Add(`is_paid = $%d`, *f.IsPaid)
	}
	return w
}

func (f Filter) orderBy() string {
	switch f.Sort {
	case "oldest":
		return " ORDER BY created_at ASC"
	case "total":
		return " ORDER BY total_price DESC, created_at DESC"
	default:
		return " ORDER BY created_at DESC"
	}
}

// Create persists a checked-out order. The totals invariant is enforced here
// and by the table's CHECK constraint.
func (r *Repo) Create(ctx context.Context, o Order) (Order, error) {
	if err := o.CheckTotals(); err != nil {
		return Order{}, err
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.OrderNumber == "" {
		o.OrderNumber = "ORD-" + strings.ToUpper(o.ID[:8])
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
	if !o.Status.Valid() {
		return Order{}, fmt.Errorf("invalid status %q", o.Status)
	}
	items, err := json.Marshal(o.Items)
	if err != nil {
		return Order{}, err
	}
	row := r.DB.QueryRow(ctx, `
		INSERT INTO orders(id, order_number, customer_name, customer_email, status, items,
		                   items_price, tax_price, shipping_price, total_price)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING `+orderColumns,
		o.ID, o.OrderNumber, o.CustomerName, o.CustomerEmail, string(o.Status), items,
		o.ItemsPrice, o.TaxPrice, o.ShippingPrice, o.TotalPrice)
	return scanOrder(row)
}

func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

func (r *Repo) List(ctx context.Context, f Filter) (Page, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	w := f.where()

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+w.SQL(), w.Args...).Scan(&total); err != nil {
		return Page{}, err
	}

	q := `SELECT ` + orderColumns + ` FROM orders` + w.SQL() + f.orderBy()
	q += ` LIMIT ` + w.Placeholder(f.Limit) + ` OFFSET ` + w.Placeholder((f.Page-1)*f.Limit)
	rows, err := r.DB.Query(ctx, q, w.Args...)
	if err != nil {
		return Page{}, err
	}
	list, err := collectOrders(rows)
	if err != nil {
		return Page{}, err
	}
	return Page{Orders: list, Page: f.Page, Pages: (total + f.Limit - 1) / f.Limit, Total: total}, nil
}

// ListForExport returns the orders with the given IDs, or every order matching
// f when ids is empty. No pagination.
func (r *Repo) ListForExport(ctx context.Context, ids []string, f Filter) ([]Order, error) {
	w := f.where()
	if len(ids) > 0 {
		w = &postgres.Where{}
		w.Add(`id = ANY($%d)`, ids)
	}
	rows, err := r.DB.Query(ctx, `SELECT `+orderColumns+` FROM orders`+w.SQL()+f.orderBy(), w.Args...)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// UpdateStatus: lock row (FOR UPDATE) -> cek transisi -> update. Returns the
// previous status together with the updated order.
func (r *Repo) UpdateStatus(ctx context.Context, id string, to Status) (Status, Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var s string
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, id).Scan(&s)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", Order{}, ErrNotFound
	}
	if err != nil {
		return "", Order{}, err
	}
	from := Status(s)
	if err := CheckTransition(from, to); err != nil {
		return from, Order{}, err
	}

	var deliveredAt *time.Time
	if to == StatusDelivered {
		now := time.Now().UTC()
		deliveredAt = &now
	}
	o, err := scanOrder(tx.QueryRow(ctx, `
		UPDATE orders SET status=$2, delivered_at=COALESCE($3, delivered_at), updated_at=now()
		WHERE id=$1
		RETURNING `+orderColumns, id, string(to), deliveredAt))
	if err != nil {
		return from, Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return from, Order{}, err
	}
	return from, o, nil
}

// MarkPaid records the external payment confirmation and returns the payment
// state it found. A repeated confirmation leaves the order untouched, keeping
// the first paid_at and payment_result.
func (r *Repo) MarkPaid(ctx context.Context, id string, result *PaymentResult) (PaymentState, Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cur, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return "", Order{}, ErrNotFound
	}
	if err != nil {
		return "", Order{}, err
	}
	from := cur.PaymentState()
	if err := CheckPaymentTransition(from, PaymentPaid); err != nil {
		return from, Order{}, err
	}
	if from == PaymentPaid {
		return from, cur, nil
	}

	var payment []byte
	if result != nil {
		if payment, err = json.Marshal(result); err != nil {
			return from, Order{}, err
		}
	}
	o, err := scanOrder(tx.QueryRow(ctx, `
		UPDATE orders
		SET is_paid=TRUE, paid_at=now(), payment_result=COALESCE($2, payment_result), updated_at=now()
		WHERE id=$1
		RETURNING `+orderColumns, id, payment))
	if err != nil {
		return from, Order{}, err
	}
	return from, o, tx.Commit(ctx)
}

func (r *Repo) Stats(ctx context.Context) (Stats, error) {
	st := Stats{ByStatus: map[Status]int{}, Revenue: decimal.Zero}
	rows, err := r.DB.Query(ctx, `
		SELECT status, is_paid, COUNT(*), COALESCE(SUM(total_price), 0)
		FROM orders GROUP BY status, is_paid`)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			paid   bool
			n      int
			sum    decimal.Decimal
		)
		if err := rows.Scan(&status, &paid, &n, &sum); err != nil {
			return Stats{}, err
		}
		st.TotalOrders += n
		st.ByStatus[Status(status)] += n
		if paid {
			st.PaidOrders += n
			st.Revenue = st.Revenue.Add(sum)
		} else {
			st.UnpaidOrders += n
		}
	}
	return st, rows.Err()
}
