package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/postgres"
)

var ErrNotFound = errors.New("reservation not found")

// table describes how one variant is stored.
type table struct {
	name    string
	columns string
	insert  string // column list for INSERT, same order as values()
	search  string // ILIKE condition over contact fields, uses $%[1]d
	scan    func(row pgx.Row) (Reservation, error)
	values  func(r Reservation) []any
}

var activityTable = table{
	name: "activity_reservations",
	columns: `id, status, payment_status, total_price, notes, created_at, updated_at,
		activity_id, activity_name, customer_name, customer_email, customer_whatsapp, reservation_date, number_of_persons`,
	insert: `id, status, payment_status, total_price, notes,
		activity_id, activity_name, customer_name, customer_email, customer_whatsapp, reservation_date, number_of_persons`,
	search: `(customer_name ILIKE $%[1]d OR customer_email ILIKE $%[1]d)`,
	scan: func(row pgx.Row) (Reservation, error) {
		r := Reservation{Variant: VariantActivity, Activity: &ActivityBooking{}}
		var status, payment string
		a := r.Activity
		err := row.Scan(&r.ID, &status, &payment, &r.TotalPrice, &r.Notes, &r.CreatedAt, &r.UpdatedAt,
			&a.ActivityID, &a.ActivityName, &a.Customer.Name, &a.Customer.Email, &a.Customer.WhatsApp,
			&a.ReservationDate, &a.NumberOfPersons)
		r.Status, r.PaymentStatus = Status(status), PaymentStatus(payment)
		return r, err
	},
	values: func(r Reservation) []any {
		a := r.Activity
		return []any{r.ID, string(r.Status), string(r.PaymentStatus), r.TotalPrice, r.Notes,
			a.ActivityID, a.ActivityName, a.Customer.Name, a.Customer.Email, a.Customer.WhatsApp,
			a.ReservationDate, a.NumberOfPersons}
	},
}

var travelTable = table{
	name: "travel_reservations",
	columns: `id, status, payment_status, total_price, notes, created_at, updated_at,
		program_id, program_title, first_name, last_name, email, phone, preferred_date, number_of_travelers`,
	insert: `id, status, payment_status, total_price, notes,
		program_id, program_title, first_name, last_name, email, phone, preferred_date, number_of_travelers`,
	search: `(first_name ILIKE $%[1]d OR last_name ILIKE $%[1]d OR email ILIKE $%[1]d OR (first_name || ' ' || last_name) ILIKE $%[1]d)`,
	scan: func(row pgx.Row) (Reservation, error) {
		r := Reservation{Variant: VariantOrganizedTravel, Travel: &TravelBooking{}}
		var status, payment string
		t := r.Travel
		err := row.Scan(&r.ID, &status, &payment, &r.TotalPrice, &r.Notes, &r.CreatedAt, &r.UpdatedAt,
			&t.ProgramID, &t.ProgramTitle, &t.FirstName, &t.LastName, &t.Email, &t.Phone,
			&t.PreferredDate, &t.NumberOfTravelers)
		r.Status, r.PaymentStatus = Status(status), PaymentStatus(payment)
		return r, err
	},
	values: func(r Reservation) []any {
		t := r.Travel
		return []any{r.ID, string(r.Status), string(r.PaymentStatus), r.TotalPrice, r.Notes,
			t.ProgramID, t.ProgramTitle, t.FirstName, t.LastName, t.Email, t.Phone,
			t.PreferredDate, t.NumberOfTravelers}
	},
}

// Repo is the Postgres store of one variant.
type Repo struct {
	DB      *pgxpool.Pool
	Variant Variant
	t       table
}

func NewActivityRepo(db *pgxpool.Pool) *Repo {
	return &Repo{DB: db, Variant: VariantActivity, t: activityTable}
}

func NewTravelRepo(db *pgxpool.Pool) *Repo {
	return &Repo{DB: db, Variant: VariantOrganizedTravel, t: travelTable}
}

func (r *Repo) collect(rows pgx.Rows) ([]Reservation, error) {
	defer rows.Close()
	out := []Reservation{}
	for rows.Next() {
		res, err := r.t.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *Repo) where(f Filter) *postgres.Where {
	w := &postgres.Where{}
	if s := strings.TrimSpace(f.Search); s != "" {
		w.Add(r.t.search, postgres.Like(s))
	}
	if f.Status != "" {
		w.Add(`status = $%d`, string(f.Status))
	}
	if f.PaymentStatus != "" {
		w.Add(`payment_status = $%d`, string(f.PaymentStatus))
	}
	return w
}

func (r *Repo) List(ctx context.Context, f Filter) ([]Reservation, error) {
	w := r.where(f)
	rows, err := r.DB.Query(ctx, `SELECT `+r.t.columns+` FROM `+r.t.name+w.SQL()+` ORDER BY created_at DESC`, w.Args...)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// ListForExport returns the given IDs, or everything matching f when ids is empty.
func (r *Repo) ListForExport(ctx context.Context, ids []string, f Filter) ([]Reservation, error) {
	if len(ids) == 0 {
		return r.List(ctx, f)
	}
	rows, err := r.DB.Query(ctx, `SELECT `+r.t.columns+` FROM `+r.t.name+` WHERE id = ANY($1) ORDER BY created_at DESC`, ids)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *Repo) Get(ctx context.Context, id string) (Reservation, error) {
	res, err := r.t.scan(r.DB.QueryRow(ctx, `SELECT `+r.t.columns+` FROM `+r.t.name+` WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Reservation{}, ErrNotFound
	}
	return res, err
}

func (r *Repo) prepare(res Reservation) (Reservation, error) {
	res.Variant = r.Variant
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.Status == "" {
		res.Status = StatusPending
	}
	if res.PaymentStatus == "" {
		res.PaymentStatus = PaymentPending
	}
	if err := Validate(res); err != nil {
		return Reservation{}, err
	}
	return res, nil
}

func placeholders(n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ps, ",")
}

func (r *Repo) Create(ctx context.Context, res Reservation) (Reservation, error) {
	res, err := r.prepare(res)
	if err != nil {
		return Reservation{}, err
	}
	vals := r.t.values(res)
	return r.t.scan(r.DB.QueryRow(ctx,
		`INSERT INTO `+r.t.name+`(`+r.t.insert+`) VALUES (`+placeholders(len(vals))+`) RETURNING `+r.t.columns,
		vals...))
}

// Update: lock row -> cek transisi status/payment -> update. Returns the row
// before and after the change.
func (r *Repo) Update(ctx context.Context, id string, p Patch) (Reservation, Reservation, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Reservation{}, Reservation{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	before, err := r.t.scan(tx.QueryRow(ctx, `SELECT `+r.t.columns+` FROM `+r.t.name+` WHERE id=$1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Reservation{}, Reservation{}, ErrNotFound
	}
	if err != nil {
		return Reservation{}, Reservation{}, err
	}
	if err := p.Check(before); err != nil {
		return before, Reservation{}, err
	}
	if p.Empty() {
		return before, before, nil
	}

	var sets []string
	w := &postgres.Where{}
	if p.Status != nil {
		sets = append(sets, "status="+w.Placeholder(string(*p.Status)))
	}
	if p.PaymentStatus != nil {
		sets = append(sets, "payment_status="+w.Placeholder(string(*p.PaymentStatus)))
	}
	if p.Notes != nil {
		sets = append(sets, "notes="+w.Placeholder(*p.Notes))
	}
	sets = append(sets, "updated_at=now()")
	q := `UPDATE ` + r.t.name + ` SET ` + strings.Join(sets, ", ") +
		` WHERE id=` + w.Placeholder(id) + ` RETURNING ` + r.t.columns
	after, err := r.t.scan(tx.QueryRow(ctx, q, w.Args...))
	if err != nil {
		return before, Reservation{}, err
	}
	return before, after, tx.Commit(ctx)
}

// Delete is a hard delete.
func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM `+r.t.name+` WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertAll writes an import batch in one transaction. Rows are keyed by id,
// so replaying the same file is harmless. Rows replacing a stored record are
// locked and checked against its lifecycle first; one bad row rejects the file.
func (r *Repo) UpsertAll(ctx context.Context, batch []Reservation) (int, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	prepared := make([]Reservation, len(batch))
	var ids []string
	for i, res := range batch {
		if res.ID != "" {
			ids = append(ids, res.ID)
		}
		if prepared[i], err = r.prepare(res); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	existing := map[string]Reservation{}
	if len(ids) > 0 {
		rows, err := tx.Query(ctx, `SELECT `+r.t.columns+` FROM `+r.t.name+` WHERE id = ANY($1) FOR UPDATE`, ids)
		if err != nil {
			return 0, err
		}
		stored, err := r.collect(rows)
		if err != nil {
			return 0, err
		}
		for _, s := range stored {
			existing[s.ID] = s
		}
	}
	if err := CheckImport(existing, prepared); err != nil {
		return 0, err
	}

	cols := strings.Fields(strings.ReplaceAll(r.t.insert, ",", " "))
	updates := make([]string, 0, len(cols))
	for _, c := range cols[1:] {
		updates = append(updates, c+"=EXCLUDED."+c)
	}
	q := `INSERT INTO ` + r.t.name + `(` + r.t.insert + `) VALUES (` + placeholders(len(cols)) + `)
		ON CONFLICT (id) DO UPDATE SET ` + strings.Join(updates, ", ") + `, updated_at=now()`

	for i, res := range prepared {
		if _, err := tx.Exec(ctx, q, r.t.values(res)...); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(batch), nil
}
