package postgres

var schema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		id              TEXT PRIMARY KEY,
		order_number    TEXT NOT NULL UNIQUE,
		customer_name   TEXT NOT NULL DEFAULT '',
		customer_email  TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL DEFAULT 'pending',
		is_paid         BOOLEAN NOT NULL DEFAULT FALSE,
		paid_at         TIMESTAMPTZ,
		payment_result  JSONB,
		delivered_at    TIMESTAMPTZ,
		items           JSONB NOT NULL DEFAULT '[]',
		items_price     NUMERIC(12,2) NOT NULL DEFAULT 0,
		tax_price       NUMERIC(12,2) NOT NULL DEFAULT 0,
		shipping_price  NUMERIC(12,2) NOT NULL DEFAULT 0,
		total_price     NUMERIC(12,2) NOT NULL DEFAULT 0,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT orders_total_check CHECK (total_price = items_price + tax_price + shipping_price)
	)`,
	`CREATE INDEX IF NOT EXISTS orders_status_idx ON orders (status)`,
	`CREATE INDEX IF NOT EXISTS orders_created_idx ON orders (created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS products (
		id          TEXT PRIMARY KEY,
		sku         TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image       TEXT NOT NULL DEFAULT '',
		source_url  TEXT NOT NULL DEFAULT '',
		stock       INT NOT NULL DEFAULT 0 CHECK (stock >= 0),
		price       NUMERIC(12,2) NOT NULL CHECK (price > 0),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS activity_reservations (
		id                 TEXT PRIMARY KEY,
		activity_id        TEXT NOT NULL,
		activity_name      TEXT NOT NULL DEFAULT '',
		customer_name      TEXT NOT NULL,
		customer_email     TEXT NOT NULL,
		customer_whatsapp  TEXT NOT NULL DEFAULT '',
		reservation_date   TIMESTAMPTZ NOT NULL,
		number_of_persons  INT NOT NULL CHECK (number_of_persons > 0),
		status             TEXT NOT NULL DEFAULT 'pending',
		payment_status     TEXT NOT NULL DEFAULT 'pending',
		total_price        NUMERIC(12,2) NOT NULL DEFAULT 0,
		notes              TEXT NOT NULL DEFAULT '',
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS activity_reservations_created_idx ON activity_reservations (created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS travel_reservations (
		id                   TEXT PRIMARY KEY,
		program_id           TEXT NOT NULL,
		program_title        TEXT NOT NULL DEFAULT '',
		first_name           TEXT NOT NULL,
		last_name            TEXT NOT NULL,
		email                TEXT NOT NULL,
		phone                TEXT NOT NULL DEFAULT '',
		preferred_date       TIMESTAMPTZ NOT NULL,
		number_of_travelers  INT NOT NULL CHECK (number_of_travelers > 0),
		status               TEXT NOT NULL DEFAULT 'pending',
		payment_status       TEXT NOT NULL DEFAULT 'pending',
		total_price          NUMERIC(12,2) NOT NULL DEFAULT 0,
		notes                TEXT NOT NULL DEFAULT '',
		created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS travel_reservations_created_idx ON travel_reservations (created_at DESC)`,
}
