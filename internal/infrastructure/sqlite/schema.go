package sqlite

// schema se aplica al abrir; el orden respeta las llaves foráneas.
// Importes como TEXT con dos decimales fijos y fechas como TEXT RFC3339.
const schema = `
CREATE TABLE IF NOT EXISTS customers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    phone TEXT NOT NULL UNIQUE,
    vehicle TEXT NOT NULL DEFAULT '',
    credit TEXT NOT NULL DEFAULT '0.00',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bills (
    id INTEGER PRIMARY KEY,
    customer_id TEXT NOT NULL,
    items TEXT NOT NULL DEFAULT '[]',
    subtotal TEXT NOT NULL,
    discount TEXT NOT NULL,
    total TEXT NOT NULL,
    paid_amount TEXT NOT NULL,
    credit TEXT NOT NULL,
    excess TEXT NOT NULL DEFAULT '0.00',
    date TEXT NOT NULL,
    FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS payments (
    id TEXT PRIMARY KEY,
    customer_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    date TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_bills_customer_id ON bills(customer_id);
CREATE INDEX IF NOT EXISTS idx_payments_customer_id ON payments(customer_id);
`
