package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Stamps are stored as text in models.StampLayout; amounts are stored as
// exact decimal strings, never REAL.
const schema = `
CREATE TABLE IF NOT EXISTS groups (
    token TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    currency TEXT NOT NULL,
    created_at TEXT NOT NULL,
    modified_at TEXT NOT NULL,
    status INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS group_members (
    uuid TEXT PRIMARY KEY,
    group_token TEXT NOT NULL,
    nickname TEXT NOT NULL,
    modified_at TEXT NOT NULL,
    status INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS transactions (
    uuid TEXT PRIMARY KEY,
    group_token TEXT NOT NULL,
    description TEXT NOT NULL,
    amount TEXT NOT NULL,
    currency TEXT NOT NULL,
    exchange_rate TEXT NOT NULL,
    paid_by TEXT NOT NULL,
    created_at TEXT NOT NULL,
    modified_at TEXT NOT NULL,
    status INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS debts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    transaction_uuid TEXT NOT NULL,
    member_uuid TEXT NOT NULL,
    amount TEXT NOT NULL,
    FOREIGN KEY (transaction_uuid) REFERENCES transactions(uuid) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS user_bindings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    group_token TEXT NOT NULL UNIQUE,
    member_uuid TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_group_members_group_token ON group_members(group_token);
CREATE INDEX IF NOT EXISTS idx_transactions_group_token ON transactions(group_token);
CREATE INDEX IF NOT EXISTS idx_debts_transaction_uuid ON debts(transaction_uuid);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
