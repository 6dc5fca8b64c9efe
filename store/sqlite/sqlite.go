/*
Package sqlite provides the SQLite-backed contract store.

PURPOSE:
  Implements engine.ContractStore using SQLite. In production, the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

APPEND-ONLY ENFORCEMENT:
  Payments and audit entries are append-only:
  - No UPDATE statements on payments or audit_log
  - No DELETE statements anywhere; deletion is not modeled
  - Whole-record Replace never touches the payments or audit_log tables

KEY TABLES:
  contracts:  One row per contract. Lifecycle-critical fields (type, rate
              mode, dates, status) live in real columns; the rest of the
              record (customer, vehicle, rates, fees, notes) travels as a
              JSON document in detail_json.
  payments:   Immutable financial history, ordered by rowid
  audit_log:  Immutable history entries, ordered by rowid

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/lot.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - engine/store.go: Interface definition and mutation contract
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/suncoast/lot-engine/engine"
)

// Store implements engine.ContractStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ engine.ContractStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Contracts (one row per vehicle stay)
	CREATE TABLE IF NOT EXISTS contracts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contract_type TEXT NOT NULL,
		rate_mode TEXT NOT NULL,
		start_date TEXT NOT NULL,
		notice_sent_date TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'active',
		detail_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_contracts_type
		ON contracts(contract_type);
	CREATE INDEX IF NOT EXISTS idx_contracts_status
		ON contracts(status);

	-- Payments (append-only financial history)
	CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contract_id INTEGER NOT NULL REFERENCES contracts(id),
		paid_on TEXT NOT NULL,
		amount TEXT NOT NULL,
		method TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payments_contract
		ON payments(contract_id);

	-- Audit log (append-only history entries)
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		contract_id INTEGER NOT NULL REFERENCES contracts(id),
		entry TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_contract
		ON audit_log(contract_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DETAIL DOCUMENT
// =============================================================================

// contractDetail is the JSON sidecar for the fields the store never queries
// by. Payments and the audit log are NOT in here; they have their own
// append-only tables.
type contractDetail struct {
	Customer engine.Customer     `json:"customer"`
	Vehicle  engine.Vehicle      `json:"vehicle"`
	Daily    engine.Money        `json:"daily_storage_fee"`
	Weekly   engine.Money        `json:"weekly_storage_fee"`
	Monthly  engine.Money        `json:"monthly_storage_fee"`
	Tow      engine.TowFees      `json:"tow"`
	Recovery engine.RecoveryFees `json:"recovery"`
	AdminFee engine.Money        `json:"admin_fee"`
	Notes    []string            `json:"notes"`
}

func detailOf(c engine.Contract) contractDetail {
	return contractDetail{
		Customer: c.Customer,
		Vehicle:  c.Vehicle,
		Daily:    c.DailyRate,
		Weekly:   c.WeeklyRate,
		Monthly:  c.MonthlyRate,
		Tow:      c.Tow,
		Recovery: c.Recovery,
		AdminFee: c.AdminFee,
		Notes:    c.Notes,
	}
}

func (d contractDetail) applyTo(c *engine.Contract) {
	c.Customer = d.Customer
	c.Vehicle = d.Vehicle
	c.DailyRate = d.Daily
	c.WeeklyRate = d.Weekly
	c.MonthlyRate = d.Monthly
	c.Tow = d.Tow
	c.Recovery = d.Recovery
	c.AdminFee = d.AdminFee
	c.Notes = d.Notes
}

// =============================================================================
// CONTRACT STORE (engine.ContractStore interface)
// =============================================================================

// Create persists a new contract and returns it with the assigned ID.
func (s *Store) Create(ctx context.Context, c engine.Contract) (engine.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	detailJSON, err := json.Marshal(detailOf(c))
	if err != nil {
		return engine.Contract{}, fmt.Errorf("failed to encode contract: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	status := c.Status
	if status == "" {
		status = "active"
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO contracts
		(contract_type, rate_mode, start_date, notice_sent_date, status, detail_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		string(c.Type),
		string(c.RateMode),
		dateColumn(c.StartDate),
		dateColumn(c.NoticeSentDate),
		status,
		string(detailJSON),
		now,
		now,
	)
	if err != nil {
		return engine.Contract{}, fmt.Errorf("failed to insert contract: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return engine.Contract{}, fmt.Errorf("failed to read contract id: %w", err)
	}

	c.ID = int(id)
	c.Status = status

	for _, p := range c.Payments {
		if err := s.insertPayment(ctx, c.ID, p); err != nil {
			return engine.Contract{}, err
		}
	}
	for _, entry := range c.AuditLog {
		if err := s.insertAudit(ctx, c.ID, entry); err != nil {
			return engine.Contract{}, err
		}
	}

	return c, nil
}

// Get returns one contract by ID.
func (s *Store) Get(ctx context.Context, id int) (engine.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getContract(ctx, id)
}

func (s *Store) getContract(ctx context.Context, id int) (engine.Contract, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, contract_type, rate_mode, start_date, notice_sent_date, status, detail_json
		FROM contracts WHERE id = ?
	`, id)

	c, err := scanContract(row)
	if err == sql.ErrNoRows {
		return engine.Contract{}, &engine.NotFoundError{ContractID: id}
	}
	if err != nil {
		return engine.Contract{}, fmt.Errorf("failed to load contract %d: %w", id, err)
	}

	if c.Payments, err = s.loadPayments(ctx, id); err != nil {
		return engine.Contract{}, err
	}
	if c.AuditLog, err = s.loadAudit(ctx, id); err != nil {
		return engine.Contract{}, err
	}
	return c, nil
}

// List returns all contracts ordered by ID.
func (s *Store) List(ctx context.Context) ([]engine.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, contract_type, rate_mode, start_date, notice_sent_date, status, detail_json
		FROM contracts ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []engine.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range contracts {
		id := contracts[i].ID
		if contracts[i].Payments, err = s.loadPayments(ctx, id); err != nil {
			return nil, err
		}
		if contracts[i].AuditLog, err = s.loadAudit(ctx, id); err != nil {
			return nil, err
		}
	}
	return contracts, nil
}

// Replace performs a whole-record edit. The payments and audit_log tables
// are untouched; whatever the caller put in those fields is ignored.
func (s *Store) Replace(ctx context.Context, c engine.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	detailJSON, err := json.Marshal(detailOf(c))
	if err != nil {
		return fmt.Errorf("failed to encode contract: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE contracts
		SET contract_type = ?, rate_mode = ?, start_date = ?, notice_sent_date = ?,
		    status = ?, detail_json = ?, updated_at = ?
		WHERE id = ?
	`,
		string(c.Type),
		string(c.RateMode),
		dateColumn(c.StartDate),
		dateColumn(c.NoticeSentDate),
		c.Status,
		string(detailJSON),
		time.Now().UTC().Format(time.RFC3339),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contract %d: %w", c.ID, err)
	}
	return requireRow(res, c.ID)
}

// AppendPayment records a payment. Append-only.
func (s *Store) AppendPayment(ctx context.Context, id int, p engine.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireContract(ctx, id); err != nil {
		return err
	}
	return s.insertPayment(ctx, id, p)
}

// AppendAudit records an audit-trail entry. Append-only.
func (s *Store) AppendAudit(ctx context.Context, id int, entry string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireContract(ctx, id); err != nil {
		return err
	}
	return s.insertAudit(ctx, id, entry)
}

// RecordNoticeSent sets the lien notice sent date.
func (s *Store) RecordNoticeSent(ctx context.Context, id int, sent engine.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE contracts SET notice_sent_date = ?, updated_at = ? WHERE id = ?
	`, dateColumn(sent), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to record notice for contract %d: %w", id, err)
	}
	return requireRow(res, id)
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) insertPayment(ctx context.Context, id int, p engine.Payment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (contract_id, paid_on, amount, method, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		id,
		dateColumn(p.Date),
		p.Amount.Value.String(),
		p.Method,
		p.Note,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment for contract %d: %w", id, err)
	}
	return nil
}

func (s *Store) insertAudit(ctx context.Context, id int, entry string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log (contract_id, entry, created_at)
		VALUES (?, ?, ?)
	`, id, entry, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert audit entry for contract %d: %w", id, err)
	}
	return nil
}

func (s *Store) loadPayments(ctx context.Context, id int) ([]engine.Payment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT paid_on, amount, method, note FROM payments
		WHERE contract_id = ? ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments for contract %d: %w", id, err)
	}
	defer rows.Close()

	var payments []engine.Payment
	for rows.Next() {
		var paidOn, amount, method, note string
		if err := rows.Scan(&paidOn, &amount, &method, &note); err != nil {
			return nil, err
		}
		p := engine.Payment{
			Amount: engine.MustParseMoney(amount),
			Method: method,
			Note:   note,
		}
		if paidOn != "" {
			d, err := engine.ParseDate(paidOn)
			if err != nil {
				return nil, fmt.Errorf("bad payment date %q for contract %d: %w", paidOn, id, err)
			}
			p.Date = d
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (s *Store) loadAudit(ctx context.Context, id int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry FROM audit_log WHERE contract_id = ? ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit log for contract %d: %w", id, err)
	}
	defer rows.Close()

	var entries []string
	for rows.Next() {
		var entry string
		if err := rows.Scan(&entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) requireContract(ctx context.Context, id int) error {
	var found int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM contracts WHERE id = ?`, id).Scan(&found)
	if err == sql.ErrNoRows {
		return &engine.NotFoundError{ContractID: id}
	}
	return err
}

func requireRow(res sql.Result, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &engine.NotFoundError{ContractID: id}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(row rowScanner) (engine.Contract, error) {
	var (
		c          engine.Contract
		ctype      string
		rateMode   string
		startDate  string
		noticeSent string
		detailJSON string
	)
	if err := row.Scan(&c.ID, &ctype, &rateMode, &startDate, &noticeSent, &c.Status, &detailJSON); err != nil {
		return engine.Contract{}, err
	}

	c.Type = engine.ContractType(ctype)
	c.RateMode = engine.RateMode(rateMode)

	if startDate != "" {
		d, err := engine.ParseDate(startDate)
		if err != nil {
			return engine.Contract{}, fmt.Errorf("bad start date %q: %w", startDate, err)
		}
		c.StartDate = d
	}
	if noticeSent != "" {
		d, err := engine.ParseDate(noticeSent)
		if err != nil {
			return engine.Contract{}, fmt.Errorf("bad notice date %q: %w", noticeSent, err)
		}
		c.NoticeSentDate = d
	}

	var detail contractDetail
	if err := json.Unmarshal([]byte(detailJSON), &detail); err != nil {
		return engine.Contract{}, fmt.Errorf("bad detail document: %w", err)
	}
	detail.applyTo(&c)

	return c, nil
}

// dateColumn stores dates as YYYY-MM-DD text; the zero Date is stored as an
// empty string.
func dateColumn(d engine.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}
