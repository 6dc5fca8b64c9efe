/*
store.go - Persistence interface for contracts

PURPOSE:
  Defines the boundary between the engine and the persistence collaborator.
  The engine only ever needs read-only contract snapshots; the store is
  where the allowed mutations live.

MUTATION CONTRACT:
  A contract is created once (next sequential ID), then changed only by:
  - appending payments (additive, no edits or voids)
  - appending audit entries (append-only, never reordered or pruned)
  - recording the lien notice sent date
  - whole-record replacement from the presentation layer
  Deletion is not modeled.

IMPLEMENTATIONS:
  - engine/store:  in-memory, for tests and dev
  - store/sqlite:  production SQLite
*/
package engine

import "context"

// ContractStore persists contracts and owns all Contract instances. The
// engine receives copies and never writes back.
type ContractStore interface {
	// Create persists a new contract, assigning the next sequential ID.
	// The returned contract carries the assigned ID.
	Create(ctx context.Context, c Contract) (Contract, error)

	// Get returns one contract by ID. Returns a NotFoundError wrapping
	// ErrContractNotFound for unknown IDs.
	Get(ctx context.Context, id int) (Contract, error)

	// List returns all contracts ordered by ID.
	List(ctx context.Context) ([]Contract, error)

	// Replace performs a whole-record edit. Payments and audit entries
	// already recorded are preserved.
	Replace(ctx context.Context, c Contract) error

	// AppendPayment records a payment. Append-only.
	AppendPayment(ctx context.Context, id int, p Payment) error

	// AppendAudit records an audit-trail entry. Append-only.
	AppendAudit(ctx context.Context, id int, entry string) error

	// RecordNoticeSent sets the lien notice sent date.
	RecordNoticeSent(ctx context.Context, id int, sent Date) error
}
