package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/manybody/secondq/errors"
)

// Derivation is one archived derivation run.
type Derivation struct {
	ID        string
	Name      string
	Kind      string
	Input     string
	Result    string
	TermCount int
	Order     int
	CreatedAt time.Time
}

// DerivationStore persists derivation results in the archive.
type DerivationStore struct {
	db *sql.DB
}

// NewDerivationStore creates a store over an open archive handle.
func NewDerivationStore(db *sql.DB) *DerivationStore {
	return &DerivationStore{db: db}
}

// Save inserts d into the archive, assigning an id and creation time if
// they are unset. The stored record is returned.
func (s *DerivationStore) Save(ctx context.Context, d *Derivation) (*Derivation, error) {
	if d.Name == "" {
		return nil, errors.Configurationf("derivation needs a name")
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO derivations (id, name, kind, input, result, term_count, bch_order, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Kind, d.Input, d.Result, d.TermCount, d.Order, d.CreatedAt,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "save derivation %s", d.Name)
	}
	return d, nil
}

// Get returns the derivation with the given id.
func (s *DerivationStore) Get(ctx context.Context, id string) (*Derivation, error) {
	d := &Derivation{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, kind, input, result, term_count, bch_order, created_at
		 FROM derivations WHERE id = ?`,
		id,
	).Scan(&d.ID, &d.Name, &d.Kind, &d.Input, &d.Result, &d.TermCount, &d.Order, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("derivation %s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get derivation %s", id)
	}
	return d, nil
}

// List returns archived derivations, newest first.
func (s *DerivationStore) List(ctx context.Context) ([]*Derivation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, kind, input, result, term_count, bch_order, created_at
		 FROM derivations ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list derivations")
	}
	defer rows.Close()

	var out []*Derivation
	for rows.Next() {
		d := &Derivation{}
		if err := rows.Scan(&d.ID, &d.Name, &d.Kind, &d.Input, &d.Result, &d.TermCount, &d.Order, &d.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan derivation")
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate derivations")
	}
	return out, nil
}

// Delete removes the derivation with the given id.
func (s *DerivationStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM derivations WHERE id = ?", id)
	if err != nil {
		return errors.Wrapf(err, "delete derivation %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return errors.NotFoundf("derivation %s", id)
	}
	return nil
}
