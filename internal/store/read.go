package store

import (
	"context"
	"fmt"
)

// Duplicate is a subtree that occurs more than once across recorded units.
type Duplicate struct {
	Hash    string
	Kind    string
	Size    int
	Printed string
	Count   int // total occurrences
	Units   int // distinct units it occurs in
}

// Occurrence locates one copy of a subtree.
type Occurrence struct {
	UnitID   string
	UnitName string
	Path     string
}

// Unit retrieves a single unit by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) Unit(ctx context.Context, id string) (Unit, error) {
	var u Unit
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, seq, root_hash, size, ir_version
		FROM units
		WHERE id = ?
	`, id).Scan(&u.ID, &u.Name, &u.Seq, &u.RootHash, &u.Size, &u.IRVersion)
	if err != nil {
		return Unit{}, err
	}
	return u, nil
}

// Units returns all units in recording order.
// Returns an empty slice (not nil) if none exist.
func (s *Store) Units(ctx context.Context) ([]Unit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, seq, root_hash, size, ir_version
		FROM units
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query units: %w", err)
	}
	defer rows.Close()

	units := []Unit{}
	for rows.Next() {
		var u Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.Seq, &u.RootHash, &u.Size, &u.IRVersion); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate units: %w", err)
	}
	return units, nil
}

// Duplicates lists subtrees of at least minSize nodes that occur more than
// once, largest first. Ties are broken by occurrence count, then hash.
// Returns an empty slice (not nil) if there are none.
func (s *Store) Duplicates(ctx context.Context, minSize int) ([]Duplicate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.hash, s.kind, s.size, s.printed, COUNT(*) AS n, COUNT(DISTINCT o.unit_id)
		FROM occurrences o
		JOIN subtrees s ON s.hash = o.hash
		WHERE s.size >= ?
		GROUP BY s.hash
		HAVING n > 1
		ORDER BY s.size DESC, n DESC, s.hash COLLATE BINARY ASC
	`, minSize)
	if err != nil {
		return nil, fmt.Errorf("query duplicates: %w", err)
	}
	defer rows.Close()

	dups := []Duplicate{}
	for rows.Next() {
		var d Duplicate
		if err := rows.Scan(&d.Hash, &d.Kind, &d.Size, &d.Printed, &d.Count, &d.Units); err != nil {
			return nil, fmt.Errorf("scan duplicate: %w", err)
		}
		dups = append(dups, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate duplicates: %w", err)
	}
	return dups, nil
}

// Occurrences lists where the subtree with the given hash appears, in unit
// recording order and then by path.
func (s *Store) Occurrences(ctx context.Context, hash string) ([]Occurrence, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.unit_id, u.name, o.path
		FROM occurrences o
		JOIN units u ON u.id = o.unit_id
		WHERE o.hash = ?
		ORDER BY u.seq ASC, o.path COLLATE BINARY ASC
	`, hash)
	if err != nil {
		return nil, fmt.Errorf("query occurrences: %w", err)
	}
	defer rows.Close()

	occs := []Occurrence{}
	for rows.Next() {
		var o Occurrence
		if err := rows.Scan(&o.UnitID, &o.UnitName, &o.Path); err != nil {
			return nil, fmt.Errorf("scan occurrence: %w", err)
		}
		occs = append(occs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate occurrences: %w", err)
	}
	return occs, nil
}

// Canonical returns the canonical JSON of a stored subtree.
// Returns sql.ErrNoRows if the hash is unknown.
func (s *Store) Canonical(ctx context.Context, hash string) (string, error) {
	var canonical string
	err := s.db.QueryRowContext(ctx, `SELECT canonical FROM subtrees WHERE hash = ?`, hash).Scan(&canonical)
	return canonical, err
}
