package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/lamir/internal/lam"
	"github.com/roach88/lamir/internal/pass"
)

// Unit is a recorded compilation unit.
type Unit struct {
	ID        string
	Name      string
	Seq       int64 // logical insertion order, starting at 1
	RootHash  string
	Size      int // node count of the root
	IRVersion string
}

// RecordUnit stores root as a new unit named name, together with every
// shareable subtree and where it occurs. Subtrees already known from earlier
// units are not stored again. The whole unit is written in one transaction.
func (s *Store) RecordUnit(ctx context.Context, name string, root lam.Node) (Unit, error) {
	rootHash, err := lam.Hash(root)
	if err != nil {
		return Unit{}, fmt.Errorf("record unit: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Unit{}, fmt.Errorf("record unit: begin: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM units`).Scan(&seq); err != nil {
		return Unit{}, fmt.Errorf("record unit: next seq: %w", err)
	}

	u := Unit{
		ID:        s.ids.Generate(),
		Name:      name,
		Seq:       seq,
		RootHash:  rootHash,
		Size:      pass.Size(root),
		IRVersion: lam.DomainNode,
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO units (id, name, seq, root_hash, size, ir_version)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.ID, u.Name, u.Seq, u.RootHash, u.Size, u.IRVersion)
	if err != nil {
		return Unit{}, fmt.Errorf("record unit: insert unit: %w", err)
	}

	count, err := recordSubtrees(ctx, tx, u.ID, root)
	if err != nil {
		return Unit{}, fmt.Errorf("record unit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Unit{}, fmt.Errorf("record unit: commit: %w", err)
	}
	s.logger.Info("unit recorded", "id", u.ID, "name", u.Name, "seq", u.Seq, "size", u.Size, "subtrees", count)
	return u, nil
}

func recordSubtrees(ctx context.Context, tx *sql.Tx, unitID string, root lam.Node) (int, error) {
	insertSubtree, err := tx.PrepareContext(ctx, `
		INSERT INTO subtrees (hash, kind, size, printed, canonical)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare subtree insert: %w", err)
	}
	defer insertSubtree.Close()

	insertOccurrence, err := tx.PrepareContext(ctx, `
		INSERT INTO occurrences (unit_id, path, hash) VALUES (?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare occurrence insert: %w", err)
	}
	defer insertOccurrence.Close()

	count := 0
	var walkErr error
	pass.Subterms(root, func(path []int, n lam.Node) bool {
		if walkErr != nil {
			return false
		}
		if !lam.EqApprox(n, n) {
			return true
		}
		canonical, err := lam.MarshalCanonical(n)
		if err != nil {
			walkErr = err
			return false
		}
		hash, err := lam.Hash(n)
		if err != nil {
			walkErr = err
			return false
		}
		if _, err := insertSubtree.ExecContext(ctx, hash, n.Kind().String(), pass.Size(n), lam.Print(n), string(canonical)); err != nil {
			walkErr = fmt.Errorf("insert subtree: %w", err)
			return false
		}
		if _, err := insertOccurrence.ExecContext(ctx, unitID, formatPath(path), hash); err != nil {
			walkErr = fmt.Errorf("insert occurrence: %w", err)
			return false
		}
		count++
		return true
	})
	return count, walkErr
}

// formatPath renders child indices as "0.2.1"; the root is "".
func formatPath(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ".")
}
