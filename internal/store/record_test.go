package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lamir/internal/constant"
	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/lam"
	"github.com/roach88/lamir/internal/primitive"
)

var (
	x = lam.Var(ident.Ident{Name: "x", Stamp: 1})
	f = lam.Var(ident.Ident{Name: "f", Stamp: 3})
)

// double is (%mul x/1 2), shared by both test units.
func double() lam.Node {
	return prim(primitive.Mul, x, lam.Const(constant.Int(2)))
}

func recordPair(t *testing.T, s *Store) (Unit, Unit) {
	t.Helper()
	ctx := context.Background()

	a, err := s.RecordUnit(ctx, "a", prim(primitive.Add, double(), double()))
	require.NoError(t, err)
	b, err := s.RecordUnit(ctx, "b", lam.Apply(f, []lam.Node{double()}, lam.ApInfo{}))
	require.NoError(t, err)
	return a, b
}

func TestRecordUnit(t *testing.T) {
	s := createTestStore(t)
	a, b := recordPair(t, s)

	assert.Equal(t, "unit-0001", a.ID)
	assert.Equal(t, int64(1), a.Seq)
	assert.Equal(t, 7, a.Size)
	assert.Equal(t, lam.DomainNode, a.IRVersion)
	assert.Equal(t, lam.MustHash(prim(primitive.Add, double(), double())), a.RootHash)

	assert.Equal(t, "unit-0002", b.ID)
	assert.Equal(t, int64(2), b.Seq)
	assert.Equal(t, 5, b.Size)

	got, err := s.Unit(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	units, err := s.Units(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Unit{a, b}, units)
}

func TestUnitNotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.Unit(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	units, err := s.Units(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, units)
	assert.Empty(t, units)
}

func TestDuplicates(t *testing.T) {
	s := createTestStore(t)
	recordPair(t, s)
	ctx := context.Background()

	dups, err := s.Duplicates(ctx, 2)
	require.NoError(t, err)
	require.Len(t, dups, 1)
	assert.Equal(t, Duplicate{
		Hash:    lam.MustHash(double()),
		Kind:    "prim",
		Size:    3,
		Printed: "(%mul x/1 2)",
		Count:   3,
		Units:   2,
	}, dups[0])

	// x/1 and 2 each occur three times as leaves.
	all, err := s.Duplicates(ctx, 1)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "(%mul x/1 2)", all[0].Printed)
	assert.ElementsMatch(t, []string{"x/1", "2"}, []string{all[1].Printed, all[2].Printed})

	none, err := s.Duplicates(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOccurrences(t *testing.T) {
	s := createTestStore(t)
	a, b := recordPair(t, s)

	occs, err := s.Occurrences(context.Background(), lam.MustHash(double()))
	require.NoError(t, err)
	assert.Equal(t, []Occurrence{
		{UnitID: a.ID, UnitName: "a", Path: "0"},
		{UnitID: a.ID, UnitName: "a", Path: "1"},
		{UnitID: b.ID, UnitName: "b", Path: "1"},
	}, occs)
}

func TestRecordUnitSkipsUnshareableNodes(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	fn := lam.Function(lam.FunctionAttr{}, 1, []ident.Ident{{Name: "y", Stamp: 2}}, double())
	u, err := s.RecordUnit(ctx, "fn", fn)
	require.NoError(t, err)

	// The function itself is not stored, its body is.
	occs, err := s.Occurrences(ctx, u.RootHash)
	require.NoError(t, err)
	assert.Empty(t, occs)

	occs, err = s.Occurrences(ctx, lam.MustHash(double()))
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, "0", occs[0].Path)
}

func TestCanonicalStoredOnce(t *testing.T) {
	s := createTestStore(t)
	recordPair(t, s)
	ctx := context.Background()

	hash := lam.MustHash(double())
	canonical, err := s.Canonical(ctx, hash)
	require.NoError(t, err)

	want, err := lam.MarshalCanonical(double())
	require.NoError(t, err)
	assert.Equal(t, string(want), canonical)

	var rows int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM subtrees WHERE hash = ?`, hash).Scan(&rows))
	assert.Equal(t, 1, rows)

	_, err = s.Canonical(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestFormatPath(t *testing.T) {
	assert.Equal(t, "", formatPath(nil))
	assert.Equal(t, "0.2.1", formatPath([]int{0, 2, 1}))
}
