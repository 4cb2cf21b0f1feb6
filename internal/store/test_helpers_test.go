package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/lamir/internal/ident"
	"github.com/roach88/lamir/internal/lam"
	"github.com/roach88/lamir/internal/primitive"
	"github.com/roach88/lamir/internal/testutil"
)

// createTestStore creates a new store in a temp directory with sequential
// unit ids ("unit-0001", ...).
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(testutil.NewSequentialIDGenerator("unit")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func prim(p primitive.Primitive, args ...lam.Node) lam.Node {
	return lam.Prim(p, args, ident.None)
}
