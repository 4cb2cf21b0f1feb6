package ident

import (
	"math"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentString(t *testing.T) {
	assert.Equal(t, "Js", Global("Js").String())
	assert.Equal(t, "x/3", Ident{Name: "x", Stamp: 3}.String())
	assert.True(t, Global("Belt").IsGlobal())
	assert.False(t, Ident{Name: "x", Stamp: 1}.IsGlobal())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Ident
	}{
		{"x", Ident{Name: "x"}},
		{"x/12", Ident{Name: "x", Stamp: 12}},
		{"a/b", Ident{Name: "a/b"}},
		{"/3", Ident{Name: "/3"}},
		{"x/", Ident{Name: "x/"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)

	_, err = Parse("x/0")
	assert.Error(t, err)

	_, err = Parse("x/99999999999999999999")
	require.Error(t, err)
	assert.ErrorIs(t, err, strconv.ErrRange)
}

func TestParseLargestStamp(t *testing.T) {
	id, err := Parse("x/9223372036854775807")
	require.NoError(t, err)
	assert.Equal(t, Ident{Name: "x", Stamp: math.MaxInt64}, id)
	assert.Equal(t, "x/9223372036854775807", id.String())
}

func TestParseRoundTrip(t *testing.T) {
	for _, id := range []Ident{{Name: "f", Stamp: 7}, Global("Js_array")} {
		got, err := Parse(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestIdentAsMapKey(t *testing.T) {
	m := map[Ident]int{}
	m[Ident{Name: "x", Stamp: 1}] = 1
	m[Ident{Name: "x", Stamp: 2}] = 2

	assert.Equal(t, 1, m[Ident{Name: "x", Stamp: 1}])
	assert.Len(t, m, 2)
}

func TestSetSorted(t *testing.T) {
	s := NewSet(
		Ident{Name: "y", Stamp: 1},
		Ident{Name: "x", Stamp: 2},
		Ident{Name: "x", Stamp: 1},
	)
	s.Insert(Ident{Name: "x", Stamp: 1})

	assert.Equal(t, []Ident{
		{Name: "x", Stamp: 1},
		{Name: "x", Stamp: 2},
		{Name: "y", Stamp: 1},
	}, Sorted(s))
}

func TestLoc(t *testing.T) {
	assert.True(t, None.IsNone())
	assert.Equal(t, "_none_", None.String())
	assert.Equal(t, "a.res:3:4", Loc{File: "a.res", Line: 3, Col: 4}.String())
}

func TestGeneratorFresh(t *testing.T) {
	g := NewGenerator()
	a := g.Fresh("x")
	b := g.Fresh("x")

	assert.Equal(t, int64(1), a.Stamp)
	assert.Equal(t, int64(2), b.Stamp)
	assert.NotEqual(t, a, b)
	assert.Equal(t, int64(2), g.Current())
}

func TestGeneratorAt(t *testing.T) {
	g := NewGeneratorAt(41)
	assert.Equal(t, int64(42), g.Fresh("k").Stamp)
}

func TestGeneratorConcurrent(t *testing.T) {
	g := NewGenerator()
	var wg sync.WaitGroup
	seen := make(chan int64, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- g.Fresh("t").Stamp
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[int64]bool{}
	for s := range seen {
		unique[s] = true
	}
	assert.Len(t, unique, 100)
}
