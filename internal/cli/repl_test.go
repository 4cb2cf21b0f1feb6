package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPrompter replays fixed lines, then reports EOF.
type scriptedPrompter struct {
	lines   []string
	history []string
}

func (p *scriptedPrompter) Prompt(string) (string, error) {
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func (p *scriptedPrompter) AppendHistory(item string) {
	p.history = append(p.history, item)
}

func runSession(t *testing.T, lines ...string) (string, *scriptedPrompter) {
	t.Helper()
	p := &scriptedPrompter{lines: lines}
	var out bytes.Buffer
	s := newSession(&ReplOptions{RootOptions: &RootOptions{}})
	require.NoError(t, s.loop(context.Background(), p, &out))
	return out.String(), p
}

func TestRepl_EvaluatesWithBindings(t *testing.T) {
	out, p := runSession(t,
		":set x/1 41",
		"",
		"{prim: {name: add, args: [{var: x/1}, 1]}}",
		":set s/2 hi",
		":env",
	)

	assert.Equal(t, strings.Join([]string{
		"x/1 = 41",
		"(%add x/1 1)",
		"=> 42",
		`s/2 = "hi"`,
		`s/2 = "hi"`,
		"x/1 = 41",
		"",
		"",
	}, "\n"), out)
	assert.Len(t, p.history, 4, "blank lines stay out of history")
}

func TestRepl_Commands(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"help", ":help", ":set <ident> <value>"},
		{"hash parse error", ":hash [1", "error:"},
		{"unknown", ":frob", "unknown command :frob. Type :help for help."},
		{"set usage", ":set x/1", "usage: :set <ident> <value>"},
		{"set bad ident", ":set x/0 1", "stamp must be positive"},
		{"parse error", "{lambda: 1}", "error: decode"},
		{"runtime error", "{var: y/2}", "error:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := runSession(t, tt.line)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestRepl_Hash(t *testing.T) {
	out, _ := runSession(t, ":hash {var: x/1}", ":hash {var: x/1}", ":hash {var: x/2}")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^[0-9a-f]{64}$`, lines[0])
	assert.Equal(t, lines[0], lines[1])
	assert.NotEqual(t, lines[0], lines[2])
}

func TestRepl_Quit(t *testing.T) {
	out, p := runSession(t, "1", ":quit", "2")
	assert.Equal(t, "1\n=> 1\n", out)
	assert.Equal(t, []string{"1", ":quit"}, p.history)
}

func TestRepl_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newSession(&ReplOptions{RootOptions: &RootOptions{}})
	err := s.loop(ctx, &scriptedPrompter{lines: []string{"1"}}, io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}
