package streamz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRequiresServers(t *testing.T) {
	_, err := Connect(Config{"group.id": "g1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bootstrap.servers")
}

func TestAppendLines(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		delimiter string
		want      []any
	}{
		{"single line", `{"a":1}`, "\n", []any{`{"a":1}`}},
		{"multiple lines", "a\nb\nc", "\n", []any{"a", "b", "c"}},
		{"trailing delimiter", "a\nb\n", "\n", []any{"a", "b"}},
		{"empty payload", "", "\n", nil},
		{"custom delimiter", "a|b", "|", []any{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := appendLines(nil, []byte(tt.payload), tt.delimiter)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAppendLinesAccumulates(t *testing.T) {
	rows := appendLines(nil, []byte("a\nb"), "\n")
	rows = appendLines(rows, []byte("c"), "\n")
	assert.Equal(t, []any{"a", "b", "c"}, rows)
}
