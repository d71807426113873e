package redisserver

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_ReadCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"ping", "*1\r\n$4\r\nPING\r\n", []string{"PING"}},
		{"set", "*5\r\n$3\r\nSET\r\n$1\r\nA\r\n$4\r\nname\r\n$5\r\nAlice\r\n$3\r\n100\r\n", []string{"SET", "A", "name", "Alice", "100"}},
		{"empty bulk", "*3\r\n$3\r\nGET\r\n$0\r\n\r\n$1\r\nx\r\n", []string{"GET", "", "x"}},
		{"value with spaces", "*2\r\n$4\r\nPING\r\n$11\r\nhello world\r\n", []string{"PING", "hello world"}},
		{"empty array", "*0\r\n", nil},
		{"inline", "SCAN A 100\r\n", []string{"SCAN", "A", "100"}},
		{"blank inline", "   \r\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewReader(strings.NewReader(tt.input)).ReadCommand()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReader_ReadCommandErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"array too long", "*99999\r\n", ErrLimitExceeded},
		{"bulk too long", "*1\r\n$999999999\r\n", ErrLimitExceeded},
		{"bad array length", "*x\r\n", ErrProtocol},
		{"not a bulk", "*1\r\n:1\r\n", ErrProtocol},
		{"bad terminator", "*1\r\n$4\r\nPINGxx", ErrProtocol},
		{"missing CR", "*1\n", ErrProtocol},
		{"inline too long", strings.Repeat("a", MaxInlineLen+10) + "\r\n", ErrLimitExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(strings.NewReader(tt.input)).ReadCommand()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestWriter_Replies(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.Status("OK"))
	require.NoError(t, w.Error("ERR bad\r\nthing"))
	require.NoError(t, w.Integer(-2))
	require.NoError(t, w.Null())
	require.NoError(t, w.Bulk("Alice"))
	require.NoError(t, w.Strings([]string{"age : 20", "name : Alice"}))
	require.NoError(t, w.Flush())

	want := "+OK\r\n" +
		"-ERR bad  thing\r\n" +
		":-2\r\n" +
		"$-1\r\n" +
		"$5\r\nAlice\r\n" +
		"*2\r\n$8\r\nage : 20\r\n$12\r\nname : Alice\r\n"
	assert.Equal(t, want, buf.String())
}

func TestReadReply_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	_ = w.Status("PONG")
	_ = w.Error("ERR KV-BKP-4040 no backup available for restoration")
	_ = w.Integer(100)
	_ = w.Null()
	_ = w.Bulk("")
	_ = w.Strings([]string{"a", "b"})
	_ = w.ArrayHeader(-1)
	require.NoError(t, w.Flush())

	r := NewReader(&buf)

	rp, err := r.ReadReply()
	require.NoError(t, err)
	assert.Equal(t, Reply{Kind: KindStatus, Str: "PONG"}, rp)
	assert.NoError(t, rp.Err())

	rp, err = r.ReadReply()
	require.NoError(t, err)
	assert.Equal(t, KindError, rp.Kind)
	assert.EqualError(t, rp.Err(), "ERR KV-BKP-4040 no backup available for restoration")

	rp, err = r.ReadReply()
	require.NoError(t, err)
	assert.Equal(t, Reply{Kind: KindInteger, Int: 100}, rp)

	rp, err = r.ReadReply()
	require.NoError(t, err)
	assert.True(t, rp.Null)

	rp, err = r.ReadReply()
	require.NoError(t, err)
	assert.Equal(t, Reply{Kind: KindBulk}, rp)

	rp, err = r.ReadReply()
	require.NoError(t, err)
	require.Len(t, rp.Array, 2)
	assert.Equal(t, "b", rp.Array[1].Str)

	rp, err = r.ReadReply()
	require.NoError(t, err)
	assert.True(t, rp.Null)
	assert.Equal(t, KindArray, rp.Kind)
}

func TestWriter_Command(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Command("GET", "A", "name", "100"))
	require.NoError(t, w.Flush())

	args, err := NewReader(&buf).ReadCommand()
	require.NoError(t, err)
	assert.Equal(t, []string{"GET", "A", "name", "100"}, args)
}

func TestReadReply_UnknownPrefix(t *testing.T) {
	_, err := NewReader(strings.NewReader("?x\r\n")).ReadReply()
	assert.ErrorIs(t, err, ErrProtocol)
}
