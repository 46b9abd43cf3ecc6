package ioloop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftwoodterm/core/decoder"
	"driftwoodterm/core/screen"
)

type fakePty struct {
	toRead  [][]byte
	written []byte
}

func (f *fakePty) Read(buf []byte) (int, error) {
	if len(f.toRead) == 0 {
		return 0, nil
	}
	chunk := f.toRead[0]
	f.toRead = f.toRead[1:]
	n := copy(buf, chunk)
	return n, nil
}

func (f *fakePty) Write(data []byte) (int, error) {
	f.written = append(f.written, data...)
	return len(data), nil
}

type identityResolver struct{}

func (identityResolver) Get(cp rune) uint16 { return uint16(cp) }

func TestTickAppliesPrintedText(t *testing.T) {
	pty := &fakePty{toRead: [][]byte{[]byte("hello")}}
	grid := screen.NewGrid(10, 2)
	dec := decoder.New(nil)
	loop := New(dec, grid, pty, pty, nil)

	n, err := loop.Tick(identityResolver{})
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", grid.VisibleText())
}

func TestTickFlushesQueuedKeystrokesBeforeReading(t *testing.T) {
	pty := &fakePty{}
	grid := screen.NewGrid(10, 2)
	dec := decoder.New(nil)
	loop := New(dec, grid, pty, pty, nil)

	loop.QueueKeystroke([]byte("ls\n"))
	_, err := loop.Tick(identityResolver{})
	require.NoError(t, err)
	assert.Equal(t, []byte("ls\n"), pty.written)
}

func TestTickFiresTitleCallback(t *testing.T) {
	pty := &fakePty{toRead: [][]byte{[]byte("\x1b]0;my title\x07")}}
	grid := screen.NewGrid(10, 2)
	dec := decoder.New(nil)
	loop := New(dec, grid, pty, pty, nil)

	var gotTitle string
	loop.OnTitle(func(s string) { gotTitle = s })

	_, err := loop.Tick(identityResolver{})
	require.NoError(t, err)
	assert.Equal(t, "my title", gotTitle)
}

func TestTickRespondsToDeviceStatusReport(t *testing.T) {
	pty := &fakePty{toRead: [][]byte{[]byte("\x1b[6n")}}
	grid := screen.NewGrid(10, 2)
	dec := decoder.New(nil)
	loop := New(dec, grid, pty, pty, nil)

	_, err := loop.Tick(identityResolver{})
	require.NoError(t, err)
	assert.Equal(t, "\x1b[1;1R", string(pty.written))
}

func TestTickHandlesNoPendingData(t *testing.T) {
	pty := &fakePty{}
	grid := screen.NewGrid(10, 2)
	dec := decoder.New(nil)
	loop := New(dec, grid, pty, pty, nil)

	n, err := loop.Tick(identityResolver{})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
