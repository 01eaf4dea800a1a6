package svgdevice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	buf    bytes.Buffer
	broken bool
	closed bool
}

func (c *fakeConn) Write(p []byte) (int, error) {
	if c.broken {
		return 0, io.ErrClosedPipe
	}
	return c.buf.Write(p)
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

// fakeLink hands out the prepared connections in order
type fakeLink struct {
	conns []*fakeConn
	dials int
}

func (l *fakeLink) dial(context.Context) (io.WriteCloser, error) {
	l.dials++
	if len(l.conns) == 0 {
		return nil, errRefused
	}
	c := l.conns[0]
	l.conns = l.conns[1:]
	return c, nil
}

func quickOptions() SessionOptions {
	return SessionOptions{BackOff: &backoff.ZeroBackOff{}}
}

func TestSessionSend(t *testing.T) {
	conn := new(fakeConn)
	link := fakeLink{conns: []*fakeConn{conn}}
	s := NewSession(link.dial, quickOptions())
	assert.False(t, s.Healthy())

	require.NoError(t, s.Open(context.Background()))
	require.NoError(t, s.Send(context.Background(), "l on"))
	require.NoError(t, s.Send(context.Background(), "m 1,2"))
	assert.Equal(t, "l on\nm 1,2\n", conn.buf.String())
	assert.True(t, s.Healthy())
	assert.Equal(t, 1, link.dials)

	require.NoError(t, s.Close())
	assert.True(t, conn.closed)
	assert.False(t, s.Healthy())
}

func TestSessionLineEnding(t *testing.T) {
	conn := new(fakeConn)
	link := fakeLink{conns: []*fakeConn{conn}}
	opts := quickOptions()
	opts.LineEnding = "\r\n"
	s := NewSession(link.dial, opts)
	require.NoError(t, s.Send(context.Background(), "s roam"))
	assert.Equal(t, "s roam\r\n", conn.buf.String())
}

func TestSessionReconnects(t *testing.T) {
	first, second := &fakeConn{broken: true}, new(fakeConn)
	link := fakeLink{conns: []*fakeConn{first, second}}
	s := NewSession(link.dial, quickOptions())

	require.NoError(t, s.Send(context.Background(), "l off"))
	assert.Equal(t, 2, link.dials)
	assert.True(t, first.closed)
	assert.Equal(t, "l off\n", second.buf.String())
}

func TestSessionGivesUp(t *testing.T) {
	var link fakeLink
	opts := quickOptions()
	opts.MaxTries = 3
	s := NewSession(link.dial, opts)

	err := s.Send(context.Background(), "l on")
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "l on", te.Line)
	assert.ErrorIs(t, err, errRefused)
	assert.Equal(t, 3, link.dials)
	assert.False(t, s.Healthy())
}

func TestSessionSerializesWrites(t *testing.T) {
	conn := new(fakeConn)
	link := fakeLink{conns: []*fakeConn{conn}}
	s := NewSession(link.dial, quickOptions())

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				assert.NoError(t, s.Send(context.Background(), fmt.Sprintf("m %d,%d", g, i)))
			}
		}(g)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(conn.buf.String(), "\n"), "\n")
	assert.Len(t, lines, 8*50)
	for _, line := range lines {
		var g, i int
		_, err := fmt.Sscanf(line, "m %d,%d", &g, &i)
		assert.NoError(t, err, line)
	}
}

func TestDriverOnSession(t *testing.T) {
	conn := new(fakeConn)
	link := fakeLink{conns: []*fakeConn{conn}}
	s := NewSession(link.dial, quickOptions())
	d := NewDriver(s, Options{})
	require.NoError(t, d.Delegate(context.Background()))
	_, err := d.Play(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "s delegate\n", conn.buf.String())
}

func TestBoardName(t *testing.T) {
	assert.Equal(t, "Arduino/Genuino Uno", BoardName("uno"))
	assert.Equal(t, "Arduino/Genuino Mega or Mega 2560", BoardName("MEGA"))
	assert.Equal(t, "Teensy", BoardName("Teensy"))
}
