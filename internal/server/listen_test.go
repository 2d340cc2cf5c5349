package server

import (
	"context"
	"net"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListen_FallsBackWhenPortBusy(t *testing.T) {
	busy, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer busy.Close()

	taken := Port(busy)
	if taken == MaxPort {
		t.Skip("kernel handed out the last port")
	}

	ln, err := Listen(context.Background(), taken, zerolog.Nop())
	require.NoError(t, err)
	defer ln.Close()

	assert.Greater(t, Port(ln), taken)
}

func TestListen_UsesRequestedPortWhenFree(t *testing.T) {
	probe, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	free := Port(probe)
	require.NoError(t, probe.Close())

	ln, err := Listen(context.Background(), free, zerolog.Nop())
	require.NoError(t, err)
	defer ln.Close()

	assert.Equal(t, free, Port(ln))
}

func TestListen_RejectsOutOfRangePort(t *testing.T) {
	_, err := Listen(context.Background(), MaxPort+1, zerolog.Nop())
	assert.Error(t, err)
}
