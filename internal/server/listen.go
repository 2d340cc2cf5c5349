package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"
)

// MaxPort is the highest TCP port Listen will try.
const MaxPort = 65535

// Listen binds a TCP listener on port. When the port is taken it moves on to
// the next one until a free port is found or MaxPort is passed. Errors other
// than "address in use" are returned immediately.
func Listen(ctx context.Context, port int, log zerolog.Logger) (net.Listener, error) {
	if port < 0 || port > MaxPort {
		return nil, fmt.Errorf("invalid port %d", port)
	}

	var lc net.ListenConfig
	for p := port; p <= MaxPort; p++ {
		ln, err := lc.Listen(ctx, "tcp", ":"+strconv.Itoa(p))
		if err == nil {
			if p != port {
				log.Warn().Int("requested", port).Int("port", p).Msg("Requested port in use, using fallback")
			}
			return ln, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, fmt.Errorf("listen on port %d: %w", p, err)
		}
		log.Debug().Int("port", p).Msg("Port in use")
	}

	return nil, fmt.Errorf("no free port between %d and %d", port, MaxPort)
}

// Port reports the TCP port a listener is bound to.
func Port(ln net.Listener) int {
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}
