package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"event-svr/internal/ingest"
	"event-svr/internal/model"
	"event-svr/internal/observability"
)

// Start runs the NDJSON position listener: one decoded position object
// per line. Blocks for the lifetime of the listener.
func Start(addr string, dispatch ingest.PositionFunc, logger *slog.Logger) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("error starting TCP server: %w", err)
	}
	defer listener.Close()

	log := logger.With("component", "server")
	log.Info("TCP server listening", "addr", addr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Error("accept error", "err", err)
			continue
		}
		go handleConnection(conn, dispatch, log)
	}
}

func handleConnection(conn net.Conn, dispatch ingest.PositionFunc, log *slog.Logger) {
	defer conn.Close()

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetLinger(0)
		_ = tcpConn.SetNoDelay(false)
		_ = tcpConn.SetKeepAlive(true)
		_ = tcpConn.SetKeepAlivePeriod(60 * time.Second)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), 256*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var p model.Position
		if err := json.Unmarshal(line, &p); err != nil {
			observability.PositionsRejected.WithLabelValues("bad_payload").Inc()
			log.Warn("position rejected", "remote", conn.RemoteAddr().String(), "err", err)
			continue
		}
		observability.PositionsReceived.WithLabelValues("tcp").Inc()
		ingest.Normalize(&p)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		dispatch(ctx, &p)
		cancel()
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		log.Warn("read error", "remote", conn.RemoteAddr().String(), "err", err)
	}
}
