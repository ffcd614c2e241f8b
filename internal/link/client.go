// Package link maintains a persistent outbound TCP connection to a
// downstream proxy and forwards detected events as NDJSON lines.
package link

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"event-svr/internal/model"
)

var (
	proxyAddr string
	logger    *slog.Logger

	mu   sync.Mutex
	conn net.Conn
)

// Init starts the outbound link client. If addr == "" the link stays
// disabled and Send calls are no-ops.
func Init(addr string, lg *slog.Logger) {
	proxyAddr = addr
	if proxyAddr == "" {
		lg.Info("link: disabled (no proxy address configured)")
		return
	}
	logger = lg.With("component", "link")

	go connectLoop()
}

// Enabled reports whether a proxy address was configured.
func Enabled() bool {
	return proxyAddr != ""
}

func connectLoop() {
	for {
		c, err := net.Dial("tcp", proxyAddr)
		if err != nil {
			logger.Error("link: dial failed", "addr", proxyAddr, "err", err)
			time.Sleep(5 * time.Second)
			continue
		}

		setConn(c)
		logger.Info("link: connected", "remote", c.RemoteAddr().String())

		readLoop(c)

		clearConn(c)
		logger.Warn("link: connection closed, reconnecting...")
		time.Sleep(2 * time.Second)
	}
}

func setConn(c net.Conn) {
	mu.Lock()
	defer mu.Unlock()
	conn = c
}

func clearConn(c net.Conn) {
	mu.Lock()
	defer mu.Unlock()
	if conn == c {
		_ = conn.Close()
		conn = nil
	}
}

func getConn() net.Conn {
	mu.Lock()
	defer mu.Unlock()
	return conn
}

// The proxy may talk back (acks, control lines); for now they are only
// logged.
func readLoop(c net.Conn) {
	r := bufio.NewScanner(c)
	for r.Scan() {
		logger.Info("link: incoming line", "line", string(r.Bytes()))
	}
	if err := r.Err(); err != nil && err != io.EOF {
		logger.Warn("link: read error", "err", err)
	}
}

func sendNDJSON(v any) error {
	c := getConn()
	if c == nil {
		return fmt.Errorf("link: not connected")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = c.Write(append(b, '\n'))
	return err
}

// SendEvent forwards one detected event downstream. No-op while the link
// is disabled; returns an error while disconnected.
func SendEvent(event *model.Event) error {
	if proxyAddr == "" || event == nil {
		return nil
	}
	return sendNDJSON(event)
}
