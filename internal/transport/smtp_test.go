package transport

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// plaintextSMTPServer greets and answers EHLO without advertising
// STARTTLS, then drains commands until the connection closes.
func plaintextSMTPServer(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		conn.Write([]byte("220 test.local ESMTP\r\n"))
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			switch {
			case strings.HasPrefix(line, "EHLO"), strings.HasPrefix(line, "HELO"):
				conn.Write([]byte("250-test.local\r\n250 AUTH PLAIN\r\n"))
			case strings.HasPrefix(line, "QUIT"):
				conn.Write([]byte("221 bye\r\n"))
				return
			default:
				conn.Write([]byte("502 not implemented\r\n"))
			}
		}
	}()

	return ln.Addr().String()
}

func splitHostPort(t *testing.T, addr string) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("split %q: %v", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("port %q: %v", portStr, err)
	}
	return host, port
}

func closedPort(t *testing.T) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return splitHostPort(t, addr)
}

func TestDialConnectionRefused(t *testing.T) {
	for _, implicit := range []bool{true, false} {
		host, port := closedPort(t)
		tr := NewSMTP(SMTPOptions{
			Host:        host,
			Port:        port,
			ImplicitTLS: implicit,
			Timeout:     time.Second,
		}, testLogger())

		_, err := tr.dial(context.Background())
		if err == nil {
			t.Fatalf("implicit=%v: expected dial error", implicit)
		}
		var terr *Error
		if !errors.As(err, &terr) {
			t.Fatalf("implicit=%v: got %T, want *transport.Error", implicit, err)
		}
	}
}

func TestDialRequiresSTARTTLS(t *testing.T) {
	host, port := splitHostPort(t, plaintextSMTPServer(t))
	tr := NewSMTP(SMTPOptions{
		Host:    host,
		Port:    port,
		Timeout: 2 * time.Second,
	}, testLogger())

	_, err := tr.dial(context.Background())
	if err == nil {
		t.Fatal("expected dial to fail against a server without STARTTLS")
	}
	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("got %T, want *transport.Error", err)
	}
	if !strings.Contains(terr.Reason, "STARTTLS") {
		t.Errorf("reason = %q, want STARTTLS setup failure", terr.Reason)
	}
}

func TestDialImplicitTLSAgainstPlaintext(t *testing.T) {
	host, port := splitHostPort(t, plaintextSMTPServer(t))
	tr := NewSMTP(SMTPOptions{
		Host:        host,
		Port:        port,
		ImplicitTLS: true,
		Timeout:     2 * time.Second,
	}, testLogger())

	_, err := tr.dial(context.Background())
	if err == nil {
		t.Fatal("expected TLS handshake to fail against a plaintext server")
	}
	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("got %T, want *transport.Error", err)
	}
}

func TestVerifyConnectionWrapsErrors(t *testing.T) {
	host, port := closedPort(t)
	tr := NewSMTP(SMTPOptions{
		Host:    host,
		Port:    port,
		Timeout: time.Second,
	}, testLogger())

	err := tr.VerifyConnection(context.Background())
	if err == nil {
		t.Fatal("expected verify error")
	}
	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("got %T, want *transport.Error", err)
	}
}
