// Package testutil provides helpers shared by integration tests.
package testutil

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

// DefaultTimeout bounds each ReadUntil in the convenience helpers.
const DefaultTimeout = 5 * time.Second

// TelnetClient is a simple Telnet test client for integration testing.
type TelnetClient struct {
	conn   net.Conn
	reader *bufio.Reader
	t      *testing.T
}

// NewTelnetClient dials the given address and returns a test client.
//
// Precondition: addr must be a valid "host:port" string with a listening server.
// Postcondition: Returns a connected TelnetClient or fails the test.
func NewTelnetClient(t *testing.T, addr string) *TelnetClient {
	t.Helper()
	start := time.Now()

	conn, err := net.DialTimeout("tcp", addr, DefaultTimeout)
	if err != nil {
		t.Fatalf("connecting to %s: %v [%s]", addr, err, time.Since(start))
	}

	t.Cleanup(func() {
		conn.Close()
	})

	t.Logf("telnet client connected to %s [%s]", addr, time.Since(start))
	return &TelnetClient{
		conn:   conn,
		reader: bufio.NewReader(conn),
		t:      t,
	}
}

// ReadUntil reads until substr appears in the text received so far, ignoring
// Telnet negotiation bytes (0xF0-0xFF), or fails the test on timeout.
//
// Precondition: substr must be non-empty.
// Postcondition: Returns the accumulated text containing substr.
func (c *TelnetClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	var buf strings.Builder
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			c.t.Fatalf("reading until %q: got %q, error: %v", substr, buf.String(), err)
		}
		if b >= 0xF0 {
			continue
		}
		buf.WriteByte(b)
		if strings.Contains(buf.String(), substr) {
			return buf.String()
		}
	}
}

// Send writes a line of text to the server, appending \r\n.
//
// Postcondition: text + \r\n is written to the connection.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(DefaultTimeout))
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", text); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Command sends text and returns everything received up to the next prompt.
func (c *TelnetClient) Command(text, prompt string) string {
	c.t.Helper()
	c.Send(text)
	return c.ReadUntil(prompt, DefaultTimeout)
}

// Close closes the underlying connection.
func (c *TelnetClient) Close() {
	c.conn.Close()
}
