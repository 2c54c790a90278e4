package telnet

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

// Telnet IAC (Interpret As Command) constants per RFC 854.
const (
	IAC  byte = 255 // Interpret As Command
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250 // Sub-negotiation Begin
	SE   byte = 240 // Sub-negotiation End
	NOP  byte = 241
	GA   byte = 249 // Go Ahead

	// Telnet options
	OptEcho            byte = 1
	OptSuppressGoAhead byte = 3
	OptLinemode        byte = 34
)

// MaxLineLength bounds a single input line; longer lines fail with ErrLineTooLong.
const MaxLineLength = 1024

// ErrLineTooLong is returned by ReadLine when a line exceeds MaxLineLength.
var ErrLineTooLong = errors.New("telnet: line too long")

// Conn wraps a TCP connection with Telnet protocol handling.
// It filters IAC sequences from input and provides line-based reading.
// Writes are serialized, so a Conn may be written from several goroutines.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader
	mu     sync.Mutex

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps a raw TCP connection with Telnet protocol handling.
//
// Precondition: raw must be a valid, open network connection.
// Postcondition: Returns a Conn ready for reading and writing.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, 4096),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Negotiate asks the client to suppress go-ahead.
//
// Postcondition: Negotiation bytes are written to the connection.
func (c *Conn) Negotiate() error {
	return c.Write([]byte{IAC, WILL, OptSuppressGoAhead})
}

// ReadLine reads a single line of input, filtering Telnet IAC sequences and
// control characters other than tab. The trailing CR, LF or CRLF is dropped.
//
// Postcondition: Returns the next line of text input, or an error (including
// io.EOF and ErrLineTooLong).
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	var line bytes.Buffer
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return line.String(), err
		}

		switch {
		case b == IAC:
			if err := c.skipCommand(); err != nil {
				return line.String(), err
			}
			continue
		case b == '\n':
			return line.String(), nil
		case b == '\r':
			if next, err := c.reader.Peek(1); err == nil && next[0] == '\n' {
				_, _ = c.reader.ReadByte()
			}
			return line.String(), nil
		case b < 32 && b != '\t':
			continue
		}

		if line.Len() >= MaxLineLength {
			c.discardLine()
			return "", ErrLineTooLong
		}
		line.WriteByte(b)
	}
}

// discardLine drops buffered input up to and including the next newline.
func (c *Conn) discardLine() {
	for {
		b, err := c.reader.ReadByte()
		if err != nil || b == '\n' {
			return
		}
	}
}

// skipCommand consumes the remainder of an IAC sequence whose leading IAC
// byte has already been read.
func (c *Conn) skipCommand() error {
	cmd, err := c.reader.ReadByte()
	if err != nil {
		return err
	}

	switch cmd {
	case WILL, WONT, DO, DONT:
		_, err := c.reader.ReadByte()
		return err
	case SB:
		var prev byte
		for {
			b, err := c.reader.ReadByte()
			if err != nil {
				return err
			}
			if prev == IAC && b == SE {
				return nil
			}
			prev = b
		}
	default:
		// NOP, GA and escaped IAC carry no text.
		return nil
	}
}

func (c *Conn) write(p []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := c.raw.Write(p)
	return err
}

// WriteLine sends text followed by \r\n. Embedded newlines are converted to \r\n.
//
// Postcondition: Each line of text is written terminated by \r\n.
func (c *Conn) WriteLine(text string) error {
	text = strings.ReplaceAll(strings.TrimRight(text, "\r\n"), "\r\n", "\n")
	return c.write([]byte(strings.ReplaceAll(text, "\n", "\r\n") + "\r\n"))
}

// Write sends raw bytes to the client.
func (c *Conn) Write(data []byte) error {
	return c.write(data)
}

// WritePrompt sends a prompt string without a trailing newline.
func (c *Conn) WritePrompt(prompt string) error {
	return c.write([]byte(prompt))
}

// Close closes the underlying TCP connection.
//
// Postcondition: The connection is closed and any blocked ReadLine returns an error.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the remote network address of the client.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}

// String describes the connection for logs.
func (c *Conn) String() string {
	return fmt.Sprintf("telnet(%s)", c.raw.RemoteAddr())
}

// FilterIAC removes Telnet IAC sequences from raw input bytes. An escaped
// IAC (IAC IAC) yields a single 0xFF byte.
//
// Postcondition: Returns input with all IAC sequences removed.
func FilterIAC(input []byte) []byte {
	result := make([]byte, 0, len(input))
	for i := 0; i < len(input); i++ {
		if input[i] != IAC || i+1 >= len(input) {
			result = append(result, input[i])
			continue
		}
		switch cmd := input[i+1]; cmd {
		case WILL, WONT, DO, DONT:
			i += 2
		case SB:
			j := i + 2
			for j < len(input)-1 && !(input[j] == IAC && input[j+1] == SE) {
				j++
			}
			i = j + 1
		case IAC:
			result = append(result, IAC)
			i++
		default:
			i++
		}
	}
	return result
}
