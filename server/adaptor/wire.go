package adaptor

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/ponyo877/roomchat/server/domain"
)

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

type remoteAddresser interface {
	RemoteAddr() net.Addr
}

// FrameConn speaks the length prefixed wire format over any byte stream:
// text frames carry a 2 byte big-endian length, binary payloads a 4 byte
// one. Reads belong to a single goroutine; writes are serialised.
type FrameConn struct {
	rwc          io.ReadWriteCloser
	r            *bufio.Reader
	wmu          sync.Mutex
	w            *bufio.Writer
	writeTimeout time.Duration
	closeOnce    sync.Once
	closeErr     error
	remote       string
}

func NewFrameConn(rwc io.ReadWriteCloser, writeTimeout time.Duration) *FrameConn {
	remote := "unknown"
	if ra, ok := rwc.(remoteAddresser); ok && ra.RemoteAddr() != nil {
		remote = ra.RemoteAddr().String()
	}
	return &FrameConn{
		rwc:          rwc,
		r:            bufio.NewReader(rwc),
		w:            bufio.NewWriter(rwc),
		writeTimeout: writeTimeout,
		remote:       remote,
	}
}

func (c *FrameConn) RemoteAddr() string {
	return c.remote
}

func (c *FrameConn) ReadText() (string, error) {
	var hdr [2]byte
	if _, err := io.ReadFull(c.r, hdr[:]); err != nil {
		return "", err
	}
	buf := make([]byte, binary.BigEndian.Uint16(hdr[:]))
	if _, err := io.ReadFull(c.r, buf); err != nil {
		return "", unexpected(err)
	}
	return string(buf), nil
}

// ReadLength reads the 4 byte length that opens a binary payload. The
// length is unsigned; callers compare it against their own ceiling.
func (c *FrameConn) ReadLength() (int64, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(c.r, hdr[:]); err != nil {
		return 0, unexpected(err)
	}
	return int64(binary.BigEndian.Uint32(hdr[:])), nil
}

func (c *FrameConn) ReadPayload(n int64) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(c.r, buf); err != nil {
		return nil, unexpected(err)
	}
	return buf, nil
}

// Discard skips n payload bytes so the stream stays framed.
func (c *FrameConn) Discard(n int64) error {
	if _, err := io.CopyN(io.Discard, c.r, n); err != nil {
		return unexpected(err)
	}
	return nil
}

// WriteFrame writes f and flushes. A blob frame is written as one unit, so
// nothing else can land between the header and the payload.
func (c *FrameConn) WriteFrame(f domain.Frame) error {
	if len(f.Text) > domain.MaxTextSize {
		return fmt.Errorf("text frame of %d bytes: %w", len(f.Text), domain.ErrFrameTooLarge)
	}
	if f.HasBlob && len(f.Blob) > domain.MaxBlobSize {
		return fmt.Errorf("payload of %d bytes: %w", len(f.Blob), domain.ErrFrameTooLarge)
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()

	if d, ok := c.rwc.(writeDeadliner); ok && c.writeTimeout > 0 {
		if err := d.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}

	var hdr [4]byte
	binary.BigEndian.PutUint16(hdr[:2], uint16(len(f.Text)))
	if _, err := c.w.Write(hdr[:2]); err != nil {
		return err
	}
	if _, err := c.w.WriteString(f.Text); err != nil {
		return err
	}
	if f.HasBlob {
		binary.BigEndian.PutUint32(hdr[:], uint32(len(f.Blob)))
		if _, err := c.w.Write(hdr[:]); err != nil {
			return err
		}
		if _, err := c.w.Write(f.Blob); err != nil {
			return err
		}
	}
	return c.w.Flush()
}

func (c *FrameConn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.rwc.Close()
	})
	return c.closeErr
}

func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// IsClosedConn reports whether err only says that the peer went away.
func IsClosedConn(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed)
}
