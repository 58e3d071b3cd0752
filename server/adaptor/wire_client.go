package adaptor

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/ponyo877/roomchat/server/domain"
)

// The methods below are the client half of the wire format: Go programs
// that talk to a roomchat server (bots, load generators, the session tests)
// send commands with WriteText, answer READY_FOR_UPLOAD with WriteBlob and
// read pushes and downloads with ReadFrame.

// WriteText sends one command frame.
func (c *FrameConn) WriteText(text string) error {
	return c.WriteFrame(domain.NewTextFrame(text))
}

// WriteBlob writes a bare length prefixed payload.
func (c *FrameConn) WriteBlob(blob []byte) error {
	if len(blob) > domain.MaxBlobSize {
		return fmt.Errorf("payload of %d bytes: %w", len(blob), domain.ErrFrameTooLarge)
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(blob)))
	if _, err := c.w.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := c.w.Write(blob); err != nil {
		return err
	}
	return c.w.Flush()
}

// ReadFrame reads a text frame and, when the text opens a download, the
// payload that follows it.
func (c *FrameConn) ReadFrame() (domain.Frame, error) {
	text, err := c.ReadText()
	if err != nil {
		return domain.Frame{}, err
	}
	if !strings.HasPrefix(text, domain.ReplyFileData+":") {
		return domain.NewTextFrame(text), nil
	}
	n, err := c.ReadLength()
	if err != nil {
		return domain.Frame{}, err
	}
	if n > domain.MaxBlobSize {
		return domain.Frame{}, fmt.Errorf("payload of %d bytes: %w", n, domain.ErrFrameTooLarge)
	}
	blob, err := c.ReadPayload(n)
	if err != nil {
		return domain.Frame{}, err
	}
	return domain.NewBlobFrame(text, blob), nil
}
