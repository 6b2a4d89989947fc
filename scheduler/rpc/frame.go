// Package rpc carries encoded event and decision messages over TCP. The
// protocol is strictly sequential request/response: the resource manager
// sends one framed event batch and waits for one framed decision batch before
// sending the next, matching the scheduler's single-actor model.
package rpc

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Frames larger than this are treated as protocol corruption.
const maxFrameSize = 64 << 20

// writeFrame writes a 4-byte big-endian length followed by the payload.
func writeFrame(w io.Writer, payload []byte) error {
	if len(payload) > maxFrameSize {
		return errors.Errorf("frame too large: %d bytes", len(payload))
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(payload))); err != nil {
		return errors.Wrap(err, "writing frame length")
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return errors.Wrap(err, "writing frame payload")
		}
	}
	return nil
}

// readFrame reads one length-prefixed payload. io.ReadFull guards against
// short reads on the payload.
func readFrame(r io.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "reading frame length")
	}
	if length > maxFrameSize {
		return nil, errors.Errorf("frame too large: %d bytes", length)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, errors.Wrap(err, "reading frame payload")
	}
	return payload, nil
}
