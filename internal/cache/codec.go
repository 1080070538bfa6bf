package cache

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Stored entries carry an explicit envelope so a future payload change can
// bump the version instead of silently misreading old bytes:
//
//	magic(4) | version(1) | msgpack(Payload)
var (
	envelopeMagic = [...]byte{'C', 'T', 'C', 'H'}
)

const envelopeVersion byte = 1

// ErrCorruptEntry indicates a stored value that cannot be decoded. Callers
// treat it as a cache miss, never as a fatal error.
var ErrCorruptEntry = errors.New("cache: corrupt entry")

// Payload is the cached shape of a successful read response.
type Payload struct {
	Status      int    `msgpack:"status"`
	ContentType string `msgpack:"content_type"`
	Body        []byte `msgpack:"body"`
}

func encodePayload(p *Payload) ([]byte, error) {
	body, err := msgpack.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	buf := make([]byte, 0, len(envelopeMagic)+1+len(body))
	buf = append(buf, envelopeMagic[:]...)
	buf = append(buf, envelopeVersion)
	buf = append(buf, body...)
	return buf, nil
}

func decodePayload(b []byte) (*Payload, error) {
	hdr := len(envelopeMagic) + 1
	if len(b) < hdr || !bytes.Equal(b[:len(envelopeMagic)], envelopeMagic[:]) {
		return nil, ErrCorruptEntry
	}
	if b[len(envelopeMagic)] != envelopeVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptEntry, b[len(envelopeMagic)])
	}

	var p Payload
	if err := msgpack.Unmarshal(b[hdr:], &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	return &p, nil
}
