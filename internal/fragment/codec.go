package fragment

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrCorrupt is returned by Decode when the byte stream violates the
// wire format: truncation, an unknown type tag, a zero count on a
// non-tombstoned entry, or trailing bytes after the last entry.
var ErrCorrupt = errors.New("fragment: corrupt stream")

// Encode serializes entries to the fragment wire format: a flat
// concatenation of entries, no header, no checksum (integrity is
// delegated to the crypto filter when active, and to the VFS
// otherwise). Entries are written in the given order.
func Encode(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	scratch := make([]byte, 4)

	for _, e := range entries {
		if len(e.Key) == 0 {
			return nil, fmt.Errorf("%w: empty key", ErrCorrupt)
		}

		tombstone := e.Tombstone
		if tombstone {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}

		binary.LittleEndian.PutUint32(scratch, uint32(len(e.Key)))
		buf.Write(scratch)
		buf.WriteString(e.Key)

		if tombstone {
			buf.WriteByte(byte(Char))
			binary.LittleEndian.PutUint32(scratch, 0)
			buf.Write(scratch)
			continue
		}

		if !Valid(e.Type) {
			return nil, fmt.Errorf("%w: invalid type tag for key %q", ErrCorrupt, e.Key)
		}
		if e.Count == 0 {
			return nil, fmt.Errorf("%w: zero count for key %q", ErrCorrupt, e.Key)
		}
		size, _ := ElementSize(e.Type)
		want := int(size) * int(e.Count)
		if len(e.Payload) != want {
			return nil, fmt.Errorf("%w: payload length %d != count*size %d for key %q", ErrCorrupt, len(e.Payload), want, e.Key)
		}

		buf.WriteByte(byte(e.Type))
		binary.LittleEndian.PutUint32(scratch, e.Count)
		buf.Write(scratch)
		buf.Write(e.Payload)
	}

	return buf.Bytes(), nil
}

// Decode parses a fragment byte stream into an ordered list of
// entries, failing with ErrCorrupt on any malformed input.
func Decode(data []byte) ([]Entry, error) {
	r := bytes.NewReader(data)
	var entries []Entry

	for {
		tb, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if tb != 0 && tb != 1 {
			return nil, fmt.Errorf("%w: invalid tombstone byte %d", ErrCorrupt, tb)
		}
		tombstone := tb == 1

		keyLen, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if keyLen == 0 {
			return nil, fmt.Errorf("%w: zero-length key", ErrCorrupt)
		}
		keyBytes := make([]byte, keyLen)
		if _, err := io.ReadFull(r, keyBytes); err != nil {
			return nil, fmt.Errorf("%w: truncated key: %v", ErrCorrupt, err)
		}

		typByte, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		typ := ValueType(typByte)

		count, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}

		entry := Entry{Key: string(keyBytes), Tombstone: tombstone}

		if tombstone {
			if typ != Char || count != 0 {
				return nil, fmt.Errorf("%w: malformed tombstone for key %q", ErrCorrupt, entry.Key)
			}
			entry.Type = Char
			entries = append(entries, entry)
			continue
		}

		if !Valid(typ) {
			return nil, fmt.Errorf("%w: unknown type tag %d for key %q", ErrCorrupt, typByte, entry.Key)
		}
		if count == 0 {
			return nil, fmt.Errorf("%w: zero count for key %q", ErrCorrupt, entry.Key)
		}
		size, _ := ElementSize(typ)
		payload := make([]byte, int(size)*int(count))
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, fmt.Errorf("%w: truncated payload for key %q: %v", ErrCorrupt, entry.Key, err)
		}

		entry.Type = typ
		entry.Count = count
		entry.Payload = payload
		entries = append(entries, entry)
	}

	return entries, nil
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}
