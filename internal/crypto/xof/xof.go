package xof

import (
	"crypto/sha3"
	"encoding/binary"
	"io"
)

// SHAKE256 based hashing with domain separation and a unique (injective) encoding of the written values. Used to derive
// the domain separators of zero-knowledge public parameters, and to fingerprint persisted artifacts.

var _ io.Reader = &xof{}

type xof struct {
	shake  *sha3.SHAKE
	reader bool
}

type argType byte

const (
	_ argType = iota
	argTypeNil
	argTypeUint64
	argTypeUint64s
	argTypeBytes
	argTypeString
)

// Length of the digest returned by Digest() in bytes.
const DigestLength = 32

// New returns an XOF instance initialized with the given domain separation tag.
func New(dst string) *xof {
	h := &xof{shake: sha3.NewSHAKE256()}
	h.WriteString(dst)
	return h
}

func (h *xof) write(t argType, length int, data []byte) {
	if h.reader {
		panic("xof: write after read")
	}
	var prefix [9]byte
	prefix[0] = byte(t)
	binary.BigEndian.PutUint64(prefix[1:], uint64(length))
	_, _ = h.shake.Write(prefix[:])
	_, _ = h.shake.Write(data)
}

func (h *xof) WriteUint64(value uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], value)
	h.write(argTypeUint64, 8, buf[:])
}

func (h *xof) WriteInt(value int) {
	h.WriteUint64(uint64(value))
}

// WriteUint64s writes a vector of integers, e.g., the limbs of a field element.
func (h *xof) WriteUint64s(values []uint64) {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.BigEndian.PutUint64(buf[8*i:], v)
	}
	h.write(argTypeUint64s, len(values), buf)
}

// WriteBytes writes a byte slice, nil is encoded differently from an empty slice.
func (h *xof) WriteBytes(data []byte) {
	if data == nil {
		h.write(argTypeNil, 0, nil)
		return
	}
	h.write(argTypeBytes, len(data), data)
}

func (h *xof) WriteString(str string) {
	h.write(argTypeString, len(str), []byte(str))
}

// Read squeezes output from the XOF, further writes panic. Read never returns an error.
func (h *xof) Read(out []byte) (int, error) {
	h.reader = true
	return h.shake.Read(out)
}

// Digest squeezes the next DigestLength bytes.
func (h *xof) Digest() [DigestLength]byte {
	var digest [DigestLength]byte
	_, _ = h.Read(digest[:])
	return digest
}
