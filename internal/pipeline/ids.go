package pipeline

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/binary"
	"sync"
	"time"
)

// IDs are 26-character Crockford base32 strings: a 48-bit millisecond
// timestamp, a 16-bit in-millisecond sequence, then 64 random bits. They
// sort by creation time.

var crockford = base32.NewEncoding("0123456789ABCDEFGHJKMNPQRSTVWXYZ").WithPadding(base32.NoPadding)

var (
	idMu    sync.Mutex
	lastMS  uint64
	lastSeq uint16
)

// NewID returns a new time-ordered identifier.
func NewID() string {
	idMu.Lock()
	ms := uint64(time.Now().UnixMilli())
	if ms == lastMS {
		lastSeq++
	} else {
		lastMS, lastSeq = ms, 0
	}
	seq := lastSeq
	idMu.Unlock()

	var b [16]byte
	binary.BigEndian.PutUint64(b[0:8], ms<<16|uint64(seq))
	rand.Read(b[8:])
	return crockford.EncodeToString(b[:])
}
