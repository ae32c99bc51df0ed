package token

// Arena pools the backing storage for token text. Tokens are short-lived
// consumers of long-lived backing bytes: appending into a shared pool of
// growable buffers trades a little tail slack for not allocating per token.
//
// Slices handed out by Append stay valid until the arena itself is dropped
// at the end of a parse; nothing is freed individually.
type Arena struct {
	bufs [][]byte
}

const (
	// arenaBase is the allocation unit for fresh buffers serving small
	// requests.
	arenaBase = 4096
	// arenaSmallMax is the threshold below which a request is considered
	// small enough to share a base-sized buffer with later appends.
	arenaSmallMax = arenaBase / 4
)

// NewArena returns an empty arena. Buffers are allocated on demand.
func NewArena() *Arena {
	return &Arena{}
}

// Append copies b into arena storage and returns the stored slice.
// It searches existing buffers for one with slack for len(b)+1 bytes;
// when none qualifies, a small request gets a new base-sized buffer and
// a large request gets a dedicated buffer sized exactly to it.
func (a *Arena) Append(b []byte) []byte {
	n := len(b)
	for i, buf := range a.bufs {
		if cap(buf)-len(buf) >= n+1 {
			off := len(buf)
			a.bufs[i] = append(buf, b...)
			return a.bufs[i][off : off+n : off+n]
		}
	}
	size := arenaBase
	if n >= arenaSmallMax {
		size = n + 1
	}
	buf := make([]byte, 0, size)
	buf = append(buf, b...)
	a.bufs = append(a.bufs, buf)
	return buf[0:n:n]
}

// Len reports the total number of bytes stored, across all buffers.
func (a *Arena) Len() int {
	ttl := 0
	for _, buf := range a.bufs {
		ttl += len(buf)
	}
	return ttl
}

// Buffers reports how many backing buffers have been allocated.
func (a *Arena) Buffers() int {
	return len(a.bufs)
}
