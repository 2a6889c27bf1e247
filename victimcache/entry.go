package victimcache

// Entry is one way of the victim cache. Entries are allocated up front for
// the full physical capacity and toggled valid/invalid rather than
// allocated and freed.
type Entry struct {
	Address uint64
	Tag     uint64

	Valid bool

	LRUCounter    uint64
	InsertionTime uint64
	AccessCount   uint32

	// ReuseDistance and HighReuseBlock are advisory fields populated by
	// the smart insertion pipeline; nothing reads them back to drive
	// eviction decisions.
	ReuseDistance  uint32
	HighReuseBlock bool

	// Data is the opaque payload. It may be nil; callers that never
	// pass a payload to Insert/InsertSmart never pay for the copy.
	Data []byte
}

func (e *Entry) invalidate() {
	e.Valid = false
	e.AccessCount = 0
}
