package pte

// EntryCount is the number of entries in every level of an Sv39 page
// table: 512, indexed by a 9-bit VPN/PPN slice.
const EntryCount = 512

// RawTable is a single page-table level: 512 entries, naturally 4 KiB
// (512*8 bytes) and required to be 4 KiB-aligned in memory so it can
// itself be referenced by a PPN field. Whether a given RawTable is the
// root, an intermediate, or a leaf level is a property of how it is
// reached, not of the type.
type RawTable struct {
	Entries [EntryCount]Entry
}

// At returns the entry at index, which must be in [0, EntryCount).
func (t *RawTable) At(index uint64) Entry { return t.Entries[index] }

// Set writes entry at index, which must be in [0, EntryCount).
func (t *RawTable) Set(index uint64, entry Entry) { t.Entries[index] = entry }
