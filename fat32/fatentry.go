package fat32

// FAT32 stores each entry as 32 bits, but only the low 28 are significant;
// the top nibble is reserved and always projected as 0.
const (
	fatEntryMask = 0x0FFFFFFF
	badEntry     = 0x0FFFFFF7
	endOfChainLo = 0x0FFFFFF8
	freeEntry    = 0
)

// FATEntryKind discriminates the four states a FAT32 table entry can be in
// (fat.rs's FatEntryValue), plus FATRaw for entries that must round-trip an
// exact 32-bit value rather than being reclassified.
type FATEntryKind int

const (
	// FATFree marks a cluster that belongs to no file or directory.
	FATFree FATEntryKind = iota
	// FATNext marks a cluster that continues into another cluster.
	FATNext
	// FATBad marks a cluster the driver has flagged unusable.
	FATBad
	// FATEnd marks the last cluster of a chain.
	FATEnd
	// FATRaw carries an exact on-disk value that must not be reclassified
	// through the Free/Next/Bad/End sentinels, e.g. the reserved cluster 0
	// and 1 entries, whose low byte encodes the media descriptor (§9 open
	// question 1).
	FATRaw
)

// FATEntry is a decoded FAT32 table entry.
type FATEntry struct {
	Kind FATEntryKind
	Next uint32 // valid only when Kind == FATNext
	Raw  uint32 // valid only when Kind == FATRaw
}

// DecodeFATEntry classifies a raw 32-bit FAT32 table entry. Any value in
// [0x0FFFFFF8, 0x0FFFFFFF] counts as end-of-chain, matching real FAT32's
// tolerance for multiple "end" sentinels; 0x0FFFFFF7 is explicitly bad; 0 is
// free; everything else is the index of the next cluster in the chain.
func DecodeFATEntry(raw uint32) FATEntry {
	v := raw & fatEntryMask
	switch {
	case v == freeEntry:
		return FATEntry{Kind: FATFree}
	case v == badEntry:
		return FATEntry{Kind: FATBad}
	case v >= endOfChainLo:
		return FATEntry{Kind: FATEnd}
	default:
		return FATEntry{Kind: FATNext, Next: v}
	}
}

// EncodeFATEntry packs e into its raw 32-bit on-disk form.
func EncodeFATEntry(e FATEntry) uint32 {
	switch e.Kind {
	case FATFree:
		return freeEntry
	case FATBad:
		return badEntry
	case FATEnd:
		return 0x0FFFFFFF
	case FATNext:
		return e.Next & fatEntryMask
	case FATRaw:
		return e.Raw
	default:
		return freeEntry
	}
}

// ByteAt returns byte idx (0-3) of e's little-endian on-disk encoding.
func (e FATEntry) ByteAt(idx int) byte {
	raw := EncodeFATEntry(e)
	return byte(raw >> (8 * uint(idx)))
}

// idxToCluster converts a byte offset within the FAT region to the cluster
// number whose entry contains it, and the byte offset within that 4-byte
// entry (fat.rs's idx_to_cluster).
func idxToCluster(offsetInFAT uint64) (cluster uint32, byteInEntry int) {
	return uint32(offsetInFAT / 4), int(offsetInFAT % 4)
}
