package fat32

// lfnUnitsPerEntry is how many name characters one LFN record carries.
const lfnUnitsPerEntry = 13

// LFNCount returns how many LFN records are needed to hold name in full,
// i.e. ceil(len(name) / 13). A name that fits in a short name alone needs
// zero LFN records; callers decide that with ParseShortName (see
// lfnCountForName in planner.go).
func LFNCount(name string) int {
	if len(name) == 0 {
		return 0
	}
	return (len(name) + lfnUnitsPerEntry - 1) / lfnUnitsPerEntry
}

// BuildLFNRecords splits name into LFN records, one per 13 characters, in
// creation order: record 0 covers the first 13 characters, with ascending
// SequenceNumber values starting at 1. The caller is responsible for
// emitting them in on-disk (wire) order, which is the reverse of creation
// order, and for OR-ing 0x40 into the sequence number of the first record in
// wire order — i.e. the last record returned here (longname.rs's
// construct_name_entries, generalized to this package's single-byte-per-unit
// LFN layout).
func BuildLFNRecords(name string, owner ShortName) []LFNEntry {
	count := LFNCount(name)
	if count == 0 {
		return nil
	}

	checksum := LFNChecksum(owner)
	records := make([]LFNEntry, count)
	for i := 0; i < count; i++ {
		start := i * lfnUnitsPerEntry
		end := start + lfnUnitsPerEntry
		if end > len(name) {
			end = len(name)
		}

		var units [13]byte
		u := 0
		for ; start+u < end; u++ {
			units[u] = name[start+u]
		}
		if u < lfnUnitsPerEntry {
			units[u] = 0x00 // name terminator
			u++
		}
		for ; u < lfnUnitsPerEntry; u++ {
			units[u] = 0xFF // padding, per the real LFN on-disk convention
		}

		records[i] = LFNEntry{
			SequenceNumber: byte(i + 1),
			NameUnits:      units,
			Checksum:       checksum,
		}
	}

	return records
}

// WireOrderLFNRecords returns records in the order they're written to disk:
// reverse of creation order, with 0x40 OR'd into the sequence number of the
// first wire-order record (the logically "last" piece of the name).
func WireOrderLFNRecords(records []LFNEntry) []LFNEntry {
	n := len(records)
	wire := make([]LFNEntry, n)
	for i, rec := range records {
		wire[n-1-i] = rec
	}
	if n > 0 {
		wire[0].SequenceNumber |= 0x40
	}
	return wire
}
