package fat32

// DirEntry is the tagged union of the three kinds of 32-byte slot that can
// appear in a projected directory cluster (§3, §6): a File entry, an LFN
// entry, or the Empty (end-of-directory) sentinel. Every variant can render
// any of its 32 bytes on demand, which is all the directory projector needs.
type DirEntry interface {
	// ByteAt returns byte idx (0-31) of this entry's on-disk form.
	ByteAt(idx int) byte
}

// FileEntry is a standard FAT directory entry describing a file or
// subdirectory (dirent.rs's DirFileEntryData).
type FileEntry struct {
	Name             ShortName
	Attrs            Attributes
	CreateTimeHiRes  uint8 // tenths of a second, 0-199
	CreateTime       uint16
	CreateDate       uint16
	AccessDate       uint16
	FirstClusterHigh uint16
	ModifyTime       uint16
	ModifyDate       uint16
	FirstClusterLow  uint16
	Size             uint32
}

// FirstCluster packs the high/low halves of the entry's starting cluster
// number into a single 32-bit value.
func (e FileEntry) FirstCluster() uint32 {
	return uint32(e.FirstClusterHigh)<<16 | uint32(e.FirstClusterLow)
}

// NewFileEntry builds a FileEntry whose FirstClusterHigh/Low fields are
// derived from firstCluster.
func NewFileEntry(name ShortName, attrs Attributes, firstCluster uint32, size uint32, created, accessed, modified Date, createTime, modifyTime Time, createHiRes uint8) FileEntry {
	return FileEntry{
		Name:             name,
		Attrs:            attrs,
		CreateTimeHiRes:  createHiRes,
		CreateTime:       EncodeTime(createTime),
		CreateDate:       EncodeDate(created),
		AccessDate:       EncodeDate(accessed),
		FirstClusterHigh: uint16(firstCluster >> 16),
		ModifyTime:       EncodeTime(modifyTime),
		ModifyDate:       EncodeDate(modified),
		FirstClusterLow:  uint16(firstCluster & 0xFFFF),
		Size:             size,
	}
}

// ByteAt implements DirEntry. Offsets follow dirent.rs's read_byte exactly:
//
//	0-10   short name (11 bytes, with the 0xE5 deleted-marker substitution)
//	11     attributes
//	12     case flags (NT reserved byte, repurposed for lower-case display)
//	13     create time, hi-res tenths
//	14-15  create time
//	16-17  create date
//	18-19  access date
//	20-21  first cluster, high 16 bits
//	22-23  modify time
//	24-25  modify date
//	26-27  first cluster, low 16 bits
//	28-31  size
func (e FileEntry) ByteAt(idx int) byte {
	switch {
	case idx >= 0 && idx <= 10:
		return e.Name.ByteAt(idx)
	case idx == 11:
		return byte(e.Attrs)
	case idx == 12:
		return e.Name.CaseFlag()
	case idx == 13:
		return e.CreateTimeHiRes
	case idx == 14:
		return byte(e.CreateTime)
	case idx == 15:
		return byte(e.CreateTime >> 8)
	case idx == 16:
		return byte(e.CreateDate)
	case idx == 17:
		return byte(e.CreateDate >> 8)
	case idx == 18:
		return byte(e.AccessDate)
	case idx == 19:
		return byte(e.AccessDate >> 8)
	case idx == 20:
		return byte(e.FirstClusterHigh)
	case idx == 21:
		return byte(e.FirstClusterHigh >> 8)
	case idx == 22:
		return byte(e.ModifyTime)
	case idx == 23:
		return byte(e.ModifyTime >> 8)
	case idx == 24:
		return byte(e.ModifyDate)
	case idx == 25:
		return byte(e.ModifyDate >> 8)
	case idx == 26:
		return byte(e.FirstClusterLow)
	case idx == 27:
		return byte(e.FirstClusterLow >> 8)
	case idx == 28:
		return byte(e.Size)
	case idx == 29:
		return byte(e.Size >> 8)
	case idx == 30:
		return byte(e.Size >> 16)
	case idx == 31:
		return byte(e.Size >> 24)
	default:
		return 0
	}
}

// lfnUnitOffsets lists, in order, the byte offset of each of the 13 UCS-2
// code units an LFN record carries. This format stores each unit as a
// single byte followed by a zero high byte (0xFF for 0xFF padding units, so
// padding projects as 0xFFFF) rather than true UCS-2, which is
// a deliberate simplification for backing stores whose names are plain
// bytes (§3's note on the LFN layout).
var lfnUnitOffsets = [13]int{1, 3, 5, 7, 9, 14, 16, 18, 20, 22, 24, 28, 30}

// LFNEntry is one Long File Name record. SequenceNumber includes the 0x40
// "last logical entry" bit where applicable; NameUnits holds up to 13
// characters of this record's slice of the long name.
type LFNEntry struct {
	SequenceNumber byte
	NameUnits      [13]byte // 0 past the name's length, then 0xFFFF-filled
	Checksum       byte
}

// ByteAt implements DirEntry, laying NameUnits out as 13 little-endian
// "UCS-2" code units with a zero high byte (0xFF for a 0xFF padding unit),
// per lfnUnitOffsets.
func (e LFNEntry) ByteAt(idx int) byte {
	switch idx {
	case 0:
		return e.SequenceNumber
	case 11:
		return byte(AttrLongName)
	case 12:
		return 0
	case 13:
		return e.Checksum
	case 26, 27:
		return 0 // first cluster, always 0 for an LFN record
	}
	for unit, off := range lfnUnitOffsets {
		if idx == off {
			return e.NameUnits[unit]
		}
		if idx == off+1 {
			if e.NameUnits[unit] == 0xFF {
				return 0xFF
			}
			return 0
		}
	}
	return 0
}

// EmptyEntry is the directory-terminator slot: byte 0 is 0x00 (no more
// entries follow in this directory) with an otherwise-unused attribute byte
// of 0x40 carried over unchanged from the system this package reproduces.
type EmptyEntry struct{}

// ByteAt implements DirEntry.
func (EmptyEntry) ByteAt(idx int) byte {
	if idx == 11 {
		return 0x40
	}
	return 0
}
