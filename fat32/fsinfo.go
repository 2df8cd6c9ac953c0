package fat32

// FSInfo is the FS Info sector: a hint structure a real FAT32 driver uses to
// avoid re-scanning the whole FAT for free clusters. This projector reports
// the conservative "unknown" sentinel for both fields, since a lazily
// synthesized volume has no incremental free-cluster count to track (and
// reporting a wrong concrete value would be worse than reporting unknown).
type FSInfo struct {
	FreeCount uint32
	NextFree  uint32
}

// NewFSInfo returns an FSInfo with both fields set to the FAT32 "unknown"
// sentinel, 0xFFFFFFFF (fsinfo.rs's Default impl).
func NewFSInfo() FSInfo {
	return FSInfo{FreeCount: 0xFFFFFFFF, NextFree: 0xFFFFFFFF}
}

// ByteAt returns byte idx (0-511) of the FS Info sector.
func (f FSInfo) ByteAt(idx int) byte {
	switch idx {
	case 0:
		return 0x52
	case 1:
		return 0x52
	case 2:
		return 0x61
	case 3:
		return 0x41
	case 484:
		return 0x72
	case 485:
		return 0x72
	case 486:
		return 0x41
	case 487:
		return 0x61
	case 488:
		return byte(f.FreeCount)
	case 489:
		return byte(f.FreeCount >> 8)
	case 490:
		return byte(f.FreeCount >> 16)
	case 491:
		return byte(f.FreeCount >> 24)
	case 492:
		return byte(f.NextFree)
	case 493:
		return byte(f.NextFree >> 8)
	case 494:
		return byte(f.NextFree >> 16)
	case 495:
		return byte(f.NextFree >> 24)
	case 510:
		return 0x55
	case 511:
		return 0xAA
	default:
		return 0
	}
}
