package fat32

// LocationKind names which region of the volume a byte offset falls in.
type LocationKind int

const (
	LocationBootSector LocationKind = iota
	LocationFSInfo
	LocationFAT
	LocationData
	LocationBeyondVolume
)

// Location is the result of classifying a raw device-byte offset.
type Location struct {
	Kind LocationKind

	// Valid when Kind == LocationFAT.
	FATIndex    int // 0-based index of this FAT copy among Parameters.FATCount
	Cluster     uint32
	ByteInEntry int

	// Valid when Kind == LocationData.
	DataCluster   uint32
	ByteInCluster uint32
}

// Classify maps a raw byte offset on the synthesized volume to the region
// responsible for producing it (§4.5's address translator). idx must be less
// than Parameters.TotalSectors32*BytesPerSector for the result to be
// meaningful; offsets at or beyond the volume's end classify as
// LocationBeyondVolume.
func (p *Parameters) Classify(idx uint64) Location {
	if idx < 512 {
		return Location{Kind: LocationBootSector}
	}
	if idx < 1024 {
		return Location{Kind: LocationFSInfo}
	}

	fatStart := p.FATStart()
	fatEnd := p.FATEnd()
	if idx >= fatStart && idx < fatEnd {
		fatBytes := uint64(p.SectorsPerFAT32) * uint64(p.BytesPerSector)
		offsetInRegion := idx - fatStart
		fatIndex := int(offsetInRegion / fatBytes)
		offsetInFAT := offsetInRegion % fatBytes
		cluster, byteInEntry := idxToCluster(offsetInFAT)
		return Location{
			Kind:        LocationFAT,
			FATIndex:    fatIndex,
			Cluster:     cluster,
			ByteInEntry: byteInEntry,
		}
	}

	dataStart := p.DataStart()
	totalBytes := uint64(p.TotalSectors32) * uint64(p.BytesPerSector)
	if idx >= dataStart && idx < totalBytes {
		clusterSize := uint64(p.BytesPerCluster())
		offsetInData := idx - dataStart
		return Location{
			Kind:          LocationData,
			DataCluster:   uint32(offsetInData / clusterSize),
			ByteInCluster: uint32(offsetInData % clusterSize),
		}
	}

	return Location{Kind: LocationBeyondVolume}
}
