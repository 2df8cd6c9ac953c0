package fat32

import (
	"strconv"
	"strings"
	"syscall"

	"github.com/dargueta/fatsynth"
	"github.com/dargueta/fatsynth/backing"
)

// Volume is a byte-addressable projection of a backing object store as a
// FAT32 block device. Build one with New; there is no zero value.
type Volume struct {
	params  *Parameters
	fsinfo  FSInfo
	fs      backing.FileSystem
	prefix  string
	mapper  ClusterMapper
	overlay Overlay
}

// volumeSettings accumulates VolumeOption effects before New does the one-
// shot plan.
type volumeSettings struct {
	bpbOpts []Option
	mapper  ClusterMapper
	overlay Overlay
}

// VolumeOption configures New.
type VolumeOption func(*volumeSettings)

// WithParameters forwards BPB-level options (volume label, geometry, etc.)
// to the boot sector projector.
func WithParameters(opts ...Option) VolumeOption {
	return func(s *volumeSettings) { s.bpbOpts = append(s.bpbOpts, opts...) }
}

// WithClusterMapper selects the ClusterMapper implementation the planner
// populates. Defaults to NewHeapClusterMapper.
func WithClusterMapper(mapper ClusterMapper) VolumeOption {
	return func(s *volumeSettings) { s.mapper = mapper }
}

// WithOverlay selects the Overlay implementation for staged writes.
// Defaults to NewHeapOverlay.
func WithOverlay(overlay Overlay) VolumeOption {
	return func(s *volumeSettings) { s.overlay = overlay }
}

// New plans and constructs a Volume projecting fs starting at prefix, a
// directory path in the backing store's native form (§9's resolution of the
// path-prefix open question: the prefix is never mutated or prepended with a
// path separator by this package).
func New(fs backing.FileSystem, prefix string, opts ...VolumeOption) (*Volume, error) {
	settings := &volumeSettings{}
	for _, opt := range opts {
		opt(settings)
	}

	probe := &Parameters{BytesPerSector: DefaultBytesPerSector, SectorsPerCluster: DefaultSectorsPerCluster}
	for _, opt := range settings.bpbOpts {
		opt(probe)
	}
	bytesPerCluster := probe.BytesPerCluster()

	mapper := settings.mapper
	if mapper == nil {
		mapper = NewHeapClusterMapper()
	}

	plan, err := Plan(fs, prefix, mapper, bytesPerCluster)
	if err != nil {
		return nil, err
	}

	totalSectors := plan.TotalClusters * uint32(probe.SectorsPerCluster)
	params, err := NewParameters(totalSectors, settings.bpbOpts...)
	if err != nil {
		return nil, err
	}

	overlay := settings.overlay
	if overlay == nil {
		overlay = NewHeapOverlay(int(bytesPerCluster))
	}

	return &Volume{
		params:  params,
		fsinfo:  NewFSInfo(),
		fs:      fs,
		prefix:  prefix,
		mapper:  plan.Mapper,
		overlay: overlay,
	}, nil
}

// Size returns the projected volume's length in bytes.
func (v *Volume) Size() uint64 {
	return uint64(v.params.TotalSectors32) * uint64(v.params.BytesPerSector)
}

// FATStart returns the device byte offset of the first File Allocation
// Table, for callers (diagnostics, tests) that need to address the volume
// without re-deriving its geometry.
func (v *Volume) FATStart() uint64 { return v.params.FATStart() }

// DataStart returns the device byte offset of the first data-region
// cluster.
func (v *Volume) DataStart() uint64 { return v.params.DataStart() }

// BytesPerCluster returns the projected volume's cluster size in bytes.
func (v *Volume) BytesPerCluster() uint32 { return v.params.BytesPerCluster() }

// ReadByte returns the byte at device offset idx.
func (v *Volume) ReadByte(idx uint64) (byte, error) {
	loc := v.params.Classify(idx)
	switch loc.Kind {
	case LocationBootSector:
		return v.params.ByteAt(int(idx)), nil
	case LocationFSInfo:
		return v.fsinfo.ByteAt(int(idx - 512)), nil
	case LocationFAT:
		entry := v.fatEntryForCluster(loc.Cluster)
		return entry.ByteAt(loc.ByteInEntry), nil
	case LocationData:
		if buf, ok := v.overlay.ClusterData(loc.DataCluster); ok {
			return buf[loc.ByteInCluster], nil
		}
		return v.projectDataByte(loc.DataCluster, loc.ByteInCluster)
	default:
		if idx < v.params.FATStart() {
			return 0, nil // reserved sectors between FS Info and the first FAT
		}
		return 0, fatsynth.NewDriverErrorWithMessage(syscall.ENXIO, "offset beyond end of volume")
	}
}

// WriteByte applies a single-byte write at device offset idx. Only bytes
// within the FAT region are writable; anything else is a fatal caller error
// (§4.10).
func (v *Volume) WriteByte(idx uint64, b byte) error {
	loc := v.params.Classify(idx)
	if loc.Kind != LocationFAT {
		return fatsynth.NewDriverErrorWithMessage(syscall.EROFS, "only FAT-region bytes are writable")
	}

	if _, ok := v.overlay.ClusterEntry(loc.Cluster); !ok {
		current := v.fatEntryForCluster(loc.Cluster)
		buf := v.overlay.InsertCluster(loc.Cluster, current)
		clusterSize := v.params.BytesPerCluster()
		for i := uint32(0); i < clusterSize; i++ {
			bt, err := v.projectDataByte(loc.Cluster, i)
			if err != nil {
				return err
			}
			buf[i] = bt
		}
	}

	entry, _ := v.overlay.ClusterEntry(loc.Cluster)
	raw := EncodeFATEntry(entry)
	shift := 8 * uint(loc.ByteInEntry)
	raw = (raw &^ (0xFF << shift)) | (uint32(b) << shift)
	v.overlay.SetClusterEntry(loc.Cluster, DecodeFATEntry(raw))
	return nil
}

// fatEntryForCluster resolves the projected FAT entry for cluster: overlay
// first, then the reserved-cluster special case (§9 open question 1), then
// the mapper-derived chain successor.
func (v *Volume) fatEntryForCluster(cluster uint32) FATEntry {
	if entry, ok := v.overlay.ClusterEntry(cluster); ok {
		return entry
	}
	if cluster == 0 {
		return FATEntry{Kind: FATRaw, Raw: 0x0FFFFF00 | uint32(v.params.Media)}
	}
	if cluster == 1 {
		return FATEntry{Kind: FATRaw, Raw: 0x0FFFFFFF}
	}

	path, ok := v.mapper.PathForCluster(cluster)
	if !ok {
		return FATEntry{Kind: FATFree}
	}
	chain := v.mapper.ChainForPath(path)
	for i, c := range chain {
		if c != cluster {
			continue
		}
		if i+1 < len(chain) {
			return FATEntry{Kind: FATNext, Next: chain[i+1]}
		}
		return FATEntry{Kind: FATEnd}
	}
	return FATEntry{Kind: FATFree}
}

// projectDataByte synthesizes byte offsetInCluster of cluster from the
// backing store, bypassing the overlay (the caller has already missed it).
func (v *Volume) projectDataByte(cluster uint32, offsetInCluster uint32) (byte, error) {
	path, ok := v.mapper.PathForCluster(cluster)
	if !ok {
		return 0, nil
	}

	chain := v.mapper.ChainForPath(path)
	chainIdx := -1
	for i, c := range chain {
		if c == cluster {
			chainIdx = i
			break
		}
	}
	if chainIdx < 0 {
		return 0, nil
	}

	byteOffsetInChain := uint64(chainIdx)*uint64(v.params.BytesPerCluster()) + uint64(offsetInCluster)

	if strings.HasSuffix(path, "/") {
		return v.directoryByteAt(path, byteOffsetInChain)
	}

	file, err := v.fs.GetFile(path)
	if err != nil {
		return 0, nil // backing I/O failure for a file may downgrade to 0 (§7)
	}
	buf := make([]byte, 1)
	n, err := file.ReadAt(int64(byteOffsetInChain), buf)
	if err != nil {
		return 0, nil
	}
	if n == 0 {
		return 0, nil
	}
	return buf[0], nil
}

func (v *Volume) directoryByteAt(dirPath string, byteOffsetInChain uint64) (byte, error) {
	entryIndex := int(byteOffsetInChain / entrySize)
	intra := int(byteOffsetInChain % entrySize)

	entry, err := v.directoryEntryAt(dirPath, entryIndex)
	if err != nil {
		return 0, err
	}
	return entry.ByteAt(intra), nil
}

// directoryEntryAt rebuilds the virtual entry stream for dirPath from
// scratch and returns the entry at entryIndex, per §4.7: restartable, pull-
// based, no entry materialized beyond what's needed to reach entryIndex.
func (v *Volume) directoryEntryAt(dirPath string, entryIndex int) (DirEntry, error) {
	dir, err := v.fs.GetDirectory(dirPath)
	if err != nil {
		return nil, err // unreadable directory is fatal (§7)
	}
	children, err := dir.Entries()
	if err != nil {
		return nil, err
	}

	used := make(map[string]bool)
	cur := 0
	for _, child := range children {
		name := child.Name()
		meta, err := child.Metadata()
		if err != nil {
			return nil, err
		}

		shortName := assignShortName(name, used)
		lfnCount := lfnCountForName(name)
		total := 1 + lfnCount

		if entryIndex < cur+total {
			offset := entryIndex - cur
			if offset < lfnCount {
				creationOrder := BuildLFNRecords(name, shortName)
				wireOrder := WireOrderLFNRecords(creationOrder)
				return wireOrder[offset], nil
			}

			fullPath := dirPath + name
			if meta.IsDirectory {
				fullPath += "/"
			}
			return v.buildFileEntry(shortName, meta, v.firstClusterFor(fullPath)), nil
		}
		cur += total
	}

	return EmptyEntry{}, nil
}

// firstClusterFor returns the FAT32 first_cluster value for path: the
// mapper's chain head offset by the two reserved clusters, or the Bad
// sentinel if path has no chain (§4.7 step 4).
func (v *Volume) firstClusterFor(path string) uint32 {
	chain := v.mapper.ChainForPath(path)
	if len(chain) == 0 {
		return badEntry
	}
	return chain[0] + 2
}

func (v *Volume) buildFileEntry(name ShortName, meta backing.Metadata, firstCluster uint32) FileEntry {
	attrs := AttributesFromMetadata(meta.IsDirectory, meta.IsHidden, meta.IsReadOnly)

	createMillis := epochMillisFromTime(meta.CreatedAt)
	createDate := EncodeDate(DateFromEpochMillis(createMillis))
	createTime, createHiRes := TimeWithHiRes(TimeFromEpochMillis(createMillis), meta.CreatedAt.Nanosecond())

	accessDate := EncodeDate(DateFromEpochMillis(epochMillisFromTime(meta.AccessedAt)))

	modifyMillis := epochMillisFromTime(meta.ModifiedAt)
	modifyDate := EncodeDate(DateFromEpochMillis(modifyMillis))
	modifyTime := EncodeTime(TimeFromEpochMillis(modifyMillis))

	size := uint32(meta.Size)
	if meta.IsDirectory {
		size = 0
	}

	return FileEntry{
		Name:             name,
		Attrs:            attrs,
		CreateTimeHiRes:  createHiRes,
		CreateTime:       createTime,
		CreateDate:       createDate,
		AccessDate:       accessDate,
		FirstClusterHigh: uint16(firstCluster >> 16),
		ModifyTime:       modifyTime,
		ModifyDate:       modifyDate,
		FirstClusterLow:  uint16(firstCluster & 0xFFFF),
		Size:             size,
	}
}

// ClusterMapRow is one path's cluster-chain assignment, shaped for CSV
// export via gocsv (cmd/fatsynth's inspect subcommand).
type ClusterMapRow struct {
	Path      string `csv:"path"`
	Clusters  string `csv:"clusters"`
	NumBlocks int    `csv:"num_clusters"`
}

// ClusterMap walks the backing store the same way Plan did and reports the
// cluster chain assigned to every directory and file, for diagnostics. It
// re-derives the walk order from the backing store rather than caching it
// from New, consistent with the rest of this package never trusting stored
// traversal state across calls.
func (v *Volume) ClusterMap() ([]ClusterMapRow, error) {
	var rows []ClusterMapRow
	pathQueue := []string{v.prefix}

	for len(pathQueue) > 0 {
		cur := pathQueue[len(pathQueue)-1]
		pathQueue = pathQueue[:len(pathQueue)-1]

		rows = append(rows, v.clusterMapRow(cur))

		dir, err := v.fs.GetDirectory(cur)
		if err != nil {
			return nil, err
		}
		children, err := dir.Entries()
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			name := child.Name()
			path := cur + name
			meta, err := child.Metadata()
			if err != nil {
				return nil, err
			}
			if meta.IsDirectory {
				pathQueue = append(pathQueue, path+"/")
				continue
			}
			rows = append(rows, v.clusterMapRow(path))
		}
	}

	return rows, nil
}

func (v *Volume) clusterMapRow(path string) ClusterMapRow {
	chain := v.mapper.ChainForPath(path)
	parts := make([]string, len(chain))
	for i, c := range chain {
		parts[i] = strconv.FormatUint(uint64(c), 10)
	}
	return ClusterMapRow{
		Path:      path,
		Clusters:  strings.Join(parts, " "),
		NumBlocks: len(chain),
	}
}

// nameHashSeed mirrors the original generator's name-derived starting point
// for short-name duplicate suffixes: a rolling XOR/shift over (byte - 'A')'s
// low nibble, wrapping as an 8-bit value. It isn't itself collision-free —
// assignShortName bumps it until the result is unique among this call's
// siblings.
func nameHashSeed(name string) int {
	var idx uint8
	for i := 0; i < len(name); i++ {
		offset := name[i] - 'A'
		bottomBits := offset & 0x0F
		idx = (idx << 1) ^ bottomBits
	}
	return int(idx)
}

// assignShortName picks a ShortName for name that doesn't collide with any
// name already recorded in used (by logical "NAME.EXT" text), registering
// its own choice before returning. This is the per-directory uniqueness
// pass called for by §9 open question 4.
func assignShortName(name string, used map[string]bool) ShortName {
	if sn, ok := ParseShortName(name); ok {
		used[sn.Name()+"."+sn.Ext()] = true
		return sn
	}

	dup := nameHashSeed(name)
	for {
		sn := ConvertShortName(name, dup)
		key := sn.Name() + "." + sn.Ext()
		if !used[key] {
			used[key] = true
			return sn
		}
		dup++
	}
}
