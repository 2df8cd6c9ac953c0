package fat32

import "sort"

// Overlay is cluster-granular copy-on-write staging for writes (changeset.rs).
// A cluster only appears in the overlay once something has written to it;
// until then, reads fall through to the lazily-synthesized read path.
type Overlay interface {
	// ClusterEntry returns the staged FAT entry for cluster, if any.
	ClusterEntry(cluster uint32) (FATEntry, bool)
	// SetClusterEntry updates the staged FAT entry for an already-inserted
	// cluster. Calling this on a cluster that hasn't been inserted is a
	// no-op.
	SetClusterEntry(cluster uint32, entry FATEntry)
	// ClusterData returns the staged cluster-sized buffer for cluster, if
	// any.
	ClusterData(cluster uint32) ([]byte, bool)
	// InsertCluster stages cluster for the first time with the given FAT
	// entry and returns its data buffer, zero-filled, for the caller to
	// backfill from the current read-path projection before applying the
	// write that triggered the insert.
	InsertCluster(cluster uint32, entry FATEntry) []byte
}

// heapOverlay is a HashMap-backed Overlay (AllocChangeSet).
type heapOverlay struct {
	clusterSize int
	entries     map[uint32]*overlayCluster
}

type overlayCluster struct {
	data  []byte
	entry FATEntry
}

// NewHeapOverlay returns an Overlay with no capacity limit, staging clusters
// of clusterSize bytes each.
func NewHeapOverlay(clusterSize int) Overlay {
	return &heapOverlay{
		clusterSize: clusterSize,
		entries:     make(map[uint32]*overlayCluster),
	}
}

func (o *heapOverlay) ClusterEntry(cluster uint32) (FATEntry, bool) {
	e, ok := o.entries[cluster]
	if !ok {
		return FATEntry{}, false
	}
	return e.entry, true
}

func (o *heapOverlay) SetClusterEntry(cluster uint32, entry FATEntry) {
	if e, ok := o.entries[cluster]; ok {
		e.entry = entry
	}
}

func (o *heapOverlay) ClusterData(cluster uint32) ([]byte, bool) {
	e, ok := o.entries[cluster]
	if !ok {
		return nil, false
	}
	return e.data, true
}

func (o *heapOverlay) InsertCluster(cluster uint32, entry FATEntry) []byte {
	if e, ok := o.entries[cluster]; ok {
		return e.data
	}
	data := make([]byte, o.clusterSize)
	o.entries[cluster] = &overlayCluster{data: data, entry: entry}
	return data
}

// fixedOverlay is a fixed-capacity Overlay (NoallocChangeSet): entries are
// kept sorted by cluster index for binary-search lookup, with badClusterTag
// (0xFFFFFFFF, above any real 28-bit cluster index) marking unused slots.
type fixedOverlay struct {
	clusterSize int
	clusters    []uint32 // parallel sorted arrays; badClusterTag = unused
	entries     []FATEntry
	data        [][]byte
	used        int
}

const badClusterTag = 0xFFFFFFFF

// NewFixedOverlay returns an Overlay that can stage at most capacity
// distinct clusters of clusterSize bytes each.
func NewFixedOverlay(capacity, clusterSize int) Overlay {
	clusters := make([]uint32, capacity)
	for i := range clusters {
		clusters[i] = badClusterTag
	}
	return &fixedOverlay{
		clusterSize: clusterSize,
		clusters:    clusters,
		entries:     make([]FATEntry, capacity),
		data:        make([][]byte, capacity),
	}
}

func (o *fixedOverlay) find(cluster uint32) (int, bool) {
	i := sort.Search(o.used, func(i int) bool { return o.clusters[i] >= cluster })
	if i < o.used && o.clusters[i] == cluster {
		return i, true
	}
	return i, false
}

func (o *fixedOverlay) ClusterEntry(cluster uint32) (FATEntry, bool) {
	idx, ok := o.find(cluster)
	if !ok {
		return FATEntry{}, false
	}
	return o.entries[idx], true
}

func (o *fixedOverlay) SetClusterEntry(cluster uint32, entry FATEntry) {
	if idx, ok := o.find(cluster); ok {
		o.entries[idx] = entry
	}
}

func (o *fixedOverlay) ClusterData(cluster uint32) ([]byte, bool) {
	idx, ok := o.find(cluster)
	if !ok {
		return nil, false
	}
	return o.data[idx], true
}

func (o *fixedOverlay) InsertCluster(cluster uint32, entry FATEntry) []byte {
	if idx, ok := o.find(cluster); ok {
		return o.data[idx]
	}
	if o.used >= len(o.clusters) {
		return make([]byte, o.clusterSize) // capacity exhausted, discarded on next read
	}

	insertAt, _ := o.find(cluster)
	for i := o.used; i > insertAt; i-- {
		o.clusters[i] = o.clusters[i-1]
		o.entries[i] = o.entries[i-1]
		o.data[i] = o.data[i-1]
	}

	buf := make([]byte, o.clusterSize)
	o.clusters[insertAt] = cluster
	o.entries[insertAt] = entry
	o.data[insertAt] = buf
	o.used++
	return buf
}
