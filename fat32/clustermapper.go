package fat32

import "github.com/boljen/go-bitmap"

// ClusterMapper is the bidirectional relation the planner builds between
// backing-store paths and the cluster chains synthesized for them
// (clustermapping.rs's ClusterMapperOps). Two implementations are provided:
// a heap-backed one for normal use, and a fixed-capacity one for callers
// that want a bounded memory footprint known up front.
type ClusterMapper interface {
	// PathForCluster returns the path the given cluster is allocated to, or
	// ok=false if the cluster is unallocated.
	PathForCluster(cluster uint32) (path string, ok bool)
	// ChainForPath returns the ordered cluster chain allocated to path, or
	// nil if path has no allocation yet.
	ChainForPath(path string) []uint32
	// AddClusterToPath appends cluster to path's chain, creating the chain
	// if this is its first cluster.
	AddClusterToPath(path string, cluster uint32)
	// IsAllocated reports whether cluster belongs to any chain.
	IsAllocated(cluster uint32) bool
}

// heapClusterMapper is a HashMap-backed ClusterMapper (AllocClusterMapper).
type heapClusterMapper struct {
	clusterToPath map[uint32]string
	pathToChain   map[string][]uint32
}

// NewHeapClusterMapper returns a ClusterMapper with no capacity limit.
func NewHeapClusterMapper() ClusterMapper {
	return &heapClusterMapper{
		clusterToPath: make(map[uint32]string),
		pathToChain:   make(map[string][]uint32),
	}
}

func (m *heapClusterMapper) PathForCluster(cluster uint32) (string, bool) {
	p, ok := m.clusterToPath[cluster]
	return p, ok
}

func (m *heapClusterMapper) ChainForPath(path string) []uint32 {
	return m.pathToChain[path]
}

func (m *heapClusterMapper) AddClusterToPath(path string, cluster uint32) {
	m.pathToChain[path] = append(m.pathToChain[path], cluster)
	m.clusterToPath[cluster] = path
}

func (m *heapClusterMapper) IsAllocated(cluster uint32) bool {
	_, ok := m.clusterToPath[cluster]
	return ok
}

// fixedClusterMapper is a fixed-capacity ClusterMapper (NopClusterMapper):
// entries and per-entry chains are plain slices sized at construction, with
// lookups done by linear scan, and an allocation bitmap for fast
// IsAllocated queries without scanning every chain.
type fixedClusterMapper struct {
	entries  []fixedMapperEntry
	used     int
	capacity int

	allocated bitmap.Bitmap
	maxCluster int
}

type fixedMapperEntry struct {
	path  string
	chain []uint32
}

// NewFixedClusterMapper returns a ClusterMapper that can hold at most
// maxEntries distinct paths, each with room preallocated for maxChainLength
// clusters (a longer chain grows its slice past that), and tracks allocation
// across cluster indices [0, maxCluster).
func NewFixedClusterMapper(maxEntries, maxChainLength, maxCluster int) ClusterMapper {
	entries := make([]fixedMapperEntry, maxEntries)
	for i := range entries {
		entries[i].chain = make([]uint32, 0, maxChainLength)
	}
	return &fixedClusterMapper{
		entries:    entries,
		capacity:   maxEntries,
		allocated:  bitmap.New(maxCluster),
		maxCluster: maxCluster,
	}
}

func (m *fixedClusterMapper) findPath(path string) int {
	for i := 0; i < m.used; i++ {
		if m.entries[i].path == path {
			return i
		}
	}
	return -1
}

func (m *fixedClusterMapper) PathForCluster(cluster uint32) (string, bool) {
	if int(cluster) >= m.maxCluster || !m.allocated.Get(int(cluster)) {
		return "", false
	}
	for i := 0; i < m.used; i++ {
		for _, c := range m.entries[i].chain {
			if c == cluster {
				return m.entries[i].path, true
			}
		}
	}
	return "", false
}

func (m *fixedClusterMapper) ChainForPath(path string) []uint32 {
	idx := m.findPath(path)
	if idx < 0 {
		return nil
	}
	return m.entries[idx].chain
}

func (m *fixedClusterMapper) AddClusterToPath(path string, cluster uint32) {
	idx := m.findPath(path)
	if idx < 0 {
		if m.used >= m.capacity {
			return
		}
		idx = m.used
		m.entries[idx].path = path
		m.used++
	}
	m.entries[idx].chain = append(m.entries[idx].chain, cluster)
	if int(cluster) < m.maxCluster {
		m.allocated.Set(int(cluster), true)
	}
}

func (m *fixedClusterMapper) IsAllocated(cluster uint32) bool {
	if int(cluster) >= m.maxCluster {
		return false
	}
	return m.allocated.Get(int(cluster))
}
