package fat32

import (
	"github.com/dargueta/fatsynth/backing"
)

// entrySize is the size, in bytes, of one raw directory-entry slot.
const entrySize = 32

// minimumTotalClusters is a floor on the synthesized volume's total cluster
// count, matching the original generator's 0xAB_CDEF constant: small backing
// stores still present as a plausible-looking multi-gigabyte FAT32 volume
// rather than a suspiciously tiny one.
const minimumTotalClusters = 0xAB_CDEF

// lfnCountForName reports how many LFN records are needed to store name in
// full: zero if the short-name codec can represent it exactly, otherwise
// LFNCount(name).
func lfnCountForName(name string) int {
	if _, ok := ParseShortName(name); ok {
		return 0
	}
	return LFNCount(name)
}

// ceilDiv divides a by b, rounding up.
func ceilDiv(a, b uint32) uint32 {
	if a%b == 0 {
		return a / b
	}
	return a/b + 1
}

// PlanResult is the cluster layout a single planning pass assigns to a
// backing store: every directory and non-empty file under prefix gets a
// cluster chain (a zero-length file gets none),
// recorded in Mapper, and TotalClusters is how large the volume needs to be
// to hold them plus headroom (faker.rs's FakeFat::new).
type PlanResult struct {
	Mapper        ClusterMapper
	TotalClusters uint32
}

// Plan performs the one-shot traversal that assigns a cluster chain to every
// directory and non-empty file reachable from prefix in fs, recording the assignments
// in mapper. It does not touch the backing store's contents, only its shape
// (directory listings and file sizes): the layout it produces is stable
// across repeated calls as long as the backing store doesn't change between
// them, which is the property the rest of this package's lazy projection
// depends on.
//
// bytesPerCluster must match the Parameters the resulting layout will be
// projected through.
func Plan(fs backing.FileSystem, prefix string, mapper ClusterMapper, bytesPerCluster uint32) (PlanResult, error) {
	// Clusters 0 and 1 carry the reserved FAT entries, so the root
	// directory's chain starts at cluster 2.
	curCluster := uint32(DefaultRootDirCluster)
	pathQueue := []string{prefix}

	for len(pathQueue) > 0 {
		cur := pathQueue[len(pathQueue)-1]
		pathQueue = pathQueue[:len(pathQueue)-1]

		dir, err := fs.GetDirectory(cur)
		if err != nil {
			return PlanResult{}, err
		}
		children, err := dir.Entries()
		if err != nil {
			return PlanResult{}, err
		}

		entryCount := 0
		for _, child := range children {
			name := child.Name()
			path := cur + name
			meta, err := child.Metadata()
			if err != nil {
				return PlanResult{}, err
			}
			entryCount += 1 + lfnCountForName(name)

			if meta.IsDirectory {
				pathQueue = append(pathQueue, path+"/")
				continue
			}

			neededClusters := ceilDiv(uint32(meta.Size), bytesPerCluster)
			var fileClusters []uint32
			for uint32(len(fileClusters)) < neededClusters {
				offset := curCluster + 12
				for mapper.IsAllocated(offset) {
					offset++
				}
				fileClusters = append(fileClusters, offset)
				mapper.AddClusterToPath(path, offset)
			}
		}

		if entryCount == 0 {
			entryCount = 1
		}
		neededBytes := uint32(entryCount) * entrySize
		neededClusters := ceilDiv(neededBytes, bytesPerCluster)
		for i := uint32(0); i < neededClusters; i++ {
			for mapper.IsAllocated(curCluster) {
				curCluster++
			}
			mapper.AddClusterToPath(cur, curCluster)
		}
	}

	totalClusters := curCluster + DefaultRootDirCluster + 1
	if totalClusters < minimumTotalClusters {
		totalClusters = minimumTotalClusters
	}

	return PlanResult{Mapper: mapper, TotalClusters: totalClusters}, nil
}
