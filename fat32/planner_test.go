package fat32_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dargueta/fatsynth/fat32"
)

func TestPlan__EmptyRootGetsOneClusterAndFloorTotal(t *testing.T) {
	fs := newFakeFS()
	mapper := fat32.NewHeapClusterMapper()

	result, err := fat32.Plan(fs, "/", mapper, 4096)
	require.NoError(t, err)

	chain := mapper.ChainForPath("/")
	assert.Len(t, chain, 1)
	assert.GreaterOrEqual(t, result.TotalClusters, uint32(0xAB_CDEF))
}

func TestPlan__FileGetsItsOwnChainDistinctFromRoot(t *testing.T) {
	fs := newFakeFS()
	fs.root.addFile("README.TXT", []byte("hello world"))
	mapper := fat32.NewHeapClusterMapper()

	_, err := fat32.Plan(fs, "/", mapper, 4096)
	require.NoError(t, err)

	rootChain := mapper.ChainForPath("/")
	fileChain := mapper.ChainForPath("/README.TXT")
	require.Len(t, rootChain, 1)
	require.Len(t, fileChain, 1)
	assert.NotEqual(t, rootChain[0], fileChain[0])
}

func TestPlan__MultiClusterFileGetsContiguousChainLength(t *testing.T) {
	fs := newFakeFS()
	fs.root.addFile("BIG.BIN", make([]byte, 4096*3))
	mapper := fat32.NewHeapClusterMapper()

	_, err := fat32.Plan(fs, "/", mapper, 4096)
	require.NoError(t, err)

	chain := mapper.ChainForPath("/BIG.BIN")
	assert.Len(t, chain, 3)
}

func TestPlan__SubdirectoryGetsOwnChain(t *testing.T) {
	fs := newFakeFS()
	sub := fs.root.addDir("SUB")
	sub.addFile("A.TXT", []byte("x"))
	mapper := fat32.NewHeapClusterMapper()

	_, err := fat32.Plan(fs, "/", mapper, 4096)
	require.NoError(t, err)

	assert.NotEmpty(t, mapper.ChainForPath("/SUB/"))
	assert.NotEmpty(t, mapper.ChainForPath("/SUB/A.TXT"))
}

// TestPlan__DirectoryOwnEntriesOverflowIntoSecondCluster covers the
// directory-self-allocation branch distinct from per-file allocation: enough
// short-named files that the root's own 32-byte-entry stream no longer fits
// in one 4096-byte cluster.
func TestPlan__DirectoryOwnEntriesOverflowIntoSecondCluster(t *testing.T) {
	fs := newFakeFS()
	for i := 0; i < 200; i++ {
		fs.root.addFile(fmt.Sprintf("F%03d.TXT", i), []byte("x"))
	}
	mapper := fat32.NewHeapClusterMapper()

	_, err := fat32.Plan(fs, "/", mapper, 4096)
	require.NoError(t, err)

	rootChain := mapper.ChainForPath("/")
	assert.Len(t, rootChain, 2)
	assert.NotEqual(t, rootChain[0], rootChain[1])
}

func TestPlan__StableAcrossRepeatedCalls(t *testing.T) {
	fs := newFakeFS()
	fs.root.addFile("A.TXT", []byte("x"))
	fs.root.addFile("B.TXT", []byte("y"))

	m1 := fat32.NewHeapClusterMapper()
	_, err := fat32.Plan(fs, "/", m1, 4096)
	require.NoError(t, err)

	m2 := fat32.NewHeapClusterMapper()
	_, err = fat32.Plan(fs, "/", m2, 4096)
	require.NoError(t, err)

	assert.Equal(t, m1.ChainForPath("/A.TXT"), m2.ChainForPath("/A.TXT"))
	assert.Equal(t, m1.ChainForPath("/B.TXT"), m2.ChainForPath("/B.TXT"))
}
