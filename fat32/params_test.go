package fat32_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dargueta/fatsynth/fat32"
)

func TestNewParameters__Defaults(t *testing.T) {
	p, err := fat32.NewParameters(1_000_000)
	require.NoError(t, err)
	assert.EqualValues(t, fat32.DefaultBytesPerSector, p.BytesPerSector)
	assert.EqualValues(t, fat32.DefaultSectorsPerCluster, p.SectorsPerCluster)
	assert.EqualValues(t, fat32.DefaultFATCount, p.FATCount)
	assert.NotZero(t, p.SectorsPerFAT32)
}

func TestNewParameters__Trailer(t *testing.T) {
	p, err := fat32.NewParameters(1_000_000)
	require.NoError(t, err)
	assert.EqualValues(t, 0x55, p.ByteAt(510))
	assert.EqualValues(t, 0xAA, p.ByteAt(511))
}

func TestNewParameters__FilesystemTypeLabel(t *testing.T) {
	p, err := fat32.NewParameters(1_000_000)
	require.NoError(t, err)
	label := make([]byte, 8)
	for i := range label {
		label[i] = p.ByteAt(82 + i)
	}
	assert.Equal(t, "FAT32   ", string(label))
}

func TestNewParameters__BootSignatureByte(t *testing.T) {
	p, err := fat32.NewParameters(1_000_000)
	require.NoError(t, err)
	assert.EqualValues(t, 0x29, p.ByteAt(66))
}

func TestNewParameters__VolumeLabelOption(t *testing.T) {
	p, err := fat32.NewParameters(1_000_000, fat32.WithVolumeLabel("HELLO"))
	require.NoError(t, err)
	label := make([]byte, 11)
	for i := range label {
		label[i] = p.ByteAt(71 + i)
	}
	assert.Equal(t, "HELLO      ", string(label))
}

func TestNewParameters__InvalidBytesPerSector(t *testing.T) {
	_, err := fat32.NewParameters(1_000_000, fat32.WithBytesPerSector(300))
	assert.Error(t, err)
}

func TestNewParameters__InvalidSectorsPerClusterAggregatesWithOtherErrors(t *testing.T) {
	_, err := fat32.NewParameters(0, fat32.WithSectorsPerCluster(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SectorsPerCluster")
	assert.Contains(t, err.Error(), "TotalSectors32")
}

func TestParameters_DataStartAfterFAT(t *testing.T) {
	p, err := fat32.NewParameters(1_000_000)
	require.NoError(t, err)
	assert.Equal(t, p.FATEnd(), p.DataStart())
	assert.Greater(t, p.DataStart(), p.FATStart())
}

func TestParameters_BytesPerCluster(t *testing.T) {
	p, err := fat32.NewParameters(1_000_000, fat32.WithBytesPerSector(512), fat32.WithSectorsPerCluster(4))
	require.NoError(t, err)
	assert.EqualValues(t, 2048, p.BytesPerCluster())
}
