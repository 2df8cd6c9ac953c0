package fat32_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dargueta/fatsynth/fat32"
)

func TestNewFSInfo__UnknownSentinels(t *testing.T) {
	fs := fat32.NewFSInfo()
	assert.EqualValues(t, 0xFFFFFFFF, fs.FreeCount)
	assert.EqualValues(t, 0xFFFFFFFF, fs.NextFree)
}

func TestFSInfo_ByteAt__Signatures(t *testing.T) {
	fs := fat32.NewFSInfo()
	assert.EqualValues(t, 0x52, fs.ByteAt(0))
	assert.EqualValues(t, 0x52, fs.ByteAt(1))
	assert.EqualValues(t, 0x61, fs.ByteAt(2))
	assert.EqualValues(t, 0x41, fs.ByteAt(3))
	assert.EqualValues(t, 0x72, fs.ByteAt(484))
	assert.EqualValues(t, 0x61, fs.ByteAt(487))
	assert.EqualValues(t, 0x55, fs.ByteAt(510))
	assert.EqualValues(t, 0xAA, fs.ByteAt(511))
}

func TestFSInfo_ByteAt__FreeCountLittleEndian(t *testing.T) {
	fs := fat32.FSInfo{FreeCount: 0x01020304, NextFree: 0}
	assert.EqualValues(t, 0x04, fs.ByteAt(488))
	assert.EqualValues(t, 0x03, fs.ByteAt(489))
	assert.EqualValues(t, 0x02, fs.ByteAt(490))
	assert.EqualValues(t, 0x01, fs.ByteAt(491))
}

func TestFSInfo_ByteAt__UnusedRegionIsZero(t *testing.T) {
	fs := fat32.NewFSInfo()
	assert.EqualValues(t, 0, fs.ByteAt(100))
}
