package fat32

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortName_ByteAt__0xE5Substitution(t *testing.T) {
	sn := emptyShortName()
	sn.data[0] = 0xE5
	assert.EqualValues(t, 0x05, sn.ByteAt(0))
	assert.EqualValues(t, ' ', sn.ByteAt(1))
}

func TestNameHashSeed__Deterministic(t *testing.T) {
	assert.Equal(t, nameHashSeed("README.TXT"), nameHashSeed("README.TXT"))
}
