package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt64ToBytes(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 2}, Int64ToBytes(258))
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, Int64ToBytes(-1))
}

func TestHexRoundTrip(t *testing.T) {
	b, err := HexToBytes("00ab")
	assert.Nil(t, err)
	assert.Equal(t, []byte{0x00, 0xab}, b)
	assert.Equal(t, "00ab", BytesToHex(b))

	_, err = HexToBytes("xyz")
	assert.NotNil(t, err)
}
