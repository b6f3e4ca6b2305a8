package varint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPutZigzag_Zigzag_RoundTrip(t *testing.T) {
	vals := []int64{0, 1, -1, 63, -64, 64, -65, 1000, -1000, 1 << 40, -(1 << 40)}

	for _, v := range vals {
		buf := PutZigzag(nil, v)
		got, n := Zigzag(buf)
		assert.Equal(t, v, got, "value %d", v)
		assert.Equal(t, len(buf), n, "value %d", v)
	}
}

func TestPutZigzag_SmallValuesFitOneByte(t *testing.T) {
	assert.Len(t, PutZigzag(nil, 0), 1)
	assert.Len(t, PutZigzag(nil, -1), 1)
	assert.Len(t, PutZigzag(nil, 63), 1)
}

func TestPutZigzag_AppendsToExistingBuffer(t *testing.T) {
	buf := []byte{0xff}
	buf = PutZigzag(buf, 5)
	assert.Equal(t, byte(0xff), buf[0])

	got, n := Zigzag(buf[1:])
	assert.Equal(t, int64(5), got)
	assert.Equal(t, 1, n)
}

func TestZigzag_IncompleteBufferReturnsZero(t *testing.T) {
	got, n := Zigzag([]byte{0x80, 0x80})
	assert.Equal(t, int64(0), got)
	assert.Equal(t, 0, n)

	got, n = Zigzag(nil)
	assert.Equal(t, int64(0), got)
	assert.Equal(t, 0, n)
}

func TestZigzag_ConsumesOnlyItsOwnBytes(t *testing.T) {
	buf := PutZigzag(nil, 300)
	buf = PutZigzag(buf, -7)

	first, n := Zigzag(buf)
	assert.Equal(t, int64(300), first)

	second, _ := Zigzag(buf[n:])
	assert.Equal(t, int64(-7), second)
}
