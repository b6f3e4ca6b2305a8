package stream_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/das2/stream"
)

func TestRoundTrip_PlainStream(t *testing.T) {
	var buf bytes.Buffer

	w, err := stream.NewWriter(&buf)
	require.NoError(t, err)

	sd := &stream.StreamDesc{
		Properties: stream.Properties{Items: []stream.Property{
			{Type: "String", Key: "title", Value: "test stream"},
			{Type: "double", Key: "cadence", Value: "1.0"},
		}},
	}
	require.NoError(t, w.WriteStreamDesc(sd))

	pd := &stream.PacketDesc{
		X: stream.Plane{Units: "us2000", Type: "double", Length: 1},
		Y: []stream.Plane{{Units: "nT", Type: "float", Length: 1}},
	}
	require.NoError(t, w.WritePacketDesc(1, pd))

	record := make([]byte, 12)
	binary.LittleEndian.PutUint64(record[0:8], math.Float64bits(1000))
	binary.LittleEndian.PutUint32(record[8:12], math.Float32bits(3.5))
	require.NoError(t, w.WriteData(1, record))
	require.NoError(t, w.Flush())

	var gotStreamDesc *stream.StreamDesc
	var gotPacketDesc *stream.PacketDesc
	var gotRecord []byte
	closed := false

	r, err := stream.NewReader(&buf, stream.WithHandlers(stream.Handlers{
		OnStreamDesc: func(sd *stream.StreamDesc) error { gotStreamDesc = sd; return nil },
		OnPacketDesc: func(id int, pd *stream.PacketDesc) error { gotPacketDesc = pd; return nil },
		OnData: func(id int, pd *stream.PacketDesc, rec []byte) error {
			gotRecord = append([]byte(nil), rec...)
			return nil
		},
		OnClose: func() error { closed = true; return nil },
	}))
	require.NoError(t, err)
	require.NoError(t, r.ReadLoop())

	require.NotNil(t, gotStreamDesc)
	title, ok := gotStreamDesc.Properties.Get("title")
	require.True(t, ok)
	assert.Equal(t, "test stream", title)

	require.NotNil(t, gotPacketDesc)
	assert.Equal(t, "us2000", gotPacketDesc.X.Units)

	assert.Equal(t, record, gotRecord)
	assert.True(t, closed)
}

// TestRoundTrip_Deflate reproduces spec.md §8 scenario 5: write a stream
// with compression="deflate" containing many packets, re-read with a
// fresh reader, every packet's payload is bit-identical.
func TestRoundTrip_Deflate(t *testing.T) {
	var buf bytes.Buffer

	w, err := stream.NewWriter(&buf)
	require.NoError(t, err)

	sd := &stream.StreamDesc{Compression: "deflate"}
	require.NoError(t, w.WriteStreamDesc(sd))

	pd := &stream.PacketDesc{X: stream.Plane{Type: "double", Length: 1}}
	require.NoError(t, w.WritePacketDesc(1, pd))

	const n = 1000
	want := make([][]byte, n)
	for i := 0; i < n; i++ {
		rec := make([]byte, 8)
		binary.LittleEndian.PutUint64(rec, math.Float64bits(float64(i)*1.5))
		want[i] = rec
		require.NoError(t, w.WriteData(1, rec))
	}
	require.NoError(t, w.Flush())

	var got [][]byte
	r, err := stream.NewReader(&buf, stream.WithHandlers(stream.Handlers{
		OnData: func(id int, pd *stream.PacketDesc, rec []byte) error {
			got = append(got, append([]byte(nil), rec...))
			return nil
		},
	}))
	require.NoError(t, err)
	require.NoError(t, r.ReadLoop())

	require.Len(t, got, n)
	for i := range want {
		assert.Equal(t, want[i], got[i], "packet %d", i)
	}
}

func TestReadLoop_EmptyStreamErrors(t *testing.T) {
	var buf bytes.Buffer
	r, err := stream.NewReader(&buf)
	require.NoError(t, err)
	err = r.ReadLoop()
	assert.Error(t, err)
}

func TestReadLoop_UnknownPacketIDErrors(t *testing.T) {
	var buf bytes.Buffer
	w, err := stream.NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.WriteStreamDesc(&stream.StreamDesc{}))
	require.NoError(t, w.Flush())

	// Hand-write a data frame for an id that was never registered.
	buf.WriteString(":02:")

	r, err := stream.NewReader(&buf)
	require.NoError(t, err)
	err = r.ReadLoop()
	assert.Error(t, err)
}

func TestOOB_CommentAndException(t *testing.T) {
	var buf bytes.Buffer
	w, err := stream.NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.WriteStreamDesc(&stream.StreamDesc{}))
	require.NoError(t, w.WriteComment(stream.Comment{Type: "log:info", Text: "hello"}))
	require.NoError(t, w.WriteException(stream.Exception{Type: "IllegalArgument", Message: "bad query"}))
	require.NoError(t, w.Flush())

	var gotComment stream.Comment
	var gotException stream.Exception
	r, err := stream.NewReader(&buf, stream.WithHandlers(stream.Handlers{
		OnComment:   func(c stream.Comment) error { gotComment = c; return nil },
		OnException: func(e stream.Exception) error { gotException = e; return nil },
	}))
	require.NoError(t, err)
	require.NoError(t, r.ReadLoop())

	assert.True(t, gotComment.IsLog())
	assert.Equal(t, "hello", gotComment.Text)
	assert.Equal(t, "bad query", gotException.Message)
}

func TestWriteStreamDesc_OnlyOnce(t *testing.T) {
	var buf bytes.Buffer
	w, err := stream.NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.WriteStreamDesc(&stream.StreamDesc{}))
	err = w.WriteStreamDesc(&stream.StreamDesc{})
	assert.Error(t, err)
}

func TestWriteData_RejectsSizeMismatch(t *testing.T) {
	var buf bytes.Buffer
	w, err := stream.NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.WriteStreamDesc(&stream.StreamDesc{}))
	require.NoError(t, w.WritePacketDesc(1, &stream.PacketDesc{X: stream.Plane{Type: "double", Length: 1}}))

	err = w.WriteData(1, []byte{1, 2, 3})
	assert.Error(t, err)
}
