package catalog

import (
	"encoding/binary"
	"sync"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/das2/errs"
)

// Compressor compresses a whole catalog node document for storage.
//
// This mirrors the teacher's compress.Compressor shape, retyped here for
// whole-document JSON payloads rather than mebo's columnar timestamp/value
// payloads.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a document previously produced by a matching
// Compressor.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// S2Codec is the default codec: fast, used for the hot in-process memo
// spill where documents are re-read far more often than written.
type S2Codec struct{}

var _ Codec = S2Codec{}

func (S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

func (S2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}

// lz4CompressorPool pools lz4.Compressor instances, which carry internal
// match-finding state worth reusing across calls.
var lz4CompressorPool = sync.Pool{
	New: func() any { return &lz4.Compressor{} },
}

// LZ4Codec favors the on-disk long-lived cache: slower to compress than
// S2Codec but a smaller resident footprint for documents that sit on disk
// far longer than they sit in the in-process memo.
type LZ4Codec struct{}

var _ Codec = LZ4Codec{}

// Compress prefixes the block with a uvarint original-length header since
// lz4.UncompressBlock needs a correctly-sized destination buffer and the
// block itself carries no size information.
func (LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, binary.MaxVarintLen64+lz4.CompressBlockBound(len(data)))
	hdrLen := binary.PutUvarint(dst, uint64(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[hdrLen:])
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Incompressible block: lz4 signals this by writing nothing, so
		// fall back to storing the block raw behind the same header.
		return append(dst[:hdrLen], data...), nil
	}

	return dst[:hdrLen+n], nil
}

func (LZ4Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	origLen, hdrLen := binary.Uvarint(data)
	if hdrLen <= 0 {
		return nil, errs.ErrCatalogBadCodec
	}
	body := data[hdrLen:]

	dst := make([]byte, origLen)
	n, err := lz4.UncompressBlock(body, dst)
	if err != nil {
		// Raw fallback path: body length already equals origLen.
		if len(body) == int(origLen) {
			copy(dst, body)

			return dst, nil
		}

		return nil, err
	}

	return dst[:n], nil
}

// zstdDecoderPool and zstdEncoderPool pool zstd encoder/decoder state,
// which the klauspost/compress/zstd docs call out as designed for reuse
// ("store the decoder for best performance").
var zstdDecoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(err)
		}

		return dec
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			panic(err)
		}

		return enc
	},
}

// ZstdCodec favors the cold path: catalog documents that are fetched once
// and archived, where the higher compression ratio is worth the extra
// CPU. It is the pure-Go backend the teacher itself falls back to when its
// cgo-bound gozstd path is unavailable (see DESIGN.md).
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	enc, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(enc)

	return enc.EncodeAll(data, nil), nil
}

func (ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dec, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(dec)

	return dec.DecodeAll(data, nil)
}
