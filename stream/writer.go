package stream

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/arloliu/das2/errs"
)

// dest returns the writer currently in effect: the raw bufio.Writer before
// deflate mode begins, or the zlib writer wrapping it afterward.
func (io_ *Io) dest() io.Writer {
	if io_.deflateW != nil {
		return io_.deflateW
	}

	return io_.bw
}

// WriteStreamDesc writes the root `[00]` descriptor. It must be called
// exactly once, before any other write (§4.5 "Write loop"). If sd declares
// compression="deflate", every subsequent write is transparently wrapped
// in a zlib stream.
func (io_ *Io) WriteStreamDesc(sd *StreamDesc) error {
	if io_.streamDesc != nil {
		return fmt.Errorf("stream: %w", errs.ErrDuplicateStreamDesc)
	}

	body, err := xml.Marshal(sd)
	if err != nil {
		return err
	}

	if err := io_.writeFramed(descriptorTag(0), body); err != nil {
		return err
	}
	io_.streamDesc = sd

	if sd.IsDeflate() {
		io_.deflateW = zlib.NewWriter(io_.bw)
		io_.deflating = true
	}

	return nil
}

// WritePacketDesc writes a `[NN]` packet descriptor and registers it under
// id, the same way a reader would upon receiving it.
func (io_ *Io) WritePacketDesc(id int, pd *PacketDesc) error {
	if io_.streamDesc == nil {
		return fmt.Errorf("stream: %w", errs.ErrNoStreamDescWritten)
	}
	if id < 1 || id > 99 {
		return fmt.Errorf("stream: %w", errs.ErrUnsupportedPacketID)
	}

	body, err := xml.Marshal(pd)
	if err != nil {
		return err
	}

	if err := io_.writeFramed(descriptorTag(id), body); err != nil {
		return err
	}
	io_.packetDescs[id] = pd

	return nil
}

// WriteData writes one data packet's raw record bytes under id, whose
// length must equal the registered descriptor's RecordSize.
func (io_ *Io) WriteData(id int, record []byte) error {
	desc, ok := io_.packetDescs[id]
	if !ok {
		return fmt.Errorf("stream: %w: id %d", errs.ErrUnknownPacketID, id)
	}
	if want := desc.RecordSize(io_.fieldSize); want != len(record) {
		return fmt.Errorf("stream: %w: want %d got %d", errs.ErrRecordSizeMismatch, want, len(record))
	}

	tag := dataTag(id)
	if _, err := io_.dest().Write(tag[:]); err != nil {
		return fmt.Errorf("stream: %w", errs.ErrIO)
	}
	if _, err := io_.dest().Write(record); err != nil {
		return fmt.Errorf("stream: %w", errs.ErrIO)
	}

	return nil
}

// WriteComment writes a `<comment>` OOB packet.
func (io_ *Io) WriteComment(c Comment) error {
	body, err := xml.Marshal(c)
	if err != nil {
		return err
	}

	return io_.writeFramed(oobTag, body)
}

// WriteException writes an `<exception>` OOB packet.
func (io_ *Io) WriteException(e Exception) error {
	body, err := xml.Marshal(e)
	if err != nil {
		return err
	}

	return io_.writeFramed(oobTag, body)
}

// SetProgress emits a rate-limited `taskProgress` comment via io_.progress,
// once a ProgressTracker has been attached with SetTaskSize.
func (io_ *Io) SetProgress(n int64) error {
	if io_.progress == nil {
		return nil
	}
	if !io_.progress.SetProgress(n) {
		return nil
	}

	return io_.WriteComment(Comment{
		Type: "taskProgress",
		Text: fmt.Sprintf("%g", io_.progress.Fraction()),
	})
}

// SetTaskSize attaches a ProgressTracker for the given total task size.
// Must be called before WriteStreamDesc (§4.5 "Progress").
func (io_ *Io) SetTaskSize(size int64) {
	io_.progress = NewProgressTracker(size)
}

// writeFramed writes tag, the six-digit length of body, then body itself.
func (io_ *Io) writeFramed(tag [4]byte, body []byte) error {
	if _, err := io_.dest().Write(tag[:]); err != nil {
		return fmt.Errorf("stream: %w", errs.ErrIO)
	}

	lenBuf, err := encodeLen6(len(body))
	if err != nil {
		return err
	}
	if _, err := io_.dest().Write(lenBuf[:]); err != nil {
		return fmt.Errorf("stream: %w", errs.ErrIO)
	}
	if _, err := io_.dest().Write(body); err != nil {
		return fmt.Errorf("stream: %w", errs.ErrIO)
	}

	return nil
}

// Flush flushes any buffered writes, closing the deflate writer (flushing
// its trailing zlib blocks) before the underlying bufio.Writer.
func (io_ *Io) Flush() error {
	if io_.deflateW != nil {
		if err := io_.deflateW.Close(); err != nil {
			return fmt.Errorf("stream: %w", errs.ErrIO)
		}
	}

	return io_.bw.Flush()
}
