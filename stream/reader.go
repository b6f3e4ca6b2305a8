package stream

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/arloliu/das2/errs"
)

// ReadLoop runs the read dispatch loop to completion (§4.5 "Read loop"):
// peek the next frame tag, classify it, decode its body, and invoke the
// matching registered handler, until EOF.
//
//  1. Peek four bytes; classify as descriptor / data / OOB / EOF.
//  2. Descriptor: parse as XML; store the root stream descriptor (error on
//     duplicate) or register a packet descriptor (a redefinition frees the
//     prior one); invoke the handler.
//  3. Data: look up the packet descriptor by id (error if none); read
//     record-size bytes; invoke the handler.
//  4. OOB: parse; route comment vs exception.
//  5. EOF after at least one valid packet: invoke OnClose, return nil. EOF
//     before any valid packet: errs.ErrEmptyStream.
func (io_ *Io) ReadLoop() error {
	for {
		tag, err := io_.peekTag()
		if errors.Is(err, io.EOF) {
			if !io_.gotValidPacket {
				return errs.ErrEmptyStream
			}
			if io_.handlers.OnClose != nil {
				return io_.handlers.OnClose()
			}

			return nil
		}
		if err != nil {
			return err
		}

		kind, id, err := classifyFrame(tag)
		if err != nil {
			return err
		}

		switch kind {
		case frameDescriptor:
			if err := io_.readDescriptor(id); err != nil {
				return err
			}
		case frameData:
			if err := io_.readData(id); err != nil {
				return err
			}
		case frameOOB:
			if err := io_.readOOB(); err != nil {
				return err
			}
		}

		io_.gotValidPacket = true
	}
}

// peekTag reads and consumes the next four-byte frame tag.
func (io_ *Io) peekTag() ([4]byte, error) {
	var tag [4]byte
	_, err := io.ReadFull(io_.br, tag[:])
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			return tag, fmt.Errorf("stream: %w", errs.ErrTruncatedStream)
		}

		return tag, err
	}

	return tag, nil
}

func (io_ *Io) readLen6() (int, error) {
	var buf [lenPrefixSize]byte
	if _, err := io.ReadFull(io_.br, buf[:]); err != nil {
		return 0, fmt.Errorf("stream: %w", errs.ErrTruncatedStream)
	}

	return decodeLen6(buf)
}

func (io_ *Io) readBody(n int) ([]byte, error) {
	body := make([]byte, n)
	if _, err := io.ReadFull(io_.br, body); err != nil {
		return nil, fmt.Errorf("stream: %w", errs.ErrTruncatedStream)
	}

	return body, nil
}

func (io_ *Io) readDescriptor(id int) error {
	n, err := io_.readLen6()
	if err != nil {
		return err
	}
	body, err := io_.readBody(n)
	if err != nil {
		return err
	}

	if id == 0 {
		if io_.streamDesc != nil {
			return fmt.Errorf("stream: %w", errs.ErrDuplicateStreamDesc)
		}

		var sd StreamDesc
		if err := xml.Unmarshal(body, &sd); err != nil {
			return fmt.Errorf("stream: %w: %v", errs.ErrBadFrameTag, err)
		}
		io_.streamDesc = &sd

		if sd.IsDeflate() {
			if err := io_.enterInflate(); err != nil {
				return err
			}
		}

		if io_.handlers.OnStreamDesc != nil {
			return io_.handlers.OnStreamDesc(&sd)
		}

		return nil
	}

	var pd PacketDesc
	if err := xml.Unmarshal(body, &pd); err != nil {
		return fmt.Errorf("stream: %w: packet %d: %v", errs.ErrBadFrameTag, id, err)
	}
	// A redefinition frees the prior descriptor by simply replacing the
	// map entry; Go's GC reclaims it once unreferenced.
	io_.packetDescs[id] = &pd

	if io_.handlers.OnPacketDesc != nil {
		return io_.handlers.OnPacketDesc(id, &pd)
	}

	return nil
}

func (io_ *Io) readData(id int) error {
	desc, ok := io_.packetDescs[id]
	if !ok {
		return fmt.Errorf("stream: %w: id %d", errs.ErrUnknownPacketID, id)
	}

	size := desc.RecordSize(io_.fieldSize)
	record, err := io_.readBody(size)
	if err != nil {
		return err
	}

	if io_.handlers.OnData != nil {
		return io_.handlers.OnData(id, desc, record)
	}

	return nil
}

func (io_ *Io) readOOB() error {
	// The four-byte "[xx]" tag was already consumed by peekTag.
	n, err := io_.readLen6()
	if err != nil {
		return err
	}
	body, err := io_.readBody(n)
	if err != nil {
		return err
	}

	comment, exception, err := decodeOOB(body)
	if err != nil {
		return fmt.Errorf("stream: %w: %v", errs.ErrBadFrameTag, err)
	}

	switch {
	case comment != nil && io_.handlers.OnComment != nil:
		return io_.handlers.OnComment(*comment)
	case exception != nil && io_.handlers.OnException != nil:
		return io_.handlers.OnException(*exception)
	}

	return nil
}

// enterInflate switches the read side into deflate mode: every byte after
// the root stream descriptor is a raw zlib stream (§4.5 "Compression").
func (io_ *Io) enterInflate() error {
	zr, err := zlib.NewReader(io_.br)
	if err != nil {
		return fmt.Errorf("stream: %w: deflate header: %v", errs.ErrIO, err)
	}
	io_.inflate = zr
	io_.br = bufio.NewReader(zr)

	return nil
}
