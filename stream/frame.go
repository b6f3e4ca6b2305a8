package stream

import (
	"fmt"

	"github.com/arloliu/das2/errs"
)

// frameKind classifies a four-byte frame tag, per §4.5/§6's wire grammar:
//
//	descriptor := '[' DD ']' LEN6 packet-desc-xml   ; DD = 00..99
//	data       := ':' DD ':' record-bytes            ; length from descriptor
//	oob        := '[xx]' LEN6 oob-xml
type frameKind int

const (
	frameInvalid frameKind = iota
	frameDescriptor
	frameData
	frameOOB
)

// lenPrefixSize is the width of the six-digit zero-padded decimal length
// prefix that follows every descriptor and OOB frame tag.
const lenPrefixSize = 6

// classifyFrame parses a four-byte frame tag and returns its kind and, for
// descriptor/data frames, the packet id it names (0 for the root stream
// descriptor).
func classifyFrame(tag [4]byte) (frameKind, int, error) {
	switch {
	case tag[0] == '[' && tag[3] == ']':
		if tag[1] == 'x' && tag[2] == 'x' {
			return frameOOB, 0, nil
		}
		id, ok := parseTwoDigits(tag[1], tag[2])
		if !ok {
			return frameInvalid, 0, fmt.Errorf("stream: %w: %q", errs.ErrBadFrameTag, tag)
		}

		return frameDescriptor, id, nil

	case tag[0] == ':' && tag[3] == ':':
		id, ok := parseTwoDigits(tag[1], tag[2])
		if !ok || id == 0 {
			return frameInvalid, 0, fmt.Errorf("stream: %w: %q", errs.ErrBadFrameTag, tag)
		}

		return frameData, id, nil

	default:
		return frameInvalid, 0, fmt.Errorf("stream: %w: %q", errs.ErrBadFrameTag, tag)
	}
}

func parseTwoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}

	return int(a-'0')*10 + int(b-'0'), true
}

// descriptorTag formats the four-byte introducer for a descriptor with the
// given id (0 for the root stream descriptor).
func descriptorTag(id int) [4]byte {
	var t [4]byte
	t[0] = '['
	t[1] = byte('0' + id/10)
	t[2] = byte('0' + id%10)
	t[3] = ']'

	return t
}

// dataTag formats the four-byte introducer for a data packet of the given
// id (01..99).
func dataTag(id int) [4]byte {
	var t [4]byte
	t[0] = ':'
	t[1] = byte('0' + id/10)
	t[2] = byte('0' + id%10)
	t[3] = ':'

	return t
}

// oobTag is the fixed four-byte introducer for an out-of-band packet.
var oobTag = [4]byte{'[', 'x', 'x', ']'}

// encodeLen6 formats n as a six-digit zero-padded decimal ASCII length
// prefix.
func encodeLen6(n int) ([lenPrefixSize]byte, error) {
	var buf [lenPrefixSize]byte
	if n < 0 || n > 999999 {
		return buf, fmt.Errorf("stream: %w: length %d does not fit in 6 digits", errs.ErrBadLengthPrefix, n)
	}
	for i := lenPrefixSize - 1; i >= 0; i-- {
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	return buf, nil
}

// decodeLen6 parses a six-digit zero-padded decimal ASCII length prefix.
func decodeLen6(buf [lenPrefixSize]byte) (int, error) {
	n := 0
	for _, c := range buf {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("stream: %w", errs.ErrBadLengthPrefix)
		}
		n = n*10 + int(c-'0')
	}

	return n, nil
}
