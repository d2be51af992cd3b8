package zipcd

import (
	"encoding/binary"
	"fmt"
	"iter"
)

const (
	sigCDFH uint32 = 0x02014b50

	// cdfhLen is the fixed portion of a central directory file header, excluding the
	// variable-length name, extra field and comment.
	cdfhLen = 46

	// lfhLen is the fixed portion of a local file header.
	lfhLen = 30
)

// Scan locates the central directory in buf and returns the decoded EOCD record along with an
// iterator over its entries.
//
// The iterator decodes entries lazily; a malformed entry stops it with a non-nil error. Use Parse
// for all-or-nothing semantics. Like Parse, Scan rejects spanned archives with ErrSpannedArchive.
//
// Entries borrow from buf, so buf must remain alive (and unmodified) for as long as they are used.
func Scan(buf []byte) (EOCDRecord, iter.Seq2[Entry, error], error) {
	r, _, err := findEOCD(buf)
	if err != nil {
		return r, nil, err
	}

	if r.DiskNumber != 0 || r.CDDiskOffset != 0 || r.CDCountOnDisk != r.CDCount {
		return r, nil, fmt.Errorf("%w: disk %d, central directory disk %d, %d of %d entries on this disk",
			ErrSpannedArchive, r.DiskNumber, r.CDDiskOffset, r.CDCountOnDisk, r.CDCount)
	}

	return r, func(yield func(Entry, error) bool) {
		pos := int64(r.CDOffset)

		for i := range int(r.CDCount) {
			e, n, err := parseEntry(buf, pos)
			if err != nil {
				yield(Entry{}, fmt.Errorf("entry %d at %#x: %w", i, pos, err))
				return
			}
			pos += n

			if !yield(e, nil) {
				return
			}
		}
	}, nil
}

// parseEntry decodes the central directory file header at buf[pos] and resolves the entry's data
// slice through its local file header. Returns the entry and the total number of central
// directory bytes it consumed.
func parseEntry(buf []byte, pos int64) (e Entry, n int64, err error) {
	rem := int64(len(buf)) - pos
	if rem < cdfhLen {
		return e, 0, fmt.Errorf("%w: needs at least %d bytes, got %d", ErrEntryTooShort, cdfhLen, max(rem, 0))
	}

	p := buf[pos:]
	if sig := binary.LittleEndian.Uint32(p); sig != sigCDFH {
		return e, 0, fmt.Errorf("%w: got %#x, expected %#x", ErrBadEntrySignature, sig, sigCDFH)
	}

	e.Method = binary.LittleEndian.Uint16(p[0x0a:])
	e.CRC32 = binary.LittleEndian.Uint32(p[0x10:])
	e.CompressedSize = binary.LittleEndian.Uint32(p[0x14:])
	e.UncompressedSize = binary.LittleEndian.Uint32(p[0x18:])
	nameLen := int64(binary.LittleEndian.Uint16(p[0x1c:]))
	extraLen := int64(binary.LittleEndian.Uint16(p[0x1e:]))
	commentLen := int64(binary.LittleEndian.Uint16(p[0x20:]))
	e.Offset = binary.LittleEndian.Uint32(p[0x2a:])

	pos, rem = pos+cdfhLen, rem-cdfhLen

	// file name
	if nameLen == 0 {
		return e, 0, ErrMissingFileName
	}
	if nameLen > rem {
		return e, 0, fmt.Errorf("%w: name is %d bytes, %d remaining", ErrNameOverflow, nameLen, rem)
	}
	e.Name = buf[pos : pos+nameLen]
	pos, rem = pos+nameLen, rem-nameLen

	// extra field, if any; its content is unused here.
	if extraLen > rem {
		return e, 0, fmt.Errorf("%w: extra field is %d bytes, %d remaining", ErrExtraFieldOverflow, extraLen, rem)
	}
	pos, rem = pos+extraLen, rem-extraLen

	// file comment, if any.
	if commentLen > rem {
		return e, 0, fmt.Errorf("%w: comment is %d bytes, %d remaining", ErrCommentFieldOverflow, commentLen, rem)
	}

	n = cdfhLen + nameLen + extraLen + commentLen

	// The extra field length in the central directory is how much data there is, but the copy
	// in the local file header may also contain padding. Only the local copy can tell where
	// the data actually starts.
	lfhOff := int64(e.Offset)
	if lfhOff+lfhLen > int64(len(buf)) {
		return e, 0, fmt.Errorf("%w: local header at %#x, buffer is %d bytes", ErrBadLocalHeaderOffset, lfhOff, len(buf))
	}
	localExtraLen := int64(binary.LittleEndian.Uint16(buf[lfhOff+0x1c:]))

	dataOff := lfhOff + lfhLen + nameLen + localExtraLen
	if dataOff >= int64(len(buf)) {
		return e, 0, fmt.Errorf("%w: data at %#x, buffer is %d bytes", ErrBadDataOffset, dataOff, len(buf))
	}

	// The declared size must fit the buffer: the uncompressed size for stored entries, the
	// compressed size for deflated ones. Other methods get no size validation, only a clamp
	// that keeps Data in bounds.
	avail := int64(len(buf)) - dataOff
	switch e.Method {
	case MethodStored:
		if int64(e.UncompressedSize) > avail {
			return e, 0, fmt.Errorf("%w: stored entry is %d bytes, %d available", ErrBadDataLength, e.UncompressedSize, avail)
		}
		e.Data = buf[dataOff : dataOff+int64(e.UncompressedSize)]
	case MethodDeflated:
		if int64(e.CompressedSize) > avail {
			return e, 0, fmt.Errorf("%w: deflated entry is %d bytes, %d available", ErrBadDataLength, e.CompressedSize, avail)
		}
		e.Data = buf[dataOff : dataOff+int64(e.CompressedSize)]
	default:
		e.Data = buf[dataOff : dataOff+min(int64(e.CompressedSize), avail)]
	}

	return e, n, nil
}
