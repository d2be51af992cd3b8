package zipcd

import (
	"encoding/binary"
	"fmt"
)

const (
	sigEOCD uint32 = 0x06054b50

	// eocdLen is the length of the EOCD record excluding its variable-length comment.
	eocdLen = 22

	// maxCommentLen is the largest comment an EOCD can carry; the comment length field is 16 bits.
	maxCommentLen = 0xffff

	// maxEOCDSearch bounds the backward signature scan. The EOCD can only be preceded by up to
	// maxCommentLen bytes of free-form comment from an earlier truncated write, so there is never a
	// reason to look further back than this.
	maxEOCDSearch = eocdLen + maxCommentLen
)

// EOCDRecord models the end of central directory record of a ZIP file.
//
// See https://en.wikipedia.org/wiki/ZIP_(file_format)#End_of_central_directory_record_(EOCD).
type EOCDRecord struct {
	// DiskNumber is the number of this disk.
	//
	// Since floppy disks aren't a thing anymore, anything other than 0 here makes Parse fail with
	// ErrSpannedArchive.
	DiskNumber uint16
	// CDDiskOffset is the disk where the central directory starts.
	CDDiskOffset uint16
	// CDCountOnDisk is the number of central directory records on this disk.
	CDCountOnDisk uint16
	// CDCount is the total number of central directory records.
	CDCount uint16
	// CDSize is the size in bytes of the central directory.
	CDSize uint32
	// CDOffset is the offset of the start of the central directory, relative to start of archive.
	CDOffset uint32
	// Comment is the comment section of the EOCD, borrowed from the archive buffer.
	//
	// Nil if the archive has no comment.
	Comment []byte
}

// findEOCD locates and decodes the EOCD record at the tail of buf.
//
// Returns the decoded record and the offset of the EOCD signature within buf. The scan runs
// byte-wise backwards from the end because the comment following the record has no delimiter; the
// first signature found from the end wins, which is what every other ZIP tool does too.
func findEOCD(buf []byte) (r EOCDRecord, sigOffset int, err error) {
	if len(buf) < eocdLen {
		return r, 0, fmt.Errorf("%w: %d bytes", ErrTooSmall, len(buf))
	}

	stop := 0
	if len(buf) > maxEOCDSearch {
		stop = len(buf) - maxEOCDSearch
	}

	i := len(buf) - 4
	for ; i >= stop; i-- {
		if buf[i] == 0x50 && binary.LittleEndian.Uint32(buf[i:]) == sigEOCD {
			break
		}
	}
	if i < stop {
		return r, 0, ErrNoEOCDFound
	}

	// the signature bytes can appear in a junk tail or truncated archive without a whole
	// record following them.
	if rem := len(buf) - i; rem < eocdLen {
		return r, 0, fmt.Errorf("%w: EOCD record needs %d bytes, got %d", ErrTooSmall, eocdLen, rem)
	}

	r.DiskNumber = binary.LittleEndian.Uint16(buf[i+0x04:])
	r.CDDiskOffset = binary.LittleEndian.Uint16(buf[i+0x06:])
	r.CDCountOnDisk = binary.LittleEndian.Uint16(buf[i+0x08:])
	r.CDCount = binary.LittleEndian.Uint16(buf[i+0x0a:])
	r.CDSize = binary.LittleEndian.Uint32(buf[i+0x0c:])
	r.CDOffset = binary.LittleEndian.Uint32(buf[i+0x10:])

	if commentLen := int(binary.LittleEndian.Uint16(buf[i+0x14:])); commentLen > 0 {
		if eocdLen+commentLen > len(buf)-i {
			return r, 0, fmt.Errorf("%w: EOCD(%d) + comment(%d) exceeds %d bytes", ErrCommentOverflow, eocdLen, commentLen, len(buf)-i)
		}
		r.Comment = buf[i+eocdLen : i+eocdLen+commentLen]
	}

	return r, i, nil
}
