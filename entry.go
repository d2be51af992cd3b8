package zipcd

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/valyala/bytebufferpool"
)

// Compression method codes from the central directory. Values other than these two are carried
// through opaquely in Entry.Method.
const (
	MethodStored   uint16 = 0x0
	MethodDeflated uint16 = 0x8
)

// Entry is a single file entry decoded from the central directory.
//
// Name, Data and the EOCD comment all alias the buffer given to Parse or Scan and must be treated
// as immutable. An Entry is only valid while that buffer remains alive.
type Entry struct {
	// Name is the file name, borrowed from the archive buffer.
	//
	// A ZIP file name is a raw byte string with an explicit length; it need not be UTF-8.
	Name []byte

	// Method is the compression method code, typically MethodStored or MethodDeflated.
	Method uint16

	// CRC32 is the IEEE CRC-32 checksum of the uncompressed content as recorded in the central
	// directory.
	CRC32 uint32

	// CompressedSize is the size of the compressed payload as stored, without ZIP64 widening.
	CompressedSize uint32

	// UncompressedSize is the size of the content after decompression, without ZIP64 widening.
	UncompressedSize uint32

	// Offset is the relative offset of the entry's local file header from the start of the
	// archive.
	//
	// See https://en.wikipedia.org/wiki/ZIP_(file_format)#Central_directory_file_header_(CDFH).
	Offset uint32

	// Data is the raw (still compressed, for MethodDeflated) payload, borrowed from the archive
	// buffer. Its length is CompressedSize for deflated entries and UncompressedSize for stored
	// entries.
	Data []byte
}

// Open returns a new reader over the entry's uncompressed content.
//
// Stored entries read straight from Data; deflated entries decompress on the fly. Any other
// method returns ErrUnsupportedMethod. Entries can be opened concurrently since Data is never
// mutated.
func (e *Entry) Open() (io.ReadCloser, error) {
	switch e.Method {
	case MethodStored:
		return io.NopCloser(bytes.NewReader(e.Data)), nil
	case MethodDeflated:
		return flate.NewReader(bytes.NewReader(e.Data)), nil
	default:
		return nil, fmt.Errorf("%w: %#x", ErrUnsupportedMethod, e.Method)
	}
}

// WriteTo decompresses the entry's content to dst, verifying it against the CRC-32 checksum from
// the central directory. Returns ErrChecksum on mismatch after all content has been written.
func (e *Entry) WriteTo(dst io.Writer) (int64, error) {
	src, err := e.Open()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	bb := bytebufferpool.Get()
	defer bytebufferpool.Put(bb)
	if cap(bb.B) < 32*1024 {
		bb.B = make([]byte, 32*1024)
	}

	h := crc32.NewIEEE()
	n, err := io.CopyBuffer(io.MultiWriter(dst, h), src, bb.B[:cap(bb.B)])
	if err != nil {
		return n, fmt.Errorf(`write entry "%s" error: %w`, e.Name, err)
	}

	if h.Sum32() != e.CRC32 {
		return n, fmt.Errorf(`%w: entry "%s", got %#x, expected %#x`, ErrChecksum, e.Name, h.Sum32(), e.CRC32)
	}

	return n, nil
}
