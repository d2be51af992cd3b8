// Package zipcd parses the central directory of a ZIP archive held entirely in memory.
//
// ZIP archives may or may not be readable from start to end; archives written to a stream only
// record entry counts and sizes in the end-of-central-directory (EOCD) record at the very end of
// the file, behind a free-form comment of up to 64 KiB. Parse therefore locates the EOCD by
// scanning backwards, decodes it, then walks the central directory to produce one Entry per
// archived file, without decompressing anything.
//
// The package never copies archive content: entry names, payloads and the archive comment are all
// slices into the caller's buffer, which must stay alive and unmodified for as long as the parse
// result is used. The buffer is treated as untrusted; every field is bounds-checked before use
// and a malformed archive yields a typed error rather than a partial result.
package zipcd

import "fmt"

// Archive is the parse result: the decoded EOCD record and the central directory entries in
// central-directory order.
//
// An Archive is immutable after Parse returns. It borrows from the parsed buffer and is only
// valid while that buffer remains alive.
type Archive struct {
	// EOCD is the decoded end of central directory record.
	EOCD EOCDRecord

	// Entries holds one entry per archived file, in the order they appear in the central
	// directory. len(Entries) equals EOCD.CDCount.
	Entries []Entry
}

// Parse decodes the central directory of the ZIP archive in buf.
//
// Parsing is all-or-nothing: any malformed entry fails the whole call and no Archive is
// returned. The errors in this package ([ErrNoEOCDFound], [ErrSpannedArchive],
// [ErrBadDataLength], ...) can be tested for with errors.Is; their messages carry the offending
// offsets and sizes.
//
// Parse does not read from or write to anything but buf, so it is safe to call concurrently for
// independent buffers.
func Parse(buf []byte) (*Archive, error) {
	r, entries, err := Scan(buf)
	if err != nil {
		return nil, err
	}

	a := &Archive{EOCD: r, Entries: make([]Entry, 0, r.CDCount)}
	for e, err := range entries {
		if err != nil {
			return nil, fmt.Errorf("read central directory: %w", err)
		}
		a.Entries = append(a.Entries, e)
	}

	return a, nil
}
