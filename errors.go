package zipcd

import "errors"

var (
	// ErrTooSmall is returned when the buffer is shorter than the smallest possible EOCD record.
	ErrTooSmall = errors.New("buffer too small to be a ZIP archive")

	// ErrNoEOCDFound is returned if no EOCD signature was found; most likely the buffer is not a ZIP file.
	ErrNoEOCDFound = errors.New("end of central directory not found; most likely not a ZIP file")

	// ErrCommentOverflow is returned when the EOCD declares a comment extending past the end of the buffer.
	ErrCommentOverflow = errors.New("EOCD comment extends past end of buffer")

	// ErrSpannedArchive is returned when the disk-number or entry-count fields indicate a multi-disk archive.
	ErrSpannedArchive = errors.New("spanned (multi-disk) archives are not supported")

	// ErrEntryTooShort is returned when fewer than 46 bytes remain for the next central directory file header.
	ErrEntryTooShort = errors.New("central directory entry too short")

	// ErrBadEntrySignature is returned when a central directory file header signature is missing.
	ErrBadEntrySignature = errors.New("mismatched central directory entry signature")

	// ErrMissingFileName is returned when a central directory entry declares a zero-length file name.
	ErrMissingFileName = errors.New("central directory entry has no file name")

	// ErrNameOverflow is returned when an entry's file name extends past the remaining central directory bytes.
	ErrNameOverflow = errors.New("file name extends past end of central directory")

	// ErrExtraFieldOverflow is returned when an entry's extra field extends past the remaining central
	// directory bytes.
	ErrExtraFieldOverflow = errors.New("extra field extends past end of central directory")

	// ErrCommentFieldOverflow is returned when an entry's file comment extends past the remaining central
	// directory bytes.
	ErrCommentFieldOverflow = errors.New("file comment extends past end of central directory")

	// ErrBadLocalHeaderOffset is returned when an entry's local file header does not fit inside the buffer.
	ErrBadLocalHeaderOffset = errors.New("invalid local file header offset")

	// ErrBadDataOffset is returned when an entry's computed data offset falls outside the buffer.
	ErrBadDataOffset = errors.New("invalid data offset")

	// ErrBadDataLength is returned when an entry's declared size does not fit the bytes remaining after its
	// data offset.
	ErrBadDataLength = errors.New("declared size extends past end of buffer")

	// ErrUnsupportedMethod is returned by Entry.Open and Entry.WriteTo for compression methods other than
	// Stored and Deflated.
	ErrUnsupportedMethod = errors.New("unsupported compression method")

	// ErrChecksum is returned by Entry.WriteTo when the decompressed content does not match the CRC-32
	// checksum recorded in the central directory.
	ErrChecksum = errors.New("checksum mismatch")
)
