package zipcd

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	// build the archive with archive/zip so the parsed entries can be cross-checked against
	// what the standard library says about its own output.
	files := []struct {
		name    string
		method  uint16
		content string
	}{
		{"test/a.txt", zip.Store, "hello world\n"},
		{"test/path/b.txt", zip.Deflate, strings.Repeat("the quick brown fox jumps over the lazy dog\n", 100)},
		{"c.bin", zip.Deflate, ""},
	}

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, f := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.name, Method: f.method})
		assert.NoErrorf(t, err, "CreateHeader(%s) error = %v", f.name, err)

		_, err = w.Write([]byte(f.content))
		assert.NoErrorf(t, err, "Write(%s) error = %v", f.name, err)
	}
	assert.NoErrorf(t, zw.Close(), "Close() error")

	b := buf.Bytes()
	a, err := Parse(b)
	if !assert.NoErrorf(t, err, "Parse(...) error = %v", err) {
		return
	}
	assert.Equal(t, len(files), len(a.Entries))
	assert.EqualValues(t, len(files), a.EOCD.CDCount)
	assert.Nil(t, a.EOCD.Comment)

	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if !assert.NoErrorf(t, err, "zip.NewReader(...) error = %v", err) {
		return
	}

	for i, f := range files {
		e := a.Entries[i]
		assert.Equal(t, f.name, string(e.Name))
		assert.Equal(t, f.method, e.Method)
		assert.EqualValues(t, len(f.content), e.UncompressedSize)
		assert.EqualValues(t, zr.File[i].CompressedSize64, e.CompressedSize)
		assert.Equal(t, zr.File[i].CRC32, e.CRC32)

		// the raw payload must start exactly where archive/zip says the data starts.
		offset, err := zr.File[i].DataOffset()
		assert.NoErrorf(t, err, "DataOffset(%s) error = %v", f.name, err)
		assert.Equal(t, b[offset:offset+int64(len(e.Data))], e.Data)

		r, err := e.Open()
		if assert.NoErrorf(t, err, "Open(%s) error = %v", f.name, err) {
			got, err := io.ReadAll(r)
			assert.NoErrorf(t, err, "ReadAll(%s) error = %v", f.name, err)
			assert.NoError(t, r.Close())
			assert.Equal(t, f.content, string(got))
		}
	}
}

func TestParse_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	assert.NoError(t, zip.NewWriter(buf).Close())

	a, err := Parse(buf.Bytes())
	if assert.NoErrorf(t, err, "Parse(...) error = %v", err) {
		assert.Empty(t, a.Entries)
	}
}

func TestParse_Idempotent(t *testing.T) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	w, err := zw.Create("a.txt")
	assert.NoError(t, err)
	_, err = w.Write([]byte("content"))
	assert.NoError(t, err)
	assert.NoError(t, zw.Close())

	first, err := Parse(buf.Bytes())
	assert.NoErrorf(t, err, "Parse(...) error = %v", err)
	second, err := Parse(buf.Bytes())
	assert.NoErrorf(t, err, "Parse(...) error = %v", err)

	assert.Equal(t, first.EOCD, second.EOCD)
	assert.Equal(t, first.Entries, second.Entries)
}

func TestScan_EarlyBreak(t *testing.T) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		w, err := zw.Create(name)
		assert.NoError(t, err)
		_, err = w.Write([]byte(name))
		assert.NoError(t, err)
	}
	assert.NoError(t, zw.Close())

	r, entries, err := Scan(buf.Bytes())
	if !assert.NoErrorf(t, err, "Scan(...) error = %v", err) {
		return
	}
	assert.EqualValues(t, 3, r.CDCount)

	var got []string
	for e, err := range entries {
		assert.NoError(t, err)
		if got = append(got, string(e.Name)); len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a.txt", "b.txt"}, got)
}

func TestParse_SpannedArchive(t *testing.T) {
	// the EOCD of a comment-less archive occupies the last 22 bytes; patch its multi-disk
	// fields directly.
	tests := []struct {
		name   string
		offset int // relative to start of EOCD
		value  uint16
	}{
		{name: "nonzero disk number", offset: 0x04, value: 1},
		{name: "nonzero central directory disk", offset: 0x06, value: 1},
		{name: "entry count mismatch", offset: 0x08, value: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			zw := zip.NewWriter(buf)
			w, err := zw.Create("a.txt")
			assert.NoError(t, err)
			_, err = w.Write([]byte("content"))
			assert.NoError(t, err)
			assert.NoError(t, zw.Close())

			b := buf.Bytes()
			eocd := len(b) - eocdLen
			assert.Equal(t, sigEOCD, binary.LittleEndian.Uint32(b[eocd:]))
			binary.LittleEndian.PutUint16(b[eocd+tt.offset:], tt.value)

			_, err = Parse(b)
			assert.ErrorIs(t, err, ErrSpannedArchive)
		})
	}
}
