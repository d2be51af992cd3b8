package internal

import "path/filepath"

// StemAndExt is a variant of filepath.Ext that also returns the stem.
//
// `filepath.Ext("file.zip")` returns ".zip"; StemAndExt additionally returns "file", which is
// what the extract command names its output directory after.
func StemAndExt(path string) (stem, ext string) {
	base := filepath.Base(path)
	ext = filepath.Ext(base)
	return base[:len(base)-len(ext)], ext
}
