// Package imgtype detects the image format by the magic bytes of the file
// header.
package imgtype

import (
	"bytes"
	"io"
	"os"
)

// Format is the image format tag.
type Format string

const (
	None Format = "" // unrecognized
	JPEG Format = "jpeg"
	PNG  Format = "png"
	GIF  Format = "gif"
	WEBP Format = "webp"
	BMP  Format = "bmp"
	ICO  Format = "ico"
	CUR  Format = "cur"
	TIFF Format = "tiff"
)

// HeaderSz is the number of header bytes that is considered.
const HeaderSz = 32

type signature struct {
	format   Format
	prefixes [][]byte
	// extra is an optional additional check on the header.
	extra func(h []byte) bool
}

// signatures are checked in order, first match wins.
var signatures = []signature{
	{JPEG, [][]byte{{0xff, 0xd8}}, nil},
	{PNG, [][]byte{[]byte("\x89PNG\r\n\x1a\n")}, nil},
	{GIF, [][]byte{[]byte("GIF87a"), []byte("GIF89a")}, nil},
	{WEBP, [][]byte{[]byte("RIFF")}, func(h []byte) bool {
		return len(h) >= 12 && bytes.Equal(h[8:12], []byte("WEBP"))
	}},
	{BMP, [][]byte{[]byte("BM")}, nil},
	{ICO, [][]byte{{0, 0, 1, 0}}, nil},
	{CUR, [][]byte{{0, 0, 2, 0}}, nil},
	{TIFF, [][]byte{[]byte("II*\x00"), []byte("MM\x00*")}, nil},
}

func (s signature) match(h []byte) bool {
	for _, p := range s.prefixes {
		if bytes.HasPrefix(h, p) {
			return s.extra == nil || s.extra(h)
		}
	}
	return false
}

// Detect returns the format of the image with header h. Only the first
// HeaderSz bytes are considered.
func Detect(h []byte) Format {
	if len(h) > HeaderSz {
		h = h[:HeaderSz]
	}
	for _, sig := range signatures {
		if sig.match(h) {
			return sig.format
		}
	}
	return None
}

// DetectReader reads the header from rs and returns the image format.  The
// position of rs is restored before return.
func DetectReader(rs io.ReadSeeker) Format {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return None
	}
	defer rs.Seek(pos, io.SeekStart)

	h := make([]byte, HeaderSz)
	n, err := io.ReadFull(rs, h)
	if err != nil && err != io.ErrUnexpectedEOF {
		return None
	}
	return Detect(h[:n])
}

// DetectFile returns the image format of the file name.  Unreadable files are
// reported as None.
func DetectFile(name string) Format {
	f, err := os.Open(name)
	if err != nil {
		return None
	}
	defer f.Close()
	return DetectReader(f)
}
