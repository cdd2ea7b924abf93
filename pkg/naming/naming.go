// Package naming derives the names an object module carries from the path
// of its input file. Every function is pure and defined for empty strings,
// names without an extension and paths with trailing separators.
package naming

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxModuleName is the 8.3 limit: eight name characters, a dot and a
	// three character extension.
	MaxModuleName = 12
	// MaxSegmentStem is how much of the stem a synthesized segment name keeps.
	MaxSegmentStem = 8
	// MaxArraySymbol is the length limit of the symbol of a dumped array.
	MaxArraySymbol = 8
	// MaxName is the longest name a length-prefixed OMF field can hold.
	MaxName = 255
)

var (
	// ErrNameTooLong is returned when a name exceeds its field
	ErrNameTooLong = errors.New("name too long")
	// ErrInvalidName is returned when no usable name can be derived
	ErrInvalidName = errors.New("invalid name")
)

// StripPath returns the last element of p. Both '/' and '\' are separators
// and a single trailing separator is ignored, so "DIR/FILE.DAT/" yields
// "FILE.DAT". An empty path yields "".
func StripPath(p string) string {
	p = trimSeparator(p)
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

// RemoveExt drops everything from the last '.' of the final path element.
// A name without a dot is returned unchanged, less any trailing separator.
func RemoveExt(p string) string {
	p = trimSeparator(p)
	base := StripPath(p)
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		return p[:len(p)-(len(base)-i)]
	}
	return p
}

// Stem returns the base name of p without its extension.
func Stem(p string) string {
	return RemoveExt(StripPath(p))
}

// ModuleName returns the upper-cased base name recorded in the module
// header. It must be non-empty with a non-empty stem and fit in 12 characters.
func ModuleName(p string) (string, error) {
	base := StripPath(p)
	if len(base) > MaxModuleName {
		return "", fmt.Errorf("%w: %q is %d characters, max %d", ErrNameTooLong, base, len(base), MaxModuleName)
	}
	if Stem(base) == "" {
		return "", fmt.Errorf("%w: %q has no file name", ErrInvalidName, p)
	}
	return Upper(base), nil
}

// SegmentName synthesizes a segment name from the stem of p: the first
// eight characters, capitalized, followed by "Seg". "FOOBAR.DAT" becomes
// "FoobarSeg".
func SegmentName(p string) (string, error) {
	stem := Stem(p)
	if stem == "" {
		return "", fmt.Errorf("%w: %q has no file name", ErrInvalidName, p)
	}
	if len(stem) > MaxSegmentStem {
		stem = stem[:MaxSegmentStem]
	}
	return Upper(stem[:1]) + Lower(stem[1:]) + "Seg", nil
}

// SymbolName synthesizes a public symbol: an underscore followed by the
// lower-cased stem of p. "FOOBAR.DAT" becomes "_foobar".
func SymbolName(p string) (string, error) {
	stem := Stem(p)
	if stem == "" {
		return "", fmt.Errorf("%w: %q has no file name", ErrInvalidName, p)
	}
	return "_" + Lower(stem), nil
}

// ArraySymbol returns the identifier of a dumped array: the stem of p
// truncated to eight characters, case preserved.
func ArraySymbol(p string) (string, error) {
	stem := Stem(p)
	if stem == "" {
		return "", fmt.Errorf("%w: %q has no file name", ErrInvalidName, p)
	}
	if len(stem) > MaxArraySymbol {
		stem = stem[:MaxArraySymbol]
	}
	return stem, nil
}

// OutputName replaces the extension of p with ext, keeping the directory.
// ext is given without the dot.
func OutputName(p, ext string) string {
	return RemoveExt(p) + "." + ext
}

// Upper upper-cases the ASCII letters of s byte by byte. Other bytes,
// including those of non-ASCII file names, are kept as they are, so the
// result has the length of s.
func Upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

// Lower is the lower-case counterpart of Upper.
func Lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// CheckName rejects names that do not fit a length-prefixed field.
func CheckName(name string) error {
	if len(name) > MaxName {
		return fmt.Errorf("%w: %d bytes, max %d", ErrNameTooLong, len(name), MaxName)
	}
	return nil
}

func trimSeparator(p string) string {
	if strings.HasSuffix(p, "/") || strings.HasSuffix(p, `\`) {
		return p[:len(p)-1]
	}
	return p
}
