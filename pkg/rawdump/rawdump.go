// Package rawdump renders binary data as a C array initializer.
package rawdump

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ssargent/makeobj/pkg/naming"
)

// DefaultValuesPerLine is the number of values on each line of the initializer
const DefaultValuesPerLine = 16

// ErrNegativeSkip is returned for a skip offset below zero
var ErrNegativeSkip = errors.New("negative skip offset")

// Dumper writes "char far" array initializers with CRLF line endings
type Dumper struct {
	// ValuesPerLine is how many values share a line. 1 gives one value per line.
	ValuesPerLine int
}

// NewDumper creates a dumper. A non-positive valuesPerLine means DefaultValuesPerLine.
func NewDumper(valuesPerLine int) *Dumper {
	if valuesPerLine <= 0 {
		valuesPerLine = DefaultValuesPerLine
	}
	return &Dumper{ValuesPerLine: valuesPerLine}
}

// DumpAsArray returns data from skip onwards as
//
//	char far SYMBOL[] ={
//	65,66 };
//
// A skip at or past the end yields an empty initializer.
func (d *Dumper) DumpAsArray(data []byte, symbol string, skip int) (string, error) {
	var sb strings.Builder
	if err := d.Write(&sb, data, symbol, skip); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write streams the initializer to w
func (d *Dumper) Write(w io.Writer, data []byte, symbol string, skip int) error {
	if symbol == "" {
		return fmt.Errorf("%w: empty array symbol", naming.ErrInvalidName)
	}
	if skip < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeSkip, skip)
	}
	perLine := d.ValuesPerLine
	if perLine <= 0 {
		perLine = DefaultValuesPerLine
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "char far %s[] ={\r\n", symbol)

	var num []byte
	if skip < len(data) {
		values := data[skip:]
		for i, b := range values {
			num = strconv.AppendUint(num[:0], uint64(b), 10)
			bw.Write(num)
			switch {
			case i == len(values)-1:
			case (i+1)%perLine == 0:
				bw.WriteString(",\r\n")
			default:
				bw.WriteByte(',')
			}
		}
	}

	bw.WriteString(" };\r\n")
	return bw.Flush()
}

// Summary returns the one-line report for dumping input to output
func Summary(input, symbol, output string) string {
	return fmt.Sprintf("%-15s char far %-20s Saved as %s", naming.Upper(input), symbol+"[]", output)
}
