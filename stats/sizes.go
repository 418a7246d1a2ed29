package stats

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

const sizesRule = "|--------------------------"

// PrintFileSizes prints the size of each file in a framed block.
func PrintFileSizes(w io.Writer, files []string) error {
	lines := make([]string, 0, len(files))
	for _, file := range files {
		fi, err := os.Stat(file)
		if err != nil {
			return errors.Wrap(err, "reading file size")
		}
		lines = append(lines, fmt.Sprintf("| %s %s\n", file, humanize.Bytes(uint64(fi.Size()))))
	}
	_, err := fmt.Fprintf(w, "%s\n| Size of Files\n%s\n%s%s\n",
		sizesRule, sizesRule, strings.Join(lines, ""), strings.Repeat("-", len(sizesRule)))
	return err
}
