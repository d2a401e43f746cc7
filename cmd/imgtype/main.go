// Command imgtype prints the image format of the files, detected by the file
// header.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rusq/dlog"

	"github.com/rusq/purgemychats/internal/imgtype"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s file [file...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	unknown := 0
	for _, name := range flag.Args() {
		f := imgtype.DetectFile(name)
		if f == imgtype.None {
			unknown++
			fmt.Printf("%s: unknown\n", name)
			continue
		}
		fmt.Printf("%s: %s\n", name, f)
	}
	dlog.Debugf("%d of %d files not recognised", unknown, flag.NArg())
}
