package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/annotator/internal/annotation"
)

type colorsCmd struct {
	*root
	fs  *flag.FlagSet
	out io.Writer
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	cmd := &colorsCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) Run() error {
	def := annotation.DefaultColor()
	fmt.Fprintln(c.out, "available colors (* marks the default):")
	for i, entry := range annotation.Palette() {
		marker := " "
		if entry.Color == def {
			marker = "*"
		}
		fmt.Fprintf(c.out, "%s %d %-10s %s\n", marker, i+1, entry.Name, annotation.Hex(entry.Color))
	}
	fmt.Fprintln(c.out, "CSS colour names and #RRGGBB[AA] values are accepted too")
	return nil
}
