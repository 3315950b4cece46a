package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/annotator/internal/clipboard"
)

// promptCmd copies the configured prompt text to the clipboard.
type promptCmd struct {
	printOnly bool
	*root
	fs *flag.FlagSet
}

func (c *promptCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parsePromptCmd(args []string, r *root) (*promptCmd, error) {
	fs := flag.NewFlagSet("prompt", flag.ExitOnError)
	c := &promptCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.BoolVar(&c.printOnly, "print", false, "print the prompt instead of copying it")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *promptCmd) Run() error {
	text := c.root.prompt()
	if text == "" {
		return fmt.Errorf("prompt is disabled by send_prompt = false")
	}
	if c.printOnly {
		fmt.Println(text)
		return nil
	}
	if err := clipboard.WriteText(text); err != nil {
		return fmt.Errorf("copy prompt to clipboard: %w", err)
	}
	fmt.Fprintln(os.Stderr, "copied prompt to clipboard")
	c.root.notifyCopy("prompt", false)
	return nil
}
