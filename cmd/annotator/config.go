package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/annotator/internal/config"
)

type configCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		fmt.Print(c.root.config.String())
		return nil
	case "save":
		return c.runSave()
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

// savePath is where "config save" writes: the -config path, the file that
// was loaded, or the default location.
func (c *configCmd) savePath() (string, error) {
	override := c.root.configPath
	if override == "" {
		override = configPathOverride
	}
	if path := config.NewLoader(version, override).GetConfigPath(); path != "" {
		return path, nil
	}
	if c.root.configPath != "" {
		return c.root.configPath, nil
	}
	return config.DefaultPath()
}

func (c *configCmd) runSave() error {
	path, err := c.savePath()
	if err != nil {
		return fmt.Errorf("failed to determine config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(c.root.config.String()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	return nil
}
