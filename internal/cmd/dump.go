package cmd

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Battleboy96/sky-hook/internal/configpaths"
	"github.com/Battleboy96/sky-hook/internal/dump"
)

// DumpCommand groups dump-file subcommands that operate on the file
// directly, without a running daemon.
type DumpCommand struct {
	Init DumpInit `cmd:"" help:"Write a default figure dump"`
	Info DumpInfo `cmd:"" help:"Inspect a figure dump file"`
}

type DumpInit struct {
	Path  string `help:"Dump file path (defaults to the platform data dir)"`
	Force bool   `help:"Overwrite if the file already exists"`
}

func (c *DumpInit) Run(logger *slog.Logger) error {
	p := c.Path
	if p == "" {
		p = configpaths.DefaultDumpPath()
	}
	if !c.Force {
		if _, err := os.Stat(p); err == nil {
			return errors.New("dump file exists; use --force to overwrite")
		}
	}
	buf := dump.CreateDefault()
	if err := dump.Save(buf, p); err != nil {
		return err
	}
	logger.Info("default dump written", "path", p, "size", buf.Size())
	return nil
}

type DumpInfo struct {
	Path string `arg:"" optional:"" help:"Dump file path (defaults to the platform data dir)"`
}

func (c *DumpInfo) Run(logger *slog.Logger) error {
	p := c.Path
	if p == "" {
		p = configpaths.DefaultDumpPath()
	}
	buf, err := dump.Load(p)
	if err != nil {
		return err
	}
	data := buf.Bytes()
	fmt.Printf("path:    %s\n", p)
	fmt.Printf("size:    %d bytes\n", buf.Size())
	fmt.Printf("sha256:  %x\n", sha256.Sum256(data))
	fmt.Printf("marker:  0x%02x\n", data[0])
	return nil
}
