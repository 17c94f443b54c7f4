package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/Battleboy96/sky-hook/ctlclient"
	"github.com/Battleboy96/sky-hook/internal/configpaths"
)

// clientOpts are shared by the subcommands that talk to a running daemon.
type clientOpts struct {
	Addr     string `help:"Control API address" default:"127.0.0.1:3553" env:"SKYHOOK_CTL_ADDR"`
	Password string `help:"Control API password (defaults to the key file)" env:"SKYHOOK_CTL_PASSWORD"`
}

func (o *clientOpts) client() *ctlclient.Client {
	password := o.Password
	if password == "" {
		password = readKeyFile()
	}
	if password == "" {
		return ctlclient.Dial(o.Addr)
	}
	return ctlclient.DialWithPassword(o.Addr, password)
}

func readKeyFile() string {
	dir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return ""
	}
	pwd, err := os.ReadFile(path.Join(dir, keyFileName))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(pwd))
}

// Status queries a running daemon and prints the emulation state.
type Status struct {
	clientOpts
}

func (s *Status) Run(logger *slog.Logger) error {
	st, err := s.client().Status(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("target:   %s\n", st.Target)
	fmt.Printf("enabled:  %t\n", st.Enabled)
	fmt.Printf("dump:     %s\n", st.DumpPath)
	if st.DumpPresent {
		fmt.Printf("loaded:   %d bytes\n", st.DumpSize)
	} else {
		fmt.Printf("loaded:   no\n")
	}
	return nil
}

// Toggle flips emulation on a running daemon.
type Toggle struct {
	clientOpts
}

func (t *Toggle) Run(logger *slog.Logger) error {
	resp, err := t.client().Toggle(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("enabled: %t\n", resp.Enabled)
	return nil
}
