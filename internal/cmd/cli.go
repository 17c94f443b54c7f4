package cmd

// LogConfig groups the logging flags shared by all commands.
type LogConfig struct {
	Level   string `help:"Log level (trace, debug, info, warn, error)" default:"info" env:"SKYHOOK_LOG_LEVEL"`
	File    string `help:"Log file path; empty logs to stdout/stderr" env:"SKYHOOK_LOG_FILE"`
	RawFile string `help:"Raw transfer log file path" env:"SKYHOOK_LOG_RAW_FILE"`
}

// CLI is the root kong command tree.
type CLI struct {
	Log    LogConfig `embed:"" prefix:"log."`
	Config string    `help:"Path to config file" env:"SKYHOOK_CONFIG"`

	Run       Run           `cmd:"" default:"withargs" help:"Run the portal interception daemon"`
	Status    Status        `cmd:"" help:"Show emulation status of a running daemon"`
	Toggle    Toggle        `cmd:"" help:"Toggle emulation on a running daemon"`
	Dump      DumpCommand   `cmd:"" help:"Manage figure dump files"`
	ConfigCmd ConfigCommand `cmd:"" name:"config" help:"Manage configuration"`
	Install   Install       `cmd:"" help:"Install skyhook as a system service"`
	Uninstall Uninstall     `cmd:"" help:"Remove the skyhook system service"`
}
