// Package configpaths resolves the platform-specific locations of skyhook's
// configuration, key and dump files.
package configpaths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultConfigDir returns the platform-specific configuration directory.
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("AppData"); appdata != "" {
			return filepath.Join(appdata, "skyhook"), nil
		}
		return "", errors.New("AppData not set")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "skyhook"), nil
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".config", "skyhook"), nil
		}
		return "", errors.New("HOME not set")
	}
}

// DefaultDataDir returns the platform-specific data directory, where the
// figure dump lives by default.
func DefaultDataDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("LocalAppData"); appdata != "" {
			return filepath.Join(appdata, "skyhook"), nil
		}
		return DefaultConfigDir()
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "skyhook"), nil
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".local", "share", "skyhook"), nil
		}
		return "", errors.New("HOME not set")
	}
}

// DefaultDumpPath returns the default figure dump file location, falling
// back to the working directory when no data dir can be resolved.
func DefaultDumpPath() string {
	if dir, err := DefaultDataDir(); err == nil {
		return filepath.Join(dir, "figure.bin")
	}
	return "figure.bin"
}

// EnsureDir ensures the directory for a given file path exists.
func EnsureDir(filePath string) error {
	return os.MkdirAll(filepath.Dir(filePath), 0o755)
}

// ConfigCandidatePaths builds candidate paths for config files per format.
// A user-supplied path is prioritized and routed to the matching loader by
// extension.
func ConfigCandidatePaths(userPath string) (jsonPaths, yamlPaths, tomlPaths []string) {
	add := func(slice *[]string, p string) { *slice = append(*slice, p) }

	if userPath != "" {
		switch filepath.Ext(userPath) {
		case ".json":
			add(&jsonPaths, userPath)
		case ".yaml", ".yml":
			add(&yamlPaths, userPath)
		case ".toml":
			add(&tomlPaths, userPath)
		default:
			add(&jsonPaths, userPath)
		}
	}

	// Working directory candidates
	wd, _ := os.Getwd()
	for _, base := range []string{"skyhook", "config"} {
		add(&jsonPaths, filepath.Join(wd, base+".json"))
		add(&yamlPaths, filepath.Join(wd, base+".yaml"))
		add(&yamlPaths, filepath.Join(wd, base+".yml"))
		add(&tomlPaths, filepath.Join(wd, base+".toml"))
	}

	// Config home
	if dir, err := DefaultConfigDir(); err == nil {
		for _, base := range []string{"config", "run"} {
			add(&jsonPaths, filepath.Join(dir, base+".json"))
			add(&yamlPaths, filepath.Join(dir, base+".yaml"))
			add(&yamlPaths, filepath.Join(dir, base+".yml"))
			add(&tomlPaths, filepath.Join(dir, base+".toml"))
		}
	}

	// System-wide (unix)
	if runtime.GOOS != "windows" {
		for _, base := range []string{"config", "run"} {
			add(&jsonPaths, filepath.Join("/etc/skyhook", base+".json"))
			add(&yamlPaths, filepath.Join("/etc/skyhook", base+".yaml"))
			add(&yamlPaths, filepath.Join("/etc/skyhook", base+".yml"))
			add(&tomlPaths, filepath.Join("/etc/skyhook", base+".toml"))
		}
	}

	return
}
