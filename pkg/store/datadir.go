package store

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultFile is the save file name inside the data directory.
const DefaultFile = "goals.txt"

const appName = "quest"

// DefaultDataDir picks where goals live when neither --dir nor data_dir is
// set. QUEST_DIR wins; otherwise the per-OS user data location is used.
func DefaultDataDir() string {
	home, _ := os.UserHomeDir()
	return dataDirFor(runtime.GOOS, os.Getenv, home)
}

// dataDirFor resolves the data directory from goos, an environment lookup
// and the user's home directory. An unknown home falls back to ".quest" in
// the working directory.
func dataDirFor(goos string, getenv func(string) string, home string) string {
	if dir := getenv("QUEST_DIR"); dir != "" {
		return dir
	}

	var candidates []string
	switch goos {
	case "darwin":
		if home != "" {
			return filepath.Join(home, "Library", "Application Support", appName)
		}
	case "windows":
		candidates = []string{getenv("LOCALAPPDATA"), getenv("APPDATA"), home}
	default:
		if xdg := getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appName)
		}
		if home != "" {
			return filepath.Join(home, ".local", "share", appName)
		}
	}
	for _, base := range candidates {
		if base != "" {
			return filepath.Join(base, appName)
		}
	}
	return "." + appName
}
