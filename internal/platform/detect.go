package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "voxnote"

type Runtime struct {
	OS   string
	Arch string
}

func (r Runtime) String() string {
	return r.OS + "/" + r.Arch
}

func CurrentRuntime() Runtime {
	return Runtime{
		OS:   runtime.GOOS,
		Arch: NormalizeArch(runtime.GOARCH),
	}
}

func NormalizeArch(arch string) string {
	switch arch {
	case "x86_64":
		return "amd64"
	case "aarch64":
		return "arm64"
	default:
		return arch
	}
}

func DefaultModelDirFor(goos, homeDir, xdgDataHome string) (string, error) {
	if homeDir == "" {
		return "", errors.New("home directory is empty")
	}

	switch goos {
	case "linux":
		base := filepath.Join(homeDir, ".local", "share")
		if xdgDataHome != "" {
			base = xdgDataHome
		}
		return filepath.Join(base, appDirName, "models"), nil
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", appDirName, "models"), nil
	default:
		return "", fmt.Errorf("unsupported OS: %s", goos)
	}
}

func ResolveModelDir(override string) (string, error) {
	if override != "" {
		return filepath.Clean(override), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}

	return DefaultModelDirFor(runtime.GOOS, homeDir, os.Getenv("XDG_DATA_HOME"))
}

// ResolveWorkDir returns the directory that holds transient upload files and
// creates it when missing.
func ResolveWorkDir(override string) (string, error) {
	dir := filepath.Join(os.TempDir(), appDirName)
	if override != "" {
		dir = filepath.Clean(override)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create work directory %s: %w", dir, err)
	}
	return dir, nil
}
