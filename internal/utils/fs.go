package utils

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// DirCheckResult is the outcome of CheckDirStatus.
type DirCheckResult struct {
	Exists   bool
	Writable bool
	Error    error
}

// FileExists reports whether path can be stat'ed.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dir and its parents.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// GetAbsolutePath resolves path against the working directory.
func GetAbsolutePath(path string) string {
	if path == "" {
		return "unknown"
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// GetExecutableDir returns the directory holding the running binary.
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// CheckDirStatus creates dir if needed and probes it for write access.
func CheckDirStatus(dir string) DirCheckResult {
	var result DirCheckResult
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warnf("Cannot create directory %s: %v", dir, err)
		result.Error = err
		return result
	}
	result.Exists = true
	result.Writable = canWrite(dir)
	return result
}

func canWrite(dir string) bool {
	probe := filepath.Join(dir, ".write_test")
	file, err := os.Create(probe)
	if err != nil {
		log.Warnf("Cannot write to directory %s: %v", dir, err)
		return false
	}
	file.Close()
	os.Remove(probe)
	return true
}
