package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// MaxBackups is how many config backups are kept per file.
	MaxBackups = 3

	// BackupSuffix separates the config file name from the backup timestamp.
	BackupSuffix = ".bak"
)

// Backup copies path to a timestamped sibling before it is overwritten and
// prunes older backups beyond MaxBackups. It returns "" when path does not
// exist.
func Backup(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read config for backup: %w", err)
	}

	backupPath := fmt.Sprintf("%s%s.%s", path, BackupSuffix, time.Now().Format("20060102-150405.000"))
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	backups, err := ListBackups(path)
	if err == nil && len(backups) > MaxBackups {
		for _, old := range backups[MaxBackups:] {
			_ = os.Remove(old)
		}
	}
	return backupPath, nil
}

// ListBackups returns the backups of path, newest first.
func ListBackups(path string) ([]string, error) {
	dir := filepath.Dir(path)
	prefix := filepath.Base(path) + BackupSuffix + "."

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list config directory: %w", err)
	}

	var backups []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			backups = append(backups, filepath.Join(dir, entry.Name()))
		}
	}

	// timestamps sort lexically
	sort.Sort(sort.Reverse(sort.StringSlice(backups)))
	return backups, nil
}
