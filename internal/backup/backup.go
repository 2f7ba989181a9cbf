// Package backup snapshots the local habit store (SQLite database or JSON document) into a
// rotating set of timestamped files next to it.
package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
)

const timestampLayout = "20060102-150405"

// Kind is the format of the backed-up store
type Kind int

const (
	KindSQLite Kind = iota
	KindDocument
)

// BackupInfo describes one backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64

	seq int // collision counter within the same second
}

// Manager handles backup operations for one store file
type Manager struct {
	srcPath   string
	backupDir string
	suffix    string
	kind      Kind
	now       func() time.Time
}

// NewManager creates a manager for the store at srcPath. Files ending in .json are treated
// as documents, everything else as SQLite databases.
func NewManager(srcPath string) *Manager {
	suffix := filepath.Ext(srcPath)
	kind := KindSQLite
	if strings.EqualFold(suffix, ".json") {
		kind = KindDocument
	}
	if suffix == "" {
		suffix = ".db"
	}
	return &Manager{
		srcPath:   srcPath,
		backupDir: filepath.Join(filepath.Dir(srcPath), constants.BackupDirName),
		suffix:    suffix,
		kind:      kind,
		now:       time.Now,
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// WithClock replaces the timestamp source, for tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) Kind() Kind {
	return m.kind
}

// CreateBackup snapshots the store and prunes backups beyond constants.MaxBackups.
func (m *Manager) CreateBackup() (string, error) {
	path, err := m.snapshot()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) snapshot() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.srcPath); os.IsNotExist(err) {
		return "", fmt.Errorf("store does not exist: %s", m.srcPath)
	}

	dest, err := m.nextName()
	if err != nil {
		return "", err
	}

	switch m.kind {
	case KindDocument:
		if err := verifyDocument(m.srcPath); err != nil {
			return "", fmt.Errorf("store document is invalid: %w", err)
		}
		err = copyFile(m.srcPath, dest)
	default:
		err = m.vacuumInto(dest)
	}
	if err != nil {
		return "", fmt.Errorf("failed to backup store: %w", err)
	}
	logger.Info("Backup created", "path", dest)
	return dest, nil
}

func (m *Manager) nextName() (string, error) {
	stamp := m.now().Format(timestampLayout)
	base := filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp)
	path := base + m.suffix
	for i := 1; i <= 100; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		path = fmt.Sprintf("%s-%d%s", base, i, m.suffix)
	}
	return "", fmt.Errorf("failed to generate unique backup filename")
}

// vacuumInto writes a consistent copy of the database, falling back to a file copy when
// VACUUM INTO is unavailable.
func (m *Manager) vacuumInto(dest string) error {
	src, err := sql.Open("sqlite", m.srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	if err := pingSQLite(src); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := src.Exec("VACUUM INTO ?", dest); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		src.Close()
		return copyFile(m.srcPath, dest)
	}
	return nil
}

// ListBackups returns all backups, newest first.
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, m.suffix) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), m.suffix)
		if len(stamp) < len(timestampLayout) {
			continue
		}
		ts, err := time.ParseInLocation(timestampLayout, stamp[:len(timestampLayout)], time.Local)
		if err != nil {
			continue
		}
		seq := 0
		if rest := stamp[len(timestampLayout):]; rest != "" {
			n, err := strconv.Atoi(strings.TrimPrefix(rest, "-"))
			if err != nil || !strings.HasPrefix(rest, "-") {
				continue
			}
			seq = n
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: ts,
			Size:      info.Size(),
			seq:       seq,
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].seq > backups[j].seq
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

func (m *Manager) rotate() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// RestoreBackup replaces the store with backupPath. The current store is backed up first.
// The store must be closed by the caller.
func (m *Manager) RestoreBackup(backupPath string) error {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := m.verify(backupPath); err != nil {
		return fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	if _, err := os.Stat(m.srcPath); err == nil {
		current, err := m.snapshot()
		if err != nil {
			return fmt.Errorf("failed to backup current store before restore: %w", err)
		}
		logger.Info("Backed up current store before restore", "path", current)
	}

	tmp := m.srcPath + ".restore.tmp"
	if err := copyFile(backupPath, tmp); err != nil {
		return fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.srcPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tmp, "error", rmErr)
		}
		return fmt.Errorf("failed to restore store: %w", err)
	}
	return nil
}

func (m *Manager) verify(path string) error {
	if m.kind == KindDocument {
		return verifyDocument(path)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()
	return pingSQLite(db)
}

func pingSQLite(db *sql.DB) error {
	var n int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&n)
}

func verifyDocument(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !json.Valid(data) {
		return fmt.Errorf("%s is not valid JSON", filepath.Base(path))
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
