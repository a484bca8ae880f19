package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"
	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/util"
)

// Archive writes backup artifacts to a directory, one file per backup.
// With a non-empty key the file content is AES-256-GCM sealed.
type Archive struct {
	Dir        string
	EncryptKey string
}

func NewArchive(dir, encryptKey string) *Archive {
	return &Archive{Dir: dir, EncryptKey: encryptKey}
}

// Write stores b as sindicato_<id>_<unixms>.json and returns the path.
func (a *Archive) Write(sindicatoID string, b models.Backup) (string, error) {
	raw, err := json.MarshalIndent(&b, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode backup: %w", err)
	}

	if a.EncryptKey != "" {
		raw, err = util.EncryptAES(a.EncryptKey, raw)
		if err != nil {
			return "", fmt.Errorf("encrypt backup: %w", err)
		}
	}

	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("sindicato_%s_%d.json", sindicatoID, b.Timestamp.UnixMilli())
	path := filepath.Join(a.Dir, name)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}

// Read loads an artifact written by Write.
func (a *Archive) Read(path string) (models.Backup, error) {
	var b models.Backup

	raw, err := os.ReadFile(path)
	if err != nil {
		return b, fmt.Errorf("read backup: %w", err)
	}
	if a.EncryptKey != "" {
		raw, err = util.DecryptAES(a.EncryptKey, raw)
		if err != nil {
			return b, err
		}
	}
	if err := json.Unmarshal(raw, &b); err != nil {
		return b, fmt.Errorf("decode backup: %w", err)
	}
	return b, nil
}

// ArchiveEntry describes one artifact on disk.
type ArchiveEntry struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

// List returns the artifacts in the directory, newest first. A missing
// directory yields an empty list.
func (a *Archive) List() ([]ArchiveEntry, error) {
	dirEntries, err := os.ReadDir(a.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return []ArchiveEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}

	out := make([]ArchiveEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || !isArchiveName(de.Name()) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		out = append(out, ArchiveEntry{Name: de.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModTime.After(out[j].ModTime) })
	return out, nil
}

// ReadNamed loads an artifact by file name. Paths are rejected.
func (a *Archive) ReadNamed(name string) (models.Backup, error) {
	if name != filepath.Base(name) || !isArchiveName(name) {
		return models.Backup{}, os.ErrNotExist
	}
	return a.Read(filepath.Join(a.Dir, name))
}

func isArchiveName(name string) bool {
	return strings.HasPrefix(name, "sindicato_") && strings.HasSuffix(name, ".json")
}
