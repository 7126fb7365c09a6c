// Package store is the content-addressed artifact store: flat files named
// "<inscriptionId>.<ext>" under a content directory, plus a single
// pretty-printed JSON master index at "<content>/master/master.json" that
// records the mime type and creation time of every artifact that has been
// written or adopted from disk.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"zordinals/internal/mimetable"
	"zordinals/internal/zorderr"
)

// Record is one master-index entry: everything needed to locate and describe
// a reconstructed artifact without re-reading it from disk.
type Record struct {
	InscriptionID string `json:"inscriptionId"`
	Txid          string `json:"txid"`
	Filename      string `json:"filename"`
	MimeType      string `json:"mimeType"`
	Ext           string `json:"ext"`
	Size          int    `json:"size"`
	Complete      bool   `json:"complete"`
	CreatedAt     string `json:"createdAt"`
}

// Store owns the content directory and serializes every write to the master
// index behind a single mutex — cheap insurance against lost updates if a
// future caller ever runs reconstructions concurrently.
type Store struct {
	contentDir string
	masterPath string
	log        *logrus.Logger
	mu         sync.Mutex
}

const masterDirName = "master"
const masterFileName = "master.json"

// New creates the content directory and its master subdirectory if they
// don't already exist.
func New(contentDir string, log *logrus.Logger) (*Store, error) {
	masterDir := filepath.Join(contentDir, masterDirName)
	if err := os.MkdirAll(masterDir, 0o755); err != nil {
		return nil, &zorderr.ErrIO{Op: "create content directory", Cause: err}
	}
	return &Store{
		contentDir: contentDir,
		masterPath: filepath.Join(masterDir, masterFileName),
		log:        log,
	}, nil
}

// ArtifactPath returns the path an artifact for inscriptionId with the given
// mime type would be written to.
func (s *Store) ArtifactPath(inscriptionID, mimeType string) string {
	return filepath.Join(s.contentDir, inscriptionID+"."+mimetable.ExtFor(mimeType))
}

// NewRecord builds the master-index Record for an artifact, deriving
// filename and ext from the same path ArtifactPath would return so the
// index always agrees with the file actually on disk.
func (s *Store) NewRecord(inscriptionID, txid, mimeType string, size int, complete bool) Record {
	return Record{
		InscriptionID: inscriptionID,
		Txid:          txid,
		Filename:      filepath.Base(s.ArtifactPath(inscriptionID, mimeType)),
		MimeType:      mimeType,
		Ext:           mimetable.ExtFor(mimeType),
		Size:          size,
		Complete:      complete,
	}
}

// WriteArtifact writes data to "<inscriptionId>.<ext>" in the content
// directory, where ext is derived from mimeType, and returns the path it
// wrote.
func (s *Store) WriteArtifact(inscriptionID, mimeType string, data []byte) (string, error) {
	path := s.ArtifactPath(inscriptionID, mimeType)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &zorderr.ErrIO{Op: "write artifact", Cause: err}
	}
	return path, nil
}

// FindFile looks for an existing artifact file whose name begins with
// "<candidate>." for each of: id as given, its stripped base, and
// "<base>i0" — in that order, case-insensitively. Returns the first match.
func (s *Store) FindFile(id, baseTxid string) (path string, ok bool) {
	entries, err := os.ReadDir(s.contentDir)
	if err != nil {
		return "", false
	}

	candidates := []string{id, baseTxid, baseTxid + "i0"}
	for _, candidate := range candidates {
		prefix := strings.ToLower(candidate) + "."
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if strings.HasPrefix(strings.ToLower(e.Name()), prefix) {
				return filepath.Join(s.contentDir, e.Name()), true
			}
		}
	}
	return "", false
}

// Lookup returns the master-index record for id, if one exists.
func (s *Store) Lookup(id string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.loadIndexLocked()
	if err != nil {
		return Record{}, false, err
	}
	rec, ok := idx[id]
	return rec, ok, nil
}

// Upsert merges rec into the master index, preserving the existing
// createdAt for that id if one is already recorded, and writes the index
// back atomically (write master.json.tmp, rename over master.json).
func (s *Store) Upsert(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.loadIndexLocked()
	if err != nil {
		return err
	}

	if existing, ok := idx[rec.InscriptionID]; ok && existing.CreatedAt != "" {
		rec.CreatedAt = existing.CreatedAt
	} else if rec.CreatedAt == "" {
		rec.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	idx[rec.InscriptionID] = rec

	return s.writeIndexLocked(idx)
}

// loadIndexLocked reads the master index, treating a missing or empty file
// as an empty index. A parse failure is logged and treated the same way —
// the index is rebuilt from here rather than aborting the reconstruction.
func (s *Store) loadIndexLocked() (map[string]Record, error) {
	data, err := os.ReadFile(s.masterPath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Record{}, nil
		}
		return nil, &zorderr.ErrIO{Op: "read master index", Cause: err}
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]Record{}, nil
	}

	idx := map[string]Record{}
	if err := json.Unmarshal(data, &idx); err != nil {
		s.log.WithField("err", err).Warn("master index unreadable, resetting")
		return map[string]Record{}, nil
	}
	return idx, nil
}

func (s *Store) writeIndexLocked(idx map[string]Record) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return &zorderr.ErrIO{Op: "marshal master index", Cause: err}
	}

	tmpPath := s.masterPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return &zorderr.ErrIO{Op: "write master index temp file", Cause: err}
	}
	if err := os.Rename(tmpPath, s.masterPath); err != nil {
		return &zorderr.ErrIO{Op: "rename master index into place", Cause: err}
	}
	return nil
}

// ReadArtifact reads an artifact already on disk, for the reconstructor's
// cache-hit fast paths.
func ReadArtifact(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &zorderr.ErrIO{Op: "read artifact", Cause: err}
	}
	return data, nil
}

// MimeFromPath guesses a mime type from a cached file's extension, for the
// registration fast path where no master-index record exists yet.
func MimeFromPath(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return mimetable.MimeFor(ext)
}
