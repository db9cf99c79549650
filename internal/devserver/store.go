// Package devserver is a development stand-in for the storage backend.
// It implements the same REST surface over an in-memory store so the
// client can be exercised locally and in integration tests.
package devserver

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gridstash/gridstash/internal/models"
)

// MaxUploadBytes caps accepted upload size (25 MiB).
const MaxUploadBytes = 25 << 20

var acceptedFormats = map[string]bool{
	"csv":     true,
	"xlsx":    true,
	"xls":     true,
	"parquet": true,
}

// user is one registered account.
type user struct {
	ID       string
	Name     string
	Email    string
	Password string
}

// storedFile is one uploaded file plus its parsed rows.
type storedFile struct {
	Record models.FileRecord
	Rows   []models.Row
}

// memStore holds all server state in memory.
type memStore struct {
	mu    sync.RWMutex
	users map[string]*user        // keyed by email
	files map[string][]storedFile // keyed by user id, upload order
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[string]*user),
		files: make(map[string][]storedFile),
	}
}

func (s *memStore) addUser(name, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[email]; exists {
		return fmt.Errorf("email already registered")
	}
	s.users[email] = &user{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: password,
	}
	return nil
}

func (s *memStore) authenticate(email, password string) (*user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[email]
	if !ok || u.Password != password {
		return nil, false
	}
	return u, true
}

func (s *memStore) addFile(userID, name string, content []byte) (models.FileRecord, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if !acceptedFormats[format] {
		return models.FileRecord{}, fmt.Errorf("unsupported file format: %s", format)
	}

	// Only CSV content is parsed; other formats are stored as opaque
	// bytes and report zero parsed rows.
	var rows []models.Row
	if format == "csv" {
		parsed, err := parseCSV(content)
		if err != nil {
			return models.FileRecord{}, fmt.Errorf("invalid csv content: %v", err)
		}
		rows = parsed
	}

	record := models.FileRecord{
		ID:         uuid.NewString(),
		Name:       name,
		Format:     format,
		SizeBytes:  int64(len(content)),
		UploadedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.files[userID] = append(s.files[userID], storedFile{Record: record, Rows: rows})
	s.mu.Unlock()
	return record, nil
}

func (s *memStore) listFiles(userID string) []models.FileRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := s.files[userID]
	records := make([]models.FileRecord, 0, len(files))
	for _, f := range files {
		records = append(records, f.Record)
	}
	return records
}

func (s *memStore) findFile(userID, fileID string) (*storedFile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.files[userID] {
		if s.files[userID][i].Record.ID == fileID {
			return &s.files[userID][i], true
		}
	}
	return nil, false
}

func (s *memStore) deleteFile(userID, fileID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := s.files[userID]
	for i := range files {
		if files[i].Record.ID == fileID {
			s.files[userID] = append(files[:i], files[i+1:]...)
			return true
		}
	}
	return false
}

// page slices parsed rows for one page. Pages past the end yield an
// empty rows sequence, which the client treats as a valid terminal
// response.
func (f *storedFile) page(pageNumber, pageSize int) *models.FilePage {
	start := (pageNumber - 1) * pageSize
	end := start + pageSize
	if start > len(f.Rows) {
		start = len(f.Rows)
	}
	if end > len(f.Rows) {
		end = len(f.Rows)
	}

	return &models.FilePage{
		FileID:    f.Record.ID,
		FileName:  f.Record.Name,
		Format:    f.Record.Format,
		TotalRows: len(f.Rows),
		Page:      pageNumber,
		Rows:      f.Rows[start:end],
	}
}

// parseCSV turns CSV bytes into typed rows: integers and floats become
// numbers, empty cells become null, everything else stays a string.
// The first record is the header.
func parseCSV(content []byte) ([]models.Row, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []models.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(models.Row, len(header))
		for i, col := range header {
			if i >= len(record) {
				row[col] = nil
				continue
			}
			row[col] = typedCell(record[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func typedCell(raw string) any {
	if raw == "" {
		return nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
