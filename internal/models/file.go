package models

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
)

// flexibleID decodes a file id that may arrive as a JSON string or a
// JSON number, normalizing to string either way.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = flexibleID(n.String())
	return nil
}

// FileRecord is the catalog-level metadata for one uploaded file.
// JSON tags match the storage backend's wire format.
type FileRecord struct {
	ID         string    `json:"file_id"`
	Name       string    `json:"file_name"`
	Format     string    `json:"file_format"` // csv, xlsx, xls, parquet
	SizeBytes  int64     `json:"file_size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// UnmarshalJSON accepts both string and numeric file_id values.
func (f *FileRecord) UnmarshalJSON(data []byte) error {
	type alias FileRecord
	aux := struct {
		ID flexibleID `json:"file_id"`
		*alias
	}{alias: (*alias)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	f.ID = string(aux.ID)
	return nil
}

// HumanSize returns the file size formatted for display (e.g. "2.1 MB").
func (f FileRecord) HumanSize() string {
	return humanize.Bytes(uint64(f.SizeBytes))
}

// Row is one parsed data row: column name to scalar value, nil for null cells.
type Row map[string]any

// FilePage is one fetched slice of a file's parsed row content.
type FilePage struct {
	FileID    string `json:"file_id"`
	FileName  string `json:"file_name"`
	Format    string `json:"file_format"`
	TotalRows int    `json:"total_rows"`
	Page      int    `json:"page"`
	Rows      []Row  `json:"rows"`
}

// UnmarshalJSON accepts both string and numeric file_id values.
func (p *FilePage) UnmarshalJSON(data []byte) error {
	type alias FilePage
	aux := struct {
		FileID flexibleID `json:"file_id"`
		*alias
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.FileID = string(aux.FileID)
	return nil
}

// Columns derives the rendered column set from the first row of a page.
// JSON objects carry no key order through Go maps, so the order is the
// sorted key set. An empty page has no columns.
func Columns(rows []Row) []string {
	if len(rows) == 0 {
		return nil
	}
	cols := make([]string, 0, len(rows[0]))
	for name := range rows[0] {
		cols = append(cols, name)
	}
	sort.Strings(cols)
	return cols
}
