package catalog

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/gridstash/gridstash/internal/models"
)

type fakeGateway struct {
	files     []models.FileRecord
	listErr   error
	listCalls int
}

func (f *fakeGateway) Authenticate(ctx context.Context, email, password string) (string, error) {
	return "", nil
}

func (f *fakeGateway) Register(ctx context.Context, name, email, password string) error {
	return nil
}

func (f *fakeGateway) ListFiles(ctx context.Context) ([]models.FileRecord, error) {
	f.listCalls++
	return f.files, f.listErr
}

func (f *fakeGateway) UploadFile(ctx context.Context, name string, content io.Reader) error {
	return nil
}

func (f *fakeGateway) ReadFilePage(ctx context.Context, fileID string, page, pageSize int) (*models.FilePage, error) {
	return nil, nil
}

func (f *fakeGateway) DeleteFile(ctx context.Context, fileID string) error {
	return nil
}

func records(names ...string) []models.FileRecord {
	files := make([]models.FileRecord, len(names))
	for i, n := range names {
		files[i] = models.FileRecord{ID: n, Name: n}
	}
	return files
}

func TestRefreshReplacesWholesale(t *testing.T) {
	gw := &fakeGateway{files: records("a.csv", "b.csv")}
	c := New(gw, nil)

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if c.Count() != 2 {
		t.Fatalf("Count = %d, want 2", c.Count())
	}

	gw.files = records("c.csv")
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	got := c.Files()
	if len(got) != 1 || got[0].Name != "c.csv" {
		t.Errorf("Files = %+v, want only c.csv", got)
	}
}

func TestRefreshIsIdempotent(t *testing.T) {
	gw := &fakeGateway{files: records("a.csv", "b.csv")}
	c := New(gw, nil)

	c.Refresh(context.Background())
	first := c.Files()
	c.Refresh(context.Background())
	second := c.Files()

	if len(first) != len(second) {
		t.Fatalf("visible set changed across refreshes: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("order changed at %d: %q vs %q", i, first[i].ID, second[i].ID)
		}
	}
}

func TestRefreshDeduplicatesByID(t *testing.T) {
	gw := &fakeGateway{files: []models.FileRecord{
		{ID: "f1", Name: "first.csv"},
		{ID: "f2", Name: "other.csv"},
		{ID: "f1", Name: "dup.csv"},
	}}
	c := New(gw, nil)
	c.Refresh(context.Background())

	got := c.Files()
	if len(got) != 2 {
		t.Fatalf("Count = %d, want 2", len(got))
	}
	if got[0].Name != "first.csv" {
		t.Errorf("dedup kept %q, want first occurrence", got[0].Name)
	}
}

func TestRefreshErrorKeepsOldContents(t *testing.T) {
	gw := &fakeGateway{files: records("a.csv")}
	c := New(gw, nil)
	c.Refresh(context.Background())

	gw.listErr = errors.New("boom")
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if c.Count() != 1 {
		t.Errorf("Count = %d after failed refresh, want 1", c.Count())
	}
}

func TestFilterIsPure(t *testing.T) {
	gw := &fakeGateway{files: records("report.csv", "data.xlsx", "Report-2.csv")}
	c := New(gw, nil)
	c.Refresh(context.Background())

	c.SetFilter("report")
	visible := c.Visible()
	if len(visible) != 2 {
		t.Errorf("Visible = %d files, want 2 (case-insensitive)", len(visible))
	}

	// Underlying set is untouched.
	if c.Count() != 3 {
		t.Errorf("Count = %d, want 3", c.Count())
	}

	c.SetFilter("")
	if len(c.Visible()) != 3 {
		t.Errorf("empty filter should yield full set")
	}
}

func TestFilterNoMatches(t *testing.T) {
	gw := &fakeGateway{files: records("a.csv")}
	c := New(gw, nil)
	c.Refresh(context.Background())

	c.SetFilter("zzz")
	if len(c.Visible()) != 0 {
		t.Errorf("expected no visible files")
	}
}

func TestApplyUploadRefetches(t *testing.T) {
	gw := &fakeGateway{files: records("a.csv")}
	c := New(gw, nil)
	c.Refresh(context.Background())

	calls := gw.listCalls
	gw.files = records("a.csv", "b.csv")
	if err := c.ApplyUpload(context.Background()); err != nil {
		t.Fatalf("ApplyUpload failed: %v", err)
	}
	if gw.listCalls != calls+1 {
		t.Error("ApplyUpload must refetch the list")
	}
	if c.Count() != 2 {
		t.Errorf("Count = %d, want 2", c.Count())
	}
}

func TestClearDiscardsContentsAndFilter(t *testing.T) {
	gw := &fakeGateway{files: records("a.csv")}
	c := New(gw, nil)
	c.Refresh(context.Background())
	c.SetFilter("a")

	c.Clear()
	if c.Count() != 0 {
		t.Errorf("Count = %d after Clear, want 0", c.Count())
	}
	if c.Filter() != "" {
		t.Errorf("Filter = %q after Clear, want empty", c.Filter())
	}
}

func TestFindByID(t *testing.T) {
	gw := &fakeGateway{files: records("a.csv", "b.csv")}
	c := New(gw, nil)
	c.Refresh(context.Background())

	if f, ok := c.FindByID("b.csv"); !ok || f.Name != "b.csv" {
		t.Errorf("FindByID failed: %+v %v", f, ok)
	}
	if _, ok := c.FindByID("missing"); ok {
		t.Error("FindByID found a missing id")
	}
}
