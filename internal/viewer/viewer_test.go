package viewer

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/gridstash/gridstash/internal/models"
)

// pageGateway serves canned pages and can hold responses until
// released, so tests can interleave navigation with in-flight fetches.
type pageGateway struct {
	mu       sync.Mutex
	pages    map[int]*models.FilePage
	err      error
	hold     chan struct{} // when set, responses wait on it
	started  chan int      // receives the requested page when set
	requests []int
}

func (g *pageGateway) Authenticate(ctx context.Context, email, password string) (string, error) {
	return "", nil
}

func (g *pageGateway) Register(ctx context.Context, name, email, password string) error {
	return nil
}

func (g *pageGateway) ListFiles(ctx context.Context) ([]models.FileRecord, error) {
	return nil, nil
}

func (g *pageGateway) UploadFile(ctx context.Context, name string, content io.Reader) error {
	return nil
}

func (g *pageGateway) DeleteFile(ctx context.Context, fileID string) error {
	return nil
}

func (g *pageGateway) ReadFilePage(ctx context.Context, fileID string, page, pageSize int) (*models.FilePage, error) {
	g.mu.Lock()
	g.requests = append(g.requests, page)
	started, hold, err := g.started, g.hold, g.err
	result := g.pages[page]
	g.mu.Unlock()

	if started != nil {
		started <- page
	}
	if hold != nil {
		<-hold
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func makePage(fileID string, page, totalRows, rows int) *models.FilePage {
	p := &models.FilePage{
		FileID:    fileID,
		FileName:  "data.csv",
		Format:    "csv",
		TotalRows: totalRows,
		Page:      page,
	}
	for i := 0; i < rows; i++ {
		p.Rows = append(p.Rows, models.Row{"n": i})
	}
	return p
}

func TestOpenLoadsPageOne(t *testing.T) {
	gw := &pageGateway{pages: map[int]*models.FilePage{1: makePage("f1", 1, 250, 100)}}
	v := New(gw, nil)

	if err := v.Open(context.Background(), "f1"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if v.CurrentState() != Loaded {
		t.Errorf("state = %v, want Loaded", v.CurrentState())
	}
	if v.Page() != 1 {
		t.Errorf("page = %d, want 1", v.Page())
	}
	if v.Current() == nil || len(v.Current().Rows) != 100 {
		t.Error("expected 100 rows on page 1")
	}
	if v.CanPrev() {
		t.Error("CanPrev must be false on page 1")
	}
}

func TestOpenFailureStaysClosed(t *testing.T) {
	gw := &pageGateway{err: errors.New("boom")}
	v := New(gw, nil)

	if err := v.Open(context.Background(), "f1"); err == nil {
		t.Fatal("expected error")
	}
	if v.CurrentState() != Closed {
		t.Errorf("state = %v, want Closed", v.CurrentState())
	}
	if v.Current() != nil {
		t.Error("no page must be shown after failed open")
	}
}

func TestNextPageRequestsSuccessor(t *testing.T) {
	gw := &pageGateway{pages: map[int]*models.FilePage{
		1: makePage("f1", 1, 250, 100),
		2: makePage("f1", 2, 250, 100),
	}}
	v := New(gw, nil)
	v.Open(context.Background(), "f1")

	if err := v.NextPage(context.Background()); err != nil {
		t.Fatalf("NextPage failed: %v", err)
	}
	if v.Page() != 2 {
		t.Errorf("page = %d, want 2", v.Page())
	}
	if got := gw.requests; len(got) != 2 || got[1] != 2 {
		t.Errorf("requests = %v, want [1 2]", got)
	}
	if !v.CanPrev() {
		t.Error("CanPrev must be true on page 2")
	}
}

func TestNextPagePastEndYieldsEmptyRows(t *testing.T) {
	gw := &pageGateway{pages: map[int]*models.FilePage{
		1: makePage("f1", 1, 50, 50),
		2: makePage("f1", 2, 50, 0),
	}}
	v := New(gw, nil)
	v.Open(context.Background(), "f1")

	// No client-side upper bound: page 2 is requested and its empty
	// rows are a valid loaded state.
	if err := v.NextPage(context.Background()); err != nil {
		t.Fatalf("NextPage failed: %v", err)
	}
	if v.CurrentState() != Loaded {
		t.Errorf("state = %v, want Loaded", v.CurrentState())
	}
	if len(v.Current().Rows) != 0 {
		t.Errorf("rows = %d, want 0", len(v.Current().Rows))
	}
}

func TestPrevPageNoOpAtPageOne(t *testing.T) {
	gw := &pageGateway{pages: map[int]*models.FilePage{1: makePage("f1", 1, 250, 100)}}
	v := New(gw, nil)
	v.Open(context.Background(), "f1")

	if err := v.PrevPage(context.Background()); err != nil {
		t.Fatalf("PrevPage failed: %v", err)
	}
	if v.Page() != 1 {
		t.Errorf("page = %d, want 1", v.Page())
	}
	if len(gw.requests) != 1 {
		t.Errorf("requests = %v, prev at page 1 must not fetch", gw.requests)
	}
}

func TestNavigationIgnoredWhileClosed(t *testing.T) {
	gw := &pageGateway{}
	v := New(gw, nil)

	v.NextPage(context.Background())
	v.PrevPage(context.Background())
	if len(gw.requests) != 0 {
		t.Errorf("requests = %v, want none", gw.requests)
	}
}

func TestPageErrorRestoresCurrentPage(t *testing.T) {
	gw := &pageGateway{pages: map[int]*models.FilePage{1: makePage("f1", 1, 250, 100)}}
	v := New(gw, nil)
	v.Open(context.Background(), "f1")

	gw.mu.Lock()
	gw.err = errors.New("boom")
	gw.mu.Unlock()

	if err := v.NextPage(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if v.CurrentState() != Loaded {
		t.Errorf("state = %v, want Loaded", v.CurrentState())
	}
	if v.Page() != 1 {
		t.Errorf("page = %d, want restored to 1", v.Page())
	}
	if v.Current() == nil || v.Current().Page != 1 {
		t.Error("page 1 content must still be shown")
	}
}

func TestStaleResponseAfterClose(t *testing.T) {
	gw := &pageGateway{
		pages: map[int]*models.FilePage{
			1: makePage("f1", 1, 250, 100),
			2: makePage("f1", 2, 250, 100),
		},
	}
	v := New(gw, nil)
	v.Open(context.Background(), "f1")

	gw.mu.Lock()
	gw.hold = make(chan struct{})
	gw.started = make(chan int, 1)
	gw.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- v.NextPage(context.Background())
	}()

	<-gw.started // page 2 fetch is in flight
	v.Close()
	close(gw.hold)

	if err := <-done; err != nil {
		t.Fatalf("stale response must be dropped silently, got %v", err)
	}
	if v.CurrentState() != Closed {
		t.Errorf("state = %v, want Closed", v.CurrentState())
	}
	if v.Current() != nil {
		t.Error("stale page must not be applied")
	}
}

func TestStaleResponseAfterReopen(t *testing.T) {
	gw := &pageGateway{
		pages: map[int]*models.FilePage{
			1: makePage("f1", 1, 250, 100),
			2: makePage("f1", 2, 250, 100),
		},
	}
	v := New(gw, nil)
	v.Open(context.Background(), "f1")

	gw.mu.Lock()
	gw.hold = make(chan struct{})
	gw.started = make(chan int, 2)
	gw.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- v.NextPage(context.Background())
	}()
	<-gw.started // f1 page 2 in flight

	// Open another file while the old fetch is outstanding.
	reopened := make(chan error, 1)
	go func() {
		reopened <- v.Open(context.Background(), "f2")
	}()
	<-gw.started // f2 page 1 in flight
	close(gw.hold)

	if err := <-done; err != nil {
		t.Fatalf("stale response error: %v", err)
	}
	if err := <-reopened; err != nil {
		t.Fatalf("reopen failed: %v", err)
	}

	// Wait until the reopen result is applied.
	deadline := time.After(time.Second)
	for v.CurrentState() != Loaded {
		select {
		case <-deadline:
			t.Fatal("viewer never settled")
		case <-time.After(time.Millisecond):
		}
	}
	if v.FileID() != "f2" || v.Page() != 1 {
		t.Errorf("viewer shows %s page %d, want f2 page 1", v.FileID(), v.Page())
	}
}

func TestCloseResetsEverything(t *testing.T) {
	gw := &pageGateway{pages: map[int]*models.FilePage{1: makePage("f1", 1, 250, 100)}}
	v := New(gw, nil)
	v.Open(context.Background(), "f1")

	v.Close()
	if v.CurrentState() != Closed || v.FileID() != "" || v.Page() != 0 || v.Current() != nil {
		t.Error("Close must discard all viewer state")
	}
}
