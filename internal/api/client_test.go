package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, staticToken(token), nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("", nil, nil); err == nil {
		t.Error("expected error for empty base URL")
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not carry a bearer token")
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["email"] != "user@example.com" || body["password"] != "hunter2" {
			t.Errorf("unexpected credentials: %v", body)
		}

		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok123"})
	}, "")

	token, err := client.Authenticate(context.Background(), "user@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if token != "tok123" {
		t.Errorf("token = %q, want tok123", token)
	}
}

func TestAuthenticateInvalidCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
	}, "")

	_, err := client.Authenticate(context.Background(), "user@example.com", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsUnauthorized(err) {
		t.Errorf("expected unauthorized error, got %v", err)
	}
	if Message(err) != "Invalid credentials" {
		t.Errorf("Message = %q, want backend detail verbatim", Message(err))
	}
}

func TestAuthenticateFallbackMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}, "")

	_, err := client.Authenticate(context.Background(), "u", "p")
	if err == nil {
		t.Fatal("expected error")
	}
	if Message(err) != "Login failed" {
		t.Errorf("Message = %q, want fallback", Message(err))
	}
}

func TestListFilesSendsBearerToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("Authorization = %q, want Bearer tok123", got)
		}
		w.Write([]byte(`[{"file_id":"f1","file_name":"a.csv","file_format":"csv","file_size":10}]`))
	}, "tok123")

	files, err := client.ListFiles(context.Background())
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(files) != 1 || files[0].ID != "f1" || files[0].Name != "a.csv" {
		t.Errorf("unexpected files: %+v", files)
	}
}

func TestReadFilePageQueryParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("file_id") != "f1" || q.Get("page") != "3" || q.Get("page_size") != "100" {
			t.Errorf("unexpected query: %v", q)
		}
		w.Write([]byte(`{"file_id":"f1","file_name":"a.csv","total_rows":250,"page":3,"rows":[]}`))
	}, "tok123")

	page, err := client.ReadFilePage(context.Background(), "f1", 3, 100)
	if err != nil {
		t.Fatalf("ReadFilePage failed: %v", err)
	}
	if page.Page != 3 || page.TotalRows != 250 {
		t.Errorf("unexpected page: %+v", page)
	}
	if len(page.Rows) != 0 {
		t.Errorf("expected empty rows, got %d", len(page.Rows))
	}
}

func TestReadFilePageNumericFileID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"file_id":7,"rows":[{"a":1,"b":2}],"total_rows":1,"page":1}`))
	}, "tok123")

	page, err := client.ReadFilePage(context.Background(), "7", 1, 100)
	if err != nil {
		t.Fatalf("ReadFilePage failed: %v", err)
	}
	if page.FileID != "7" || page.Page != 1 || page.TotalRows != 1 {
		t.Errorf("unexpected page: %+v", page)
	}
	if len(page.Rows) != 1 || page.Rows[0]["a"] != float64(1) {
		t.Errorf("unexpected rows: %v", page.Rows)
	}
}

func TestListFilesNumericFileID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"file_id":42,"file_name":"a.csv","file_format":"csv","file_size":10}]`))
	}, "tok123")

	files, err := client.ListFiles(context.Background())
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(files) != 1 || files[0].ID != "42" {
		t.Errorf("unexpected files: %+v", files)
	}
}

func TestReadFilePageNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "File not found"})
	}, "tok123")

	_, err := client.ReadFilePage(context.Background(), "missing", 1, 100)
	if !IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestUploadFileMultipartField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("not a multipart body: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing multipart field 'file': %v", err)
		}
		defer file.Close()
		if header.Filename != "data.csv" {
			t.Errorf("filename = %q, want data.csv", header.Filename)
		}
		w.WriteHeader(http.StatusOK)
	}, "tok123")

	err := client.UploadFile(context.Background(), "data.csv", strings.NewReader("a,b\n1,2\n"))
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
}

func TestDeleteFileEscapesID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		if r.URL.Path != "/files/delete_file/f1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}, "tok123")

	if err := client.DeleteFile(context.Background(), "f1"); err != nil {
		t.Fatalf("DeleteFile failed: %v", err)
	}
}

func TestConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // refuse connections from here on

	client, err := NewClient(server.URL, nil, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.ListFiles(context.Background())
	if !IsConnectionError(err) {
		t.Errorf("expected connection error, got %v", err)
	}
	if Message(err) != "Connection error. Please try again." {
		t.Errorf("Message = %q", Message(err))
	}
}

func TestStatusErrorClassification(t *testing.T) {
	tests := []struct {
		status int
		kind   Kind
	}{
		{400, KindValidationRejected},
		{401, KindUnauthorized},
		{403, KindUnauthorized},
		{404, KindNotFound},
		{500, KindValidationRejected},
	}
	for _, tt := range tests {
		err := statusError(tt.status, "boom", "fallback")
		if err.Kind != tt.kind {
			t.Errorf("status %d: kind = %v, want %v", tt.status, err.Kind, tt.kind)
		}
		if err.Message != "boom" {
			t.Errorf("status %d: message = %q", tt.status, err.Message)
		}
	}
}
