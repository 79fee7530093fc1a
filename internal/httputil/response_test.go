package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, map[string]string{"name": "StreamBox"})

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Fatalf("status = %q, want ok", resp.Status)
	}
	if resp.Error != nil {
		t.Fatalf("error = %+v, want nil", resp.Error)
	}
	if resp.Data.(map[string]interface{})["name"] != "StreamBox" {
		t.Fatalf("data = %v", resp.Data)
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, CodeNotFound, "entry not found")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "error" {
		t.Fatalf("status = %q, want error", resp.Status)
	}
	if resp.Error == nil || resp.Error.Code != CodeNotFound {
		t.Fatalf("error = %+v, want code NOT_FOUND", resp.Error)
	}
	if resp.Data != nil {
		t.Fatalf("data = %v, want nil", resp.Data)
	}
}

func TestReadJSONRejectsOversizedBody(t *testing.T) {
	big := `{"title":"` + strings.Repeat("x", maxBodyBytes+1) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))

	var dst map[string]string
	if err := ReadJSON(req, &dst); err == nil {
		t.Fatal("oversized body decoded without error")
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"ok"}`))
	if err := ReadJSON(req, &dst); err != nil {
		t.Fatalf("small body: %v", err)
	}
	if dst["title"] != "ok" {
		t.Fatalf("title = %q", dst["title"])
	}
}
