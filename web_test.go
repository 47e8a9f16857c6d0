package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
)

func TestServeAdvance(t *testing.T) {
	cfg := &Config{}
	session, store := testSession()
	handler := serveAdvance(cfg, session)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/advance", nil)
	handler(w, r, nil)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if _, ok := store.State().Phase.(QuestionRound); !ok {
		t.Fatalf("expected advance to start a round, got %T", store.State().Phase)
	}
}

func TestServeAdvanceToken(t *testing.T) {
	cfg := &Config{advanceToken: "sesame"}
	session, store := testSession()
	handler := serveAdvance(cfg, session)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/advance", nil)
	handler(w, r, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if _, ok := store.State().Phase.(Lobby); !ok {
		t.Fatal("unauthorized request advanced the game")
	}

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/advance", nil)
	r.Header.Set("Authorization", "Bearer wrong")
	handler(w, r, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/advance", nil)
	r.Header.Set("Authorization", "Bearer sesame")
	handler(w, r, nil)

	if w.Code != http.StatusNoContent {
		t.Fatalf("valid token: status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if _, ok := store.State().Phase.(QuestionRound); !ok {
		t.Fatal("authorized request did not advance the game")
	}
}

func TestServeHealthCheck(t *testing.T) {
	cfg := &Config{}
	errs := make(chan error, 1)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	serveHealthCheck(cfg, errs)(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Body.String() != "Ok\n" {
		t.Fatalf("body = %q", w.Body.String())
	}
}

func TestServeVersion(t *testing.T) {
	cfg := &Config{}
	errs := make(chan error, 1)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/version", nil)
	serveVersion(cfg, errs)(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), releaseVersion) {
		t.Fatalf("body = %q", w.Body.String())
	}
}

func TestServeQuestionImage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pic.jpg"), []byte("jpegbytes"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	writeManifest(t, dir, `[{"image": "pic.jpg", "latitude": 0, "longitude": 0}]`)

	cfg := &Config{questionsDir: dir}
	errs := make(chan error, 1)
	handler := serveQuestionImage(cfg, errs)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/images/pic.jpg", nil)
	handler(w, r, httprouter.Params{{Key: "image", Value: "pic.jpg"}})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Body.String() != "jpegbytes" {
		t.Fatalf("body = %q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Fatalf("content type = %q", ct)
	}

	// The manifest itself must not be served as an image.
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/images/"+manifestName, nil)
	handler(w, r, httprouter.Params{{Key: "image", Value: manifestName}})

	if w.Code != http.StatusNotFound {
		t.Fatalf("manifest request: status = %d, want %d", w.Code, http.StatusNotFound)
	}

	// Path traversal resolves to the base name only.
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/images/x", nil)
	handler(w, r, httprouter.Params{{Key: "image", Value: "../../etc/passwd"}})

	if w.Code != http.StatusNotFound {
		t.Fatalf("traversal request: status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestQRHandler(t *testing.T) {
	cfg := &Config{}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/qr", nil)
	r.Host = "game.example.com"
	qrHandler(cfg)(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}
	if w.Body.Len() == 0 {
		t.Fatal("empty png body")
	}
}
