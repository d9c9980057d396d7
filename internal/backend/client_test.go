package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mkorchagin/scenecut/internal/timeline"
)

func TestClient_TrimVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trim-video" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.FormValue("video_path"); got != "/generated_videos/v.mp4" {
			t.Errorf("video_path = %q", got)
		}
		if got := r.FormValue("start_time"); got != "1.5" {
			t.Errorf("start_time = %q", got)
		}
		if got := r.FormValue("end_time"); got != "4" {
			t.Errorf("end_time = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"video_path": "/generated_videos/trimmed.mp4"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	path, err := c.TrimVideo(context.Background(), timeline.TrimRequest{
		VideoPath: "/generated_videos/v.mp4",
		StartTime: 1.5,
		EndTime:   4,
	})
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	if path != "/generated_videos/trimmed.mp4" {
		t.Errorf("path = %q", path)
	}
}

func TestClient_ExportSequence_WireShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Scenes []struct {
				Path      string  `json:"path"`
				StartTime float64 `json:"start_time"`
				EndTime   float64 `json:"end_time"`
			} `json:"scenes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(payload.Scenes) != 2 {
			t.Fatalf("scenes = %d, want 2", len(payload.Scenes))
		}
		if payload.Scenes[0].Path != "/generated_videos/a.mp4" || payload.Scenes[0].EndTime != 3 {
			t.Errorf("scene 0 = %+v", payload.Scenes[0])
		}
		json.NewEncoder(w).Encode(map[string]string{"video_path": "/generated_videos/sequence.mp4"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	path, err := c.ExportSequence(context.Background(), timeline.SequenceRequest{
		Scenes: []timeline.SequenceItem{
			{Path: "/generated_videos/a.mp4", StartTime: 0, EndTime: 3},
			{Path: "/generated_videos/b.mp4", StartTime: 1, EndTime: 2.5},
		},
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if path != "/generated_videos/sequence.mp4" {
		t.Errorf("path = %q", path)
	}
}

func TestClient_GenerateImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if got := r.FormValue("prompt"); got != "a red door" {
			t.Errorf("prompt = %q", got)
		}
		if got := r.FormValue("mode"); got != "new" {
			t.Errorf("mode = %q", got)
		}
		if _, sent := r.Form["current_image"]; sent {
			t.Error("current_image must be omitted when empty")
		}
		json.NewEncoder(w).Encode(map[string]string{"image_path": "/generated_images/i.png"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	path, err := c.GenerateImage(context.Background(), GenerateImageParams{Prompt: "a red door", Mode: "new"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if path != "/generated_images/i.png" {
		t.Errorf("path = %q", path)
	}
}

func TestClient_UploadImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("multipart: %v", err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "door.png" {
			t.Errorf("filename = %q", hdr.Filename)
		}
		json.NewEncoder(w).Encode(map[string]string{"image_path": "/uploaded_images/u.png"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	path, err := c.UploadImage(context.Background(), "door.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if path != "/uploaded_images/u.png" {
		t.Errorf("path = %q", path)
	}
}

func TestClient_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.GenerateVideo(context.Background(), "/i.png", "pan left"); err == nil {
		t.Fatal("expected error on backend failure")
	}
}
