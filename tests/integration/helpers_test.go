package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mkorchagin/scenecut/internal/api"
	"github.com/mkorchagin/scenecut/internal/backend"
	"github.com/mkorchagin/scenecut/internal/catalog"
	"github.com/mkorchagin/scenecut/internal/logging"
	"github.com/mkorchagin/scenecut/internal/session"
	"github.com/mkorchagin/scenecut/internal/storage"
)

type TestServer struct {
	Server   *httptest.Server
	Backend  *fakeBackend
	App      *api.App
	DB       *catalog.DB
	MediaDir string
	TempDir  string
}

// fakeBackend stands in for the media generation service: it answers the
// generate/trim/export endpoints with canned paths and records what it saw.
type fakeBackend struct {
	Server *httptest.Server

	TrimForms      []map[string]string
	SequenceBodies [][]byte
	UploadNames    []string

	// ExportGate, when set, stalls export-sequence responses until the gate
	// closes; ExportStarted signals each stalled call. Used to hold an export
	// in flight.
	ExportGate    chan struct{}
	ExportStarted chan struct{}
}

func newFakeBackend() *fakeBackend {
	fb := &fakeBackend{}
	mux := http.NewServeMux()

	mux.HandleFunc("/generate-image", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		fmt.Fprint(w, `{"image_path": "/generated_images/gen.png"}`)
	})
	mux.HandleFunc("/generate-video", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		fmt.Fprint(w, `{"video_path": "/generated_videos/gen.mp4"}`)
	})
	mux.HandleFunc("/upload-image", func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(32 << 20)
		if _, header, err := r.FormFile("file"); err == nil {
			fb.UploadNames = append(fb.UploadNames, header.Filename)
		}
		fmt.Fprint(w, `{"image_path": "/uploaded_images/up.png"}`)
	})
	mux.HandleFunc("/trim-video", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		form := map[string]string{}
		for k := range r.Form {
			form[k] = r.Form.Get(k)
		}
		fb.TrimForms = append(fb.TrimForms, form)
		fmt.Fprint(w, `{"video_path": "/generated_videos/trimmed.mp4"}`)
	})
	mux.HandleFunc("/export-sequence", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.SequenceBodies = append(fb.SequenceBodies, body)
		if fb.ExportGate != nil {
			fb.ExportStarted <- struct{}{}
			<-fb.ExportGate
		}
		fmt.Fprint(w, `{"video_path": "/generated_videos/final.mp4"}`)
	})

	fb.Server = httptest.NewServer(mux)
	return fb
}

func setupTestServer(t *testing.T) *TestServer {
	tempDir, err := os.MkdirTemp("", "scenecut_test_*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	mediaDir := filepath.Join(tempDir, "media")
	store, err := storage.NewMediaStore(mediaDir)
	if err != nil {
		t.Fatalf("Failed to create media store: %v", err)
	}

	db, err := catalog.NewDB(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create catalog: %v", err)
	}

	fb := newFakeBackend()

	app := &api.App{
		Sessions:      session.NewManager(),
		Backend:       backend.New(fb.Server.URL),
		Store:         store,
		Files:         catalog.NewFileRepo(db),
		Logger:        logging.NewLogger("error"),
		MaxUploadSize: 10 * 1024 * 1024,
	}

	return &TestServer{
		Server:   httptest.NewServer(api.NewRouter(app)),
		Backend:  fb,
		App:      app,
		DB:       db,
		MediaDir: mediaDir,
		TempDir:  tempDir,
	}
}

func (ts *TestServer) Cleanup() {
	ts.Server.Close()
	ts.Backend.Server.Close()
	ts.DB.Close()
	os.RemoveAll(ts.TempDir)
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Failed to POST %s: %v", url, err)
	}
	return resp
}

func decodeResponse[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return out
}

func createSession(t *testing.T, ts *TestServer) api.SessionResponse {
	t.Helper()
	resp := postJSON(t, ts.Server.URL+"/api/sessions", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Failed to create session: status %d", resp.StatusCode)
	}
	return decodeResponse[api.SessionResponse](t, resp)
}

func attachVideo(t *testing.T, ts *TestServer, sessionID, sceneID, path string, duration float64) {
	t.Helper()
	resp := postJSON(t, fmt.Sprintf("%s/api/sessions/%s/scenes/%s/media", ts.Server.URL, sessionID, sceneID),
		api.AttachMediaRequest{Kind: "video", Path: path, Filename: filepath.Base(path), DurationSeconds: duration})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Failed to attach video: status %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func createImageUpload(filename string, content []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, bytes.NewReader(content)); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
