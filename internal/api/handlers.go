package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/mkorchagin/scenecut/internal/backend"
	"github.com/mkorchagin/scenecut/internal/catalog"
	"github.com/mkorchagin/scenecut/internal/session"
	"github.com/mkorchagin/scenecut/internal/storage"
	"github.com/mkorchagin/scenecut/internal/timeline"
)

type App struct {
	Sessions      *session.Manager
	Backend       *backend.Client
	Store         storage.Store
	Files         *catalog.FileRepo
	Logger        *slog.Logger
	MaxUploadSize int64
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

func (app *App) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := app.Sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		WriteError(w, http.StatusNotFound, "session not found", "NOT_FOUND")
		return nil, false
	}
	return s, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return false
	}
	return true
}

func (app *App) sessionResponse(s *session.Session) SessionResponse {
	scenes, activeID := s.Snapshot()
	return SessionResponse{
		SessionID:     s.ID,
		Scenes:        sceneViews(scenes),
		ActiveSceneID: activeID,
	}
}

func (app *App) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	s := app.Sessions.Create()
	app.Logger.Info("session created", "session_id", s.ID)
	WriteJSON(w, http.StatusCreated, app.sessionResponse(s))
}

func (app *App) ScenesHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.sessionFromRequest(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, app.sessionResponse(s))
}

func (app *App) AddSceneHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req AddSceneRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	s.AddScene(req.Title)
	WriteJSON(w, http.StatusCreated, app.sessionResponse(s))
}

func (app *App) SelectSceneHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.sessionFromRequest(w, r)
	if !ok {
		return
	}

	s.Select(chi.URLParam(r, "sceneID"))
	WriteJSON(w, http.StatusOK, app.sessionResponse(s))
}

func (app *App) AttachMediaHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req AttachMediaRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	kind := timeline.MediaKind(req.Kind)
	if kind != timeline.MediaImage && kind != timeline.MediaVideo {
		WriteError(w, http.StatusBadRequest, "kind must be image or video", "BAD_REQUEST")
		return
	}

	s.Attach(chi.URLParam(r, "sceneID"), timeline.MediaRef{
		Kind:     kind,
		Path:     req.Path,
		Filename: req.Filename,
	}, req.DurationSeconds)

	if kind == timeline.MediaVideo && req.DurationSeconds > 0 {
		if err := app.Files.SetDuration(r.Context(), req.Path, req.DurationSeconds); err != nil {
			app.Logger.Warn("failed to record duration", "path", req.Path, "error", err)
		}
	}

	WriteJSON(w, http.StatusOK, app.sessionResponse(s))
}

func (app *App) TrimPressHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req TrimPressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	handle := timeline.HandleStart
	if req.Handle == "end" {
		handle = timeline.HandleEnd
	}

	if !s.TrimPress(handle) {
		WriteError(w, http.StatusUnprocessableEntity, "no video loaded in the active scene", "NO_VIDEO")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"dragging": true})
}

func (app *App) TrimMoveHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req TrimMoveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	upd, ok := s.TrimMove(req.Position)
	if !ok {
		WriteError(w, http.StatusUnprocessableEntity, "no drag in progress", "NO_DRAG")
		return
	}
	WriteJSON(w, http.StatusOK, trimUpdateResponse(upd, s.Directives()))
}

func (app *App) TrimReleaseHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.sessionFromRequest(w, r)
	if !ok {
		return
	}

	s.TrimRelease()
	WriteJSON(w, http.StatusOK, map[string]bool{"dragging": false})
}

func (app *App) TrimTapHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req TrimMoveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	upd, ok := s.TrimTap(req.Position)
	if !ok {
		WriteError(w, http.StatusUnprocessableEntity, "no video loaded in the active scene", "NO_VIDEO")
		return
	}
	WriteJSON(w, http.StatusOK, trimUpdateResponse(upd, s.Directives()))
}

func trimUpdateResponse(upd timeline.TrimUpdate, directives []session.Directive) TrimUpdateResponse {
	if directives == nil {
		directives = []session.Directive{}
	}
	return TrimUpdateResponse{
		Handle:     upd.Handle.String(),
		Start:      upd.Start,
		End:        upd.End,
		Seek:       upd.Seek,
		Directives: directives,
	}
}

func (app *App) TrimResetHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.sessionFromRequest(w, r)
	if !ok {
		return
	}

	trim, ok := s.TrimReset()
	if !ok {
		WriteError(w, http.StatusUnprocessableEntity, "no video loaded in the active scene", "NO_VIDEO")
		return
	}
	WriteJSON(w, http.StatusOK, TrimResetResponse{
		Start:    trim.Start,
		End:      trim.End,
		Duration: trim.Duration,
	})
}

func (app *App) PlaylistHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.sessionFromRequest(w, r)
	if !ok {
		return
	}

	items := s.Playlist()
	if len(items) == 0 {
		WriteError(w, http.StatusUnprocessableEntity, "nothing to play", "EMPTY_PLAYLIST")
		return
	}

	views := make([]PlaylistItemView, len(items))
	for i, item := range items {
		views[i] = PlaylistItemView{
			MediaPath:    item.MediaPath,
			StartSeconds: item.StartSeconds,
			EndSeconds:   item.EndSeconds,
			Title:        item.Title,
		}
	}
	WriteJSON(w, http.StatusOK, PlaylistResponse{Items: views})
}

func (app *App) PreviewStartHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.sessionFromRequest(w, r)
	if !ok {
		return
	}

	directives, err := s.StartPreview()
	if err != nil {
		if errors.Is(err, timeline.ErrNothingToPlay) {
			WriteError(w, http.StatusUnprocessableEntity, err.Error(), "EMPTY_PLAYLIST")
			return
		}
		WriteError(w, http.StatusInternalServerError, "failed to start preview", "INTERNAL_ERROR")
		return
	}
	WriteJSON(w, http.StatusOK, app.previewResponse(s, directives))
}

func (app *App) PreviewPositionHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req PositionReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	directives := s.ReportPosition(req.Position, req.Playing, req.Ended)
	WriteJSON(w, http.StatusOK, app.previewResponse(s, directives))
}

func (app *App) PreviewStepHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.sessionFromRequest(w, r)
	if !ok {
		return
	}

	var req PreviewStepRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	directives := s.StepPreview(req.Delta)
	WriteJSON(w, http.StatusOK, app.previewResponse(s, directives))
}

func (app *App) PreviewStopHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.sessionFromRequest(w, r)
	if !ok {
		return
	}

	directives := s.StopPreview()
	WriteJSON(w, http.StatusOK, app.previewResponse(s, directives))
}

func (app *App) PreviewStatusHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.sessionFromRequest(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, app.previewResponse(s, nil))
}

func (app *App) previewResponse(s *session.Session, directives []session.Directive) PreviewResponse {
	state := s.Preview()
	return PreviewResponse{
		Playing:    state.Playing,
		Index:      state.Index,
		Done:       state.Done,
		Directives: directives,
	}
}

func (app *App) ExportTrimHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.sessionFromRequest(w, r)
	if !ok {
		return
	}

	if err := s.BeginExport(); err != nil {
		WriteError(w, http.StatusConflict, err.Error(), "EXPORT_IN_FLIGHT")
		return
	}
	defer s.EndExport()

	req, err := s.BuildTrimExport()
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error(), "INVALID_TRIM")
		return
	}

	path, err := app.Backend.TrimVideo(r.Context(), req)
	if err != nil {
		app.Logger.Error("trim export failed", "session_id", s.ID, "error", err)
		WriteError(w, http.StatusBadGateway, "trim export failed", "BACKEND_ERROR")
		return
	}

	app.catalogArtifact(r, "video", path)
	app.Logger.Info("trim exported", "session_id", s.ID, "path", path)
	WriteJSON(w, http.StatusOK, VideoPathResponse{VideoPath: path})
}

func (app *App) ExportSequenceHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := app.sessionFromRequest(w, r)
	if !ok {
		return
	}

	if err := s.BeginExport(); err != nil {
		WriteError(w, http.StatusConflict, err.Error(), "EXPORT_IN_FLIGHT")
		return
	}
	defer s.EndExport()

	req, err := s.BuildSequenceExport()
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error(), "NOTHING_TO_EXPORT")
		return
	}

	path, err := app.Backend.ExportSequence(r.Context(), req)
	if err != nil {
		app.Logger.Error("sequence export failed", "session_id", s.ID, "error", err)
		WriteError(w, http.StatusBadGateway, "sequence export failed", "BACKEND_ERROR")
		return
	}

	app.catalogArtifact(r, "video", path)
	app.Logger.Info("sequence exported", "session_id", s.ID, "scenes", len(req.Scenes), "path", path)
	WriteJSON(w, http.StatusOK, VideoPathResponse{VideoPath: path})
}

func (app *App) GenerateImageHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateImageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Prompt == "" {
		WriteError(w, http.StatusBadRequest, "prompt is required", "BAD_REQUEST")
		return
	}
	if req.Mode == "" {
		req.Mode = "auto"
	}

	path, err := app.Backend.GenerateImage(r.Context(), backend.GenerateImageParams{
		Prompt:       req.Prompt,
		Mode:         req.Mode,
		CurrentImage: req.CurrentImage,
	})
	if err != nil {
		app.Logger.Error("image generation failed", "error", err)
		WriteError(w, http.StatusBadGateway, "image generation failed", "BACKEND_ERROR")
		return
	}

	app.catalogArtifact(r, "image", path)
	app.attachResult(req.SessionID, req.SceneID, timeline.MediaRef{
		Kind:     timeline.MediaImage,
		Path:     path,
		Filename: filepath.Base(path),
	}, 0)

	WriteJSON(w, http.StatusOK, ImagePathResponse{ImagePath: path})
}

func (app *App) GenerateVideoHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateVideoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ImagePath == "" {
		WriteError(w, http.StatusBadRequest, "image_path is required", "BAD_REQUEST")
		return
	}

	path, err := app.Backend.GenerateVideo(r.Context(), req.ImagePath, req.Prompt)
	if err != nil {
		app.Logger.Error("video generation failed", "error", err)
		WriteError(w, http.StatusBadGateway, "video generation failed", "BACKEND_ERROR")
		return
	}

	app.catalogArtifact(r, "video", path)
	// Duration is unknown until the client loads the file; it re-attaches
	// through the media endpoint once metadata arrives.
	app.attachResult(req.SessionID, req.SceneID, timeline.MediaRef{
		Kind:     timeline.MediaVideo,
		Path:     path,
		Filename: filepath.Base(path),
	}, 0)

	WriteJSON(w, http.StatusOK, VideoPathResponse{VideoPath: path})
}

func (app *App) UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize)

	if err := r.ParseMultipartForm(app.MaxUploadSize); err != nil {
		WriteError(w, http.StatusBadRequest, "file too large", "BAD_REQUEST")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "failed to get file", "BAD_REQUEST")
		return
	}
	defer file.Close()

	path, err := app.Backend.UploadImage(r.Context(), header.Filename, file)
	if err != nil {
		app.Logger.Error("image upload failed", "filename", header.Filename, "error", err)
		WriteError(w, http.StatusBadGateway, "image upload failed", "BACKEND_ERROR")
		return
	}

	app.catalogArtifact(r, "image", path)
	app.attachResult(r.FormValue("session_id"), r.FormValue("scene_id"), timeline.MediaRef{
		Kind:     timeline.MediaImage,
		Path:     path,
		Filename: header.Filename,
	}, 0)

	WriteJSON(w, http.StatusOK, ImagePathResponse{ImagePath: path})
}

// catalogArtifact records a backend-produced file in the gallery. Failures
// are logged, not surfaced: the artifact exists on disk regardless.
func (app *App) catalogArtifact(r *http.Request, kind, path string) {
	f := catalog.NewMediaFile(kind, path, filepath.Base(path))
	if err := app.Files.Insert(r.Context(), f); err != nil {
		app.Logger.Warn("failed to catalog file", "path", path, "error", err)
	}
}

// attachResult routes an async backend result to the scene it was requested
// for. Stale or absent session/scene ids are a silent no-op: the file is
// already catalogued, the user has simply moved on.
func (app *App) attachResult(sessionID, sceneID string, media timeline.MediaRef, duration float64) {
	if sessionID == "" || sceneID == "" {
		return
	}
	s, ok := app.Sessions.Get(sessionID)
	if !ok {
		return
	}
	s.Attach(sceneID, media, duration)
}

func (app *App) ListFilesHandler(w http.ResponseWriter, r *http.Request) {
	images, err := app.Files.ListByKind(r.Context(), "image")
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to list files", "INTERNAL_ERROR")
		return
	}
	videos, err := app.Files.ListByKind(r.Context(), "video")
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to list files", "INTERNAL_ERROR")
		return
	}

	resp := FileListResponse{Images: []FileView{}, Videos: []FileView{}}
	for _, f := range images {
		resp.Images = append(resp.Images, FileView{Path: f.Path, Filename: f.Filename})
	}
	for _, f := range videos {
		resp.Videos = append(resp.Videos, FileView{Path: f.Path, Filename: f.Filename})
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (app *App) DeleteFileHandler(w http.ResponseWriter, r *http.Request) {
	var req DeleteFileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Path == "" {
		WriteError(w, http.StatusBadRequest, "path is required", "BAD_REQUEST")
		return
	}

	if err := app.Store.Delete(req.Path); err != nil {
		WriteError(w, http.StatusNotFound, "file not found", "NOT_FOUND")
		return
	}
	if err := app.Files.DeleteByPath(r.Context(), req.Path); err != nil {
		app.Logger.Warn("failed to remove catalog entry", "path", req.Path, "error", err)
	}

	cleared := app.Sessions.ClearMedia(req.Path)
	app.Logger.Info("file deleted", "path", req.Path, "cleared_scenes", cleared)
	WriteJSON(w, http.StatusOK, DeleteFileResponse{Deleted: req.Path, ClearedScenes: cleared})
}

func (app *App) MediaHandler(w http.ResponseWriter, r *http.Request) {
	refPath := "/" + chi.URLParam(r, "*")

	file, err := app.Store.Open(refPath)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer file.Close()

	stat, err := file.(interface{ Stat() (os.FileInfo, error) }).Stat()
	if err != nil {
		http.Error(w, "Error accessing media file", http.StatusInternalServerError)
		return
	}

	if ctype := mime.TypeByExtension(filepath.Ext(refPath)); ctype != "" {
		w.Header().Set("Content-Type", ctype)
	}

	// ServeContent handles Range requests, which video playback relies on.
	http.ServeContent(w, r, filepath.Base(refPath), stat.ModTime(), file)
}
