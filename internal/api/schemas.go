package api

import (
	"encoding/json"
	"net/http"

	"github.com/mkorchagin/scenecut/internal/session"
	"github.com/mkorchagin/scenecut/internal/timeline"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type MediaView struct {
	Kind     string `json:"kind"`
	Path     string `json:"path"`
	Filename string `json:"filename,omitempty"`
}

type TrimView struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

type SceneView struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Media *MediaView `json:"media"`
	Trim  TrimView   `json:"trim"`
}

type SessionResponse struct {
	SessionID     string      `json:"session_id"`
	Scenes        []SceneView `json:"scenes"`
	ActiveSceneID string      `json:"active_scene_id"`
}

type AddSceneRequest struct {
	Title string `json:"title"`
}

type AttachMediaRequest struct {
	Kind            string  `json:"kind"`
	Path            string  `json:"path"`
	Filename        string  `json:"filename"`
	DurationSeconds float64 `json:"duration_seconds"`
}

type TrimPressRequest struct {
	Handle string `json:"handle"` // "start" or "end"
}

type TrimMoveRequest struct {
	Position float64 `json:"position"` // normalized 0..1
}

type TrimUpdateResponse struct {
	Handle     string              `json:"handle"`
	Start      float64             `json:"start"`
	End        float64             `json:"end"`
	Seek       float64             `json:"seek"`
	Directives []session.Directive `json:"directives"`
}

type TrimResetResponse struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

type PlaylistItemView struct {
	MediaPath    string  `json:"media_path"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
	Title        string  `json:"title"`
}

type PlaylistResponse struct {
	Items []PlaylistItemView `json:"items"`
}

type PreviewResponse struct {
	Playing    bool                `json:"playing"`
	Index      int                 `json:"index"`
	Done       bool                `json:"done"`
	Directives []session.Directive `json:"directives,omitempty"`
}

type PositionReportRequest struct {
	Position float64 `json:"position"`
	Playing  bool    `json:"playing"`
	Ended    bool    `json:"ended"`
}

type PreviewStepRequest struct {
	Delta int `json:"delta"`
}

type GenerateImageRequest struct {
	SessionID    string `json:"session_id"`
	SceneID      string `json:"scene_id"`
	Prompt       string `json:"prompt"`
	Mode         string `json:"mode"`
	CurrentImage string `json:"current_image"`
}

type GenerateVideoRequest struct {
	SessionID string `json:"session_id"`
	SceneID   string `json:"scene_id"`
	ImagePath string `json:"image_path"`
	Prompt    string `json:"prompt"`
}

type ImagePathResponse struct {
	ImagePath string `json:"image_path"`
}

type VideoPathResponse struct {
	VideoPath string `json:"video_path"`
}

type FileView struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
}

type FileListResponse struct {
	Images []FileView `json:"images"`
	Videos []FileView `json:"videos"`
}

type DeleteFileRequest struct {
	Path string `json:"path"`
}

type DeleteFileResponse struct {
	Deleted       string `json:"deleted"`
	ClearedScenes int    `json:"cleared_scenes"`
}

func sceneViews(scenes []timeline.Scene) []SceneView {
	views := make([]SceneView, len(scenes))
	for i, sc := range scenes {
		v := SceneView{
			ID:    sc.ID,
			Title: sc.Title,
			Trim: TrimView{
				Start:    sc.Trim.Start,
				End:      sc.Trim.End,
				Duration: sc.Trim.Duration,
			},
		}
		if sc.Media != nil {
			v.Media = &MediaView{
				Kind:     string(sc.Media.Kind),
				Path:     sc.Media.Path,
				Filename: sc.Media.Filename,
			}
		}
		views[i] = v
	}
	return views
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, status int, message, code string) {
	WriteJSON(w, status, ErrorResponse{Error: message, Code: code})
}
