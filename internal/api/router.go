package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", PingHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", app.CreateSessionHandler)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/scenes", app.ScenesHandler)
			r.Post("/scenes", app.AddSceneHandler)
			r.Post("/scenes/{sceneID}/select", app.SelectSceneHandler)
			r.Post("/scenes/{sceneID}/media", app.AttachMediaHandler)

			r.Post("/trim/press", app.TrimPressHandler)
			r.Post("/trim/move", app.TrimMoveHandler)
			r.Post("/trim/release", app.TrimReleaseHandler)
			r.Post("/trim/tap", app.TrimTapHandler)
			r.Post("/trim/reset", app.TrimResetHandler)

			r.Get("/playlist", app.PlaylistHandler)
			r.Get("/preview", app.PreviewStatusHandler)
			r.Post("/preview/start", app.PreviewStartHandler)
			r.Post("/preview/position", app.PreviewPositionHandler)
			r.Post("/preview/step", app.PreviewStepHandler)
			r.Post("/preview/stop", app.PreviewStopHandler)

			r.Post("/export/trim", app.ExportTrimHandler)
			r.Post("/export/sequence", app.ExportSequenceHandler)
		})

		r.Post("/generate/image", app.GenerateImageHandler)
		r.Post("/generate/video", app.GenerateVideoHandler)
		r.Post("/upload/image", app.UploadImageHandler)

		r.Get("/files", app.ListFilesHandler)
		r.Post("/files/delete", app.DeleteFileHandler)
	})

	r.Get("/media/*", app.MediaHandler)

	return r
}
