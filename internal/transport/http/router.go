package http

import (
	"net/http"
	"time"

	"arith-recall/internal/app"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the leaderboard API, the health probe and the game websocket.
func NewRouter(service *app.GameService) http.Handler {
	ws := NewWSHandler(service)
	lb := &leaderboardHandler{service: service}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/leaderboard", lb.list)
		r.Post("/leaderboard", lb.add)
	})
	r.Get("/ws", ws.ServeWS)
	return r
}

// requestLogger logs every request with its status and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		requestLog(r).WithFields(logrus.Fields{
			"status":   ww.Status(),
			"bytes":    ww.BytesWritten(),
			"duration": time.Since(start).String(),
		}).Info("request completed")
	})
}

func requestLog(r *http.Request) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"component":  "http",
		"request_id": middleware.GetReqID(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
	})
}
