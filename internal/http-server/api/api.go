package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"survilav/internal/config"
	"survilav/internal/http-server/handlers/errors"
	"survilav/internal/http-server/handlers/invite"
	"survilav/internal/http-server/handlers/ping"
	"survilav/internal/http-server/handlers/request"
	"survilav/internal/http-server/middleware/adminauth"
	"survilav/internal/http-server/middleware/identity"
	"survilav/internal/http-server/middleware/timeout"
	"survilav/lib/sl"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	adminauth.Auth
	request.Core
	invite.Core
}

// Router wires the full HTTP surface. Split out of New so tests can
// mount it on httptest.
func Router(log *slog.Logger, handler Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(timeout.Timeout(5))
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Route("/api", func(rootApi chi.Router) {
		rootApi.Get("/ping", ping.Ping(log))

		rootApi.Group(func(public chi.Router) {
			public.Use(identity.New())
			public.Post("/request", request.Submit(log, handler))
			public.Post("/cancel", request.Cancel(log, handler))
			public.Get("/invite/validate", invite.Validate(log, handler))
		})

		rootApi.Group(func(admin chi.Router) {
			admin.Use(adminauth.New(log, handler))
			admin.Post("/invite/create", invite.Create(log, handler))
			admin.Post("/invite/delete", invite.Delete(log, handler))
			admin.Get("/invite/list", invite.List(log, handler))
			admin.Get("/request/list", request.List(log, handler))
		})
	})

	return router
}

func New(conf *config.Config, log *slog.Logger, handler Handler) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := Router(log, handler)

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:      router,
		ErrorLog:     httpLog,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIp, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
