// Package stubapi is a stand-in for the remote data-collection API. It
// implements the request/response contract the client layer consumes, backed
// by an in-memory dataset, so the client can be exercised in tests and the
// front-end developed without the real backend.
package stubapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

type (
	Options struct {
		Addr           string
		SecretKey      []byte
		DisableReqLogs bool
		// SeedStudents populates a handful of student records so teacher
		// queries and exports have something to chew on.
		SeedStudents bool
	}

	Server interface {
		http.Handler
		Start()
		Stop(ctx context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
		data *dataset
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
		data: newDataset(),
	}
	if opts.SeedStudents {
		s.data.seed()
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	s.app.HideBanner = true

	v1 := s.app.Group("/v1")
	v1.POST("/auth/signup", s.signup)
	v1.POST("/auth/login", s.login)

	jwt := middleware.JWTWithConfig(jwtConfig(s.opts.SecretKey))
	authed := v1.Group("", jwt)
	authed.POST("/auth/logout", s.logout)
	authed.POST("/auth/change-password", s.changePassword)

	authed.GET("/students/me", s.getOwnProfile)
	authed.POST("/students/me", s.upsertOwnProfile)
	authed.PUT("/students/me/unflag-field", s.unflagOwnField)
	authed.PUT("/students/:id/flag-field", s.flagStudentField, s.requireTeacher)

	authed.POST("/chat/query", s.chatQuery, s.requireTeacher)
	authed.GET("/chat/recent", s.chatRecent, s.requireTeacher)

	authed.POST("/export/csv", s.exportCSV, s.requireTeacher)
	authed.GET("/export/download/:name", s.downloadArtifact, s.requireTeacher)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Addr))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
