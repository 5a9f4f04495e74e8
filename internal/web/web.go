// Package web serves the transforms over HTTP for browser front ends.
//
// Routes:
//
//	POST /upload               multipart field "image", stored in the upload folder
//	POST /process              {"process_type": ..., "image_path": ...}
//	GET  /download/:filename   processed file as an attachment
//	GET  /transforms           identifiers with descriptions
//	GET  /static/uploads/*     uploaded files
//	GET  /static/processed/*   processed files
//
// Errors are JSON objects of the form {"error": "..."}.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/ironsheep/image-filters-mcp/internal/dispatch"
	"github.com/ironsheep/image-filters-mcp/internal/processor"
	"github.com/ironsheep/image-filters-mcp/internal/storage"
)

// URL prefixes under which the two folders are served. Paths returned by
// /upload and /process use them.
const (
	UploadsURL   = "/static/uploads"
	ProcessedURL = "/static/processed"
)

// Server is the HTTP front end.
type Server struct {
	echo      *echo.Echo
	proc      *processor.Processor
	store     *storage.Store
	maxUpload int64
	log       zerolog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

type uploadResponse struct {
	FilePath string `json:"file_path"`
}

type processRequest struct {
	ProcessType string `json:"process_type"`
	ImagePath   string `json:"image_path"`
}

type processResponse struct {
	ProcessedImagePath string `json:"processed_image_path"`
}

type transformInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// New builds the routes. Uploads larger than maxUploadBytes are rejected.
func New(proc *processor.Processor, store *storage.Store, maxUploadBytes int64, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		proc:      proc,
		store:     store,
		maxUpload: maxUploadBytes,
		log:       log.With().Str("component", "web").Logger(),
	}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := s.log.Info()
			if v.Error != nil {
				ev = s.log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	e.POST("/upload", s.upload)
	e.POST("/process", s.process)
	e.GET("/download/:filename", s.download)
	e.GET("/transforms", s.transforms)
	e.Static(UploadsURL, store.UploadDir())
	e.Static(ProcessedURL, store.ProcessedDir())

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Msg("http server started")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) upload(c echo.Context) error {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, s.maxUpload)

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "upload exceeds limit")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "no image in request")
	}
	if fh.Filename == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no file selected")
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	path, err := s.store.SaveUpload(fh.Filename, f)
	if err != nil {
		return err
	}
	s.proc.Cache().Evict(path)

	s.log.Debug().Str("path", path).Int64("bytes", fh.Size).Msg("upload stored")
	return c.JSON(http.StatusOK, uploadResponse{FilePath: urlFor(UploadsURL, path)})
}

func (s *Server) process(c echo.Context) error {
	var body processRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	if _, err := dispatch.Parse(body.ProcessType); err != nil {
		return err
	}
	if strings.TrimSpace(body.ImagePath) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "image_path is required")
	}

	in, err := s.resolveInput(body.ImagePath)
	if err != nil {
		return err
	}
	out, err := s.store.ProcessedPath(in)
	if err != nil {
		return err
	}

	res, err := s.proc.Process(processor.Request{InputPath: in, OutputPath: out, Transform: body.ProcessType})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, processResponse{ProcessedImagePath: urlFor(ProcessedURL, res.OutputPath)})
}

func (s *Server) download(c echo.Context) error {
	path, err := s.store.DownloadPath(c.Param("filename"))
	if err != nil {
		return err
	}
	return c.Attachment(path, filepath.Base(path))
}

func (s *Server) transforms(c echo.Context) error {
	ids := dispatch.Identifiers()
	out := make([]transformInfo, 0, len(ids))
	for _, id := range ids {
		out = append(out, transformInfo{Name: string(id), Description: dispatch.Describe(id)})
	}
	return c.JSON(http.StatusOK, out)
}

// resolveInput maps an image_path from a client to a file. Paths under the
// processed prefix refer to earlier results, so transforms can be chained;
// anything else is looked up in the upload folder.
func (s *Server) resolveInput(imagePath string) (string, error) {
	if strings.HasPrefix(imagePath, ProcessedURL+"/") {
		return s.store.DownloadPath(imagePath)
	}
	return s.store.UploadPath(imagePath)
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, msg := statusOf(err)
	if code >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, errorResponse{Error: msg})
	}
	if err != nil {
		s.log.Error().Err(err).Msg("failed to write error response")
	}
}

func statusOf(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code, fmt.Sprint(he.Message)
	case errors.Is(err, dispatch.ErrUnknownTransform), errors.Is(err, storage.ErrInvalidName):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func urlFor(prefix, path string) string {
	return prefix + "/" + filepath.Base(path)
}

// shutdownTimeout bounds graceful shutdown in Run.
const shutdownTimeout = 5 * time.Second

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() { errc <- s.Start(addr) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errc
}
