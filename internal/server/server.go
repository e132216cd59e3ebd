package server

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"net/http/pprof"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/waview/waview/internal/analyzer"
	"github.com/waview/waview/internal/parser"
	"github.com/waview/waview/internal/session"
	"github.com/waview/waview/internal/version"
)

//go:embed all:web
var webFS embed.FS

// maxUploadBytes caps a chat export upload. A single exported
// conversation is a few megabytes at most.
const maxUploadBytes = 16 << 20

// Server holds the Gin engine and dependencies for the web dashboard.
type Server struct {
	engine  *gin.Engine
	http    *http.Server
	session *session.Holder
	log     zerolog.Logger
}

// New creates the dashboard server.
func New(holder *session.Holder, port string, log zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.MaxMultipartMemory = maxUploadBytes

	// Disable automatic redirects that cause 301 issues.
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	s := &Server{
		engine:  engine,
		http:    &http.Server{Addr: ":" + port, Handler: engine},
		session: holder,
		log:     log,
	}

	s.setupRoutes()
	return s
}

// serveEmbedded reads a file from the embedded FS and writes it with the given content type.
func serveEmbedded(webContent fs.FS, name string, contentType string) gin.HandlerFunc {
	// Pre-read the file at startup so we don't read on every request.
	data, err := fs.ReadFile(webContent, name)
	return func(c *gin.Context) {
		if err != nil {
			c.String(http.StatusNotFound, "file not found: %s", name)
			return
		}
		c.Data(http.StatusOK, contentType, data)
	}
}

func (s *Server) setupRoutes() {
	webContent, _ := fs.Sub(webFS, "web")

	// Dashboard — serve embedded files directly with correct content types.
	s.engine.GET("/", serveEmbedded(webContent, "index.html", "text/html; charset=utf-8"))
	s.engine.GET("/style.css", serveEmbedded(webContent, "style.css", "text/css; charset=utf-8"))
	s.engine.GET("/app.js", serveEmbedded(webContent, "app.js", "application/javascript; charset=utf-8"))

	s.engine.GET("/healthz", s.handleHealth)

	s.engine.POST("/api/upload", s.handleUpload)
	s.engine.GET("/api/report", s.handleReport)
	s.engine.GET("/api/messages/latest", s.handleLatest)

	s.engine.GET("/ws", s.handleWebSocket)

	// pprof profiling endpoints.
	s.engine.GET("/debug/pprof/", gin.WrapF(pprof.Index))
	s.engine.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
	s.engine.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
	s.engine.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
	s.engine.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
	s.engine.GET("/debug/pprof/allocs", gin.WrapH(pprof.Handler("allocs")))
	s.engine.GET("/debug/pprof/heap", gin.WrapH(pprof.Handler("heap")))
	s.engine.GET("/debug/pprof/goroutine", gin.WrapH(pprof.Handler("goroutine")))
}

func (s *Server) handleHealth(c *gin.Context) {
	status := gin.H{
		"status":  "ok",
		"version": version.Get().Version,
	}
	if report := s.session.Report(); report != nil {
		status["messages"] = report.Overview.TotalMessages
	}
	c.JSON(http.StatusOK, status)
}

// handleUpload ingests a chat export, replaces the current session and
// returns the fresh report.
func (s *Server) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}
	defer f.Close()

	chat, err := parser.Parse(f, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, parser.ErrNoMessages) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unrecognized file format"})
			return
		}
		s.log.Error().Err(err).Str("file", fileHeader.Filename).Msg("upload parse failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "parse failed"})
		return
	}

	report := analyzer.Analyze(chat)
	s.session.Set(chat, report)

	s.log.Info().
		Str("file", fileHeader.Filename).
		Int("messages", report.Overview.TotalMessages).
		Int("participants", report.Overview.Participants).
		Msg("chat analyzed")

	c.JSON(http.StatusOK, report)
}

func (s *Server) handleReport(c *gin.Context) {
	report := s.session.Report()
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no chat uploaded yet"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleLatest(c *gin.Context) {
	chat := s.session.Chat()
	if chat == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no chat uploaded yet"})
		return
	}

	n := analyzer.DefaultLatest
	if v := c.Query("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "n must be between 1 and 100"})
			return
		}
		n = parsed
	}

	c.JSON(http.StatusOK, gin.H{"messages": analyzer.LatestMessages(chat, n)})
}

// Handler exposes the route tree, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start runs the server. Blocks until Shutdown is called or the
// listener fails.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("dashboard listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting new connections and drains in-flight
// requests before returning.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
