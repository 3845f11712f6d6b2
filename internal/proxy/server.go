// Package proxy serves a chat export folder over HTTP so the viewer can load
// it without direct access to the storage behind it.
package proxy

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matheus3301/wppview/internal/logging"
	"github.com/matheus3301/wppview/internal/media"
	"github.com/matheus3301/wppview/internal/remote"
)

// Path is the single endpoint of the proxy.
const Path = "/api/drive"

// Server exposes a Backend on Path.
type Server struct {
	backend Backend
	log     *zap.Logger
	router  *gin.Engine
	srv     *http.Server
	addr    string

	mu      sync.Mutex
	listing *remote.Listing
	byName  map[string]remote.FileRef
}

// NewServer builds the gin engine for backend.
func NewServer(backend Backend, log *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{backend: backend, log: logging.OrNop(log)}

	router := gin.New()
	_ = router.SetTrustedProxies(nil)
	router.Use(s.recovery(), s.accessLog(), cors())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": backend.Name()})
	})
	router.GET(Path, s.handleDrive)
	router.OPTIONS(Path, func(c *gin.Context) { c.Status(http.StatusOK) })
	s.router = router
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on addr and serves in the background. It returns the bound
// address, which differs from addr when the port is 0.
func (s *Server) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}
	s.srv = &http.Server{Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("proxy server stopped", zap.Error(err))
		}
	}()
	s.addr = ln.Addr().String()
	s.log.Info("proxy listening", zap.String("addr", s.addr), zap.String("backend", s.backend.Name()))
	return s.addr, nil
}

// Addr is the bound address once started.
func (s *Server) Addr() string { return s.addr }

// URL is the endpoint clients pass to remote.New once started.
func (s *Server) URL() string { return "http://" + s.addr + Path }

// Stop shuts the server down, waiting at most until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleDrive(c *gin.Context) {
	ctx := c.Request.Context()
	switch action := c.Query("action"); action {
	case remote.ActionList:
		l, err := s.refresh(ctx)
		if err != nil {
			s.fail(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, l)

	case remote.ActionChat:
		l, err := s.cachedListing(ctx)
		if err != nil {
			s.fail(c, http.StatusInternalServerError, err)
			return
		}
		if l.Chat == nil {
			s.fail(c, http.StatusNotFound, errors.New(l.Error))
			return
		}
		s.stream(c, l.Chat.ID, l.Chat.Name, "text/plain; charset=utf-8")

	case remote.ActionMedia:
		name := c.Query("fileName")
		if name == "" {
			s.fail(c, http.StatusBadRequest, errors.New("fileName is required"))
			return
		}
		f, ok, err := s.lookup(ctx, name)
		if err != nil {
			s.fail(c, http.StatusInternalServerError, err)
			return
		}
		if !ok {
			s.fail(c, http.StatusNotFound, ErrNotFound)
			return
		}
		s.stream(c, f.ID, f.Name, "")

	case remote.ActionFile:
		id := c.Query("fileId")
		if id == "" {
			s.fail(c, http.StatusBadRequest, errors.New("fileId is required"))
			return
		}
		s.stream(c, id, id, "application/octet-stream")

	case "":
		s.fail(c, http.StatusBadRequest, errors.New("action is required"))
	default:
		s.fail(c, http.StatusBadRequest, errors.New("unknown action "+strconv.Quote(action)))
	}
}

func (s *Server) stream(c *gin.Context, id, name, contentType string) {
	rc, err := s.backend.Open(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		s.fail(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	defer func() { _ = rc.Close() }()
	if contentType == "" {
		contentType = media.LookupExt(name).MIME
	}
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "private, max-age=3600")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		s.log.Warn("stream interrupted", zap.String("file", name), zap.Error(err))
	}
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("proxy request failed", zap.String("query", c.Request.URL.RawQuery), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// refresh lists the backend folder and remembers the result.
func (s *Server) refresh(ctx context.Context) (*remote.Listing, error) {
	files, err := s.backend.Files(ctx)
	if err != nil {
		return nil, err
	}
	l := BuildListing(files)
	byName := make(map[string]remote.FileRef, len(files))
	for _, f := range files {
		byName[f.Name] = f
	}
	s.mu.Lock()
	s.listing, s.byName = l, byName
	s.mu.Unlock()
	return l, nil
}

// Invalidate forgets the remembered listing so the next request relists.
func (s *Server) Invalidate() {
	s.mu.Lock()
	s.listing, s.byName = nil, nil
	s.mu.Unlock()
}

func (s *Server) cachedListing(ctx context.Context) (*remote.Listing, error) {
	s.mu.Lock()
	l := s.listing
	s.mu.Unlock()
	if l != nil {
		return l, nil
	}
	return s.refresh(ctx)
}

// lookup resolves a file name, relisting once on a miss.
func (s *Server) lookup(ctx context.Context, name string) (remote.FileRef, bool, error) {
	s.mu.Lock()
	f, ok := s.byName[name]
	s.mu.Unlock()
	if ok {
		return f, true, nil
	}
	if _, err := s.refresh(ctx); err != nil {
		return remote.FileRef{}, false, err
	}
	s.mu.Lock()
	f, ok = s.byName[name]
	s.mu.Unlock()
	return f, ok, nil
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		s.log.Error("panic in handler", zap.Any("panic", err), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("action", c.Query("action")),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
