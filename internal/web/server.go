// Package web serves the cached knowledge graph over HTTP. The API is
// read-only: every response is derived from the cache files on disk,
// so the server stays correct across sync runs without restarts. An
// empty or missing cache serves empty collections, never errors.
package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kataras/golog"

	"github.com/kmitl-it/advisorkg/internal/cache"
	"github.com/kmitl-it/advisorkg/internal/index"
	"github.com/kmitl-it/advisorkg/internal/query"
)

// Server is the read-only HTTP API over a cache store.
type Server struct {
	store  *cache.Store
	idx    *index.DB
	log    *golog.Logger
	engine *gin.Engine
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithIndex attaches a search index; /api/search uses full-text
// matching when one is attached and substring matching otherwise.
func WithIndex(db *index.DB) ServerOption {
	return func(s *Server) {
		s.idx = db
	}
}

// WithLogger sets the logger.
func WithLogger(l *golog.Logger) ServerOption {
	return func(s *Server) {
		s.log = l
	}
}

// NewServer builds the server and its routes.
func NewServer(store *cache.Store, opts ...ServerOption) *Server {
	s := &Server{
		store: store,
		log:   golog.Default,
	}
	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.ReleaseMode)
	s.engine = gin.New()
	s.engine.Use(gin.Recovery())

	s.engine.GET("/health", s.health)

	api := s.engine.Group("/api")
	api.GET("/metadata", s.metadata)
	api.GET("/professors", s.listProfessors)
	api.GET("/professors/:id", s.getProfessor)
	api.GET("/professors/:id/graph", s.getGraph)
	api.GET("/topics", s.listTopics)
	api.GET("/topics/:topic", s.getTopic)
	api.GET("/search", s.search)

	s.engine.GET("/graphs/:id", s.graphPage)

	return s
}

// Handler returns the HTTP handler for mounting or serving.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// snapshot loads the aggregate cache, mapping a missing cache to an
// empty snapshot.
func (s *Server) snapshot() (*cache.Snapshot, error) {
	snap, err := s.store.Load()
	if errors.Is(err, cache.ErrNoCache) {
		return &cache.Snapshot{Professors: nil}, nil
	}
	return snap, err
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data_dir": s.store.DataDir()})
}

func (s *Server) metadata(c *gin.Context) {
	snap, err := s.snapshot()
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap.Metadata)
}

func (s *Server) listProfessors(c *gin.Context) {
	snap, err := s.snapshot()
	if err != nil {
		s.fail(c, err)
		return
	}

	var rows []query.Summary
	if q := c.Query("q"); q != "" {
		rows = query.Search(snap.Professors, q)
	} else {
		rows = query.Summaries(snap.Professors)
	}
	if sortBy := c.Query("sort"); sortBy != "" {
		rows = query.Rank(rows, sortBy)
	}

	c.JSON(http.StatusOK, gin.H{
		"total": len(rows),
		"items": emptySummaries(rows),
	})
}

func (s *Server) getProfessor(c *gin.Context) {
	snap, err := s.snapshot()
	if err != nil {
		s.fail(c, err)
		return
	}

	id := c.Param("id")
	rec, ok := snap.Professors[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "professor not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) getGraph(c *gin.Context) {
	doc, err := s.store.ReadArtifact(c.Param("id"))
	if errors.Is(err, cache.ErrNoCache) {
		c.JSON(http.StatusNotFound, gin.H{"error": "graph not found"})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) listTopics(c *gin.Context) {
	snap, err := s.snapshot()
	if err != nil {
		s.fail(c, err)
		return
	}

	idx := query.BuildTopicIndex(snap.Professors)
	topics := make([]gin.H, 0, len(idx))
	for _, label := range idx.Topics() {
		topics = append(topics, gin.H{
			"topic":           label,
			"professor_count": len(idx[label]),
		})
	}
	c.JSON(http.StatusOK, gin.H{"total": len(topics), "items": topics})
}

func (s *Server) getTopic(c *gin.Context) {
	snap, err := s.snapshot()
	if err != nil {
		s.fail(c, err)
		return
	}

	topic := c.Param("topic")
	idx := query.BuildTopicIndex(snap.Professors)
	rows, ok := idx[topic]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "topic not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"topic": topic, "professors": rows})
}

func (s *Server) search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	limit := parseInt(c.Query("limit"), 20)

	if s.idx != nil && q != "" {
		entries, err := s.idx.Search(q, limit)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"total": len(entries), "items": emptyEntries(entries)})
		return
	}

	snap, err := s.snapshot()
	if err != nil {
		s.fail(c, err)
		return
	}
	rows := query.Search(snap.Professors, q)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	c.JSON(http.StatusOK, gin.H{"total": len(rows), "items": emptySummaries(rows)})
}

func (s *Server) graphPage(c *gin.Context) {
	page, err := s.store.ReadArtifactHTML(c.Param("id"))
	if errors.Is(err, cache.ErrNoCache) {
		c.JSON(http.StatusNotFound, gin.H{"error": "graph not found"})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) fail(c *gin.Context, err error) {
	s.log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// emptySummaries keeps JSON output as [] instead of null.
func emptySummaries(rows []query.Summary) []query.Summary {
	if rows == nil {
		return []query.Summary{}
	}
	return rows
}

func emptyEntries(entries []index.Entry) []index.Entry {
	if entries == nil {
		return []index.Entry{}
	}
	return entries
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
