// Package server exposes the prompt store over HTTP. It is a thin
// translation layer: every handler calls exactly one store operation and
// maps the typed storage errors onto status codes (not found 404, conflict
// 409, validation 422, IO 500). No storage logic lives here.
package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/entrhq/butler/pkg/logging"
	"github.com/entrhq/butler/pkg/prompt"
	"github.com/entrhq/butler/pkg/store"
)

// Server wires the storage engine to a gin router.
type Server struct {
	store  *store.Store
	log    *logging.Logger
	engine *gin.Engine
}

// New builds a server around an injected store instance.
func New(st *store.Store, logger *logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{store: st, log: logger, engine: engine}
	s.registerRoutes()
	return s
}

// Handler returns the router for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Infof("serving prompt API on %s (root %s)", addr, s.store.Root())
	return s.engine.Run(addr)
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/prompts", s.listPrompts)
		api.POST("/prompts", s.createPrompt)
		api.GET("/prompts/search", s.searchPrompts)
		api.GET("/prompts/:name", s.getPrompt)
		api.PUT("/prompts/:name", s.updatePrompt)
		api.DELETE("/prompts/:name", s.deletePrompt)

		api.GET("/groups", s.listGroups)
		api.POST("/groups", s.createGroup)
		api.POST("/groups/rename", s.renameGroup)

		api.GET("/tags", s.listTags)
		api.POST("/tags/rename", s.renameTag)
	}
}

// abortWithError translates a storage error into an HTTP response.
func (s *Server) abortWithError(c *gin.Context, err error) {
	var verr *prompt.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrTagNotFound),
		errors.Is(err, store.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.Is(err, store.ErrAlreadyExists),
		errors.Is(err, store.ErrGroupConflict):
		c.JSON(http.StatusConflict, gin.H{"detail": err.Error()})
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
	default:
		s.log.Errorf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal storage error"})
	}
}

func (s *Server) listPrompts(c *gin.Context) {
	var opts store.ListOptions
	if group, ok := c.GetQuery("group"); ok {
		opts.Group = prompt.Set(group)
	}
	opts.Tag = c.Query("tag")

	prompts, err := s.store.List(opts)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, prompts)
}

func (s *Server) createPrompt(c *gin.Context) {
	var p prompt.Prompt
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if err := s.store.Create(&p); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) getPrompt(c *gin.Context) {
	name := c.Param("name")
	group, ok := c.GetQuery("group")

	var (
		p   *prompt.Prompt
		err error
	)
	if ok {
		p, err = s.store.Get(name, group)
	} else {
		p, err = s.store.Lookup(name)
	}
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// updateRequest maps JSON field presence onto the tri-state patch: an
// absent key leaves the stored value unchanged, an explicit empty value
// clears it.
type updateRequest struct {
	Name         *string   `json:"name"`
	Description  *string   `json:"description"`
	SystemPrompt *string   `json:"system_prompt"`
	UserPrompt   *string   `json:"user_prompt"`
	Group        *string   `json:"group"`
	Tags         *[]string `json:"tags"`
}

func (r updateRequest) patch() prompt.Patch {
	var p prompt.Patch
	if r.Name != nil {
		p.Name = prompt.Set(*r.Name)
	}
	if r.Description != nil {
		p.Description = prompt.Set(*r.Description)
	}
	if r.SystemPrompt != nil {
		p.SystemPrompt = prompt.Set(*r.SystemPrompt)
	}
	if r.UserPrompt != nil {
		p.UserPrompt = prompt.Set(*r.UserPrompt)
	}
	if r.Group != nil {
		p.Group = prompt.Set(*r.Group)
	}
	if r.Tags != nil {
		p.Tags = prompt.Set(*r.Tags)
	}
	return p
}

func (s *Server) updatePrompt(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	updated, err := s.store.Update(c.Param("name"), c.Query("group"), req.patch())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deletePrompt(c *gin.Context) {
	if err := s.store.Delete(c.Param("name"), c.Query("group")); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) searchPrompts(c *gin.Context) {
	limit := 0
	if raw, ok := c.GetQuery("limit"); ok {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}
	prompts, err := s.store.Search(c.Query("q"), limit)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, prompts)
}

func (s *Server) listGroups(c *gin.Context) {
	groups, err := s.store.ListGroups(false)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

type createGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *Server) createGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	created, err := s.store.CreateGroup(req.Name)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusConflict, gin.H{"detail": "group already exists"})
		return
	}
	c.Status(http.StatusCreated)
}

type renameGroupRequest struct {
	OldGroup string `json:"old_group" binding:"required"`
	NewGroup string `json:"new_group" binding:"required"`
}

func (s *Server) renameGroup(c *gin.Context) {
	var req renameGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	moved, err := s.store.RenameGroup(req.OldGroup, req.NewGroup)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved_count": moved})
}

func (s *Server) listTags(c *gin.Context) {
	tags, err := s.store.TagCounts()
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

type renameTagRequest struct {
	OldTag string `json:"old_tag" binding:"required"`
	NewTag string `json:"new_tag" binding:"required"`
}

func (s *Server) renameTag(c *gin.Context) {
	var req renameTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	updated, err := s.store.RenameTag(req.OldTag, req.NewTag)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated_count": updated})
}
