// Package api serves the admin HTTP surface: health, metrics and read/write
// access to the bot's documents.
package api

import (
	"errors"
	"net/http"
	"time"

	"pung-bot/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Store is what the admin API reads and writes
type Store interface {
	AllKnowledge() store.Knowledge
	SearchKnowledge(query string) []store.SearchResult
	AddKnowledge(category, key string, entry store.Entry, addedBy string) error
	UserMemory(userID string) []string
	ServerMemory(guildID string) []string
	AddServerMemory(guildID, fact string)
	Analytics() store.Analytics
	Community() store.Community
	AddCustomCommand(name, response string)
}

type knowledgeRequest struct {
	Category string      `json:"category" binding:"required"`
	Name     string      `json:"name"`
	Data     store.Entry `json:"data"`
	AddedBy  string      `json:"added_by" binding:"required"`
}

type factRequest struct {
	Fact string `json:"fact" binding:"required"`
}

type commandRequest struct {
	Name     string `json:"name" binding:"required"`
	Response string `json:"response" binding:"required"`
}

// NewRouter builds the admin router
func NewRouter(db Store, log *zap.Logger, production bool) *gin.Engine {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/knowledge", func(c *gin.Context) {
			c.JSON(http.StatusOK, db.AllKnowledge())
		})

		api.GET("/knowledge/search", func(c *gin.Context) {
			q := c.Query("q")
			if q == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
				return
			}
			results := db.SearchKnowledge(q)
			if results == nil {
				results = []store.SearchResult{}
			}
			c.JSON(http.StatusOK, gin.H{"results": results})
		})

		api.POST("/knowledge", func(c *gin.Context) {
			var req knowledgeRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			err := db.AddKnowledge(req.Category, req.Name, req.Data, req.AddedBy)
			if errors.Is(err, store.ErrUnknownCategory) || errors.Is(err, store.ErrKnowledgeKeyRequired) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err != nil {
				log.Error("Failed to add knowledge", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add knowledge"})
				return
			}
			c.JSON(http.StatusCreated, gin.H{"status": "learned"})
		})

		api.GET("/memory/users/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"facts": nonNil(db.UserMemory(c.Param("id")))})
		})

		api.GET("/memory/guilds/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"facts": nonNil(db.ServerMemory(c.Param("id")))})
		})

		api.POST("/memory/guilds/:id", func(c *gin.Context) {
			var req factRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db.AddServerMemory(c.Param("id"), req.Fact)
			c.JSON(http.StatusCreated, gin.H{"status": "remembered"})
		})

		api.GET("/analytics", func(c *gin.Context) {
			c.JSON(http.StatusOK, db.Analytics())
		})

		api.GET("/community", func(c *gin.Context) {
			c.JSON(http.StatusOK, db.Community())
		})

		api.POST("/community/commands", func(c *gin.Context) {
			var req commandRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db.AddCustomCommand(req.Name, req.Response)
			c.JSON(http.StatusCreated, gin.H{"status": "saved"})
		})
	}

	return router
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// ginLogger logs one line per request
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		log.Debug("HTTP Request",
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}
