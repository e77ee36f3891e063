package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/outlndrr-pr/pixel-wars/internal/game"
	"github.com/outlndrr-pr/pixel-wars/internal/storage"
)

func SetupRouter(b *Broadcaster, g *game.Game, st *storage.Store) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := r.Group("/api")
	api.GET("/canvas", canvasHandler(g))
	api.GET("/teams", teamsHandler)
	api.GET("/stats", statsHandler(g))
	api.GET("/events", eventsHandler(g))
	api.GET("/users/:id", userHandler(g))

	r.GET("/ws", HandleWebsocket(b, g, st))

	return r
}

func canvasHandler(g *game.Game) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"width":  game.GridWidth,
			"height": game.GridHeight,
			"pixels": g.CanvasSnapshot(),
		})
	}
}

func teamsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"teams": game.Teams})
}

func statsHandler(g *game.Game) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, g.Stats())
	}
}

func eventsHandler(g *game.Game) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"events": g.Events.Events()})
	}
}

func userHandler(g *game.Game) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := g.UserState(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		bomb, shield := g.PowerUpCooldowns(u.ID)
		c.JSON(http.StatusOK, gin.H{
			"user":              u,
			"cooldownMs":        g.CooldownRemaining(u.ID).Milliseconds(),
			"colorBombMs":       bomb.Milliseconds(),
			"territoryShieldMs": shield.Milliseconds(),
		})
	}
}
