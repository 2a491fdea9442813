// Package admin is the read-only ops surface for the control server:
// liveness, status and metrics over HTTP. It observes the core through
// snapshot accessors only and never mutates world state.
package admin

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/voidwell/scenectl/internal/dispatch"
	"github.com/voidwell/scenectl/internal/observability"
	"github.com/voidwell/scenectl/internal/server"
)

type Surface struct {
	name    string
	addr    string
	ctrl    *server.Server
	reg     *dispatch.Registry
	router  *gin.Engine
	started time.Time
}

func New(name, addr string, corsOrigins []string, ctrl *server.Server, reg *dispatch.Registry) *Surface {
	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Surface{
		name:    name,
		addr:    addr,
		ctrl:    ctrl,
		reg:     reg,
		router:  r,
		started: time.Now(),
	}
	s.registerRoutes()
	return s
}

func (s *Surface) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"name":   s.name,
			"uptime": time.Since(s.started).String(),
		})
	})

	s.router.GET("/status", func(c *gin.Context) {
		st := s.ctrl.Status()
		c.JSON(http.StatusOK, gin.H{
			"name":        s.name,
			"listening":   st.Listening,
			"port":        st.Port,
			"connections": st.Connections,
			"ticks":       st.Ticks,
			"intents":     s.reg.Intents(),
		})
	})

	s.router.GET("/intents", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"intents": s.reg.Intents()})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Router exposes the engine for tests.
func (s *Surface) Router() *gin.Engine { return s.router }

// Serve blocks on the admin listener. Run it on its own goroutine; the
// surface only reads atomically-published core state.
func (s *Surface) Serve() error {
	return s.router.Run(s.addr)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
