package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/masjidtech/minaret/internal/clock"
	"github.com/masjidtech/minaret/internal/content"
	"github.com/masjidtech/minaret/internal/engine"
	"github.com/masjidtech/minaret/internal/prayer"
)

// Deps carries everything the control endpoints operate on.
type Deps struct {
	Director  *engine.Director
	Registry  *prayer.Registry
	Basis     *clock.Basis
	Refresher *content.Refresher
	JWTSecret string
}

// NewRouter builds the gin engine with public read endpoints and
// JWT-protected control endpoints.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		AllowCredentials: false,
	}))

	h := &handler{deps: deps}

	pub := r.Group("/api")
	pub.GET("/status", h.status)
	pub.GET("/rules", h.rules)
	pub.GET("/prayer-times", h.prayerTimes)

	ctl := r.Group("/api/control")
	ctl.Use(JWTMiddleware(deps.JWTSecret))
	ctl.POST("/simulate", h.simulate)
	ctl.POST("/refresh", h.refresh)

	return r
}
