package server

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/fuzumoe/sitescope-api/internal/middleware"

	_ "github.com/fuzumoe/sitescope-api/docs"
)

// RouteRegistrar defines anything that can wire its routes into a Gin group.
type RouteRegistrar interface {
	// RegisterRoutes should add one or more routes on the provided router group.
	RegisterRoutes(rg *gin.RouterGroup)
}

// Options configures the global middleware of the router.
type Options struct {
	CORSOrigins []string
	Logger      logrus.FieldLogger
}

// RegisterRoutes wires the root registrars (health) and the /api/v1 registrars.
func RegisterRoutes(r *gin.Engine, opts Options, rootRegs []RouteRegistrar, apiRegs []RouteRegistrar) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	r.Use(middleware.RequestLogger(log), gin.Recovery(), middleware.CORS(opts.CORSOrigins))

	root := r.Group("")
	for _, reg := range rootRegs {
		reg.RegisterRoutes(root)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	for _, reg := range apiRegs {
		reg.RegisterRoutes(api)
	}
}
