package endpoint

import (
	"fmt"
	"net/http"

	_ "github.com/ariebrainware/patient-registry/docs"
	"github.com/ariebrainware/patient-registry/middleware"
	"github.com/ariebrainware/patient-registry/registry"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	AppName     string
	CORSOrigins []string
	AuthLimit   middleware.RateLimitConfig
}

// NewRouter registers every route of the registry API on a new engine.
func NewRouter(ws *registry.Workspace, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORSMiddleware(opts.CORSOrigins))
	router.Use(middleware.WorkspaceMiddleware(ws))
	router.Use(middleware.EndpointCallLogger())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", opts.AppName),
		})
	})

	limited := middleware.RateLimiter(opts.AuthLimit)
	router.POST("/signup", limited, Signup)
	router.POST("/login", limited, Login)
	router.DELETE("/logout", Logout)
	router.GET("/session", GetSession)

	patient := router.Group("/patient")
	{
		patient.GET("", ListPatients)
		patient.POST("", CreatePatient)
		patient.GET("/search", SearchPatients)
		patient.GET("/age", GetPatientAge)
		patient.POST("/clear", ClearPatientForm)
		patient.DELETE("/:id", DeletePatient)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return router
}
