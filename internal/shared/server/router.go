package server

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "essay-backend/docs"
	"essay-backend/internal/feedback"
	"essay-backend/internal/shared/auth"
	"essay-backend/internal/shared/config"
	"essay-backend/internal/shared/metrics"
	"essay-backend/internal/shared/server/middleware"
	"essay-backend/internal/shared/server/respond"
	"essay-backend/internal/users"
)

const defaultClientURL = "http://localhost:5173"

//go:embed index.html
var indexTemplate string

var indexTmpl = template.Must(template.New("index").Parse(indexTemplate))

// RouterDeps holds the handlers mounted by NewRouter.
type RouterDeps struct {
	Config          config.Config
	Signer          *auth.Signer
	FeedbackHandler *feedback.Handler
	UserHandler     *users.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if config.IsDevLike(deps.Config.Env) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if deps.Config.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = deps.Config.MaxUploadBytes
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	index := renderIndex(clientURL(deps.Config.CORSAllowOrigin))
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
	r.GET("/metrics", metrics.Handler())

	root := r.Group("")
	if deps.FeedbackHandler != nil {
		deps.FeedbackHandler.RegisterRoutes(root)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterPublicRoutes(root)
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if deps.UserHandler != nil && deps.Signer != nil {
		authed := api.Group("", middleware.Auth(deps.Signer))
		deps.UserHandler.RegisterRoutes(authed)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	return r
}

func clientURL(origins []string) string {
	if len(origins) == 0 {
		return defaultClientURL
	}
	return origins[0]
}

func renderIndex(client string) []byte {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, struct{ ClientURL string }{ClientURL: client}); err != nil {
		return []byte("<!DOCTYPE html><html><body><h1>Essay Feedback API</h1></body></html>")
	}
	return buf.Bytes()
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":3000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
