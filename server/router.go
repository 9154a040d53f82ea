package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/chatx/errors"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" || s.Config.Env == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()

	// LoggerWithFormatter middleware will write the logs to gin.DefaultWriter
	// By default gin.DefaultWriter = os.Stdout
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())
	r.Use(cors.New(s.corsConfig()))
	r.MaxMultipartMemory = 32 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) corsConfig() cors.Config {
	conf := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins := strings.TrimSpace(s.Config.AccessControlAllowOrigin); origins != "" && origins != "*" {
		conf.AllowOrigins = strings.Split(origins, ",")
	} else {
		// Credentials cannot be combined with a wildcard origin.
		conf.AllowAllOrigins = true
		conf.AllowCredentials = false
	}
	return conf
}

func (s *Server) searchRateLimit() gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: s.Config.SearchRateLimit,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errs.ErrorHandler,
		KeyFunc:      rateLimitKey,
	})
}

func (s *Server) defineRoutes(router *gin.Engine) {
	if !s.Config.UsesS3() && s.Config.UploadDir != "" {
		router.Static(UploadsPath, s.Config.UploadDir)
	}

	apirouter := router.Group("/api/v1")
	apirouter.GET("/health", s.handleHealth())
	apirouter.POST("/auth/signup", s.handleSignup())
	apirouter.POST("/auth/login", s.handleLogin())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize(), s.requestTimeout())

	searchLimited := authorized.Group("/")
	if s.Config.SearchRateLimit > 0 {
		searchLimited.Use(s.searchRateLimit())
	}
	searchLimited.POST("/chat/search", s.handleSearchChats())
	searchLimited.POST("/user/search", s.handleSearchUsers())

	authorized.GET("/me", s.handleShowProfile())
	authorized.POST("/chat/add", s.handleCreatePrivateChat())
	authorized.GET("/chat/inbox", s.handleGetInbox())
	authorized.GET("/chat/ids", s.handleGetMemberChatIDs())
	authorized.PUT("/chat/unseen/reset", s.handleResetUnseen())
	authorized.POST("/chat/message", s.handleSendMessage())

	authorized.POST("/group/add", s.handleCreateGroup())
	authorized.PUT("/group/update", s.handleUpdateGroup())
	authorized.PUT("/group/picture", s.handleUpdateGroupPicture())
	authorized.POST("/group/members", s.handleGetGroupMembers())
	authorized.POST("/group/info", s.handleGetGroupInfo())
}
