package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, s *Server) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/pieces", s.piecesHandler)
		api.GET("/qr/:piece", s.qrHandler)
		api.GET("/sheet", s.sheetHandler)
		api.GET("/urls", s.urlsHandler)
	}
}

// NewEngine returns a gin engine with the API routes registered.
func NewEngine(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s))
	RegisterRoutes(r, s)
	return r
}
