package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter constructs the gin engine with middleware and one route group per caller.
func NewRouter(callers []string, h *HTTPHandler, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		RequestID(),
		Logging(log),
		Recovery(log),
	)

	r.GET("/", h.Liveness)

	for _, caller := range callers {
		group := r.Group("/"+caller, bindCaller(caller))
		group.POST("/lob", h.Upload(caller))
		group.POST("/lob/file", h.UploadFile(caller))
		group.GET("/lob", h.List(caller))
		group.GET("/lob/object", h.Get(caller))
		group.GET("/lob/archive", h.Archive(caller))
	}

	return r
}
