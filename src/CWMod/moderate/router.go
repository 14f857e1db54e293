package moderate

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gateway engine. CORS is deliberately wide open: the
// function is called straight from browsers on any origin.
func NewRouter(h *Handler) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	g.Use(cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{"POST", "OPTIONS"},
		AllowHeaders:              []string{"authorization", "x-client-info", "apikey", "content-type"},
		OptionsResponseStatusCode: http.StatusOK,
	}))
	g.POST("/moderate-content", h.Moderate)
	return g
}
