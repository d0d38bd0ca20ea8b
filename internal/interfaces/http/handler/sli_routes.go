package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/orderportal/backend/internal/interfaces/http/router"
)

// SLIRoutes creates the route group for SLI documents. :source is "orders"
// or "documents".
func SLIRoutes(handler *SLIHandler, authMiddleware gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("sli", "/sli")
	group.Use(authMiddleware)

	group.GET("/:source/:id/preview", handler.Preview)
	group.GET("/:source/:id/pdf", handler.PDF)
	group.GET("/:source/:id/summary.xlsx", handler.Summary)

	group.POST("/render", handler.Render)

	return group
}
