package router

import (
	"pdfvision/api/handler"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, docH *handler.DocumentHandler) {
	api := r.Group("/api/v1")
	{
		doc := api.Group("/document")
		{
			doc.POST("/upload", docH.Upload)
			doc.GET("/:id/progress", docH.Progress)
			doc.GET("/:id/content", docH.Content)
			doc.GET("/:id/export", docH.Export)
			doc.DELETE("/:id", docH.Reset)
		}
	}
}
