package api

import (
	"net/http"

	"github.com/fyerfyer/doc-dashboard/api/handler"
	"github.com/fyerfyer/doc-dashboard/api/middleware"
	"github.com/fyerfyer/doc-dashboard/api/model"
	"github.com/gin-gonic/gin"
)

// SetupRouter 设置API路由
// 配置所有的API端点并应用中间件
func SetupRouter(
	docHandler *handler.DocumentHandler,
	previewHandler *handler.PreviewHandler,
) *gin.Engine {
	router := gin.New()

	// 追踪ID要最先设置，后面的日志和错误响应都会用到
	router.Use(middleware.SetTraceID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorMiddleware())
	router.Use(Cors())

	if gin.Mode() == gin.DebugMode {
		router.Use(middleware.RequestBodyLog())
	}

	api := router.Group("/api")
	{
		// 健康检查 - GET /api/health
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, model.NewSuccessResponse(gin.H{"status": "ok"}))
		})

		// 集合状态 - GET /api/collection
		api.GET("/collection", docHandler.CollectionStatus)

		docGroup := api.Group("/documents")
		{
			// 上传文档 - POST /api/documents
			docGroup.POST("", docHandler.UploadDocument)

			// 获取文档列表 - GET /api/documents
			docGroup.GET("", docHandler.ListDocuments)

			// 获取文档详情 - GET /api/documents/:id
			docGroup.GET("/:id", docHandler.GetDocument)

			// 获取原始文件 - GET /api/documents/:id/content
			docGroup.GET("/:id/content", docHandler.GetContent)

			// 打开预览 - POST /api/documents/:id/preview
			docGroup.POST("/:id/preview", previewHandler.OpenPreview)
		}

		previewGroup := api.Group("/previews")
		{
			previewGroup.GET("/:sid", previewHandler.GetPreview)
			previewGroup.POST("/:sid/next", previewHandler.Next)
			previewGroup.POST("/:sid/previous", previewHandler.Previous)
			previewGroup.POST("/:sid/goto", previewHandler.GoTo)
			previewGroup.DELETE("/:sid", previewHandler.ClosePreview)
		}
	}

	return router
}

// Cors 跨域资源共享中间件
// 浏览器端的面板页面可以直接调用这些接口
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept, Origin, Cache-Control, X-Requested-With, X-Trace-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Trace-ID, Content-Disposition")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
