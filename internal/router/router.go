package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Eamse/gaon/internal/handler"
)

// SetupRouter wires every route onto a gin engine. Public routes go
// through the visit logger; everything mutating sits behind JWT auth.
func SetupRouter(api *handler.API, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handler.RequestLogger(logger))

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "status": "healthy"})
	})

	loginLimiter := handler.NewLoginLimiter()
	r.POST("/api/auth/login", loginLimiter.Middleware(), api.Login)

	// 공개 라우트. 방문 로그는 여기서만 남긴다.
	public := r.Group("/api")
	public.Use(api.VisitLogger())
	{
		public.GET("/projects", api.ListProjects)
		public.GET("/projects/:id", api.GetProject)
		public.GET("/gallery", api.ListGalleryImages)
		public.GET("/gallery/:filename", api.GetGalleryImage)
		public.POST("/inquiries", api.CreateInquiry)
	}

	// 관리자 라우트.
	admin := r.Group("/api")
	admin.Use(api.RequireAuth())
	{
		admin.GET("/auth/me", api.Me)

		admin.POST("/projects", api.CreateProject)
		admin.PUT("/projects/:id", api.UpdateProject)
		admin.DELETE("/projects/:id", api.DeleteProject)
		admin.GET("/projects/:id/images", api.ListProjectImages)
		admin.POST("/projects/:id/images", api.UploadProjectImages)
		admin.DELETE("/projects/:id/images/:imageId", api.DeleteProjectImage)

		admin.POST("/gallery", api.UploadGalleryImage)
		admin.POST("/gallery/batch", api.UploadGalleryImages)
		admin.PATCH("/gallery/:filename", api.UpdateGalleryImage)
		admin.DELETE("/gallery/:filename", api.DeleteGalleryImage)
		admin.POST("/gallery/:filename/details", api.UploadGalleryDetailImages)
		admin.PATCH("/gallery-details/:detailId", api.UpdateGalleryDetail)
		admin.DELETE("/gallery-details/:detailId", api.DeleteGalleryDetail)

		admin.GET("/inquiries", api.ListInquiries)
		admin.GET("/inquiries/:id", api.GetInquiry)
		admin.PATCH("/inquiries/:id", api.UpdateInquiry)
		admin.DELETE("/inquiries/:id", api.DeleteInquiry)

		admin.POST("/metrics/aggregate", api.AggregateMetrics)
		admin.GET("/metrics/daily", api.DailyMetrics)
		admin.GET("/metrics/overview", api.MetricsOverview)
	}

	return r
}
