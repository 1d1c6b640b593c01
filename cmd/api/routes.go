package main

import (
	"github.com/gin-gonic/gin"

	"github.com/scholars-edge/academy-api/internal/handler"
)

type routeDeps struct {
	auth        *handler.AuthHandler
	enrollments *handler.EnrollmentHandler
	contact     *handler.ContactHandler
	courses     *handler.CourseHandler
	metrics     *handler.MetricsHandler
	gate        gin.HandlerFunc
}

// registerRoutes binds the API surface. Admin reads sit behind the session
// gate; the two public submission endpoints and the active course listing
// are open.
func registerRoutes(r *gin.Engine, deps routeDeps) {
	r.GET("/metrics", deps.metrics.Prometheus)

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", deps.auth.Register)
	auth.POST("/login", deps.auth.Login)
	auth.POST("/logout", deps.gate, deps.auth.Logout)
	auth.GET("/me", deps.gate, deps.auth.Me)

	enrollments := api.Group("/enrollments")
	enrollments.POST("", deps.enrollments.Create)
	enrollments.GET("", deps.gate, deps.enrollments.List)
	enrollments.GET("/export", deps.gate, deps.enrollments.Export)
	enrollments.GET("/:id", deps.gate, deps.enrollments.Get)

	contact := api.Group("/contact")
	contact.POST("", deps.contact.Create)
	contact.GET("", deps.gate, deps.contact.List)
	contact.PATCH("/:id/read", deps.gate, deps.contact.MarkRead)

	courses := api.Group("/courses")
	courses.GET("", deps.courses.ListActive)
	courses.GET("/all", deps.gate, deps.courses.ListAll)
	courses.GET("/:id", deps.courses.Get)
	courses.POST("", deps.gate, deps.courses.Create)
	courses.PATCH("/:id", deps.gate, deps.courses.Update)
}
