package handlers

import (
	"strings"
	"time"

	"learnhub/internal/infrastructure/repository"
	"learnhub/internal/infrastructure/security"
	"learnhub/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	courseHandler *CourseHandler,
	discussionHandler *DiscussionHandler,
	enrollmentHandler *EnrollmentHandler,
	orderHandler *OrderHandler,
	limiter *middleware.RateLimiter,
	tokens *security.TokenManager,
	profiles *repository.ProfileRepository,
	allowedOrigins string,
) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = strings.Split(allowedOrigins, ",")
	config.AllowCredentials = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	r.Use(cors.New(config))

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", limiter.Limit("register", 5, 1*time.Minute), authHandler.Register)
			auth.POST("/login", limiter.Limit("login", 5, 1*time.Minute), authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
			auth.POST("/forgot-password", limiter.Limit("forgot_pass", 1, 5*time.Minute), authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
		}

		// Каталог и тарифы открыты, но для залогиненных user_vote/доступ считаются
		public := api.Group("")
		public.Use(middleware.OptionalAuth(tokens))
		{
			public.GET("/courses", courseHandler.List)
			public.GET("/courses/:id", courseHandler.GetOne)
			public.GET("/plans", orderHandler.GetPlans)
			public.GET("/discussions", discussionHandler.ListTopics)
			public.GET("/discussions/:id", discussionHandler.GetTopic)
		}

		private := api.Group("")
		private.Use(middleware.AuthMiddleware(tokens))
		{
			private.GET("/user/profile", userHandler.GetProfile)
			private.PUT("/user/profile", userHandler.UpdateProfile)

			private.POST("/courses/:id/enroll", enrollmentHandler.Enroll)
			private.GET("/courses/:id/progress", enrollmentHandler.CompletedLectures)
			private.GET("/my/courses", enrollmentHandler.MyCourses)
			private.POST("/lectures/:id/complete", enrollmentHandler.CompleteLecture)

			private.POST("/discussions", discussionHandler.CreateTopic)
			private.PUT("/discussions/:id", discussionHandler.UpdateTopic)
			private.DELETE("/discussions/:id", discussionHandler.DeleteTopic)
			private.POST("/discussions/:id/solved", discussionHandler.MarkTopicSolved)
			private.POST("/discussions/:id/vote", discussionHandler.VoteTopic)
			private.POST("/discussions/:id/comments", discussionHandler.CreateComment)
			private.PUT("/comments/:id", discussionHandler.UpdateComment)
			private.DELETE("/comments/:id", discussionHandler.DeleteComment)
			private.POST("/comments/:id/vote", discussionHandler.VoteComment)
			private.POST("/comments/:id/solution", discussionHandler.MarkCommentSolution)

			private.POST("/checkout", orderHandler.Checkout)
			private.GET("/my/orders", orderHandler.MyOrders)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(tokens), middleware.AdminOnly(profiles))
		{
			admin.POST("/courses", courseHandler.Create)
			admin.PUT("/courses/:id", courseHandler.Update)
			admin.DELETE("/courses/:id", courseHandler.Delete)
			admin.POST("/courses/:id/lectures", courseHandler.CreateLecture)
			admin.PUT("/lectures/:id", courseHandler.UpdateLecture)
			admin.DELETE("/lectures/:id", courseHandler.DeleteLecture)

			admin.GET("/users", userHandler.ListUsers)
			admin.PATCH("/users/:id/role", userHandler.SetRole)
			admin.PATCH("/users/:id/membership", userHandler.SetMembership)

			admin.GET("/orders", orderHandler.ListOrders)
			admin.PATCH("/orders/:id/status", orderHandler.UpdateOrderStatus)
		}
	}

	return r
}
