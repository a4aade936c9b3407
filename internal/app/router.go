package app

import (
	"exam_campus_backend/docs"
	"exam_campus_backend/internal/config"
	"exam_campus_backend/internal/middleware"
	"exam_campus_backend/internal/model"
	"exam_campus_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.POST("/user/avatar/upload", c.user.UploadAvatar)

	// 科目 / 课程 / 选课
	rg.GET("/subjects", c.course.ListSubjects)
	rg.GET("/courses", c.course.ListCourses)
	rg.POST("/courses/:id/enrol", c.course.Enrol)
	rg.GET("/enrolments", c.course.MyEnrolments)

	// 考试浏览
	rg.GET("/exams", c.exam.ListExams)
	rg.GET("/exams/:id", c.exam.GetExam)

	// 考试会话
	rg.POST("/exams/:id/session", c.session.StartSession)
	session := rg.Group("/session")
	{
		session.GET("/:sid", c.session.GetSession)
		session.PUT("/:sid/answer", c.session.SubmitAnswer)
		session.POST("/:sid/review", c.session.ToggleReview)
		session.POST("/:sid/navigate", c.session.Navigate)
		session.POST("/:sid/finish", c.session.FinishSession)
		session.DELETE("/:sid", c.session.CloseSession)
	}

	// 成绩
	rg.GET("/results", c.result.ListMyResults)
	rg.GET("/results/:id", c.result.GetResult)
	rg.GET("/attempts/:id", c.result.GetAttempt)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		// 科目与课程管理
		teacher.POST("/subjects", c.course.CreateSubject)
		teacher.POST("/courses", c.course.CreateCourse)

		// 考试管理
		teacher.POST("/exams", c.exam.CreateExam)
		teacher.GET("/exams", c.exam.ListMyExams)
		teacher.PUT("/exams/:id", c.exam.UpdateExam)
		teacher.DELETE("/exams/:id", c.exam.DeleteExam)
		teacher.POST("/exams/:id/publish", c.exam.PublishExam)

		// 题目管理
		teacher.GET("/exams/:id/questions", c.exam.ListQuestions)
		teacher.POST("/exams/:id/questions", c.exam.AddQuestion)
		teacher.PUT("/questions/:qid", c.exam.UpdateQuestion)
		teacher.DELETE("/questions/:qid", c.exam.DeleteQuestion)
		teacher.POST("/media", c.exam.UploadMedia)

		// 成绩管理
		teacher.GET("/exams/:id/results", c.result.ListExamResults)
		teacher.GET("/exams/:id/attempts", c.result.ListExamAttempts)
		teacher.GET("/results/:id", c.result.GetResultForTeacher)
		teacher.POST("/results/:id/publish", c.result.PublishResult)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.ListUsers)
		admin.PUT("/users/:id/disable", c.user.SetUserDisabled)
	}
}
