package controller

import (
	"strconv"

	"exam_campus_backend/internal/service"
	"exam_campus_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// ListSubjects godoc
// @Summary All subjects
// @Tags course
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Subject}
// @Router /api/subjects [get]
func (c *CourseController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.CourseService.ListSubjects()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// ListCourses godoc
// @Summary Browse courses
// @Tags course
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "page"
// @Param   limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	courses, total, err := c.CourseService.ListCourses(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: courses, Total: total, Page: page, Limit: limit})
}

// Enrol godoc
// @Summary Enrol the current student into a course
// @Tags course
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "course id"
// @Success 201 {object} util.Response{data=model.Enrolment}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/enrol [post]
func (c *CourseController) Enrol(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrolment, err := c.CourseService.Enrol(claims.UserID, ctx.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, enrolment)
}

// MyEnrolments godoc
// @Summary The current student's enrolments
// @Tags course
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Enrolment}
// @Router /api/enrolments [get]
func (c *CourseController) MyEnrolments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	enrolments, err := c.CourseService.ListEnrolments(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrolments)
}

// CreateSubject godoc
// @Summary Create a subject (teacher)
// @Tags course-admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.SubjectRequest true "subject fields"
// @Success 201 {object} util.Response{data=model.Subject}
// @Router /api/teacher/subjects [post]
func (c *CourseController) CreateSubject(ctx *gin.Context) {
	var req service.SubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.CourseService.CreateSubject(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, subject)
}

// CreateCourse godoc
// @Summary Create a course (teacher)
// @Tags course-admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CourseRequest true "course fields"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/teacher/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(req, claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, course)
}
