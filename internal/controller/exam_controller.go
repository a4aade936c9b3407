package controller

import (
	"errors"
	"strconv"

	"exam_campus_backend/internal/service"
	"exam_campus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService    *service.ExamService
	StorageService *service.StorageService
}

func NewExamController(examService *service.ExamService, storageService *service.StorageService) *ExamController {
	return &ExamController{
		ExamService:    examService,
		StorageService: storageService,
	}
}

// ListExams godoc
// @Summary Published exams visible to the current student
// @Tags exam
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "page"
// @Param   limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/exams [get]
func (c *ExamController) ListExams(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	exams, total, err := c.ExamService.ListForStudent(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: exams, Total: total, Page: page, Limit: limit})
}

// GetExam godoc
// @Summary Student view of one published exam
// @Tags exam
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "exam id"
// @Success 200 {object} util.Response{data=service.ExamDetail}
// @Failure 403 {object} util.Response "not enrolled"
// @Failure 404 {object} util.Response
// @Router /api/exams/{id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	detail, err := c.ExamService.GetForStudent(ctx.Request.Context(), ctx.Param("id"), claims.UserID)
	if err != nil {
		examError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// CreateExam godoc
// @Summary Create an exam (teacher)
// @Tags exam-admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ExamRequest true "exam fields"
// @Success 201 {object} util.Response{data=model.Exam}
// @Router /api/teacher/exams [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.ExamService.Create(req, claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, exam)
}

// ListMyExams godoc
// @Summary Exams created by the current teacher
// @Tags exam-admin
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "page"
// @Param   limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/teacher/exams [get]
func (c *ExamController) ListMyExams(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	exams, total, err := c.ExamService.ListByCreator(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: exams, Total: total, Page: page, Limit: limit})
}

// UpdateExam godoc
// @Summary Update an exam (teacher)
// @Tags exam-admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "exam id"
// @Param   body body service.ExamRequest true "exam fields"
// @Success 200 {object} util.Response{data=model.Exam}
// @Router /api/teacher/exams/{id} [put]
func (c *ExamController) UpdateExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.ExamService.Update(ctx.Request.Context(), ctx.Param("id"), req, claims)
	if err != nil {
		examError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// DeleteExam godoc
// @Summary Delete an exam and its questions (teacher)
// @Tags exam-admin
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "exam id"
// @Success 200 {object} util.Response
// @Router /api/teacher/exams/{id} [delete]
func (c *ExamController) DeleteExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	if err := c.ExamService.Delete(ctx.Request.Context(), ctx.Param("id"), claims); err != nil {
		examError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": ctx.Param("id")})
}

type PublishExamRequest struct {
	Publish bool `json:"publish"`
}

// PublishExam godoc
// @Summary Publish or unpublish an exam (teacher)
// @Tags exam-admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "exam id"
// @Param   body body PublishExamRequest true "publish flag"
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 409 {object} util.Response "exam has no questions"
// @Router /api/teacher/exams/{id}/publish [post]
func (c *ExamController) PublishExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req PublishExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.ExamService.Publish(ctx.Request.Context(), ctx.Param("id"), req.Publish, claims)
	if err != nil {
		if errors.Is(err, util.ErrExamHasNoQuestions) {
			util.Conflict(ctx, err.Error())
			return
		}
		examError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// ListQuestions godoc
// @Summary Full question rows of an exam, grading fields included (teacher)
// @Tags exam-admin
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "exam id"
// @Success 200 {object} util.Response{data=[]model.ExamQuestion}
// @Router /api/teacher/exams/{id}/questions [get]
func (c *ExamController) ListQuestions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	questions, err := c.ExamService.Questions(ctx.Param("id"), claims)
	if err != nil {
		examError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// AddQuestion godoc
// @Summary Add a question to an exam (teacher)
// @Tags exam-admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "exam id"
// @Param   body body service.QuestionRequest true "question fields"
// @Success 201 {object} util.Response{data=model.ExamQuestion}
// @Router /api/teacher/exams/{id}/questions [post]
func (c *ExamController) AddQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.ExamService.AddQuestion(ctx.Request.Context(), ctx.Param("id"), req, claims)
	if err != nil {
		examError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// UpdateQuestion godoc
// @Summary Update a question (teacher)
// @Tags exam-admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   qid path string true "question id"
// @Param   body body service.QuestionRequest true "question fields"
// @Success 200 {object} util.Response{data=model.ExamQuestion}
// @Router /api/teacher/questions/{qid} [put]
func (c *ExamController) UpdateQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.ExamService.UpdateQuestion(ctx.Request.Context(), ctx.Param("qid"), req, claims)
	if err != nil {
		examError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// DeleteQuestion godoc
// @Summary Delete a question (teacher)
// @Tags exam-admin
// @Produce  json
// @Security BearerAuth
// @Param   qid path string true "question id"
// @Success 200 {object} util.Response
// @Router /api/teacher/questions/{qid} [delete]
func (c *ExamController) DeleteQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	if err := c.ExamService.DeleteQuestion(ctx.Request.Context(), ctx.Param("qid"), claims); err != nil {
		examError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": ctx.Param("qid")})
}

// UploadMedia godoc
// @Summary Upload question or explanation media (teacher)
// @Tags exam-admin
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "media file"
// @Success 201 {object} util.Response{data=model.MediaAsset}
// @Router /api/teacher/media [post]
func (c *ExamController) UploadMedia(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	defer file.Close()

	asset, err := c.StorageService.Upload(ctx.Request.Context(), header.Filename, file, header.Size, header.Header.Get("Content-Type"), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, asset)
}

// examError maps the exam error taxonomy onto HTTP statuses.
func examError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrExamNotFound), errors.Is(err, util.ErrResultNotFound),
		errors.Is(err, util.ErrAttemptNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrExamNotPublished), errors.Is(err, util.ErrNotEnrolled),
		errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrExamHasNoQuestions):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
