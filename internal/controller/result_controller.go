package controller

import (
	"strconv"

	"exam_campus_backend/internal/service"
	"exam_campus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResultController struct {
	ResultService *service.ResultService
}

func NewResultController(resultService *service.ResultService) *ResultController {
	return &ResultController{ResultService: resultService}
}

// ListMyResults godoc
// @Summary The current student's published results
// @Tags result
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "page"
// @Param   limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/results [get]
func (c *ResultController) ListMyResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	results, total, err := c.ResultService.ListForStudent(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: results, Total: total, Page: page, Limit: limit})
}

// GetResult godoc
// @Summary One result with its reconciled per-question review
// @Tags result
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "result id"
// @Success 200 {object} util.Response{data=service.ResultView}
// @Failure 404 {object} util.Response
// @Router /api/results/{id} [get]
func (c *ResultController) GetResult(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.ResultService.GetForStudent(ctx.Param("id"), claims.UserID)
	if err != nil {
		examError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetAttempt godoc
// @Summary The current student's raw attempt record
// @Tags result
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "attempt id"
// @Success 200 {object} util.Response{data=model.ExamAttempt}
// @Failure 404 {object} util.Response
// @Router /api/attempts/{id} [get]
func (c *ResultController) GetAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, err := c.ResultService.GetAttemptForStudent(ctx.Param("id"), claims.UserID)
	if err != nil {
		examError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// ListExamResults godoc
// @Summary Results of one exam (teacher)
// @Tags result-admin
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "exam id"
// @Param   page query int false "page"
// @Param   limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/teacher/exams/{id}/results [get]
func (c *ResultController) ListExamResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	results, total, err := c.ResultService.ListByExam(ctx.Param("id"), claims, page, limit)
	if err != nil {
		examError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: results, Total: total, Page: page, Limit: limit})
}

// ListExamAttempts godoc
// @Summary Attempts of one exam (teacher)
// @Tags result-admin
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "exam id"
// @Param   page query int false "page"
// @Param   limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/teacher/exams/{id}/attempts [get]
func (c *ResultController) ListExamAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	attempts, total, err := c.ResultService.ListAttemptsByExam(ctx.Param("id"), claims, page, limit)
	if err != nil {
		examError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: attempts, Total: total, Page: page, Limit: limit})
}

// GetResultForTeacher godoc
// @Summary One result with review, publish state ignored (teacher)
// @Tags result-admin
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "result id"
// @Success 200 {object} util.Response{data=service.ResultView}
// @Router /api/teacher/results/{id} [get]
func (c *ResultController) GetResultForTeacher(ctx *gin.Context) {
	view, err := c.ResultService.GetForTeacher(ctx.Param("id"))
	if err != nil {
		examError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

type PublishResultRequest struct {
	Publish bool `json:"publish"`
}

// PublishResult godoc
// @Summary Publish or hide a result from its student (teacher)
// @Tags result-admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "result id"
// @Param   body body PublishResultRequest true "publish flag"
// @Success 200 {object} util.Response{data=model.Result}
// @Router /api/teacher/results/{id}/publish [post]
func (c *ResultController) PublishResult(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req PublishResultRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ResultService.SetPublished(ctx.Param("id"), req.Publish, claims)
	if err != nil {
		examError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
