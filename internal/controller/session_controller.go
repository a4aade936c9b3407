package controller

import (
	"errors"

	"exam_campus_backend/internal/service"
	"exam_campus_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	Sessions *service.ExamSessionService
}

func NewSessionController(sessions *service.ExamSessionService) *SessionController {
	return &SessionController{Sessions: sessions}
}

// StartSession godoc
// @Summary Open an exam session
// @Tags session
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "exam id"
// @Success 201 {object} util.Response{data=service.SessionView}
// @Failure 403 {object} util.Response "not enrolled or unpublished"
// @Failure 409 {object} util.Response "exam has no questions"
// @Router /api/exams/{id}/session [post]
func (c *SessionController) StartSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.Sessions.Start(ctx.Param("id"), claims.UserID)
	if err != nil {
		sessionError(ctx, err)
		return
	}
	util.Created(ctx, session.View())
}

// GetSession godoc
// @Summary Poll session state, including remaining time
// @Tags session
// @Produce  json
// @Security BearerAuth
// @Param   sid path string true "session id"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/session/{sid} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.Sessions.Get(ctx.Param("sid"), claims.UserID)
	if err != nil {
		sessionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"session":  session.View(),
		"question": session.Question(),
	})
}

type AnswerRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	Value      string `json:"value"`
	Clear      bool   `json:"clear"`
}

// SubmitAnswer godoc
// @Summary Record or clear an answer
// @Tags session
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   sid path string true "session id"
// @Param   body body AnswerRequest true "answer"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 409 {object} util.Response "session not active"
// @Router /api/session/{sid}/answer [put]
func (c *SessionController) SubmitAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.Sessions.Get(ctx.Param("sid"), claims.UserID)
	if err != nil {
		sessionError(ctx, err)
		return
	}

	if req.Clear {
		err = session.ClearAnswer(req.QuestionID)
	} else {
		err = session.Answer(req.QuestionID, req.Value)
	}
	if err != nil {
		sessionError(ctx, err)
		return
	}
	util.Success(ctx, session.View())
}

type ReviewRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
}

// ToggleReview godoc
// @Summary Flip a question's marked-for-review flag
// @Tags session
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   sid path string true "session id"
// @Param   body body ReviewRequest true "question"
// @Success 200 {object} util.Response{data=object}
// @Router /api/session/{sid}/review [post]
func (c *SessionController) ToggleReview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.Sessions.Get(ctx.Param("sid"), claims.UserID)
	if err != nil {
		sessionError(ctx, err)
		return
	}

	marked, err := session.ToggleReview(req.QuestionID)
	if err != nil {
		sessionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"questionId": req.QuestionID, "marked": marked})
}

type NavigateRequest struct {
	To   *int   `json:"to"`
	Move string `json:"move" binding:"omitempty,oneof=next previous"`
}

// Navigate godoc
// @Summary Move the current question index
// @Tags session
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   sid path string true "session id"
// @Param   body body NavigateRequest true "jump index or next/previous"
// @Success 200 {object} util.Response{data=object}
// @Router /api/session/{sid}/navigate [post]
func (c *SessionController) Navigate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req NavigateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.Sessions.Get(ctx.Param("sid"), claims.UserID)
	if err != nil {
		sessionError(ctx, err)
		return
	}

	var index int
	switch {
	case req.To != nil:
		index, err = session.Navigate(*req.To)
	case req.Move == "next":
		index, err = session.Next()
	case req.Move == "previous":
		index, err = session.Previous()
	default:
		util.BadRequest(ctx, "either to or move is required")
		return
	}
	if err != nil {
		sessionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"currentIndex": index, "question": session.Question()})
}

type FinishRequest struct {
	Confirm bool `json:"confirm"`
}

// FinishSession godoc
// @Summary Submit the exam
// @Description Requires confirm=true; submitting twice returns the first outcome.
// @Tags session
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   sid path string true "session id"
// @Param   body body FinishRequest true "confirmation"
// @Success 200 {object} util.Response{data=service.FinishOutcome}
// @Failure 409 {object} util.Response "already submitted or confirmation missing"
// @Router /api/session/{sid}/finish [post]
func (c *SessionController) FinishSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req FinishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	outcome, err := c.Sessions.Finish(ctx.Param("sid"), claims.UserID, req.Confirm)
	if err != nil {
		if errors.Is(err, util.ErrAlreadySubmitted) && outcome != nil {
			// The first submission's outcome answers the duplicate call.
			util.Success(ctx, outcome)
			return
		}
		sessionError(ctx, err)
		return
	}
	util.Success(ctx, outcome)
}

// CloseSession godoc
// @Summary Exit and discard an in-progress session
// @Tags session
// @Produce  json
// @Security BearerAuth
// @Param   sid path string true "session id"
// @Success 200 {object} util.Response
// @Router /api/session/{sid} [delete]
func (c *SessionController) CloseSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	if err := c.Sessions.Close(ctx.Param("sid"), claims.UserID); err != nil {
		sessionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"closed": true})
}

func sessionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrSessionNotActive), errors.Is(err, util.ErrAlreadySubmitted),
		errors.Is(err, util.ErrConfirmRequired):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrMissingExamID), errors.Is(err, util.ErrMissingStudentID):
		util.BadRequest(ctx, err.Error())
	default:
		examError(ctx, err)
	}
}
