package controller

import (
	"errors"

	"quizpair_backend/internal/service"
	"quizpair_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GameController struct {
	MatchService  *service.MatchService
	AnswerService *service.AnswerService
	ViewService   *service.ViewService
}

func NewGameController(match *service.MatchService, answer *service.AnswerService, view *service.ViewService) *GameController {
	return &GameController{
		MatchService:  match,
		AnswerService: answer,
		ViewService:   view,
	}
}

// Connect 加入或创建对战
func (c *GameController) Connect(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	gameID, err := c.MatchService.Connect(ctx.Request.Context(), user.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAlreadyInGame), errors.Is(err, util.ErrMatchConflict):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInsufficientQuestions):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, gin.H{"gameId": gameID})
}

type submitAnswerRequest struct {
	Text string `json:"text"`
}

// SubmitAnswer 提交当前题目的答案
func (c *GameController) SubmitAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var body submitAnswerRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AnswerService.SubmitAnswer(ctx.Request.Context(), user.UserID, body.Text)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmptyAnswer), errors.Is(err, util.ErrAnswerTooLong):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrNotInActiveGame):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// GetCurrentGame 查询自己的当前对战
func (c *GameController) GetCurrentGame(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.ViewService.GetCurrentGame(ctx.Request.Context(), user.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNoCurrentGame):
			util.Error(ctx, 404, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, view)
}

// GetGame 查询指定对战（仅参与者可见）
func (c *GameController) GetGame(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.ViewService.GetGame(ctx.Request.Context(), ctx.Param("id"), user.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrGameNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotAParticipant):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, view)
}
