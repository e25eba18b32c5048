package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teampulse/dailybot/storage"
	"github.com/teampulse/dailybot/utils"
)

// ScheduleController exposes the trigger schedule for operators.
type ScheduleController struct {
	store *storage.ScheduleStore
}

// NewScheduleController creates a new controller instance.
func NewScheduleController(store *storage.ScheduleStore) *ScheduleController {
	return &ScheduleController{store: store}
}

// Get returns the effective schedule, defaults included.
func (s *ScheduleController) Get(ctx *gin.Context) {
	utils.Success(ctx, s.store.Get())
}

// SetDays replaces the active weekday set.
func (s *ScheduleController) SetDays(ctx *gin.Context) {
	var req struct {
		Days []string `json:"days" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request body")
		return
	}
	if err := s.store.SetDays(req.Days); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, err.Error())
		return
	}
	utils.Success(ctx, s.store.Get())
}

// SetPromptTime moves the morning prompt clock.
func (s *ScheduleController) SetPromptTime(ctx *gin.Context) {
	var req struct {
		Hour   *int `json:"hour" binding:"required"`
		Minute *int `json:"minute" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40005, "invalid request body")
		return
	}
	if err := s.store.SetPromptTime(*req.Hour, *req.Minute); err != nil {
		code := 40006
		if errors.Is(err, storage.ErrReminderNotAfterPrompt) {
			code = 40007
		}
		utils.Error(ctx, http.StatusBadRequest, code, err.Error())
		return
	}
	utils.Success(ctx, s.store.Get())
}

// SetReminder toggles the reminder and optionally moves its clock.
func (s *ScheduleController) SetReminder(ctx *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
		Hour    *int  `json:"hour"`
		Minute  *int  `json:"minute"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40008, "invalid request body")
		return
	}
	if err := s.store.SetReminder(*req.Enabled, req.Hour, req.Minute); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40009, err.Error())
		return
	}
	utils.Success(ctx, s.store.Get())
}

// SetEnabled pauses or resumes the whole daily cycle.
func (s *ScheduleController) SetEnabled(ctx *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request body")
		return
	}
	if err := s.store.SetEnabled(*req.Enabled); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "schedule not persisted")
		return
	}
	utils.Success(ctx, s.store.Get())
}
