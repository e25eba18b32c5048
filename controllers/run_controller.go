package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/teampulse/dailybot/engine"
	"github.com/teampulse/dailybot/utils"
)

// RunController lets operators fire a dispatch batch outside the schedule.
// Manual runs bypass the watermark on purpose; the ledger still filters
// members who already submitted.
type RunController struct {
	engine *engine.Engine
}

// NewRunController creates a new controller instance.
func NewRunController(eng *engine.Engine) *RunController {
	return &RunController{engine: eng}
}

// Prompt dispatches the morning prompt batch now.
func (r *RunController) Prompt(ctx *gin.Context) {
	report := r.engine.RunPrompt(ctx.Request.Context())
	utils.Sugar.Infof("manual %s", report.Summary())
	utils.Success(ctx, report)
}

// Reminder dispatches the straggler reminder batch now.
func (r *RunController) Reminder(ctx *gin.Context) {
	report := r.engine.RunReminder(ctx.Request.Context())
	utils.Sugar.Infof("manual %s", report.Summary())
	utils.Success(ctx, report)
}
