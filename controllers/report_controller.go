package controllers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/teampulse/dailybot/engine"
	"github.com/teampulse/dailybot/messaging"
	"github.com/teampulse/dailybot/models"
	"github.com/teampulse/dailybot/storage"
	"github.com/teampulse/dailybot/utils"
)

// ReportController handles daily report intake and the read side of the ledger.
type ReportController struct {
	engine    *engine.Engine
	messenger messaging.Messenger
	groupID   string
}

// NewReportController creates a new controller instance.
func NewReportController(eng *engine.Engine, messenger messaging.Messenger, groupID string) *ReportController {
	return &ReportController{engine: eng, messenger: messenger, groupID: groupID}
}

// Submit accepts one member's daily report. A repeat submission for the same
// member on the same day returns 409 and leaves the first record untouched.
func (r *ReportController) Submit(ctx *gin.Context) {
	var req struct {
		UserID    string `json:"user_id" binding:"required"`
		GroupID   string `json:"group_id"`
		Feeling   string `json:"feeling" binding:"required"`
		Yesterday string `json:"yesterday" binding:"required"`
		Today     string `json:"today" binding:"required"`
		Blockers  string `json:"blockers"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid request body")
		return
	}
	// Single-group deployment: a mismatched group id is a caller bug.
	if req.GroupID != "" && req.GroupID != r.groupID {
		utils.Error(ctx, http.StatusBadRequest, 40011, "unknown group")
		return
	}

	report := models.Report{
		Feeling:   utils.Sanitize(req.Feeling),
		Yesterday: utils.Sanitize(req.Yesterday),
		Today:     utils.Sanitize(req.Today),
		Blockers:  utils.Sanitize(req.Blockers),
	}

	if err := r.engine.SubmitReport(ctx.Request.Context(), req.UserID, report); err != nil {
		if errors.Is(err, storage.ErrAlreadySubmitted) {
			utils.Error(ctx, http.StatusConflict, 40901, "daily already submitted today")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50002, "report could not be recorded")
		return
	}

	utils.Success(ctx, gin.H{"user_id": req.UserID, "date": r.engine.Ledger().Today()})
}

// Today reports completion status for the team: who submitted, who is still
// pending, and the completion rate. Roster lookup failures degrade to the
// submitted list alone.
func (r *ReportController) Today(ctx *gin.Context) {
	groupID := ctx.Query("group_id")
	if groupID == "" {
		groupID = r.groupID
	}
	submitted := r.engine.Ledger().TodaysSubmissions(groupID)

	done := make([]string, 0, len(submitted))
	for userID := range submitted {
		done = append(done, userID)
	}
	sort.Strings(done)

	payload := gin.H{
		"date":      r.engine.Ledger().Today(),
		"completed": done,
	}

	members, err := r.messenger.GroupMembers(ctx.Request.Context(), groupID)
	if err != nil {
		utils.Sugar.Warnf("today report: member listing failed: %v", err)
		utils.Success(ctx, payload)
		return
	}

	pending := make([]string, 0)
	for _, m := range members {
		if _, ok := submitted[m.ID]; !ok {
			pending = append(pending, m.ID)
		}
	}
	payload["pending"] = pending
	if len(members) > 0 {
		payload["completion_rate"] = float64(len(done)) / float64(len(members))
	}
	utils.Success(ctx, payload)
}
