package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teampulse/dailybot/config"
	"github.com/teampulse/dailybot/utils"
)

const tokenTTL = 24 * time.Hour

// AuthController exchanges the operator admin key for a bearer token.
type AuthController struct{}

// NewAuthController creates a new controller instance.
func NewAuthController() *AuthController {
	return &AuthController{}
}

// IssueToken verifies the admin key and returns a signed JWT.
func (a *AuthController) IssueToken(ctx *gin.Context) {
	var req struct {
		AdminKey string `json:"admin_key" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request body")
		return
	}

	if !utils.VerifyAdminKey(config.Get(), req.AdminKey) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid admin key")
		return
	}

	token, err := utils.GenerateToken("admin", tokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "token generation failed")
		return
	}

	utils.Success(ctx, gin.H{
		"token":      token,
		"expires_in": int(tokenTTL.Seconds()),
	})
}
