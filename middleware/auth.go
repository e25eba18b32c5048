package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/teampulse/dailybot/utils"
)

// ContextSubjectKey stores the authenticated token subject in the Gin context.
const ContextSubjectKey = "subject"

// AuthRequired ensures the request carries a valid bearer token.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextSubjectKey, claims.Subject)
		ctx.Next()
	}
}
