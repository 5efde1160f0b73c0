package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kidpech/runtime_logviewer/internal/infrastructure/auth"
	"github.com/kidpech/runtime_logviewer/pkg/response"
)

// OperatorOnly validates operator bearer tokens.
func OperatorOnly(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c.GetHeader("Authorization"))
		if token == "" {
			response.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}
		claims, err := verifier.Parse(token)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}
		if claims.Role != auth.RoleOperator {
			response.Forbidden(c, "operator only")
			c.Abort()
			return
		}
		c.Set("operator", claims.Subject)
		c.Next()
	}
}

func extractBearer(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
