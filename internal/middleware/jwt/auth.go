package jwt

import (
	"strings"

	"MCPCatalog/pkg/back"
	"MCPCatalog/pkg/util/myjwt"
	"MCPCatalog/pkg/xerr"

	"github.com/gin-gonic/gin"
)

// Auth 校验 Bearer 令牌，只放行管理员角色
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			back.Error(c, xerr.Unauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := myjwt.ParseToken(tokenString)
		if err != nil {
			back.Error(c, xerr.Unauthorized, "invalid token")
			c.Abort()
			return
		}
		if claims.Role != myjwt.RoleAdmin {
			back.Error(c, xerr.Forbidden, "admin role required")
			c.Abort()
			return
		}

		c.Set("subject", claims.Subject)
		c.Set("role", claims.Role)
		c.Next()
	}
}
