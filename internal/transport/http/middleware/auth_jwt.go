package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-office-rental/internal/core/auth"
	"go-office-rental/internal/domain"
	resp "go-office-rental/internal/transport/http/response"
)

const (
	KeyUserID = "userId"
	KeyRole   = "role"
	KeyCaller = "caller"
)

type callerKey struct{}

// Resolver token 中的 uid → 当前用户（角色以库中为准，不信任 token）
type Resolver interface {
	Resolve(ctx context.Context, uid string) (*domain.Caller, error)
}

type Guard struct {
	JWT   *auth.JWTer
	Users Resolver
	Log   *zap.Logger
}

// Require 校验 token 并解析调用者；roles 非空时调用者角色必须在其中
func (g *Guard) Require(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := g.JWT.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		caller, err := g.Users.Resolve(c.Request.Context(), claims.UID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// 用户已注销，token 仍在有效期
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		case err != nil:
			if g.Log != nil {
				g.Log.Error("resolve caller", zap.String("uid", claims.UID), zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeServerError, ""))
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, caller.Role) {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		c.Set(KeyUserID, caller.ID)
		c.Set(KeyRole, caller.Role)
		c.Set(KeyCaller, caller)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), callerKey{}, caller))
		c.Next()
	}
}

// CallerFrom 仅在 Guard 之后的 handler 中有值
func CallerFrom(c *gin.Context) *domain.Caller {
	if v, ok := c.Get(KeyCaller); ok {
		if caller, ok := v.(*domain.Caller); ok {
			return caller
		}
	}
	return CallerFromContext(c.Request.Context())
}

func CallerFromContext(ctx context.Context) *domain.Caller {
	caller, _ := ctx.Value(callerKey{}).(*domain.Caller)
	return caller
}
