package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jobboard-dev/jobboard/internal/auth"
	"github.com/jobboard-dev/jobboard/internal/models"
	"github.com/jobboard-dev/jobboard/internal/types"
	"gorm.io/gorm"
)

type AuthenticatedUser struct {
	ID       uint        `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
}

var errNoToken = errors.New("no session token")

// tokenFromRequest prefers the session cookie set at login, falling back to
// a Bearer header for non-browser clients.
func tokenFromRequest(ctx *gin.Context) (string, error) {
	if cookie, err := ctx.Cookie("token"); err == nil && cookie != "" {
		return cookie, nil
	}

	authHeader := ctx.GetHeader("Authorization")

	if authHeader == "" {
		return "", errNoToken
	}

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("Authorization header format must be Bearer {token}")
	}

	return parts[1], nil
}

func resolveUser(ctx *gin.Context, conn *gorm.DB) (AuthenticatedUser, error) {
	tokenString, err := tokenFromRequest(ctx)

	if err != nil {
		return AuthenticatedUser{}, err
	}

	token, err := auth.VerifyJWT(tokenString)

	if err != nil || !token.Valid {
		return AuthenticatedUser{}, errors.New("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return AuthenticatedUser{}, errors.New("Invalid token claims")
	}

	userIDFloat, ok := claims["user_id"].(float64)

	if !ok {
		return AuthenticatedUser{}, errors.New("Invalid user ID in token claims")
	}

	userID := uint(userIDFloat)

	var user models.User

	// The role comes from the user row, not the claim, so a role change
	// takes effect without waiting out the token lifetime.
	if err := conn.Where("id = ?", userID).First(&user).Error; err != nil {
		return AuthenticatedUser{}, errors.New("User not found")
	}

	return AuthenticatedUser{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, nil
}

// AuthMiddleware rejects requests without a valid session.
func AuthMiddleware(conn *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := resolveUser(ctx, conn)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		ctx.Set(types.ContextUserKey, user)
		ctx.Next()
	}
}

// OptionalAuthMiddleware attaches the caller's identity when a valid session
// token is present and lets the request through either way. Used on public
// pages whose response varies for signed-in users.
func OptionalAuthMiddleware(conn *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if user, err := resolveUser(ctx, conn); err == nil {
			ctx.Set(types.ContextUserKey, user)
		}

		ctx.Next()
	}
}

// RequireRoles aborts with 403 unless the authenticated caller's role is in
// allowed. Must run after AuthMiddleware.
func RequireRoles(allowed ...models.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(types.ContextUserKey)

		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		user, ok := value.(AuthenticatedUser)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		for _, role := range allowed {
			if user.Role == role {
				ctx.Next()
				return
			}
		}

		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	}
}
