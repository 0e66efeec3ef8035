package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jobboard-dev/jobboard/internal/services"
	"gorm.io/gorm"
)

// Handler carries the request-scoped collaborators every route needs: the
// database handle and the resume artifact store. Route logic opens its own
// transactions off DB; there is no ambient global session.
type Handler struct {
	DB      *gorm.DB
	Resumes *services.ResumeStore
}

func NewHandler(conn *gorm.DB, resumes *services.ResumeStore) *Handler {
	return &Handler{
		DB:      conn,
		Resumes: resumes,
	}
}

var (
	Domain = os.Getenv("DOMAIN")
)

func setSessionCookie(ctx *gin.Context, token string) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   Domain,
		MaxAge:   60 * 60 * 24 * 7,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func clearSessionCookie(ctx *gin.Context) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		Domain:   Domain,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}
