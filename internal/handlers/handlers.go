package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atharvakonge/stocksim/internal/auth"
	"github.com/atharvakonge/stocksim/internal/models"
	"github.com/atharvakonge/stocksim/internal/session"
	"github.com/atharvakonge/stocksim/internal/trading"
	"github.com/atharvakonge/stocksim/pkg/logger"
)

const (
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session"
	flashCookieName   = "flash"

	userIDKey = "user_id"
	tokenKey  = "session_token"
)

// Pinger is the slice of *sql.DB the health check needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers is the application context: every dependency a request needs,
// built once in main.
type Handlers struct {
	auth         *auth.Service
	sessions     *session.Manager
	engine       *trading.Engine
	db           Pinger
	secureCookie bool
}

// New creates the handlers for one application instance.
func New(authSvc *auth.Service, sessions *session.Manager, engine *trading.Engine, db Pinger, secureCookie bool) *Handlers {
	return &Handlers{
		auth:         authSvc,
		sessions:     sessions,
		engine:       engine,
		db:           db,
		secureCookie: secureCookie,
	}
}

// render adds the layout fields every page needs and writes the template.
func (h *Handlers) render(c *gin.Context, status int, name string, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["LoggedIn"] = currentUserID(c) != 0
	if flash, err := c.Cookie(flashCookieName); err == nil && flash != "" {
		data["Flash"] = flash
		c.SetCookie(flashCookieName, "", -1, "/", "", h.secureCookie, true)
	}
	c.HTML(status, name, data)
}

// apology renders the error page with a status code.
func (h *Handlers) apology(c *gin.Context, status int, message string) {
	h.render(c, status, "apology.html", "Apology", gin.H{"Code": status, "Message": message})
}

// fail maps an error to the right page. User errors get a 4xx apology
// with their message; anything else is logged and shown generically.
func (h *Handlers) fail(c *gin.Context, err error) {
	status, msg := resolveError(err)
	if errors.Is(err, models.ErrUserNotFound) && currentUserID(c) != 0 {
		// Session outlived its account.
		h.endSession(c)
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if status >= http.StatusInternalServerError {
		log := logger.Get()
		log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int64("user_id", currentUserID(c)).
			Msg("unhandled error")
	}
	_ = c.Error(err)
	h.apology(c, status, msg)
}

func resolveError(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, userMessage(err, models.ErrValidation)
	case errors.Is(err, models.ErrUsernameTaken),
		errors.Is(err, models.ErrUnknownSymbol),
		errors.Is(err, models.ErrInsufficientFunds),
		errors.Is(err, models.ErrInsufficientShares):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrAuthentication):
		return http.StatusForbidden, userMessage(err, models.ErrAuthentication)
	default:
		return http.StatusInternalServerError, "something went wrong, please try again"
	}
}

// userMessage strips the sentinel prefix so "invalid input: must provide
// symbol" reads as "must provide symbol".
func userMessage(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

func (h *Handlers) setFlash(c *gin.Context, msg string) {
	c.SetCookie(flashCookieName, msg, 60, "/", "", h.secureCookie, true)
}

func (h *Handlers) setSessionCookie(c *gin.Context, s session.Session) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.Token,
		Path:     "/",
		MaxAge:   int(h.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// endSession forgets whatever session the request carries.
func (h *Handlers) endSession(c *gin.Context) {
	if token, err := c.Cookie(SessionCookieName); err == nil && token != "" {
		if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
			log := logger.Get()
			log.Warn().Err(err).Msg("failed to destroy session")
		}
	}
	h.clearSessionCookie(c)
	c.Set(userIDKey, int64(0))
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
