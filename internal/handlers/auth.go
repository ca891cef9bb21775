package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atharvakonge/stocksim/internal/metrics"
	"github.com/atharvakonge/stocksim/internal/models"
	"github.com/atharvakonge/stocksim/pkg/logger"
)

// LoginForm handles GET /login. Visiting the page logs the user out.
func (h *Handlers) LoginForm(c *gin.Context) {
	h.endSession(c)
	h.render(c, http.StatusOK, "login.html", "Log In", nil)
}

// Login handles POST /login
func (h *Handlers) Login(c *gin.Context) {
	// Forget any prior session before trying the new credentials.
	h.endSession(c)

	var form models.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, bindError(err))
		return
	}

	user, err := h.auth.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	s, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setSessionCookie(c, s)

	log := logger.Get()
	log.Info().Int64("user_id", user.ID).Msg("user logged in")
	c.Redirect(http.StatusFound, "/")
}

// Logout handles GET /logout
func (h *Handlers) Logout(c *gin.Context) {
	h.endSession(c)
	metrics.AuthEventsTotal.WithLabelValues("logout", "ok").Inc()
	c.Redirect(http.StatusFound, "/")
}

// RegisterForm handles GET /register
func (h *Handlers) RegisterForm(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", "Register", nil)
}

// Register handles POST /register
func (h *Handlers) Register(c *gin.Context) {
	var form models.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, bindError(err))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), form.Username, form.Password, form.Confirmation)
	if err != nil {
		h.fail(c, err)
		return
	}

	log := logger.Get()
	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	h.setFlash(c, "Registered!")
	c.Redirect(http.StatusFound, "/login")
}
