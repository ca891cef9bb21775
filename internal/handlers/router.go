package handlers

import (
	"fmt"
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/atharvakonge/stocksim/web"
)

// NewRouter builds the gin engine with every route registered.
func NewRouter(h *Handlers, log zerolog.Logger) (*gin.Engine, error) {
	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))
	router.Use(NoCache())

	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/login", h.LoginForm)
	router.POST("/login", h.Login)
	router.GET("/logout", h.Logout)
	router.GET("/register", h.RegisterForm)
	router.POST("/register", h.Register)

	protected := router.Group("/", h.RequireSession())
	{
		protected.GET("/", h.Index)
		protected.GET("/buy", h.BuyForm)
		protected.POST("/buy", h.Buy)
		protected.GET("/sell", h.SellForm)
		protected.POST("/sell", h.Sell)
		protected.GET("/history", h.History)
		protected.GET("/quote", h.QuoteForm)
		protected.POST("/quote", h.Quote)
	}

	return router, nil
}
