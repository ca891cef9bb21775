package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atharvakonge/stocksim/internal/models"
)

// Index handles GET /
func (h *Handlers) Index(c *gin.Context) {
	p, err := h.engine.Portfolio(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "index.html", "Portfolio", gin.H{"Portfolio": p})
}

// BuyForm handles GET /buy
func (h *Handlers) BuyForm(c *gin.Context) {
	h.render(c, http.StatusOK, "buy.html", "Buy", nil)
}

// Buy handles POST /buy
func (h *Handlers) Buy(c *gin.Context) {
	var form models.TradeForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, bindError(err))
		return
	}

	if _, err := h.engine.Buy(c.Request.Context(), currentUserID(c), form.Symbol, form.Shares); err != nil {
		h.fail(c, err)
		return
	}

	h.setFlash(c, "Bought!")
	c.Redirect(http.StatusFound, "/")
}

// SellForm handles GET /sell
func (h *Handlers) SellForm(c *gin.Context) {
	holdings, err := h.engine.Holdings(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "sell.html", "Sell", gin.H{"Holdings": holdings})
}

// Sell handles POST /sell
func (h *Handlers) Sell(c *gin.Context) {
	var form models.TradeForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, bindError(err))
		return
	}

	if _, err := h.engine.Sell(c.Request.Context(), currentUserID(c), form.Symbol, form.Shares); err != nil {
		h.fail(c, err)
		return
	}

	h.setFlash(c, "Sold!")
	c.Redirect(http.StatusFound, "/")
}

// History handles GET /history
func (h *Handlers) History(c *gin.Context) {
	transactions, err := h.engine.History(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "history.html", "History", gin.H{"Transactions": transactions})
}

// QuoteForm handles GET /quote
func (h *Handlers) QuoteForm(c *gin.Context) {
	h.render(c, http.StatusOK, "quote.html", "Quote", nil)
}

// Quote handles POST /quote
func (h *Handlers) Quote(c *gin.Context) {
	var form models.QuoteForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, bindError(err))
		return
	}

	q, err := h.engine.Quote(c.Request.Context(), form.Symbol)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "quote.html", "Quoted", gin.H{"Quote": q})
}
