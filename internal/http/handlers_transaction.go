package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/core"
)

func (h *handlers) createTransaction(c *gin.Context) {
	var t core.Transaction
	if err := bindJSON(c, &t); err != nil {
		respondError(c, err)
		return
	}
	userID, err := ownUserID(c, t.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	t.UserID = userID

	created, err := h.svc.Transactions.Create(c.Request.Context(), t)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) listTransactions(c *gin.Context) {
	txs, err := h.svc.Transactions.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// ownedTransaction loads the transaction named by :id and checks ownership.
func (h *handlers) ownedTransaction(c *gin.Context, param string) (core.Transaction, bool) {
	t, err := h.svc.Transactions.Find(c.Request.Context(), c.Param(param))
	if err != nil {
		respondError(c, err)
		return core.Transaction{}, false
	}
	return t, authorizeRecord(c, t.UserID)
}

func (h *handlers) getTransaction(c *gin.Context) {
	if _, ok := h.ownedTransaction(c, "id"); !ok {
		return
	}
	scheduled, err := h.svc.Transactions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scheduled)
}

func (h *handlers) updateTransaction(c *gin.Context) {
	var patch core.TransactionPatch
	if err := bindJSON(c, &patch); err != nil {
		respondError(c, err)
		return
	}
	if _, ok := h.ownedTransaction(c, "id"); !ok {
		return
	}
	updated, err := h.svc.Transactions.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteTransaction(c *gin.Context) {
	if _, ok := h.ownedTransaction(c, "id"); !ok {
		return
	}
	deleted, err := h.svc.Transactions.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deleted)
}

func (h *handlers) listUserTransactions(c *gin.Context) {
	userID, ok := authorizeParam(c)
	if !ok {
		return
	}
	txs, err := h.svc.Transactions.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (h *handlers) listLabelTransactions(c *gin.Context) {
	userID, ok := authorizeParam(c)
	if !ok {
		return
	}
	txs, err := h.svc.Transactions.ListByLabel(c.Request.Context(), userID, c.Param("label"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (h *handlers) convertTransaction(c *gin.Context) {
	if _, ok := h.ownedTransaction(c, "transactionId"); !ok {
		return
	}
	conv, err := h.svc.Currency.Convert(c.Request.Context(), c.Param("transactionId"), c.Param("toCurrency"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}
