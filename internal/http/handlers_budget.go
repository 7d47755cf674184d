package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/core"
)

func (h *handlers) createBudget(c *gin.Context) {
	var b core.Budget
	if err := bindJSON(c, &b); err != nil {
		respondError(c, err)
		return
	}
	userID, err := ownUserID(c, b.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	b.UserID = userID

	created, err := h.svc.Budgets.Create(c.Request.Context(), b)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) listBudgets(c *gin.Context) {
	budgets, err := h.svc.Budgets.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, budgets)
}

func (h *handlers) ownedBudget(c *gin.Context) bool {
	b, err := h.svc.Budgets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return false
	}
	return authorizeRecord(c, b.UserID)
}

func (h *handlers) updateBudget(c *gin.Context) {
	var patch core.BudgetPatch
	if err := bindJSON(c, &patch); err != nil {
		respondError(c, err)
		return
	}
	if !h.ownedBudget(c) {
		return
	}
	updated, err := h.svc.Budgets.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteBudget(c *gin.Context) {
	if !h.ownedBudget(c) {
		return
	}
	deleted, err := h.svc.Budgets.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deleted)
}

func (h *handlers) listUserBudgets(c *gin.Context) {
	userID, ok := authorizeParam(c)
	if !ok {
		return
	}
	budgets, err := h.svc.Budgets.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, budgets)
}

func (h *handlers) refreshMonthlyBudget(c *gin.Context) {
	userID, ok := authorizeParam(c)
	if !ok {
		return
	}
	params, err := parseMonthParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	snap, err := h.svc.Budgets.RefreshMonthly(c.Request.Context(), userID, params.Month, params.Year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
