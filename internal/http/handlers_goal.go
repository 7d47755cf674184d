package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/core"
)

func (h *handlers) createGoal(c *gin.Context) {
	var g core.Goal
	if err := bindJSON(c, &g); err != nil {
		respondError(c, err)
		return
	}
	userID, err := ownUserID(c, g.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	g.UserID = userID

	created, err := h.svc.Goals.Create(c.Request.Context(), g)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) listGoals(c *gin.Context) {
	goals, err := h.svc.Goals.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

func (h *handlers) ownedGoal(c *gin.Context) bool {
	g, err := h.svc.Goals.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return false
	}
	return authorizeRecord(c, g.UserID)
}

func (h *handlers) updateGoal(c *gin.Context) {
	var patch core.GoalPatch
	if err := bindJSON(c, &patch); err != nil {
		respondError(c, err)
		return
	}
	if !h.ownedGoal(c) {
		return
	}
	updated, err := h.svc.Goals.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteGoal(c *gin.Context) {
	if !h.ownedGoal(c) {
		return
	}
	deleted, err := h.svc.Goals.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deleted)
}

func (h *handlers) listUserGoals(c *gin.Context) {
	userID, ok := authorizeParam(c)
	if !ok {
		return
	}
	goals, err := h.svc.Goals.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

func (h *handlers) allocateIncome(c *gin.Context) {
	userID, ok := authorizeParam(c)
	if !ok {
		return
	}
	percentage, err := parsePercentage(c)
	if err != nil {
		respondError(c, err)
		return
	}
	alloc, err := h.svc.Goals.AllocateIncome(c.Request.Context(), userID, percentage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alloc)
}
