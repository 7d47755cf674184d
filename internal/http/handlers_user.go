package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

func (h *handlers) signup(c *gin.Context) {
	var in services.SignupInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, err)
		return
	}
	session, err := h.svc.Users.Signup(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *handlers) login(c *gin.Context) {
	var in services.LoginInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, err)
		return
	}
	session, err := h.svc.Users.Login(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *handlers) listUsers(c *gin.Context) {
	users, err := h.svc.Users.ListRegular(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *handlers) getUser(c *gin.Context) {
	user, err := h.svc.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handlers) updateUser(c *gin.Context) {
	var patch core.UserPatch
	if err := bindJSON(c, &patch); err != nil {
		respondError(c, err)
		return
	}
	user, err := h.svc.Users.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handlers) deleteUser(c *gin.Context) {
	user, err := h.svc.Users.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
