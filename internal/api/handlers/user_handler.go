package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/devconnect/internal/services"
)

type UserHandler struct {
	svc services.UserService
}

func NewUserHandler(svc services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if !bindJSON(c, "UserHandler.Register", &req) {
		return
	}

	tok, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: tok})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req services.LoginInput
	if !bindJSON(c, "UserHandler.Login", &req) {
		return
	}

	tok, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: tok})
}

func (h *UserHandler) Me(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}

	u, err := h.svc.Me(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
