package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/devconnect/internal/services"
)

type GitHubHandler struct {
	svc services.GitHubService
}

func NewGitHubHandler(svc services.GitHubService) *GitHubHandler {
	return &GitHubHandler{svc: svc}
}

func (h *GitHubHandler) Repos(c *gin.Context) {
	body, err := h.svc.Repos(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
