package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/devconnect/internal/services"
)

type ProfileHandler struct {
	svc services.ProfileService
}

func NewProfileHandler(svc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}

	p, err := h.svc.GetMe(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) Upsert(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req services.UpsertProfileInput
	if !bindJSON(c, "ProfileHandler.Upsert", &req) {
		return
	}

	p, err := h.svc.Upsert(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *ProfileHandler) GetByUserID(c *gin.Context) {
	p, err := h.svc.GetByUserID(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}

	msg, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: msg})
}

func (h *ProfileHandler) AddExperience(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req services.ExperienceInput
	if !bindJSON(c, "ProfileHandler.AddExperience", &req) {
		return
	}

	p, err := h.svc.AddExperience(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}

	p, err := h.svc.RemoveExperience(c.Request.Context(), id, c.Param("exp_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) AddEducation(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req services.EducationInput
	if !bindJSON(c, "ProfileHandler.AddEducation", &req) {
		return
	}

	p, err := h.svc.AddEducation(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	id, ok := requireIdentity(c)
	if !ok {
		return
	}

	p, err := h.svc.RemoveEducation(c.Request.Context(), id, c.Param("edu_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
