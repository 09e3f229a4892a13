package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type signUpInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param input body signUpInput true "credentials"
// @Success 200 {object} map[string]int
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input signUpInput
	if !h.bindJSONOrBadRequest(c, &input) {
		return
	}

	id, err := h.services.SignUp(input.Username, input.Password)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "sign up", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

type signInInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary Obtain an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param input body signInInput true "credentials"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input signInInput
	if !h.bindJSONOrBadRequest(c, &input) {
		return
	}

	token, err := h.services.GenerateToken(input.Username, input.Password)
	if err != nil {
		h.log.Warnf("sign-in failed for %q: %v", input.Username, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
