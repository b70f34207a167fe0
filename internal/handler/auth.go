package handler

import (
	"net/http"
	"strings"
	"time"

	"expense-ledger/internal/middleware"
	"expense-ledger/internal/service"
	"expense-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves sign-up and token endpoints.
type AuthHandler struct {
	users    *service.UserService
	tokenTTL time.Duration
}

func NewAuthHandler(users *service.UserService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{users: users, tokenTTL: tokenTTL}
}

// ---------- sign up ----------

type signUpReq struct {
	ID       string `json:"id" binding:"max=64"`
	Email    string `json:"email" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email, username and password are required")
		return
	}

	u, err := h.users.SignUp(c.Request.Context(), service.SignUpInput{
		ID:       req.ID,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"status":  util.StatusSuccess,
		"message": "You're signed up!",
		"id":      u.ID,
	})
}

// ---------- token ----------

// Token exchanges form-encoded username and password for a bearer token.
func (h *AuthHandler) Token(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if username == "" || password == "" {
		middleware.Unauthorized(c, "Unauthorized user!")
		return
	}

	token, err := h.users.Login(c.Request.Context(), username, password)
	if err != nil {
		writeError(c, err)
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(h.tokenTTL.Seconds()),
	})
}
