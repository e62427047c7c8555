package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/yeah-diary/diary-backend/internal/sessions"
	"github.com/yeah-diary/diary-backend/internal/users"
)

// Handler serves registration, login, logout and session checks.
type Handler struct {
	userRepo   *users.Repo
	sessions   *sessions.Store
	cookieName string
}

func NewHandler(userRepo *users.Repo, store *sessions.Store, cookieName string) *Handler {
	return &Handler{
		userRepo:   userRepo,
		sessions:   store,
		cookieName: cookieName,
	}
}

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user and logs them straight in.
func (h *Handler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username, email and password are required"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to register user"})
		return
	}

	user, err := h.userRepo.Create(c.Request.Context(), req.Username, req.Email, string(hash))
	if err != nil {
		if errors.Is(err, users.ErrUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "user already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to register user"})
		return
	}

	if err := h.startSession(c, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "registered but failed to start session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "registered", "user": user})
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies credentials and issues a session cookie.
func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}

	user, err := h.userRepo.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to log in"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	}

	if err := h.startSession(c, user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to start session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged in", "user": user})
}

// Logout ends the session and clears the cookie. Safe to call without a
// live session.
func (h *Handler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookieName); err == nil && token != "" {
		_ = h.sessions.Delete(c.Request.Context(), token)
	}
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// CheckSession tells the frontend whether a session cookie is still live.
func (h *Handler) CheckSession(c *gin.Context) {
	token, err := c.Cookie(h.cookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	sess, err := h.sessions.Get(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), sess.UserID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": user})
}

func (h *Handler) startSession(c *gin.Context, user *users.User) error {
	token, err := h.sessions.Create(c.Request.Context(), sessions.Session{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		return err
	}
	maxAge := int(h.sessions.TTL().Seconds())
	c.SetCookie(h.cookieName, token, maxAge, "/", "", false, true)
	return nil
}
