package devserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tasker/internal/backend/fallback"
	"tasker/internal/service"
)

const (
	bearerPrefix      = "Bearer "
	contextKeyUserID  = "user_id"
	msgAuthRequired   = "Authorization required"
	msgBadCredentials = "Invalid credentials"
)

type account struct {
	user service.User
	hash []byte
}

type authResponse struct {
	User  service.User `json:"user"`
	Token string       `json:"token"`
}

func (s *Server) login(c *gin.Context) {
	var req service.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[emailKey(req.Email)]
	s.mu.Unlock()
	if !ok {
		abort(c, http.StatusUnauthorized, msgBadCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(req.Password)); err != nil {
		abort(c, http.StatusUnauthorized, msgBadCredentials)
		return
	}

	c.JSON(http.StatusOK, authResponse{User: acct.user, Token: s.newSession(acct.user.ID)})
}

func (s *Server) signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		abort(c, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("hash password", "err", err)
		abort(c, http.StatusInternalServerError, "Signup failed")
		return
	}

	s.mu.Lock()
	key := emailKey(req.Email)
	if _, exists := s.accounts[key]; exists {
		s.mu.Unlock()
		abort(c, http.StatusBadRequest, "User already exists")
		return
	}
	s.lastUser++
	user := service.User{
		ID:    service.ID(strconv.FormatInt(s.lastUser, 10)),
		Name:  req.Name,
		Email: req.Email,
	}
	s.accounts[key] = &account{user: user, hash: hash}
	store := fallback.New(nil)
	store.SetClock(s.now)
	s.stores[user.ID] = store
	s.mu.Unlock()

	c.JSON(http.StatusCreated, authResponse{User: user, Token: s.newSession(user.ID)})
}

func (s *Server) newSession(userID service.ID) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = userID
	s.mu.Unlock()
	return token
}

// requireToken checks the bearer token and sets the user id in context.
// Missing or unknown tokens get 401.
func (s *Server) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			abort(c, http.StatusUnauthorized, msgAuthRequired)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))

		s.mu.Lock()
		userID, ok := s.sessions[token]
		s.mu.Unlock()
		if !ok {
			abort(c, http.StatusUnauthorized, msgAuthRequired)
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}

// storeFor returns the task store of the authenticated user.
func (s *Server) storeFor(c *gin.Context) *fallback.Store {
	userID, _ := c.Get(contextKeyUserID)
	id, _ := userID.(service.ID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stores[id]
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
