package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stawicover/agency-api/internal/middleware"
	"github.com/stawicover/agency-api/internal/user/domain"
	"github.com/stawicover/agency-api/internal/user/usecase/command"
	"github.com/stawicover/agency-api/pkg/logger"
	"github.com/stawicover/agency-api/pkg/response"
)

// UserHandler handles authentication endpoints.
type UserHandler struct {
	registerHandler *command.RegisterHandler
	loginHandler    *command.LoginHandler
	repo            domain.UserRepository
}

// NewUserHandler creates a new user handler.
func NewUserHandler(repo domain.UserRepository) *UserHandler {
	return &UserHandler{
		registerHandler: command.NewRegisterHandler(repo),
		loginHandler:    command.NewLoginHandler(repo),
		repo:            repo,
	}
}

// Register handles POST /api/auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var cmd command.RegisterCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	user, err := h.registerHandler.Handle(cmd)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Registration failed", err.Error())
		return
	}

	logger.Info(r.Context()).Uint("user_id", user.ID).Msg("User registered")
	response.Created(w, "User registered successfully", user)
}

// Login handles POST /api/auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var cmd command.LoginCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	result, err := h.loginHandler.Handle(cmd)
	if err != nil {
		response.Fail(w, http.StatusUnauthorized, "Invalid credentials", "")
		return
	}
	response.OK(w, "Login successful", result)
}

// Profile handles GET /api/auth/profile
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Fail(w, http.StatusUnauthorized, "Authentication required", "")
		return
	}

	user, err := h.repo.FindByID(userID)
	if err != nil {
		response.Fail(w, http.StatusNotFound, "User not found", "")
		return
	}
	response.OK(w, "", user)
}

// RegisterRoutes registers authentication routes.
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/auth/register", h.Register).Methods("POST")
	router.HandleFunc("/api/auth/login", h.Login).Methods("POST")
	router.HandleFunc("/api/auth/profile", middleware.Auth(h.Profile)).Methods("GET")
}
