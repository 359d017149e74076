package www

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"servicetrack/store"
	"servicetrack/tracking"
)

type registerRequest struct {
	Name     string `json:"name"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handlers) apiRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "", "Invalid request body.")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Mobile = strings.TrimSpace(req.Mobile)
	if req.Name == "" || req.Mobile == "" || req.Password == "" || req.Role == "" {
		writeFailure(w, http.StatusBadRequest, "", "All fields are required.")
		return
	}
	if !tracking.IsAllowedRole(req.Role) {
		writeFailure(w, http.StatusBadRequest, "", "Invalid role.")
		return
	}

	exists, err := h.engine.DB().UserExistsByMobile(req.Mobile)
	if err != nil {
		log.Printf("register %s: %v", req.Mobile, err)
		writeFailure(w, http.StatusInternalServerError, "", "Server error")
		return
	}
	if exists {
		writeFailure(w, http.StatusBadRequest, "", "User already exists with this mobile number.")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		log.Printf("register %s: %v", req.Mobile, err)
		writeFailure(w, http.StatusInternalServerError, "", "Server error")
		return
	}
	var email *string
	if req.Email != "" {
		email = &req.Email
	}
	user := store.User{
		Name:         req.Name,
		Mobile:       req.Mobile,
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := h.engine.DB().CreateUser(&user); err != nil {
		log.Printf("register %s: %v", req.Mobile, err)
		writeFailure(w, http.StatusInternalServerError, "", "Server error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User registered successfully.",
		"user":    user,
	})
}

func (h *Handlers) apiLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "", "Invalid request body.")
		return
	}
	req.Mobile = strings.TrimSpace(req.Mobile)
	if req.Mobile == "" || req.Password == "" || req.Role == "" {
		writeFailure(w, http.StatusBadRequest, "", "All fields are required.")
		return
	}

	user, err := h.engine.DB().GetUserByMobileRole(req.Mobile, req.Role)
	if err != nil {
		log.Printf("login %s: %v", req.Mobile, err)
		writeFailure(w, http.StatusInternalServerError, "", "Server error")
		return
	}
	if user == nil || !checkPassword(req.Password, user.PasswordHash) {
		writeFailure(w, http.StatusUnauthorized, "", "Invalid credentials.")
		return
	}

	h.sessions.setUser(w, r, user.Name, user.Role)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Login successful.",
		"user":    user,
	})
}

func (h *Handlers) apiLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.clear(w, r)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out successfully.",
	})
}

func (h *Handlers) apiListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.engine.DB().ListUsers()
	if err != nil {
		log.Printf("list users: %v", err)
		writeFailure(w, http.StatusInternalServerError, "", "Server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "users": users})
}
