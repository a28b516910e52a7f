package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Brandon-bit8/LaloA/domain"
)

// Auth handlers

// isUniqueViolation matches UNIQUE constraint errors from both backends:
// modernc sqlite reports "UNIQUE constraint failed", PostgreSQL raises
// SQLSTATE 23505.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value")
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Name = strings.TrimSpace(req.Name)
	if req.Username == "" || req.Password == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest, "username, password and name are required")
		return
	}

	var exists bool
	if err := h.db.Get(&exists, h.db.Rebind(`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`), req.Username); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to check username")
		return
	}
	if exists {
		respondError(w, http.StatusConflict, "el nombre de usuario ya está en uso")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}

	// Self-registration always yields a client; admin and supplier
	// accounts are seeded or created out of band.
	user := domain.User{
		ID:       uuid.NewString(),
		Username: req.Username,
		Role:     "client",
		Name:     req.Name,
	}
	if _, err := h.db.Exec(h.db.Rebind(`INSERT INTO users (id, username, password, role, name) VALUES (?, ?, ?, ?, ?)`),
		user.ID, user.Username, hashed, user.Role, user.Name); err != nil {
		// A concurrent registration can slip past the EXISTS pre-check
		// and land on the UNIQUE constraint instead.
		if isUniqueViolation(err) {
			respondError(w, http.StatusConflict, "el nombre de usuario ya está en uso")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to register user")
		return
	}

	token, err := h.generateToken(user.ID, user.Role, user.Name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var user domain.User
	err := h.db.Get(&user, h.db.Rebind(`SELECT id, username, password, role, name, share_code FROM users WHERE username = ?`), strings.TrimSpace(req.Username))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "usuario o contraseña incorrectos")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "usuario o contraseña incorrectos")
		return
	}

	token, err := h.generateToken(user.ID, user.Role, user.Name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}

	user.Password = ""
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// loginWithCode resolves a share code to its owning account and issues a
// token for that account's role. This backs the /login?code= deep link:
// the code is a bearer credential with no expiry, live until the owner
// regenerates it.
func (h *Handler) loginWithCode(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		respondError(w, http.StatusBadRequest, "code is required")
		return
	}

	var user domain.User
	err := h.db.Get(&user, h.db.Rebind(`SELECT id, username, role, name, share_code FROM users WHERE share_code = ?`), code)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "código de acceso inválido")
		return
	}

	token, err := h.generateToken(user.ID, user.Role, user.Name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// generateShareCode mints a fresh code for the caller, replacing any
// previous one. Rotation is the only revocation mechanism.
func (h *Handler) generateShareCode(w http.ResponseWriter, r *http.Request) {
	code := strings.Split(uuid.NewString(), "-")[0]
	uid := userIDFromContext(r)

	res, err := h.db.Exec(h.db.Rebind(`UPDATE users SET share_code = ? WHERE id = ?`), code, uid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to store share code")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"share_code": code})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "new_password is required")
		return
	}
	uid := userIDFromContext(r)
	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}
	if _, err := h.db.Exec(h.db.Rebind(`UPDATE users SET password = ? WHERE id = ?`), hashed, uid); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update password")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}
