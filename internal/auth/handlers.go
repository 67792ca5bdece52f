package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"absencer/internal/api"
	"absencer/internal/requestctx"
)

// RoleOperator is the single role the service knows: someone allowed to
// upload sheets and run reconciliations.
const RoleOperator = "operator"

type Handler struct {
	Secret       string
	PasswordHash string
	TokenTTL     time.Duration
}

func NewHandler(secret, passwordHash string, tokenTTL time.Duration) *Handler {
	return &Handler{Secret: secret, PasswordHash: passwordHash, TokenTTL: tokenTTL}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	if h.Secret == "" {
		api.Fail(w, http.StatusNotFound, "auth_disabled", "authentication is not configured", reqID)
		return
	}

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid JSON body", reqID)
		return
	}
	if err := CheckPassword(h.PasswordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "wrong password", reqID)
		return
	}

	token, err := GenerateToken(h.Secret, Claims{Role: RoleOperator}, h.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_failed", "failed to issue token", reqID)
		return
	}
	api.Success(w, loginResponse{Token: token, ExpiresAt: time.Now().Add(h.TokenTTL)}, reqID)
}
