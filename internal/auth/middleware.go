package auth

import (
	"net/http"

	"ms-eventos/internal/utils"
)

const unauthorizedMessage = "Token de autenticação inválido ou não fornecido."

// Middleware guards every route behind a single shared API token.
// There is no per-user identity, expiry or lockout: the contract is
// exact string equality against the configured token, and rejected
// requests never reach the handlers.
func Middleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse(unauthorizedMessage))
				return
			}

			if ExtractToken(header) != token {
				utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse(unauthorizedMessage))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
