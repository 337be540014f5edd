package handler

import (
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/sorenh/crmdash/internal/domain/auth"
)

// APIKeyHeader carries the client credential.
const APIKeyHeader = "X-Api-Key"

// APIKeyAuth returns a middleware authenticating requests via HMAC-SHA256
// hashed API keys: the presented key is hashed under the server pepper,
// looked up, and compared in constant time to guard against timing
// side-channels even when the lookup already succeeded.
func APIKeyAuth(apikeys auth.Repository, pepper []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)
			if key == "" {
				writeError(w, http.StatusUnauthorized, "missing api key")
				return
			}

			hash := auth.HashKey(pepper, key)
			info, err := apikeys.FindByHash(r.Context(), hash)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			stored, err := hex.DecodeString(info.KeyHash)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			computed, err := hex.DecodeString(hash)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if subtle.ConstantTimeCompare(computed, stored) != 1 {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
