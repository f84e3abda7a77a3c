package middleware

import "net/http"

// APIKeyAuth guards merchant admin routes. The key is passed in the
// "api_key" header; session handling lives outside this service.
func APIKeyAuth(validKeys []string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("api_key")

			if apiKey == "" {
				http.Error(w, "Unauthorized: API key required", http.StatusUnauthorized)
				return
			}

			valid := false
			for _, k := range validKeys {
				if apiKey == k {
					valid = true
					break
				}
			}
			if !valid {
				http.Error(w, "Forbidden: Invalid API key", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
