package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SlotEngine/internal/api/handlers"
)

// UserIDHeader заголовок с ID пользователя, проставляемый шлюзом
const UserIDHeader = "X-User-ID"

type userIDKey struct{}

// Auth требует заголовок X-User-ID с положительным числом
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(UserIDHeader), 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext ID пользователя, проверенный Auth
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey{}).(int64)
	return id, ok
}
