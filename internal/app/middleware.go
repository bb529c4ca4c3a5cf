package app

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jiraassist/dashboard/internal/config"
	"github.com/jiraassist/dashboard/internal/rest"
	"github.com/jiraassist/dashboard/pkg/user"
	log "github.com/sirupsen/logrus"
)

const userIdHeader = "X-User-Id"

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {
	r.Use(userContext(deps.UserService))
}

// userContext resolves the X-User-Id header into the session user. Requests without the
// header pass through anonymous; the OAuth callback carries the user in its state instead.
func userContext(userService user.Service) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			uid := strings.TrimSpace(req.Header.Get(userIdHeader))
			if uid == "" {
				next.ServeHTTP(w, req)
				return
			}

			u, err := userService.GetUserByUid(req.Context(), uid)
			if errors.Is(err, user.ErrUserNotFound) {
				log.Debugf("user not found: %s", uid)
				rest.WriteError(w, http.StatusForbidden, "User not found", uid)
				return
			}
			if err != nil {
				log.Errorf("failed to get user: %v", err)
				rest.WriteError(w, http.StatusBadRequest, "Unable to resolve user", err.Error())
				return
			}
			log.Tracef("request of user %s", u.Uid)
			next.ServeHTTP(w, req.WithContext(user.WithUser(req.Context(), u)))
		})
	}
}
