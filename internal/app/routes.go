package app

import (
	"github.com/gorilla/mux"
	"github.com/jiraassist/dashboard/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")

	// Roster
	r.HandleFunc("/api/roster/groups", deps.RosterHandler.GetGroups).Methods("GET")
	r.HandleFunc("/api/roster/groups", deps.RosterHandler.StoreGroups).Methods("PUT")

	// Worklog gadget
	r.HandleFunc("/api/gadgets/worklog/settings", deps.WorklogHandler.GetSettings).Methods("GET")
	r.HandleFunc("/api/gadgets/worklog/settings", deps.WorklogHandler.StoreSettings).Methods("PUT")
	r.HandleFunc("/api/gadgets/worklog/{gadgetId}", deps.WorklogHandler.GetState).Methods("GET")
	r.HandleFunc("/api/gadgets/worklog/{gadgetId}/report", deps.WorklogHandler.GenerateReport).Methods("POST")

	// Jira integration
	r.HandleFunc("/api/integrations/jira/auth/login", deps.JiraAuth.OAuthLogin).Methods("GET")
	r.HandleFunc("/api/integrations/jira/auth/callback", deps.JiraAuth.OAuthCallback).Methods("GET")
	r.HandleFunc("/api/integrations/jira/auth/basic", deps.JiraAuth.StoreBasicCredentials).Methods("PUT")
	r.HandleFunc("/api/integrations/jira/auth", deps.JiraAuth.IsAuthenticated).Methods("GET")
	r.HandleFunc("/api/integrations/jira/auth", deps.JiraAuth.Disconnect).Methods("DELETE")
}
