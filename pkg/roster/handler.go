package roster

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jiraassist/dashboard/internal/rest"
	log "github.com/sirupsen/logrus"
)

type MemberDTO struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

type GroupDTO struct {
	Name  string      `json:"name"`
	Users []MemberDTO `json:"users"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetGroups godoc
// @Summary List user groups shown by the worklog gadget
// @Tags Roster
// @Produce json
// @Success 200 {array} GroupDTO
// @Router /api/roster/groups [get]
// @Security XUserId
func (h *Handler) GetGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.GetUserGroups(r.Context())
	if err != nil {
		log.Errorf("failed to get user groups: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, groupsToDTO(groups))
}

// StoreGroups godoc
// @Summary Replace user groups
// @Tags Roster
// @Accept json
// @Produce json
// @Param groups body []GroupDTO true "Groups"
// @Success 200 {array} GroupDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/roster/groups [put]
// @Security XUserId
func (h *Handler) StoreGroups(w http.ResponseWriter, r *http.Request) {
	var groupsDTO []GroupDTO
	if err := json.NewDecoder(r.Body).Decode(&groupsDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}

	stored, err := h.service.StoreUserGroups(r.Context(), dtoToGroups(groupsDTO))
	if err != nil {
		if errors.Is(err, ErrInvalidGroups) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid user groups", err.Error())
			return
		}
		log.Errorf("failed to store user groups: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, groupsToDTO(stored))
}

func groupsToDTO(groups []Group) []GroupDTO {
	result := make([]GroupDTO, 0, len(groups))
	for _, group := range groups {
		users := make([]MemberDTO, 0, len(group.Users))
		for _, member := range group.Users {
			users = append(users, MemberDTO{Name: member.Name, DisplayName: member.DisplayName, EmailAddress: member.EmailAddress})
		}
		result = append(result, GroupDTO{Name: group.Name, Users: users})
	}
	return result
}

func dtoToGroups(dto []GroupDTO) []Group {
	result := make([]Group, 0, len(dto))
	for _, group := range dto {
		users := make([]Member, 0, len(group.Users))
		for _, member := range group.Users {
			users = append(users, Member{Name: member.Name, DisplayName: member.DisplayName, EmailAddress: member.EmailAddress})
		}
		result = append(result, Group{Name: group.Name, Users: users})
	}
	return result
}
