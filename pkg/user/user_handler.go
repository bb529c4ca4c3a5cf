package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jiraassist/dashboard/internal/rest"
	log "github.com/sirupsen/logrus"
)

type UserDTO struct {
	Uid         string      `json:"uid"`
	Username    string      `json:"username"`
	DisplayName string      `json:"displayName"`
	Settings    SettingsDTO `json:"settings"`
}

type SettingsDTO struct {
	Timezone          string   `json:"timezone"`
	MaxHoursPerDay    int      `json:"maxHours"`
	EpicNameField     string   `json:"epicNameField"`
	JiraUrl           string   `json:"jiraUrl"`
	WorkingDays       []string `json:"workingDays"`
	HolidayCalendarId string   `json:"holidayCalendarId"`
}

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{
		userService: userService,
	}
}

// CreateUser godoc
// @Summary Create a new user
// @Tags User
// @Accept json
// @Produce json
// @Param user body UserDTO true "User"
// @Success 201 {object} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/user [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating user")

	var user UserDTO
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	log.Tracef("Creating new user: %+v", user)

	createdUser, err := h.userService.CreateUser(r.Context(), dtoToUser(user))
	if err != nil {
		if errors.Is(err, ErrUserDataInvalid) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid user data", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, userToDTO(&createdUser))
}

// CurrentUser godoc
// @Summary Get current user
// @Tags User
// @Produce json
// @Success 200 {object} UserDTO
// @Failure 404 {string} string "User Not Found"
// @Router /api/user/current [get]
// @Security XUserId
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	log.Trace("Getting current user")

	currentUser, err := h.userService.GetCurrentUser(r.Context())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrNoUser) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rest.WriteJSON(w, http.StatusOK, userToDTO(&currentUser))
}

// UpdateUser godoc
// @Summary Update current user
// @Tags User
// @Accept json
// @Produce json
// @Param user body UserDTO true "User"
// @Success 200 {object} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/user/current [put]
// @Security XUserId
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	log.Trace("Updating user")

	var user UserDTO
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}

	updatedUser, err := h.userService.UpdateUser(r.Context(), dtoToUser(user))
	if err != nil {
		switch {
		case errors.Is(err, ErrUserDataInvalid):
			rest.WriteError(w, http.StatusBadRequest, "Invalid user data", err.Error())
		case errors.Is(err, ErrNoUser):
			http.Error(w, "user not found", http.StatusForbidden)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	log.Debug("Updated user: ", updatedUser.Username)

	rest.WriteJSON(w, http.StatusOK, userToDTO(&updatedUser))
}

func userToDTO(user *User) UserDTO {
	workingDays := make([]string, 0, len(user.Settings.WorkingDays))
	for _, d := range user.Settings.WorkingDays {
		workingDays = append(workingDays, d.String())
	}
	return UserDTO{
		Uid:         user.Uid,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Settings: SettingsDTO{
			Timezone:          user.Settings.Timezone,
			MaxHoursPerDay:    user.Settings.MaxHoursPerDay,
			EpicNameField:     user.Settings.EpicNameField,
			JiraUrl:           user.Settings.JiraUrl,
			WorkingDays:       workingDays,
			HolidayCalendarId: user.Settings.HolidayCalendarId,
		},
	}
}

func dtoToUser(dto UserDTO) User {
	workingDays := make([]time.Weekday, 0, len(dto.Settings.WorkingDays))
	for _, name := range dto.Settings.WorkingDays {
		for d := time.Sunday; d <= time.Saturday; d++ {
			if d.String() == name {
				workingDays = append(workingDays, d)
			}
		}
	}
	return User{
		Uid:         dto.Uid,
		Username:    dto.Username,
		DisplayName: dto.DisplayName,
		Settings: Settings{
			Timezone:          dto.Settings.Timezone,
			MaxHoursPerDay:    dto.Settings.MaxHoursPerDay,
			EpicNameField:     dto.Settings.EpicNameField,
			JiraUrl:           dto.Settings.JiraUrl,
			WorkingDays:       workingDays,
			HolidayCalendarId: dto.Settings.HolidayCalendarId,
		},
	}
}
