package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nmoreno/biblio-backend/api/responses"
	"github.com/nmoreno/biblio-backend/api/validators"
	usersvc "github.com/nmoreno/biblio-backend/internal/users"
	"github.com/nmoreno/biblio-backend/pkg/enums"
	pkgerrors "github.com/nmoreno/biblio-backend/pkg/errors"
	"github.com/nmoreno/biblio-backend/pkg/logger"
	"github.com/nmoreno/biblio-backend/pkg/types"
)

// CreateUser registers a new library member.
func CreateUser(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		var payload createUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.CreateUser(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

// GetUser loads a member by path id, or by email when the query form is used.
func GetUser(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUserID(chi.URLParam(r, "userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.GetUser(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// FindUserByEmail resolves a member from the email query parameter.
func FindUserByEmail(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := strings.TrimSpace(r.URL.Query().Get("email"))
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "email query parameter required"))
			return
		}

		user, err := svc.GetUserByEmail(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// UpdateUser applies a partial profile update and reports how many fields changed.
func UpdateUser(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUserID(chi.URLParam(r, "userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		changed, err := svc.UpdateUser(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int{"fields_changed": changed})
	}
}

// DeleteUser removes a member unless open orders block the deletion.
func DeleteUser(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUserID(chi.URLParam(r, "userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deleted, err := svc.DeleteUser(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deleted": deleted})
	}
}

type createUserRequest struct {
	Name             string `json:"name" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Address          string `json:"address,omitempty"`
	Phone            string `json:"phone,omitempty"`
	MembershipStatus string `json:"membership_status,omitempty"`
}

func (r createUserRequest) toInput() (usersvc.CreateUserInput, error) {
	input := usersvc.CreateUserInput{
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.TrimSpace(r.Email),
		Address: strings.TrimSpace(r.Address),
		Phone:   strings.TrimSpace(r.Phone),
	}
	if raw := strings.TrimSpace(r.MembershipStatus); raw != "" {
		status, err := enums.ParseMembershipStatus(raw)
		if err != nil {
			return usersvc.CreateUserInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid membership status")
		}
		input.MembershipStatus = status
	}
	return input, nil
}

type updateUserRequest struct {
	Name             *string `json:"name,omitempty"`
	Email            *string `json:"email,omitempty" validate:"omitempty,email"`
	Address          *string `json:"address,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	MembershipStatus *string `json:"membership_status,omitempty"`
}

func (r updateUserRequest) toInput() (usersvc.UpdateUserInput, error) {
	input := usersvc.UpdateUserInput{
		Name:    r.Name,
		Email:   r.Email,
		Address: r.Address,
		Phone:   r.Phone,
	}
	if r.MembershipStatus != nil {
		status, err := enums.ParseMembershipStatus(strings.TrimSpace(*r.MembershipStatus))
		if err != nil {
			return usersvc.UpdateUserInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid membership status")
		}
		input.MembershipStatus = &status
	}
	return input, nil
}

func parseUserID(raw string) (types.UserID, error) {
	id, err := types.ParseUserID(strings.TrimSpace(raw))
	if err != nil {
		return types.NilUserID, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return id, nil
}
