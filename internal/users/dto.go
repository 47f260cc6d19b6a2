package users

import "github.com/nmoreno/biblio-backend/pkg/enums"

// CreateUserInput carries the fields required to register a member.
type CreateUserInput struct {
	Name             string
	Email            string
	Address          string
	Phone            string
	MembershipStatus enums.MembershipStatus
}

// UpdateUserInput lists the mutable profile fields. Nil means "leave as is".
// Explicit typed fields replace the source's free-form partial-field maps so a
// typo cannot silently create a new attribute.
type UpdateUserInput struct {
	Name             *string
	Email            *string
	Address          *string
	Phone            *string
	MembershipStatus *enums.MembershipStatus
}

func (in UpdateUserInput) changes() map[string]any {
	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	if in.Address != nil {
		updates["address"] = *in.Address
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.MembershipStatus != nil {
		updates["membership_status"] = *in.MembershipStatus
	}
	return updates
}
