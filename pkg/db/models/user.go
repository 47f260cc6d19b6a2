package models

import (
	"time"

	"github.com/nmoreno/biblio-backend/pkg/enums"
	"github.com/nmoreno/biblio-backend/pkg/types"
)

// User represents a library member.
type User struct {
	ID               types.UserID           `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string                 `gorm:"column:name;not null" json:"name"`
	Email            string                 `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Address          string                 `gorm:"column:address" json:"address"`
	Phone            string                 `gorm:"column:phone" json:"phone"`
	MembershipStatus enums.MembershipStatus `gorm:"column:membership_status;not null;default:active" json:"membership_status"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
