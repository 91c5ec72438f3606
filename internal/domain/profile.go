package domain

import (
	"time"

	"github.com/google/uuid"
)

// Роли и тарифы. Роль открывает админку, тариф — платные курсы.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"

	TypeBasic    = "basic"
	TypePremium  = "premium"
	TypePro      = "pro"
	TypeYearly   = "yearly"
	TypeLifetime = "lifetime"
)

type Profile struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null;size:100" json:"email"`
	Username string    `gorm:"uniqueIndex;not null;size:50" json:"username"`
	Password string    `gorm:"not null" json:"-"`

	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`

	Role     string `gorm:"default:'member'" json:"role"`
	UserType string `gorm:"default:'basic'" json:"user_type"`
	// Для yearly/premium/pro — когда истекает подписка. Для lifetime не заполняется.
	MembershipExpiresAt *time.Time `json:"membership_expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// EffectiveUserType возвращает тариф с учетом истекшей подписки.
// Истекший платный тариф деградирует до basic.
func (p *Profile) EffectiveUserType(now time.Time) string {
	if p.UserType == TypeBasic || p.UserType == TypeLifetime {
		return p.UserType
	}
	if p.MembershipExpiresAt != nil && now.After(*p.MembershipExpiresAt) {
		return TypeBasic
	}
	return p.UserType
}
