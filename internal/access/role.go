// Package access вычисляет эффективную роль пользователя в проекте и
// проверяет по ней разрешения. Все операции с проектом проходят через Can.
package access

import "KeyVault/internal/model"

// Role — эффективная роль пользователя в конкретном проекте.
type Role int

const (
	RoleNone Role = iota
	RoleViewer
	RoleEditor
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleEditor:
		return "editor"
	case RoleViewer:
		return "viewer"
	default:
		return "none"
	}
}

// MarshalText отдаёт роль строкой в JSON.
func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// EffectiveRole: владелец — RoleOwner; принятый участник — его роль;
// приглашённый, но не принявший, и посторонний — RoleNone.
func EffectiveRole(p *model.Project, userID int64) Role {
	if p == nil || userID == 0 {
		return RoleNone
	}
	if p.OwnerID == userID {
		return RoleOwner
	}
	m, _ := p.FindMember(userID)
	if m == nil || m.Status != model.MemberAccepted {
		return RoleNone
	}
	switch m.Role {
	case model.MemberEditor:
		return RoleEditor
	case model.MemberViewer:
		return RoleViewer
	default:
		return RoleNone
	}
}
