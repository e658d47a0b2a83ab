package access

import "KeyVault/internal/model"

// Action — операция над проектом, требующая проверки прав.
type Action string

const (
	ViewProject      Action = "view_project"
	ListKeys         Action = "list_keys"
	CreateKey        Action = "create_key"
	UpdateKey        Action = "update_key"
	DeleteKey        Action = "delete_key"
	InviteMember     Action = "invite_member"
	ChangeMemberRole Action = "change_member_role"
	RemoveMember     Action = "remove_member"
	EditProject      Action = "edit_project"
	DeleteProject    Action = "delete_project"
	LeaveProject     Action = "leave_project"
)

// matrix — единственная таблица разрешений. Чего нет в таблице, то запрещено.
var matrix = map[Action][]Role{
	ViewProject:      {RoleOwner, RoleEditor, RoleViewer},
	ListKeys:         {RoleOwner, RoleEditor, RoleViewer},
	CreateKey:        {RoleOwner, RoleEditor},
	UpdateKey:        {RoleOwner, RoleEditor},
	DeleteKey:        {RoleOwner, RoleEditor},
	InviteMember:     {RoleOwner},
	ChangeMemberRole: {RoleOwner},
	RemoveMember:     {RoleOwner},
	EditProject:      {RoleOwner},
	DeleteProject:    {RoleOwner},
	LeaveProject:     {RoleEditor, RoleViewer},
}

// Can сообщает, разрешено ли действие для роли.
func Can(role Role, action Action) bool {
	for _, r := range matrix[action] {
		if r == role {
			return true
		}
	}
	return false
}

// Check вычисляет роль пользователя в проекте и проверяет действие.
func Check(p *model.Project, userID int64, action Action) (Role, bool) {
	role := EffectiveRole(p, userID)
	return role, Can(role, action)
}
