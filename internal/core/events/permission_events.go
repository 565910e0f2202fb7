package events

const (
	EventTypeRoleGrantChanged = "permission.role_grant_changed"
	EventTypeUserGrantChanged = "permission.user_grant_changed"
)

type RoleGrantChangedEvent struct {
	BaseEvent
	Role       string `json:"role"`
	Permission string `json:"permission"`
	Granted    bool   `json:"granted"`
}

func NewRoleGrantChangedEvent(role, permission string, granted bool) *RoleGrantChangedEvent {
	return &RoleGrantChangedEvent{
		BaseEvent: NewBaseEvent(EventTypeRoleGrantChanged, map[string]interface{}{
			"role":       role,
			"permission": permission,
			"granted":    granted,
		}),
		Role:       role,
		Permission: permission,
		Granted:    granted,
	}
}

type UserGrantChangedEvent struct {
	BaseEvent
	UserID     int64  `json:"user_id"`
	Permission string `json:"permission"`
	Granted    bool   `json:"granted"`
	GrantedBy  *int64 `json:"granted_by,omitempty"`
}

func NewUserGrantChangedEvent(userID int64, permission string, granted bool, grantedBy *int64) *UserGrantChangedEvent {
	return &UserGrantChangedEvent{
		BaseEvent: NewBaseEvent(EventTypeUserGrantChanged, map[string]interface{}{
			"user_id":    userID,
			"permission": permission,
			"granted":    granted,
		}),
		UserID:     userID,
		Permission: permission,
		Granted:    granted,
		GrantedBy:  grantedBy,
	}
}
