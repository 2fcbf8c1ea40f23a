package services

import "Gin_postgres_redis_task_api/models"

// HasRole reports whether the user holds the named role.
func HasRole(u *models.User, role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r.Name == role {
			return true
		}
	}
	return false
}

func IsAdmin(u *models.User) bool { return HasRole(u, models.RoleAdmin) }

func owns(u *models.User, t *models.Task) bool {
	return u != nil && t != nil && t.UserID == u.ID
}

// CanView: Admin 看全部，其他人只能看自己的
func CanView(u *models.User, t *models.Task) bool { return IsAdmin(u) || owns(u, t) }

func CanUpdate(u *models.User, t *models.Task) bool { return IsAdmin(u) || owns(u, t) }

func CanDelete(u *models.User, t *models.Task) bool { return IsAdmin(u) || owns(u, t) }
