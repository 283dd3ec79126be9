package services

import (
	"taskflow/backend/internal/models"

	"gorm.io/gorm"
)

// CanAccess is the single ownership rule for tasks: admins may act on any
// task, everyone else only on their own. Read, write and delete all resolve
// to the same predicate.
func CanAccess(user *models.User, task *models.Task) bool {
	return user.IsAdmin() || task.OwnerID == user.ID
}

// ScopeTasks narrows a task query to what user may see. Admins get the
// unfiltered query. The filter is applied here, before pagination, so
// totals and page counts reflect the visible scope.
func ScopeTasks(db *gorm.DB, user *models.User) *gorm.DB {
	if user.IsAdmin() {
		return db
	}
	return db.Where("owner_id = ?", user.ID)
}
