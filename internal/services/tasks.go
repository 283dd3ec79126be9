package services

import (
	"errors"
	"strings"
	"time"

	"taskflow/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type TaskCreateRequest struct {
	Title       string          `json:"title" binding:"required,min=3,max=100"`
	Description string          `json:"description" binding:"max=500"`
	Status      models.Status   `json:"status" binding:"omitempty,oneof=todo in-progress done"`
	Priority    models.Priority `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time      `json:"due_date"`
}

// TaskUpdateRequest uses pointer fields so absent keys are left untouched.
// Owner is deliberately not updatable.
type TaskUpdateRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=3,max=100"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	Status      *models.Status   `json:"status" binding:"omitempty,oneof=todo in-progress done"`
	Priority    *models.Priority `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time       `json:"due_date"`
}

type ListQuery struct {
	Status   models.Status
	Priority models.Priority
	Sort     string
	Page     int
	Limit    int
}

type TaskStats struct {
	Total          int64 `json:"total"`
	Todo           int64 `json:"todo"`
	InProgress     int64 `json:"in_progress"`
	Done           int64 `json:"done"`
	HighPriority   int64 `json:"high_priority"`
	MediumPriority int64 `json:"medium_priority"`
	LowPriority    int64 `json:"low_priority"`
}

type TaskService interface {
	CreateTask(db *gorm.DB, user *models.User, req TaskCreateRequest) (*models.Task, error)
	GetTask(db *gorm.DB, user *models.User, id uuid.UUID) (*models.Task, error)
	UpdateTask(db *gorm.DB, user *models.User, id uuid.UUID, req TaskUpdateRequest) (*models.Task, error)
	DeleteTask(db *gorm.DB, user *models.User, id uuid.UUID) error
	ListTasks(db *gorm.DB, user *models.User, q ListQuery) ([]models.Task, int64, error)
	GetStats(db *gorm.DB, user *models.User) (TaskStats, error)
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, user *models.User, req TaskCreateRequest) (*models.Task, error) {
	status := req.Status
	if status == "" {
		status = models.StatusTodo
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		OwnerID:     user.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Status:      status,
		Priority:    priority,
		DueDate:     req.DueDate,
	}

	if err := db.Create(&task).Error; err != nil {
		return nil, err
	}

	task.Owner = user
	return &task, nil
}

// GetTask loads a task and applies the access policy. A missing task is
// ErrTaskNotFound; an existing task the caller may not touch is
// ErrForbidden, never conflated.
func (s *TaskServiceImpl) GetTask(db *gorm.DB, user *models.User, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := db.Preload("Owner").First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	if !CanAccess(user, &task) {
		return nil, ErrForbidden
	}

	return &task, nil
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, user *models.User, id uuid.UUID, req TaskUpdateRequest) (*models.Task, error) {
	task, err := s.GetTask(db, user, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}

	if len(updates) > 0 {
		if err := db.Model(task).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.GetTask(db, user, id)
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, user *models.User, id uuid.UUID) error {
	task, err := s.GetTask(db, user, id)
	if err != nil {
		return err
	}
	return db.Delete(task).Error
}

func (s *TaskServiceImpl) ListTasks(db *gorm.DB, user *models.User, q ListQuery) ([]models.Task, int64, error) {
	query := ScopeTasks(db.Model(&models.Task{}), user)

	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.Priority != "" {
		query = query.Where("priority = ?", q.Priority)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch q.Sort {
	case "oldest":
		query = query.Order("created_at ASC")
	case "priority":
		query = query.Order("CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC").
			Order("created_at DESC")
	case "dueDate":
		query = query.Order("due_date ASC")
	default:
		query = query.Order("created_at DESC")
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 10
	}

	var tasks []models.Task
	err := query.Preload("Owner").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (s *TaskServiceImpl) GetStats(db *gorm.DB, user *models.User) (TaskStats, error) {
	var stats TaskStats
	err := ScopeTasks(db.Model(&models.Task{}), user).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = 'todo' THEN 1 ELSE 0 END), 0) AS todo,
			COALESCE(SUM(CASE WHEN status = 'in-progress' THEN 1 ELSE 0 END), 0) AS in_progress,
			COALESCE(SUM(CASE WHEN status = 'done' THEN 1 ELSE 0 END), 0) AS done,
			COALESCE(SUM(CASE WHEN priority = 'high' THEN 1 ELSE 0 END), 0) AS high_priority,
			COALESCE(SUM(CASE WHEN priority = 'medium' THEN 1 ELSE 0 END), 0) AS medium_priority,
			COALESCE(SUM(CASE WHEN priority = 'low' THEN 1 ELSE 0 END), 0) AS low_priority`).
		Scan(&stats).Error
	return stats, err
}
