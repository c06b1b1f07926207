package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// TaskPriority ranks a task's urgency.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

// Valid reports whether p is a known task priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a unit of work scoped to a project. The assignee, when set, must
// hold a membership in the same project.
type Task struct {
	ID          bson.ObjectID  `bson:"_id,omitempty"         json:"id"`
	ProjectID   bson.ObjectID  `bson:"project_id"            json:"projectId"`
	Title       string         `bson:"title"                 json:"title"`
	Description string         `bson:"description,omitempty" json:"description,omitempty"`
	Status      TaskStatus     `bson:"status"                json:"status"`
	Priority    TaskPriority   `bson:"priority,omitempty"    json:"priority,omitempty"`
	AssigneeID  *bson.ObjectID `bson:"assignee_id,omitempty" json:"assigneeId,omitempty"`
	CreatedByID bson.ObjectID  `bson:"created_by_id"         json:"createdById"`
	CreatedAt   time.Time      `bson:"created_at"            json:"createdAt"`
	UpdatedAt   time.Time      `bson:"updated_at"            json:"updatedAt"`
}

// TaskComment is a comment on a task, authored by a project member.
type TaskComment struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	TaskID    bson.ObjectID `bson:"task_id"       json:"taskId"`
	AuthorID  bson.ObjectID `bson:"author_id"     json:"authorId"`
	Content   string        `bson:"content"       json:"content"`
	CreatedAt time.Time     `bson:"created_at"    json:"createdAt"`
	UpdatedAt time.Time     `bson:"updated_at"    json:"updatedAt"`
}
