package usecase

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/teamforge/teamforge-api/services/collab-service/internal/model"
)

type taskFixture struct {
	usecase        TaskUsecase
	taskRepo       *fakeTaskRepo
	commentRepo    *fakeCommentRepo
	membershipRepo *fakeMembershipRepo
	ownerID        string
	memberID       string
	outsiderID     string
	projectID      string
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()

	taskRepo := newFakeTaskRepo()
	commentRepo := newFakeCommentRepo()
	projectRepo := newFakeProjectRepo()
	membershipRepo := newFakeMembershipRepo()
	transactor := &fakeTransactor{stores: []snapshotter{taskRepo, commentRepo}}

	ownerID := bson.NewObjectID()
	memberID := bson.NewObjectID()

	project, err := projectRepo.CreateProject(context.Background(), &model.Project{
		OwnerID:  ownerID,
		Title:    "Weather Station",
		Category: "IoT",
	})
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	for _, m := range []*model.Membership{
		{UserID: ownerID, ProjectID: project.ID, Role: model.RoleOwner, Status: model.MembershipStatusActive},
		{UserID: memberID, ProjectID: project.ID, Role: "Backend Developer", Status: model.MembershipStatusActive},
	} {
		if _, err := membershipRepo.CreateMembership(context.Background(), m); err != nil {
			t.Fatalf("CreateMembership() error = %v", err)
		}
	}

	return &taskFixture{
		usecase:        NewTaskUsecase(taskRepo, commentRepo, projectRepo, membershipRepo, transactor),
		taskRepo:       taskRepo,
		commentRepo:    commentRepo,
		membershipRepo: membershipRepo,
		ownerID:        ownerID.Hex(),
		memberID:       memberID.Hex(),
		outsiderID:     bson.NewObjectID().Hex(),
		projectID:      project.ID.Hex(),
	}
}

func (f *taskFixture) createTask(t *testing.T, creatorID string) *model.Task {
	t.Helper()

	task, err := f.usecase.CreateTask(context.Background(), creatorID, CreateTaskParams{
		ProjectID: f.projectID,
		Title:     "Wire sensors",
		Priority:  model.PriorityMedium,
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	return task
}

func TestCreateTask(t *testing.T) {
	t.Run("starts in TODO", func(t *testing.T) {
		f := newTaskFixture(t)

		task := f.createTask(t, f.memberID)
		if task.Status != model.TaskTodo {
			t.Errorf("status = %q, want TODO", task.Status)
		}
	})

	t.Run("members only", func(t *testing.T) {
		f := newTaskFixture(t)

		_, err := f.usecase.CreateTask(context.Background(), f.outsiderID, CreateTaskParams{
			ProjectID: f.projectID,
			Title:     "Wire sensors",
		})
		if !errors.Is(err, ErrNotProjectMember) {
			t.Errorf("error = %v, want ErrNotProjectMember", err)
		}
	})

	t.Run("assignee must be a member", func(t *testing.T) {
		f := newTaskFixture(t)

		_, err := f.usecase.CreateTask(context.Background(), f.memberID, CreateTaskParams{
			ProjectID:  f.projectID,
			Title:      "Wire sensors",
			AssigneeID: &f.outsiderID,
		})
		if !errors.Is(err, ErrAssigneeNotMember) {
			t.Fatalf("error = %v, want ErrAssigneeNotMember", err)
		}

		task, err := f.usecase.CreateTask(context.Background(), f.memberID, CreateTaskParams{
			ProjectID:  f.projectID,
			Title:      "Wire sensors",
			AssigneeID: &f.ownerID,
		})
		if err != nil {
			t.Fatalf("CreateTask() error = %v", err)
		}
		if task.AssigneeID == nil || task.AssigneeID.Hex() != f.ownerID {
			t.Error("assignee not stored")
		}
	})
}

func TestUpdateTask(t *testing.T) {
	t.Run("moves through statuses", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, f.memberID)

		status := model.TaskInProgress
		updated, err := f.usecase.UpdateTask(context.Background(), task.ID.Hex(), f.memberID, UpdateTaskParams{Status: &status})
		if err != nil {
			t.Fatalf("UpdateTask() error = %v", err)
		}
		if updated.Status != model.TaskInProgress {
			t.Errorf("status = %q, want IN_PROGRESS", updated.Status)
		}
	})

	t.Run("empty assignee clears the field", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, f.memberID)

		if _, err := f.usecase.UpdateTask(context.Background(), task.ID.Hex(), f.memberID, UpdateTaskParams{AssigneeID: &f.ownerID}); err != nil {
			t.Fatalf("assign error = %v", err)
		}

		empty := ""
		updated, err := f.usecase.UpdateTask(context.Background(), task.ID.Hex(), f.memberID, UpdateTaskParams{AssigneeID: &empty})
		if err != nil {
			t.Fatalf("unassign error = %v", err)
		}
		if updated.AssigneeID != nil {
			t.Error("assignee should be cleared")
		}
	})

	t.Run("members only", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, f.memberID)

		title := "Renamed"
		if _, err := f.usecase.UpdateTask(context.Background(), task.ID.Hex(), f.outsiderID, UpdateTaskParams{Title: &title}); !errors.Is(err, ErrNotProjectMember) {
			t.Errorf("error = %v, want ErrNotProjectMember", err)
		}
	})
}

func TestDeleteTask(t *testing.T) {
	t.Run("creator can delete, comments go with it", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, f.memberID)

		if _, err := f.usecase.CreateComment(context.Background(), task.ID.Hex(), f.ownerID, "looks good"); err != nil {
			t.Fatalf("CreateComment() error = %v", err)
		}

		if err := f.usecase.DeleteTask(context.Background(), task.ID.Hex(), f.memberID); err != nil {
			t.Fatalf("DeleteTask() error = %v", err)
		}

		if comments, _ := f.commentRepo.ListTaskComments(context.Background(), task.ID.Hex()); len(comments) != 0 {
			t.Error("comments should be deleted with the task")
		}
	})

	t.Run("owner can delete anyone's task", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, f.memberID)

		if err := f.usecase.DeleteTask(context.Background(), task.ID.Hex(), f.ownerID); err != nil {
			t.Errorf("DeleteTask() by owner error = %v", err)
		}
	})

	t.Run("other members cannot delete", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, f.ownerID)

		if err := f.usecase.DeleteTask(context.Background(), task.ID.Hex(), f.memberID); !errors.Is(err, ErrCannotDeleteTask) {
			t.Errorf("error = %v, want ErrCannotDeleteTask", err)
		}
	})
}

func TestComments(t *testing.T) {
	t.Run("members only", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, f.memberID)

		if _, err := f.usecase.CreateComment(context.Background(), task.ID.Hex(), f.outsiderID, "hi"); !errors.Is(err, ErrNotProjectMember) {
			t.Errorf("error = %v, want ErrNotProjectMember", err)
		}
	})

	t.Run("author edits own comment", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, f.memberID)

		comment, err := f.usecase.CreateComment(context.Background(), task.ID.Hex(), f.memberID, "first draft")
		if err != nil {
			t.Fatalf("CreateComment() error = %v", err)
		}

		if _, err := f.usecase.UpdateComment(context.Background(), comment.ID.Hex(), f.ownerID, "hijacked"); !errors.Is(err, ErrNotCommentAuthor) {
			t.Fatalf("edit by non-author error = %v, want ErrNotCommentAuthor", err)
		}

		updated, err := f.usecase.UpdateComment(context.Background(), comment.ID.Hex(), f.memberID, "final")
		if err != nil {
			t.Fatalf("UpdateComment() error = %v", err)
		}
		if updated.Content != "final" {
			t.Errorf("content = %q, want final", updated.Content)
		}
	})

	t.Run("owner moderates any comment", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, f.memberID)

		comment, err := f.usecase.CreateComment(context.Background(), task.ID.Hex(), f.memberID, "spam")
		if err != nil {
			t.Fatalf("CreateComment() error = %v", err)
		}

		if err := f.usecase.DeleteComment(context.Background(), comment.ID.Hex(), f.ownerID); err != nil {
			t.Errorf("DeleteComment() by owner error = %v", err)
		}
	})

	t.Run("member cannot delete another member's comment", func(t *testing.T) {
		f := newTaskFixture(t)
		task := f.createTask(t, f.memberID)

		comment, err := f.usecase.CreateComment(context.Background(), task.ID.Hex(), f.ownerID, "note")
		if err != nil {
			t.Fatalf("CreateComment() error = %v", err)
		}

		if err := f.usecase.DeleteComment(context.Background(), comment.ID.Hex(), f.memberID); !errors.Is(err, ErrNotCommentAuthor) {
			t.Errorf("error = %v, want ErrNotCommentAuthor", err)
		}
	})
}

func TestGetUserTasks(t *testing.T) {
	f := newTaskFixture(t)

	created := f.createTask(t, f.memberID)
	assigned, err := f.usecase.CreateTask(context.Background(), f.ownerID, CreateTaskParams{
		ProjectID:  f.projectID,
		Title:      "Calibrate",
		AssigneeID: &f.memberID,
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	f.createTask(t, f.ownerID) // unrelated to the member

	tasks, err := f.usecase.GetUserTasks(context.Background(), f.memberID)
	if err != nil {
		t.Fatalf("GetUserTasks() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}

	ids := map[string]bool{}
	for _, task := range tasks {
		ids[task.ID.Hex()] = true
	}
	if !ids[created.ID.Hex()] || !ids[assigned.ID.Hex()] {
		t.Error("expected the created and the assigned task")
	}
}
