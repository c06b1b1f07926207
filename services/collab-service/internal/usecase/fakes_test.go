package usecase

import (
	"context"
	"maps"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teamforge/teamforge-api/services/collab-service/internal/model"
	"github.com/teamforge/teamforge-api/services/collab-service/internal/repository"
)

// The fakes below back the usecase tests with plain maps keyed by hex ID.
// They return mongo.ErrNoDocuments and duplicate-key errors the way the
// real repositories surface them, so the usecases' errors.Is branches are
// exercised for real.

var errDuplicateKey = mongo.CommandError{Code: 11000, Name: "DuplicateKey", Message: "duplicate key error"}

type snapshotter interface {
	snapshot() func()
}

// fakeTransactor runs the function directly. On error it restores every
// registered store to its pre-transaction state, imitating an aborted
// multi-document transaction.
type fakeTransactor struct {
	stores []snapshotter
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	restores := make([]func(), 0, len(t.stores))
	for _, s := range t.stores {
		restores = append(restores, s.snapshot())
	}

	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}

	return nil
}

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) snapshot() func() {
	saved := make(map[string]*model.User, len(r.users))
	for id, u := range r.users {
		copied := *u
		saved[id] = &copied
	}
	return func() { r.users = saved }
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, errDuplicateKey
		}
	}

	user.ID = bson.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID.Hex()] = user
	return user, nil
}

func (r *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, id string, params repository.UpdateUserParams) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.FirstName != nil {
		user.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		user.LastName = *params.LastName
	}
	if params.PhoneNumber != nil {
		user.PhoneNumber = *params.PhoneNumber
	}
	if params.AvatarURL != nil {
		user.AvatarURL = *params.AvatarURL
	}
	if params.Bio != nil {
		user.Bio = *params.Bio
	}
	if params.Location != nil {
		user.Location = *params.Location
	}
	if params.Availability != nil {
		user.Availability = *params.Availability
	}
	if params.Onboarded != nil {
		user.Onboarded = *params.Onboarded
	}
	user.UpdatedAt = time.Now()
	return user, nil
}

func (r *fakeUserRepo) ListUsersExcept(_ context.Context, excludeID string) ([]*model.User, error) {
	var users []*model.User
	for id, user := range r.users {
		if id != excludeID {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) SetVerificationCode(_ context.Context, id, code string, expiresAt time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.VerificationCode = code
	user.VerificationCodeExpiresAt = expiresAt
	return nil
}

func (r *fakeUserRepo) MarkEmailVerified(_ context.Context, id string) error {
	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.Verified = true
	user.VerificationCode = ""
	user.VerificationCodeExpiresAt = time.Time{}
	return nil
}

func (r *fakeUserRepo) SetTwoFactorSecret(_ context.Context, id, secret string) error {
	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.TwoFactorSecret = secret
	return nil
}

func (r *fakeUserRepo) SetTwoFactorEnabled(_ context.Context, id string, enabled bool) error {
	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.TwoFactorEnabled = enabled
	if !enabled {
		user.TwoFactorSecret = ""
	}
	return nil
}

type fakeProjectRepo struct {
	projects map[string]*model.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[string]*model.Project)}
}

func (r *fakeProjectRepo) snapshot() func() {
	saved := make(map[string]*model.Project, len(r.projects))
	for id, p := range r.projects {
		copied := *p
		saved[id] = &copied
	}
	return func() { r.projects = saved }
}

func (r *fakeProjectRepo) CreateProject(_ context.Context, project *model.Project) (*model.Project, error) {
	project.ID = bson.NewObjectID()
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	r.projects[project.ID.Hex()] = project
	return project, nil
}

func (r *fakeProjectRepo) GetProject(_ context.Context, id string) (*model.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return project, nil
}

func (r *fakeProjectRepo) ListProjects(_ context.Context, params repository.FilterProjectsParams) ([]*model.Project, error) {
	var projects []*model.Project
	for _, project := range r.projects {
		if params.OwnerID != nil && project.OwnerID.Hex() != *params.OwnerID {
			continue
		}
		if params.Archived != nil && project.Archived != *params.Archived {
			continue
		}
		projects = append(projects, project)
	}
	return projects, nil
}

func (r *fakeProjectRepo) UpdateProject(_ context.Context, id string, params repository.UpdateProjectParams) (*model.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.Title != nil {
		project.Title = *params.Title
	}
	if params.Description != nil {
		project.Description = *params.Description
	}
	if params.Category != nil {
		project.Category = *params.Category
	}
	if params.Tags != nil {
		project.Tags = *params.Tags
	}
	if params.RequiredSkills != nil {
		project.RequiredSkills = *params.RequiredSkills
	}
	if params.StartDate != nil {
		project.StartDate = params.StartDate
	}
	if params.EndDate != nil {
		project.EndDate = params.EndDate
	}
	if params.Archived != nil {
		project.Archived = *params.Archived
	}
	project.UpdatedAt = time.Now()
	return project, nil
}

func (r *fakeProjectRepo) DeleteProject(_ context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.projects, id)
	return nil
}

type fakeMembershipRepo struct {
	memberships map[string]*model.Membership
	failCreate  error
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{memberships: make(map[string]*model.Membership)}
}

func (r *fakeMembershipRepo) snapshot() func() {
	saved := make(map[string]*model.Membership, len(r.memberships))
	for id, m := range r.memberships {
		copied := *m
		saved[id] = &copied
	}
	return func() { r.memberships = saved }
}

func (r *fakeMembershipRepo) CreateMembership(_ context.Context, membership *model.Membership) (*model.Membership, error) {
	if r.failCreate != nil {
		return nil, r.failCreate
	}

	for _, existing := range r.memberships {
		if existing.UserID == membership.UserID && existing.ProjectID == membership.ProjectID {
			return nil, errDuplicateKey
		}
	}

	membership.ID = bson.NewObjectID()
	membership.CreatedAt = time.Now()
	membership.UpdatedAt = membership.CreatedAt
	r.memberships[membership.ID.Hex()] = membership
	return membership, nil
}

func (r *fakeMembershipRepo) GetMembership(_ context.Context, userID, projectID string) (*model.Membership, error) {
	for _, membership := range r.memberships {
		if membership.UserID.Hex() == userID && membership.ProjectID.Hex() == projectID {
			return membership, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeMembershipRepo) ListProjectMemberships(_ context.Context, projectID string) ([]*model.Membership, error) {
	var memberships []*model.Membership
	for _, membership := range r.memberships {
		if membership.ProjectID.Hex() == projectID {
			memberships = append(memberships, membership)
		}
	}
	return memberships, nil
}

func (r *fakeMembershipRepo) DeleteProjectMemberships(_ context.Context, projectID string) error {
	maps.DeleteFunc(r.memberships, func(_ string, m *model.Membership) bool {
		return m.ProjectID.Hex() == projectID
	})
	return nil
}

type fakeApplicationRepo struct {
	applications map[string]*model.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{applications: make(map[string]*model.Application)}
}

func (r *fakeApplicationRepo) snapshot() func() {
	saved := make(map[string]*model.Application, len(r.applications))
	for id, a := range r.applications {
		copied := *a
		saved[id] = &copied
	}
	return func() { r.applications = saved }
}

func (r *fakeApplicationRepo) CreateApplication(_ context.Context, application *model.Application) (*model.Application, error) {
	application.ID = bson.NewObjectID()
	application.Status = model.ApplicationPending
	application.CreatedAt = time.Now()
	application.UpdatedAt = application.CreatedAt
	r.applications[application.ID.Hex()] = application
	return application, nil
}

func (r *fakeApplicationRepo) GetApplication(_ context.Context, id string) (*model.Application, error) {
	application, ok := r.applications[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return application, nil
}

func (r *fakeApplicationRepo) GetUserProjectApplication(_ context.Context, userID, projectID string) (*model.Application, error) {
	for _, application := range r.applications {
		if application.UserID.Hex() == userID && application.ProjectID.Hex() == projectID {
			return application, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeApplicationRepo) ListUserApplications(_ context.Context, userID string) ([]*model.Application, error) {
	var applications []*model.Application
	for _, application := range r.applications {
		if application.UserID.Hex() == userID {
			applications = append(applications, application)
		}
	}
	return applications, nil
}

func (r *fakeApplicationRepo) ListProjectApplications(_ context.Context, projectID string) ([]*model.Application, error) {
	var applications []*model.Application
	for _, application := range r.applications {
		if application.ProjectID.Hex() == projectID {
			applications = append(applications, application)
		}
	}
	return applications, nil
}

func (r *fakeApplicationRepo) UpdateApplication(_ context.Context, id string, params repository.UpdateApplicationParams) (*model.Application, error) {
	application, ok := r.applications[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.Role != nil {
		application.Role = *params.Role
	}
	if params.Skills != nil {
		application.Skills = *params.Skills
	}
	if params.ReasonForJoining != nil {
		application.ReasonForJoining = *params.ReasonForJoining
	}
	if params.Availability != nil {
		application.Availability = *params.Availability
	}
	application.UpdatedAt = time.Now()
	return application, nil
}

func (r *fakeApplicationRepo) TransitionStatus(_ context.Context, id string, from, to model.ApplicationStatus) (*model.Application, error) {
	application, ok := r.applications[id]
	if !ok || application.Status != from {
		return nil, mongo.ErrNoDocuments
	}

	application.Status = to
	application.UpdatedAt = time.Now()
	return application, nil
}

func (r *fakeApplicationRepo) DeleteApplication(_ context.Context, id string) error {
	if _, ok := r.applications[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.applications, id)
	return nil
}

func (r *fakeApplicationRepo) DeleteProjectApplications(_ context.Context, projectID string) error {
	maps.DeleteFunc(r.applications, func(_ string, a *model.Application) bool {
		return a.ProjectID.Hex() == projectID
	})
	return nil
}

type fakeTaskRepo struct {
	tasks             map[string]*model.Task
	failDeleteProject error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*model.Task)}
}

func (r *fakeTaskRepo) snapshot() func() {
	saved := make(map[string]*model.Task, len(r.tasks))
	for id, t := range r.tasks {
		copied := *t
		saved[id] = &copied
	}
	return func() { r.tasks = saved }
}

func (r *fakeTaskRepo) CreateTask(_ context.Context, task *model.Task) (*model.Task, error) {
	task.ID = bson.NewObjectID()
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	r.tasks[task.ID.Hex()] = task
	return task, nil
}

func (r *fakeTaskRepo) GetTask(_ context.Context, id string) (*model.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return task, nil
}

func (r *fakeTaskRepo) ListProjectTasks(_ context.Context, projectID string) ([]*model.Task, error) {
	var tasks []*model.Task
	for _, task := range r.tasks {
		if task.ProjectID.Hex() == projectID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (r *fakeTaskRepo) ListUserTasks(_ context.Context, userID string) ([]*model.Task, error) {
	var tasks []*model.Task
	for _, task := range r.tasks {
		if task.CreatedByID.Hex() == userID || (task.AssigneeID != nil && task.AssigneeID.Hex() == userID) {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (r *fakeTaskRepo) UpdateTask(_ context.Context, id string, params repository.UpdateTaskParams) (*model.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Status != nil {
		task.Status = *params.Status
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.ClearAssignee {
		task.AssigneeID = nil
	} else if params.AssigneeID != nil {
		assigneeID, err := bson.ObjectIDFromHex(*params.AssigneeID)
		if err != nil {
			return nil, err
		}
		task.AssigneeID = &assigneeID
	}
	task.UpdatedAt = time.Now()
	return task, nil
}

func (r *fakeTaskRepo) DeleteTask(_ context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) DeleteProjectTasks(_ context.Context, projectID string) error {
	if r.failDeleteProject != nil {
		return r.failDeleteProject
	}

	maps.DeleteFunc(r.tasks, func(_ string, t *model.Task) bool {
		return t.ProjectID.Hex() == projectID
	})
	return nil
}

type fakeCommentRepo struct {
	comments map[string]*model.TaskComment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*model.TaskComment)}
}

func (r *fakeCommentRepo) snapshot() func() {
	saved := make(map[string]*model.TaskComment, len(r.comments))
	for id, c := range r.comments {
		copied := *c
		saved[id] = &copied
	}
	return func() { r.comments = saved }
}

func (r *fakeCommentRepo) CreateComment(_ context.Context, comment *model.TaskComment) (*model.TaskComment, error) {
	comment.ID = bson.NewObjectID()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	r.comments[comment.ID.Hex()] = comment
	return comment, nil
}

func (r *fakeCommentRepo) GetComment(_ context.Context, id string) (*model.TaskComment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return comment, nil
}

func (r *fakeCommentRepo) ListTaskComments(_ context.Context, taskID string) ([]*model.TaskComment, error) {
	var comments []*model.TaskComment
	for _, comment := range r.comments {
		if comment.TaskID.Hex() == taskID {
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

func (r *fakeCommentRepo) UpdateComment(_ context.Context, id, content string) (*model.TaskComment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	comment.Content = content
	comment.UpdatedAt = time.Now()
	return comment, nil
}

func (r *fakeCommentRepo) DeleteComment(_ context.Context, id string) error {
	if _, ok := r.comments[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteTaskComments(_ context.Context, taskID string) error {
	maps.DeleteFunc(r.comments, func(_ string, c *model.TaskComment) bool {
		return c.TaskID.Hex() == taskID
	})
	return nil
}

func (r *fakeCommentRepo) DeleteCommentsByTaskIDs(_ context.Context, taskIDs []string) error {
	ids := make(map[string]struct{}, len(taskIDs))
	for _, id := range taskIDs {
		ids[id] = struct{}{}
	}
	maps.DeleteFunc(r.comments, func(_ string, c *model.TaskComment) bool {
		_, ok := ids[c.TaskID.Hex()]
		return ok
	})
	return nil
}

type fakeCategoryRepo struct {
	categories  map[string]*model.Category
	preferences map[string]*model.CategoryPreference
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		categories:  make(map[string]*model.Category),
		preferences: make(map[string]*model.CategoryPreference),
	}
}

func (r *fakeCategoryRepo) snapshot() func() {
	savedCategories := make(map[string]*model.Category, len(r.categories))
	for id, c := range r.categories {
		copied := *c
		savedCategories[id] = &copied
	}
	savedPreferences := make(map[string]*model.CategoryPreference, len(r.preferences))
	for id, p := range r.preferences {
		copied := *p
		savedPreferences[id] = &copied
	}
	return func() {
		r.categories = savedCategories
		r.preferences = savedPreferences
	}
}

func (r *fakeCategoryRepo) CreateCategory(_ context.Context, category *model.Category) (*model.Category, error) {
	for _, existing := range r.categories {
		if existing.Name == category.Name {
			return nil, errDuplicateKey
		}
	}

	category.ID = bson.NewObjectID()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	r.categories[category.ID.Hex()] = category
	return category, nil
}

func (r *fakeCategoryRepo) EnsureCategory(ctx context.Context, name string) error {
	for _, existing := range r.categories {
		if existing.Name == name {
			return nil
		}
	}

	_, err := r.CreateCategory(ctx, &model.Category{Name: name})
	return err
}

func (r *fakeCategoryRepo) GetCategory(_ context.Context, id string) (*model.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return category, nil
}

func (r *fakeCategoryRepo) ListCategories(_ context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	for _, category := range r.categories {
		categories = append(categories, category)
	}
	return categories, nil
}

func (r *fakeCategoryRepo) UpdateCategory(_ context.Context, id, name string) (*model.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	for otherID, existing := range r.categories {
		if otherID != id && existing.Name == name {
			return nil, errDuplicateKey
		}
	}

	category.Name = name
	category.UpdatedAt = time.Now()
	return category, nil
}

func (r *fakeCategoryRepo) DeleteCategory(_ context.Context, id string) error {
	if _, ok := r.categories[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) ListUserPreferences(_ context.Context, userID string) ([]*model.CategoryPreference, error) {
	var preferences []*model.CategoryPreference
	for _, preference := range r.preferences {
		if preference.UserID.Hex() == userID {
			preferences = append(preferences, preference)
		}
	}
	return preferences, nil
}

func (r *fakeCategoryRepo) ReplaceUserPreferences(_ context.Context, userID string, categoryIDs []string) error {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	maps.DeleteFunc(r.preferences, func(_ string, p *model.CategoryPreference) bool {
		return p.UserID.Hex() == userID
	})

	for _, categoryID := range categoryIDs {
		cid, err := bson.ObjectIDFromHex(categoryID)
		if err != nil {
			return err
		}
		preference := &model.CategoryPreference{
			ID:         bson.NewObjectID(),
			UserID:     uid,
			CategoryID: cid,
			CreatedAt:  time.Now(),
		}
		r.preferences[preference.ID.Hex()] = preference
	}
	return nil
}

// fakeMailer records outgoing mail instead of talking SMTP.
type fakeMailer struct {
	sent []sentEmail
}

type sentEmail struct {
	to      []string
	subject string
	body    string
}

func (m *fakeMailer) SendHTML(to []string, subject, htmlBody string) error {
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: htmlBody})
	return nil
}

// fakeTokenIssuer mints predictable chat tokens.
type fakeTokenIssuer struct{}

func (fakeTokenIssuer) IssueToken(userID string) (string, error) {
	return "chat-token-" + userID, nil
}
