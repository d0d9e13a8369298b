package services

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/testutil"
	"github.com/yukikurage/project-management-api/internal/utils"
)

func (suite *ServiceTestSuite) TestCreateTask_PastDueDate() {
	project := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID, suite.alice.ID)

	for _, due := range []string{"2024-06-09", "2024-06-10"} {
		_, err := suite.tasks.CreateTask(suite.ctx, suite.alice, dto.CreateTaskRequest{
			Title:     "Late",
			ProjectID: project.ID,
			Status:    "pending",
			Priority:  "low",
			DueDate:   &due,
		})
		suite.requireFieldError(err, "due_date")
	}

	due := "2024-06-11"
	task, err := suite.tasks.CreateTask(suite.ctx, suite.alice, dto.CreateTaskRequest{
		Title:     "On time",
		ProjectID: project.ID,
		Status:    "pending",
		Priority:  "low",
		DueDate:   &due,
	})
	suite.Require().NoError(err)
	suite.Equal(suite.alice.ID, task.CreatedBy)
	suite.Equal("Alpha", task.Project.Name)
}

func (suite *ServiceTestSuite) TestCreateTask_RequiresProjectMembership() {
	project := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID, suite.bob.ID)

	_, err := suite.tasks.CreateTask(suite.ctx, suite.alice, dto.CreateTaskRequest{
		Title:     "Sneaky",
		ProjectID: project.ID,
		Status:    "pending",
		Priority:  "medium",
	})
	suite.ErrorIs(err, ErrAccessDenied)

	_, err = suite.tasks.CreateTask(suite.ctx, suite.alice, dto.CreateTaskRequest{
		Title:     "Nowhere",
		ProjectID: 9999,
		Status:    "pending",
		Priority:  "medium",
	})
	suite.requireFieldError(err, "project_id")
}

func (suite *ServiceTestSuite) TestCreateTask_AssigneeMustBeMember() {
	project := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID, suite.alice.ID)

	_, err := suite.tasks.CreateTask(suite.ctx, suite.admin, dto.CreateTaskRequest{
		Title:      "Plan",
		ProjectID:  project.ID,
		AssignedTo: &suite.bob.ID,
		Status:     "pending",
		Priority:   "high",
	})
	suite.requireFieldError(err, "assigned_to")

	task, err := suite.tasks.CreateTask(suite.ctx, suite.admin, dto.CreateTaskRequest{
		Title:      "Plan",
		ProjectID:  project.ID,
		AssignedTo: &suite.alice.ID,
		Status:     "pending",
		Priority:   "high",
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(task.AssignedUser)
	suite.Equal(suite.alice.ID, task.AssignedUser.ID)
}

func (suite *ServiceTestSuite) TestAssignTask_NonMemberLeavesTaskUnchanged() {
	project := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID, suite.alice.ID)
	task := testutil.CreateTask(suite.T(), suite.db, "Plan", project.ID, suite.admin.ID, &suite.alice.ID)

	_, err := suite.tasks.AssignTask(suite.ctx, suite.admin, task.ID, dto.AssignTaskRequest{AssignedTo: &suite.bob.ID})
	suite.requireFieldError(err, "assigned_to")

	_, err = suite.tasks.AssignTask(suite.ctx, suite.admin, task.ID, dto.AssignTaskRequest{})
	suite.requireFieldError(err, "assigned_to")

	reloaded, err := suite.tasks.GetTask(suite.ctx, suite.admin, task.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(reloaded.AssignedTo)
	suite.Equal(suite.alice.ID, *reloaded.AssignedTo)

	_, err = suite.tasks.AssignTask(suite.ctx, suite.bob, task.ID, dto.AssignTaskRequest{AssignedTo: &suite.alice.ID})
	suite.ErrorIs(err, ErrAccessDenied)
}

func (suite *ServiceTestSuite) TestGetTask_Visibility() {
	alpha := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID, suite.alice.ID)
	beta := testutil.CreateProject(suite.T(), suite.db, "Beta", suite.admin.ID)
	inAlpha := testutil.CreateTask(suite.T(), suite.db, "In alpha", alpha.ID, suite.admin.ID, nil)
	assigned := testutil.CreateTask(suite.T(), suite.db, "Assigned", beta.ID, suite.admin.ID, &suite.alice.ID)
	hidden := testutil.CreateTask(suite.T(), suite.db, "Hidden", beta.ID, suite.admin.ID, nil)

	_, err := suite.tasks.GetTask(suite.ctx, suite.alice, inAlpha.ID)
	suite.NoError(err)
	_, err = suite.tasks.GetTask(suite.ctx, suite.alice, assigned.ID)
	suite.NoError(err)
	_, err = suite.tasks.GetTask(suite.ctx, suite.alice, hidden.ID)
	suite.ErrorIs(err, ErrAccessDenied)
	_, err = suite.tasks.GetTask(suite.ctx, suite.alice, 4040)
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *ServiceTestSuite) TestUpdateTask_Partial() {
	project := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID, suite.alice.ID)
	task := testutil.CreateTask(suite.T(), suite.db, "Plan", project.ID, suite.admin.ID, &suite.alice.ID)

	updated, err := suite.tasks.UpdateTask(suite.ctx, suite.alice, task.ID, dto.UpdateTaskRequest{
		Status:  dto.Some("completed"),
		DueDate: dto.Some("2020-01-01"),
	})
	suite.Require().NoError(err)
	suite.Equal(models.StatusCompleted, updated.Status)
	suite.Equal("Plan", updated.Title)
	suite.Equal(models.PriorityMedium, updated.Priority)
	suite.Require().NotNil(updated.AssignedTo)

	updated, err = suite.tasks.UpdateTask(suite.ctx, suite.alice, task.ID, dto.UpdateTaskRequest{
		AssignedTo: dto.Null[uint64](),
		DueDate:    dto.Null[string](),
	})
	suite.Require().NoError(err)
	suite.Nil(updated.AssignedTo)
	suite.Nil(updated.DueDate)

	_, err = suite.tasks.UpdateTask(suite.ctx, suite.alice, task.ID, dto.UpdateTaskRequest{
		Title:    dto.Null[string](),
		Priority: dto.Some("urgent"),
	})
	suite.requireFieldError(err, "title")
	suite.requireFieldError(err, "priority")
}

func (suite *ServiceTestSuite) TestUpdateTask_AssigneeCheckedAgainstTargetProject() {
	alpha := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID, suite.alice.ID)
	beta := testutil.CreateProject(suite.T(), suite.db, "Beta", suite.admin.ID, suite.bob.ID)
	task := testutil.CreateTask(suite.T(), suite.db, "Plan", alpha.ID, suite.admin.ID, &suite.alice.ID)

	_, err := suite.tasks.UpdateTask(suite.ctx, suite.admin, task.ID, dto.UpdateTaskRequest{
		ProjectID: dto.Some(beta.ID),
	})
	suite.requireFieldError(err, "assigned_to")

	moved, err := suite.tasks.UpdateTask(suite.ctx, suite.admin, task.ID, dto.UpdateTaskRequest{
		ProjectID:  dto.Some(beta.ID),
		AssignedTo: dto.Some(suite.bob.ID),
	})
	suite.Require().NoError(err)
	suite.Equal(beta.ID, moved.ProjectID)
	suite.Equal("Beta", moved.Project.Name)

	_, err = suite.tasks.UpdateTask(suite.ctx, suite.bob, task.ID, dto.UpdateTaskRequest{
		ProjectID: dto.Some(alpha.ID),
	})
	suite.ErrorIs(err, ErrAccessDenied)
}

func (suite *ServiceTestSuite) TestDeleteTask_AdminOrCreator() {
	project := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID, suite.alice.ID, suite.bob.ID)
	task := testutil.CreateTask(suite.T(), suite.db, "Mine", project.ID, suite.alice.ID, nil)
	other := testutil.CreateTask(suite.T(), suite.db, "Admin's", project.ID, suite.admin.ID, nil)

	suite.ErrorIs(suite.tasks.DeleteTask(suite.ctx, suite.bob, task.ID), ErrAccessDenied)
	suite.NoError(suite.tasks.DeleteTask(suite.ctx, suite.alice, task.ID))
	suite.ErrorIs(suite.tasks.DeleteTask(suite.ctx, suite.alice, task.ID), ErrTaskNotFound)
	suite.NoError(suite.tasks.DeleteTask(suite.ctx, suite.admin, other.ID))
}

func (suite *ServiceTestSuite) TestListMyAndProjectTasks() {
	alpha := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID, suite.alice.ID)
	beta := testutil.CreateProject(suite.T(), suite.db, "Beta", suite.admin.ID)
	testutil.CreateTask(suite.T(), suite.db, "Mine", beta.ID, suite.admin.ID, &suite.alice.ID)
	testutil.CreateTask(suite.T(), suite.db, "Team", alpha.ID, suite.admin.ID, nil)

	mine, total, err := suite.tasks.ListMyTasks(suite.ctx, suite.alice, utils.NewPaginationParams(1))
	suite.Require().NoError(err)
	suite.EqualValues(1, total)
	suite.Equal("Mine", mine[0].Title)

	team, total, err := suite.tasks.ListProjectTasks(suite.ctx, suite.alice, alpha.ID, utils.NewPaginationParams(1))
	suite.Require().NoError(err)
	suite.EqualValues(1, total)
	suite.Equal("Team", team[0].Title)

	_, _, err = suite.tasks.ListProjectTasks(suite.ctx, suite.alice, beta.ID, utils.NewPaginationParams(1))
	suite.ErrorIs(err, ErrAccessDenied)

	all, total, err := suite.tasks.ListTasks(suite.ctx, suite.alice, ListTasksInput{Pagination: utils.NewPaginationParams(1)})
	suite.Require().NoError(err)
	suite.EqualValues(2, total)
	suite.Len(all, 2)
}

func (suite *ServiceTestSuite) TestComments() {
	project := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID, suite.alice.ID)
	task := testutil.CreateTask(suite.T(), suite.db, "Plan", project.ID, suite.admin.ID, nil)

	comment, err := suite.comments.AddComment(suite.ctx, suite.alice, task.ID, dto.CreateCommentRequest{Content: "  on it  "})
	suite.Require().NoError(err)
	suite.Equal("on it", comment.Content)
	suite.Equal(suite.alice.Email, comment.User.Email)

	_, err = suite.comments.AddComment(suite.ctx, suite.alice, task.ID, dto.CreateCommentRequest{Content: " "})
	suite.requireFieldError(err, "content")

	_, err = suite.comments.AddComment(suite.ctx, suite.bob, task.ID, dto.CreateCommentRequest{Content: "hi"})
	suite.ErrorIs(err, ErrAccessDenied)

	comments, total, err := suite.comments.ListComments(suite.ctx, suite.admin, task.ID, &suite.alice.ID, utils.NewPaginationParams(1))
	suite.Require().NoError(err)
	suite.EqualValues(1, total)
	suite.Len(comments, 1)

	_, _, err = suite.comments.ListComments(suite.ctx, suite.bob, task.ID, nil, utils.NewPaginationParams(1))
	suite.ErrorIs(err, ErrAccessDenied)
}

func (suite *ServiceTestSuite) TestStartOfDay() {
	loc := time.FixedZone("UTC+9", 9*60*60)
	got := startOfDay(time.Date(2024, 6, 11, 3, 0, 0, 0, loc))
	suite.Equal(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), got)
}

func (suite *ServiceTestSuite) TestRemovingMemberUnassignsTheirTasks() {
	project := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID, suite.alice.ID, suite.bob.ID)
	forAlice := testutil.CreateTask(suite.T(), suite.db, "Plan", project.ID, suite.admin.ID, &suite.alice.ID)
	forBob := testutil.CreateTask(suite.T(), suite.db, "Build", project.ID, suite.admin.ID, &suite.bob.ID)

	suite.Require().NoError(suite.memberships.Detach(suite.ctx, suite.admin, project.ID, []uint64{suite.alice.ID}))

	reloaded, err := suite.tasks.GetTask(suite.ctx, suite.admin, forAlice.ID)
	suite.Require().NoError(err)
	suite.Nil(reloaded.AssignedTo)
	suite.Nil(reloaded.AssignedUser)

	_, err = suite.projects.UpdateProject(suite.ctx, suite.admin, project.ID, dto.UpdateProjectRequest{
		MemberIDs: dto.Null[[]uint64](),
	})
	suite.Require().NoError(err)

	reloaded, err = suite.tasks.GetTask(suite.ctx, suite.admin, forBob.ID)
	suite.Require().NoError(err)
	suite.Nil(reloaded.AssignedTo)
}
