package services

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/testutil"
	"github.com/yukikurage/project-management-api/internal/utils"
)

func (suite *ServiceTestSuite) TestCreateProject_EmptyMembersHidesFromMembers() {
	project, err := suite.projects.CreateProject(suite.ctx, suite.admin, dto.CreateProjectRequest{
		Name:      "Alpha",
		Status:    "pending",
		MemberIDs: []uint64{},
	})
	suite.Require().NoError(err)
	suite.Empty(project.Members)
	suite.Equal(suite.admin.ID, project.CreatedBy)

	_, err = suite.projects.GetProject(suite.ctx, suite.alice, project.ID)
	suite.ErrorIs(err, ErrAccessDenied)

	got, err := suite.projects.GetProject(suite.ctx, suite.admin, project.ID)
	suite.Require().NoError(err)
	suite.Equal("Alpha", got.Name)
}

func (suite *ServiceTestSuite) TestCreateProject_MemberIsDenied() {
	_, err := suite.projects.CreateProject(suite.ctx, suite.alice, dto.CreateProjectRequest{Name: "Nope", Status: "pending"})
	suite.ErrorIs(err, ErrAccessDenied)
}

func (suite *ServiceTestSuite) TestCreateProject_Validation() {
	start, end := "2024-05-10", "2024-05-01"
	_, err := suite.projects.CreateProject(suite.ctx, suite.admin, dto.CreateProjectRequest{
		Name:      "Backwards",
		Status:    "pending",
		StartDate: &start,
		EndDate:   &end,
	})
	suite.requireFieldError(err, "end_date")

	_, err = suite.projects.CreateProject(suite.ctx, suite.admin, dto.CreateProjectRequest{Name: "  ", Status: "archived"})
	suite.requireFieldError(err, "name")
	suite.requireFieldError(err, "status")

	_, err = suite.projects.CreateProject(suite.ctx, suite.admin, dto.CreateProjectRequest{
		Name:      "Ghosts",
		Status:    "pending",
		MemberIDs: []uint64{suite.alice.ID, 9999},
	})
	suite.requireFieldError(err, "member_ids")

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Project{}).Count(&count).Error)
	suite.Zero(count)
}

func (suite *ServiceTestSuite) TestUpdateProject_PartialAndMembers() {
	project := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID, suite.alice.ID)

	updated, err := suite.projects.UpdateProject(suite.ctx, suite.admin, project.ID, dto.UpdateProjectRequest{
		Name: dto.Some("Alpha 2"),
	})
	suite.Require().NoError(err)
	suite.Equal("Alpha 2", updated.Name)
	suite.Equal(models.StatusPending, updated.Status)
	suite.Equal([]uint64{suite.alice.ID}, updated.MemberIDs())

	updated, err = suite.projects.UpdateProject(suite.ctx, suite.admin, project.ID, dto.UpdateProjectRequest{
		MemberIDs: dto.Some([]uint64{suite.bob.ID}),
	})
	suite.Require().NoError(err)
	suite.Equal([]uint64{suite.bob.ID}, updated.MemberIDs())

	updated, err = suite.projects.UpdateProject(suite.ctx, suite.admin, project.ID, dto.UpdateProjectRequest{
		MemberIDs: dto.Null[[]uint64](),
	})
	suite.Require().NoError(err)
	suite.Empty(updated.Members)
}

func (suite *ServiceTestSuite) TestUpdateProject_DateRangeUsesStoredValues() {
	project := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID)

	_, err := suite.projects.UpdateProject(suite.ctx, suite.admin, project.ID, dto.UpdateProjectRequest{
		StartDate: dto.Some("2024-03-01"),
	})
	suite.Require().NoError(err)

	_, err = suite.projects.UpdateProject(suite.ctx, suite.admin, project.ID, dto.UpdateProjectRequest{
		EndDate: dto.Some("2024-02-01"),
	})
	suite.requireFieldError(err, "end_date")

	updated, err := suite.projects.UpdateProject(suite.ctx, suite.admin, project.ID, dto.UpdateProjectRequest{
		StartDate: dto.Null[string](),
		EndDate:   dto.Some("2024-02-01"),
	})
	suite.Require().NoError(err)
	suite.Nil(updated.StartDate)
	suite.NotNil(updated.EndDate)
}

func (suite *ServiceTestSuite) TestUpdateProject_NotFound() {
	_, err := suite.projects.UpdateProject(suite.ctx, suite.admin, 404, dto.UpdateProjectRequest{Name: dto.Some("x")})
	suite.ErrorIs(err, ErrProjectNotFound)
}

func (suite *ServiceTestSuite) TestDeleteProject() {
	project := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID, suite.alice.ID)
	testutil.CreateTask(suite.T(), suite.db, "Plan", project.ID, suite.admin.ID, nil)

	suite.ErrorIs(suite.projects.DeleteProject(suite.ctx, suite.alice, project.ID), ErrAccessDenied)
	suite.Require().NoError(suite.projects.DeleteProject(suite.ctx, suite.admin, project.ID))
	suite.ErrorIs(suite.projects.DeleteProject(suite.ctx, suite.admin, project.ID), ErrProjectNotFound)

	var tasks int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).Count(&tasks).Error)
	suite.Zero(tasks)
}

func (suite *ServiceTestSuite) TestListProjects_ScopedToMembership() {
	testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID, suite.alice.ID)
	testutil.CreateProject(suite.T(), suite.db, "Beta", suite.admin.ID, suite.bob.ID)

	projects, total, err := suite.projects.ListProjects(suite.ctx, suite.alice, ListProjectsInput{Pagination: utils.NewPaginationParams(1)})
	suite.Require().NoError(err)
	suite.EqualValues(1, total)
	suite.Require().Len(projects, 1)
	suite.Equal("Alpha", projects[0].Name)
}

func (suite *ServiceTestSuite) TestListMembers() {
	project := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID, suite.alice.ID, suite.bob.ID)

	members, err := suite.projects.ListMembers(suite.ctx, suite.alice, project.ID)
	suite.Require().NoError(err)
	suite.Len(members, 2)

	other := testutil.CreateProject(suite.T(), suite.db, "Beta", suite.admin.ID)
	_, err = suite.projects.ListMembers(suite.ctx, suite.alice, other.ID)
	suite.ErrorIs(err, ErrAccessDenied)
}

func (suite *ServiceTestSuite) TestMemberships() {
	project := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID)

	suite.Require().NoError(suite.memberships.Attach(suite.ctx, suite.admin, project.ID, []uint64{suite.alice.ID}))
	suite.Require().NoError(suite.memberships.Attach(suite.ctx, suite.admin, project.ID, []uint64{suite.alice.ID, suite.bob.ID}))

	members, err := suite.projects.ListMembers(suite.ctx, suite.admin, project.ID)
	suite.Require().NoError(err)
	suite.Len(members, 2)

	suite.requireFieldError(suite.memberships.Attach(suite.ctx, suite.admin, project.ID, nil), "user_ids")
	suite.requireFieldError(suite.memberships.Detach(suite.ctx, suite.admin, project.ID, []uint64{777}), "user_ids")
	suite.ErrorIs(suite.memberships.Attach(suite.ctx, suite.alice, project.ID, []uint64{suite.bob.ID}), ErrAccessDenied)
	suite.ErrorIs(suite.memberships.Sync(suite.ctx, suite.admin, 404, nil), ErrProjectNotFound)

	suite.Require().NoError(suite.memberships.Detach(suite.ctx, suite.admin, project.ID, []uint64{suite.alice.ID}))
	suite.Require().NoError(suite.memberships.Sync(suite.ctx, suite.admin, project.ID, nil))

	members, err = suite.projects.ListMembers(suite.ctx, suite.admin, project.ID)
	suite.Require().NoError(err)
	suite.Empty(members)
}

func (suite *ServiceTestSuite) TestProjectTaskStats() {
	project := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID, suite.alice.ID)
	testutil.CreateProject(suite.T(), suite.db, "Beta", suite.admin.ID, suite.alice.ID)

	late := testutil.CreateTask(suite.T(), suite.db, "Late", project.ID, suite.admin.ID, nil)
	suite.Require().NoError(suite.db.Model(late).Update("due_date", fixedNow.Add(-48*time.Hour)).Error)
	done := testutil.CreateTask(suite.T(), suite.db, "Done", project.ID, suite.admin.ID, nil)
	suite.Require().NoError(suite.db.Model(done).Update("status", models.StatusCompleted).Error)
	testutil.CreateTask(suite.T(), suite.db, "Open", project.ID, suite.admin.ID, nil)

	got, err := suite.projects.GetProject(suite.ctx, suite.alice, project.ID)
	suite.Require().NoError(err)
	suite.Equal(3, got.Stats.Total)
	suite.Equal(1, got.Stats.Completed)
	suite.Equal(1, got.Stats.Overdue)
	suite.Require().Len(got.Members, 1)
	suite.Equal(suite.alice.ID, got.Members[0].User.ID)

	projects, total, err := suite.projects.ListProjects(suite.ctx, suite.alice, ListProjectsInput{Pagination: utils.NewPaginationParams(1)})
	suite.Require().NoError(err)
	suite.EqualValues(2, total)
	suite.Require().Len(projects, 2)
	for _, p := range projects {
		if p.ID == project.ID {
			suite.Equal(3, p.Stats.Total)
			continue
		}
		suite.Zero(p.Stats.Total)
	}
}
