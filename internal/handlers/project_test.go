package handlers

import (
	"fmt"
	"net/http"

	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/testutil"
)

func (suite *HandlerTestSuite) TestCreateProject_EmptyMembershipHidesFromMembers() {
	w := suite.do(http.MethodPost, "/api/projects", suite.admin, map[string]any{
		"name":       "Alpha",
		"status":     "pending",
		"member_ids": []uint64{},
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var project dto.ProjectDTO
	suite.decode(w, &project)
	suite.Equal("Alpha", project.Name)
	suite.Empty(project.Members)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID), suite.alice, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID), suite.admin, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestCreateProject_AdminOnly() {
	w := suite.do(http.MethodPost, "/api/projects", suite.alice, map[string]any{
		"name":   "Alpha",
		"status": "pending",
	})
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestCreateProject_EndBeforeStart() {
	w := suite.do(http.MethodPost, "/api/projects", suite.admin, map[string]any{
		"name":       "Alpha",
		"status":     "pending",
		"start_date": "2024-03-01",
		"end_date":   "2024-02-01",
	})
	suite.Require().Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(suite.decode(w, nil).Errors, "end_date")
}

func (suite *HandlerTestSuite) TestGetProject_NotFound() {
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/projects/999", suite.admin, nil).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/projects/abc", suite.admin, nil).Code)
}

func (suite *HandlerTestSuite) TestUpdateProject_MemberIDsKeyControlsSync() {
	project := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID, suite.alice.ID)
	path := fmt.Sprintf("/api/projects/%d", project.ID)

	w := suite.do(http.MethodPut, path, suite.admin, map[string]any{"status": "in_progress"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.ProjectDTO
	suite.decode(w, &updated)
	suite.Equal(models.StatusInProgress, updated.Status)
	suite.Equal("Alpha", updated.Name)
	suite.Len(updated.Members, 1)

	w = suite.do(http.MethodPut, path, suite.admin, `{"member_ids": null}`)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &updated)
	suite.Empty(updated.Members)

	w = suite.do(http.MethodPut, path, suite.admin, map[string]any{"member_ids": []uint64{suite.bob.ID, 9999}})
	suite.Require().Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(suite.decode(w, nil).Errors, "member_ids")

	w = suite.do(http.MethodPut, path, suite.alice, map[string]any{"name": "Mine"})
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestProjectMembers() {
	project := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID, suite.alice.ID)
	base := fmt.Sprintf("/api/projects/%d/members", project.ID)

	for i := 0; i < 2; i++ {
		w := suite.do(http.MethodPost, base, suite.admin, map[string]any{"user_ids": []uint64{suite.bob.ID}})
		suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		var members []dto.UserDTO
		suite.decode(w, &members)
		suite.Len(members, 2)
	}

	w := suite.do(http.MethodPost, base, suite.admin, map[string]any{"user_ids": []uint64{}})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	w = suite.do(http.MethodPost, base, suite.alice, map[string]any{"user_ids": []uint64{suite.bob.ID}})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodDelete, fmt.Sprintf("%s/%d", base, suite.alice.ID), suite.admin, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, base, suite.bob, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var members []dto.UserDTO
	suite.decode(w, &members)
	suite.Require().Len(members, 1)
	suite.Equal(suite.bob.ID, members[0].ID)

	w = suite.do(http.MethodGet, base, suite.alice, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPut, base, suite.admin, map[string]any{"user_ids": []uint64{}})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &members)
	suite.Empty(members)
}

func (suite *HandlerTestSuite) TestListProjects_Pagination() {
	for i := 0; i < 15; i++ {
		testutil.CreateProject(suite.T(), suite.db, fmt.Sprintf("Project %02d", i), suite.admin.ID, suite.alice.ID)
	}
	testutil.CreateProject(suite.T(), suite.db, "Hidden", suite.admin.ID)

	w := suite.do(http.MethodGet, "/api/projects?page=2", suite.alice, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var result page[dto.ProjectDTO]
	suite.decode(w, &result)
	suite.Len(result.Items, 5)
	suite.EqualValues(15, result.TotalCount)
	suite.Equal(2, result.TotalPages)
	suite.Equal(2, result.Page)

	w = suite.do(http.MethodGet, "/api/projects?search=hidden", suite.admin, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &result)
	suite.EqualValues(1, result.TotalCount)
}

func (suite *HandlerTestSuite) TestDeleteProject() {
	project := testutil.CreateProject(suite.T(), suite.db, "Alpha", suite.admin.ID, suite.alice.ID)
	testutil.CreateTask(suite.T(), suite.db, "Plan", project.ID, suite.admin.ID, nil)
	path := fmt.Sprintf("/api/projects/%d", project.ID)

	suite.Equal(http.StatusForbidden, suite.do(http.MethodDelete, path, suite.alice, nil).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodDelete, path, suite.admin, nil).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, path, suite.admin, nil).Code)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).Count(&count).Error)
	suite.Zero(count)
}
