package handlers

import (
	"fmt"
	"net/http"

	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/models"
)

func (suite *HandlerTestSuite) TestUsers_AdminOnly() {
	suite.Equal(http.StatusForbidden, suite.do(http.MethodGet, "/api/users", suite.alice, nil).Code)
	suite.Equal(http.StatusForbidden, suite.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", suite.bob.ID), suite.alice, nil).Code)

	w := suite.do(http.MethodGet, "/api/users?role=member", suite.admin, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var result page[dto.UserDTO]
	suite.decode(w, &result)
	suite.EqualValues(2, result.TotalCount)
}

func (suite *HandlerTestSuite) TestCreateAndUpdateUser() {
	w := suite.do(http.MethodPost, "/api/users", suite.admin, map[string]any{
		"name":     "Carol",
		"email":    "carol@example.com",
		"password": "secret1",
		"role":     "admin",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created dto.UserDTO
	suite.decode(w, &created)
	suite.Equal(models.RoleAdmin, created.Role)
	suite.Equal(models.UserStatusActive, created.Status)
	suite.NotContains(w.Body.String(), "password")

	w = suite.do(http.MethodPut, fmt.Sprintf("/api/users/%d", created.ID), suite.admin, map[string]any{
		"email": "alice@example.com",
	})
	suite.Require().Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(suite.decode(w, nil).Errors, "email")

	w = suite.do(http.MethodPut, fmt.Sprintf("/api/users/%d", created.ID), suite.admin, map[string]any{
		"role":     "member",
		"password": "",
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &created)
	suite.Equal(models.RoleMember, created.Role)
}

func (suite *HandlerTestSuite) TestDeleteUser_NeverSelf() {
	w := suite.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", suite.admin.ID), suite.admin, nil)
	suite.Require().Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal([]string{"You cannot delete your own account."}, suite.decode(w, nil).Errors["id"])

	w = suite.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", suite.bob.ID), suite.admin, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/users/%d", suite.bob.ID), suite.admin, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestToggleStatus() {
	path := fmt.Sprintf("/api/users/%d/toggle-status", suite.alice.ID)

	w := suite.do(http.MethodPost, path, suite.admin, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var user dto.UserDTO
	suite.decode(w, &user)
	suite.Equal(models.UserStatusInactive, user.Status)

	suite.Equal(http.StatusForbidden, suite.do(http.MethodGet, "/api/my-tasks", suite.alice, nil).Code)

	w = suite.do(http.MethodPost, fmt.Sprintf("/api/users/%d/toggle-status", suite.admin.ID), suite.admin, nil)
	suite.Require().Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(suite.decode(w, nil).Errors, "status")

	w = suite.do(http.MethodPut, fmt.Sprintf("/api/users/%d", suite.admin.ID), suite.admin, map[string]any{"status": "inactive"})
	suite.Require().Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(suite.decode(w, nil).Errors, "status")
}
