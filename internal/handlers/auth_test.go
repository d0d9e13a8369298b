package handlers

import (
	"net/http"
	"net/http/httptest"

	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/models"
)

func (suite *HandlerTestSuite) TestRegister_ReturnsUsableToken() {
	w := suite.do(http.MethodPost, "/api/auth/register", nil, map[string]string{
		"name":     "Dana",
		"email":    "dana@example.com",
		"password": "password",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var auth dto.AuthResponse
	env := suite.decode(w, &auth)
	suite.Equal("success", env.Status)
	suite.Equal("Bearer", auth.TokenType)
	suite.Equal(models.RoleMember, auth.User.Role)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	me := httptest.NewRecorder()
	suite.router.ServeHTTP(me, req)
	suite.Equal(http.StatusOK, me.Code)
	suite.Contains(me.Body.String(), "dana@example.com")
}

func (suite *HandlerTestSuite) TestRegister_Validation() {
	w := suite.do(http.MethodPost, "/api/auth/register", nil, map[string]string{
		"email":    "alice@example.com",
		"password": "123",
	})
	suite.Require().Equal(http.StatusUnprocessableEntity, w.Code)

	env := suite.decode(w, nil)
	suite.Equal("VALIDATION_FAILED", env.Code)
	suite.Contains(env.Errors, "name")
	suite.Contains(env.Errors, "email")
	suite.Contains(env.Errors, "password")
}

func (suite *HandlerTestSuite) TestLogin_SessionAndLogout() {
	w := suite.do(http.MethodPost, "/api/auth/register", nil, map[string]string{
		"name": "Dana", "email": "dana@example.com", "password": "password",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.do(http.MethodPost, "/api/auth/login", nil, map[string]string{
		"email": "dana@example.com", "password": "wrong-password",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("INVALID_CREDENTIALS", suite.decode(w, nil).Code)

	w = suite.do(http.MethodPost, "/api/auth/login", nil, map[string]string{
		"email": "dana@example.com", "password": "password",
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	suite.Require().NotEmpty(cookies)

	me := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range cookies {
		me.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, me)
	suite.Equal(http.StatusOK, rec.Code)

	logout := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	for _, c := range cookies {
		logout.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	suite.router.ServeHTTP(rec, logout)
	suite.Require().Equal(http.StatusOK, rec.Code)

	me = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range rec.Result().Cookies() {
		me.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	suite.router.ServeHTTP(rec, me)
	suite.Equal(http.StatusUnauthorized, rec.Code)
}

func (suite *HandlerTestSuite) TestInactiveUserIsRejected() {
	suite.Require().NoError(suite.db.Model(suite.alice).Update("status", models.UserStatusInactive).Error)

	w := suite.do(http.MethodGet, "/api/projects", suite.alice, nil)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("ACCOUNT_INACTIVE", suite.decode(w, nil).Code)
}

func (suite *HandlerTestSuite) TestUnauthenticated() {
	for _, path := range []string{"/api/projects", "/api/tasks", "/api/my-tasks", "/api/users", "/api/auth/me"} {
		w := suite.do(http.MethodGet, path, nil, nil)
		suite.Equal(http.StatusUnauthorized, w.Code, path)
	}
}

func (suite *HandlerTestSuite) TestMalformedJSON() {
	w := suite.do(http.MethodPost, "/api/projects", suite.admin, `{"name": "Alpha",`)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/projects", suite.admin, `{"name": 42, "status": "pending"}`)
	suite.Require().Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(suite.decode(w, nil).Errors, "name")
}
