package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"quotecrm/internal/domain"
	"quotecrm/internal/handler"
	"quotecrm/internal/service"
	"quotecrm/mocks"
)

func newUserHandler() (*handler.UserHandler, *mocks.MockUserService, *mocks.MockCapabilityService) {
	users := new(mocks.MockUserService)
	caps := new(mocks.MockCapabilityService)
	return handler.NewUserHandler(users, caps), users, caps
}

func TestUserHandler_Create_Success(t *testing.T) {
	h, users, _ := newUserHandler()
	expected := &domain.User{ID: uuid.New(), Username: "ravi", Role: domain.RoleSales, IsActive: true}

	users.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateUserInput) bool {
		return in.Username == "ravi" && in.Role == domain.RoleSales
	})).Return(expected, nil)

	c, w := newContext(t, http.MethodPost, "/api/v1/users", map[string]string{
		"username": "ravi",
		"password": "securepassword",
		"role":     "sales",
	})
	setAuthContext(c, uuid.New(), domain.RoleAdmin)
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decode(t, w).Success)
	users.AssertExpectations(t)
}

func TestUserHandler_Create_DuplicateUsername(t *testing.T) {
	h, users, _ := newUserHandler()
	users.On("Create", mock.Anything, mock.AnythingOfType("service.CreateUserInput")).Return(nil, domain.ErrDuplicateUsername)

	c, w := newContext(t, http.MethodPost, "/api/v1/users", map[string]string{
		"username": "ravi",
		"password": "securepassword",
		"role":     "sales",
	})
	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_USERNAME", errorCode(t, w))
}

func TestUserHandler_Create_ShortPassword(t *testing.T) {
	h, users, _ := newUserHandler()

	c, w := newContext(t, http.MethodPost, "/api/v1/users", map[string]string{
		"username": "ravi",
		"password": "short",
		"role":     "sales",
	})
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserHandler_List_ClampsLimit(t *testing.T) {
	h, users, _ := newUserHandler()
	users.On("List", mock.Anything, 0, 20).Return([]domain.User{{Username: "asha"}}, 1, nil)

	c, w := newContext(t, http.MethodGet, "/api/v1/users?limit=500", nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, 1, resp.Meta.Total)
	assert.Equal(t, 20, resp.Meta.Limit)
}

func TestUserHandler_GetByID_InvalidID(t *testing.T) {
	h, _, _ := newUserHandler()

	c, w := newContext(t, http.MethodGet, "/api/v1/users/not-a-uuid", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", errorCode(t, w))
}

func TestUserHandler_GetByID_IncludesGrants(t *testing.T) {
	h, users, caps := newUserHandler()
	id := uuid.New()
	users.On("GetByID", mock.Anything, id).Return(&domain.User{ID: id, Username: "ravi"}, nil)
	caps.On("Grants", mock.Anything, id).Return([]domain.Capability{domain.CapReportView}, nil)

	c, w := newContext(t, http.MethodGet, "/api/v1/users/"+id.String(), nil)
	withID(c, id)
	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Equal(t, "ravi", data["username"])
	assert.Equal(t, []interface{}{"report:view"}, data["grants"])
}

func TestUserHandler_Delete_Self(t *testing.T) {
	h, users, _ := newUserHandler()
	id := uuid.New()

	c, w := newContext(t, http.MethodDelete, "/api/v1/users/"+id.String(), nil)
	withID(c, id)
	setAuthContext(c, id, domain.RoleAdmin)
	h.Delete(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUserHandler_SetCapabilities(t *testing.T) {
	h, _, caps := newUserHandler()
	adminID, id := uuid.New(), uuid.New()
	caps.On("SetGrants", mock.Anything, id, []string{"report:view", "payment:record"}, adminID).
		Return([]domain.Capability{domain.CapReportView, domain.CapPaymentRecord}, nil)

	c, w := newContext(t, http.MethodPut, "/api/v1/users/"+id.String()+"/capabilities", map[string][]string{
		"capabilities": {"report:view", "payment:record"},
	})
	withID(c, id)
	setAuthContext(c, adminID, domain.RoleAdmin)
	h.SetCapabilities(c)

	assert.Equal(t, http.StatusOK, w.Code)
	caps.AssertExpectations(t)
}

func TestUserHandler_SetCapabilities_Unknown(t *testing.T) {
	h, _, caps := newUserHandler()
	id := uuid.New()
	caps.On("SetGrants", mock.Anything, id, []string{"reports:everything"}, mock.Anything).
		Return(nil, domain.ErrUnknownCapability)

	c, w := newContext(t, http.MethodPut, "/api/v1/users/"+id.String()+"/capabilities", map[string][]string{
		"capabilities": {"reports:everything"},
	})
	withID(c, id)
	setAuthContext(c, uuid.New(), domain.RoleAdmin)
	h.SetCapabilities(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNKNOWN_CAPABILITY", errorCode(t, w))
}
