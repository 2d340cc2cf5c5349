package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/portfolio-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	Setup()
	m.Run()
}

func bindJSON(t *testing.T, body string, dst interface{}) map[string]string {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return Bind(c, dst)
}

func TestBind_TranslatesUsingJSONNames(t *testing.T) {
	var req model.SignupRequest
	fields := bindJSON(t, `{"username":"ali","email":"not-an-email","password":"pw"}`, &req)
	require.NotNil(t, fields)

	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.NotContains(t, fields, "username")
	assert.Contains(t, fields["email"], "valid email")
}

func TestBind_AcceptsValidPayload(t *testing.T) {
	var req model.GradeRequest
	fields := bindJSON(t, `{"title":"Solar Car","studentEmail":"ali@school.test","status":"approved","marks":85}`, &req)
	assert.Nil(t, fields)
	require.NotNil(t, req.Marks)
	assert.Equal(t, 85, *req.Marks)
}

func TestBind_RejectsUnknownStatus(t *testing.T) {
	var req model.GradeRequest
	fields := bindJSON(t, `{"title":"Solar Car","studentEmail":"ali@school.test","status":"pending"}`, &req)
	assert.Contains(t, fields, "status")
}

func TestBind_SyntaxErrorIsDetail(t *testing.T) {
	var req model.LoginRequest
	fields := bindJSON(t, `{"email":`, &req)
	assert.Contains(t, fields, "detail")
}
