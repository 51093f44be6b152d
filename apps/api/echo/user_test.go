package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/marks/apps/api/echo"
	"github.com/trezcool/marks/tests"
)

func Test_userApi_signup(t *testing.T) {
	db.Reset()
	testutil.CreateUser(t, usrRepo, "awe", "awe@test.cd", "pwd")
	sentBefore := len(mailSvc.SentMessages())

	tests := []httpTest{
		{
			name:     "invalid json",
			method:   http.MethodPost,
			path:     "/signup",
			body:     []byte(`{"username": `),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing fields",
			method:   http.MethodPost,
			path:     "/signup",
			body:     []byte(`{"username": "new"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, echoapi.ErrorResponse{
				Message: "invalid input",
				Errors:  map[string]string{"email": "this field is required", "password": "this field is required"},
			}),
		},
		{
			name:     "email exists",
			method:   http.MethodPost,
			path:     "/signup",
			body:     []byte(`{"username": "new", "email": " AWE@test.cd ", "password": "pwd"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, echoapi.ErrorResponse{
				Message: "User already exists",
				Errors:  map[string]string{"email": "User already exists"},
			}),
		},
		{
			name:     "username exists",
			method:   http.MethodPost,
			path:     "/signup",
			body:     []byte(`{"username": "awe", "email": "new@test.cd", "password": "pwd"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, echoapi.ErrorResponse{
				Message: "Username already taken",
				Errors:  map[string]string{"username": "Username already taken"},
			}),
		},
		{
			name:     "created",
			method:   http.MethodPost,
			path:     "/signup",
			body:     []byte(`{"username": "new", "email": "new@test.cd", "password": "pwd"}`),
			wantCode: http.StatusCreated,
			wantData: []byte(`{"message": "User registered successfully"}`),
		},
	}
	runHTTPTests(t, tests)

	sent := mailSvc.SentMessages()
	if assert.Len(t, sent, sentBefore+1) {
		assert.Equal(t, "new@test.cd", sent[len(sent)-1].To[0].Address)
	}
}

func Test_userApi_login(t *testing.T) {
	db.Reset()
	testutil.CreateUser(t, usrRepo, "awe", "awe@test.cd", "pwd")

	tests := []httpTest{
		{
			name:     "missing password",
			method:   http.MethodPost,
			path:     "/login",
			body:     []byte(`{"email": "awe@test.cd"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, echoapi.ErrorResponse{
				Message: "invalid input",
				Errors:  map[string]string{"password": "this field is required"},
			}),
		},
		{
			name:     "user not found",
			method:   http.MethodPost,
			path:     "/login",
			body:     []byte(`{"email": "lol@test.cd", "password": "pwd"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"message": "User not found"}`),
		},
		{
			name:     "invalid credentials",
			method:   http.MethodPost,
			path:     "/login",
			body:     []byte(`{"email": "awe@test.cd", "password": "lol"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"message": "Invalid credentials"}`),
		},
		{
			name:     "ok",
			method:   http.MethodPost,
			path:     "/login",
			body:     []byte(`{"email": "AWE@test.cd", "password": "pwd"}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.LoginResponse{Message: "Login successful", Username: "awe"}),
		},
	}
	runHTTPTests(t, tests)
}

func Test_home(t *testing.T) {
	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Marks API!", rec.Body.String())
}

func Test_gradingPolicy(t *testing.T) {
	runHTTPTests(t, []httpTest{
		{
			name:     "policy",
			method:   http.MethodGet,
			path:     "/grading",
			wantCode: http.StatusOK,
			wantData: []byte(`{
				"scale": [
					{"letter": "O+", "points": 10}, {"letter": "A+", "points": 9}, {"letter": "A", "points": 8},
					{"letter": "B+", "points": 7}, {"letter": "B", "points": 6}, {"letter": "C+", "points": 5},
					{"letter": "C", "points": 4}, {"letter": "D+", "points": 3}
				],
				"subjects": [
					{"name": "os", "credits": 4, "optional": false},
					{"name": "dbms", "credits": 4, "optional": false},
					{"name": "ds", "credits": 3, "optional": false},
					{"name": "coa", "credits": 2, "optional": false},
					{"name": "java", "credits": 3, "optional": false},
					{"name": "jcp", "credits": 2, "optional": true}
				]
			}`),
		},
		{
			name:     "unknown route",
			method:   http.MethodGet,
			path:     "/lol",
			wantCode: http.StatusNotFound,
			wantData: []byte(`{"message": "Not Found"}`),
		},
	})
}
