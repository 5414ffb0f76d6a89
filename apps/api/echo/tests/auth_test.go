package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/opennotes/opennotes/apps/api/echo"
	"github.com/opennotes/opennotes/core/user"
)

func Test_authApi_createSession(t *testing.T) {
	resetDB(t)

	verifier.Register("student-token", user.Profile{UID: "uid9", Email: "new@test.cd", Name: "Newbie"})
	verifier.Register("admin-token", user.Profile{UID: "admin1", Email: adminEmail, Name: "Admin"})

	tests := []httpTest{
		{
			name: "token required", method: http.MethodPost, path: "/api/auth/session", body: []byte(`{}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"token": "this field is required"}),
		},
		{
			name: "bad credential", method: http.MethodPost, path: "/api/auth/session",
			body:     marchallObj(t, echoapi.AuthRequest{Token: "nope"}),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("student session", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/auth/session", marchallObj(t, echoapi.AuthRequest{Token: "student-token"}))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp echoapi.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "uid9", resp.User.ID)
		assert.Equal(t, "new@test.cd", resp.User.Email)
		assert.Equal(t, user.RoleStudent, resp.User.Role)

		// the minted token authenticates follow-up calls
		req, rec = newAuthRequest(http.MethodGet, "/api/subjects", resp.Token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admin session", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/auth/session", marchallObj(t, echoapi.AuthRequest{Token: "admin-token"}))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp echoapi.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, user.RoleAdmin, resp.User.Role, "role derives from the admin email set")
	})
}
