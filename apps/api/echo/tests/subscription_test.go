package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/opennotes/opennotes/apps/api/echo"
	"github.com/opennotes/opennotes/core/subscription"
	testutil "github.com/opennotes/opennotes/tests"
)

func Test_subscriptionApi(t *testing.T) {
	resetDB(t)

	subj := testutil.CreateSubject(t, subjectRepo, "Biology", "Science", true)
	doomed := testutil.CreateSubject(t, subjectRepo, "Alchemy", "Science", true)

	studentToken := getToken(t, student)
	body := marchallObj(t, echoapi.SubscribeRequest{SubjectID: subj.ID})

	tests := []httpTest{
		{name: "auth required", method: http.MethodPost, path: "/api/subscriptions", body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "subject_id required", method: http.MethodPost, path: "/api/subscriptions", token: studentToken, body: []byte(`{}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"subject_id": "this field is required"}),
		},
		{
			name: "unknown subject", method: http.MethodPost, path: "/api/subscriptions", token: studentToken,
			body:     marchallObj(t, echoapi.SubscribeRequest{SubjectID: "nope"}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "subject not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	var sub subscription.Subscription

	t.Run("subscribe", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/subscriptions", studentToken, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
		assert.Equal(t, student.ID, sub.UserID, "owner comes from the token")
		assert.Equal(t, "Biology", sub.SubjectTitle)

		// subscribing twice never duplicates
		req, rec = newAuthRequest(http.MethodPost, "/api/subscriptions", studentToken, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var again subscription.Subscription
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &again))
		assert.Equal(t, sub.ID, again.ID)
	})

	t.Run("list filters ghosts", func(t *testing.T) {
		testutil.CreateSubscription(t, subRepo, student.ID, doomed)
		require.NoError(t, subjectRepo.DeleteSubjectByID(context.Background(), doomed.ID))

		tt := httpTest{path: "/api/subscriptions", token: studentToken, wantData: marchallList(t, sub)}
		req, rec := newAuthRequest(tt.method, tt.path, tt.token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)

		// the ghost row still exists in storage; only the view filters it
		raw, err := subRepo.QuerySubscriptionsByUser(context.Background(), student.ID)
		require.NoError(t, err)
		assert.Len(t, raw, 2)
	})

	t.Run("unsubscribe", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/subscriptions/"+subj.ID, studentToken)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		// no-op on a second call
		req, rec = newAuthRequest(http.MethodDelete, "/api/subscriptions/"+subj.ID, studentToken)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		tt := httpTest{path: "/api/subscriptions", token: studentToken, wantData: marchallList(t)}
		req, rec = newAuthRequest(tt.method, tt.path, tt.token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}
