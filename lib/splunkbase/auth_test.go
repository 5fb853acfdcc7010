package splunkbase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"splunkbase-dl/lib/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t testing.TB, fake *testutil.FakeSplunk) *Client {
	client, err := NewClient(context.Background(), ClientOptions{
		AuthUrl: fake.AuthUrl(),
		BaseUrl: fake.BaseUrl(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestLogin(t *testing.T) {
	fake := testutil.NewFakeSplunk(t, testutil.FakeSplunkParams{
		Username: "admin",
		Password: "hunter2",
	})
	client := newTestClient(t, fake)

	err := client.LoginUsernamePassword(context.Background(), "admin", "hunter2")
	require.NoError(t, err)

	base, err := url.Parse(fake.BaseUrl())
	require.NoError(t, err)
	cookies := client.Http.GetClient().Jar.Cookies(base)
	require.Len(t, cookies, 1)
	require.Equal(t, testutil.SessionCookie, cookies[0].Name)
}

func TestLoginBadCredentials(t *testing.T) {
	fake := testutil.NewFakeSplunk(t, testutil.FakeSplunkParams{
		Username: "admin",
		Password: "hunter2",
	})
	client := newTestClient(t, fake)

	err := client.LoginUsernamePassword(context.Background(), "admin", "wrong")
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad creds")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, 403, authErr.StatusCode)
	require.Equal(t, "bad creds", authErr.Message)
}

func TestLoginResponses(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    string
		wantErr bool
		authErr bool
	}{
		{name: "success status", status: http.StatusOK, body: `{"status_code": 200}`},
		{name: "no status field", status: http.StatusOK, body: `{"ok": true}`},
		{name: "provider error", status: http.StatusOK, body: `{"status_code": 403, "message": "bad creds"}`, wantErr: true, authErr: true},
		{name: "http error", status: http.StatusUnauthorized, body: `{}`, wantErr: true, authErr: true},
		{name: "not json", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantErr: true},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				w.WriteHeader(test.status)
				w.Write([]byte(test.body))
			}))
			defer server.Close()

			client, err := NewClient(context.Background(), ClientOptions{AuthUrl: server.URL})
			require.NoError(t, err)

			err = client.LoginUsernamePassword(context.Background(), "admin", "hunter2")
			if !test.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			var authErr *AuthError
			require.Equal(t, test.authErr, errors.As(err, &authErr))
		})
	}
}
