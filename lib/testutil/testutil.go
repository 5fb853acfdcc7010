package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

const (
	SessionCookie   = "okta_session"
	ConfirmedCookie = "interstitial_confirmed"
)

// FakeSplunkParams describes the behaviour of a FakeSplunk server.
type FakeSplunkParams struct {
	Username string
	Password string
	// body of the release
	Package []byte
	// value of the Content-Disposition header on the release,
	// if unspecified, it will use `attachment; filename="<app_id>_<version>.tgz"`
	ContentDisposition string
	// method of the interstitial form, if unspecified, it will use "post"
	FormMethod string
}

// FakeSplunk emulates the okta authentication endpoint and the release
// download of splunkbase, including the interstitial confirmation page.
type FakeSplunk struct {
	Server *httptest.Server
	Params FakeSplunkParams

	hits        atomic.Int64
	submissions atomic.Int64
}

func (f *FakeSplunk) AuthUrl() string {
	return f.Server.URL + "/api/v1/okta/auth"
}

func (f *FakeSplunk) BaseUrl() string {
	return f.Server.URL
}

// Hits is the total number of requests served.
func (f *FakeSplunk) Hits() int64 {
	return f.hits.Load()
}

// Submissions is the number of interstitial forms received.
func (f *FakeSplunk) Submissions() int64 {
	return f.submissions.Load()
}

func NewFakeSplunk(t testing.TB, params FakeSplunkParams) *FakeSplunk {
	if params.FormMethod == "" {
		params.FormMethod = "post"
	}

	f := &FakeSplunk{Params: params}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/okta/auth", f.handleAuth)
	mux.HandleFunc("/app/{app_id}/release/{version}/download", f.handleDownload)
	mux.HandleFunc("/interstitial/confirm", f.handleConfirm)

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Server.Close)
	return f
}

func writeJson(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(value)
}

func (f *FakeSplunk) handleAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&creds)
	if err != nil {
		writeJson(w, http.StatusOK, map[string]any{"status_code": 400, "message": "malformed request"})
		return
	}
	if creds.Username != f.Params.Username || creds.Password != f.Params.Password {
		writeJson(w, http.StatusOK, map[string]any{"status_code": 403, "message": "bad creds"})
		return
	}

	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "session-" + creds.Username, Path: "/"})
	writeJson(w, http.StatusOK, map[string]any{"status_code": 200})
}

func hasCookie(r *http.Request, name string) bool {
	_, err := r.Cookie(name)
	return err == nil
}

func (f *FakeSplunk) handleDownload(w http.ResponseWriter, r *http.Request) {
	if !hasCookie(r, SessionCookie) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if !hasCookie(r, ConfirmedCookie) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<html>
<head><title>Redirecting</title></head>
<body>
	<form action="/Interstitial/Confirm" method="%s">
		<input type="hidden" name="app_id" value="%s">
		<input type="hidden" name="version" value="%s">
		<input type="hidden" name="accepted">
		<input type="submit" value="Continue">
	</form>
</body>
</html>`, f.Params.FormMethod, r.PathValue("app_id"), r.PathValue("version"))
		return
	}

	disposition := f.Params.ContentDisposition
	if disposition == "" {
		disposition = fmt.Sprintf(`attachment; filename="%s_%s.tgz"`, r.PathValue("app_id"), r.PathValue("version"))
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", disposition)
	w.Write(f.Params.Package)
}

func (f *FakeSplunk) handleConfirm(w http.ResponseWriter, r *http.Request) {
	if !hasCookie(r, SessionCookie) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if !strings.EqualFold(r.Method, f.Params.FormMethod) {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	err := r.ParseForm()
	if err != nil || r.Form.Get("app_id") == "" || r.Form.Get("version") == "" || !r.Form.Has("accepted") {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.submissions.Add(1)
	http.SetCookie(w, &http.Cookie{Name: ConfirmedCookie, Value: "1", Path: "/"})
	w.Write([]byte("ok"))
}
