package htmlutil

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseForm(t *testing.T) {
	testCases := []struct {
		name     string
		document string
		expected Form
	}{
		{
			name:     "post form",
			document: `<form action="/x" method="post"><input name="a" value="1"></form>`,
			expected: Form{
				Action: "/x",
				Method: "post",
				Fields: map[string]string{"a": "1"},
			},
		},
		{
			name:     "method defaults to get",
			document: `<form action="/x"><input name="a" value="1"></form>`,
			expected: Form{
				Action: "/x",
				Method: "get",
				Fields: map[string]string{"a": "1"},
			},
		},
		{
			name:     "empty method defaults to get",
			document: `<form action="/x" method=""></form>`,
			expected: Form{
				Action: "/x",
				Method: "get",
				Fields: map[string]string{},
			},
		},
		{
			name: "action and method are lowercased",
			document: `<html><body>
				<FORM ACTION="https://Login.Example.COM/SSO" METHOD="POST">
					<INPUT TYPE="hidden" NAME="SAMLResponse" VALUE="PHNhbWw+">
				</FORM>
			</body></html>`,
			expected: Form{
				Action: "https://login.example.com/sso",
				Method: "post",
				Fields: map[string]string{"SAMLResponse": "PHNhbWw+"},
			},
		},
		{
			name: "missing values, nameless inputs and duplicates",
			document: `<form action="/confirm" method="post">
				<input name="token">
				<input type="submit" value="Continue">
				<input name="" value="ignored">
				<input name="dup" value="first">
				<input name="dup" value="second">
				<select name="not-an-input"><option value="x"></option></select>
			</form>`,
			expected: Form{
				Action: "/confirm",
				Method: "post",
				Fields: map[string]string{"token": "", "dup": "second"},
			},
		},
		{
			name: "only the first form",
			document: `<form action="/first" method="post"><input name="a" value="1"></form>
				<form action="/second"><input name="b" value="2"></form>`,
			expected: Form{
				Action: "/first",
				Method: "post",
				Fields: map[string]string{"a": "1"},
			},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			form, err := ParseForm(strings.NewReader(test.document))
			require.NoError(t, err)
			if diff := cmp.Diff(test.expected, form); diff != "" {
				t.Errorf("ParseForm() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFormErrors(t *testing.T) {
	_, err := ParseForm(strings.NewReader(`<html><body><p>nothing here</p></body></html>`))
	require.ErrorIs(t, err, ErrFormNotFound)

	_, err = ParseForm(strings.NewReader(`<form method="post"><input name="a"></form>`))
	require.ErrorIs(t, err, ErrFormMissingAction)
}

func TestResolveAction(t *testing.T) {
	base, err := url.Parse("https://splunkbase.splunk.com/app/123/release/4/download")
	require.NoError(t, err)

	testCases := []struct {
		action   string
		expected string
	}{
		{"/x", "https://splunkbase.splunk.com/x"},
		{"confirm", "https://splunkbase.splunk.com/app/123/release/4/confirm"},
		{"https://login.example.com/sso", "https://login.example.com/sso"},
		{"", "https://splunkbase.splunk.com/app/123/release/4/download"},
	}
	for _, test := range testCases {
		resolved, err := Form{Action: test.action}.ResolveAction(base)
		require.NoError(t, err)
		require.Equal(t, test.expected, resolved.String())
	}
}

func TestValues(t *testing.T) {
	form := Form{Fields: map[string]string{"a": "1", "b": ""}}
	require.Equal(t, url.Values{"a": {"1"}, "b": {""}}, form.Values())
}

func TestTitle(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(`<html><head><title>
		Okta   Redirect
	</title></head></html>`))
	require.NoError(t, err)
	require.Equal(t, "Okta Redirect", Title(doc))

	doc, err = ParseDocument(strings.NewReader(`<p>no title</p>`))
	require.NoError(t, err)
	require.Equal(t, "", Title(doc))
}
