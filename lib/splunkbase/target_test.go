package splunkbase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	target, err := ParseTarget("123-4")
	require.NoError(t, err)
	require.Equal(t, Target{AppId: "123", Version: "4"}, target)
	require.Equal(t, "123-4", target.String())

	target, err = ParseTarget("1621-8.0.0")
	require.NoError(t, err)
	require.Equal(t, Target{AppId: "1621", Version: "8.0.0"}, target)

	for _, invalid := range []string{"123", "1-2-3", "", "-4", "123-", "-"} {
		_, err := ParseTarget(invalid)
		require.ErrorIs(t, err, ErrInvalidTarget, invalid)
	}
}

func TestReleaseUrl(t *testing.T) {
	client, err := NewClient(context.Background(), ClientOptions{})
	require.NoError(t, err)
	require.Equal(
		t,
		"https://splunkbase.splunk.com/app/123/release/4/download",
		client.ReleaseUrl(Target{AppId: "123", Version: "4"}),
	)

	client, err = NewClient(context.Background(), ClientOptions{BaseUrl: "http://localhost:8080/"})
	require.NoError(t, err)
	require.Equal(
		t,
		"http://localhost:8080/app/1621/release/8.0.0/download",
		client.ReleaseUrl(Target{AppId: "1621", Version: "8.0.0"}),
	)
	require.Equal(t, DefaultAuthUrl, client.AuthUrl)
}
