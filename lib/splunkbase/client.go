package splunkbase

import (
	"context"
	"net/http/cookiejar"
	"net/url"
	"splunkbase-dl/lib/restyutil"
	"splunkbase-dl/lib/telemetry"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

var tracer = telemetry.Tracer("splunkbase-dl/lib/splunkbase")

const (
	DefaultAuthUrl   = "https://account.splunk.com/api/v1/okta/auth"
	DefaultBaseUrl   = "https://splunkbase.splunk.com"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

// Client is one Splunkbase session, its cookie jar carries the
// authentication and the resolved interstitial between requests.
type Client struct {
	AuthUrl string
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	AuthUrl   string
	BaseUrl   string
	UserAgent string
	// 0 means no timeout
	Timeout          time.Duration
	CloudflareBypass bool
	// if nil, http exchanges are not dumped
	DumpOutput restyutil.InstrumentOutput
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.AuthUrl == "" {
		opts.AuthUrl = DefaultAuthUrl
	}
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	_, err = url.Parse(opts.AuthUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	client.SetHeader("user-agent", opts.UserAgent)
	// release downloads redirect to a cdn on another host
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	telemetry.InstrumentResty(client, "splunkbase-dl/lib/splunkbase/http")
	restyutil.InstrumentClient(client, opts.DumpOutput)

	c := &Client{
		AuthUrl: opts.AuthUrl,
		BaseUrl: baseUrl,
		Http:    client,
	}
	return c, nil
}

// ReleaseUrl returns the download url of the release.
func (c *Client) ReleaseUrl(target Target) string {
	return c.BaseUrl.JoinPath(
		"app", target.AppId,
		"release", target.Version,
		"download",
	).String()
}
