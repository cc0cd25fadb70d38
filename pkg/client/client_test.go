package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/favlist-duration/internal/testutil"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	cfg := DefaultConfig("TestApp/1.0.0")
	cfg.BaseURL = baseURL
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid config",
			config: DefaultConfig("TestApp/1.0.0"),
		},
		{
			name:        "empty user agent",
			config:      Config{BaseURL: DefaultBaseURL},
			expectError: true,
			errorMsg:    "user-agent is required",
		},
		{
			name:        "negative timeout",
			config:      Config{UserAgent: "TestApp/1.0.0", Timeout: -time.Second},
			expectError: true,
			errorMsg:    "timeout must be >= 0 (got -1s)",
		},
		{
			name:   "empty base url falls back to default",
			config: Config{UserAgent: "TestApp/1.0.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.config)
			if tt.expectError {
				require.Error(t, err)
				assert.Equal(t, tt.errorMsg, err.Error())
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestNew_TrimsBaseURL(t *testing.T) {
	c, err := New(Config{UserAgent: "TestApp/1.0.0", BaseURL: "http://example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", c.config.BaseURL)

	c, err = New(Config{UserAgent: "TestApp/1.0.0"})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.config.BaseURL)
}

func TestFetchPage_Success(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	mock.SetPage(1, testutil.MockPage{
		Durations: []*int64{testutil.Int64(120), nil, testutil.Int64(0)},
		HasMore:   true,
	})

	c := newTestClient(t, mock.URL())
	page, err := c.FetchPage(context.Background(), "123456", 1, 20)
	require.NoError(t, err)

	assert.True(t, page.HasMore)
	require.Len(t, page.Items, 3)
	assert.True(t, page.Items[0].HasDuration())
	assert.Equal(t, int64(120), *page.Items[0].Duration)
	assert.False(t, page.Items[1].HasDuration())
	assert.True(t, page.Items[2].HasDuration())

	reqs := mock.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "123456", reqs[0].MediaID)
	assert.Equal(t, 1, reqs[0].Page)
	assert.Equal(t, 20, reqs[0].PageSize)
	assert.Equal(t, "TestApp/1.0.0", reqs[0].Header.Get("User-Agent"))
	assert.Equal(t, "application/json", reqs[0].Header.Get("Accept"))
	assert.Empty(t, reqs[0].Header.Get("Cookie"))
}

func TestFetchPage_CookiePassthrough(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetPage(1, testutil.MockPage{Durations: testutil.Durations(1, 10)})

	cfg := DefaultConfig("TestApp/1.0.0")
	cfg.BaseURL = mock.URL()
	cfg.Cookie = "SESSDATA=opaque"
	c, err := New(cfg)
	require.NoError(t, err)

	_, err = c.FetchPage(context.Background(), "1", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, "SESSDATA=opaque", mock.Requests()[0].Header.Get("Cookie"))
}

func TestFetchPage_NegativeDurationIsUndefined(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetPage(1, testutil.MockPage{Durations: []*int64{testutil.Int64(-5)}})

	c := newTestClient(t, mock.URL())
	page, err := c.FetchPage(context.Background(), "1", 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.False(t, page.Items[0].HasDuration())
}

func TestFetchPage_ErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		page    testutil.MockPage
		kind    ErrorKind
		message string
	}{
		{
			name: "api error with message",
			page: testutil.MockPage{Body: testutil.ErrorBody(-403, "权限不足")},
			kind: ErrorKindAPI, message: "权限不足",
		},
		{
			name: "api error without message",
			page: testutil.MockPage{Body: `{"code": 11010}`},
			kind: ErrorKindAPI,
		},
		{
			name: "missing code",
			page: testutil.MockPage{Body: `{"message": "oops"}`},
			kind: ErrorKindAPI, message: "oops",
		},
		{
			name: "not json",
			page: testutil.MockPage{Body: `<html>bad gateway</html>`, StatusCode: http.StatusBadGateway},
			kind: ErrorKindMalformed,
		},
		{
			name: "missing data",
			page: testutil.MockPage{Body: `{"code": 0, "message": "0"}`},
			kind: ErrorKindInvalidStructure,
		},
		{
			name: "missing medias",
			page: testutil.MockPage{Body: `{"code": 0, "data": {"has_more": true}}`},
			kind: ErrorKindInvalidStructure,
		},
		{
			name: "null medias",
			page: testutil.MockPage{Body: `{"code": 0, "data": {"medias": null, "has_more": false}}`},
			kind: ErrorKindInvalidStructure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockAPI()
			defer mock.Close()
			mock.SetPage(1, tt.page)

			c := newTestClient(t, mock.URL())
			page, err := c.FetchPage(context.Background(), "42", 1, 20)
			require.Error(t, err)
			assert.Nil(t, page)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, 1, mock.GetRequestCount(), "fetch must not retry")

			if tt.kind == ErrorKindAPI {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, tt.message, apiErr.Message)
			}
		})
	}
}

func TestFetchPage_EmptyListIsValid(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetPage(1, testutil.MockPage{Body: `{"code": 0, "data": {"medias": [], "has_more": false}}`})

	c := newTestClient(t, mock.URL())
	page, err := c.FetchPage(context.Background(), "42", 1, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
}

func TestFetchPage_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	c := newTestClient(t, baseURL)
	_, err := c.FetchPage(context.Background(), "42", 1, 20)
	require.Error(t, err)

	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
	assert.Equal(t, ErrorKindNetwork, KindOf(err))
}

func TestFetchPage_InvalidArguments(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	c := newTestClient(t, mock.URL())
	ctx := context.Background()

	_, err := c.FetchPage(ctx, "", 1, 20)
	assert.EqualError(t, err, "collection id is required")

	_, err = c.FetchPage(ctx, "1", 0, 20)
	assert.EqualError(t, err, "page must be >= 1 (got 0)")

	_, err = c.FetchPage(ctx, "1", 1, 0)
	assert.EqualError(t, err, "page size must be >= 1 (got 0)")

	assert.Equal(t, 0, mock.GetRequestCount())
}

func TestDecodePage(t *testing.T) {
	page, err := decodePage(http.StatusOK, []byte(testutil.PageBody(testutil.Durations(2, 30), true)))
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasMore)

	_, err = decodePage(http.StatusOK, []byte(`{`))
	var malformed *MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, http.StatusOK, malformed.StatusCode)
}
