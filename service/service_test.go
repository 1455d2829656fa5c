package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/truemediaorg/postanalyzer/config"
	"github.com/truemediaorg/postanalyzer/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSecretGetter struct {
	mock.Mock
}

func (m *MockSecretGetter) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	args := m.Called(ctx, aws.ToString(params.SecretId))
	if out := args.Get(0); out != nil {
		return out.(*secretsmanager.GetSecretValueOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func testConfig(apiKey, secretPath string) config.Config {
	apiURL, _ := url.Parse("https://analyzer.example.com/api/v1")
	return config.Config{
		Analyzer: config.AnalyzerConfig{
			ApiURL:     *apiURL,
			Timeout:    5 * time.Second,
			ApiKey:     apiKey,
			SecretPath: secretPath,
		},
	}
}

func TestResolveAPIKey(t *testing.T) {
	t.Run("uses the configured key without calling Secrets Manager", func(t *testing.T) {
		secrets := new(MockSecretGetter)
		key, err := resolveAPIKey(context.TODO(), testConfig("direct", "prod/analyzer").Analyzer, secrets)
		require.NoError(t, err)
		assert.Equal(t, "direct", key)
		secrets.AssertNumberOfCalls(t, "GetSecretValue", 0)
	})

	t.Run("no key and no path means no key", func(t *testing.T) {
		key, err := resolveAPIKey(context.TODO(), testConfig("", "").Analyzer, nil)
		require.NoError(t, err)
		assert.Empty(t, key)
	})

	t.Run("reads the key from Secrets Manager", func(t *testing.T) {
		secrets := new(MockSecretGetter)
		secrets.On("GetSecretValue", context.TODO(), "prod/analyzer").Return(&secretsmanager.GetSecretValueOutput{
			SecretString: aws.String(`{"apiKey": "from-secrets"}`),
		}, nil)

		key, err := resolveAPIKey(context.TODO(), testConfig("", "prod/analyzer").Analyzer, secrets)
		require.NoError(t, err)
		assert.Equal(t, "from-secrets", key)
	})

	t.Run("surfaces Secrets Manager errors", func(t *testing.T) {
		secrets := new(MockSecretGetter)
		secrets.On("GetSecretValue", context.TODO(), "prod/analyzer").Return(nil, errors.New("access denied"))

		_, err := resolveAPIKey(context.TODO(), testConfig("", "prod/analyzer").Analyzer, secrets)
		assert.ErrorContains(t, err, "access denied")
	})

	t.Run("rejects malformed secrets", func(t *testing.T) {
		secrets := new(MockSecretGetter)
		secrets.On("GetSecretValue", context.TODO(), "prod/analyzer").Return(&secretsmanager.GetSecretValueOutput{
			SecretString: aws.String(`not json`),
		}, nil)

		_, err := resolveAPIKey(context.TODO(), testConfig("", "prod/analyzer").Analyzer, secrets)
		assert.Error(t, err)
	})

	t.Run("a path without a client is an error", func(t *testing.T) {
		_, err := resolveAPIKey(context.TODO(), testConfig("", "prod/analyzer").Analyzer, nil)
		assert.Error(t, err)
	})
}

func TestNewAnalyzerClient(t *testing.T) {
	client, err := NewAnalyzerClient(context.TODO(), testConfig("direct", ""), nil)
	require.NoError(t, err)
	assert.Equal(t, "https://analyzer.example.com/api/v1", client.BaseURL())
}

func TestDiagnostics(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))
	metrics.ObserveRequest("health", time.Millisecond, metrics.OutcomeSuccess)
	diagnostics := NewDiagnostics(0, reg)

	t.Run("healthz answers ok", func(t *testing.T) {
		rec := httptest.NewRecorder()
		diagnostics.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})

	t.Run("metrics exposes request counters", func(t *testing.T) {
		rec := httptest.NewRecorder()
		diagnostics.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "postanalyzer_requests_total")
	})
}
