package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/truemediaorg/postanalyzer/analyzer"
	"github.com/truemediaorg/postanalyzer/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	log "github.com/sirupsen/logrus"
)

type SecretGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// NewSecretsManagerClient returns nil when no secret path is configured, so
// local setups never touch AWS credentials.
func NewSecretsManagerClient(ctx context.Context, cfg config.Config) (*secretsmanager.Client, error) {
	if cfg.Analyzer.ApiKey != "" || cfg.Analyzer.SecretPath == "" {
		return nil, nil
	}
	awsConfig, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return secretsmanager.NewFromConfig(awsConfig), nil
}

// NewAnalyzerClient builds the process-wide analysis API client. The API key
// comes from config, or from Secrets Manager when only a path is configured.
func NewAnalyzerClient(ctx context.Context, cfg config.Config, secrets SecretGetter) (*analyzer.Client, error) {
	apiKey, err := resolveAPIKey(ctx, cfg.Analyzer, secrets)
	if err != nil {
		return nil, err
	}

	client, err := analyzer.NewClient(analyzer.ClientConfig{
		BaseURL: cfg.Analyzer.ApiURL.String(),
		Timeout: cfg.Analyzer.Timeout,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, err
	}
	log.WithField("timeout", cfg.Analyzer.Timeout).Debugf("analyzer client initialized. Host: %s", client.BaseURL())
	return client, nil
}

func resolveAPIKey(ctx context.Context, cfg config.AnalyzerConfig, secrets SecretGetter) (string, error) {
	if cfg.ApiKey != "" || cfg.SecretPath == "" {
		return cfg.ApiKey, nil
	}
	if secrets == nil {
		return "", errors.New("analyzer secret path configured without a secrets client")
	}
	result, err := secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(cfg.SecretPath),
	})
	if err != nil {
		return "", fmt.Errorf("analyzer secrets fetch error: %w", err)
	}
	if result.SecretString == nil {
		return "", fmt.Errorf("analyzer secret %s has no string value", cfg.SecretPath)
	}
	var analyzerSecrets config.AnalyzerSecretData
	if err = json.Unmarshal([]byte(*result.SecretString), &analyzerSecrets); err != nil {
		return "", fmt.Errorf("analyzer secrets read error: %w", err)
	}
	return analyzerSecrets.ApiKey, nil
}
