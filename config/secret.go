package config

type AnalyzerSecretData struct {
	ApiKey string `json:"apiKey"`
}
