package cmd

import (
	"context"
	"io"
	"sync"

	"github.com/truemediaorg/postanalyzer/analyzer"
	"github.com/truemediaorg/postanalyzer/config"
	"github.com/truemediaorg/postanalyzer/model"
	"github.com/truemediaorg/postanalyzer/notify"
	"github.com/truemediaorg/postanalyzer/service"
	"github.com/truemediaorg/postanalyzer/twitter"
	"github.com/truemediaorg/postanalyzer/workflow"

	log "github.com/sirupsen/logrus"
)

// setup loads config, configures logging and builds the shared API client.
// A --mode flag value overrides the configured validation mode.
func setup(ctx context.Context, modeFlag string) (config.Config, *analyzer.Client) {
	cfg := config.FromEnvfile()
	cfg.ConfigureLogging()

	if modeFlag != "" {
		mode, err := model.ParseValidationMode(modeFlag)
		if err != nil {
			log.Fatal(err)
		}
		cfg.Validation.Mode = mode
	}

	smClient, err := service.NewSecretsManagerClient(ctx, cfg)
	if err != nil {
		log.Fatalf("error loading AWS config: %v", err)
	}
	var secrets service.SecretGetter
	if smClient != nil {
		secrets = smClient
	}

	client, err := service.NewAnalyzerClient(ctx, cfg, secrets)
	if err != nil {
		log.Fatalf("error creating analyzer client: %v", err)
	}
	return cfg, client
}

func newController(cfg config.Config, client *analyzer.Client, out io.Writer) *workflow.Controller {
	return workflow.NewController(client, notify.NewConsole(out), workflow.Options{
		Mode:      cfg.Validation.Mode,
		Validator: twitter.NewURLValidator(cfg.Validation.Domains),
	})
}

// syncWriter serializes writes from concurrent renderers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
