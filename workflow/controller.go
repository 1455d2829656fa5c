package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/lucsky/cuid"
	"github.com/truemediaorg/postanalyzer/analyzer"
	"github.com/truemediaorg/postanalyzer/model"
	"github.com/truemediaorg/postanalyzer/twitter"

	log "github.com/sirupsen/logrus"
)

const (
	emptyURLMsg        = "Please enter a Twitter URL"
	invalidURLMsg      = "Please enter a valid Twitter URL"
	analysisFailedMsg  = "Failed to analyze post"
	lightweightLoading = "Analyzing Twitter post..."
	lightweightSuccess = "Analysis completed!"
	advancedLoading    = "Performing advanced analysis..."
	advancedSuccess    = "Advanced analysis completed!"
)

var (
	// ErrSubmissionInFlight is returned when Submit is called while a request is pending.
	ErrSubmissionInFlight = errors.New("an analysis request is already in flight")
	// ErrDeactivated is returned when the controller was deactivated before the response arrived.
	ErrDeactivated = errors.New("controller deactivated before the analysis finished")
)

// ValidationError is a submission rejected before anything was sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

type Analyzer interface {
	SubmitAnalysis(ctx context.Context, postURL string, commentCount int) (*analyzer.AnalysisResult, error)
}

// Notifier delivers user-facing notifications. Dismiss always comes before
// the Success or Error that ends a submission.
type Notifier interface {
	Loading(message string)
	Dismiss()
	Success(message string)
	Error(message string)
}

type URLChecker interface {
	IsValid(candidate string) bool
}

type Options struct {
	Mode model.ValidationMode
	// Only consulted in lightweight mode; defaults to twitter.com and x.com
	Validator URLChecker
}

type Request struct {
	ID           string
	URL          string
	CommentCount model.CommentCount
}

// Snapshot is the visible state of a Controller. Result is set only in
// StateSuccess and ErrorMessage only in StateFailed.
type Snapshot struct {
	State        State
	Request      *Request
	Result       *analyzer.AnalysisResult
	ErrorMessage string
}

// Controller runs one analysis submission at a time.
type Controller struct {
	analyzer  Analyzer
	notifier  Notifier
	mode      model.ValidationMode
	validator URLChecker

	mu          sync.Mutex
	snapshot    Snapshot
	deactivated bool
}

func NewController(a Analyzer, notifier Notifier, opts Options) *Controller {
	mode := opts.Mode
	if mode == "" {
		mode = model.ValidationModeLightweight
	}
	validator := opts.Validator
	if validator == nil {
		validator = twitter.NewURLValidator(twitter.DefaultDomains)
	}
	return &Controller{
		analyzer:  a,
		notifier:  notifier,
		mode:      mode,
		validator: validator,
		snapshot:  Snapshot{State: StateIdle},
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

func (c *Controller) Mode() model.ValidationMode {
	return c.mode
}

// Deactivate detaches the controller from its view. A response that arrives
// afterwards is dropped without touching state or notifying.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deactivated = true
}

/*
Submit validates the input, sends it to the analyzer and waits for the
outcome. It returns:

	*ValidationError when the input is rejected locally (nothing is sent)
	ErrSubmissionInFlight when another submission hasn't finished
	the analyzer's error when the request failed
	ErrDeactivated when the response arrived after Deactivate
*/
func (c *Controller) Submit(ctx context.Context, rawURL string, commentCount int) error {
	req, err := c.begin(rawURL, commentCount)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			log.WithField("mode", c.mode).Debugf("submission rejected: %v", validationErr)
			c.notifier.Error(validationErr.Message)
		}
		return err
	}

	logger := log.WithField("requestID", req.ID).WithField("url", req.URL)
	logger.WithField("commentCount", req.CommentCount).Info("submitting analysis request")
	c.notifier.Loading(c.loadingMessage())

	result, err := c.analyzer.SubmitAnalysis(ctx, req.URL, int(req.CommentCount))
	if err == nil && result == nil {
		err = errors.New(analysisFailedMsg)
	}
	if !c.finish(req, result, err) {
		logger.Debug("discarding analysis response for deactivated controller")
		return ErrDeactivated
	}

	c.notifier.Dismiss()
	if err != nil {
		logger.Warnf("analysis failed: %v", err)
		c.notifier.Error(failureMessage(err))
		return err
	}
	logger.WithField("comments", len(result.Comments)).Info("analysis completed")
	c.notifier.Success(c.successMessage())
	return nil
}

// begin is the guard clause: it either moves Idle/Success/Failed to
// Submitting or leaves the state as it was.
func (c *Controller) begin(rawURL string, commentCount int) (*Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot.State == StateSubmitting {
		return nil, ErrSubmissionInFlight
	}
	if c.deactivated {
		return nil, ErrDeactivated
	}

	postURL := strings.TrimSpace(rawURL)
	if postURL == "" {
		return nil, &ValidationError{Message: emptyURLMsg}
	}
	if c.mode == model.ValidationModeLightweight && !c.validator.IsValid(postURL) {
		return nil, &ValidationError{Message: invalidURLMsg}
	}
	count, err := model.ParseCommentCount(commentCount)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	req := &Request{ID: cuid.New(), URL: postURL, CommentCount: count}
	c.snapshot = Snapshot{State: StateSubmitting, Request: req}
	return req, nil
}

// finish stores the outcome. It reports false when the outcome was dropped.
func (c *Controller) finish(req *Request, result *analyzer.AnalysisResult, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deactivated || c.snapshot.Request == nil || c.snapshot.Request.ID != req.ID {
		return false
	}
	if err != nil {
		c.snapshot = Snapshot{State: StateFailed, Request: req, ErrorMessage: failureMessage(err)}
		return true
	}
	c.snapshot = Snapshot{State: StateSuccess, Request: req, Result: result}
	return true
}

func (c *Controller) loadingMessage() string {
	if c.mode == model.ValidationModeAdvanced {
		return advancedLoading
	}
	return lightweightLoading
}

func (c *Controller) successMessage() string {
	if c.mode == model.ValidationModeAdvanced {
		return advancedSuccess
	}
	return lightweightSuccess
}

func failureMessage(err error) string {
	var apiErr *analyzer.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return analysisFailedMsg
}
