package analyzer

type AnalyzeRequest struct {
	TwitterURL   string `json:"twitter_url"`
	CommentCount int    `json:"comment_count"`
}

type ValidateURLRequest struct {
	TwitterURL string `json:"twitter_url"`
}

// ValidationOutcome is the body of POST /validate-url.
type ValidationOutcome struct {
	URL     string `json:"url" yaml:"url"`
	IsValid bool   `json:"is_valid" yaml:"is_valid"`
	Status  string `json:"status" yaml:"status"`
}
