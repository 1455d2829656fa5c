package analyzer

// Engagement counts default to 0 when the service leaves them out.
type Engagement struct {
	Likes    int `json:"likes" yaml:"likes"`
	Retweets int `json:"retweets" yaml:"retweets"`
	Replies  int `json:"replies" yaml:"replies"`
}

// PostSnapshot is the scraped representation of the analyzed post.
type PostSnapshot struct {
	URL        string     `json:"url,omitempty" yaml:"url,omitempty"`
	Author     string     `json:"author" yaml:"author"`
	Text       string     `json:"text" yaml:"text"`
	Images     []string   `json:"images" yaml:"images"`
	VideoURL   string     `json:"video_url,omitempty" yaml:"video_url,omitempty"`
	Engagement Engagement `json:"engagement" yaml:"engagement"`
}

type AnalysisSummary struct {
	Tone                string   `json:"tone" yaml:"tone"`
	Sentiment           string   `json:"sentiment" yaml:"sentiment"`
	EngagementPotential string   `json:"engagement_potential" yaml:"engagement_potential"`
	Topics              []string `json:"topics" yaml:"topics"`
}

/*
AnalysisResult is the body of a successful /analyze call.
Analysis is nil when the service didn't produce a summary.
Comments are kept in the order the service returned them, and their count is
whatever the service sent back, which may differ from the count requested.
*/
type AnalysisResult struct {
	Post           PostSnapshot     `json:"post" yaml:"post"`
	Comments       []string         `json:"comments" yaml:"comments"`
	Analysis       *AnalysisSummary `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	ProcessingTime float64          `json:"processing_time" yaml:"processing_time"`
	Status         string           `json:"status,omitempty" yaml:"status,omitempty"`
}

// PostInfo is the body of GET /post/{id}.
type PostInfo struct {
	PostID       string `json:"post_id" yaml:"post_id"`
	PostSnapshot `yaml:",inline"`
}

func (r *AnalysisResult) normalize() {
	if r.Comments == nil {
		r.Comments = []string{}
	}
	r.Post.normalize()
	if r.Analysis != nil {
		r.Analysis.Topics = dedupe(r.Analysis.Topics)
	}
}

func (p *PostSnapshot) normalize() {
	if p.Images == nil {
		p.Images = []string{}
	}
}

// Topics are a set; first occurrence wins the position.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
