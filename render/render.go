package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/truemediaorg/postanalyzer/analyzer"
	"github.com/truemediaorg/postanalyzer/status"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return FormatText, fmt.Errorf("unknown output format: %s", s)
	}
}

// Encode writes v as JSON or YAML.
func Encode(w io.Writer, format Format, v interface{}) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("format %s is not an encoding", format)
	}
}

func Post(w io.Writer, post analyzer.PostSnapshot) {
	fmt.Fprintln(w, "Post Analysis")
	if post.URL != "" {
		fmt.Fprintf(w, "  URL: %s\n", post.URL)
	}
	fmt.Fprintf(w, "  Author: %s\n", post.Author)
	fmt.Fprintf(w, "  Text: %s\n", post.Text)
	if len(post.Images) > 0 {
		fmt.Fprintf(w, "  Images: %d attached\n", len(post.Images))
	}
	if post.VideoURL != "" {
		fmt.Fprintln(w, "  Video: attached")
	}
	fmt.Fprintf(w, "  ❤️ %d  🔄 %d  💬 %d\n", post.Engagement.Likes, post.Engagement.Retweets, post.Engagement.Replies)
}

func Result(w io.Writer, result *analyzer.AnalysisResult) {
	Post(w, result.Post)

	fmt.Fprintln(w, "\nGenerated Comments")
	for i, comment := range result.Comments {
		fmt.Fprintf(w, "  %d. %s\n", i+1, comment)
	}

	if result.Analysis != nil {
		fmt.Fprintln(w, "\nAnalysis Summary")
		fmt.Fprintf(w, "  Tone: %s\n", result.Analysis.Tone)
		fmt.Fprintf(w, "  Sentiment: %s\n", result.Analysis.Sentiment)
		fmt.Fprintf(w, "  Engagement Potential: %s\n", result.Analysis.EngagementPotential)
		if len(result.Analysis.Topics) > 0 {
			fmt.Fprintf(w, "  Topics: %s\n", strings.Join(result.Analysis.Topics, ", "))
		}
		fmt.Fprintf(w, "  Processing Time: %gs\n", result.ProcessingTime)
	}
}

// Status renders the health panel, which is always shown, and the metrics
// panel, which is only shown once metrics were fetched.
func Status(w io.Writer, snapshot status.Snapshot) {
	fmt.Fprintln(w, "System Status")
	fmt.Fprintf(w, "  API Status: %s\n", snapshot.HealthLabel())
	if names := snapshot.ServiceNames(); len(names) > 0 {
		fmt.Fprintln(w, "  Services:")
		for _, name := range names {
			fmt.Fprintf(w, "    %s: %s\n", name, snapshot.Health.Services[name])
		}
	}

	if snapshot.Metrics != nil {
		m := snapshot.Metrics
		fmt.Fprintln(w, "\nMetrics")
		fmt.Fprintf(w, "  Total Requests: %d\n", m.RequestsTotal)
		fmt.Fprintf(w, "  Requests/min: %g\n", m.RequestsPerMinute)
		fmt.Fprintf(w, "  Avg Response: %gms\n", m.AverageResponseTimeMs)
		fmt.Fprintf(w, "  Error Rate: %g%%\n", m.ErrorRatePercent)
	}
}

// StatusDocument is the encoded form of a status snapshot.
type StatusDocument struct {
	Health  analyzer.HealthState   `json:"health" yaml:"health"`
	Details *analyzer.HealthStatus `json:"details,omitempty" yaml:"details,omitempty"`
	Metrics *analyzer.Metrics      `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

func NewStatusDocument(snapshot status.Snapshot) StatusDocument {
	return StatusDocument{
		Health:  snapshot.HealthLabel(),
		Details: snapshot.Health,
		Metrics: snapshot.Metrics,
	}
}
