package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"engagement-prediction-api/models"
	"engagement-prediction-api/services"

	"github.com/spf13/cobra"
)

type predictOptions struct {
	platform string
	postType string
	trending string
	month    string
	day      string
	weekday  string
	hour     string
	minute   string
	seed     uint64
	explain  bool
	format   string
}

func newPredictCmd() *cobra.Command {
	var opts predictOptions

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict engagement for one post",
		Long: `Runs one prediction from the command line. Numeric fields are read the
same way the web form reads them; an empty value takes the form default.

Examples:
  engagement predict --platform Facebook --post-type video --trending maybe --weekday 6 --hour 6
  engagement predict --platform Twitter --post-type text --trending no --format json --explain`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(cmd.OutOrStdout(), opts, services.NewRandomSource(opts.seed))
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.platform, "platform", "", "Instagram, Facebook or Twitter")
	f.StringVar(&opts.postType, "post-type", "", "poll, video, carousel, image or text")
	f.StringVar(&opts.trending, "trending", "", "yes, maybe or no")
	f.StringVar(&opts.month, "month", "", "Month 1-12 (default 1)")
	f.StringVar(&opts.day, "day", "", "Day of month 1-31 (default 1)")
	f.StringVar(&opts.weekday, "weekday", "", "Day of week, 0 is Monday (default 0)")
	f.StringVar(&opts.hour, "hour", "", "Hour 0-23 (default 12)")
	f.StringVar(&opts.minute, "minute", "", "Minute 0-59 (default 0)")
	f.Uint64Var(&opts.seed, "seed", 0, "Random seed; 0 seeds from the clock")
	f.BoolVar(&opts.explain, "explain", false, "Print the multiplier breakdown")
	f.StringVar(&opts.format, "format", "text", "Output format (text|json)")
	return cmd
}

func runPredict(w io.Writer, opts predictOptions, src services.RandomSource) error {
	values := url.Values{}
	values.Set("platform", opts.platform)
	values.Set("post_type", opts.postType)
	values.Set("trending", opts.trending)
	values.Set("month", opts.month)
	values.Set("day", opts.day)
	values.Set("weekday", opts.weekday)
	values.Set("hour", opts.hour)
	values.Set("minute", opts.minute)

	form := services.ReadForm(values)
	if err := services.ValidateForm(form); err != nil {
		return err
	}

	result := services.NewPredictor(src).Predict(form.PostAttributes)
	var factors []models.Factor
	if opts.explain {
		factors = services.Breakdown(form.PostAttributes)
	}

	switch strings.ToLower(opts.format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			models.PredictionResult
			Attributes models.PostAttributes `json:"attributes"`
			Factors    []models.Factor       `json:"factors,omitempty"`
		}{result, form.PostAttributes, factors})
	case "text":
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	fmt.Fprintf(w, "Predicted engagement: %d\n", result.Engagement)
	fmt.Fprintf(w, "Confidence:           %d%%\n", result.Confidence)
	fmt.Fprintf(w, "Performance:          %s\n", result.Category)
	fmt.Fprintf(w, "%s\n", result.Explanation)
	for _, f := range factors {
		fmt.Fprintf(w, "  %-12s %-10s x%.2f\n", f.Name, f.Label, f.Multiplier)
	}
	return nil
}
