package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/site-intel/internal/model"
)

var (
	analyzeAddress    string
	analyzeLat        float64
	analyzeLon        float64
	analyzeRadius     int
	analyzeTypes      []string
	analyzeCategories []string
	analyzeAudience   string
	analyzeBudget     string
	analyzeExperience string
	analyzeFormat     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one site assessment and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &model.AnalysisRequest{
			Address:              analyzeAddress,
			RadiusM:              analyzeRadius,
			AnalysisTypes:        analyzeTypes,
			InterestedCategories: analyzeCategories,
			TargetAudience:       analyzeAudience,
			BudgetBracket:        analyzeBudget,
			Experience:           analyzeExperience,
		}
		if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
			req.Lat, req.Lon = &analyzeLat, &analyzeLon
		}

		report, err := newEngine(cfg).Analyze(cmd.Context(), req)
		if err != nil {
			return err
		}

		switch strings.ToLower(analyzeFormat) {
		case "yaml":
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(report)
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		default:
			return eris.Errorf("unknown output format %q", analyzeFormat)
		}
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeAddress, "address", "", "street address to geocode")
	analyzeCmd.Flags().Float64Var(&analyzeLat, "lat", 0, "latitude (with --lon, skips geocoding)")
	analyzeCmd.Flags().Float64Var(&analyzeLon, "lon", 0, "longitude (with --lat, skips geocoding)")
	analyzeCmd.Flags().IntVar(&analyzeRadius, "radius", 0, "search radius in meters (default 600)")
	analyzeCmd.Flags().StringSliceVar(&analyzeTypes, "types", nil, "analysis types to run (e.g. competition,foot_traffic,risk)")
	analyzeCmd.Flags().StringSliceVar(&analyzeCategories, "categories", nil, "interested business categories")
	analyzeCmd.Flags().StringVar(&analyzeAudience, "audience", "", "free-text target audience description")
	analyzeCmd.Flags().StringVar(&analyzeBudget, "budget", "", "budget bracket")
	analyzeCmd.Flags().StringVar(&analyzeExperience, "experience", "", "operator experience level")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "json", "output format: json or yaml")
	rootCmd.AddCommand(analyzeCmd)
}
