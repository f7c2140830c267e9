package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag   string
	tokenFlag string
	rootCmd   = &cobra.Command{
		Use:   "armemoctl",
		Short: "CLI client for the AR memo backend REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "AR memo service base URL")
	rootCmd.PersistentFlags().StringVarP(&tokenFlag, "token", "t", "", "Bearer token (required)")

	// near subcommand
	nearCmd := &cobra.Command{
		Use:   "near",
		Short: "List memories within a radius of a point",
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, _ := cmd.Flags().GetFloat64("lat")
			lng, _ := cmd.Flags().GetFloat64("lng")
			radius, _ := cmd.Flags().GetFloat64("radius")
			return runNear(lat, lng, radius, os.Stdout)
		},
	}
	nearCmd.Flags().Float64("lat", 0, "Latitude (required)")
	nearCmd.Flags().Float64("lng", 0, "Longitude (required)")
	nearCmd.Flags().Float64("radius", 100, "Radius in meters")
	_ = nearCmd.MarkFlagRequired("lat")
	_ = nearCmd.MarkFlagRequired("lng")
	rootCmd.AddCommand(nearCmd)

	// list subcommand
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List memories with optional filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, _ := cmd.Flags().GetInt("page")
			limit, _ := cmd.Flags().GetInt("limit")
			query, _ := cmd.Flags().GetString("query")
			tag, _ := cmd.Flags().GetString("tag")
			month, _ := cmd.Flags().GetString("month")
			return runList(page, limit, query, tag, month, os.Stdout)
		},
	}
	listCmd.Flags().Int("page", 1, "Page number")
	listCmd.Flags().Int("limit", 20, "Page size")
	listCmd.Flags().StringP("query", "q", "", "Free-text filter")
	listCmd.Flags().String("tag", "", "Tag filter")
	listCmd.Flags().String("month", "", "Month filter (YYYY-MM)")
	rootCmd.AddCommand(listCmd)

	// stats subcommand
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show memory stats summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, _ := cmd.Flags().GetString("lat")
			lng, _ := cmd.Flags().GetString("lng")
			radius, _ := cmd.Flags().GetString("radius")
			return runStats(lat, lng, radius, os.Stdout)
		},
	}
	statsCmd.Flags().String("lat", "", "Latitude for the nearby count")
	statsCmd.Flags().String("lng", "", "Longitude for the nearby count")
	statsCmd.Flags().String("radius", "", "Nearby radius in meters")
	rootCmd.AddCommand(statsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
