// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/post-engine/internal/render"
	"github.com/pdiddy/post-engine/internal/research"
	"github.com/pdiddy/post-engine/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Collect recent news for a topic and write a strategic brief",
	Long: `Research queries the configured news providers for a topic and asks the
model for a short strategic brief grounded in the headlines. The brief can be
passed to generate with --content.`,
	RunE: runResearch,
}

func init() {
	f := researchCmd.Flags()
	f.String("topic", "", "topic to research (required)")
	f.String("region", types.RegionGlobal, "target audience region")
	f.String("country", "us", "two-letter country used for the Local region")
	f.Bool("deep", false, "run multi-query research")
	f.String("output", "text", "output format: text, json, yaml")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	if topic == "" {
		return fmt.Errorf("--topic is required")
	}
	region, _ := cmd.Flags().GetString("region")
	country, _ := cmd.Flags().GetString("country")
	deep, _ := cmd.Flags().GetBool("deep")
	outName, _ := cmd.Flags().GetString("output")
	format, err := render.ParseFormat(outName)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng, err := newEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.close()

	fmt.Fprintf(os.Stderr, "Researching %q (%s)...\n", topic, region)
	briefer := research.NewBriefer(eng.collector, eng.gateway, eng.logger.Named("brief"))
	brief := briefer.Brief(ctx, topic, region, country, deep)
	fmt.Fprintln(os.Stderr, brief.Status)

	return render.Brief(os.Stdout, brief, format)
}
