// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/post-engine/internal/config"
	"github.com/pdiddy/post-engine/internal/draft"
	"github.com/pdiddy/post-engine/internal/pipeline"
	"github.com/pdiddy/post-engine/internal/render"
	"github.com/pdiddy/post-engine/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a social post for a topic",
	Long: `Generate runs the full pipeline: research, insight, draft, verify, refine
and annotate. Progress lines go to stderr; the result goes to stdout.

A request file (--request) supplies defaults that individual flags override.
The command fails only when no draft could be produced.`,
	RunE: runGenerate,
}

func init() {
	addGenerateFlags(generateCmd)
	rootCmd.AddCommand(generateCmd)
}

func addGenerateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("topic", "", "topic of the post (required unless set in --request)")
	f.String("content", "", "custom content: notes, data or a research brief")
	f.String("tone", "", "persona, e.g. \"Practical Educator\"")
	f.StringSlice("format", nil, "content format tags (repeatable)")
	f.Int("words", types.DefaultTargetWords,
		fmt.Sprintf("target word count (%d to %d)", types.MinTargetWords, types.MaxTargetWords))
	f.String("engagement", string(types.EngagementMedium), "engagement level: Low, Medium, High")
	f.StringSlice("pattern", nil, "narrative pattern tags (repeatable)")
	f.Float64("creativity", 0.7, "creativity 0.0 to 1.0")
	f.String("region", types.RegionGlobal, "target audience region")
	f.String("country", "us", "two-letter country used for the Local region")
	f.String("style", "", "free-text style override")
	f.Bool("deep", false, "run multi-query research")
	f.String("request", "", "YAML or JSON request file")
	f.String("output", "text", "output format: text, json, yaml, html")
	f.String("save", "", "also write the result to this directory (e.g. output/posts)")
	f.Uint64("seed", 0, "seed for the structural variation choice")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}
	outName, _ := cmd.Flags().GetString("output")
	format, err := render.ParseFormat(outName)
	if err != nil {
		return err
	}

	if req.TargetWords > 0 && !req.TargetInRange() {
		fmt.Fprintf(os.Stderr, "warning: %d words is outside the usual %d to %d range\n",
			req.TargetWords, types.MinTargetWords, types.MaxTargetWords)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng, err := newEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.close()

	var opts []pipeline.Option
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint64("seed")
		opts = append(opts, pipeline.WithChooser(draft.NewSeededChooser(seed)))
	}
	p := pipeline.New(eng.gateway, eng.collector, eng.cfg.Refine, eng.logger, opts...)

	stream, err := p.Stream(ctx, req)
	if err != nil {
		return err
	}
	progress := render.Progress(os.Stderr)
	for snap := range stream.Snapshots() {
		progress(snap)
	}
	res := stream.Result()

	for _, note := range res.Degraded {
		fmt.Fprintln(os.Stderr, "degraded:", note)
	}
	if err := render.Result(os.Stdout, res, format); err != nil {
		return err
	}
	if dir, _ := cmd.Flags().GetString("save"); dir != "" {
		path, err := render.SaveResult(dir, res, format)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Saved:", path)
	}

	if res.Failed() {
		return fmt.Errorf("generation failed: %s", res.Error)
	}
	return nil
}

// requestFromFlags starts from the request file, if any, and applies every
// flag the user set. Flags left at their defaults only fill empty fields.
func requestFromFlags(cmd *cobra.Command) (types.GenerationRequest, error) {
	var req types.GenerationRequest
	path, _ := cmd.Flags().GetString("request")
	fromFile := path != ""
	if fromFile {
		r, err := config.LoadRequest(path)
		if err != nil {
			return req, err
		}
		req = r
	}

	f := cmd.Flags()
	use := func(name string, empty bool) bool { return f.Changed(name) || empty }

	if v, _ := f.GetString("topic"); use("topic", req.Topic == "") {
		req.Topic = v
	}
	if v, _ := f.GetString("content"); use("content", req.CustomContent == "") {
		req.CustomContent = v
	}
	if v, _ := f.GetString("tone"); use("tone", req.Tone == "") {
		req.Tone = v
	}
	if v, _ := f.GetStringSlice("format"); use("format", len(req.Formats) == 0) {
		req.Formats = v
	}
	if v, _ := f.GetInt("words"); use("words", req.TargetWords == 0) {
		req.TargetWords = v
	}
	if v, _ := f.GetString("engagement"); use("engagement", req.Engagement == "") {
		req.Engagement = types.EngagementLevel(v)
	}
	if v, _ := f.GetStringSlice("pattern"); use("pattern", len(req.NarrativePatterns) == 0) {
		req.NarrativePatterns = v
	}
	// A request file's creativity of 0.0 is deliberate, so the flag default
	// applies only when there is no file.
	if v, _ := f.GetFloat64("creativity"); use("creativity", !fromFile) {
		req.Creativity = v
	}
	if v, _ := f.GetString("region"); use("region", req.Region == "") {
		req.Region = v
	}
	if v, _ := f.GetString("country"); use("country", req.UserCountry == "") {
		req.UserCountry = v
	}
	if v, _ := f.GetString("style"); use("style", req.StyleOverride == "") {
		req.StyleOverride = v
	}
	if v, _ := f.GetBool("deep"); f.Changed("deep") {
		req.Deep = v
	}

	if req.Topic == "" {
		return req, fmt.Errorf("--topic is required")
	}
	return req, nil
}
