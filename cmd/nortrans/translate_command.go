package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dexusno/NorTrans/internal/logging"
	"github.com/dexusno/NorTrans/internal/pipeline"
	"github.com/dexusno/NorTrans/internal/srt"
	"github.com/dexusno/NorTrans/internal/translate"
)

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var (
		outputPath string
		sourceLang string
		targetLang string
		mode       string
		apiURL     string
		policyFlag string
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "translate INPUT",
		Short: "Translate a subtitle file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			source := firstNonEmpty(sourceLang, cfg.Translator.DefaultSourceLang)
			target := firstNonEmpty(targetLang, cfg.Translator.DefaultTargetLang)
			backendMode := firstNonEmpty(mode, cfg.Translator.Mode)
			endpoint := firstNonEmpty(apiURL, cfg.Translator.APIURL)

			policy, err := pipeline.ParsePolicy(firstNonEmpty(policyFlag, cfg.Translator.FailurePolicy))
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = cfg.Translator.MaxConcurrent
			}

			inputPath := args[0]
			raw, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			decoded, err := srt.DecodeBytes(raw)
			if err != nil {
				return err
			}
			doc, err := srt.Parse(decoded)
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			backend, err := translate.NewBackend(translate.Settings{
				Mode:     backendMode,
				APIURL:   endpoint,
				ModelDir: cfg.Paths.ModelDir,
				Timeout:  cfg.RequestTimeout(),
			}, logger)
			if err != nil {
				return err
			}

			started := time.Now()
			out, report, err := pipeline.New(backend, logger).TranslateDocument(cmd.Context(), doc, pipeline.Request{
				Source:  source,
				Target:  target,
				Policy:  policy,
				Workers: workers,
			})
			if err != nil {
				return err
			}

			destination := strings.TrimSpace(outputPath)
			if destination == "" {
				base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
				destination = filepath.Join(filepath.Dir(inputPath), base+"."+target+".srt")
			}
			if err := os.WriteFile(destination, srt.Serialize(out), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Translated %s -> %s (%s)\n", source, target, report.Backend)
			fmt.Fprintf(w, "Segments: %d translated, %d passed through, %.1fs\n",
				report.Translated, report.Passthrough, time.Since(started).Seconds())
			fmt.Fprintf(w, "Wrote %s\n", destination)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default <input>.<target>.srt)")
	cmd.Flags().StringVar(&sourceLang, "source-lang", "", "Source language code")
	cmd.Flags().StringVar(&targetLang, "target-lang", "", "Target language code")
	cmd.Flags().StringVar(&mode, "mode", "", "Translation mode: api or offline")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "LibreTranslate-compatible endpoint")
	cmd.Flags().StringVar(&policyFlag, "policy", "", "Failure policy: strict or lenient")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent translation workers")

	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
