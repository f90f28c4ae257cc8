package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mithaq/internal/document"
	"mithaq/internal/orchestrator"
)

var (
	generateType        string
	generateCount       int
	generateModel       string
	generateVariant     string
	generateTemperature float64
	generateResume      bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one or more new documents",
	Long: `Generate synthesizes new documents of the requested type. Each document
runs through the judge before it is accepted, then lands in its own history
series.

With --count N the batch runs strictly one at a time; a failure stops the
batch but keeps the documents already committed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		req := orchestrator.Request{
			Operation:   document.OpNew,
			Quantity:    generateCount,
			DocType:     document.Type(generateType),
			ModelID:     modelOrDefault(a, generateModel),
			Variant:     document.PromptVariant(generateVariant),
			Temperature: temperatureOrDefault(a, cmd),
		}

		handlePendingSession(a, &req)
		return runGeneration(cmd.Context(), a, req)
	},
}

var amendCmd = &cobra.Command{
	Use:   "amend <series-id>",
	Short: "Generate amended versions of an existing document",
	Long: `Amend asks the model to produce a revised version of the latest document
in the given series. With --count N each amendment builds on the previous
one's output, so revisions compound within the batch.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seriesID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid series id %q", args[0])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		return runGeneration(cmd.Context(), a, orchestrator.Request{
			Operation:   document.OpVersion,
			Quantity:    generateCount,
			SeriesID:    seriesID,
			ModelID:     modelOrDefault(a, generateModel),
			Temperature: temperatureOrDefault(a, cmd),
		})
	},
}

var finalizeCmd = &cobra.Command{
	Use:   "finalize <series-id>",
	Short: "Produce the execution-ready final version of a document",
	Long: `Finalize produces a clean, execution-ready rendition of the latest
version in the given series and appends it as a new version.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seriesID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid series id %q", args[0])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		return runGeneration(cmd.Context(), a, orchestrator.Request{
			Operation:   document.OpFinal,
			SeriesID:    seriesID,
			ModelID:     modelOrDefault(a, generateModel),
			Temperature: temperatureOrDefault(a, cmd),
		})
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateType, "type", "t", "contract", "document type: contract, letter, agreement")
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 0, "number of documents to generate")
	generateCmd.Flags().StringVarP(&generateModel, "model", "m", "", "model id (default from config)")
	generateCmd.Flags().StringVar(&generateVariant, "variant", "", "contract prompt variant: dyno or revo")
	generateCmd.Flags().Float64Var(&generateTemperature, "temperature", 0, "sampling temperature")
	generateCmd.Flags().BoolVar(&generateResume, "resume", false, "resume an interrupted run instead of discarding it")

	amendCmd.Flags().IntVarP(&generateCount, "count", "n", 0, "number of amendments to generate")
	amendCmd.Flags().StringVarP(&generateModel, "model", "m", "", "model id (default from config)")
	amendCmd.Flags().Float64Var(&generateTemperature, "temperature", 0, "sampling temperature")

	finalizeCmd.Flags().StringVarP(&generateModel, "model", "m", "", "model id (default from config)")
	finalizeCmd.Flags().Float64Var(&generateTemperature, "temperature", 0, "sampling temperature")
}

func modelOrDefault(a *app, model string) string {
	if model != "" {
		return model
	}
	return a.cfg.LLM.Model
}

func temperatureOrDefault(a *app, cmd *cobra.Command) float64 {
	if cmd.Flags().Changed("temperature") {
		return generateTemperature
	}
	return a.cfg.Generation.Temperature
}

// handlePendingSession checks for an interrupted run's snapshot. With --resume
// the snapshot's parameters replace the request; otherwise the snapshot is
// discarded with a notice and the request runs as given.
func handlePendingSession(a *app, req *orchestrator.Request) {
	session, ok, err := a.orch.LoadSession()
	if err != nil {
		logger.Warn("loading recovery session", zap.Error(err))
		return
	}
	if !ok {
		return
	}

	if !generateResume {
		fmt.Println(warnStyle.Render(fmt.Sprintf(
			"A previous %s run for a %s was interrupted; discarding it. Use --resume to pick it up instead.",
			session.Operation, session.DocumentType.ArabicLabel())))
		a.orch.AbandonSession()
		return
	}

	req.Operation = session.Operation
	req.DocType = session.DocumentType
	req.Variant = session.PromptVariant
	req.SeriesID = session.SeriesID
	if session.Model != "" {
		req.ModelID = session.Model
	}
	req.Temperature = session.Temperature
	fmt.Println(warnStyle.Render(fmt.Sprintf(
		"Resuming interrupted %s run for a %s.", session.Operation, session.DocumentType.ArabicLabel())))
}

func runGeneration(ctx context.Context, a *app, req orchestrator.Request) error {
	runID := uuid.NewString()
	logger.Info("generation run starting",
		zap.String("run_id", runID),
		zap.String("operation", string(req.Operation)),
		zap.String("type", string(req.DocType)),
		zap.Int("count", req.Quantity),
		zap.String("model", req.ModelID))

	committed, err := a.orch.Generate(ctx, req)

	for _, v := range committed {
		fmt.Println(successStyle.Render(fmt.Sprintf("✓ %s V%d", v.Type.ArabicLabel(), v.VersionNumber)))
		fmt.Println(dimStyle.Render(fmt.Sprintf("  id=%d  %s  %s", v.ID, v.DocumentDate, versionSummary(v))))
	}

	if err != nil {
		logger.Error("generation run failed",
			zap.String("run_id", runID),
			zap.Int("committed", len(committed)),
			zap.Error(err))
		return err
	}

	logger.Info("generation run complete",
		zap.String("run_id", runID),
		zap.Int("committed", len(committed)))
	return nil
}

func versionSummary(v document.Version) string {
	if v.Type == document.TypeLetter {
		return v.Subject
	}
	return fmt.Sprintf("%s / %s", v.Party1, v.Party2)
}
