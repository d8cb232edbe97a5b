// Package main contains the clavis CLI commands.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/clavisure/clavis/internal/cli"
	"github.com/clavisure/clavis/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [message]",
		Short: "Classify a customer message",
		Long: `Resolve a customer message into its category, urgency and confidence.

The pattern matcher runs first; the AI classifier is consulted only when
the confidence gate escalates. Without AI credentials the engine still
answers using pattern results alone.

Examples:
  clavis classify "Ich möchte eine Offerte für eine Hausratversicherung"
  clavis classify --lang fr "J'aimerais un rendez-vous"
  clavis classify --file messages.txt --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runClassify,
	}

	// Flags
	cmd.Flags().StringP("lang", "l", "de", "message language (de, fr, it, en)")
	cmd.Flags().StringP("file", "f", "", "classify messages from a file, one per line")
	cmd.Flags().Bool("json", false, "emit results as JSON lines")

	_ = viper.BindPFlag("classification.lang", cmd.Flags().Lookup("lang"))

	return cmd
}

// classifyOutput is the JSON shape emitted with --json.
type classifyOutput struct {
	Message     string  `json:"message"`
	Category    string  `json:"category"`
	Urgency     string  `json:"urgency"`
	AppliedRule string  `json:"applied_rule"`
	Confidence  float64 `json:"confidence"`
	Tentative   bool    `json:"tentative,omitempty"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	lang := model.NormalizeLanguage(viper.GetString("classification.lang"))
	file, _ := cmd.Flags().GetString("file")
	asJSON, _ := cmd.Flags().GetBool("json")

	if file == "" && len(args) == 0 {
		return fmt.Errorf("provide a message argument or --file")
	}

	eng, cleanup, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if file == "" {
		res := eng.Classify(ctx, args[0], lang, nil)
		printClassification(args[0], res, asJSON)
		return nil
	}

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open message file: %w", err)
	}
	defer func() { _ = f.Close() }()

	lines := make([]string, 0, 64)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return fmt.Errorf("failed to read message file: %w", scanErr)
	}

	slog.Info("Classifying messages", "count", len(lines), "lang", lang)

	bar := progressbar.NewOptions(len(lines),
		progressbar.OptionSetDescription("Classifying"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	for _, line := range lines {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res := eng.Classify(ctx, line, lang, nil)
		_ = bar.Add(1)
		printClassification(line, res, asJSON)
	}

	return nil
}

func printClassification(message string, res model.ResolvedClassification, asJSON bool) {
	if asJSON {
		out := classifyOutput{
			Message:     message,
			Category:    string(res.Category),
			Urgency:     string(res.Urgency),
			AppliedRule: res.AppliedRule,
			Confidence:  res.Confidence,
			Tentative:   res.Tentative,
		}
		data, err := json.Marshal(out)
		if err != nil {
			fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
			return
		}
		fmt.Println(string(data))
		return
	}

	confidence := fmt.Sprintf("%.2f", res.Confidence)
	line := fmt.Sprintf("%s  urgency=%s  rule=%s  confidence=%s",
		res.Category, res.Urgency, res.AppliedRule, confidence)
	if res.Tentative {
		line += "  (tentative)"
	}
	fmt.Println(cli.FormatSuccess(line))
	fmt.Println(cli.SubtleStyle.Render("  " + message))
}
