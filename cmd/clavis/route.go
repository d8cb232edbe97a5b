package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/clavisure/clavis/internal/cli"
	"github.com/clavisure/clavis/internal/model"
	"github.com/spf13/cobra"
)

func routeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route <category>",
		Short: "Route a processed document",
		Long: `Decide the final storage target for a document that upstream
processing has already categorized and text-extracted.

The keyword rules can override the initial category; exclusion terms
always win over inclusion matches.

Examples:
  clavis route miscellaneous --text "SUVA Unfallmeldung vom 12. März"
  clavis route invoice --text-file extracted.txt --summary "Kündigung der Police"`,
		Args: cobra.ExactArgs(1),
		RunE: runRoute,
	}

	cmd.Flags().String("text", "", "extracted document text")
	cmd.Flags().String("text-file", "", "read extracted text from a file")
	cmd.Flags().String("summary", "", "document summary, if available")
	cmd.Flags().Bool("json", false, "emit the decision as JSON")

	return cmd
}

func runRoute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	initial := model.DocumentCategory(args[0])

	text, _ := cmd.Flags().GetString("text")
	textFile, _ := cmd.Flags().GetString("text-file")
	summary, _ := cmd.Flags().GetString("summary")
	asJSON, _ := cmd.Flags().GetBool("json")

	if textFile != "" {
		data, err := os.ReadFile(textFile)
		if err != nil {
			return fmt.Errorf("failed to read text file: %w", err)
		}
		text = string(data)
	}

	eng, cleanup, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	decision := eng.Route(ctx, initial, text, summary)

	if asJSON {
		out := struct {
			InitialCategory string `json:"initial_category"`
			FinalCategory   string `json:"final_category"`
			TargetTable     string `json:"target_table"`
			OverrideReason  string `json:"override_reason,omitempty"`
			Overridden      bool   `json:"overridden"`
		}{
			InitialCategory: string(initial),
			FinalCategory:   string(decision.FinalCategory),
			TargetTable:     decision.TargetTable,
			OverrideReason:  decision.OverrideReason,
			Overridden:      decision.Overridden,
		}
		data, marshalErr := json.Marshal(out)
		if marshalErr != nil {
			return marshalErr
		}
		fmt.Println(string(data))
		return nil
	}

	if decision.Overridden {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%s → %s (%s)",
			initial, decision.FinalCategory, decision.OverrideReason)))
	} else {
		fmt.Println(cli.FormatSuccess(string(decision.FinalCategory)))
	}
	fmt.Println(cli.SubtleStyle.Render("  table: " + decision.TargetTable))

	return nil
}
