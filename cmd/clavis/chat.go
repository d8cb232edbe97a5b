package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/clavisure/clavis/internal/cli"
	"github.com/clavisure/clavis/internal/model"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive conversation session",
		Long: `Start an interactive session against the conversation engine.

Each line you type is one customer turn: intents are classified, flows
collect their fields one at a time, and switching topics mid-flow
preserves what was already entered.

Type 'exit' or press Ctrl+C to leave.`,
		RunE: runChat,
	}

	cmd.Flags().StringP("lang", "l", "de", "conversation language (de, fr, it, en)")
	cmd.Flags().StringP("session", "s", "", "resume an existing session ID")

	_ = viper.BindPFlag("chat.lang", cmd.Flags().Lookup("lang"))

	return cmd
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	lang := model.NormalizeLanguage(viper.GetString("chat.lang"))
	sessionID, _ := cmd.Flags().GetString("session")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	eng, cleanup, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Println(cli.FormatTitle("clavis conversation"))
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("session %s  lang %s  (type 'exit' to quit)", sessionID, lang)))
	fmt.Println()

	reader := cli.NewNonBlockingReader(os.Stdin)

	for {
		fmt.Print(cli.FormatPrompt("> "))

		line, readErr := reader.ReadLine(ctx)
		if readErr != nil {
			if errors.Is(readErr, cli.ErrInputCancelled) || errors.Is(readErr, io.EOF) {
				fmt.Println()
				fmt.Println(cli.SubtleStyle.Render("Goodbye!"))
				return nil
			}
			return fmt.Errorf("failed to read input: %w", readErr)
		}
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			fmt.Println(cli.SubtleStyle.Render("Goodbye!"))
			return nil
		}

		directive, state, advErr := eng.Advance(ctx, sessionID, line, lang)
		if advErr != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Error("Turn failed", "error", advErr)
			fmt.Println(cli.FormatError("something went wrong, please try again"))
			continue
		}

		fmt.Println(renderDirective(directive, state))
		fmt.Println()
	}
}

// slotPrompts holds the English reference phrasing for each collected
// field. Production deployments render directives through their own
// localized templates; the CLI keeps a single language.
var slotPrompts = map[model.SlotName]string{
	model.SlotFullName:        "What is your full name?",
	model.SlotEmail:           "What email address can we reach you at?",
	model.SlotPhone:           "What is your phone number?",
	model.SlotInsuranceType:   "Which type of insurance are you interested in?",
	model.SlotCoverageDetails: "What coverage do you need? Any details help.",
	model.SlotPreferredDate:   "Which date works for you?",
	model.SlotPreferredTime:   "What time of day suits you best?",
	model.SlotDocumentType:    "What kind of document would you like to upload?",
	model.SlotDocumentNote:    "Anything we should know about this document?",
}

func promptFor(slot model.SlotName) string {
	if p, ok := slotPrompts[slot]; ok {
		return p
	}
	return fmt.Sprintf("Please provide: %s", slot)
}

func renderDirective(d model.Directive, state *model.ConversationState) string {
	switch d.Kind {
	case model.DirectivePromptSlot:
		return cli.BotIcon + " " + promptFor(d.Slot)
	case model.DirectiveRepromptSlot:
		msg := "That doesn't look right."
		if d.Reason != "" {
			msg = fmt.Sprintf("That doesn't look right (%s).", d.Reason)
		}
		return cli.FormatWarning(msg) + "\n" + cli.BotIcon + " " + promptFor(d.Slot)
	case model.DirectiveFlowResumed:
		return cli.FormatSuccess(fmt.Sprintf("Picking up your %s request where we left off.", d.Flow)) +
			"\n" + cli.BotIcon + " " + promptFor(d.Slot)
	case model.DirectiveFlowComplete:
		return cli.FormatSuccess(fmt.Sprintf("All done! Your %s request has been submitted.", d.Flow))
	case model.DirectiveFinalizeFailed:
		return cli.FormatWarning("We couldn't submit your request just now. Say anything to retry.")
	case model.DirectiveFlowAbandoned:
		return cli.FormatError(fmt.Sprintf("Submitting your %s request failed repeatedly. Please contact support.", d.Flow))
	case model.DirectiveAnswer:
		return renderAnswer(d, state)
	default:
		return cli.FormatWarning("I'm not sure what to do with that.")
	}
}

func renderAnswer(d model.Directive, state *model.ConversationState) string {
	tentative := state != nil && state.TentativeCategory != ""
	label := fmt.Sprintf("Understood: %s", d.Category)
	if tentative {
		label += " (still confirming)"
	}
	return cli.SubtleStyle.Render(label)
}
