package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/osa911/contactrelay/internal/config"
	"github.com/osa911/contactrelay/internal/contact"
	"github.com/osa911/contactrelay/internal/dispatch"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// errSendFailed is returned after a failed dispatch has already been reported
var errSendFailed = errors.New("message was not sent")

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a contact message",
	Long: `Send a contact message.

Example:
  contact send --name "Jane Doe" --email jane@example.com \
    --subject "Project inquiry" --message "I would like to talk about a project."
  contact send --name "Jane Doe" --email jane@example.com \
    --subject "Project inquiry" --message-file ./message.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sub, err := submissionFromFlags(cmd)
		if err != nil {
			return err
		}

		cfg, err := config.LoadClient()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		d, err := dispatch.New(cfg, dispatch.WithLogger(logger))
		if err != nil {
			return err
		}
		form := dispatch.NewForm(d, cfg.FallbackEmail)

		// The dispatcher applies its own timeout; this only bounds a hung connection
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout+5*time.Second)
		defer cancel()

		s := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
		s.Suffix = " Sending..."
		s.Writer = cmd.ErrOrStderr()
		s.Start()
		res, err := form.Submit(ctx, sub)
		s.Stop()
		if err != nil {
			return err
		}

		printResult(cmd.OutOrStdout(), res, form.MailtoURL())
		if !res.Success {
			return errSendFailed
		}
		return nil
	},
}

func submissionFromFlags(cmd *cobra.Command) (contact.Submission, error) {
	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	subject, _ := cmd.Flags().GetString("subject")
	message, _ := cmd.Flags().GetString("message")
	messageFile, _ := cmd.Flags().GetString("message-file")

	if messageFile != "" {
		var (
			data []byte
			err  error
		)
		if messageFile == "-" {
			data, err = io.ReadAll(io.LimitReader(cmd.InOrStdin(), 64*1024))
		} else {
			data, err = os.ReadFile(messageFile)
		}
		if err != nil {
			return contact.Submission{}, fmt.Errorf("failed to read message: %w", err)
		}
		message = string(data)
	}

	return contact.Submission{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
	}, nil
}

func printResult(w io.Writer, res dispatch.Result, mailto string) {
	if res.Success {
		fmt.Fprintf(w, "✓ %s\n", res.Message)
		if res.MessageID != "" {
			fmt.Fprintf(w, "  Message ID: %s\n", res.MessageID)
		}
		return
	}

	fmt.Fprintf(w, "✗ %s\n", res.Message)
	for _, e := range res.Errors {
		fmt.Fprintf(w, "  - %s\n", e)
	}
	if res.Error != "" {
		fmt.Fprintf(w, "  Details: %s\n", res.Error)
	}
	if len(res.Errors) == 0 {
		fmt.Fprintf(w, "  You can also write directly: %s\n", mailto)
	}
}
