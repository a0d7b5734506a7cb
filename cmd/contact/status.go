package main

import (
	"fmt"
	"time"

	"github.com/osa911/contactrelay/internal/config"
	"github.com/osa911/contactrelay/internal/dispatch"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether messages can currently be sent",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadClient()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		d, err := dispatch.New(cfg, dispatch.WithLogger(logger))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Dispatch: %s\n", cfg.Dispatch)

		s := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
		s.Suffix = " Checking..."
		s.Writer = cmd.ErrOrStderr()
		s.Start()
		available := d.Available(cmd.Context())
		s.Stop()

		switch dd := d.(type) {
		case *dispatch.Relay:
			fmt.Fprintf(out, "Relay:    %s (%s)\n", availability(available), cfg.RelayURL)
			if available {
				configured, err := dd.Configured(cmd.Context())
				if err != nil {
					fmt.Fprintf(out, "Mailbox:  unknown (%v)\n", err)
				} else if configured {
					fmt.Fprintln(out, "Mailbox:  configured")
				} else {
					fmt.Fprintln(out, "Mailbox:  not configured")
				}
			}
		case *dispatch.EmailJS:
			if !available {
				fmt.Fprintf(out, "EmailJS:  not configured (missing %v)\n", cfg.EmailJS.Missing())
			} else {
				fmt.Fprintln(out, "EmailJS:  configured")
			}
		case *dispatch.Formspree:
			if !available {
				fmt.Fprintln(out, "Formspree: not configured (missing FORMSPREE_FORM_ID)")
			} else {
				fmt.Fprintf(out, "Formspree: configured (%s)\n", cfg.Formspree.Endpoint())
			}
		}

		fmt.Fprintf(out, "Fallback: mailto:%s\n", cfg.FallbackEmail)
		return nil
	},
}

func availability(ok bool) string {
	if ok {
		return "reachable"
	}
	return "unreachable"
}
