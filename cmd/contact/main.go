package main

import (
	"fmt"
	"os"

	"github.com/osa911/contactrelay/internal/logging"
	"github.com/osa911/contactrelay/internal/version"

	"github.com/spf13/cobra"
)

var logger *logging.Logger

func initLogger() {
	if logger != nil {
		return
	}

	// Warnings and errors go to both the console and the log file; lower levels are dropped
	logging.Configure(logging.DefaultConfig("~/.contactrelay/client.log", logging.LevelWarn))
	logger = logging.GetLogger()
}

var rootCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a message through the portfolio contact form",
	Long: `contact submits a message the same way the portfolio contact form does:
it validates the fields locally, then dispatches through the relay server
or directly through EmailJS, depending on CONTACT_DISPATCH.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	// No log file needed just to print the version
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "contact %s\n", version.Info())
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)

	sendCmd.Flags().String("name", "", "Your name")
	sendCmd.Flags().String("email", "", "Your email address, used as the reply-to")
	sendCmd.Flags().String("subject", "", "Message subject")
	sendCmd.Flags().String("message", "", "Message body")
	sendCmd.Flags().String("message-file", "", "Read the message body from a file (- for stdin)")
	sendCmd.MarkFlagsMutuallyExclusive("message", "message-file")
}

func main() {
	err := rootCmd.Execute()
	if logger != nil {
		logger.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}
