package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa911/contactrelay/internal/contact"
	"github.com/osa911/contactrelay/internal/dispatch"
)

func newSendFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "send"}
	cmd.Flags().String("name", "", "")
	cmd.Flags().String("email", "", "")
	cmd.Flags().String("subject", "", "")
	cmd.Flags().String("message", "", "")
	cmd.Flags().String("message-file", "", "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestSubmissionFromFlags(t *testing.T) {
	cmd := newSendFlags(t, "--name", "Jane", "--email", "jane@example.com", "--subject", "Hello there", "--message", "Inline message")

	sub, err := submissionFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, contact.Submission{
		Name:    "Jane",
		Email:   "jane@example.com",
		Subject: "Hello there",
		Message: "Inline message",
	}, sub)
}

func TestSubmissionFromFlags_MessageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "message.txt")
	require.NoError(t, os.WriteFile(path, []byte("From a file\nwith two lines\n"), 0o600))

	sub, err := submissionFromFlags(newSendFlags(t, "--message-file", path))
	require.NoError(t, err)
	assert.Equal(t, "From a file\nwith two lines\n", sub.Message)

	cmd := newSendFlags(t, "--message-file", "-")
	cmd.SetIn(strings.NewReader("From stdin"))
	sub, err = submissionFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, "From stdin", sub.Message)

	_, err = submissionFromFlags(newSendFlags(t, "--message-file", filepath.Join(t.TempDir(), "missing.txt")))
	assert.Error(t, err)
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, dispatch.Result{Success: true, Message: "Email sent successfully!", MessageID: "<id@example.com>"}, "mailto:me@example.com")
	assert.Equal(t, "✓ Email sent successfully!\n  Message ID: <id@example.com>\n", buf.String())

	buf.Reset()
	printResult(&buf, dispatch.Result{Message: "Please correct the following errors before sending.", Errors: []string{"Name is required"}}, "mailto:me@example.com")
	assert.Contains(t, buf.String(), "  - Name is required\n")
	assert.NotContains(t, buf.String(), "mailto:")

	buf.Reset()
	printResult(&buf, dispatch.Result{Message: "Email service is unreachable. Please contact me directly at me@example.com"}, "mailto:me@example.com")
	assert.Contains(t, buf.String(), "You can also write directly: mailto:me@example.com")
}
