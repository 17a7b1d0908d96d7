package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemaforge/schemaforge/internal/canonical"
)

// NewHashCommand creates the hash command
func NewHashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <file>",
		Short: "Hash a document and derive its ETag",
		Long: `Normalize a serialized document (CRLF collapsed to LF), compute its
SHA-256 content hash, and derive the weak ETag used for conditional
requests.

Examples:
  schemaforge hash out/schema.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			hash, err := canonical.Hash(content)
			if err != nil {
				return err
			}
			etag, err := canonical.WeakETag(hash)
			if err != nil {
				return err
			}

			cmd.Printf("sha256: %s\n", hash)
			cmd.Printf("etag: %s\n", etag)
			return nil
		},
	}
}
