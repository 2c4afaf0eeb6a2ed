package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newSeedCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <names.txt>",
		Short: "Create the substances table and insert names, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			names, err := readNames(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			ctx := commandContext(cmd)
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.EnsureSchema(ctx); err != nil {
				return err
			}
			inserted, err := a.store.InsertNames(ctx, names)
			if err != nil {
				return err
			}
			a.log.Info("Seeding complete!", "read", len(names), "inserted", inserted)
			fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d of %d substances.\n", inserted, len(names))
			return nil
		},
	}
}

// readNames returns the trimmed, non-empty lines of r. Lines starting with
// '#' are comments. Duplicates are dropped, keeping the first occurrence.
func readNames(r io.Reader) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || seen[line] {
			continue
		}
		seen[line] = true
		names = append(names, line)
	}
	return names, scanner.Err()
}
