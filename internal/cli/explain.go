package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ds-destinationsolutions/cdk-nextjs/pkg/config"
)

func newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [key]",
		Short: "Show documentation for config keys",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listConfigKeys(cmd.OutOrStdout())
			}
			return explainConfigKey(cmd.OutOrStdout(), args[0])
		},
	}
}

func listConfigKeys(out io.Writer) error {
	section := ""
	for _, f := range config.AllFields() {
		if f.Section != section {
			if section != "" {
				fmt.Fprintln(out)
			}
			section = f.Section
			fmt.Fprintf(out, "[%s]\n", section)
		}
		fmt.Fprintf(out, "  %s\n", f.Key)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "run `nextcdn explain <key>` for details")
	return nil
}

func explainConfigKey(out io.Writer, key string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	doc, ok := config.FieldDoc(key)
	if !ok {
		return fmt.Errorf("unknown config key %q (run `nextcdn explain` for the full list)", key)
	}
	fmt.Fprintln(out, doc)
	if values := config.ValuesByField(key); len(values) > 0 {
		fmt.Fprintf(out, "\nallowed values: %s\n", strings.Join(values, ", "))
	}
	return nil
}
