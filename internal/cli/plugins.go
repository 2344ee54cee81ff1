package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newPluginsCmd inspects the plugin directories without starting the
// interactive loop.
func newPluginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List discovered plugins and whether they load",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			mgr := newManager()

			fmt.Fprintln(out, "Search paths:")
			for _, dir := range mgr.Dirs() {
				fmt.Fprintf(out, "  %s\n", dir)
			}

			candidates := mgr.Discover()
			if len(candidates) == 0 {
				fmt.Fprintln(out, "No plugins discovered.")
				return nil
			}

			results := mgr.LoadAll()
			info := mgr.PluginInfo()

			fmt.Fprintf(out, "Discovered plugins (%d):\n", len(candidates))
			for _, c := range candidates {
				if err := results[c.Name]; err != nil {
					fmt.Fprintf(out, "  %-20s FAILED: %v\n", c.Name, err)
					continue
				}
				pi := info[c.Name]
				fmt.Fprintf(out, "  %-20s %s v%s - %s\n", c.Name, pi.Name, pi.Version, pi.Description)
			}
			return nil
		},
	}
}
