package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/happyhackingspace/langid/internal/ui"
)

func (c *CLI) newLiveCommand() *cobra.Command {
	var o identifierOptions
	var top int

	cmd := &cobra.Command{
		Use:   "live",
		Short: "Interactively rank languages while typing",
		Example: `  langid live
  langid live --langs en,de,fr,it,pl --top 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.loadIdentifier(o)
			if err != nil {
				return err
			}
			program := tea.NewProgram(ui.NewLiveModel(id.NewSession(), top), tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&o.modelPath, "model", "", "Path to model file (default: config, $LANGID_MODEL or auto-detect)")
	cmd.Flags().StringSliceVar(&o.langs, "langs", nil, "Only consider these languages (comma-separated)")
	cmd.Flags().IntVar(&top, "top", 10, "Number of languages to show (0: all)")
	return cmd
}
