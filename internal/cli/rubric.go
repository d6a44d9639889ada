package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rubrica/rubrica/internal/model"
	"github.com/rubrica/rubrica/internal/rubric"
)

// rubricCmd represents the rubric command
var rubricCmd = &cobra.Command{
	Use:   "rubric",
	Short: "Inspect and validate rubric files",
}

var rubricCheckCmd = &cobra.Command{
	Use:   "check [rubric.yaml]",
	Short: "Validate a rubric file",
	Long: `Check loads a rubric and reports structural problems: missing IDs,
empty rules, duplicate entries, unknown scoring modes, and two_of_three
entries without exactly three checks. With no argument the embedded
default rubric is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, source, err := loadRubric(args)
		if err != nil {
			return err
		}

		standard := 0
		twoOfThree := 0
		for _, id := range store.IDs() {
			entry, _ := store.Get(id)
			if entry.ScoringModeOf() == model.ModeTwoOfThree {
				twoOfThree++
			} else {
				standard++
			}
		}

		fmt.Printf("Rubric OK: %s\n", source)
		fmt.Printf("  Version:      %d\n", store.Version())
		fmt.Printf("  Questions:    %d\n", store.Len())
		fmt.Printf("  Standard:     %d\n", standard)
		fmt.Printf("  Two-of-three: %d\n", twoOfThree)
		return nil
	},
}

var rubricShowCmd = &cobra.Command{
	Use:   "show [rubric.yaml]",
	Short: "Print the effective rubric as YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := loadRubric(args)
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(store.File())
		if err != nil {
			return fmt.Errorf("marshal rubric: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

// loadRubric resolves the optional path argument to a rubric store
func loadRubric(args []string) (*rubric.Store, string, error) {
	if len(args) == 1 {
		store, err := rubric.Load(args[0])
		return store, args[0], err
	}
	store, err := rubric.Default()
	return store, "embedded default rubric", err
}

func init() {
	rootCmd.AddCommand(rubricCmd)
	rubricCmd.AddCommand(rubricCheckCmd)
	rubricCmd.AddCommand(rubricShowCmd)
}
