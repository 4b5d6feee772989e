package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuecheck/internal/glossary"
)

var glossaryCmd = &cobra.Command{
	Use:     "glossary",
	Aliases: []string{"g"},
	Short:   "Manage reusable term lists",
	Long: `Glossary lists hold known spellings and known misspellings. A term
without a replacement is hinted to the model by 'terms'; a term with a
replacement is applied by 'polish'.

Lists are stored in SQLite at glossary.path from the config.`,
}

var glossaryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List glossary lists",
	Args:  cobra.NoArgs,
	RunE:  runGlossaryList,
}

var glossaryCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a glossary list",
	Args:  cobra.ExactArgs(1),
	RunE:  runGlossaryCreate,
}

var glossaryAddCmd = &cobra.Command{
	Use:   "add [list] [term] [replacement]",
	Short: "Add a term to a list",
	Long: `Add a term to a list. With a replacement the term is treated as a
misspelling of it.

Examples:
  cuecheck glossary add tech Kubernetes
  cuecheck glossary add tech "cube control" kubectl --note "CLI tool"`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runGlossaryAdd,
}

var glossaryRemoveCmd = &cobra.Command{
	Use:   "remove [list] [term]",
	Short: "Remove a term from a list",
	Args:  cobra.ExactArgs(2),
	RunE:  runGlossaryRemove,
}

var glossaryShowCmd = &cobra.Command{
	Use:   "show [list]",
	Short: "Show the terms of a list",
	Args:  cobra.ExactArgs(1),
	RunE:  runGlossaryShow,
}

var glossaryDeleteCmd = &cobra.Command{
	Use:   "delete [list]",
	Short: "Delete a list and its terms",
	Args:  cobra.ExactArgs(1),
	RunE:  runGlossaryDelete,
}

func init() {
	rootCmd.AddCommand(glossaryCmd)
	glossaryCmd.AddCommand(
		glossaryListCmd,
		glossaryCreateCmd,
		glossaryAddCmd,
		glossaryRemoveCmd,
		glossaryShowCmd,
		glossaryDeleteCmd,
	)

	glossaryCreateCmd.Flags().String("description", "", "What the list is for")
	glossaryAddCmd.Flags().String("note", "", "Note shown next to the term")
	glossaryShowCmd.Flags().Bool("json", false, "Print terms as JSON")
}

func runGlossaryList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openGlossary(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	lists, err := store.Lists(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(lists) == 0 {
		fmt.Fprintln(out, "No glossary lists")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, l := range lists {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", l.Name, l.CreatedAt.Format("2006-01-02"), l.Description)
	}
	return tw.Flush()
}

func runGlossaryCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	description, _ := cmd.Flags().GetString("description")

	store, err := openGlossary(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	l, err := store.CreateList(ctx, glossary.ListInput{Name: args[0], Description: description})
	if err != nil {
		return err
	}

	logger.Debugw("Created glossary list", "id", l.ID, "name", l.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "Created list %q\n", l.Name)
	return nil
}

func runGlossaryAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	note, _ := cmd.Flags().GetString("note")

	in := glossary.TermInput{Term: args[1], Note: note}
	if len(args) == 3 {
		in.Replacement = args[2]
	}

	store, err := openGlossary(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	t, err := store.AddTerm(ctx, args[0], in)
	if err != nil {
		return err
	}

	if t.Replacement != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Added %q -> %q to %q\n", t.Term, t.Replacement, args[0])
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Added %q to %q\n", t.Term, args[0])
	}
	return nil
}

func runGlossaryRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openGlossary(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.RemoveTerm(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from %q\n", args[1], args[0])
	return nil
}

func runGlossaryShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	asJSON, _ := cmd.Flags().GetBool("json")

	store, err := openGlossary(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	terms, err := store.Terms(ctx, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(terms)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TERM\tREPLACEMENT\tNOTE")
	for _, t := range terms {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Term, t.Replacement, t.Note)
	}
	return tw.Flush()
}

func runGlossaryDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openGlossary(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteList(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted list %q\n", args[0])
	return nil
}
