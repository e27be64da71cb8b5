package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/recipebox/recipebox/internal/recipe"
	"github.com/recipebox/recipebox/internal/web"
	"github.com/recipebox/recipebox/pkg/apiclient"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

type printer struct {
	out    io.Writer
	format string // "json" | "text"
}

func (p printer) json(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.out, string(b))
	return err
}

func (p printer) list(list []*recipe.Recipe) error {
	if p.format == "json" {
		return p.json(list)
	}
	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTAGS")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Title, strings.Join(r.Tags, ","))
	}
	return tw.Flush()
}

func (p printer) recipe(r *recipe.Recipe) error {
	if p.format == "json" {
		return p.json(r)
	}
	fmt.Fprintf(p.out, "%s  (%s)\n%s\n", r.Title, r.ID, r.Description)
	if len(r.Tags) > 0 {
		fmt.Fprintf(p.out, "tags: %s\n", strings.Join(r.Tags, ", "))
	}
	fmt.Fprintln(p.out, "\ningredients:")
	for _, in := range r.Ingredients {
		fmt.Fprintf(p.out, "  - %s\n", in)
	}
	fmt.Fprintln(p.out, "\nsteps:")
	for i, s := range r.Steps {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, s)
	}
	return nil
}

// readSeedFile loads recipe inputs from a YAML or JSON file holding a list.
func readSeedFile(path string) ([]recipe.Input, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var in []recipe.Input
	if err := yaml.Unmarshal(b, &in); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return in, nil
}

func newRootCmd() *cobra.Command {
	var (
		baseURL = envOr("API_BASE_URL", "http://localhost:5000")
		format  = "text"
		timeout = 30 * time.Second
	)
	cl := apiclient.New(baseURL)
	out := func(cmd *cobra.Command) printer { return printer{out: cmd.OutOrStdout(), format: format} }

	root := &cobra.Command{
		Use:           "recipectl",
		Short:         "Command line client for the recipe API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "text" {
				return fmt.Errorf("--out must be json or text, got %q", format)
			}
			cl.BaseURL = strings.TrimRight(baseURL, "/")
			cl.HTTP = &http.Client{Timeout: timeout}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&baseURL, "api-url", baseURL, "recipe API base URL (env API_BASE_URL)")
	root.PersistentFlags().StringVar(&format, "out", format, "output format: json|text")
	root.PersistentFlags().DurationVar(&timeout, "timeout", timeout, "request timeout")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all recipes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := cl.List(cmd.Context())
			if err != nil {
				return err
			}
			return out(cmd).list(list)
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := cl.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return out(cmd).recipe(r)
		},
	}

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "List recipes whose title or tags contain query (case-insensitive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := cl.List(cmd.Context())
			if err != nil {
				return err
			}
			return out(cmd).list(recipe.Filter(list, args[0]))
		},
	}

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete %s without --yes", args[0])
			}
			msg, err := cl.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")

	var seedFile string
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create recipes from a YAML/JSON file, or the bundled demo recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := web.SampleInputs()
			if seedFile != "" {
				var err error
				if inputs, err = readSeedFile(seedFile); err != nil {
					return err
				}
			}
			return seed(cmd.Context(), cl, inputs, cmd.OutOrStdout())
		},
	}
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML or JSON file with a list of recipes")

	root.AddCommand(listCmd, getCmd, searchCmd, deleteCmd, seedCmd)
	return root
}

func seed(ctx context.Context, cl *apiclient.Client, inputs []recipe.Input, w io.Writer) error {
	for i, in := range inputs {
		r, err := cl.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("recipe %d (%q): %w", i+1, in.Title, err)
		}
		fmt.Fprintf(w, "created %s %s\n", r.ID, r.Title)
	}
	return nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
