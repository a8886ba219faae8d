package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	pokedex "github.com/ferro-labs/pokedex"
	"github.com/ferro-labs/pokedex/internal/version"
	"github.com/ferro-labs/pokedex/pokeapi"
)

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name-or-id>",
		Short: "Show one pokemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			p, err := c.GetPokemon(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render(cmd, opts.output, p, func(w *textWriter) {
				writePokemon(w, p)
			})
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var page, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pokemon names page by page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			params := pokedex.PageParams(page, limit)
			list, err := c.ListPokemon(cmd.Context(), params)
			if err != nil {
				return err
			}
			return render(cmd, opts.output, list, func(w *textWriter) {
				for i, r := range list.Results {
					w.row(fmt.Sprint(params.Offset+i+1), r.Name)
				}
				w.line("%d of %d", len(list.Results), list.Count)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "1-based page number")
	cmd.Flags().IntVar(&limit, "limit", pokedex.DefaultPageSize, "entries per page")
	return cmd
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find pokemon whose names contain query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			results, err := c.SearchPokemon(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if results == nil {
				results = []*pokeapi.Pokemon{}
			}
			return render(cmd, opts.output, results, func(w *textWriter) {
				if len(results) == 0 {
					w.line("no pokemon match %q", args[0])
					return
				}
				for _, p := range results {
					w.row(fmt.Sprint(p.ID), p.Name, typeNames(p))
				}
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (default from config)")
	return cmd
}

func newEvolutionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "evolution <name-or-id>",
		Short: "Show the evolution family of a pokemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			evo, err := c.Evolution(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render(cmd, opts.output, evo, func(w *textWriter) {
				writeEvolution(w, evo.Root, 0)
				w.line("depth %d, branching %t, complex %t", evo.Depth, evo.Branching, evo.Complex)
			})
		},
	}
}

func newMoveCmd(opts *rootOptions) *cobra.Command {
	var versionGroup string
	cmd := &cobra.Command{
		Use:   "move <name-or-id>",
		Short: "Show a move and, with --version-group, the machine teaching it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			m, err := c.GetMove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var machine *pokeapi.Machine
			if versionGroup != "" {
				if machine, err = c.MoveMachine(cmd.Context(), m, versionGroup); err != nil {
					return err
				}
			}
			out := struct {
				Move    *pokeapi.Move    `json:"move"`
				Machine *pokeapi.Machine `json:"machine,omitempty"`
			}{m, machine}
			return render(cmd, opts.output, out, func(w *textWriter) {
				writeMove(w, m)
				if machine != nil {
					w.row("machine", machine.Item.Name+" ("+machine.VersionGroup.Name+")")
				}
			})
		},
	}
	cmd.Flags().StringVar(&versionGroup, "version-group", "", "resolve the machine for this version group")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file (JSON or YAML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pokedex.ValidateConfigFile(args[0]); err != nil {
				return err
			}
			cfg, err := pokedex.LoadConfig(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "config is valid")
			fmt.Fprintf(w, "  upstream: %s\n", cfg.Upstream.BaseURL)
			fmt.Fprintf(w, "  cache:    ttl %s\n", cfg.Cache.TTL)
			fmt.Fprintf(w, "  compare:  %s\n", cfg.Compare.Backend)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pokedex %s\n", version.String())
		},
	}
}

func writePokemon(w *textWriter, p *pokeapi.Pokemon) {
	w.row("id", fmt.Sprint(p.ID))
	w.row("name", p.Name)
	w.row("types", typeNames(p))
	w.row("height", fmt.Sprint(p.Height))
	w.row("weight", fmt.Sprint(p.Weight))
	for _, s := range p.Stats {
		w.row(s.Stat.Name, fmt.Sprint(s.BaseStat))
	}
	if img := p.ImageURL(); img != "" {
		w.row("artwork", img)
	}
}

func writeEvolution(w *textWriter, n *pokedex.EvolutionNode, depth int) {
	label := n.Pokemon.Name
	if req := n.Requirements; req != nil {
		var conds []string
		if req.Trigger != "" {
			conds = append(conds, req.Trigger)
		}
		if req.MinLevel > 0 {
			conds = append(conds, fmt.Sprintf("level %d", req.MinLevel))
		}
		if req.Item != "" {
			conds = append(conds, req.Item)
		}
		if len(conds) > 0 {
			label += " (" + strings.Join(conds, ", ") + ")"
		}
	}
	w.line("%s%s", strings.Repeat("  ", depth), label)
	for _, child := range n.EvolvesTo {
		writeEvolution(w, child, depth+1)
	}
}

func writeMove(w *textWriter, m *pokeapi.Move) {
	w.row("id", fmt.Sprint(m.ID))
	w.row("name", m.Name)
	w.row("type", m.Type.Name)
	w.row("class", m.DamageClass.Name)
	if m.Power != nil {
		w.row("power", fmt.Sprint(*m.Power))
	}
	if m.Accuracy != nil {
		w.row("accuracy", fmt.Sprint(*m.Accuracy))
	}
	if m.PP != nil {
		w.row("pp", fmt.Sprint(*m.PP))
	}
}

func typeNames(p *pokeapi.Pokemon) string {
	names := make([]string, len(p.Types))
	for i, t := range p.Types {
		names[i] = t.Type.Name
	}
	return strings.Join(names, "/")
}
