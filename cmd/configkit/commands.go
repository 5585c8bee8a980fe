package main

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-configkit"
	"github.com/goliatone/go-configkit/pkg/files"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newToTclCmd(root *rootOptions) *cobra.Command {
	var (
		output  string
		resolve bool
	)
	cmd := &cobra.Command{
		Use:   "to-tcl FILE...",
		Short: "Convert YAML or JSON documents and Tcl scripts into one Tcl script",
		Long: `Load every input into one store and write it as a Tcl script. YAML and
JSON documents are merged left to right; Tcl scripts are sourced before them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := root.newStore()
			if err != nil {
				return err
			}
			if err := files.LoadMixed(store, resolve, args...); err != nil {
				return err
			}
			if output != "" {
				return files.WriteScript(output, store)
			}
			lines, err := store.PersistedForm()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(root.stdout, strings.Join(lines, "\n"))
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the script to this file instead of stdout")
	cmd.Flags().BoolVar(&resolve, "resolve", false, "substitute $name references before writing")
	return cmd
}

func newToYAMLCmd(root *rootOptions) *cobra.Command {
	var (
		output  string
		resolve bool
		mode    string
	)
	cmd := &cobra.Command{
		Use:   "to-yaml FILE...",
		Short: "Convert Tcl scripts and YAML documents into one YAML document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := configkit.ParseMode(mode)
			if err != nil {
				return err
			}
			store, err := root.newStore()
			if err != nil {
				return err
			}
			if err := files.LoadMixed(store, resolve, args...); err != nil {
				return err
			}
			tree, err := store.Tree(parsed)
			if err != nil {
				return err
			}
			return writeTree(root, output, tree)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the document to this file instead of stdout")
	cmd.Flags().BoolVar(&resolve, "resolve", false, "substitute $name references before decoding")
	cmd.Flags().StringVar(&mode, "mode", string(configkit.ModeAuto), "decoding of untyped values (auto, str, list)")
	return cmd
}

func newMergeCmd(root *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "merge FILE...",
		Short: "Merge YAML and JSON documents left to right",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := files.LoadDocuments(args...)
			if err != nil {
				return err
			}
			return writeTree(root, output, tree)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the document to this file instead of stdout")
	return cmd
}

func newSlotsCmd(root *rootOptions) *cobra.Command {
	var resolve bool
	cmd := &cobra.Command{
		Use:   "slots FILE...",
		Short: "List the variable slots a set of inputs produces",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := root.newStore()
			if err != nil {
				return err
			}
			if err := files.LoadMixed(store, resolve, args...); err != nil {
				return err
			}
			slots, err := store.Slots()
			if err != nil {
				return err
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(root.stdout)
			tw.SetStyle(table.StyleLight)
			tw.AppendHeader(table.Row{"Slot", "Kind", "Value"})
			for _, slot := range slots {
				kind := "-"
				if slot.Kind != configkit.KindUnknown {
					kind = string(slot.Kind)
				}
				tw.AppendRow(table.Row{slot.Ref, kind, slot.Literal})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&resolve, "resolve", false, "substitute $name references before listing")
	return cmd
}

func newVersionCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the configkit version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(root.stdout, "configkit version %s\n", version)
			return err
		},
	}
}

func writeTree(root *rootOptions, output string, tree map[string]any) error {
	if output != "" {
		return files.WriteYAML(output, tree)
	}
	data, err := yaml.Marshal(tree)
	if err != nil {
		return err
	}
	_, err = root.stdout.Write(data)
	return err
}
