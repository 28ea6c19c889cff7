/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package link provides the link command for legare.
package link

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/legare/fs"
	"bennypowers.dev/legare/graph"
	"bennypowers.dev/legare/pack"
)

// Cmd is the link command.
var Cmd = &cobra.Command{
	Use:   "link",
	Short: "Rewrite bundle references in packaged output",
	Long: `Rewrite placeholder tokens in packaged bundle output into their final
runtime form.

For each document bundle in the manifest, rewrites URL placeholders,
splices inline bundle content, emits script and stylesheet tags for
sibling bundles, and writes the document's import map.`,
	Example: `  # Link every document in the manifest
  legare link --manifest dist/bundle-manifest.json

  # Only documents whose output file matches a glob
  legare link --manifest dist/bundle-manifest.json --glob "dist/**/*.html"

  # Absolute URLs instead of relative sibling paths
  legare link --manifest dist/bundle-manifest.json --absolute

  # Dry run to see what would change
  legare link --manifest dist/bundle-manifest.json --dry-run`,
	RunE: run,
}

func init() {
	Cmd.Flags().String("glob", "", "Glob pattern restricting which document output files are linked")
	Cmd.Flags().Bool("absolute", false, "Link sibling bundles by absolute public URL instead of relative path")
	Cmd.Flags().IntP("jobs", "j", 0, "Number of parallel workers (default: number of CPUs)")
	Cmd.Flags().Bool("dry-run", false, "Show what would change without modifying files")
	Cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
}

func run(cmd *cobra.Command, args []string) error {
	osfs := fs.NewOSFileSystem()

	manifestPath := viper.GetString("manifest")
	if manifestPath == "" {
		return fmt.Errorf("--manifest is required")
	}

	data, err := osfs.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	manifest, err := graph.ParseManifest(data)
	if err != nil {
		return err
	}

	globPattern, _ := cmd.Flags().GetString("glob")
	absolute, _ := cmd.Flags().GetBool("absolute")
	parallel, _ := cmd.Flags().GetInt("jobs")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	format, _ := cmd.Flags().GetString("format")

	opts := pack.Options{
		Relative: !absolute,
		Parallel: parallel,
		DryRun:   dryRun,
	}

	packager := pack.NewPackager(osfs, manifest, opts.Relative)
	documents := manifest.Documents()
	if globPattern != "" {
		var matched []*graph.Bundle
		for _, b := range documents {
			ok, err := doublestar.Match(globPattern, packager.OutputPath(b))
			if err != nil {
				return fmt.Errorf("invalid glob pattern: %w", err)
			}
			if ok {
				matched = append(matched, b)
			}
		}
		documents = matched
	}

	if len(documents) == 0 {
		fmt.Fprintln(os.Stderr, "Warning: no document bundles to link")
		return nil
	}

	results := pack.LinkBatch(osfs, manifest, documents, opts)

	var stats pack.Stats
	encoder := json.NewEncoder(os.Stdout)

	for result := range results {
		stats.Total++
		if result.Error != "" {
			stats.Errors++
			if format == "json" {
				_ = encoder.Encode(result)
			} else {
				fmt.Fprintf(os.Stderr, "Error: %s: %s\n", result.File, result.Error)
			}
		} else if result.Modified {
			stats.Linked++
			if format == "json" {
				_ = encoder.Encode(result)
			} else if dryRun {
				fmt.Printf("would link %s\n", result.File)
			} else {
				fmt.Printf("linked %s\n", result.File)
			}
		}
	}

	if format == "text" {
		fmt.Printf("Linked: %d of %d documents, %d errors\n", stats.Linked, stats.Total, stats.Errors)
	} else {
		statsJSON, _ := json.Marshal(stats)
		fmt.Println(string(statsJSON))
	}

	if stats.Total > 0 && stats.Errors == stats.Total {
		return fmt.Errorf("all %d documents failed", stats.Errors)
	}

	return nil
}
