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

// Package refs provides the refs command for legare.
package refs

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/legare/fs"
	"bennypowers.dev/legare/graph"
	"bennypowers.dev/legare/importmap"
	"bennypowers.dev/legare/internal/output"
	"bennypowers.dev/legare/link"
)

// Cmd is the refs command.
var Cmd = &cobra.Command{
	Use:   "refs",
	Short: "Show the references a document bundle will emit",
	Long: `Show the sibling bundle references and import map the linking pass
collects for a document bundle, without rewriting anything.`,
	Example: `  # References for every document in the manifest
  legare refs --manifest dist/bundle-manifest.json

  # References for one bundle
  legare refs --manifest dist/bundle-manifest.json --bundle index-html`,
	RunE: run,
}

func init() {
	Cmd.Flags().String("bundle", "", "Bundle ID to inspect (default: every document bundle)")
}

// bundleRefs is the per-bundle report the command prints.
type bundleRefs struct {
	Bundle     string                 `json:"bundle"`
	References []link.BundleReference `json:"references"`
	ImportMap  *importmap.ImportMap   `json:"importMap,omitempty"`
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

	bundleID, _ := cmd.Flags().GetString("bundle")

	var bundles []*graph.Bundle
	if bundleID != "" {
		b := manifest.Graph().Bundle(bundleID)
		if b == nil {
			return fmt.Errorf("unknown bundle: %s", bundleID)
		}
		bundles = []*graph.Bundle{b}
	} else {
		bundles = manifest.Documents()
	}

	reports := make([]bundleRefs, 0, len(bundles))
	for _, b := range bundles {
		references, im := link.CollectReferences(manifest.Graph(), b)
		report := bundleRefs{Bundle: b.ID, References: references}
		if !im.Empty() {
			report.ImportMap = im
		}
		reports = append(reports, report)
	}

	return output.JSON(osfs, reports)
}
