/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package cli

/*****************************************************************************************************************/

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nyx-astro/startrack/pkg/astrometry"
	"github.com/nyx-astro/startrack/pkg/catalog"
	"github.com/nyx-astro/startrack/pkg/catalogbuild"
	"github.com/nyx-astro/startrack/pkg/catalogstore"
	"github.com/spf13/cobra"
)

/*****************************************************************************************************************/

type buildParams struct {
	sensorFlags

	sourcePath string
	dbPath     string
	centerRA   float64
	centerDec  float64
	radius     float64
}

/*****************************************************************************************************************/

var buildFlags buildParams

/*****************************************************************************************************************/

// BuildCommand reads a pre-fetched raw-star JSON list, thins it to a
// density-uniform sample around the given field center, and persists the
// resulting catalog bundle to a SQLite store for later reuse by match runs.
var BuildCommand = &cobra.Command{
	Use:   "build",
	Short: "Build a catalog bundle from a raw star list and persist it",
	Long:  "build reads a JSON array of raw catalog stars, retains a density-uniform sample within the field center and radius given, and writes the resulting star table, pair table index to a SQLite database.",
	RunE:  runBuild,
}

/*****************************************************************************************************************/

func init() {
	BuildCommand.Flags().StringVar(&buildFlags.sourcePath, "source", "", "path to a JSON array of raw catalog stars (required)")
	BuildCommand.Flags().StringVar(&buildFlags.dbPath, "db", "catalog.sqlite3", "path to the SQLite database to write the catalog bundle to")
	BuildCommand.Flags().Float64Var(&buildFlags.centerRA, "center-ra", 0, "field center right ascension, in degrees (ICRS)")
	BuildCommand.Flags().Float64Var(&buildFlags.centerDec, "center-dec", 0, "field center declination, in degrees (ICRS)")
	BuildCommand.Flags().Float64Var(&buildFlags.radius, "radius", 10.0, "search radius around the field center, in degrees")

	registerSensorFlags(BuildCommand, &buildFlags.sensorFlags)

	_ = BuildCommand.MarkFlagRequired("source")
}

/*****************************************************************************************************************/

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := buildFlags.toConfig()
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	raw, err := readRawSources(buildFlags.sourcePath)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	source := catalog.NewStaticSource(raw)

	center := astrometry.ICRSEquatorialCoordinate{RA: buildFlags.centerRA, Dec: buildFlags.centerDec}

	bundle, err := catalogbuild.Build(cmd.Context(), source, center, buildFlags.radius, cfg)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	db, err := catalogstore.Open(buildFlags.dbPath)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	if err := catalogstore.Save(db, bundle); err != nil {
		return fmt.Errorf("build: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "catalog bundle written to %s: %d stars, %d pairs\n",
		buildFlags.dbPath, len(bundle.Stars.Stars), len(bundle.Pairs.Pairs))

	return nil
}

/*****************************************************************************************************************/

func readRawSources(path string) ([]catalog.RawSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sources []catalog.RawSource
	if err := json.NewDecoder(f).Decode(&sources); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return sources, nil
}

/*****************************************************************************************************************/
