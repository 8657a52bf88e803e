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
	"github.com/nyx-astro/startrack/pkg/catalogstore"
	"github.com/nyx-astro/startrack/pkg/imagebuild"
	"github.com/nyx-astro/startrack/pkg/matcher"
	"github.com/nyx-astro/startrack/pkg/vector"
	"github.com/observerly/sidera/pkg/humanize"
	"github.com/spf13/cobra"

	"github.com/nyx-astro/startrack/internal/runid"
)

/*****************************************************************************************************************/

type matchParams struct {
	sensorFlags

	dbPath        string
	detectionPath string
}

/*****************************************************************************************************************/

var matchFlags matchParams

/*****************************************************************************************************************/

// MatchCommand loads a persisted catalog bundle, wraps a centroided
// detection list into an image bundle, and runs a single-frame match against
// it, reporting the recovered attitude and identified stars.
var MatchCommand = &cobra.Command{
	Use:   "match",
	Short: "Match a detected star list against a persisted catalog bundle",
	Long:  "match loads a SQLite-persisted catalog bundle and a JSON array of centroided detections, and reports the recovered camera attitude and per-star identifications.",
	RunE:  runMatch,
}

/*****************************************************************************************************************/

func init() {
	MatchCommand.Flags().StringVar(&matchFlags.dbPath, "db", "catalog.sqlite3", "path to the persisted catalog bundle")
	MatchCommand.Flags().StringVar(&matchFlags.detectionPath, "image", "", "path to a JSON array of centroided detections (required)")

	registerSensorFlags(MatchCommand, &matchFlags.sensorFlags)

	_ = MatchCommand.MarkFlagRequired("image")
}

/*****************************************************************************************************************/

func runMatch(cmd *cobra.Command, _ []string) error {
	cfg, err := matchFlags.toConfig()
	if err != nil {
		return fmt.Errorf("match: %w", err)
	}

	db, err := catalogstore.Open(matchFlags.dbPath)
	if err != nil {
		return fmt.Errorf("match: %w", err)
	}

	catalogBundle, err := catalogstore.Load(db)
	if err != nil {
		return fmt.Errorf("match: %w", err)
	}

	detections, err := readDetections(matchFlags.detectionPath)
	if err != nil {
		return fmt.Errorf("match: %w", err)
	}

	imageBundle, err := imagebuild.Build(cfg, detections)
	if err != nil {
		return fmt.Errorf("match: %w", err)
	}

	result, err := matcher.Match(cfg, catalogBundle, imageBundle)
	if err != nil {
		return fmt.Errorf("match: %w", err)
	}

	return printMatchResult(cmd, catalogBundle, result)
}

/*****************************************************************************************************************/

func readDetections(path string) ([]imagebuild.DetectedStar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var detections []imagebuild.DetectedStar
	if err := json.NewDecoder(f).Decode(&detections); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return detections, nil
}

/*****************************************************************************************************************/

// identification is the human-readable form of one image star's outcome,
// with RA/Dec pretty-printed the way sidera's own CLI examples do.
type identification struct {
	ImageStarIdx  int     `json:"imageStarIdx"`
	CatalogID     int64   `json:"catalogId,omitempty"`
	RA            string  `json:"ra,omitempty"`
	Dec           string  `json:"dec,omitempty"`
	LogLikelihood float64 `json:"logLikelihood"`
	Identified    bool    `json:"identified"`
}

/*****************************************************************************************************************/

type matchReport struct {
	RunID           string            `json:"runId"`
	PMatch          float64           `json:"pMatch"`
	Rotation        [3][3]float64     `json:"rotation"`
	Identifications []identification `json:"identifications"`
}

/*****************************************************************************************************************/

func printMatchResult(cmd *cobra.Command, catalogBundle *matcher.CatalogBundle, result *matcher.MatchResult) error {
	byID := make(map[int64]vector.Vec3, len(catalogBundle.Stars.Stars))
	for _, s := range catalogBundle.Stars.Stars {
		byID[s.ID] = s.U
	}

	report := matchReport{
		RunID:           runid.New(),
		PMatch:          result.PMatch,
		Rotation:        result.Rotation,
		Identifications: make([]identification, len(result.WinnerIDMap)),
	}

	for i, id := range result.WinnerIDMap {
		entry := identification{ImageStarIdx: i, LogLikelihood: result.WinnerScores[i]}

		if id != -1 {
			entry.CatalogID = id
			entry.Identified = true

			if u, ok := byID[id]; ok {
				eq := astrometry.EquatorialCoordinateFromUnitVector(u)
				entry.RA = humanize.FormatDecimalToDMS(eq.RA, "%s%d %d %.2f")
				entry.Dec = humanize.FormatDecimalToDMS(eq.Dec, "%s%d %d %.2f")
			}
		}

		report.Identifications[i] = entry
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return enc.Encode(report)
}

/*****************************************************************************************************************/
