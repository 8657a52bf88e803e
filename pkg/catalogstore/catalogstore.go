/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package catalogstore persists a catalog bundle (star table + pair table)
// to SQLite via gorm, so that a process can skip rebuilding the
// density-uniform sample and pair table on every startup. Only the
// catalog-side bundle is persisted; match results are never written here.
package catalogstore

/*****************************************************************************************************************/

import (
	"fmt"

	"github.com/nyx-astro/startrack/pkg/kdindex"
	"github.com/nyx-astro/startrack/pkg/matcher"
	"github.com/nyx-astro/startrack/pkg/pair"
	"github.com/nyx-astro/startrack/pkg/star"
	"github.com/nyx-astro/startrack/pkg/vector"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*****************************************************************************************************************/

// starRow and pairRow are the persisted schema. Catalog-side stars never
// carry pixel positions or per-star variance, so only the fields that
// matter to the catalog side are stored.
type starRow struct {
	Idx     int `gorm:"primaryKey"`
	StarID  int64
	X       float64
	Y       float64
	Z       float64
	Photons float64
}

/*****************************************************************************************************************/

func (starRow) TableName() string { return "catalog_stars" }

/*****************************************************************************************************************/

type pairRow struct {
	Idx  int `gorm:"primaryKey"`
	S1   int
	S2   int
	Sep  float64
}

/*****************************************************************************************************************/

func (pairRow) TableName() string { return "catalog_pairs" }

/*****************************************************************************************************************/

// Open opens (creating if necessary) a SQLite-backed store at path and
// migrates its schema.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("catalogstore: opening %s: %w", path, err)
	}

	if err := db.AutoMigrate(&starRow{}, &pairRow{}); err != nil {
		return nil, fmt.Errorf("catalogstore: migrating schema: %w", err)
	}

	return db, nil
}

/*****************************************************************************************************************/

// Save writes bundle's star table and pair table to db, replacing any
// previously persisted catalog.
func Save(db *gorm.DB, bundle *matcher.CatalogBundle) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&starRow{}).Error; err != nil {
			return fmt.Errorf("catalogstore: clearing stars: %w", err)
		}

		if err := tx.Where("1 = 1").Delete(&pairRow{}).Error; err != nil {
			return fmt.Errorf("catalogstore: clearing pairs: %w", err)
		}

		stars := make([]starRow, len(bundle.Stars.Stars))
		for i, s := range bundle.Stars.Stars {
			stars[i] = starRow{
				Idx:     s.Idx,
				StarID:  s.ID,
				X:       s.U.X,
				Y:       s.U.Y,
				Z:       s.U.Z,
				Photons: s.Photons,
			}
		}

		if len(stars) > 0 {
			if err := tx.CreateInBatches(stars, 500).Error; err != nil {
				return fmt.Errorf("catalogstore: writing stars: %w", err)
			}
		}

		pairs := make([]pairRow, len(bundle.Pairs.Pairs))
		for i, p := range bundle.Pairs.Pairs {
			pairs[i] = pairRow{Idx: p.Idx, S1: p.S1, S2: p.S2, Sep: p.P}
		}

		if len(pairs) > 0 {
			if err := tx.CreateInBatches(pairs, 500).Error; err != nil {
				return fmt.Errorf("catalogstore: writing pairs: %w", err)
			}
		}

		return nil
	})
}

/*****************************************************************************************************************/

// Load reconstructs a catalog bundle from db, rebuilding the angular neighbor
// index over the loaded star table (the index itself is never persisted —
// it is cheap to rebuild and tying its internal layout to a schema would
// make the schema fragile across releases).
func Load(db *gorm.DB) (*matcher.CatalogBundle, error) {
	var starRows []starRow
	if err := db.Order("idx asc").Find(&starRows).Error; err != nil {
		return nil, fmt.Errorf("catalogstore: reading stars: %w", err)
	}

	if len(starRows) == 0 {
		return nil, fmt.Errorf("catalogstore: no stars persisted")
	}

	stars := make([]star.Star, len(starRows))
	for i, row := range starRows {
		stars[i] = star.Star{
			ID:      row.StarID,
			Idx:     row.Idx,
			U:       vector.Vec3{X: row.X, Y: row.Y, Z: row.Z},
			Photons: row.Photons,
		}
	}

	table := star.NewTable(stars)

	var pairRows []pairRow
	if err := db.Order("idx asc").Find(&pairRows).Error; err != nil {
		return nil, fmt.Errorf("catalogstore: reading pairs: %w", err)
	}

	pairs := make([]pair.Pair, len(pairRows))
	for i, row := range pairRows {
		pairs[i] = pair.Pair{P: row.Sep, S1: row.S1, S2: row.S2, Idx: row.Idx}
	}

	return &matcher.CatalogBundle{
		Stars: table,
		Pairs: &pair.Table{Pairs: pairs},
		Index: kdindex.Build(table.Stars),
	}, nil
}

/*****************************************************************************************************************/
