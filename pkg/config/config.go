/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package config holds the process-wide, read-only tuning parameters shared
// by the catalog builder, image builder, TRIAD solver, scorer, and matcher.
// A Config is constructed once via New, validated eagerly, and passed by
// reference into every collaborator — no package reads a Config from
// package-level state.
package config

/*****************************************************************************************************************/

import "fmt"

/*****************************************************************************************************************/

type Config struct {
	ImgW int // Sensor width, in pixels.
	ImgH int // Sensor height, in pixels.

	PixXTangent float64 // Half-field tangent along the image X axis.
	PixYTangent float64 // Half-field tangent along the image Y axis.
	PixScale    float64 // Arcseconds per pixel.

	MaxFOV float64 // Diagonal field of view, in degrees; catalog neighborhoods use half of this.

	BrightThresh  float64 // Photon cutoff below which a catalog star is not considered visible.
	RequiredStars int     // Target per-neighborhood catalog star density.
	MaxFalseStars int     // Allowance of spurious image detections, used to size the image pair table.

	PosErrSigma float64 // Sigma multiplier applied to pair-distance matching tolerance.
	MatchValue  float64 // Threshold constant inside the Gaussian log-likelihood scoring model.

	ExpectedFalseStars float64 // Prior expected count of false detections per frame.
}

/*****************************************************************************************************************/

// New validates cfg eagerly and returns an error describing the first
// violated invariant, rather than deferring the failure to first use.
func New(cfg Config) (*Config, error) {
	if cfg.ImgW <= 0 {
		return nil, fmt.Errorf("config: ImgW must be positive, got %d", cfg.ImgW)
	}

	if cfg.ImgH <= 0 {
		return nil, fmt.Errorf("config: ImgH must be positive, got %d", cfg.ImgH)
	}

	if cfg.PixScale <= 0 {
		return nil, fmt.Errorf("config: PixScale must be positive, got %f", cfg.PixScale)
	}

	if cfg.PixXTangent <= 0 {
		return nil, fmt.Errorf("config: PixXTangent must be positive, got %f", cfg.PixXTangent)
	}

	if cfg.PixYTangent <= 0 {
		return nil, fmt.Errorf("config: PixYTangent must be positive, got %f", cfg.PixYTangent)
	}

	if cfg.MaxFOV <= 0 {
		return nil, fmt.Errorf("config: MaxFOV must be positive, got %f", cfg.MaxFOV)
	}

	if cfg.RequiredStars <= 0 {
		return nil, fmt.Errorf("config: RequiredStars must be positive, got %d", cfg.RequiredStars)
	}

	if cfg.PosErrSigma <= 0 {
		return nil, fmt.Errorf("config: PosErrSigma must be positive, got %f", cfg.PosErrSigma)
	}

	if cfg.ExpectedFalseStars < 0 {
		return nil, fmt.Errorf("config: ExpectedFalseStars must be nonnegative, got %f", cfg.ExpectedFalseStars)
	}

	c := cfg

	return &c, nil
}

/*****************************************************************************************************************/

// Default returns a Config reasonable for a small CMOS tracker sensor,
// suitable for examples and tests. Callers wiring up a real sensor should
// build their own Config from its actual optical parameters.
func Default() *Config {
	cfg, err := New(Config{
		ImgW:               1280,
		ImgH:               960,
		PixXTangent:        0.000969,
		PixYTangent:        0.000969,
		PixScale:           2.0,
		MaxFOV:             15.0,
		BrightThresh:       100,
		RequiredStars:      12,
		MaxFalseStars:      8,
		PosErrSigma:        3.0,
		MatchValue:         -6.0,
		ExpectedFalseStars: 2.0,
	})
	if err != nil {
		panic(err)
	}

	return cfg
}

/*****************************************************************************************************************/
