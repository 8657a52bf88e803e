/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package cli wires the engine's components into cobra subcommands: building
// and persisting a catalog bundle, and running a match against one.
package cli

/*****************************************************************************************************************/

import (
	"github.com/nyx-astro/startrack/pkg/config"
	"github.com/nyx-astro/startrack/pkg/fov"
	"github.com/spf13/cobra"
)

/*****************************************************************************************************************/

// sensorFlags registers the subset of config.Config that a sensor/optics
// setup determines, shared by both the catalog-build and match commands. The
// persisted catalog does not record these values, so nothing checks that a
// match run uses the same sensor settings the catalog was built with.
// MaxFOV is not itself a flag: it is derived from the sensor's pixel
// dimensions and plate scale via pkg/fov, the same way a real sensor's field
// of view follows from its optics rather than being configured separately.
type sensorFlags struct {
	imgW, imgH               int
	pixXTangent, pixYTangent float64
	pixScale                 float64
	brightThresh             float64
	requiredStars, maxFalse  int
	posErrSigma, matchValue  float64
	expectedFalseStars       float64
}

/*****************************************************************************************************************/

func registerSensorFlags(cmd *cobra.Command, f *sensorFlags) {
	cmd.Flags().IntVar(&f.imgW, "img-w", 1280, "sensor width, in pixels")
	cmd.Flags().IntVar(&f.imgH, "img-h", 960, "sensor height, in pixels")
	cmd.Flags().Float64Var(&f.pixXTangent, "pix-x-tangent", 0.000969, "half-field tangent along the image X axis")
	cmd.Flags().Float64Var(&f.pixYTangent, "pix-y-tangent", 0.000969, "half-field tangent along the image Y axis")
	cmd.Flags().Float64Var(&f.pixScale, "pix-scale", 2.0, "arcseconds per pixel")
	cmd.Flags().Float64Var(&f.brightThresh, "bright-thresh", 100, "photon cutoff for a catalog star to be considered visible")
	cmd.Flags().IntVar(&f.requiredStars, "required-stars", 12, "target per-neighborhood catalog star density")
	cmd.Flags().IntVar(&f.maxFalse, "max-false-stars", 8, "allowance of spurious image detections")
	cmd.Flags().Float64Var(&f.posErrSigma, "pos-err-sigma", 3.0, "sigma multiplier for pair-distance matching tolerance")
	cmd.Flags().Float64Var(&f.matchValue, "match-value", -6.0, "threshold constant in the Gaussian scoring model")
	cmd.Flags().Float64Var(&f.expectedFalseStars, "expected-false-stars", 2.0, "prior expected false detections per frame")
}

/*****************************************************************************************************************/

func (f *sensorFlags) toConfig() (*config.Config, error) {
	degreesPerPixel := f.pixScale / 3600.0

	maxFOV := fov.GetRadialExtent(float64(f.imgW), float64(f.imgH), fov.PixelScale{
		X: degreesPerPixel,
		Y: degreesPerPixel,
	})

	return config.New(config.Config{
		ImgW:               f.imgW,
		ImgH:               f.imgH,
		PixXTangent:        f.pixXTangent,
		PixYTangent:        f.pixYTangent,
		PixScale:           f.pixScale,
		MaxFOV:             maxFOV,
		BrightThresh:       f.brightThresh,
		RequiredStars:      f.requiredStars,
		MaxFalseStars:      f.maxFalse,
		PosErrSigma:        f.posErrSigma,
		MatchValue:         f.matchValue,
		ExpectedFalseStars: f.expectedFalseStars,
	})
}

/*****************************************************************************************************************/
