/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package batch runs a matcher concurrently across several frames sharing
// one read-only catalog bundle. Each frame gets its own Matcher instance
// (and therefore its own angular-index scratch buffers), so frames never
// contend with each other; a context threaded through the errgroup lets a
// caller cancel the remainder of a batch between frames.
package batch

/*****************************************************************************************************************/

import (
	"context"

	"github.com/nyx-astro/startrack/pkg/config"
	"github.com/nyx-astro/startrack/pkg/matcher"
	"golang.org/x/sync/errgroup"
)

/*****************************************************************************************************************/

// Frame pairs an image bundle with an identifier the caller can use to
// correlate it back to its source (a filename, a sequence number).
type Frame struct {
	ID    string
	Image *matcher.ImageBundle
}

/*****************************************************************************************************************/

// Result pairs a Frame's identifier with its MatchResult.
type Result struct {
	ID     string
	Match  *matcher.MatchResult
}

/*****************************************************************************************************************/

// Run matches every frame against catalog concurrently, returning one Result
// per frame in the same order the frames were supplied. If any frame's
// match fails, ctx is cancelled for the remaining in-flight frames and Run
// returns the first error encountered.
func Run(ctx context.Context, cfg *config.Config, catalog *matcher.CatalogBundle, frames []Frame) ([]Result, error) {
	results := make([]Result, len(frames))

	g, gctx := errgroup.WithContext(ctx)

	for i, frame := range frames {
		i, frame := i, frame

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			match, err := matcher.Match(cfg, catalog, frame.Image)
			if err != nil {
				return err
			}

			results[i] = Result{ID: frame.ID, Match: match}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

/*****************************************************************************************************************/
