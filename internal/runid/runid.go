/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package runid generates correlation identifiers for matcher invocations,
// so that a CLI run (or a future server wrapping this engine) can tag its
// logs and output with an id a user can grep for.
package runid

/*****************************************************************************************************************/

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid"
)

/*****************************************************************************************************************/

// New returns a fresh ULID string for the current time. Each call draws from
// its own newly seeded entropy source, so ids created within the same
// millisecond are not guaranteed to sort in creation order.
func New() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

/*****************************************************************************************************************/
