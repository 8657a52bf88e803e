/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package runid

/*****************************************************************************************************************/

import "testing"

/*****************************************************************************************************************/

func TestNewReturnsDistinctIDs(t *testing.T) {
	a := New()
	b := New()

	if a == "" || b == "" {
		t.Fatal("New() returned an empty id")
	}

	if a == b {
		t.Errorf("New() returned the same id twice: %s", a)
	}
}

/*****************************************************************************************************************/

func TestNewReturnsTwentySixCharULID(t *testing.T) {
	id := New()

	if len(id) != 26 {
		t.Errorf("len(New()) = %d; want 26 (canonical ULID string length)", len(id))
	}
}

/*****************************************************************************************************************/
