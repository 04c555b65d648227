package xmi

import (
	"testing"

	"github.com/pzaremba/flowxmi/pkg/errors"
)

func TestIDAllocatorFormat(t *testing.T) {
	a := newIDAllocator("Order processing")

	el := a.ElementID("n1")
	if err := errors.ValidateEAID(el); err != nil {
		t.Errorf("element id %q does not match EA format: %v", el, err)
	}
	pkg := a.PackageID("package")
	if err := errors.ValidateEAID(pkg); err != nil {
		t.Errorf("package id %q does not match EA format: %v", pkg, err)
	}
}

func TestIDAllocatorStable(t *testing.T) {
	a1 := newIDAllocator("Order processing")
	a2 := newIDAllocator("Order processing")

	if a1.ElementID("n1") != a2.ElementID("n1") {
		t.Error("same title and key must yield the same identifier")
	}
	if a1.ElementID("n1") != a1.ElementID("n1") {
		t.Error("repeated lookup must return the cached identifier")
	}

	other := newIDAllocator("Different diagram")
	if a1.ElementID("n1") == other.ElementID("n1") {
		t.Error("different titles must yield different identifiers")
	}
}

func TestIDAllocatorDistinctKeys(t *testing.T) {
	a := newIDAllocator("Order processing")
	seen := make(map[string]bool)
	for _, key := range []string{"n1", "n2", "edge:e1", "guard:e1", "lane:l1", "activity"} {
		id := a.ElementID(key)
		if seen[id] {
			t.Errorf("identifier collision for key %q", key)
		}
		seen[id] = true
	}
}

func TestLocalIDSequence(t *testing.T) {
	a := newIDAllocator("Order processing")
	if got := a.LocalID("package"); got != 1 {
		t.Errorf("first local id = %d, want 1", got)
	}
	if got := a.LocalID("n1"); got != 2 {
		t.Errorf("second local id = %d, want 2", got)
	}
	if got := a.LocalID("package"); got != 1 {
		t.Errorf("repeated lookup = %d, want cached 1", got)
	}
}
