package xmi

import (
	"strings"

	"github.com/google/uuid"
)

// idNamespace seeds the per-document UUID namespace. Element identifiers are
// name-based UUIDs (version 5) derived from the document title and the
// element's graph ID, so converting the same input twice yields the same
// identifiers.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("flowxmi:ea-id"))

// idAllocator hands out Enterprise Architect identifiers and the small
// integer local IDs EA keeps alongside them. Allocation order is the
// serializer's element order, so local IDs are stable across runs.
type idAllocator struct {
	ns     uuid.UUID
	ids    map[string]string
	locals map[string]int
	next   int
}

func newIDAllocator(docTitle string) *idAllocator {
	return &idAllocator{
		ns:     uuid.NewSHA1(idNamespace, []byte(docTitle)),
		ids:    make(map[string]string),
		locals: make(map[string]int),
		next:   1,
	}
}

// ElementID returns the EAID_ identifier for the graph element key,
// allocating it on first use.
func (a *idAllocator) ElementID(key string) string {
	return a.id("EAID_", key)
}

// PackageID returns the EAPK_ identifier for the package-level key.
func (a *idAllocator) PackageID(key string) string {
	return a.id("EAPK_", key)
}

// LocalID returns EA's integer-valued local identifier for the key,
// allocating the next free one on first use.
func (a *idAllocator) LocalID(key string) int {
	if n, ok := a.locals[key]; ok {
		return n
	}
	n := a.next
	a.next++
	a.locals[key] = n
	return n
}

func (a *idAllocator) id(prefix, key string) string {
	if id, ok := a.ids[prefix+key]; ok {
		return id
	}
	u := uuid.NewSHA1(a.ns, []byte(key))
	id := prefix + strings.ReplaceAll(strings.ToUpper(u.String()), "-", "_")
	a.ids[prefix+key] = id
	return id
}
