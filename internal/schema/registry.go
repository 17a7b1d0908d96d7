package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/schemaforge/schemaforge/internal/descriptor"
	"github.com/schemaforge/schemaforge/internal/diag"
)

// ErrNilType is returned when a nil type descriptor is passed to an
// operation that requires one.
var ErrNilType = errors.New("schema: nil type descriptor")

// OverrideFunc may replace the computed canonical name for a type. When it
// returns a non-empty string, that name is used verbatim before collision
// checking.
type OverrideFunc func(t *descriptor.Type) string

// Registry assigns stable, human-readable, collision-free schema ids.
//
// Suffix assignment depends only on registration order: replaying the same
// registrations on a fresh registry yields identical ids. Freed suffixes are
// kept on an explicit per-base free list and reused smallest-first, so
// numbering stays compact under churn.
type Registry struct {
	mu       sync.Mutex
	sink     diag.Sink
	override OverrideFunc

	entries map[string]*idEntry   // type key -> assigned entry
	bases   map[string]*baseEntry // canonical base id -> occupancy state
}

// idEntry records one assigned id. A suffix of 0 means the entry holds the
// bare base id (the "first occupant").
type idEntry struct {
	typeKey  string
	typeName string
	base     string
	suffix   int
	id       string
}

// baseEntry tracks occupancy of one canonical base id.
type baseEntry struct {
	ownerKey  string // type key of the suffix-less occupant, "" when free
	ownerName string
	used      map[int]bool
	freed     []int // reclaimed suffixes, ascending
	next      int   // next never-assigned suffix
}

// NewRegistry creates an empty registry emitting into the given sink
func NewRegistry(sink diag.Sink) *Registry {
	if sink == nil {
		sink = diag.Discard
	}
	return &Registry{
		sink:    sink,
		entries: make(map[string]*idEntry),
		bases:   make(map[string]*baseEntry),
	}
}

// SetOverride installs a canonical-name override. The override always runs
// before collision checking.
func (r *Registry) SetOverride(fn OverrideFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.override = fn
}

// ID returns the canonical id for the type, assigning one on first request.
// Re-requesting an id for a registered type returns the same string and
// emits no diagnostic.
func (r *Registry) ID(t *descriptor.Type) (string, error) {
	return r.assign(t, "")
}

// assign implements ID. A non-empty correlation is stamped onto any collision
// diagnostic so the event can be tied back to the triggering generation call.
func (r *Registry) assign(t *descriptor.Type, correlation string) (string, error) {
	if t == nil {
		return "", ErrNilType
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := t.Key()
	if entry, ok := r.entries[key]; ok {
		return entry.id, nil
	}

	base := ""
	if r.override != nil {
		base = r.override(t)
	}
	if base == "" {
		base = CanonicalName(t)
	}

	be, ok := r.bases[base]
	if !ok {
		be = &baseEntry{used: make(map[int]bool), next: 1}
		r.bases[base] = be
	}

	entry := &idEntry{typeKey: key, typeName: typeDisplayName(t), base: base}
	if be.ownerKey == "" {
		be.ownerKey = key
		be.ownerName = entry.typeName
		entry.id = base
	} else {
		entry.suffix = be.takeSuffix()
		entry.id = fmt.Sprintf("%s_schemaDup%d", base, entry.suffix)

		event := diag.NewEvent(diag.CodeSchemaIDCollision, diag.Warn,
			fmt.Sprintf("schema id %q is already taken by %s, assigned %q to %s",
				base, be.ownerName, entry.id, entry.typeName),
			diag.String("existing_type", be.ownerName),
			diag.String("incoming_type", entry.typeName),
			diag.String("schema_id", entry.id),
		)
		event.Correlation = correlation
		r.sink.Emit(event)
	}

	r.entries[key] = entry
	return entry.id, nil
}

// takeSuffix returns the smallest currently-unused positive suffix,
// preferring reclaimed suffixes over fresh ones.
func (b *baseEntry) takeSuffix() int {
	var n int
	if len(b.freed) > 0 {
		n = b.freed[0]
		b.freed = b.freed[1:]
	} else {
		n = b.next
		b.next++
	}
	b.used[n] = true
	return n
}

// Remove forgets the type's id assignment and reclaims its suffix for reuse
// by the next collision on the same base name. Removing an unregistered type
// is a no-op.
func (r *Registry) Remove(t *descriptor.Type) error {
	if t == nil {
		return ErrNilType
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := t.Key()
	entry, ok := r.entries[key]
	if !ok {
		return nil
	}
	delete(r.entries, key)

	be := r.bases[entry.base]
	if be == nil {
		return nil
	}
	if entry.suffix == 0 {
		be.ownerKey = ""
		be.ownerName = ""
	} else {
		delete(be.used, entry.suffix)
		i := sort.SearchInts(be.freed, entry.suffix)
		be.freed = append(be.freed, 0)
		copy(be.freed[i+1:], be.freed[i:])
		be.freed[i] = entry.suffix
	}
	return nil
}

// Clear resets all assignments
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]*idEntry)
	r.bases = make(map[string]*baseEntry)
}

// Len returns the number of registered types
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// CanonicalName computes the canonical base name for a type: the simple name
// for non-generic types, Name«Arg1,Arg2» with recursive canonicalization for
// generics, and Nullable«T» for nullable value types.
func CanonicalName(t *descriptor.Type) string {
	var b strings.Builder
	b.WriteString(t.Name)
	if t.IsGeneric && len(t.GenericArgs) > 0 {
		b.WriteString("«")
		for i, arg := range t.GenericArgs {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(CanonicalName(arg))
		}
		b.WriteString("»")
	}
	if t.IsNullableValue {
		return "Nullable«" + b.String() + "»"
	}
	return b.String()
}

// typeDisplayName prefers the unique full name for diagnostics
func typeDisplayName(t *descriptor.Type) string {
	if t.FullName != "" {
		return t.FullName
	}
	return t.Name
}
