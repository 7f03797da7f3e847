// Package querygen compiles a model schema into the family of parameterized
// SQL statements the generated persistence layer runs: insert, update (plain
// and per-parent variants), select-one (plain and child-populated), delete,
// list, and the object-permission lookup. Generation is pure and
// deterministic; no query is ever executed here.
package querygen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tenantsql/tenantsql/model"
)

// QueryContext is the frozen output of a Builder: finished SQL text, the
// operation name that drives output file naming, and the binding names in
// placeholder order. Callers supply parameter values positionally in exactly
// the Bindings order.
type QueryContext struct {
	OperationName string
	SQL           string
	Bindings      []BindingName
}

// Builder assembles one query's text and bindings. A builder is created
// fresh per generation call, mutated only during assembly, and consumed by
// Finish; any use after finishing panics.
type Builder struct {
	sql      strings.Builder
	order    []BindingName
	index    map[BindingName]int
	finished bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[BindingName]int)}
}

// Push appends raw text.
func (b *Builder) Push(text string) {
	b.check()
	b.sql.WriteString(text)
}

// Binding allocates a placeholder for name, or returns the existing one if
// the name was already bound. Placeholders use Postgres positional syntax.
func (b *Builder) Binding(name BindingName) string {
	b.check()
	idx, ok := b.index[name]
	if !ok {
		b.order = append(b.order, name)
		idx = len(b.order)
		b.index[name] = idx
	}
	return "$" + strconv.Itoa(idx)
}

// PushBinding allocates-or-reuses a binding and appends its placeholder.
func (b *Builder) PushBinding(name BindingName) {
	b.Push(b.Binding(name))
}

// Finish freezes the builder into a QueryContext. A builder with no content
// indicates a generator bug and is reported as an error. The builder is
// unusable afterwards.
func (b *Builder) Finish(operationName string) (QueryContext, error) {
	b.check()
	if b.sql.Len() == 0 {
		return QueryContext{}, fmt.Errorf("query builder for %q finished with no content", operationName)
	}
	b.finished = true
	return QueryContext{
		OperationName: operationName,
		SQL:           b.sql.String(),
		Bindings:      b.order,
	}, nil
}

// FinishWithFieldBindings freezes the builder and additionally reports which
// writable fields were bound, in binding order, so callers can supply values
// positionally without re-deriving the field list.
func (b *Builder) FinishWithFieldBindings(operationName string, fields []model.Field) (QueryContext, []model.Field, error) {
	qc, err := b.Finish(operationName)
	if err != nil {
		return QueryContext{}, nil, err
	}
	bound := make([]model.Field, len(fields))
	copy(bound, fields)
	return qc, bound, nil
}

func (b *Builder) check() {
	if b.finished {
		panic("querygen: use of finished query builder")
	}
}

// Separated inserts a separator between successive pushes, for comma lists
// and AND-joined predicates.
type Separated struct {
	b     *Builder
	sep   string
	wrote bool
}

// Separated returns a helper that writes sep before every push after the
// first.
func (b *Builder) Separated(sep string) *Separated {
	return &Separated{b: b, sep: sep}
}

// Push appends text, preceded by the separator when anything was pushed
// before.
func (s *Separated) Push(text string) {
	if s.wrote {
		s.b.Push(s.sep)
	}
	s.wrote = true
	s.b.Push(text)
}

// PushBinding appends a binding placeholder as its own separated item.
func (s *Separated) PushBinding(name BindingName) {
	s.Push(s.b.Binding(name))
}

// Next writes the separator if anything was pushed before and marks the
// next item as started. It lets a collaborator append a whole clause
// directly onto the underlying builder as one separated item.
func (s *Separated) Next() {
	if s.wrote {
		s.b.Push(s.sep)
	}
	s.wrote = true
}

// PushUnseparated appends text with no separator, so compound expressions
// like "field = $1" can be built from two pushes.
func (s *Separated) PushUnseparated(text string) {
	s.wrote = true
	s.b.Push(text)
}

// PushBindingUnseparated appends a binding placeholder with no separator.
func (s *Separated) PushBindingUnseparated(name BindingName) {
	s.PushUnseparated(s.b.Binding(name))
}
