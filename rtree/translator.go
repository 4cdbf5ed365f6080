package rtree

import "github.com/peterstace/geoindex/geom"

// Translator maps values stored in a Tree to their indexable geometry, and
// decides when two values are the same. The tree never compares values
// itself.
type Translator[V any] interface {
	// Indexable returns the geometry of v. The result is only read.
	Indexable(v V) geom.Indexable

	// Equal reports whether a and b are logically the same value.
	Equal(a, b V) bool
}

// Self is the translator for values that are their own indexable, such as
// geom.Point or geom.Box. Values are equal when their envelopes are equal.
type Self[V geom.Indexable] struct{}

func (Self[V]) Indexable(v V) geom.Indexable { return v }

func (Self[V]) Equal(a, b V) bool {
	return geom.Equal(a.Envelope(), b.Envelope())
}

// Pair is a value made up of an indexable and some auxiliary data.
type Pair[I geom.Indexable, S any] struct {
	First  I
	Second S
}

// PairTranslator translates Pair values. The indexable is First. Pairs are
// equal when their First geometries are equal and EqualSecond reports their
// Second fields equal.
type PairTranslator[I geom.Indexable, S any] struct {
	EqualSecond func(a, b S) bool
}

// NewPairTranslator creates a PairTranslator comparing Second with ==.
func NewPairTranslator[I geom.Indexable, S comparable]() PairTranslator[I, S] {
	return PairTranslator[I, S]{
		EqualSecond: func(a, b S) bool { return a == b },
	}
}

func (PairTranslator[I, S]) Indexable(v Pair[I, S]) geom.Indexable { return v.First }

func (t PairTranslator[I, S]) Equal(a, b Pair[I, S]) bool {
	return geom.Equal(a.First.Envelope(), b.First.Envelope()) && t.EqualSecond(a.Second, b.Second)
}

// Shared translates values held through a pointer, possibly also held by the
// caller. The tree never assumes it owns the pointee. Equality is logical:
// two distinct pointers to equal values are equal.
type Shared[T any] struct {
	Inner Translator[T]
}

// NewShared wraps inner so that it works on *T values.
func NewShared[T any](inner Translator[T]) Shared[T] {
	return Shared[T]{Inner: inner}
}

func (t Shared[T]) Indexable(v *T) geom.Indexable { return t.Inner.Indexable(*v) }

func (t Shared[T]) Equal(a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a == b || t.Inner.Equal(*a, *b)
}

// TranslatorFuncs adapts a pair of functions to the Translator interface.
type TranslatorFuncs[V any] struct {
	IndexableFunc func(V) geom.Indexable
	EqualFunc     func(a, b V) bool
}

func (t TranslatorFuncs[V]) Indexable(v V) geom.Indexable { return t.IndexableFunc(v) }

func (t TranslatorFuncs[V]) Equal(a, b V) bool { return t.EqualFunc(a, b) }
