// Package versioning keeps persisted values readable across releases.
//
// Every persisted type T has a closed, ordered list of shapes V0, V1, ..., Vn, where Vn is T itself. Each historical
// shape Vk is linked to Vk+1 by an upgrade Step. The list is assembled once, at package initialization, from the oldest
// shape towards the current one:
//
//	var Versions = versioning.New("LweKeyswitchKey",
//		versioning.Historical(decodeV0, versioning.Infallible(upgradeV0),
//			versioning.Current(encode, decode)))
//
// The tag of a shape is its position in that list. Encoding always produces the current shape. Decoding a value tagged
// k runs the n - k steps from Vk to Vn, the chain can neither skip a shape nor run backwards.
package versioning

import (
	"errors"

	"github.com/smartcontractkit/tfheartifacts/internal/codec"
)

// Tag identifies the shape of an encoded value.
type Tag uint32

// Step upgrades a value of shape From to the next shape To.
type Step[From, To any] struct {
	upgrade  func(From) (To, error)
	fallible bool
}

// Infallible returns a step that cannot fail, every value of shape From has a counterpart in shape To.
func Infallible[From, To any](upgrade func(From) To) Step[From, To] {
	return Step[From, To]{
		upgrade: func(v From) (To, error) { return upgrade(v), nil },
	}
}

// Fallible returns a step that may reject values of shape From without a valid counterpart in shape To.
func Fallible[From, To any](upgrade func(From) (To, error)) Step[From, To] {
	return Step[From, To]{upgrade: upgrade, fallible: true}
}

func (s Step[From, To]) Fallible() bool {
	return s.fallible
}

func (s Step[From, To]) Apply(v From) (To, error) {
	return s.upgrade(v)
}

// Chain links shape S to the current shape T. Use Current(...) and Historical(...) to build chains.
type Chain[S, T any] struct {
	upgrade func(S, Tag) (T, error)
	encode  func(codec.Target, T)
	decode  func(codec.Source) T
	shapes  []shape[T] // S, followed by all newer shapes
}

// A type-erased shape of T: read decodes a value of this shape and upgrades it to T.
type shape[T any] struct {
	read     func(codec.Source, Tag) (T, error)
	fallible bool // at least one step between this shape and T is fallible
}

// Current returns the chain of length 0, consisting of the current shape T only.
func Current[T any](encode func(codec.Target, T), decode func(codec.Source) T) Chain[T, T] {
	return Chain[T, T]{
		upgrade: func(v T, _ Tag) (T, error) { return v, nil },
		encode:  encode,
		decode:  decode,
		shapes: []shape[T]{{
			read: func(src codec.Source, _ Tag) (T, error) { return decode(src), nil },
		}},
	}
}

// Historical prepends shape S to the chain next, S is upgraded to N using step.
func Historical[S, N, T any](decode func(codec.Source) S, step Step[S, N], next Chain[N, T]) Chain[S, T] {
	upgrade := func(v S, tag Tag) (T, error) {
		n, err := step.Apply(v)
		if err != nil {
			var zero T
			return zero, &UpgradeError{From: tag, To: tag + 1, Err: err}
		}
		return next.upgrade(n, tag+1)
	}

	head := shape[T]{
		read: func(src codec.Source, tag Tag) (T, error) {
			return upgrade(decode(src), tag)
		},
		fallible: step.fallible || next.shapes[0].fallible,
	}

	return Chain[S, T]{
		upgrade: upgrade,
		encode:  next.encode,
		decode:  next.decode,
		shapes:  append([]shape[T]{head}, next.shapes...),
	}
}

// Versions is the immutable shape table of type T.
type Versions[T any] struct {
	name   string
	shapes []shape[T]
	encode func(codec.Target, T)
	decode func(codec.Source) T
}

// New returns the shape table for the chain starting at the oldest shape. The name is the stable type identifier
// written into serialization headers.
func New[S, T any](name string, oldest Chain[S, T]) *Versions[T] {
	if name == "" {
		panic("versioning: empty type name")
	}
	return &Versions[T]{
		name:   name,
		shapes: oldest.shapes,
		encode: oldest.encode,
		decode: oldest.decode,
	}
}

// Name returns the stable identifier of T.
func (v *Versions[T]) Name() string {
	return v.name
}

// CurrentTag returns the tag of the current shape, i.e., the number of upgrade steps in the chain.
func (v *Versions[T]) CurrentTag() Tag {
	return Tag(len(v.shapes) - 1)
}

// Infallible reports whether a value of the given shape can always be upgraded to the current shape.
func (v *Versions[T]) Infallible(tag Tag) bool {
	return int(tag) < len(v.shapes) && !v.shapes[tag].fallible
}

// Versionize encodes value in the current shape.
func (v *Versions[T]) Versionize(value T) (Tagged, error) {
	payload, err := codec.Marshal(currentMarshaler[T]{v.encode, value})
	if err != nil {
		return Tagged{}, err
	}
	return Tagged{Tag: v.CurrentTag(), Payload: payload}, nil
}

// Unversionize decodes the tagged payload and upgrades it to the current shape. Decoding errors are reported as
// returned by the codec package, a failing upgrade step as *UpgradeError.
func (v *Versions[T]) Unversionize(tagged Tagged) (T, error) {
	var zero T
	if int(tagged.Tag) >= len(v.shapes) {
		return zero, &UnknownTagError{Type: v.name, Tag: tagged.Tag, Current: v.CurrentTag()}
	}

	read := v.shapes[tagged.Tag].read
	var upgradeErr error
	value, err := codec.UnmarshalUsing(tagged.Payload, func(src codec.Source) T {
		value, err := read(src, tagged.Tag)
		upgradeErr = err
		return value
	})
	if err != nil {
		return zero, err
	}
	if upgradeErr != nil {
		var ue *UpgradeError
		if errors.As(upgradeErr, &ue) && ue.Type == "" {
			ue.Type = v.name
		}
		return zero, upgradeErr
	}
	return value, nil
}

// EncodeCurrent writes value in the current shape, without a tag.
func (v *Versions[T]) EncodeCurrent(target codec.Target, value T) {
	v.encode(target, value)
}

// DecodeCurrent reads an untagged value of the current shape.
func (v *Versions[T]) DecodeCurrent(src codec.Source) T {
	return v.decode(src)
}

// MarshalTo writes value as a tagged record into target. Use it for versioned values nested in other values.
func (v *Versions[T]) MarshalTo(target codec.Target, value T) {
	tagged, err := v.Versionize(value)
	if err != nil {
		panic(err)
	}
	tagged.MarshalTo(target)
}

// UnmarshalFrom reads a tagged record from src and upgrades it to the current shape. Errors are raised as panics, to
// be recovered by the top-level codec functions.
func (v *Versions[T]) UnmarshalFrom(src codec.Source) T {
	var tagged Tagged
	value, err := v.Unversionize(tagged.UnmarshalFrom(src))
	if err != nil {
		panic(err)
	}
	return value
}

type currentMarshaler[T any] struct {
	encode func(codec.Target, T)
	value  T
}

func (m currentMarshaler[T]) MarshalTo(target codec.Target) {
	m.encode(target, m.value)
}
