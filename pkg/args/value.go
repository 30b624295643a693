package args

import (
	"fmt"
	"iter"
	"reflect"
	"strconv"
)

// Text converts a text-like value to its argument string.
//
// Accepted values are strings, byte slices, fmt.Stringer implementations,
// booleans, integers and floats (including named types built on them).
// Anything else is rejected with ErrNotText.
func Text(v any) (string, error) {
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return "", fmt.Errorf("%w: nil %T", ErrNotText, v)
	}
	switch x := v.(type) {
	case nil:
		return "", fmt.Errorf("%w: <nil>", ErrNotText)
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case fmt.Stringer:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes()), nil
		}
	}
	return "", fmt.Errorf("%w: %T", ErrNotText, v)
}

// Opt is an optional argument value.
type Opt struct {
	value string
	ok    bool
}

// Some returns a present optional holding v.
func Some(v string) Opt { return Opt{value: v, ok: true} }

// None returns an absent optional.
func None() Opt { return Opt{} }

// Get returns the value and whether it is present.
func (o Opt) Get() (string, bool) { return o.value, o.ok }

// IsSome reports whether the optional holds a value.
func (o Opt) IsSome() bool { return o.ok }

func (o Opt) GoString() string {
	if !o.ok {
		return "None"
	}
	return "Some(" + strconv.Quote(o.value) + ")"
}

// OptOf converts v to an optional:
//
//   - nil and nil pointers are absent
//   - an Opt (or *Opt) is returned as is
//   - any other text-like value, or a pointer to one, is present
//
// Iterables are rejected with ErrNotOptional; use Iter for those.
func OptOf(v any) (Opt, error) {
	switch x := v.(type) {
	case nil:
		return None(), nil
	case Opt:
		return x, nil
	case *Opt:
		if x == nil {
			return None(), nil
		}
		return *x, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return None(), nil
		}
		if _, ok := v.(fmt.Stringer); !ok {
			v = rv.Elem().Interface()
		}
	}
	if IsIterable(v) {
		return Opt{}, fmt.Errorf("%w: %T is iterable", ErrNotOptional, v)
	}
	s, err := Text(v)
	if err != nil {
		return Opt{}, err
	}
	return Some(s), nil
}

// IsIterable reports whether Iter accepts v.
func IsIterable(v any) bool {
	switch v.(type) {
	case nil, string, []byte:
		return false
	case iter.Seq[string], iter.Seq[any]:
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	case reflect.Chan:
		return rv.Type().ChanDir()&reflect.RecvDir != 0
	case reflect.Func:
		return isSeqFunc(rv.Type())
	}
	return false
}

// Iter adapts an iterable value to a sequence of argument strings.
//
// Slices and arrays of text-like values, receive channels and range-over-func
// sequences (func(yield func(T) bool)) are accepted. Nil channels and nil
// funcs are empty. The returned sequence walks the source exactly once, so
// one-shot sources such as channels are safe. An element that is not text-like is yielded with a non-nil error and
// ends the sequence.
func Iter(v any) (iter.Seq2[string, error], error) {
	switch x := v.(type) {
	case nil, string, []byte:
		return nil, fmt.Errorf("%w: %T", ErrNotIterable, v)
	case []string:
		return func(yield func(string, error) bool) {
			for _, s := range x {
				if !yield(s, nil) {
					return
				}
			}
		}, nil
	case iter.Seq[string]:
		if x == nil {
			return empty, nil
		}
		return func(yield func(string, error) bool) {
			for s := range x {
				if !yield(s, nil) {
					return
				}
			}
		}, nil
	case iter.Seq[any]:
		if x == nil {
			return empty, nil
		}
		return func(yield func(string, error) bool) {
			for e := range x {
				if !yieldText(yield, e) {
					return
				}
			}
		}, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		return func(yield func(string, error) bool) {
			for i := 0; i < rv.Len(); i++ {
				if !yieldText(yield, rv.Index(i).Interface()) {
					return
				}
			}
		}, nil
	case reflect.Chan:
		if rv.Type().ChanDir()&reflect.RecvDir == 0 {
			break
		}
		if rv.IsNil() {
			return empty, nil
		}
		return func(yield func(string, error) bool) {
			for {
				e, ok := rv.Recv()
				if !ok {
					return
				}
				if !yieldText(yield, e.Interface()) {
					return
				}
			}
		}, nil
	case reflect.Func:
		if !isSeqFunc(rv.Type()) {
			break
		}
		if rv.IsNil() {
			return empty, nil
		}
		yieldType := rv.Type().In(0)
		return func(yield func(string, error) bool) {
			body := reflect.MakeFunc(yieldType, func(in []reflect.Value) []reflect.Value {
				return []reflect.Value{reflect.ValueOf(yieldText(yield, in[0].Interface()))}
			})
			rv.Call([]reflect.Value{body})
		}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrNotIterable, v)
}

// empty is the sequence of a nil channel or nil range func.
func empty(func(string, error) bool) {}

func yieldText(yield func(string, error) bool, e any) bool {
	s, err := Text(e)
	if err != nil {
		yield("", err)
		return false
	}
	return yield(s, nil)
}

// isSeqFunc matches func(func(T) bool).
func isSeqFunc(t reflect.Type) bool {
	if t.NumIn() != 1 || t.NumOut() != 0 {
		return false
	}
	y := t.In(0)
	return y.Kind() == reflect.Func &&
		y.NumIn() == 1 && y.NumOut() == 1 &&
		y.Out(0).Kind() == reflect.Bool
}
