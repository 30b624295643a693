package args

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptArg(t *testing.T) {
	cases := []struct {
		name  string
		shape Shape
		want  []string
	}{
		{"plain none", Plain(None()), nil},
		{"plain some", Plain(Some("x")), []string{"x"}},
		{"flagged none", Flagged("-f", None()), nil},
		{"flagged some", Flagged("-f", Some("x")), []string{"-f", "x"}},
		{"list empty", FlaggedValues("-f"), nil},
		{"list one", FlaggedValues("-f", "a"), []string{"-f", "a"}},
		{"list many", FlaggedValues("-I", "a", "b", "c"), []string{"-I", "a", "b", "c"}},
		{"list nil seq", FlaggedList("-f", nil), nil},
		{"empty value kept", Plain(Some("")), []string{""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NewList("prog").OptArg(tc.shape).Strings()
			assert.Equal(t, append([]string{"prog"}, tc.want...), got)
		})
	}
}

func TestFlaggedListRangesOnce(t *testing.T) {
	calls := 0
	seq := func(yield func(string) bool) {
		calls++
		for _, s := range []string{"a", "b"} {
			if !yield(s) {
				return
			}
		}
	}
	got := Resolve(FlaggedList("--x", seq))
	assert.Equal(t, []string{"--x", "a", "b"}, got)
	assert.Equal(t, 1, calls)
}

func TestFlaggedListOverChannel(t *testing.T) {
	ch := make(chan string, 2)
	ch <- "a"
	ch <- "b"
	close(ch)
	seq := func(yield func(string) bool) {
		for s := range ch {
			if !yield(s) {
				return
			}
		}
	}
	assert.Equal(t, []string{"-v", "a", "b"}, Resolve(FlaggedList("-v", seq)))
}

func TestListOrder(t *testing.T) {
	var l List
	l.Arg("a").Args(slices.Values([]string{"b", "c"})).OptArg(Flagged("-d", Some("e"))).Arg("f")
	assert.Equal(t, 6, l.Len())
	assert.Equal(t, []string{"a", "b", "c", "-d", "e", "f"}, slices.Collect(l.All()))
}

type port int

type host struct{ name string }

func (h host) String() string { return "host:" + h.name }

func TestText(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"s", "s"},
		{[]byte("b"), "b"},
		{true, "true"},
		{42, "42"},
		{int8(-3), "-3"},
		{uint64(7), "7"},
		{1.5, "1.5"},
		{float32(0.25), "0.25"},
		{port(8080), "8080"},
		{host{"db"}, "host:db"},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%T", tc.in), func(t *testing.T) {
			got, err := Text(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, bad := range []any{nil, struct{}{}, []string{"a"}, map[string]int{}, (*time.Duration)(nil), (*host)(nil)} {
		_, err := Text(bad)
		assert.ErrorIs(t, err, ErrNotText, "%T", bad)
	}
}

func TestOptOf(t *testing.T) {
	s := "v"
	var nilStr *string
	some := Some("w")

	cases := []struct {
		name string
		in   any
		want Opt
	}{
		{"nil", nil, None()},
		{"opt", Some("x"), Some("x")},
		{"opt pointer", &some, Some("w")},
		{"nil opt pointer", (*Opt)(nil), None()},
		{"string", "x", Some("x")},
		{"pointer", &s, Some("v")},
		{"nil pointer", nilStr, None()},
		{"int", 3, Some("3")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := OptOf(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := OptOf([]string{"a"})
	assert.ErrorIs(t, err, ErrNotOptional)
	_, err = OptOf(struct{}{})
	assert.ErrorIs(t, err, ErrNotText)
}

func collect(t *testing.T, v any) []string {
	t.Helper()
	seq, err := Iter(v)
	require.NoError(t, err)
	var out []string
	for s, err := range seq {
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}

func TestIter(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, collect(t, []string{"a", "b"}))
	assert.Equal(t, []string{"1", "2"}, collect(t, []int{1, 2}))
	assert.Equal(t, []string{"x", "y"}, collect(t, [2]string{"x", "y"}))
	assert.Equal(t, []string{"p"}, collect(t, iter.Seq[string](slices.Values([]string{"p"}))))
	assert.Equal(t, []string{"1", "z"}, collect(t, iter.Seq[any](slices.Values([]any{1, "z"}))))
	assert.Equal(t, []string{"3", "4"}, collect(t, slices.Values([]port{3, 4})))
	assert.Empty(t, collect(t, []string{}))

	ch := make(chan int, 2)
	ch <- 5
	ch <- 6
	close(ch)
	assert.Equal(t, []string{"5", "6"}, collect(t, ch))

	for _, nilSeq := range []any{
		(chan string)(nil),
		(<-chan int)(nil),
		iter.Seq[string](nil),
		iter.Seq[any](nil),
		(func(func(int) bool))(nil),
		[]string(nil),
	} {
		assert.True(t, IsIterable(nilSeq), "%T", nilSeq)
		assert.Empty(t, collect(t, nilSeq), "%T", nilSeq)
	}

	for _, bad := range []any{nil, "abc", []byte("abc"), 3, make(chan<- int)} {
		_, err := Iter(bad)
		assert.ErrorIs(t, err, ErrNotIterable, "%T", bad)
		assert.False(t, IsIterable(bad), "%T", bad)
	}
}

func TestIterElementError(t *testing.T) {
	seq, err := Iter([]any{"a", struct{}{}, "c"})
	require.NoError(t, err)

	var got []string
	var last error
	for s, err := range seq {
		if err != nil {
			last = err
			continue
		}
		got = append(got, s)
	}
	assert.Equal(t, []string{"a"}, got)
	assert.True(t, errors.Is(last, ErrNotText))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "flagged-list", FlaggedValues("-x").Kind().String())
	assert.Equal(t, "-x", FlaggedValues("-x").Flag())
	assert.Equal(t, `Some("a")`, fmt.Sprintf("%#v", Some("a")))
	assert.Equal(t, "None", fmt.Sprintf("%#v", None()))
}
