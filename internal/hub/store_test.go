package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yanun0323/errors"

	"bondpipe/pkg/exception"
)

type quote struct {
	id  string
	qty int
}

func newQuoteStore() *Store[string, quote] {
	return NewStore("quote", func(q quote) string { return q.id })
}

func TestStoreOnMessageReplacesAndNotifiesInOrder(t *testing.T) {
	s := newQuoteStore()
	var calls []string
	s.AddListener(AddFunc[quote](func(q quote) error {
		calls = append(calls, "first:"+q.id)
		return nil
	}))
	s.AddListener(AddFunc[quote](func(q quote) error {
		got, ok := s.Get(q.id)
		require.True(t, ok)
		assert.Equal(t, q, got)
		calls = append(calls, "second:"+q.id)
		return nil
	}))

	require.NoError(t, s.OnMessage(quote{id: "a", qty: 1}))
	require.NoError(t, s.OnMessage(quote{id: "b", qty: 2}))
	require.NoError(t, s.OnMessage(quote{id: "a", qty: 3}))

	assert.Equal(t, []string{"first:a", "second:a", "first:b", "second:b", "first:a", "second:a"}, calls)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a", "b"}, s.Keys())
	got, err := s.Lookup("a")
	require.NoError(t, err)
	assert.Equal(t, 3, got.qty)
}

func TestStoreNotifyStopsAtFirstError(t *testing.T) {
	s := newQuoteStore()
	boom := errors.New("boom")
	var reached bool
	s.AddListener(AddFunc[quote](func(quote) error { return boom }))
	s.AddListener(AddFunc[quote](func(quote) error {
		reached = true
		return nil
	}))

	err := s.OnMessage(quote{id: "a"})
	assert.True(t, errors.Is(err, boom))
	assert.False(t, reached)
	_, ok := s.Get("a")
	assert.True(t, ok, "value is stored before fan-out")
}

func TestStoreLookupAndDelete(t *testing.T) {
	s := newQuoteStore()
	_, err := s.Lookup("missing")
	assert.True(t, errors.Is(err, exception.ErrNotFound))

	s.Put(quote{id: "a"})
	s.Put(quote{id: "b"})
	assert.True(t, s.Delete("a"))
	assert.False(t, s.Delete("a"))
	assert.Equal(t, []string{"b"}, s.Keys())
}

func TestGetListenersReturnsCopy(t *testing.T) {
	s := newQuoteStore()
	s.AddListener(AddFunc[quote](func(quote) error { return nil }))
	s.AddListener(nil)

	listeners := s.GetListeners()
	require.Len(t, listeners, 1)
	listeners[0] = nil
	assert.NotNil(t, s.GetListeners()[0])
}

func TestAddFuncRemoveAndUpdateAreNoops(t *testing.T) {
	var n int
	l := AddFunc[int](func(int) error {
		n++
		return nil
	})
	require.NoError(t, l.ProcessRemove(1))
	require.NoError(t, l.ProcessUpdate(1))
	assert.Equal(t, 0, n)
	require.NoError(t, l.ProcessAdd(1))
	assert.Equal(t, 1, n)
}
