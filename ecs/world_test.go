package ecs

import (
	"testing"

	"github.com/milk9111/boneyard/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			require.Len(t, Entities(w), c.create)
			if c.destroyIndex >= 0 {
				assert.True(t, DestroyEntity(w, ents[c.destroyIndex]))
				assert.False(t, IsAlive(w, ents[c.destroyIndex]))
				assert.False(t, DestroyEntity(w, ents[c.destroyIndex]), "second destroy is a no-op")
				assert.Len(t, Entities(w), c.create-1)
			}
		})
	}
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := CreateEntity(w)
	require.NoError(t, Add(w, old, h.Kind(), intPtr(1)))
	require.True(t, DestroyEntity(w, old))

	reused := CreateEntity(w)
	assert.Equal(t, old.id(), reused.id(), "slot is recycled")
	assert.NotEqual(t, old, reused, "generation differs")
	assert.False(t, IsAlive(w, old))
	assert.False(t, Has(w, reused, h.Kind()), "components do not leak into the reused slot")
	_, ok := Get(w, old, h.Kind())
	assert.False(t, ok)
	assert.ErrorIs(t, Add(w, old, h.Kind(), intPtr(2)), component.ErrEntityNotAlive)
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func TestComponentsAndQueries(t *testing.T) {
	w := NewWorld()

	h1 := component.NewComponent[int]()
	h2 := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, h1.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, h1.Kind())
				require.True(t, ok)
				assert.Equal(t, 10, *v)
			},
			teardown: func() bool { return Remove(w, e1, h1.Kind()) },
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, h2.Kind(), stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e2, h2.Kind(), stringPtr("b"))
			},
			check: func(t *testing.T) {
				assert.True(t, Has(w, e1, h2.Kind()))
				assert.True(t, Has(w, e2, h2.Kind()))
				assert.Equal(t, 2, Count(w, h2.Kind()))
			},
			teardown: func() bool { return Remove(w, e1, h2.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.setup())
			tc.check(t)
			assert.True(t, tc.teardown())
		})
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	h := component.NewComponent[int]()

	assert.ErrorIs(t, Add(w, e, h.Kind(), nil), component.ErrNilComponent)
	assert.ErrorIs(t, Add(w, e, component.ComponentKind[int]{}, intPtr(1)), component.ErrInvalidComponentKind)
}

func TestForEachAllowsMutation(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)
	require.NoError(t, Add(w, e1, h.Kind(), intPtr(1)))
	require.NoError(t, Add(w, e3, h.Kind(), intPtr(3)))

	var seen []Entity
	ForEach(w, h.Kind(), func(e Entity, v *int) {
		seen = append(seen, e)
		*v *= 10
		DestroyEntity(w, e)
	})
	assert.ElementsMatch(t, []Entity{e1, e3}, seen)
	assert.Equal(t, 0, Count(w, h.Kind()))
	assert.True(t, IsAlive(w, e2))
}

func TestForEach2AndFirst(t *testing.T) {
	w := NewWorld()
	ints := component.NewComponent[int]()
	strs := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	require.NoError(t, Add(w, e2, ints.Kind(), intPtr(2)))
	require.NoError(t, Add(w, e2, strs.Kind(), stringPtr("two")))
	require.NoError(t, Add(w, e1, strs.Kind(), stringPtr("one")))

	var got []string
	ForEach2(w, ints.Kind(), strs.Kind(), func(_ Entity, i *int, s *string) {
		got = append(got, *s)
	})
	assert.Equal(t, []string{"two"}, got)

	first, ok := First(w, strs.Kind())
	require.True(t, ok)
	assert.Equal(t, e1, first)

	_, ok = First(w, component.NewComponent[float64]().Kind())
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	for i := 0; i < 4; i++ {
		require.NoError(t, Add(w, CreateEntity(w), h.Kind(), intPtr(i)))
	}
	Clear(w)
	assert.Empty(t, Entities(w))
	assert.Equal(t, 0, Count(w, h.Kind()))
}

func TestEventQueue(t *testing.T) {
	var q EventQueue
	assert.Nil(t, q.Drain())
	q.Push(Event{Kind: EventSound})
	q.Push(Event{Kind: EventTransition, Data: "lvl2"})
	assert.Equal(t, 2, q.Len())

	events := q.Drain()
	require.Len(t, events, 2)
	assert.Equal(t, EventSound, events[0].Kind)
	assert.Equal(t, "lvl2", events[1].Data)
	assert.Equal(t, 0, q.Len())
}

func TestSchedulerOrder(t *testing.T) {
	var order []int
	s := NewScheduler(
		SystemFunc(func(*World) { order = append(order, 1) }),
		nil,
		SystemFunc(func(*World) { order = append(order, 2) }),
	)
	s.Add(SystemFunc(func(*World) { order = append(order, 3) }))
	s.Update(NewWorld())
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 3, s.Len())
}
