package skill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreIsUnfiltered(t *testing.T) {
	s := NewStore()

	tag, ok := s.Tag()
	assert.False(t, ok)
	assert.Empty(t, tag)
	assert.False(t, s.Active())
}

func TestSelect(t *testing.T) {
	s := NewStore()

	s.Select("Python")
	tag, ok := s.Tag()
	require.True(t, ok)
	assert.Equal(t, "Python", tag)

	s.Select("Pandas")
	tag, _ = s.Tag()
	assert.Equal(t, "Pandas", tag)
}

func TestReset(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Store)
	}{
		{name: "from unfiltered", setup: func(*Store) {}},
		{name: "from filtered", setup: func(s *Store) { s.Select("C++") }},
		{name: "twice", setup: func(s *Store) { s.Select("C++"); s.Reset() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			tt.setup(s)
			s.Reset()
			assert.Equal(t, State{}, s.State())
		})
	}
}

func TestToggle(t *testing.T) {
	s := NewStore()

	s.Toggle("Numpy")
	assert.Equal(t, State{Tag: "Numpy", Active: true}, s.State())

	s.Toggle("OpenCV")
	assert.Equal(t, State{Tag: "OpenCV", Active: true}, s.State())

	s.Toggle("OpenCV")
	assert.Equal(t, State{}, s.State())
}

func TestToggleTwiceRestoresState(t *testing.T) {
	for _, start := range []State{{}, {Tag: "Vivado", Active: true}} {
		s := NewStore()
		if start.Active {
			s.Select(start.Tag)
		}

		s.Toggle("Vivado")
		s.Toggle("Vivado")

		assert.Equal(t, start, s.State())
	}
}

func TestToggleTwiceFromOtherTagClears(t *testing.T) {
	s := NewStore()
	s.Select("MATLAB")

	s.Toggle("Vivado")
	s.Toggle("Vivado")

	assert.Equal(t, State{}, s.State())
}

func TestToggleEmptyTag(t *testing.T) {
	s := NewStore()

	s.Toggle("")
	assert.True(t, s.Active())

	s.Toggle("")
	assert.False(t, s.Active())
}

func TestSubscribeNotifiesEveryMutation(t *testing.T) {
	s := NewStore()
	var got []State
	s.Subscribe(func(st State) { got = append(got, st) })

	s.Select("Python")
	s.Select("Python")
	s.Toggle("Python")
	s.Reset()

	assert.Equal(t, []State{
		{Tag: "Python", Active: true},
		{Tag: "Python", Active: true},
		{},
		{},
	}, got)
}

func TestSubscribeOrderAndUnsubscribe(t *testing.T) {
	s := NewStore()
	var order []string
	unsubA := s.Subscribe(func(State) { order = append(order, "a") })
	s.Subscribe(func(State) { order = append(order, "b") })

	s.Select("x")
	assert.Equal(t, []string{"a", "b"}, order)

	unsubA()
	unsubA()
	order = nil
	s.Reset()
	assert.Equal(t, []string{"b"}, order)
}

func TestUnsubscribeDuringNotify(t *testing.T) {
	s := NewStore()
	calls := 0
	var unsub func()
	unsub = s.Subscribe(func(State) {
		calls++
		unsub()
	})
	s.Subscribe(func(State) { calls++ })

	s.Select("x")
	assert.Equal(t, 2, calls)

	s.Select("y")
	assert.Equal(t, 3, calls)
}

func TestListenerSeesLatestValue(t *testing.T) {
	s := NewStore()
	s.Subscribe(func(st State) {
		tag, ok := s.Tag()
		assert.Equal(t, st.Tag, tag)
		assert.Equal(t, st.Active, ok)
	})

	s.Toggle("ETAP")
	s.Toggle("ETAP")
}
