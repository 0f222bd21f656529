package cart

import (
	"math/rand/v2"
	"testing"

	"github.com/dmitrijs2005/fooddelivery/internal/client/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_SameIDKeepsFirstNameAndPrice(t *testing.T) {
	s := New()
	for i := range 4 {
		s.Add(models.CartLine{ID: 7, Name: "Pizza", Price: 9.5 + float64(i)})
		s.Add(models.CartLine{ID: 7, Name: "renamed"})
	}

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, models.CartLine{ID: 7, Name: "Pizza", Price: 9.5, Quantity: 8}, lines[0])
}

func TestAdd_IgnoresIncomingQuantity(t *testing.T) {
	s := New()
	s.Add(models.CartLine{ID: 1, Name: "Soup", Price: 4, Quantity: 10})
	assert.Equal(t, 1, s.Count())
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     []models.CartLine
	}{
		{"positive", 3, []models.CartLine{{ID: 1, Name: "A", Price: 10, Quantity: 3}, {ID: 2, Name: "B", Price: 5, Quantity: 1}}},
		{"zero removes", 0, []models.CartLine{{ID: 2, Name: "B", Price: 5, Quantity: 1}}},
		{"negative removes", -5, []models.CartLine{{ID: 2, Name: "B", Price: 5, Quantity: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.Add(models.CartLine{ID: 1, Name: "A", Price: 10})
			s.Add(models.CartLine{ID: 2, Name: "B", Price: 5})

			s.UpdateQuantity(1, tt.quantity)

			if diff := cmp.Diff(tt.want, s.Lines()); diff != "" {
				t.Errorf("lines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUpdateQuantity_UnknownIDIsNoop(t *testing.T) {
	s := New()
	notified := 0
	s.Subscribe(func(Snapshot) { notified++ })

	s.UpdateQuantity(99, 2)
	s.Remove(99)

	assert.Empty(t, s.Lines())
	assert.Zero(t, notified)
}

func TestTotal_Example(t *testing.T) {
	s := New()
	s.Add(models.CartLine{ID: 1, Name: "A", Price: 10})
	s.Add(models.CartLine{ID: 1, Name: "A", Price: 10})
	s.Add(models.CartLine{ID: 2, Name: "B", Price: 5})

	assert.Equal(t, 25.0, s.Total())
	assert.Equal(t, 3, s.Count())
}

func TestTotal_AlwaysMatchesLines(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	s := New()
	prices := map[int64]float64{1: 2.5, 2: 10, 3: 0, 4: 7.25}

	for range 500 {
		id := int64(r.IntN(4) + 1)
		switch r.IntN(4) {
		case 0, 1:
			s.Add(models.CartLine{ID: id, Name: "x", Price: prices[id]})
		case 2:
			s.UpdateQuantity(id, r.IntN(6)-2)
		case 3:
			s.Remove(id)
		}

		var want float64
		for _, l := range s.Lines() {
			require.Positive(t, l.Quantity)
			want += l.Price * float64(l.Quantity)
		}
		require.InDelta(t, want, s.Total(), 1e-9)
	}
}

func TestClear(t *testing.T) {
	s := New()
	s.Add(models.CartLine{ID: 1, Name: "A", Price: 10})
	s.Clear()

	assert.Empty(t, s.Lines())
	assert.Zero(t, s.Total())
}

func TestLines_ReturnsCopy(t *testing.T) {
	s := New()
	s.Add(models.CartLine{ID: 1, Name: "A", Price: 10})

	lines := s.Lines()
	lines[0].Quantity = 100

	assert.Equal(t, 1, s.Lines()[0].Quantity)
}

func TestSubscribe_ReceivesSnapshots(t *testing.T) {
	s := New()
	var got []Snapshot
	unsubscribe := s.Subscribe(func(snap Snapshot) { got = append(got, snap) })

	s.Add(models.CartLine{ID: 1, Name: "A", Price: 10})
	s.UpdateQuantity(1, 2)
	unsubscribe()
	s.Clear()

	require.Len(t, got, 2)
	assert.Equal(t, 10.0, got[0].Total)
	assert.Equal(t, 20.0, got[1].Total)
	assert.Equal(t, 2, got[1].Count)
}
