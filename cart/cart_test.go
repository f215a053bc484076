package cart

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ticket(name string, qty int, total float64) Item {
	return Item{
		Name:       name,
		Date:       "2025-01-11",
		Hours:      "Morning: 8AM-12PM",
		TicketType: "Standard Pass",
		Guests:     map[string]int{"Adult": qty},
		Quantity:   qty,
		Total:      total,
	}
}

func TestCart_AddAssignsIDs(t *testing.T) {
	c := New()
	fixed := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	id1, err := c.Add(ticket("Mission to Mars", 2, 100))
	require.NoError(t, err)
	id2, err := c.Add(ticket("Astronaut Training", 1, 60))
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
	_, err = uuid.Parse(id1)
	assert.NoError(t, err, "line ids are UUIDs")

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, id1, items[0].ID)
	assert.Equal(t, "Astronaut Training", items[1].Name)
	assert.Equal(t, fixed, items[0].AddedAt)
}

func TestCart_AddRejectsInvalidItems(t *testing.T) {
	c := New()

	tests := map[string]Item{
		"no name":        ticket("", 1, 50),
		"zero quantity":  ticket("Mission to Mars", 0, 0),
		"negative total": ticket("Mission to Mars", 1, -1),
	}
	for name, item := range tests {
		_, err := c.Add(item)
		assert.ErrorIs(t, err, ErrInvalidItem, name)
	}
	assert.Zero(t, c.Count())
}

func TestCart_Remove(t *testing.T) {
	c := New()
	for _, name := range []string{"A", "B", "C"} {
		_, err := c.Add(ticket(name, 1, 10))
		require.NoError(t, err)
	}

	require.NoError(t, c.Remove(1))
	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "C", items[1].Name)

	assert.ErrorIs(t, c.Remove(2), ErrIndexOutOfRange)
	assert.ErrorIs(t, c.Remove(-1), ErrIndexOutOfRange)
}

func TestCart_RemoveByID(t *testing.T) {
	c := New()
	id, err := c.Add(ticket("Mission to Mars", 1, 50))
	require.NoError(t, err)

	require.NoError(t, c.RemoveByID(id))
	assert.Zero(t, c.Count())
	assert.ErrorIs(t, c.RemoveByID(id), ErrItemNotFound)
}

func TestCart_RemoveClearsVacatedSlot(t *testing.T) {
	c := New()
	ids := make([]string, 3)
	for i, name := range []string{"A", "B", "C"} {
		id, err := c.Add(ticket(name, 1, 10))
		require.NoError(t, err)
		ids[i] = id
	}

	require.NoError(t, c.Remove(0))
	tail := c.items[:len(c.items)+1][len(c.items)]
	assert.Zero(t, tail, "removed line must not stay reachable through the backing array")

	require.NoError(t, c.RemoveByID(ids[1]))
	tail = c.items[:len(c.items)+1][len(c.items)]
	assert.Zero(t, tail)
	require.Len(t, c.items, 1)
	assert.Equal(t, "C", c.items[0].Name)
}

func TestCart_Totals(t *testing.T) {
	c := New()
	_, _ = c.Add(ticket("Mission to Mars", 2, 100))
	_, _ = c.Add(ticket("Rocket Launch Experience", 3, 110.5))

	assert.Equal(t, 2, c.Count())
	assert.Equal(t, 5, c.Tickets())
	assert.InDelta(t, 210.5, c.Total(), 0.0001)

	c.Clear()
	assert.Zero(t, c.Count())
	assert.Zero(t, c.Total())
	assert.Empty(t, c.Items())
}

func TestCart_ItemsAreCopies(t *testing.T) {
	c := New()
	guests := map[string]int{"Adult": 1}
	item := ticket("Mission to Mars", 1, 50)
	item.Guests = guests
	_, err := c.Add(item)
	require.NoError(t, err)

	guests["Adult"] = 9
	items := c.Items()
	items[0].Guests["Adult"] = 7
	items[0].Name = "changed"

	again := c.Items()
	assert.Equal(t, 1, again[0].Guests["Adult"])
	assert.Equal(t, "Mission to Mars", again[0].Name)
}

func TestCart_ConcurrentAdds(t *testing.T) {
	c := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Add(ticket("Mission to Mars", 1, 50))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.Count())
	assert.InDelta(t, 2500, c.Total(), 0.0001)
}
