package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studymart-checkout/internal/model"
)

func newItem(id, price string) model.CartItem {
	return model.CartItem{
		ID:           id,
		DisplayName:  "Past papers " + id,
		SubjectLabel: "Mathematics",
		SubjectCode:  "0580",
		Price:        decimal.RequireFromString(price),
	}
}

func TestAdd_DuplicateIDIsRejected(t *testing.T) {
	s := NewStore()

	assert.True(t, s.Add(newItem("p1", "4.99")))
	assert.False(t, s.Add(newItem("p1", "7.99")))

	require.Equal(t, 1, s.Len())
	assert.Equal(t, "4.99", s.Snapshot().Items[0].Price.StringFixed(2))
}

func TestAdd_KeepsInsertionOrder(t *testing.T) {
	s := NewStore()
	s.Add(newItem("c", "1"))
	s.Add(newItem("a", "1"))
	s.Add(newItem("b", "1"))

	ids := []string{}
	for _, item := range s.Snapshot().Items {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestRemove_AbsentIDIsNoop(t *testing.T) {
	s := NewStore(newItem("p1", "4.99"))
	calls := 0
	s.Subscribe(func(model.CartSnapshot) { calls++ })

	assert.NotPanics(t, func() { s.Remove("missing") })
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, calls)
}

func TestRemove_ReindexesRemainingItems(t *testing.T) {
	s := NewStore(newItem("a", "1"), newItem("b", "2"), newItem("c", "3"))

	s.Remove("a")
	s.Remove("c")

	assert.True(t, s.Contains("b"))
	assert.False(t, s.Contains("a"))
	assert.True(t, s.Add(newItem("a", "1")))
	assert.Equal(t, "a", s.Snapshot().Items[1].ID)
}

func TestSnapshotTotal_IndependentOfMutationOrder(t *testing.T) {
	first := NewStore()
	first.Add(newItem("a", "0.10"))
	first.Add(newItem("b", "0.20"))
	first.Add(newItem("x", "99"))
	first.Remove("x")
	first.Add(newItem("c", "12.35"))

	second := NewStore()
	second.Add(newItem("c", "12.35"))
	second.Add(newItem("b", "0.20"))
	second.Add(newItem("a", "0.10"))

	assert.True(t, decimal.RequireFromString("12.65").Equal(first.Snapshot().Total()))
	assert.True(t, first.Snapshot().Total().Equal(second.Snapshot().Total()))
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := NewStore(newItem("a", "1"))
	snap := s.Snapshot()

	s.Clear()

	assert.Equal(t, 1, snap.Len())
	assert.Equal(t, 0, s.Len())
}

func TestSubscribe(t *testing.T) {
	s := NewStore()
	var seen []int
	unsubscribe := s.Subscribe(func(snap model.CartSnapshot) { seen = append(seen, snap.Len()) })

	s.Add(newItem("a", "1"))
	s.Add(newItem("a", "1"))
	s.Add(newItem("b", "1"))
	s.Clear()
	unsubscribe()
	s.Add(newItem("c", "1"))

	assert.Equal(t, []int{1, 2, 0}, seen)
}

func TestSubscribe_NotifiesInRegistrationOrder(t *testing.T) {
	s := NewStore()
	var order []int
	for i := 0; i < 8; i++ {
		s.Subscribe(func(model.CartSnapshot) { order = append(order, i) })
	}
	unsubscribe := s.Subscribe(func(model.CartSnapshot) { order = append(order, -1) })
	unsubscribe()

	s.Add(newItem("a", "1"))

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, order)
}
