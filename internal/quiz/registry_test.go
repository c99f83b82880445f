package quiz

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/interview-prep/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateGetDelete(t *testing.T) {
	r := NewRegistry(&fakeSource{}, &fakeEvaluator{})

	id, engine := r.Create()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get(id)
	require.True(t, ok)
	assert.Same(t, engine, got)

	other, _ := r.Create()
	assert.NotEqual(t, id, other)
	assert.Equal(t, 2, r.Len())

	assert.True(t, r.Delete(id))
	assert.False(t, r.Delete(id))
	_, ok = r.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_DeleteResetsEngine(t *testing.T) {
	r := NewRegistry(&fakeSource{}, &fakeEvaluator{})
	id, engine := r.Create()

	_, err := engine.StartWithPool(questions(2))
	require.NoError(t, err)

	r.Delete(id)
	assert.Equal(t, models.StateSelecting, engine.State())
}

func TestRegistry_Sweep(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(&fakeSource{}, &fakeEvaluator{})
	r.now = func() time.Time { return now }

	idle, _ := r.Create()
	active, _ := r.Create()

	now = now.Add(90 * time.Minute)
	_, ok := r.Get(active)
	require.True(t, ok)

	now = now.Add(45 * time.Minute)
	removed := r.Sweep(2 * time.Hour)

	assert.Equal(t, 1, removed)
	_, ok = r.Get(idle)
	assert.False(t, ok)
	_, ok = r.Get(active)
	assert.True(t, ok)
}

func TestRegistry_EnginesAreIndependent(t *testing.T) {
	r := NewRegistry(&fakeSource{}, &fakeEvaluator{})
	_, a := r.Create()
	_, b := r.Create()

	_, err := a.StartWithPool(questions(3))
	require.NoError(t, err)

	assert.Equal(t, models.StateAnswering, a.State())
	assert.Equal(t, models.StateSelecting, b.State())
}
