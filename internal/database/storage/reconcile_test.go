package storage

import (
	"context"
	"testing"

	"github.com/GoArmGo/RecipeApp/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver — резолвер в памяти: находит или создает id по (user, name)
// и считает реальные создания.
type fakeResolver struct {
	entities map[string]uuid.UUID
	created  int
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{entities: map[string]uuid.UUID{}}
}

func (r *fakeResolver) Resolve(_ context.Context, userID uuid.UUID, name string) (uuid.UUID, error) {
	key := userID.String() + "/" + name
	if id, ok := r.entities[key]; ok {
		return id, nil
	}
	id := domain.NewID()
	r.entities[key] = id
	r.created++
	return id, nil
}

func TestResolveAttributeSetCreatesMissing(t *testing.T) {
	r := newFakeResolver()
	userID := domain.NewID()

	target, err := resolveAttributeSet(context.Background(), r, userID, []string{"завтрак", "десерт"})
	require.NoError(t, err)

	assert.Len(t, target, 2)
	assert.Equal(t, 2, r.created)
}

// Дубликат имени в списке схлопывается в одно членство, второй вызов
// резолвера возвращает уже созданную запись.
func TestResolveAttributeSetCollapsesDuplicates(t *testing.T) {
	r := newFakeResolver()
	userID := domain.NewID()

	target, err := resolveAttributeSet(context.Background(), r, userID, []string{"a", "a"})
	require.NoError(t, err)

	assert.Len(t, target, 1)
	assert.Equal(t, 1, r.created)
}

func TestResolveAttributeSetIdempotent(t *testing.T) {
	r := newFakeResolver()
	userID := domain.NewID()

	first, err := resolveAttributeSet(context.Background(), r, userID, []string{"x"})
	require.NoError(t, err)
	second, err := resolveAttributeSet(context.Background(), r, userID, []string{"x"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, r.created)
}

// Одно и то же имя у разных пользователей — разные записи.
func TestResolveAttributeSetScopedByUser(t *testing.T) {
	r := newFakeResolver()

	first, err := resolveAttributeSet(context.Background(), r, domain.NewID(), []string{"обед"})
	require.NoError(t, err)
	second, err := resolveAttributeSet(context.Background(), r, domain.NewID(), []string{"обед"})
	require.NoError(t, err)

	assert.NotEqual(t, first[0], second[0])
	assert.Equal(t, 2, r.created)
}

func TestReconcileAssociationsFull(t *testing.T) {
	keep := domain.NewID()
	stale := domain.NewID()
	missing := domain.NewID()

	toAdd, toRemove := reconcileAssociations(
		[]uuid.UUID{keep, missing},
		[]uuid.UUID{keep, stale},
		reconcileFull,
	)

	assert.Equal(t, []uuid.UUID{missing}, toAdd)
	assert.Equal(t, []uuid.UUID{stale}, toRemove)
}

// Пустой целевой набор в full-режиме очищает все связи.
func TestReconcileAssociationsFullClear(t *testing.T) {
	a, b := domain.NewID(), domain.NewID()

	toAdd, toRemove := reconcileAssociations(nil, []uuid.UUID{a, b}, reconcileFull)

	assert.Empty(t, toAdd)
	assert.ElementsMatch(t, []uuid.UUID{a, b}, toRemove)
}

func TestReconcileAssociationsPartialNeverRemoves(t *testing.T) {
	keep := domain.NewID()
	stale := domain.NewID()
	missing := domain.NewID()

	toAdd, toRemove := reconcileAssociations(
		[]uuid.UUID{keep, missing},
		[]uuid.UUID{keep, stale},
		reconcilePartial,
	)

	assert.Equal(t, []uuid.UUID{missing}, toAdd)
	assert.Empty(t, toRemove)
}

func TestReconcileAssociationsNoChanges(t *testing.T) {
	a, b := domain.NewID(), domain.NewID()

	toAdd, toRemove := reconcileAssociations([]uuid.UUID{a, b}, []uuid.UUID{a, b}, reconcileFull)

	assert.Empty(t, toAdd)
	assert.Empty(t, toRemove)
}
