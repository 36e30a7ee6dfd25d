package storage

import (
	"context"

	"github.com/google/uuid"
)

// reconcileMode определяет семантику применения списка имен к набору связей.
type reconcileMode int

const (
	// reconcileFull: итоговый набор связей равен ровно списку имен,
	// лишние члены удаляются.
	reconcileFull reconcileMode = iota
	// reconcilePartial: только добавление, существующие связи не удаляются.
	reconcilePartial
)

// attributeResolver — upsert по естественному ключу (user_id, name):
// возвращает id существующей записи или создает новую. Повторный вызов
// с тем же именем обязан вернуть тот же id, а не создать дубликат.
type attributeResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID, name string) (uuid.UUID, error)
}

// resolveAttributeSet прогоняет каждое имя через резолвер и возвращает
// целевой набор id: дубликаты в списке схлопываются в одно членство,
// порядок первого вхождения сохраняется.
func resolveAttributeSet(ctx context.Context, r attributeResolver, userID uuid.UUID, names []string) ([]uuid.UUID, error) {
	target := make([]uuid.UUID, 0, len(names))
	seen := make(map[uuid.UUID]struct{}, len(names))

	for _, name := range names {
		id, err := r.Resolve(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		target = append(target, id)
	}
	return target, nil
}

// reconcileAssociations сравнивает целевой набор с текущим и возвращает,
// что добавить и что убрать. В режиме reconcilePartial toRemove всегда пуст.
func reconcileAssociations(target, current []uuid.UUID, mode reconcileMode) (toAdd, toRemove []uuid.UUID) {
	currentSet := make(map[uuid.UUID]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}

	targetSet := make(map[uuid.UUID]struct{}, len(target))
	for _, id := range target {
		targetSet[id] = struct{}{}
		if _, ok := currentSet[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}

	if mode == reconcileFull {
		for _, id := range current {
			if _, ok := targetSet[id]; !ok {
				toRemove = append(toRemove, id)
			}
		}
	}
	return toAdd, toRemove
}
