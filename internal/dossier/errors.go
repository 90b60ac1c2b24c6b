package dossier

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyDateKey = errors.New("dossier: date key is required")
	ErrEmptyTeam    = errors.New("dossier: team name is required")
	ErrInvalidTeam  = errors.New("dossier: team name contains a path separator")
	ErrKeyCollision = errors.New("dossier: artifact key collision")
)

// Collision is one artifact key shared by several assignments.
type Collision struct {
	Team  string
	Key   string
	Count int
}

// CollisionError reports every duplicated artifact key of a rejected batch.
type CollisionError struct {
	Date       string
	Collisions []Collision
}

func (e *CollisionError) Error() string {
	parts := make([]string, len(e.Collisions))
	for i, c := range e.Collisions {
		parts[i] = fmt.Sprintf("%s (team %s, %d rows)", c.Key, c.Team, c.Count)
	}
	return fmt.Sprintf("dossier %s: duplicate artifact keys: %s", e.Date, strings.Join(parts, ", "))
}

func (e *CollisionError) Is(target error) bool {
	return target == ErrKeyCollision
}
