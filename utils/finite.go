// Package utils はホストから届く数値の検証ヘルパーです。
package utils

import (
	"errors"
	"fmt"
	"math"

	"github.com/touka-aoi/boss-director/domain"
)

var (
	ErrNotFinite = errors.New("utils: value is not finite")
	ErrNegative  = errors.New("utils: value is negative")
)

// Finite は全ての値が NaN でも ±Inf でもないかを返します。
func Finite(values ...float64) bool {
	for _, f := range values {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func FiniteVec(v domain.Vec2) bool {
	return Finite(v.X, v.Y)
}

// CheckDamage はダメージ量が有限かつ 0 以上であることを確かめます。
func CheckDamage(v float64) error {
	if !Finite(v) {
		return fmt.Errorf("%w: damage %v", ErrNotFinite, v)
	}
	if v < 0 {
		return fmt.Errorf("%w: damage %v", ErrNegative, v)
	}
	return nil
}

// CheckRoster は全員の座標が有限でIDを持っていることを確かめます。
func CheckRoster(r domain.Roster) error {
	for i, c := range r {
		if c.ID.IsEmpty() {
			return fmt.Errorf("roster[%d]: combatant id is required", i)
		}
		if !FiniteVec(c.Position) {
			return fmt.Errorf("%w: roster[%d] position %+v", ErrNotFinite, i, c.Position)
		}
	}
	return nil
}
