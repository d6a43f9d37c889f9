// Package tuning はプレイヤーごとの与ダメージ・被ダメージ倍率を計算します。
package tuning

import (
	"math"

	"github.com/touka-aoi/boss-director/application/config"
)

// Base は難易度1段階あたりの倍率です。
const Base = 1.2

// DealModification は与ダメージの段階数です。ボス戦での死亡ごとに1段階上がります。
func DealModification(cfg config.PlayerConfig, t config.PlayerTuning, deathsThisFight int) int {
	return cfg.DealDamage + deathsThisFight + t.DealOffset
}

// TakeModification は被ダメージの段階数です。ボス戦での死亡ごとに2段階上がります。
func TakeModification(cfg config.PlayerConfig, t config.PlayerTuning, deathsThisFight int) int {
	return cfg.TakeDamage + 2*deathsThisFight + t.TakeOffset
}

// Multiplier は段階数を倍率に変換します。
func Multiplier(modification int) float32 {
	if modification == 0 {
		return 1
	}
	return float32(math.Pow(Base, float64(modification)))
}

// DealMultiplier は与ダメージ倍率です。
func DealMultiplier(cfg config.PlayerConfig, name string, deathsThisFight int) float32 {
	return Multiplier(DealModification(cfg, cfg.Lookup(name), deathsThisFight))
}

// TakeMultiplier は被ダメージ倍率です。
func TakeMultiplier(cfg config.PlayerConfig, name string, deathsThisFight int) float32 {
	return Multiplier(TakeModification(cfg, cfg.Lookup(name), deathsThisFight))
}
