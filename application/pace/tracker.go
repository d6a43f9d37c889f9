// Package pace はボスの体力減少ペースを目標戦闘時間と比べ、攻防の倍率を決めます。
package pace

import (
	"fmt"
	"math"

	"github.com/touka-aoi/boss-director/domain"
)

const (
	// GraceTicks はスポーン直後に倍率を動かさない期間です。
	GraceTicks = 60
	// MaxModifier は倍率の上限です。
	MaxModifier = 50.0
	// FullHealthBucket は体力バケットの初期値です。
	FullHealthBucket = 100

	scalingConstant = 1.0
	notStarted      = -1.0
)

// Tracker は1体のボスについてペースを追跡します。並行アクセスは想定しません。
type Tracker struct {
	spawnTick       float64
	expectedTicks   float64
	deadZoneMinutes float64
	lastBucket      int
	offense         float64
	defense         float64
	lastDiffMinutes float64
}

func NewTracker() *Tracker {
	t := &Tracker{}
	t.reset()
	return t
}

func (t *Tracker) reset() {
	t.spawnTick = notStarted
	t.expectedTicks = 0
	t.deadZoneMinutes = 0
	t.lastBucket = FullHealthBucket
	t.offense = 1
	t.defense = 1
	t.lastDiffMinutes = 0
}

// OnSpawn は追跡状態を初期化し、目標時間を設定します。
func (t *Tracker) OnSpawn(now domain.Tick, expectedMinutes float64) {
	t.reset()
	t.spawnTick = float64(now)
	t.expectedTicks = expectedMinutes * domain.TicksPerMinute
	t.deadZoneMinutes = expectedMinutes / 5
}

// Started はスポーン済みかどうかを返します。
func (t *Tracker) Started() bool {
	return t.spawnTick >= 0
}

// OnDamageEvent は被弾時の体力割合を受け取り、バケットを下回ったときだけ倍率を再計算します。
func (t *Tracker) OnDamageEvent(now domain.Tick, healthFraction float64) (offense, defense float64) {
	if !t.Started() || float64(now)-t.spawnTick <= GraceTicks {
		return t.offense, t.defense
	}
	if math.IsNaN(healthFraction) || math.IsInf(healthFraction, 0) {
		return t.offense, t.defense
	}
	bucket := Bucket(healthFraction)
	if bucket >= t.lastBucket {
		return t.offense, t.defense
	}

	elapsed := float64(now) - t.spawnTick
	healthLost := 1 - float64(bucket)/100
	idealElapsed := t.expectedTicks * healthLost
	diffMinutes := (elapsed - idealElapsed) / domain.TicksPerMinute
	t.lastDiffMinutes = diffMinutes

	abs := math.Abs(diffMinutes)
	if abs <= t.deadZoneMinutes {
		t.offense, t.defense = 1, 1
	} else {
		scaled := abs - t.deadZoneMinutes
		m := math.Min(1+scalingConstant*scaled*scaled, MaxModifier)
		if diffMinutes > 0 {
			t.offense, t.defense = m, 1
		} else {
			t.offense, t.defense = 1, m
		}
	}
	t.lastBucket = bucket
	return t.offense, t.defense
}

// Modifiers は現在の攻防倍率を返します。
func (t *Tracker) Modifiers() (offense, defense float64) {
	return t.offense, t.defense
}

func (t *Tracker) LastBucket() int { return t.lastBucket }

// Bucket は体力割合を10%刻みの整数バケット [0,100] に丸めます。
func Bucket(healthFraction float64) int {
	switch {
	case healthFraction <= 0:
		return 0
	case healthFraction >= 1:
		return FullHealthBucket
	}
	return int(math.Floor(healthFraction*10)) * 10
}

// Apply はボスへのダメージに攻防倍率を掛けます。
func Apply(damage, offense, defense float64) float64 {
	return damage / defense * offense
}

// Report はデバッグ表示用のペース情報です。
type Report struct {
	Bucket        int     `json:"bucket"`
	Pace          string  `json:"pace"`
	DefenseFactor float64 `json:"defense_factor"`
}

// Report は直近の再計算結果を表示用にまとめます。
func (t *Tracker) Report() Report {
	r := Report{Bucket: t.lastBucket, Pace: "On Pace", DefenseFactor: 1}
	switch {
	case t.offense > 1:
		r.Pace = fmt.Sprintf("Pace: +%.1f min", t.lastDiffMinutes)
		r.DefenseFactor = 1 / t.offense
	case t.defense > 1:
		r.Pace = fmt.Sprintf("Pace: %.1f min", t.lastDiffMinutes)
		r.DefenseFactor = t.defense
	}
	return r
}

func (r Report) String() string {
	return fmt.Sprintf("%d%% HP | %s | %.2fx Def", r.Bucket, r.Pace, r.DefenseFactor)
}
