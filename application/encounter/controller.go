// Package encounter はボス1体ぶんの難易度調整をまとめて管理します。
package encounter

import (
	"github.com/touka-aoi/boss-director/application/adaptation"
	"github.com/touka-aoi/boss-director/application/config"
	"github.com/touka-aoi/boss-director/application/pace"
	"github.com/touka-aoi/boss-director/domain"
)

// Controller はボスの生存中だけ存在し、ペースと武器適応の状態を所有します。
type Controller struct {
	id   domain.BossID
	name string
	cfg  config.BossConfig

	pace   *pace.Tracker
	ledger *adaptation.Ledger

	playerDeaths int
}

func NewController(id domain.BossID, name string) *Controller {
	cfg := config.DefaultBossConfig()
	return &Controller{
		id:     id,
		name:   name,
		cfg:    cfg,
		pace:   pace.NewTracker(),
		ledger: adaptation.NewLedger(cfg.Adaptation),
	}
}

// Spawn は状態をリセットし、設定を確定させます。不正な設定値は既定値に置き換えます。
func (c *Controller) Spawn(now domain.Tick, cfg config.BossConfig) {
	c.cfg = cfg.Normalize()
	c.pace.OnSpawn(now, c.cfg.ExpectedMinutes)
	c.ledger.Reset(c.cfg.Adaptation)
	c.playerDeaths = 0
}

// IncomingHit は被弾ごとに呼ばれ、必要ならペース倍率を更新します。
// recomputed はバケットをまたいで倍率を再計算したときに true になります。
func (c *Controller) IncomingHit(now domain.Tick, healthFraction float64) (offense, defense float64, recomputed bool) {
	before := c.pace.LastBucket()
	offense, defense = c.pace.OnDamageEvent(now, healthFraction)
	return offense, defense, c.pace.LastBucket() != before
}

// ApplyPace は現在の攻防倍率をダメージに適用します。
func (c *Controller) ApplyPace(damage float64) float64 {
	off, def := c.pace.Modifiers()
	return pace.Apply(damage, off, def)
}

// WeaponMultiplier は武器適応が有効なときだけ軽減率を返します。
func (c *Controller) WeaponMultiplier(key domain.WeaponKey) float32 {
	if !c.cfg.Adaptation.Enabled {
		return 1
	}
	return c.ledger.Multiplier(key)
}

// RecordWeaponHit は命中後のダメージを記録し、状態遷移があれば通知を返します。
func (c *Controller) RecordWeaponHit(key domain.WeaponKey, damage float64) []domain.Notification {
	if !c.cfg.Adaptation.Enabled {
		return nil
	}
	events := c.ledger.RecordDamage(key, damage)
	if len(events) == 0 {
		return nil
	}
	out := make([]domain.Notification, 0, len(events))
	for _, ev := range events {
		out = append(out, domain.Notification{
			Kind:     ev.Kind,
			BossID:   c.id,
			BossName: c.name,
			Weapon:   ev.Weapon,
			Factor:   ev.Factor,
		})
	}
	return out
}

// RecordDeath はこの戦闘中のプレイヤー死亡数を1増やします。
func (c *Controller) RecordDeath() {
	c.playerDeaths++
}

func (c *Controller) ID() domain.BossID         { return c.id }
func (c *Controller) Name() string              { return c.name }
func (c *Controller) Config() config.BossConfig { return c.cfg }
func (c *Controller) DeathsThisFight() int      { return c.playerDeaths }
func (c *Controller) PaceReport() pace.Report   { return c.pace.Report() }

// TopWeapon は最も多くダメージを与えた武器を返します。
func (c *Controller) TopWeapon() (domain.WeaponKey, float64) {
	return c.ledger.Top()
}
