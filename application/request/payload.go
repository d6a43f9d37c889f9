package request

import (
	"time"

	"github.com/touka-aoi/boss-director/application/command"
	"github.com/touka-aoi/boss-director/domain"
)

// Meta はリクエスト共通のトレーシング情報を保持する。
type Meta struct {
	// RequestID はクライアントから渡された一意な識別子。
	RequestID string
	// OccurredAt はホストでイベントが発生した時刻。
	OccurredAt time.Time
}

type SpawnBoss struct {
	Meta    Meta
	Command command.SpawnBoss
}

type RemoveBoss struct {
	Meta    Meta
	Command command.BossRemoved
}

// IncomingHit はボスへの被弾をダメージ確定前に通知するリクエスト。
type IncomingHit struct {
	Meta    Meta
	Command command.IncomingHit
}

type WeaponQuery struct {
	Meta    Meta
	Command command.WeaponQuery
}

// WeaponHit は確定したダメージを武器に帰属させるリクエスト。
type WeaponHit struct {
	Meta    Meta
	Command command.WeaponHit
}

type CombatantDamaged struct {
	Meta    Meta
	Command command.CombatantDamaged
}

type CombatantDealt struct {
	Meta    Meta
	Command command.CombatantDealt
}

type CombatantDied struct {
	Meta    Meta
	Command command.CombatantDied
}

type PostUpdate struct {
	Meta    Meta
	Command command.PostUpdate
}

type SelectTarget struct {
	Meta    Meta
	Command command.SelectTarget
}

type Stats struct {
	Meta    Meta
	Command command.StatsQuery
}

// ItemDiscovered はプレイヤーが初めてアイテムを入手したことを通知するリクエスト。
type ItemDiscovered struct {
	Meta        Meta
	CombatantID domain.CombatantID
	Name        string
	Item        domain.ItemType
}
