// Package frame はホストとやり取りする JSON フレームのエンコード・デコードを行います。
package frame

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/touka-aoi/boss-director/application/command"
	"github.com/touka-aoi/boss-director/application/config"
	"github.com/touka-aoi/boss-director/application/request"
	"github.com/touka-aoi/boss-director/domain"
)

var (
	ErrMalformed   = errors.New("frame: malformed frame")
	ErrUnknownType = errors.New("frame: unknown frame type")
)

type Type string

const (
	TypeBossSpawned      Type = "boss_spawned"
	TypeIncomingHit      Type = "incoming_hit"
	TypeWeaponQuery      Type = "weapon_query"
	TypeWeaponHit        Type = "weapon_hit"
	TypeCombatantDamaged Type = "combatant_damaged"
	TypeCombatantDealt   Type = "combatant_dealt"
	TypeCombatantDied    Type = "combatant_died"
	TypeBossRemoved      Type = "boss_removed"
	TypePostUpdate       Type = "post_update"
	TypeSelectTarget     Type = "select_target"
	TypeStats            Type = "stats"
	TypeItemDiscovered   Type = "item_discovered"

	// サーバーからの送信専用
	TypeNotification Type = "notification"
	TypeError        Type = "error"
)

// Inbound はホストから届くフレームです。
type Inbound struct {
	Type      Type            `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

// Outbound はホストへ返すフレームです。
type Outbound struct {
	Type      Type   `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	Payload   any    `json:"payload,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Weapon は武器の指定方法です。key を直接渡すか、アイテム種別か弾種別で指定します。
type Weapon struct {
	Key        domain.WeaponKey       `json:"key,omitempty"`
	Item       domain.ItemType        `json:"item,omitempty"`
	Projectile *domain.ProjectileType `json:"projectile,omitempty"`
	Held       domain.ItemType        `json:"held,omitempty"`
}

// Resolve は武器キーを求めます。
func (w Weapon) Resolve() domain.WeaponKey {
	switch {
	case w.Key != domain.NoWeapon:
		return w.Key
	case w.Projectile != nil:
		return domain.ProjectileKey(*w.Projectile, w.Held)
	default:
		return domain.ItemKey(w.Item)
	}
}

type bossSpawned struct {
	BossID domain.BossID   `json:"boss_id"`
	Name   string          `json:"name"`
	Tick   domain.Tick     `json:"tick"`
	Config json.RawMessage `json:"config,omitempty"`
}

type incomingHit struct {
	BossID         domain.BossID `json:"boss_id"`
	Tick           domain.Tick   `json:"tick"`
	HealthFraction float64       `json:"health_fraction"`
	Damage         float64       `json:"damage"`
}

type weaponQuery struct {
	BossID domain.BossID `json:"boss_id"`
	Weapon Weapon        `json:"weapon"`
}

type weaponHit struct {
	BossID domain.BossID `json:"boss_id"`
	Weapon Weapon        `json:"weapon"`
	Damage float64       `json:"damage"`
}

type combatantDamaged struct {
	CombatantID domain.CombatantID `json:"combatant_id"`
	Name        string             `json:"name"`
	Tick        domain.Tick        `json:"tick"`
	Roster      domain.Roster      `json:"roster"`
	Damage      float64            `json:"damage"`
}

type combatantDealt struct {
	CombatantID domain.CombatantID `json:"combatant_id"`
	Name        string             `json:"name"`
	Damage      float64            `json:"damage"`
}

type combatantRef struct {
	CombatantID domain.CombatantID `json:"combatant_id"`
}

type bossRef struct {
	BossID domain.BossID `json:"boss_id"`
}

type postUpdate struct {
	Tick   domain.Tick   `json:"tick"`
	Roster domain.Roster `json:"roster"`
}

type selectTarget struct {
	BossID   domain.BossID `json:"boss_id"`
	Position domain.Vec2   `json:"position"`
	Roster   domain.Roster `json:"roster"`
}

type itemDiscovered struct {
	CombatantID domain.CombatantID `json:"combatant_id"`
	Name        string             `json:"name"`
	Item        domain.ItemType    `json:"item"`
}

// Decoder は受信フレームを request パッケージの型へ変換します。
type Decoder struct {
	// Defaults は boss_spawned の config で省略された項目を埋める既定値です。
	Defaults config.BossConfig
	// Now は Meta.OccurredAt に使う時刻関数です。nil なら time.Now。
	Now      func() time.Time
	Logger   *slog.Logger
}

func NewDecoder(defaults config.BossConfig) *Decoder {
	return &Decoder{Defaults: defaults, Now: time.Now, Logger: slog.Default()}
}

// bossConfig は config を既定値に重ねます。型の合わない項目は既定値のまま残し、スポーン自体は失敗させません。
func (d *Decoder) bossConfig(id domain.BossID, raw json.RawMessage) *config.BossConfig {
	cfg := d.Defaults
	if err := json.Unmarshal(raw, &cfg); err != nil {
		logger := d.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("boss config field ignored", "boss_id", id, "err", err)
	}
	return &cfg
}

// Decode はフレームを解析し、request パッケージのいずれかの値を返します。
func (d *Decoder) Decode(data []byte) (Inbound, any, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return in, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if in.Type == "" {
		return in, nil, fmt.Errorf("%w: missing type", ErrMalformed)
	}
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	meta := request.Meta{RequestID: in.RequestID, OccurredAt: now()}

	var (
		req any
		err error
	)
	switch in.Type {
	case TypeBossSpawned:
		var p bossSpawned
		if err = unmarshal(in.Payload, &p); err == nil {
			cmd := command.SpawnBoss{BossID: p.BossID, Name: p.Name, Tick: p.Tick}
			if len(p.Config) > 0 {
				cmd.Config = d.bossConfig(p.BossID, p.Config)
			}
			req = request.SpawnBoss{Meta: meta, Command: cmd}
		}
	case TypeIncomingHit:
		var p incomingHit
		if err = unmarshal(in.Payload, &p); err == nil {
			req = request.IncomingHit{Meta: meta, Command: command.IncomingHit(p)}
		}
	case TypeWeaponQuery:
		var p weaponQuery
		if err = unmarshal(in.Payload, &p); err == nil {
			req = request.WeaponQuery{Meta: meta, Command: command.WeaponQuery{BossID: p.BossID, Weapon: p.Weapon.Resolve()}}
		}
	case TypeWeaponHit:
		var p weaponHit
		if err = unmarshal(in.Payload, &p); err == nil {
			req = request.WeaponHit{Meta: meta, Command: command.WeaponHit{BossID: p.BossID, Weapon: p.Weapon.Resolve(), Damage: p.Damage}}
		}
	case TypeCombatantDamaged:
		var p combatantDamaged
		if err = unmarshal(in.Payload, &p); err == nil {
			req = request.CombatantDamaged{Meta: meta, Command: command.CombatantDamaged(p)}
		}
	case TypeCombatantDealt:
		var p combatantDealt
		if err = unmarshal(in.Payload, &p); err == nil {
			req = request.CombatantDealt{Meta: meta, Command: command.CombatantDealt(p)}
		}
	case TypeCombatantDied:
		var p combatantRef
		if err = unmarshal(in.Payload, &p); err == nil {
			req = request.CombatantDied{Meta: meta, Command: command.CombatantDied(p)}
		}
	case TypeBossRemoved:
		var p bossRef
		if err = unmarshal(in.Payload, &p); err == nil {
			req = request.RemoveBoss{Meta: meta, Command: command.BossRemoved(p)}
		}
	case TypePostUpdate:
		var p postUpdate
		if err = unmarshal(in.Payload, &p); err == nil {
			req = request.PostUpdate{Meta: meta, Command: command.PostUpdate(p)}
		}
	case TypeSelectTarget:
		var p selectTarget
		if err = unmarshal(in.Payload, &p); err == nil {
			req = request.SelectTarget{Meta: meta, Command: command.SelectTarget(p)}
		}
	case TypeStats:
		var p combatantRef
		if err = unmarshal(in.Payload, &p); err == nil {
			req = request.Stats{Meta: meta, Command: command.StatsQuery(p)}
		}
	case TypeItemDiscovered:
		var p itemDiscovered
		if err = unmarshal(in.Payload, &p); err == nil {
			req = request.ItemDiscovered{Meta: meta, CombatantID: p.CombatantID, Name: p.Name, Item: p.Item}
		}
	default:
		return in, nil, fmt.Errorf("%w: %q", ErrUnknownType, in.Type)
	}
	if err != nil {
		return in, nil, fmt.Errorf("%w: %s: %v", ErrMalformed, in.Type, err)
	}
	return in, req, nil
}

// 空の payload は全項目省略として扱う。
func unmarshal(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// EncodeReply はリクエストへの応答フレームを作ります。
func EncodeReply(t Type, requestID string, payload any) ([]byte, error) {
	return json.Marshal(Outbound{Type: t, RequestID: requestID, Payload: payload})
}

// EncodeError はエラー応答フレームを作ります。
func EncodeError(t Type, requestID string, cause error) ([]byte, error) {
	if t == "" {
		t = TypeError
	}
	return json.Marshal(Outbound{Type: t, RequestID: requestID, Error: cause.Error()})
}

type notificationPayload struct {
	domain.Notification
	Message string `json:"message"`
}

// EncodeNotification は全セッションへ配信する適応通知フレームを作ります。
func EncodeNotification(n domain.Notification) ([]byte, error) {
	return json.Marshal(Outbound{
		Type:    TypeNotification,
		Payload: notificationPayload{Notification: n, Message: n.Message()},
	})
}
