package domain

import "fmt"

// NotificationKind は武器適応の段階を表します。
type NotificationKind uint8

const (
	NotificationBeginning NotificationKind = iota + 1
	NotificationAdapted
	NotificationFurtherAdapted
)

func (k NotificationKind) String() string {
	switch k {
	case NotificationBeginning:
		return "beginning"
	case NotificationAdapted:
		return "adapted"
	case NotificationFurtherAdapted:
		return "further_adapted"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Notification はボスが武器に適応したことをプレイヤーへ知らせるイベントです。
type Notification struct {
	Kind       NotificationKind `json:"kind"`
	BossID     BossID           `json:"boss_id"`
	BossName   string           `json:"boss_name"`
	Weapon     WeaponKey        `json:"weapon"`
	WeaponName string           `json:"weapon_name"`
	Factor     float32          `json:"factor"`
}

// Message はチャットに表示する文言を返します。ボス名が空ならIDで代用します。
func (n Notification) Message() string {
	boss := n.BossName
	if boss == "" {
		boss = n.BossID.String()
	}
	weapon := n.WeaponName
	if weapon == "" {
		weapon = n.Weapon.String()
	}
	switch n.Kind {
	case NotificationBeginning:
		return fmt.Sprintf("%s is beginning to adapt to %s...", boss, weapon)
	case NotificationAdapted:
		return fmt.Sprintf("%s has successfully adapted to %s!", boss, weapon)
	case NotificationFurtherAdapted:
		return fmt.Sprintf("%s has further adapted to %s!", boss, weapon)
	default:
		return ""
	}
}
