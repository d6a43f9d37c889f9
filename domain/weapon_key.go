package domain

import (
	"fmt"
	"math"
)

// ItemType はホストのアイテム種別番号です。0 は「アイテムなし」を表します。
type ItemType int32

// ProjectileType はホストの弾種別番号です。
type ProjectileType int32

const ItemNone ItemType = 0

// WeaponKey はダメージの帰属先となる武器を表す符号付き整数です。
// 正の値はアイテム (type+1)、負の値は手持ちアイテムのない弾 -(type+1)、0 は帰属なしです。
type WeaponKey int32

const NoWeapon WeaponKey = 0

// ItemKey はアイテム種別から武器キーを作ります。
// 負の種別と、キーにすると int32 を溢れる種別は帰属なしになります。
func ItemKey(t ItemType) WeaponKey {
	if t <= ItemNone || t == math.MaxInt32 {
		return NoWeapon
	}
	return WeaponKey(t + 1)
}

// ProjectileKey は弾による攻撃の武器キーを作ります。
// 所有者が何か手に持っていればそのアイテムに帰属させ、そうでなければ弾そのものに帰属させます。
func ProjectileKey(proj ProjectileType, ownerHeld ItemType) WeaponKey {
	if key := ItemKey(ownerHeld); key != NoWeapon {
		return key
	}
	if proj < 0 || proj == math.MaxInt32 {
		return NoWeapon
	}
	return WeaponKey(-(proj + 1))
}

func (k WeaponKey) IsItem() bool       { return k > 0 }
func (k WeaponKey) IsProjectile() bool { return k < 0 }

// Item はアイテムキーのときに元のアイテム種別を返します。
func (k WeaponKey) Item() (ItemType, bool) {
	if !k.IsItem() {
		return ItemNone, false
	}
	return ItemType(k - 1), true
}

// Projectile は弾キーのときに元の弾種別を返します。
func (k WeaponKey) Projectile() (ProjectileType, bool) {
	if !k.IsProjectile() {
		return 0, false
	}
	return ProjectileType(-k - 1), true
}

func (k WeaponKey) String() string {
	if t, ok := k.Item(); ok {
		return fmt.Sprintf("item:%d", t)
	}
	if p, ok := k.Projectile(); ok {
		return fmt.Sprintf("projectile:%d", p)
	}
	return "none"
}
