package domain

import "github.com/google/uuid"

// BossID はボス個体を識別するIDです。
type BossID string

// CombatantID はボスと戦うプレイヤーを識別するIDです。
type CombatantID string

func NewBossID() BossID {
	return BossID(uuid.NewString())
}

func NewCombatantID() CombatantID {
	return CombatantID(uuid.NewString())
}

func (id BossID) String() string      { return string(id) }
func (id BossID) IsEmpty() bool       { return id == "" }
func (id CombatantID) String() string { return string(id) }
func (id CombatantID) IsEmpty() bool  { return id == "" }
