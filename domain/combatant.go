package domain

import "fmt"

// CombatantState はプレイヤーの状態をビットマスクで表現します。
type CombatantState uint8

const (
	StateActive CombatantState = 1 << 0
	StateDead   CombatantState = 1 << 1
	StateGhost  CombatantState = 1 << 2
)

func (s CombatantState) Has(x CombatantState) bool { return s&x != 0 }

func (s CombatantState) String() string {
	if s == 0 {
		return "none"
	}
	out := ""
	add := func(v string) {
		if out == "" {
			out = v
			return
		}
		out += "|" + v
	}
	if s.Has(StateActive) {
		add("active")
	}
	if s.Has(StateDead) {
		add("dead")
	}
	if s.Has(StateGhost) {
		add("ghost")
	}
	if out == "" {
		return fmt.Sprintf("unknown(%d)", s)
	}
	return out
}

// Combatant はある時点でのプレイヤーのスナップショットです。
type Combatant struct {
	ID       CombatantID    `json:"id"`
	Name     string         `json:"name"`
	Position Vec2           `json:"position"`
	Life     int            `json:"life"`
	State    CombatantState `json:"state"`
}

// Online はスロットが有効 (接続中) かどうかを返します。
func (c Combatant) Online() bool {
	return c.State.Has(StateActive)
}

// Alive は接続中かつ死亡・ゴースト状態でなく、ライフが残っているかを返します。
func (c Combatant) Alive() bool {
	return c.Online() && !c.State.Has(StateDead) && !c.State.Has(StateGhost) && c.Life > 0
}

// Roster はホストから渡されるプレイヤー一覧です。
type Roster []Combatant

// Find はIDでプレイヤーを探します。
func (r Roster) Find(id CombatantID) (Combatant, bool) {
	for _, c := range r {
		if c.ID == id {
			return c, true
		}
	}
	return Combatant{}, false
}
