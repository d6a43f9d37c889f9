// Package fairness はパーティの欠員と死亡数に応じて、被ダメージを補正します。
package fairness

import (
	"math"

	"github.com/touka-aoi/boss-director/domain"
)

// neverRefreshed は一度も集計していないことを表す番兵です。
const neverRefreshed = domain.Tick(math.MaxUint64)

// Snapshot は1tick分の集計結果です。
type Snapshot struct {
	Online           int   `json:"online"`
	Alive            int   `json:"alive"`
	ShorthandedTicks int64 `json:"shorthanded_ticks"`
}

// State は全プレイヤーで共有する集計状態です。呼び出し側で排他してください。
type State struct {
	lastTick domain.Tick
	snap     Snapshot
}

func NewState() *State {
	return &State{
		lastTick: neverRefreshed,
		snap:     Snapshot{Online: 1},
	}
}

// Refresh は同じtick内では一度だけプレイヤー一覧を走査します。
func (s *State) Refresh(now domain.Tick, roster domain.Roster, bossActive bool) Snapshot {
	if s.lastTick == now {
		return s.snap
	}
	s.lastTick = now

	online, alive := 0, 0
	for _, c := range roster {
		if !c.Online() {
			continue
		}
		online++
		if c.Alive() {
			alive++
		}
	}
	s.snap.Online = max(1, online)
	s.snap.Alive = min(alive, s.snap.Online)

	if bossActive && s.snap.Alive < s.snap.Online {
		s.snap.ShorthandedTicks++
	} else {
		s.snap.ShorthandedTicks = 0
	}
	return s.snap
}

// Snapshot は直近の集計結果を返します。
func (s *State) Snapshot() Snapshot {
	return s.snap
}

// Reset は番兵と集計を初期状態に戻します。
func (s *State) Reset() {
	s.lastTick = neverRefreshed
	s.snap = Snapshot{Online: 1}
}
