package encounter

import "github.com/touka-aoi/boss-director/domain"

// TargetRange はボスが狙うプレイヤーの最大距離です。
const TargetRange = 4800.0

// SelectTarget は範囲内で生存しているプレイヤーのうち、ライフが最も高いものを選びます。
// 同じライフなら近い方を優先します。
func SelectTarget(boss domain.Vec2, roster domain.Roster) (domain.CombatantID, bool) {
	var (
		best     domain.CombatantID
		bestLife int
		bestDist float64
		found    bool
	)
	for _, c := range roster {
		if !c.Alive() {
			continue
		}
		d := boss.DistanceSquared(c.Position)
		if d > TargetRange*TargetRange {
			continue
		}
		if !found || c.Life > bestLife || (c.Life == bestLife && d < bestDist) {
			best, bestLife, bestDist, found = c.ID, c.Life, d, true
		}
	}
	return best, found
}
