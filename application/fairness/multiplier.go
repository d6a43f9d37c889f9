package fairness

import "math"

const (
	aliveIntensity      = 0.5
	deathDiffIntensity  = 0.15
	shorthandIntensity  = 0.0003
	ticksPerSecondFloat = 60.0
)

// CombinedMultiplier は欠員率、平均死亡数との差、欠員継続時間の3要素を掛け合わせた被ダメージ倍率を返します。
// 全員生存していれば常に 1 です。死亡差の要素は 1 を下回りません。
func CombinedMultiplier(shorthandedTicks int64, alive, online, totalDeaths, yourDeaths int) float64 {
	if alive >= online || online <= 0 {
		return 1
	}
	participation := 1 + float64(online-alive)/float64(online)*aliveIntensity

	average := float64(totalDeaths) / float64(online)
	death := math.Max(1, 1+(average-float64(yourDeaths))*deathDiffIntensity)

	seconds := float64(shorthandedTicks) / ticksPerSecondFloat
	elapsed := 1 + seconds*seconds*shorthandIntensity

	return participation * death * elapsed
}

// Multiplier は Snapshot を使って CombinedMultiplier を計算します。
func (s Snapshot) Multiplier(totalDeaths, yourDeaths int) float64 {
	return CombinedMultiplier(s.ShorthandedTicks, s.Alive, s.Online, totalDeaths, yourDeaths)
}
