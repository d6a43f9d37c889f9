package domain

// ホストのシミュレーションは毎秒60tickで進む。
const (
	TicksPerSecond = 60
	TicksPerMinute = TicksPerSecond * 60
)

// Tick はホストのシミュレーション時刻です。
type Tick uint64
