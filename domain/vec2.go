package domain

// Vec2 はワールド座標上の位置を表します。
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// DistanceSquared は平方根を取らずに距離の二乗を返します。
func (v Vec2) DistanceSquared(o Vec2) float64 {
	return v.Sub(o).LengthSquared()
}
