package domain

import "context"

//go:generate go tool mockgen -destination=./mocks/dispatcher_mock.go -package=mocks . Dispatcher

// Dispatcher はサーバー層からアプリケーション層へのフレーム配送を担当します。
type Dispatcher interface {
	// Dispatch はフレームを処理し、送り返す応答フレームを返します。
	// エラー時も応答フレームが返ることがあります。
	Dispatch(ctx context.Context, data []byte) ([]byte, error)
}
