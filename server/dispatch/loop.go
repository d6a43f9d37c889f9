package dispatch

import (
	"context"
	"fmt"

	"github.com/touka-aoi/boss-director/internal/handler"
)

type result struct {
	payload any
	err     error
}

// job はループへ投入する1リクエスト分の仕事です。
type job struct {
	req   any
	reply chan result
}

// LoopHandler はループ上で Executor を実行し、結果を呼び出し元へ返す handler.Handler を作ります。
func LoopHandler(exec Executor) handler.Handler {
	return handler.HandlerFunc(func(ctx context.Context, req any) error {
		j, ok := req.(job)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnsupportedRequest, req)
		}
		payload, err := exec.Execute(ctx, j.req)
		// エラーは呼び出し元が応答フレームにして返す
		j.reply <- result{payload: payload, err: err}
		return nil
	})
}

// LoopExecutor は全リクエストを単一スレッドのループで直列に実行します。
type LoopExecutor struct {
	loop *handler.Loop
}

var _ Executor = (*LoopExecutor)(nil)

func NewLoopExecutor(loop *handler.Loop) *LoopExecutor {
	return &LoopExecutor{loop: loop}
}

func (e *LoopExecutor) Execute(ctx context.Context, req any) (any, error) {
	j := job{req: req, reply: make(chan result, 1)}
	if err := e.loop.Submit(ctx, j); err != nil {
		return nil, err
	}
	select {
	case r := <-j.reply:
		return r.payload, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
