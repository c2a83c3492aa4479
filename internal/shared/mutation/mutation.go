// Package mutation は非同期の書き込み操作をラップし、UIが観測できる状態
// （idle/pending/success/error）を公開します。
package mutation

import (
	"context"
	"sync"
)

// Status はミューテーションの状態です。
type Status int

const (
	// StatusIdle はまだ一度も実行されていない、またはResetされた状態です。
	StatusIdle Status = iota
	// StatusPending は実行中の状態です。
	StatusPending
	// StatusSuccess は直近の実行が成功した状態です。
	StatusSuccess
	// StatusError は直近の実行が失敗した状態です。
	StatusError
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Func は1回の呼び出しで実行される下位操作です。
type Func[In, Out any] func(ctx context.Context, in In) (Out, error)

// Mutation はFuncを1回ずつ実行し、その状態と結果を保持します。
// リトライは行いません。1回のMutateは下位操作1回に対応します。
type Mutation[In, Out any] struct {
	fn Func[In, Out]

	mu       sync.RWMutex
	status   Status
	inflight int
	data     Out
	err      error
}

// New はfnをラップしたMutationを生成します。
func New[In, Out any](fn Func[In, Out]) *Mutation[In, Out] {
	return &Mutation[In, Out]{fn: fn}
}

// Mutate はfnを実行し、その結果をそのまま返します。
// 実行中はStatusPendingとなり、終了時に成功/失敗の状態へ遷移します。
func (m *Mutation[In, Out]) Mutate(ctx context.Context, in In) (Out, error) {
	m.mu.Lock()
	m.inflight++
	m.status = StatusPending
	m.mu.Unlock()

	out, err := m.fn(ctx, in)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight--
	if err != nil {
		var zero Out
		m.data, m.err = zero, err
	} else {
		m.data, m.err = out, nil
	}
	// 並行実行が残っている間はpendingのまま
	if m.inflight > 0 {
		m.status = StatusPending
	} else if err != nil {
		m.status = StatusError
	} else {
		m.status = StatusSuccess
	}
	return out, err
}

// Status は現在の状態を返します。
func (m *Mutation[In, Out]) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// IsPending は実行中の場合にtrueを返します。
func (m *Mutation[In, Out]) IsPending() bool {
	return m.Status() == StatusPending
}

// Data は直近の成功結果を返します。
func (m *Mutation[In, Out]) Data() Out {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data
}

// Err は直近の失敗理由を返します。
func (m *Mutation[In, Out]) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

// Reset は実行中でなければ状態をidleに戻します。
func (m *Mutation[In, Out]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inflight > 0 {
		return
	}
	var zero Out
	m.status, m.data, m.err = StatusIdle, zero, nil
}
