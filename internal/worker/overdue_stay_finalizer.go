package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/pkg/logger"
)

// StayFinalizer は滞在期限切れ予約をまとめて完了させるインターフェース
type StayFinalizer interface {
	FinalizeOverdueStays(ctx context.Context) (int, error)
}

// OverdueStayFinalizer は予約終了日を過ぎたACTIVE予約を自動的に
// 完了させるバックグラウンドワーカー
type OverdueStayFinalizer struct {
	reservationService StayFinalizer
	interval           time.Duration
	stopCh             chan struct{}
	doneCh             chan struct{}
}

// NewOverdueStayFinalizer は新しいワーカーを作成
func NewOverdueStayFinalizer(rs StayFinalizer, interval time.Duration) *OverdueStayFinalizer {
	return &OverdueStayFinalizer{
		reservationService: rs,
		interval:           interval,
		stopCh:             make(chan struct{}),
		doneCh:             make(chan struct{}),
	}
}

// Start はワーカーを開始
func (f *OverdueStayFinalizer) Start(ctx context.Context) {
	logger.Info("滞在期限切れ予約ワーカー開始",
		zap.Duration("interval", f.interval),
	)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	defer close(f.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("滞在期限切れ予約ワーカー停止（コンテキストキャンセル）")
			return
		case <-f.stopCh:
			logger.Info("滞在期限切れ予約ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			f.finalize(ctx)
		}
	}
}

// Stop はワーカーを停止
func (f *OverdueStayFinalizer) Stop() {
	close(f.stopCh)
	<-f.doneCh
}

// finalize は期限切れ滞在を完了させる
func (f *OverdueStayFinalizer) finalize(ctx context.Context) {
	log := logger.Get()
	log.Debug("滞在期限切れ予約の確認開始")

	count, err := f.reservationService.FinalizeOverdueStays(ctx)
	if err != nil {
		log.Error("滞在期限切れ予約の完了処理に失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("滞在期限切れ予約を完了", zap.Int("count", count))
	} else {
		log.Debug("滞在期限切れ予約なし")
	}
}
