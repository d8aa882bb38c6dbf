package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/room"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/domain/transaction"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/effect"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/pkg/logger"
)

const (
	// roomListCacheTTL は客室一覧キャッシュの有効期間
	// ステータスは頻繁に変わるため短めに設定
	roomListCacheTTL = 30 * time.Second
)

// RoomCache は客室一覧のキャッシュ操作を抽象化する
type RoomCache interface {
	GetRoomList(ctx context.Context) ([]*room.Room, error)
	SetRoomList(ctx context.Context, rooms []*room.Room, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// RoomService は客室の登録とステータス管理を担当する
type RoomService struct {
	txManager transaction.Manager
	roomRepo  room.Repository
	cache     RoomCache
	effects   *effect.Runner
}

// NewRoomService は新しいRoomServiceを作成する
func NewRoomService(tm transaction.Manager, rr room.Repository, cache RoomCache, effects *effect.Runner) *RoomService {
	return &RoomService{
		txManager: tm,
		roomRepo:  rr,
		cache:     cache,
		effects:   effects,
	}
}

// CreateRoom は新しい客室を登録する
// 部屋番号は一意で、ステータス未指定の場合は利用可能で初期化する
func (s *RoomService) CreateRoom(ctx context.Context, number string, status room.Status) (*room.Room, error) {
	if status == "" {
		status = room.StatusAvailable
	}
	rm := room.NewRoom(number, status)
	if err := rm.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.roomRepo.GetByNumber(ctx, number); err == nil {
		return nil, room.ErrRoomNumberTaken
	} else if !errors.Is(err, room.ErrRoomNotFound) {
		return nil, err
	}

	if err := s.roomRepo.Create(ctx, rm); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)

	buf := &effect.Buffer{}
	buf.RecordAudit("ROOM_CREATED",
		fmt.Sprintf("客室 %s を登録（ステータス: %s）", rm.Number, rm.Status), "Room", rm.ID)
	s.effects.Dispatch(ctx, buf)

	return rm, nil
}

// UpdateRoomStatus は客室のステータスを手動で変更する
// 予約ライフサイクルによる自動同期とは独立した運用操作
func (s *RoomService) UpdateRoomStatus(ctx context.Context, id int64, status room.Status) (*room.Room, error) {
	if !room.ValidStatus(status) {
		return nil, room.ErrInvalidRoomStatus
	}
	rm, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.roomRepo.UpdateStatus(ctx, tx, id, status); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	rm.Status = status

	s.invalidateCache(ctx)

	buf := &effect.Buffer{}
	buf.RecordAudit("ROOM_STATUS_CHANGED",
		fmt.Sprintf("客室 %s のステータスを %s に変更", rm.Number, status), "Room", rm.ID)
	s.effects.Dispatch(ctx, buf)

	logger.Info("客室ステータスを変更",
		zap.Int64("room_id", id),
		zap.String("status", string(status)))
	return rm, nil
}

// GetRoom はIDから客室を取得する
func (s *RoomService) GetRoom(ctx context.Context, id int64) (*room.Room, error) {
	return s.roomRepo.GetByID(ctx, id)
}

// ListRooms は全客室を返す
// キャッシュヒット時はDBを参照しない。キャッシュ障害は無視してDBに向かう
func (s *RoomService) ListRooms(ctx context.Context) ([]*room.Room, error) {
	if s.cache != nil {
		if rooms, err := s.cache.GetRoomList(ctx); err == nil && rooms != nil {
			return rooms, nil
		}
	}

	rooms, err := s.roomRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetRoomList(ctx, rooms, roomListCacheTTL); cacheErr != nil {
			logger.Warn("客室一覧のキャッシュ保存に失敗", zap.Error(cacheErr))
		}
	}
	return rooms, nil
}

func (s *RoomService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn("客室一覧キャッシュの無効化に失敗", zap.Error(err))
	}
}
