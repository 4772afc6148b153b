package journal

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/openstreets/server/cache"
	"github.com/openstreets/server/model"
)

// Service subscribes to the world event channel and persists the feed
// to the database asynchronously, in batches. It is the durable record
// of what happened in a session: mission outcomes, kills, map changes.
type Service struct {
	db     *gorm.DB
	ch     chan *model.EventLog
	stopCh chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *zap.Logger
}

// envelope matches the world's published event shape.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// New creates a journal Service subscribed to channel on ps and starts
// its background workers.
func New(db *gorm.DB, ps cache.PubSub, channel string, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	msgCh, unsub, err := ps.Subscribe(ctx, channel)
	if err != nil {
		cancel()
		return nil, err
	}

	svc := &Service{
		db:     db,
		ch:     make(chan *model.EventLog, 1024),
		stopCh: make(chan struct{}),
		cancel: cancel,
		logger: logger,
	}

	svc.wg.Add(1)
	go func() {
		defer svc.wg.Done()
		defer unsub()
		for {
			select {
			case msg, ok := <-msgCh:
				if !ok {
					return
				}
				svc.record(msg.Payload)
			case <-svc.stopCh:
				return
			}
		}
	}()

	svc.wg.Add(1)
	go svc.worker()
	return svc, nil
}

// record parses one published event and enqueues it for writing.
func (svc *Service) record(payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil || env.Type == "" {
		return
	}
	entry := &model.EventLog{
		Type:    env.Type,
		Payload: datatypes.JSON(env.Data),
	}
	select {
	case svc.ch <- entry:
	default:
		svc.logger.Warn("journal channel full, dropping event",
			zap.String("type", env.Type))
	}
}

// Stop flushes remaining entries and shuts down the workers.
func (svc *Service) Stop() {
	select {
	case <-svc.stopCh:
	default:
		close(svc.stopCh)
	}
	svc.cancel()
	svc.wg.Wait()
}

func (svc *Service) worker() {
	defer svc.wg.Done()
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	batch := make([]*model.EventLog, 0, 100)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := svc.db.Create(&batch).Error; err != nil {
			svc.logger.Error("journal batch write failed", zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-svc.ch:
			batch = append(batch, entry)
			if len(batch) >= 100 {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-svc.stopCh:
			// Drain remaining entries.
			for {
				select {
				case entry := <-svc.ch:
					batch = append(batch, entry)
				default:
					flush()
					return
				}
			}
		}
	}
}
