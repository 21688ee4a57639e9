package noise

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/annel0/seabed-terrain/internal/logging"
	"github.com/google/uuid"
)

// bakeTask — одна задача запекания: Pending до тех пор, пока фоновая
// горутина не положит готовый растр в result.
type bakeTask struct {
	id        uuid.UUID
	key       string
	startedAt time.Time
	deadline  time.Time
	result    atomic.Pointer[BakedImage]
}

// BakeScheduler ставит поля шума на запекание в фоне и с фиксированным
// интервалом опрашивает готовность, перенося готовые растры в ImageCache.
// Задача, не уложившаяся в таймаут, отбрасывается с диагностикой; запись
// в кеше остаётся отсутствующей, потребители обязаны это переживать.
type BakeScheduler struct {
	cache    *ImageCache
	interval time.Duration
	timeout  time.Duration

	mu    sync.Mutex
	tasks map[string]*bakeTask
}

// NewBakeScheduler создаёт планировщик запекания.
// interval — период опроса (референсное значение 100 мс),
// timeout — предельное ожидание одного запекания.
func NewBakeScheduler(cache *ImageCache, interval, timeout time.Duration) *BakeScheduler {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &BakeScheduler{
		cache:    cache,
		interval: interval,
		timeout:  timeout,
		tasks:    make(map[string]*bakeTask),
	}
}

// Schedule ставит поле в очередь на запекание растра width x height.
// Повторный вызов для ключа, который уже запечён или уже запекается,
// игнорируется.
func (s *BakeScheduler) Schedule(key string, field Field, width, height int) {
	if _, ok := s.cache.Get(key); ok {
		return
	}

	s.mu.Lock()
	if _, running := s.tasks[key]; running {
		s.mu.Unlock()
		return
	}
	task := &bakeTask{
		id:        uuid.New(),
		key:       key,
		startedAt: time.Now(),
		deadline:  time.Now().Add(s.timeout),
	}
	s.tasks[key] = task
	s.mu.Unlock()

	bakePendingTasks.Inc()
	logging.Debug("Запекание шума '%s' поставлено в очередь (task=%s, %dx%d)", key, task.id, width, height)

	go func() {
		img := RenderTileable(field, width, height)
		task.result.Store(img)
	}()
}

// Poll выполняет один тик опроса: промоутит готовые растры в кеш и
// отбрасывает просроченные задачи. Возвращает число промоций.
func (s *BakeScheduler) Poll() int {
	now := time.Now()
	promoted := 0

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, task := range s.tasks {
		if img := task.result.Load(); img != nil {
			s.cache.Put(key, img)
			delete(s.tasks, key)
			promoted++
			bakePendingTasks.Dec()
			bakePromotionsTotal.Inc()
			logging.LogBakePromoted(key, now.Sub(task.startedAt))
			continue
		}
		if s.timeout > 0 && now.After(task.deadline) {
			delete(s.tasks, key)
			bakePendingTasks.Dec()
			bakeTimeoutsTotal.Inc()
			logging.Warn("Запекание шума '%s' не уложилось в %s, задача отброшена (task=%s)",
				key, s.timeout, task.id)
		}
	}
	return promoted
}

// Run крутит цикл опроса до отмены контекста
func (s *BakeScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Poll()
		}
	}
}

// WaitReady блокирует до готовности всех поставленных задач или отмены
// контекста, опрашивая с интервалом планировщика. Удобно на старте,
// когда первые кадры с частично готовыми данными нежелательны.
func (s *BakeScheduler) WaitReady(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		if s.PendingCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Poll()
		}
	}
}

// PendingCount возвращает число незавершённых задач запекания
func (s *BakeScheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
