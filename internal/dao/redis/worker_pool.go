package redis

import (
	"sync"

	"go.uber.org/zap"
)

// cacheTask is a deferred cache maintenance action. Tasks run outside the
// request path so a slow or unavailable cache never delays a response.
type cacheTask func()

var (
	taskQueue chan cacheTask
	workerWg  sync.WaitGroup
	poolOnce  sync.Once
	poolQuit  chan struct{}
)

// InitCacheWorker starts workerCount goroutines draining the task queue.
func InitCacheWorker(workerCount, queueSize int) {
	poolOnce.Do(func() {
		taskQueue = make(chan cacheTask, queueSize)
		poolQuit = make(chan struct{})
		for i := 0; i < workerCount; i++ {
			workerWg.Add(1)
			go func() {
				defer workerWg.Done()
				for {
					select {
					case task := <-taskQueue:
						runTask(task)
					case <-poolQuit:
						return
					}
				}
			}()
		}
	})
}

func runTask(task cacheTask) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("cache task panicked", zap.Any("panic", r))
		}
	}()
	task()
}

// SubmitCacheTask enqueues a task without blocking; when the queue is full
// the task is dropped and the cache will self-heal on the next read miss.
func SubmitCacheTask(task cacheTask) {
	if taskQueue == nil {
		task()
		return
	}
	select {
	case taskQueue <- task:
	default:
		zap.L().Warn("cache task queue full, task dropped")
	}
}

// StopCacheWorker drains the workers, for shutdown.
func StopCacheWorker() {
	if poolQuit != nil {
		close(poolQuit)
		workerWg.Wait()
	}
}
