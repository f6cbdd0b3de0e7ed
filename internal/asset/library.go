package asset

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Library loads and caches meshed models keyed by path.
// Cached assets are shared; treat them as read-only.
type Library struct {
	log    *zap.Logger
	assets map[string]*ModelAsset
	mu     sync.RWMutex

	// Stats
	hits   atomic.Int64
	misses atomic.Int64
}

// NewLibrary creates an empty library. A nil logger discards output.
func NewLibrary(log *zap.Logger) *Library {
	if log == nil {
		log = zap.NewNop()
	}
	return &Library{
		log:    log,
		assets: make(map[string]*ModelAsset),
	}
}

// Get returns the cached model for path, loading and meshing it on a miss.
// Failed loads are not cached.
func (l *Library) Get(path string) (*ModelAsset, error) {
	l.mu.RLock()
	a, ok := l.assets[path]
	l.mu.RUnlock()
	if ok {
		l.hits.Add(1)
		return a, nil
	}
	l.misses.Add(1)

	a = New(l.log)
	if err := a.LoadForSetup(path); err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.assets[path] = a
	l.mu.Unlock()
	return a, nil
}

// Result holds the outcome of loading one path in LoadAll.
type Result struct {
	Path  string
	Asset *ModelAsset
	Err   error
}

// LoadAll loads paths using a pool of workers. Results are in input order.
func (l *Library) LoadAll(paths []string, workers int) []Result {
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(paths))
	var loaded, failed atomic.Int64

	// Worker pool
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				a, err := l.Get(paths[idx])
				results[idx] = Result{Path: paths[idx], Asset: a, Err: err}
				if err != nil {
					failed.Add(1)
				} else {
					loaded.Add(1)
				}
			}
		}()
	}

	// Send work
	for i := range paths {
		jobs <- i
	}
	close(jobs)

	wg.Wait()

	l.log.Info("library load finished",
		zap.Int("models", len(paths)),
		zap.Int64("loaded", loaded.Load()),
		zap.Int64("failed", failed.Load()),
		zap.Int("workers", workers),
	)
	return results
}

// Evict drops path from the cache.
func (l *Library) Evict(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.assets, path)
}

// Len returns the number of cached models.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.assets)
}

// Clear empties the cache and resets statistics.
func (l *Library) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.assets = make(map[string]*ModelAsset)
	l.hits.Store(0)
	l.misses.Store(0)
}

// Stats returns cache statistics.
func (l *Library) Stats() (hits, misses int) {
	return int(l.hits.Load()), int(l.misses.Load())
}
