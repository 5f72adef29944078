// Package scheduler drives segment prefetch: a bounded-concurrency queue
// with two priority bands feeding downloads into the disk cache store.
package scheduler

import (
	"context"

	"github.com/hlsgate/hlsgate/internal/cache"
	"github.com/hlsgate/hlsgate/internal/config"
	"github.com/hlsgate/hlsgate/internal/metrics"
	"github.com/hlsgate/hlsgate/internal/models"
	"github.com/hlsgate/hlsgate/internal/progress"
	"github.com/hlsgate/hlsgate/internal/transport"
)

// MaxConcurrent is the hard ceiling on tasks in flight.
const MaxConcurrent = 3

// highBandSize is how many leading tasks of a batch enter the high band.
// Those are the segments the player needs first.
const highBandSize = 5

// Scheduler owns all queue and counter state from a single goroutine; the
// public methods only post commands to it, so no locking is needed around
// the bands or counters. Task failures are not retried and still count as
// completed; progress communicates "attempts resolved", not correctness.
type Scheduler struct {
	fetcher  transport.Fetcher
	store    *cache.Store
	notifier *progress.Notifier
	cmds     chan command
	done     chan struct{}
}

type command interface{ isCommand() }

type enqueueCmd struct {
	tasks   []models.DownloadTask
	replace bool
}

type taskDoneCmd struct{ failed bool }

type stopCmd struct{}

func (enqueueCmd) isCommand()  {}
func (taskDoneCmd) isCommand() {}
func (stopCmd) isCommand()     {}

// New creates a Scheduler and starts its scheduling goroutine.
func New(fetcher transport.Fetcher, store *cache.Store, notifier *progress.Notifier) *Scheduler {
	s := &Scheduler{
		fetcher:  fetcher,
		store:    store,
		notifier: notifier,
		cmds:     make(chan command, 16),
		done:     make(chan struct{}),
	}
	go s.loop()
	return s
}

// Prefetch starts a fresh batch: the first highBandSize URLs enter the high
// band, the rest the low band, and any previously queued (not yet started)
// tasks are dropped. Running tasks finish or fail naturally. Returns without
// waiting for any download.
func (s *Scheduler) Prefetch(provider string, urls []string) {
	tasks := make([]models.DownloadTask, 0, len(urls))
	for i, url := range urls {
		band := models.BandLow
		if i < highBandSize {
			band = models.BandHigh
		}
		tasks = append(tasks, models.DownloadTask{URL: url, Provider: provider, Band: band})
	}
	s.cmds <- enqueueCmd{tasks: tasks, replace: true}
}

// Enqueue adds a single task to its band without disturbing the batch.
func (s *Scheduler) Enqueue(task models.DownloadTask) {
	s.cmds <- enqueueCmd{tasks: []models.DownloadTask{task}}
}

// Close stops admitting tasks and returns after running tasks have drained.
func (s *Scheduler) Close() {
	s.cmds <- stopCmd{}
	<-s.done
}

// loop is the single scheduling context. high is a stack (most recently
// enqueued runs soonest), low a FIFO queue; both share the concurrency
// budget with high drained first whenever a slot frees.
func (s *Scheduler) loop() {
	defer close(s.done)

	var (
		high     []models.DownloadTask
		low      []models.DownloadTask
		running  int
		total    int
		finished int
		stopping bool
	)

	publish := func() {
		s.notifier.Publish(models.NewProgressSnapshot(total, finished, running))
	}

	admit := func() {
		for running < MaxConcurrent {
			var task models.DownloadTask
			switch {
			case len(high) > 0:
				task = high[len(high)-1]
				high = high[:len(high)-1]
			case len(low) > 0:
				task = low[0]
				low = low[1:]
			default:
				return
			}
			running++
			go s.run(task)
		}
	}

	for cmd := range s.cmds {
		switch c := cmd.(type) {
		case enqueueCmd:
			if stopping {
				continue
			}
			if c.replace {
				high = high[:0]
				low = low[:0]
				total = running
				finished = 0
			}
			for _, task := range c.tasks {
				if task.Band == models.BandHigh {
					high = append(high, task)
				} else {
					low = append(low, task)
				}
				total++
			}
			admit()
			publish()

		case taskDoneCmd:
			running--
			finished++
			if !stopping {
				admit()
			}
			publish()
			if stopping && running == 0 {
				return
			}

		case stopCmd:
			stopping = true
			high = nil
			low = nil
			if running == 0 {
				return
			}
		}
	}
}

// run executes one task outside the scheduling goroutine and reports back.
func (s *Scheduler) run(task models.DownloadTask) {
	failed := s.download(task)
	s.cmds <- taskDoneCmd{failed: failed}
}

// download fetches the task's URL into the cache store. Returns true on
// failure. Already-cached sniff-valid content is a no-op success.
func (s *Scheduler) download(task models.DownloadTask) (failed bool) {
	logger := config.GetLogger()

	if entry := s.store.Has(task.Provider, task.URL); entry != nil {
		logger.Debug().Str("url", task.URL).Msg("Segment already cached, skipping download")
		metrics.SegmentDownloadsTotal.WithLabelValues("cached").Inc()
		return false
	}

	res, err := s.fetcher.Fetch(context.Background(), task.URL, transport.DefaultHeaders(task.Provider))
	if err != nil || !res.OK() || len(res.Body) == 0 {
		logger.Debug().Err(err).Str("url", task.URL).Str("band", task.Band.String()).Msg("Segment download failed")
		metrics.SegmentDownloadsTotal.WithLabelValues("failed").Inc()
		return true
	}

	if _, err := s.store.Put(task.Provider, task.URL, res.Body); err != nil {
		logger.Debug().Err(err).Str("url", task.URL).Msg("Segment cache write failed")
		metrics.SegmentDownloadsTotal.WithLabelValues("failed").Inc()
		return true
	}

	metrics.SegmentDownloadsTotal.WithLabelValues("success").Inc()
	return false
}
