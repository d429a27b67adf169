// Package notify propagates build events to interested parties.
//
// A Notifier receives an Event after every compilation attempt. The package
// ships three implementations:
//
//   - MemoryBroadcaster fans events out to in-process subscribers such as the
//     dev server's SSE stream. Slow subscribers lose events instead of
//     blocking the build.
//   - RedisPublisher publishes events as JSON on a Redis pub/sub channel so
//     that other processes can reload their translations.
//   - Multi forwards one event to several notifiers.
//
// Connect opens a Redis client with retries, using a Config that can be
// populated from environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	b := notify.NewMemoryBroadcaster(16)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	go func() {
//		for ev := range sub.Events() {
//			log.Println(ev.Type, ev.BuildID)
//		}
//	}()
//
//	_ = b.Notify(ctx, notify.NewEvent(notify.EventBuilt, buildID, locales))
package notify
