// Package async provides resolve-once futures for coordinating asynchronous work.
//
// A Future[T] is completed exactly once and can be awaited by any number of
// goroutines, with or without a timeout. It replaces sleep-and-recheck polling
// loops: waiters block on a channel that is closed on completion, so there are
// no missed wake-ups and no busy-waiting.
//
// # Usage
//
// Manual completion (one producer, many waiters):
//
//	f := async.NewFuture[string]()
//
//	go func() {
//		v, err := slowLookup()
//		f.Complete(v, err)
//	}()
//
//	v, err := f.AwaitWithTimeout(3 * time.Second)
//	if errors.Is(err, async.ErrTimeout) {
//		// degrade gracefully, the producer keeps running
//	}
//
// Running a function asynchronously:
//
//	f := async.Run(ctx, func(ctx context.Context) (User, error) {
//		return loadUser(ctx, id)
//	})
//	user, err := f.Await()
//
// A future that timed out for one waiter can still be awaited again later;
// the result is retained once completed.
package async
