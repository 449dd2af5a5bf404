// Package dispatch decouples key capture from sound playback.
//
// A Channel is a bounded FIFO of logical sound keys with exactly one
// worker goroutine. The capture side calls Send, which never blocks: when
// the queue is full the key is dropped and ErrQueueFull is returned. The
// worker receives keys in send order and hands each one to a Handler.
//
// # Panic Recovery
//
// Handler panics are recovered on the worker and reported through the
// configured PanicHandler, so one bad sample cannot stop playback.
//
// # Shutdown
//
// Stop closes the queue and waits for the worker to drain it. If the
// context expires first, keys still queued are discarded, but Stop keeps
// waiting until the worker has exited. After Stop returns, the handler is
// never called again.
//
// # Usage
//
//	ch := dispatch.New(engine,
//	    dispatch.WithQueueSize(256),
//	    dispatch.WithPanicHandler(func(key string, v any, stack []byte) {
//	        log.Printf("panic playing %s: %v\n%s", key, v, stack)
//	    }),
//	)
//	if err := ch.Start(); err != nil {
//	    return err
//	}
//	_ = ch.Send("30")
//
//	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
//	defer cancel()
//	_ = ch.Stop(ctx)
package dispatch
