// Package completion turns an evolving query fragment into an asynchronous
// stream of suggestion batches.
//
// A Completer owns one worker goroutine. Callers report every keystroke with
// Update; updates that arrive while a request is in flight coalesce so that
// only the latest fragment is requested next, and results for fragments that
// were superseded in the meantime are dropped. Each delivered Batch holds at
// most the configured number of suggestions (five by default) and is never
// empty. Suggester failures are logged and produce no batch.
//
// # Usage
//
//	c, err := completion.NewCompleter(suggester)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	go func() {
//	    for batch := range c.Results() {
//	        // resolve batch.Suggestions
//	    }
//	}()
//	c.Update("blue bot", region)
package completion
