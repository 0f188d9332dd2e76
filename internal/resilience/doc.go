// Package resilience provides the fault tolerance patterns used around
// external dependencies: circuit breakers guarding the chat provider
// transports and retry logic with exponential backoff for transient
// failures.
//
//	cb := circuitbreaker.New(circuitbreaker.DeliveryConfig("slack"))
//	err := cb.Execute(func() error {
//	    return provider.Deliver(ctx, channel, msg)
//	})
//
//	err := retry.WithBackoff(ctx, retry.DBConfig(), func() error {
//	    return db.PingContext(ctx)
//	})
package resilience
