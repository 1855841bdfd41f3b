// Package telemetry records search pipeline metrics with OpenTelemetry.
//
// Monitor implements search.SearchMonitor and also satisfies the Nominatim
// client's request observer, so one instance can be handed to both:
//
//	mon, err := telemetry.NewMonitor()
//	o, err := search.NewOrchestrator(searcher, search.WithMonitor(mon))
//	p, err := openai.NewProvider(cfg, nominatim.WithObserver(mon))
//
// Instruments are created on the global meter provider unless
// WithMeterProvider is given.
package telemetry
