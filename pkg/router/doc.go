// Package router matches service consumers (proxies) with providers (stubs).
//
// ListServiceProxies holds the proxies waiting on, or connected to, one stub
// and implements the fan-out transitions that run when the stub comes up or
// goes away. It is not synchronized; its owner serializes access.
//
// ServiceTable is that owner: it keeps one proxy list per stub identity,
// locks internally, and reports every transition to a protocol logger and to
// Prometheus metrics.
//
// Registering a proxy before its stub:
//
//	table, _ := router.NewServiceTable(router.DefaultConfig())
//	p, _, _ := table.RegisterProxy(proxyAddr)   // p.State() == StatePending
//	_, connected, _ := table.RegisterStub(stubAddr)
//	// connected holds p, now StateConnected and targeting stubAddr
package router
