// Package registry describes the static topology of a process: which
// dispatcher threads it runs, which components live in each thread, which
// services each component implements and consumes, and which worker threads
// it owns.
//
//	Model
//	└── ThreadEntry            (named dispatcher thread)
//	    └── ComponentEntry     (role name, create/delete functions, data)
//	        ├── ServiceEntry       services the component implements
//	        ├── DependencyEntry    roles whose services it consumes
//	        └── WorkerThreadEntry  auxiliary threads it owns
//
// Every Add method is idempotent by name within its immediate parent: adding
// an existing name returns the existing entry. Lookups never fail: Find
// returns -1 and Get returns the list's invalid entry when a name is absent,
// so callers can chain IsValid checks.
//
// Uniqueness across the whole model (role names, services per thread,
// worker thread names) is checked by Model.Validate, which loaders run once
// the model is complete. Building a model never validates implicitly because
// it may be assembled in several steps.
//
// The Model is not synchronized. It is built at startup and then only read,
// except for SetComponentData.
package registry
