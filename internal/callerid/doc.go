// Package callerid maps return addresses to the module that issued a call.
//
// The shim must only decorate devices registered by one configured target
// driver; every other caller's registrations pass through untouched. A
// detour therefore captures its return address at entry and asks this
// package whether the owning module is the target.
//
// Module identity in Go terms is the package path of the function owning
// a program counter, resolved through the runtime's function metadata.
// The resolution is a borrow of runtime state: nothing is acquired, so
// the filter is safe from any calling context, including inside the
// detour itself.
//
// Failure policy: an address that cannot be resolved is treated as "not
// the target caller", never as an error.
package callerid
