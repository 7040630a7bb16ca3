package callerid

import (
	"runtime"
	"strings"
)

// ReturnAddress captures a program counter from the current call stack.
//
// skip counts frames above the caller of ReturnAddress: 0 returns the
// caller's own PC, 1 its caller, and so on. Returns 0 when the stack is
// shallower than requested; 0 never resolves to a module.
func ReturnAddress(skip int) uintptr {
	pc, _, _, ok := runtime.Caller(skip + 1)
	if !ok {
		return 0
	}
	return pc
}

// ModuleForPC resolves the module identity owning the given program
// counter: the package path of the function the PC falls in.
//
// The lookup borrows runtime metadata; nothing is retained or released.
// Returns false when the PC does not fall in any known function.
func ModuleForPC(pc uintptr) (string, bool) {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "", false
	}
	return packagePath(fn.Name()), true
}

// packagePath extracts the package path from a fully qualified function
// name, e.g. "example.com/driver/internal/hmd.(*Driver).Register" yields
// "example.com/driver/internal/hmd".
func packagePath(funcName string) string {
	slash := strings.LastIndex(funcName, "/")
	dot := strings.Index(funcName[slash+1:], ".")
	if dot < 0 {
		return funcName
	}
	return funcName[:slash+1+dot]
}

// Filter decides whether a return address belongs to the configured
// target module.
//
// It is a pure filter: no side effects, no locking, safe to call from
// any context including re-entrantly from inside a detour.
type Filter struct {
	target string
}

// NewFilter creates a filter matching the given target module identity.
// The target matches a caller whose package path equals it or sits
// anywhere below it.
func NewFilter(targetModule string) *Filter {
	return &Filter{target: targetModule}
}

// Target returns the configured target module identity.
func (f *Filter) Target() string {
	return f.target
}

// IsTargetCaller reports whether the return address resolves to the
// target module. An address that resolves to no module is never the
// target: unidentifiable callers must not be shimmed.
func (f *Filter) IsTargetCaller(returnAddress uintptr) bool {
	if f.target == "" {
		return false
	}
	module, ok := ModuleForPC(returnAddress)
	if !ok {
		return false
	}
	return module == f.target || strings.HasPrefix(module, f.target+"/")
}
