// Package scope provides stack-disciplined resource cleanup.
//
// A Scope is an ordered registry of release actions. Resources acquired
// through a scope are released in reverse acquisition order, exactly once,
// when the scope closes — whether the owner returns normally, returns early,
// or fails. Release failures never abort the remaining teardown; they are
// forwarded to the scope's error sink.
//
// # Usage
//
//	s := scope.New()
//	defer s.Close()
//
//	f, err := scope.Acquire(s, "data file", func() (*os.File, error) {
//	    return os.Open(path)
//	}, func(f *os.File) error {
//	    return f.Close()
//	})
//
// Background workers started with Go are waited for during Close, after all
// release actions have run.
package scope
