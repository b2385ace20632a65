// Package registry exposes history providers to consumers under a key.
//
// Each key binds exactly one provider. Defining a second provider under a
// taken key fails with error code H001 and leaves the first binding intact.
// Consumers obtain the provider through an Injector and register for
// invalidation; every change event from the provider invalidates them.
//
//	reg := registry.New()
//	inj, err := reg.Define(registry.DefaultKey, history.NewMemory())
//	if err != nil {
//	    return err
//	}
//	inj.OnInvalidate(func(e history.Event) { view.Rerender() })
package registry
