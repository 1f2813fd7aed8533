// Package configmgmt resolves typed configuration values from ordered, pluggable sources.
//
// Quick Start:
//
//	reg := configmgmt.NewRegistry().
//	    WithSource(sourcefile.New("appsettings.json", sourcefile.Options{})).
//	    WithSource(sourceenv.New(sourceenv.Options{}))
//
//	port := reg.AsInteger("PORT").Fetch().WithTransform(configmgmt.Clamp(1024, 65535)).WithDefault(8080)
//	host := reg.AsString("HOST").Fetch().Require()
//
//	if err := reg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(host.Value(), port.Value())
//
// Every entity collects raw candidates from its sources, then converts, validates,
// transforms, and falls back to a default. The first candidate that survives the
// whole pipeline wins. Results are cached until the entity is reconfigured.
//
// Entities are not safe for concurrent configuration. Configure them during startup
// and hand them to readers afterwards.
package configmgmt
