// Package sourceviper adapts a *viper.Viper instance as a configuration source.
//
// Keys use viper's dot notation; "Section:Key" and "SECTION__KEY" are accepted too.
//
// Example:
//
//	src, err := sourceviper.FromFile("appsettings.json")
//	if err != nil {
//	    return err
//	}
//	reg := configmgmt.NewRegistry().WithSource(src)
package sourceviper
