package consoleclient

// Navigator abstracts the hosting surface's navigation stack. The response
// interceptor uses it to decide whether a 401 should bounce the user to the
// login entry point, and to perform that bounce by replacing (not pushing)
// the current navigation entry.
type Navigator interface {
	// CurrentPath returns the path of the current navigable location.
	CurrentPath() string
	// Replace navigates to path, replacing the current entry.
	Replace(path string)
}

// NopNavigator is the default for headless embedders (CLIs, background
// jobs): it reports no location and ignores redirects.
type NopNavigator struct{}

func (NopNavigator) CurrentPath() string { return "" }
func (NopNavigator) Replace(string)      {}
