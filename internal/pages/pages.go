// Package pages holds the route-level controllers. Each page binds its forms
// to store actions and tracks the inline state a view renders: loading,
// field errors and success flags. No page keeps state another page needs.
package pages

// Stat is a labelled dashboard or landing figure.
type Stat struct {
	Label  string
	Value  string
	Change string
}

// Feature is a landing-page selling point.
type Feature struct {
	Title       string
	Description string
}

// QuickAction is a dashboard shortcut.
type QuickAction struct {
	Title       string
	Description string
	Href        string
}
