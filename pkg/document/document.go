package document

// Document resolves mount target ids to the containers that host charts.
type Document interface {
	ResolveContainer(id string) (Container, bool)
}

// Container is a page element designated to host one rendered chart.
type Container interface {
	ID() string
	// Mount inserts fragment as the container's chart visual, replacing any
	// fragment mounted earlier. Pre-existing children are left in place.
	Mount(fragment []byte) error
	// Unmount removes the mounted fragment. It is a no-op when nothing is
	// mounted.
	Unmount()
	Mounted() bool
}

// ScriptHost is implemented by documents that can load backend libraries.
type ScriptHost interface {
	// AddScript registers a script URL, reporting false when it is already
	// present.
	AddScript(src string) bool
}
