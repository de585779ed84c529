package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPath is the prefix of all admin api routes.
	APIPath = "/api/v1"

	// TenantQuery is the query parameter selecting the tenant scope.
	// Missing or empty selects the global scope.
	TenantQuery = "tenant"

	// ErrNilDepsFatalLogMsg is used if the router or a dependency is nil.
	ErrNilDepsFatalLogMsg = "router or dependency is nil"
)
