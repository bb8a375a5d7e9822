package timing

// NavigationType classifies how the document was reached.
type NavigationType int

const (
	Navigate NavigationType = iota
	Reload
	HistoryTraversal
	UnknownNavigation
)

func (n NavigationType) String() string {
	switch n {
	case Navigate:
		return "navigation"
	case Reload:
		return "reload"
	case HistoryTraversal:
		return "history"
	default:
		return "unknown"
	}
}

// NavigationTypeFromCode maps the host's numeric navigation-type code to a
// NavigationType. The mapping is a direct table: 0 navigation, 1 reload,
// 2 history traversal, anything else (including the reserved 255) unknown.
func NavigationTypeFromCode(code int) NavigationType {
	switch code {
	case 0:
		return Navigate
	case 1:
		return Reload
	case 2:
		return HistoryTraversal
	default:
		return UnknownNavigation
	}
}

// NavigationInfo is the navigation metadata read once from the host at
// construction time and held immutable afterwards.
type NavigationInfo struct {
	Type          NavigationType
	RedirectCount int
}
