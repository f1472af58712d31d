package types

// QueryResult contains the rendered SQL and the named parameters it requires.
type QueryResult struct {
	SQL            string
	RequiredParams []string
}
