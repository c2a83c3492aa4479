package appwrite

import (
	"encoding/json"
	"fmt"
)

// Query is one filter of a listDocuments call in the API's string syntax,
// e.g. equal("accountId", ["abc"]).
type Query string

// Equal matches documents whose attribute equals one of the values.
func Equal(attribute string, values ...any) Query {
	b, err := json.Marshal(values)
	if err != nil {
		// values are always plain strings/numbers from our callers
		b = []byte("[]")
	}
	return Query(fmt.Sprintf("equal(%q, %s)", attribute, b))
}

// Limit caps the number of returned documents.
func Limit(n int) Query {
	return Query(fmt.Sprintf("limit(%d)", n))
}
