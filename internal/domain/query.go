package domain

// Query is a parsed free-text price question
type Query struct {
	Raw string `json:"raw"`
	// Store is empty when the question names no store (ask all of them)
	Store    StoreID `json:"store,omitempty"`
	Code     string  `json:"code"`
	FullInfo bool    `json:"fullInfo"`
}

// AllStores reports whether the query targets every configured store
func (q Query) AllStores() bool {
	return q.Store == ""
}
