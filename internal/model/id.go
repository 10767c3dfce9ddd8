package model

import "github.com/jaevor/go-nanoid"

var idGenerator func() string

func init() {
	gen, err := nanoid.Standard(15)
	if err != nil {
		panic(err)
	}
	idGenerator = gen
}

// NewID returns a short random document id with an optional prefix
func NewID(prefix string) string {
	return prefix + idGenerator()
}
