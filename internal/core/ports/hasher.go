package ports

// Hasher defines the interface for content hashing.
//
//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_hasher.go -package=mocks -source=hasher.go
type Hasher interface {
	// HashFile returns a stable hex digest of the file contents.
	HashFile(path string) (string, error)
}
