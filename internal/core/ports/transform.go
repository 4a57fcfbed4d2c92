package ports

// Transformer is one stage of the transform pipeline. It receives the output of
// the previous stage and returns the bytes handed to the next one.
// Implementations must be safe for concurrent use.
type Transformer interface {
	Transform(data []byte) ([]byte, error)
}
