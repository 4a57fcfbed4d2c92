// Package transform provides byte transforms for the pipeline that are not
// compression: framing, encoding and obfuscation.
package transform

// Func adapts an ordinary function to a pipeline stage.
type Func func(data []byte) ([]byte, error)

// Transform calls f(data).
func (f Func) Transform(data []byte) ([]byte, error) {
	return f(data)
}

// Infallible adapts a function that cannot fail.
func Infallible(fn func(data []byte) []byte) Func {
	return func(data []byte) ([]byte, error) {
		return fn(data), nil
	}
}
