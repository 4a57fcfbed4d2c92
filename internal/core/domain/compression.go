package domain

// CompressionOptions configures a compression stage of the transform pipeline.
type CompressionOptions struct {
	// Level defines the compression level. Its range depends on the algorithm:
	// zstd accepts 1 (fastest) to 4 (best), gzip accepts 1 to 9.
	Level uint8

	// EncoderConcurrency specifies the number of concurrent compression operations.
	// Zero means the number of CPU cores. Only used by zstd.
	EncoderConcurrency uint8

	// DecoderConcurrency specifies the number of concurrent decompression operations.
	// Zero means the number of CPU cores. Only used by zstd.
	DecoderConcurrency uint8
}
