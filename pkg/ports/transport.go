package ports

// Transport is the byte-level link to an instrument.
// Implementations report failures with domain.ErrorKind values.
type Transport interface {
	// Write sends data and returns the number of bytes actually sent.
	Write(data string) (int, error)

	// Read returns the next reply available from the peer.
	Read() (string, error)
}
