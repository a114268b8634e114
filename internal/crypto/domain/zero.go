package domain

// Zero overwrites a byte slice in place. Key material and decrypted field
// values are zeroed as soon as they are no longer needed so they do not
// linger in heap dumps.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
