package utils

// XORPrefix writes data[i] ^ key[i] into dst for every byte of key and
// returns the number of bytes written. dst and data must be at least as long
// as key; dst may alias data.
func XORPrefix(dst, data, key []byte) int {
	_ = dst[:len(key)]
	_ = data[:len(key)]
	for i := range key {
		dst[i] = data[i] ^ key[i]
	}
	return len(key)
}

// XORBytes returns a fresh slice holding a[i] ^ b[i] over the shorter of
// the two inputs.
func XORBytes(a, b []byte) []byte {
	n := min(len(a), len(b))
	result := make([]byte, n)
	for i := 0; i < n; i++ {
		result[i] = a[i] ^ b[i]
	}
	return result
}
