package common

// WipeByteArray overwrites the slice contents with zeros. Used to clear
// password bytes once a digest or request has been produced from them.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
