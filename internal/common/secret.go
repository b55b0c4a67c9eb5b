// Package common contains small helpers shared by the client packages.
package common

// WipeByteArray zeroes b in place. It is used on passwords read from the
// terminal once they have been sent.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
