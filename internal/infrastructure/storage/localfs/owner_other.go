//go:build !unix

package localfs

func ownedByRoot(string) bool {
	return false
}
